package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/lapulperia/lapulperia-backend/pkg/db/models"
)

const listLimit = 100

// ListQuery carries the optional directory filters.
type ListQuery struct {
	Category string
	Search   string
}

// Repository handles service listing persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to service listing operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new listing row.
func (r *Repository) Create(ctx context.Context, listing *models.ServiceListing) error {
	if listing == nil {
		return fmt.Errorf("listing is required")
	}
	return r.db.WithContext(ctx).Create(listing).Error
}

// FindByID loads a listing by its id.
func (r *Repository) FindByID(ctx context.Context, id string) (*models.ServiceListing, error) {
	var listing models.ServiceListing
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&listing).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

// List returns directory listings matching the query, newest first. Search
// matches title or description, case-insensitive.
func (r *Repository) List(ctx context.Context, query ListQuery) ([]models.ServiceListing, error) {
	q := r.db.WithContext(ctx).Model(&models.ServiceListing{})

	if query.Category != "" {
		q = q.Where("category = ?", query.Category)
	}
	if search := strings.TrimSpace(query.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	var listings []models.ServiceListing
	if err := q.Order("created_at DESC").Limit(listLimit).Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// Delete removes the listing row.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ServiceListing{}).Error
}
