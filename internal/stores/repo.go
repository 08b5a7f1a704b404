package stores

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/lapulperia/lapulperia-backend/pkg/db/models"
)

const listLimit = 100

// ListQuery carries the optional list filters.
type ListQuery struct {
	Search string
	SortBy string
}

// Repository handles pulpería persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to pulpería operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new pulpería row.
func (r *Repository) Create(ctx context.Context, store *models.Store) error {
	if store == nil {
		return fmt.Errorf("store is required")
	}
	return r.db.WithContext(ctx).Create(store).Error
}

// FindByID loads a pulpería by its id.
func (r *Repository) FindByID(ctx context.Context, id string) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// FindByIDs loads the pulperías matching the given ids.
func (r *Repository) FindByIDs(ctx context.Context, ids []string) ([]models.Store, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var stores []models.Store
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

// FindByOwner returns all pulperías owned by the provided user.
func (r *Repository) FindByOwner(ctx context.Context, ownerUserID string) ([]models.Store, error) {
	var stores []models.Store
	if err := r.db.WithContext(ctx).
		Where("owner_user_id = ?", ownerUserID).
		Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

// List returns pulperías matching the query, newest first unless sorted by
// rating. Search matches name or address, case-insensitive.
func (r *Repository) List(ctx context.Context, query ListQuery) ([]models.Store, error) {
	q := r.db.WithContext(ctx).Model(&models.Store{})

	if search := strings.TrimSpace(query.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(address) LIKE ?", pattern, pattern)
	}

	if query.SortBy == "rating" {
		q = q.Order("rating DESC")
	} else {
		q = q.Order("created_at DESC")
	}

	var stores []models.Store
	if err := q.Limit(listLimit).Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

// Update saves the provided pulpería.
func (r *Repository) Update(ctx context.Context, store *models.Store) error {
	if store == nil {
		return fmt.Errorf("store is required")
	}
	return r.db.WithContext(ctx).Save(store).Error
}

// UpdateRating overwrites the aggregated review fields.
func (r *Repository) UpdateRating(ctx context.Context, id string, rating float64, reviewCount int) error {
	return r.db.WithContext(ctx).
		Model(&models.Store{}).
		Where("id = ?", id).
		Updates(map[string]any{"rating": rating, "review_count": reviewCount}).Error
}
