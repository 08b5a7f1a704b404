package products

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/lapulperia/lapulperia-backend/pkg/db/models"
)

const listLimit = 100

// SearchQuery carries the optional catalog filters.
type SearchQuery struct {
	Search   string
	Category string
	SortBy   string
}

// Repository handles product persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to product operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	if product == nil {
		return fmt.Errorf("product is required")
	}
	return r.db.WithContext(ctx).Create(product).Error
}

// FindByID loads a product by its id.
func (r *Repository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByStore returns all products of one pulpería.
func (r *Repository) FindByStore(ctx context.Context, pulperiaID string) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Where("pulperia_id = ?", pulperiaID).
		Limit(listLimit).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Search returns catalog products matching the query. Name match is
// case-insensitive; sort defaults to newest first.
func (r *Repository) Search(ctx context.Context, query SearchQuery) ([]models.Product, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})

	if search := strings.TrimSpace(query.Search); search != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if query.Category != "" {
		q = q.Where("category = ?", query.Category)
	}

	switch query.SortBy {
	case "price_asc":
		q = q.Order("price ASC")
	case "price_desc":
		q = q.Order("price DESC")
	default:
		q = q.Order("created_at DESC")
	}

	var products []models.Product
	if err := q.Limit(listLimit).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Update saves the provided product.
func (r *Repository) Update(ctx context.Context, product *models.Product) error {
	if product == nil {
		return fmt.Errorf("product is required")
	}
	return r.db.WithContext(ctx).Save(product).Error
}

// Delete removes the product row.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}
