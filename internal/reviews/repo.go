package reviews

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/lapulperia/lapulperia-backend/pkg/db/models"
)

const listLimit = 100

// Repository handles review persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to review operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new review row.
func (r *Repository) Create(ctx context.Context, review *models.Review) error {
	if review == nil {
		return fmt.Errorf("review is required")
	}
	return r.db.WithContext(ctx).Create(review).Error
}

// FindByStore returns a pulpería's reviews, newest first.
func (r *Repository) FindByStore(ctx context.Context, pulperiaID string) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.WithContext(ctx).
		Where("pulperia_id = ?", pulperiaID).
		Order("created_at DESC").
		Limit(listLimit).
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// FindByStoreAndUser loads the one review a user may have left for a store.
func (r *Repository) FindByStoreAndUser(ctx context.Context, pulperiaID, userID string) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).
		Where("pulperia_id = ? AND user_id = ?", pulperiaID, userID).
		First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// Aggregate returns the review count and average rating for a store.
func (r *Repository) Aggregate(ctx context.Context, pulperiaID string) (int, float64, error) {
	type row struct {
		Count int
		Avg   float64
	}
	var result row
	if err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("COUNT(*) AS count, COALESCE(AVG(rating), 0) AS avg").
		Where("pulperia_id = ?", pulperiaID).
		Scan(&result).Error; err != nil {
		return 0, 0, err
	}
	return result.Count, result.Avg, nil
}
