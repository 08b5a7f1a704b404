package ads

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/lapulperia/lapulperia-backend/pkg/db/models"
	"github.com/lapulperia/lapulperia-backend/pkg/enums"
)

const listLimit = 100

const featuredLimit = 20

// Repository handles advertisement persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to advertisement operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new advertisement row.
func (r *Repository) Create(ctx context.Context, ad *models.Advertisement) error {
	if ad == nil {
		return fmt.Errorf("advertisement is required")
	}
	return r.db.WithContext(ctx).Create(ad).Error
}

// FindByID loads an advertisement by its id.
func (r *Repository) FindByID(ctx context.Context, id string) (*models.Advertisement, error) {
	var ad models.Advertisement
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ad).Error; err != nil {
		return nil, err
	}
	return &ad, nil
}

// FindByStores returns the ads of the given pulperías, newest first.
func (r *Repository) FindByStores(ctx context.Context, pulperiaIDs []string) ([]models.Advertisement, error) {
	if len(pulperiaIDs) == 0 {
		return nil, nil
	}
	var ads []models.Advertisement
	if err := r.db.WithContext(ctx).
		Where("pulperia_id IN ?", pulperiaIDs).
		Order("created_at DESC").
		Limit(listLimit).
		Find(&ads).Error; err != nil {
		return nil, err
	}
	return ads, nil
}

// FindOpenByStore loads a store's pending or active ad, if one exists.
func (r *Repository) FindOpenByStore(ctx context.Context, pulperiaID string) (*models.Advertisement, error) {
	var ad models.Advertisement
	if err := r.db.WithContext(ctx).
		Where("pulperia_id = ? AND status IN ?", pulperiaID,
			[]enums.AdStatus{enums.AdStatusPending, enums.AdStatusActive}).
		First(&ad).Error; err != nil {
		return nil, err
	}
	return &ad, nil
}

// FindActive returns unexpired active ads ordered by plan tier then recency.
// The plan values sort descending into premium, destacado, basico.
func (r *Repository) FindActive(ctx context.Context, now time.Time) ([]models.Advertisement, error) {
	var ads []models.Advertisement
	if err := r.db.WithContext(ctx).
		Where("status = ? AND end_date >= ?", enums.AdStatusActive, now).
		Order("plan DESC").
		Order("created_at DESC").
		Limit(featuredLimit).
		Find(&ads).Error; err != nil {
		return nil, err
	}
	return ads, nil
}

// Activate marks the ad active with its running window.
func (r *Repository) Activate(ctx context.Context, id string, start, end time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Advertisement{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     enums.AdStatusActive,
			"start_date": start,
			"end_date":   end,
		}).Error
}
