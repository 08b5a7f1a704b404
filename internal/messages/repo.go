package messages

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/lapulperia/lapulperia-backend/pkg/db/models"
)

const listLimit = 100

// Repository handles direct message persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to message operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new message row.
func (r *Repository) Create(ctx context.Context, message *models.Message) error {
	if message == nil {
		return fmt.Errorf("message is required")
	}
	return r.db.WithContext(ctx).Create(message).Error
}

// FindForUser returns messages the user sent or received, newest first.
func (r *Repository) FindForUser(ctx context.Context, userID string) ([]models.Message, error) {
	var messages []models.Message
	if err := r.db.WithContext(ctx).
		Where("from_user_id = ? OR to_user_id = ?", userID, userID).
		Order("created_at DESC").
		Limit(listLimit).
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}
