package orders

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/lapulperia/lapulperia-backend/pkg/db/models"
	"github.com/lapulperia/lapulperia-backend/pkg/enums"
)

const listLimit = 100

// Repository handles order persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to order operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new order row.
func (r *Repository) Create(ctx context.Context, order *models.Order) error {
	if order == nil {
		return fmt.Errorf("order is required")
	}
	return r.db.WithContext(ctx).Create(order).Error
}

// FindByID loads an order by its id.
func (r *Repository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// SetStatus overwrites the order's status and stamps updated_at.
func (r *Repository) SetStatus(ctx context.Context, id string, status enums.OrderStatus, updatedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": updatedAt}).Error
}

// FindByCustomer returns a customer's orders, newest first.
func (r *Repository) FindByCustomer(ctx context.Context, customerUserID string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.WithContext(ctx).
		Where("customer_user_id = ?", customerUserID).
		Order("created_at DESC").
		Limit(listLimit).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByStores returns orders placed at any of the given pulperías, newest
// first.
func (r *Repository) FindByStores(ctx context.Context, pulperiaIDs []string) ([]models.Order, error) {
	if len(pulperiaIDs) == 0 {
		return nil, nil
	}
	var orders []models.Order
	if err := r.db.WithContext(ctx).
		Where("pulperia_id IN ?", pulperiaIDs).
		Order("created_at DESC").
		Limit(listLimit).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindCompletedByCustomer returns a customer's completed orders.
func (r *Repository) FindCompletedByCustomer(ctx context.Context, customerUserID string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.WithContext(ctx).
		Where("customer_user_id = ? AND status = ?", customerUserID, enums.OrderStatusCompleted).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindCompletedByStores returns completed orders of the given pulperías.
func (r *Repository) FindCompletedByStores(ctx context.Context, pulperiaIDs []string) ([]models.Order, error) {
	if len(pulperiaIDs) == 0 {
		return nil, nil
	}
	var orders []models.Order
	if err := r.db.WithContext(ctx).
		Where("pulperia_id IN ? AND status = ?", pulperiaIDs, enums.OrderStatusCompleted).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindCompletedSince returns completed orders of the given pulperías created
// at or after the cutoff.
func (r *Repository) FindCompletedSince(ctx context.Context, pulperiaIDs []string, since time.Time) ([]models.Order, error) {
	if len(pulperiaIDs) == 0 {
		return nil, nil
	}
	var orders []models.Order
	if err := r.db.WithContext(ctx).
		Where("pulperia_id IN ? AND status = ? AND created_at >= ?", pulperiaIDs, enums.OrderStatusCompleted, since).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindOpenByCustomer returns a customer's not-yet-completed orders, newest
// first, capped for the notification dropdown.
func (r *Repository) FindOpenByCustomer(ctx context.Context, customerUserID string, limit int) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.WithContext(ctx).
		Where("customer_user_id = ? AND status <> ?", customerUserID, enums.OrderStatusCompleted).
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindActionableByStores returns pending and accepted orders of the given
// pulperías, newest first, capped for the notification dropdown.
func (r *Repository) FindActionableByStores(ctx context.Context, pulperiaIDs []string, limit int) ([]models.Order, error) {
	if len(pulperiaIDs) == 0 {
		return nil, nil
	}
	var orders []models.Order
	if err := r.db.WithContext(ctx).
		Where("pulperia_id IN ? AND status IN ?", pulperiaIDs,
			[]enums.OrderStatus{enums.OrderStatusPending, enums.OrderStatusAccepted}).
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
