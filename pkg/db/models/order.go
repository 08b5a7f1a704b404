package models

import (
	"time"

	"github.com/lapulperia/lapulperia-backend/pkg/enums"
	"github.com/lapulperia/lapulperia-backend/pkg/types"
)

// Order represents a single purchase request from a customer to a pulpería.
// Orders are never hard-deleted; cancellation is a terminal status.
type Order struct {
	ID             string            `gorm:"column:id;primaryKey" json:"order_id"`
	CustomerUserID string            `gorm:"column:customer_user_id;not null;index" json:"customer_user_id"`
	PulperiaID     string            `gorm:"column:pulperia_id;not null;index" json:"pulperia_id"`
	Items          types.OrderItems  `gorm:"column:items;type:jsonb;serializer:json" json:"items"`
	Total          float64           `gorm:"column:total;not null" json:"total"`
	Status         enums.OrderStatus `gorm:"column:status;not null;default:'pending'" json:"status"`
	OrderType      enums.OrderType   `gorm:"column:order_type;not null;default:'pickup'" json:"order_type"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      *time.Time        `gorm:"column:updated_at" json:"updated_at,omitempty"`
}
