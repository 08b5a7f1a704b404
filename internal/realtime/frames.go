package realtime

import (
	"time"

	"github.com/lapulperia/lapulperia-backend/pkg/db/models"
	"github.com/lapulperia/lapulperia-backend/pkg/enums"
	"github.com/lapulperia/lapulperia-backend/pkg/types"
)

// Frame type discriminators shared by both directions of the socket protocol.
const (
	FrameConnected         = "connected"
	FramePing              = "ping"
	FramePong              = "pong"
	FrameOrderUpdate       = "order_update"
	FrameUpdateOrderStatus = "update_order_status"
)

// Notification targets.
const (
	TargetOwner    = "owner"
	TargetCustomer = "customer"
)

// CloseInvalidUserID is sent when the path user id fails minimum-length
// validation before registration.
const CloseInvalidUserID = 4001

// InboundFrame is the envelope clients send over the socket.
type InboundFrame struct {
	Type    string `json:"type"`
	OrderID string `json:"order_id,omitempty"`
	Status  string `json:"status,omitempty"`
}

// ControlFrame covers connected/ping/pong traffic.
type ControlFrame struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	UserID  string `json:"user_id,omitempty"`
}

// OrderSnapshot is the normalized order view pushed to both parties. The
// content is identical for owner and customer; only the wrapping differs.
type OrderSnapshot struct {
	OrderID        string            `json:"order_id"`
	CustomerUserID string            `json:"customer_user_id"`
	PulperiaID     string            `json:"pulperia_id"`
	Items          types.OrderItems  `json:"items"`
	Total          float64           `json:"total"`
	Status         enums.OrderStatus `json:"status"`
	OrderType      enums.OrderType   `json:"order_type"`
	CreatedAt      time.Time         `json:"created_at"`
}

// OrderUpdateFrame is the role-specific notification pushed on every order
// mutation. It is ephemeral; nothing here is persisted.
type OrderUpdateFrame struct {
	Type      string            `json:"type"`
	Event     enums.OrderEvent  `json:"event"`
	Order     OrderSnapshot     `json:"order"`
	Timestamp string            `json:"timestamp"`
	Target    string            `json:"target"`
	Message   string            `json:"message"`
	Sound     bool              `json:"sound"`
}

// SnapshotOrder flattens a persisted order into its wire representation.
func SnapshotOrder(order *models.Order) OrderSnapshot {
	if order == nil {
		return OrderSnapshot{}
	}
	items := order.Items
	if items == nil {
		items = types.OrderItems{}
	}
	return OrderSnapshot{
		OrderID:        order.ID,
		CustomerUserID: order.CustomerUserID,
		PulperiaID:     order.PulperiaID,
		Items:          items,
		Total:          order.Total,
		Status:         order.Status,
		OrderType:      order.OrderType,
		CreatedAt:      order.CreatedAt,
	}
}
