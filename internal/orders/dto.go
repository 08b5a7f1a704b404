package orders

import (
	"github.com/lapulperia/lapulperia-backend/pkg/db/models"
	"github.com/lapulperia/lapulperia-backend/pkg/enums"
	"github.com/lapulperia/lapulperia-backend/pkg/ids"
	"github.com/lapulperia/lapulperia-backend/pkg/types"
)

// CreateOrderInput carries a new order request.
type CreateOrderInput struct {
	PulperiaID string
	Items      types.OrderItems
	Total      float64
	OrderType  enums.OrderType
}

// ToModel prepares a new order row for the given customer. Every order
// starts pending.
func (in CreateOrderInput) ToModel(customerUserID string) *models.Order {
	orderType := in.OrderType
	if orderType == "" {
		orderType = enums.OrderTypePickup
	}
	return &models.Order{
		ID:             ids.New("order"),
		CustomerUserID: customerUserID,
		PulperiaID:     in.PulperiaID,
		Items:          in.Items,
		Total:          in.Total,
		Status:         enums.OrderStatusPending,
		OrderType:      orderType,
	}
}

// TopProduct is one entry in the stats ranking.
type TopProduct struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// StatsDTO is the owner dashboard aggregate for one period.
type StatsDTO struct {
	Period       string         `json:"period"`
	TotalOrders  int            `json:"total_orders"`
	TotalRevenue float64        `json:"total_revenue"`
	AverageOrder float64        `json:"average_order"`
	TopProducts  []TopProduct   `json:"top_products"`
	Orders       []models.Order `json:"orders"`
}
