package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/lapulperia/lapulperia-backend/pkg/db/models"
	"github.com/lapulperia/lapulperia-backend/pkg/enums"
	pkgerrors "github.com/lapulperia/lapulperia-backend/pkg/errors"
	"github.com/lapulperia/lapulperia-backend/pkg/ids"
)

// feedLimit caps the dropdown feed length.
const feedLimit = 10

type orderFeed interface {
	FindOpenByCustomer(ctx context.Context, customerUserID string, limit int) ([]models.Order, error)
	FindActionableByStores(ctx context.Context, pulperiaIDs []string, limit int) ([]models.Order, error)
}

type storeFinder interface {
	FindByOwner(ctx context.Context, ownerUserID string) ([]models.Store, error)
}

type userFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// NotificationDTO is one entry of the profile dropdown feed. It is derived
// from the orders store on read; nothing is persisted.
type NotificationDTO struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Status    enums.OrderStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
}

// customerStatusLines maps an open order's status to the dropdown text.
var customerStatusLines = map[enums.OrderStatus]string{
	enums.OrderStatusPending:   "Esperando confirmación",
	enums.OrderStatusAccepted:  "¡Orden aceptada!",
	enums.OrderStatusReady:     "¡Tu orden está lista!",
	enums.OrderStatusCancelled: "Orden cancelada",
}

// Service exposes the role-shaped notification feed.
type Service interface {
	Feed(ctx context.Context, actorUserID string) ([]NotificationDTO, error)
}

type service struct {
	orders orderFeed
	stores storeFinder
	users  userFinder
}

// NewService builds a notification service with the provided collaborators.
func NewService(orders orderFeed, stores storeFinder, users userFinder) (Service, error) {
	if orders == nil {
		return nil, fmt.Errorf("order feed required")
	}
	if stores == nil {
		return nil, fmt.Errorf("store finder required")
	}
	if users == nil {
		return nil, fmt.Errorf("user finder required")
	}
	return &service{orders: orders, stores: stores, users: users}, nil
}

// Feed returns pending work for owners and status updates for customers.
func (s *service) Feed(ctx context.Context, actorUserID string) ([]NotificationDTO, error) {
	actor, err := s.users.FindByID(ctx, actorUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "usuario no encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	if actor.UserType != nil && *actor.UserType == enums.UserTypePulperia {
		return s.ownerFeed(ctx, actorUserID)
	}
	return s.customerFeed(ctx, actorUserID)
}

func (s *service) ownerFeed(ctx context.Context, ownerUserID string) ([]NotificationDTO, error) {
	stores, err := s.stores.FindByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list owned pulperias")
	}
	storeIDs := make([]string, 0, len(stores))
	for _, store := range stores {
		storeIDs = append(storeIDs, store.ID)
	}

	orders, err := s.orders.FindActionableByStores(ctx, storeIDs, feedLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load actionable orders")
	}

	feed := make([]NotificationDTO, 0, len(orders))
	for _, order := range orders {
		feed = append(feed, NotificationDTO{
			ID:        order.ID,
			Type:      "order",
			Title:     fmt.Sprintf("Orden #%s", ids.Short(order.ID)),
			Message:   fmt.Sprintf("%d productos - L%.2f", len(order.Items), order.Total),
			Status:    order.Status,
			CreatedAt: order.CreatedAt,
		})
	}
	return feed, nil
}

func (s *service) customerFeed(ctx context.Context, customerUserID string) ([]NotificationDTO, error) {
	orders, err := s.orders.FindOpenByCustomer(ctx, customerUserID, feedLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load open orders")
	}

	feed := make([]NotificationDTO, 0, len(orders))
	for _, order := range orders {
		line, ok := customerStatusLines[order.Status]
		if !ok {
			line = order.Status.String()
		}
		feed = append(feed, NotificationDTO{
			ID:        order.ID,
			Type:      "order_status",
			Title:     fmt.Sprintf("Orden #%s", ids.Short(order.ID)),
			Message:   line,
			Status:    order.Status,
			CreatedAt: order.CreatedAt,
		})
	}
	return feed, nil
}
