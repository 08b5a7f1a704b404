package orders

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/lapulperia/lapulperia-backend/pkg/db/models"
	"github.com/lapulperia/lapulperia-backend/pkg/enums"
	pkgerrors "github.com/lapulperia/lapulperia-backend/pkg/errors"
)

// totalTolerance absorbs float rounding between the client-computed total
// and the server-side item sum.
const totalTolerance = 0.01

const topProductsLimit = 5

type orderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id string) (*models.Order, error)
	SetStatus(ctx context.Context, id string, status enums.OrderStatus, updatedAt time.Time) error
	FindByCustomer(ctx context.Context, customerUserID string) ([]models.Order, error)
	FindByStores(ctx context.Context, pulperiaIDs []string) ([]models.Order, error)
	FindCompletedByCustomer(ctx context.Context, customerUserID string) ([]models.Order, error)
	FindCompletedByStores(ctx context.Context, pulperiaIDs []string) ([]models.Order, error)
	FindCompletedSince(ctx context.Context, pulperiaIDs []string, since time.Time) ([]models.Order, error)
}

type storeFinder interface {
	FindByID(ctx context.Context, id string) (*models.Store, error)
	FindByOwner(ctx context.Context, ownerUserID string) ([]models.Store, error)
}

type userFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// notifier pushes real-time order frames. Delivery is fire-and-forget; the
// persisted order is the data of record.
type notifier interface {
	Notify(ctx context.Context, order *models.Order, event enums.OrderEvent)
}

// Service owns the order lifecycle: creation, the status state machine, and
// the owner dashboard aggregates.
type Service interface {
	ListMine(ctx context.Context, actorUserID string) ([]models.Order, error)
	Create(ctx context.Context, actorUserID string, input CreateOrderInput) (*models.Order, error)
	SetStatus(ctx context.Context, actorUserID, orderID string, status enums.OrderStatus) (*models.Order, error)
	UpdateStatusFromSocket(ctx context.Context, orderID string, status enums.OrderStatus) error
	Completed(ctx context.Context, actorUserID string) ([]models.Order, error)
	Stats(ctx context.Context, actorUserID, period string) (*StatsDTO, error)
}

type service struct {
	repo     orderRepository
	stores   storeFinder
	users    userFinder
	notifier notifier
	now      func() time.Time
}

// NewService builds an order service with the provided collaborators.
func NewService(repo orderRepository, stores storeFinder, users userFinder, notifier notifier) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if stores == nil {
		return nil, fmt.Errorf("store finder required")
	}
	if users == nil {
		return nil, fmt.Errorf("user finder required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	return &service{
		repo:     repo,
		stores:   stores,
		users:    users,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

// ListMine returns the actor's orders: a cliente sees their own purchases,
// anyone else sees the orders placed at their pulperías.
func (s *service) ListMine(ctx context.Context, actorUserID string) ([]models.Order, error) {
	actor, err := s.loadUser(ctx, actorUserID)
	if err != nil {
		return nil, err
	}

	var orders []models.Order
	if actor.UserType != nil && *actor.UserType == enums.UserTypeCliente {
		orders, err = s.repo.FindByCustomer(ctx, actorUserID)
	} else {
		var storeIDs []string
		storeIDs, err = s.ownedStoreIDs(ctx, actorUserID)
		if err != nil {
			return nil, err
		}
		orders, err = s.repo.FindByStores(ctx, storeIDs)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

// Create persists a pending order and notifies both parties. The
// client-supplied total must match the item sum and the pulpería must exist.
func (s *service) Create(ctx context.Context, actorUserID string, input CreateOrderInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "la orden necesita al menos un producto")
	}
	if math.Abs(input.Items.Total()-input.Total) > totalTolerance {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "el total no coincide con los productos")
	}
	if input.OrderType != "" && !input.OrderType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tipo de orden inválido")
	}

	if _, err := s.stores.FindByID(ctx, input.PulperiaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Pulpería no encontrada")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pulperia")
	}

	order := input.ToModel(actorUserID)
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	s.notifier.Notify(ctx, order, enums.OrderEventNewOrder)
	return order, nil
}

// SetStatus moves an order to the requested status. The actor must be the
// customer or the pulpería owner; any of the five statuses is accepted from
// either party.
func (s *service) SetStatus(ctx context.Context, actorUserID, orderID string, status enums.OrderStatus) (*models.Order, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "estado de orden inválido")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Orden no encontrada")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	store, err := s.stores.FindByID(ctx, order.PulperiaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Pulpería no encontrada")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pulperia")
	}
	if store.OwnerUserID != actorUserID && order.CustomerUserID != actorUserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "No tienes permiso para actualizar esta orden")
	}

	return s.applyStatus(ctx, order, status)
}

// UpdateStatusFromSocket is the websocket shortcut into the state machine.
// It deliberately skips the ownership check; the socket protocol carries no
// authenticated actor.
func (s *service) UpdateStatusFromSocket(ctx context.Context, orderID string, status enums.OrderStatus) error {
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "estado de orden inválido")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Orden no encontrada")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	_, err = s.applyStatus(ctx, order, status)
	return err
}

// applyStatus persists the new status and fans out the matching event. A
// cancellation gets its own event kind; everything else is status_changed.
func (s *service) applyStatus(ctx context.Context, order *models.Order, status enums.OrderStatus) (*models.Order, error) {
	updatedAt := s.now()
	if err := s.repo.SetStatus(ctx, order.ID, status, updatedAt); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}

	order.Status = status
	order.UpdatedAt = &updatedAt

	event := enums.OrderEventStatusChanged
	if status == enums.OrderStatusCancelled {
		event = enums.OrderEventCancelled
	}
	s.notifier.Notify(ctx, order, event)
	return order, nil
}

// Completed returns the actor's finished orders, role-shaped like ListMine.
func (s *service) Completed(ctx context.Context, actorUserID string) ([]models.Order, error) {
	actor, err := s.loadUser(ctx, actorUserID)
	if err != nil {
		return nil, err
	}

	var orders []models.Order
	if actor.UserType != nil && *actor.UserType == enums.UserTypePulperia {
		var storeIDs []string
		storeIDs, err = s.ownedStoreIDs(ctx, actorUserID)
		if err != nil {
			return nil, err
		}
		orders, err = s.repo.FindCompletedByStores(ctx, storeIDs)
	} else {
		orders, err = s.repo.FindCompletedByCustomer(ctx, actorUserID)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list completed orders")
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

// Stats aggregates the owner's completed orders for the period: day covers
// today from midnight UTC, week the trailing 7 days, month the trailing 30.
func (s *service) Stats(ctx context.Context, actorUserID, period string) (*StatsDTO, error) {
	actor, err := s.loadUser(ctx, actorUserID)
	if err != nil {
		return nil, err
	}
	if actor.UserType == nil || *actor.UserType != enums.UserTypePulperia {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "Solo pulperías pueden ver estadísticas")
	}

	storeIDs, err := s.ownedStoreIDs(ctx, actorUserID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var since time.Time
	switch period {
	case "week":
		since = now.AddDate(0, 0, -7)
	case "month":
		since = now.AddDate(0, 0, -30)
	default:
		period = "day"
		since = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}

	orders, err := s.repo.FindCompletedSince(ctx, storeIDs, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load completed orders")
	}
	if orders == nil {
		orders = []models.Order{}
	}

	var revenue float64
	quantities := make(map[string]int)
	for _, order := range orders {
		revenue += order.Total
		for _, item := range order.Items {
			quantities[item.ProductName] += item.Quantity
		}
	}

	top := make([]TopProduct, 0, len(quantities))
	for name, qty := range quantities {
		top = append(top, TopProduct{Name: name, Quantity: qty})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Quantity != top[j].Quantity {
			return top[i].Quantity > top[j].Quantity
		}
		return top[i].Name < top[j].Name
	})
	if len(top) > topProductsLimit {
		top = top[:topProductsLimit]
	}

	stats := &StatsDTO{
		Period:       period,
		TotalOrders:  len(orders),
		TotalRevenue: revenue,
		TopProducts:  top,
		Orders:       orders,
	}
	if stats.TotalOrders > 0 {
		stats.AverageOrder = revenue / float64(stats.TotalOrders)
	}
	return stats, nil
}

func (s *service) loadUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "usuario no encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

func (s *service) ownedStoreIDs(ctx context.Context, ownerUserID string) ([]string, error) {
	stores, err := s.stores.FindByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list owned pulperias")
	}
	ids := make([]string, 0, len(stores))
	for _, store := range stores {
		ids = append(ids, store.ID)
	}
	return ids, nil
}
