package orders

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/lapulperia/lapulperia-backend/pkg/db/models"
	"github.com/lapulperia/lapulperia-backend/pkg/enums"
	pkgerrors "github.com/lapulperia/lapulperia-backend/pkg/errors"
	"github.com/lapulperia/lapulperia-backend/pkg/types"
)

type fakeOrderRepo struct {
	orders map[string]*models.Order
	err    error
}

func newFakeOrderRepo(orders ...*models.Order) *fakeOrderRepo {
	repo := &fakeOrderRepo{orders: make(map[string]*models.Order)}
	for _, order := range orders {
		repo.orders[order.ID] = order
	}
	return repo
}

func (f *fakeOrderRepo) Create(_ context.Context, order *models.Order) error {
	if f.err != nil {
		return f.err
	}
	f.orders[order.ID] = order
	return nil
}

func (f *fakeOrderRepo) FindByID(_ context.Context, id string) (*models.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	order, ok := f.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cpy := *order
	return &cpy, nil
}

func (f *fakeOrderRepo) SetStatus(_ context.Context, id string, status enums.OrderStatus, updatedAt time.Time) error {
	if f.err != nil {
		return f.err
	}
	order, ok := f.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	order.Status = status
	order.UpdatedAt = &updatedAt
	return nil
}

func (f *fakeOrderRepo) FindByCustomer(_ context.Context, customerUserID string) ([]models.Order, error) {
	var out []models.Order
	for _, order := range f.orders {
		if order.CustomerUserID == customerUserID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) FindByStores(_ context.Context, pulperiaIDs []string) ([]models.Order, error) {
	var out []models.Order
	for _, order := range f.orders {
		for _, id := range pulperiaIDs {
			if order.PulperiaID == id {
				out = append(out, *order)
			}
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) FindCompletedByCustomer(ctx context.Context, customerUserID string) ([]models.Order, error) {
	all, _ := f.FindByCustomer(ctx, customerUserID)
	return filterCompleted(all), nil
}

func (f *fakeOrderRepo) FindCompletedByStores(ctx context.Context, pulperiaIDs []string) ([]models.Order, error) {
	all, _ := f.FindByStores(ctx, pulperiaIDs)
	return filterCompleted(all), nil
}

func (f *fakeOrderRepo) FindCompletedSince(ctx context.Context, pulperiaIDs []string, since time.Time) ([]models.Order, error) {
	all, _ := f.FindCompletedByStores(ctx, pulperiaIDs)
	var out []models.Order
	for _, order := range all {
		if !order.CreatedAt.Before(since) {
			out = append(out, order)
		}
	}
	return out, nil
}

func filterCompleted(orders []models.Order) []models.Order {
	var out []models.Order
	for _, order := range orders {
		if order.Status == enums.OrderStatusCompleted {
			out = append(out, order)
		}
	}
	return out
}

type fakeStores struct {
	stores map[string]*models.Store
	err    error
}

func (f *fakeStores) FindByID(_ context.Context, id string) (*models.Store, error) {
	if f.err != nil {
		return nil, f.err
	}
	store, ok := f.stores[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return store, nil
}

func (f *fakeStores) FindByOwner(_ context.Context, ownerUserID string) ([]models.Store, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Store
	for _, store := range f.stores {
		if store.OwnerUserID == ownerUserID {
			out = append(out, *store)
		}
	}
	return out, nil
}

type fakeUsers struct {
	users map[string]*models.User
}

func (f *fakeUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

type notifyCall struct {
	order *models.Order
	event enums.OrderEvent
}

type fakeNotifier struct {
	calls []notifyCall
}

func (f *fakeNotifier) Notify(_ context.Context, order *models.Order, event enums.OrderEvent) {
	f.calls = append(f.calls, notifyCall{order: order, event: event})
}

func userTypePtr(t enums.UserType) *enums.UserType { return &t }

func fixtureStore() *models.Store {
	return &models.Store{ID: "pulperia_abc123def456", OwnerUserID: "user_owner00001", Name: "La Esquina"}
}

func fixtureOrder(status enums.OrderStatus) *models.Order {
	return &models.Order{
		ID:             "order_111122223333",
		CustomerUserID: "user_cust000001",
		PulperiaID:     "pulperia_abc123def456",
		Items: types.OrderItems{
			{ProductID: "product_1", ProductName: "Baleada", Quantity: 2, Price: 25},
		},
		Total:     50,
		Status:    status,
		OrderType: enums.OrderTypePickup,
		CreatedAt: time.Now().UTC(),
	}
}

func newTestService(t *testing.T, repo *fakeOrderRepo, stores *fakeStores, users *fakeUsers, notif *fakeNotifier) Service {
	t.Helper()
	svc, err := NewService(repo, stores, users, notif)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCreateOrderStartsPendingAndNotifies(t *testing.T) {
	repo := newFakeOrderRepo()
	stores := &fakeStores{stores: map[string]*models.Store{"pulperia_abc123def456": fixtureStore()}}
	notif := &fakeNotifier{}
	svc := newTestService(t, repo, stores, &fakeUsers{}, notif)

	input := CreateOrderInput{
		PulperiaID: "pulperia_abc123def456",
		Items: types.OrderItems{
			{ProductID: "product_1", ProductName: "Baleada", Quantity: 2, Price: 25},
		},
		Total: 50,
	}

	order, err := svc.Create(context.Background(), "user_cust000001", input)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.Status != enums.OrderStatusPending {
		t.Fatalf("new order status = %q, want pending", order.Status)
	}
	if order.OrderType != enums.OrderTypePickup {
		t.Fatalf("default order type = %q, want pickup", order.OrderType)
	}
	if len(notif.calls) != 1 || notif.calls[0].event != enums.OrderEventNewOrder {
		t.Fatalf("expected one new_order notification, got %+v", notif.calls)
	}
	if _, ok := repo.orders[order.ID]; !ok {
		t.Fatalf("order was not persisted")
	}
}

func TestCreateOrderRejectsMismatchedTotal(t *testing.T) {
	stores := &fakeStores{stores: map[string]*models.Store{"pulperia_abc123def456": fixtureStore()}}
	notif := &fakeNotifier{}
	svc := newTestService(t, newFakeOrderRepo(), stores, &fakeUsers{}, notif)

	input := CreateOrderInput{
		PulperiaID: "pulperia_abc123def456",
		Items: types.OrderItems{
			{ProductID: "product_1", ProductName: "Baleada", Quantity: 2, Price: 25},
		},
		Total: 60,
	}

	_, err := svc.Create(context.Background(), "user_cust000001", input)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(notif.calls) != 0 {
		t.Fatalf("rejected order must not notify")
	}
}

func TestCreateOrderRejectsUnknownStore(t *testing.T) {
	svc := newTestService(t, newFakeOrderRepo(), &fakeStores{stores: map[string]*models.Store{}}, &fakeUsers{}, &fakeNotifier{})

	input := CreateOrderInput{
		PulperiaID: "pulperia_missing",
		Items: types.OrderItems{
			{ProductID: "product_1", ProductName: "Baleada", Quantity: 1, Price: 10},
		},
		Total: 10,
	}

	_, err := svc.Create(context.Background(), "user_cust000001", input)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSetStatusPersistsAnyTargetStatus(t *testing.T) {
	// Deliberately no transition graph: completed back to pending is allowed.
	repo := newFakeOrderRepo(fixtureOrder(enums.OrderStatusCompleted))
	stores := &fakeStores{stores: map[string]*models.Store{"pulperia_abc123def456": fixtureStore()}}
	notif := &fakeNotifier{}
	svc := newTestService(t, repo, stores, &fakeUsers{}, notif)

	order, err := svc.SetStatus(context.Background(), "user_owner00001", "order_111122223333", enums.OrderStatusPending)
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	if order.Status != enums.OrderStatusPending {
		t.Fatalf("status = %q, want pending", order.Status)
	}
	if order.UpdatedAt == nil {
		t.Fatalf("updated_at must be stamped")
	}
	if repo.orders["order_111122223333"].Status != enums.OrderStatusPending {
		t.Fatalf("status change was not persisted")
	}
	if len(notif.calls) != 1 || notif.calls[0].event != enums.OrderEventStatusChanged {
		t.Fatalf("expected one status_changed notification, got %+v", notif.calls)
	}
}

func TestSetStatusByCustomerEmitsCancelledEvent(t *testing.T) {
	repo := newFakeOrderRepo(fixtureOrder(enums.OrderStatusPending))
	stores := &fakeStores{stores: map[string]*models.Store{"pulperia_abc123def456": fixtureStore()}}
	notif := &fakeNotifier{}
	svc := newTestService(t, repo, stores, &fakeUsers{}, notif)

	_, err := svc.SetStatus(context.Background(), "user_cust000001", "order_111122223333", enums.OrderStatusCancelled)
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	if len(notif.calls) != 1 || notif.calls[0].event != enums.OrderEventCancelled {
		t.Fatalf("expected cancelled event, got %+v", notif.calls)
	}
}

func TestSetStatusRejectsStranger(t *testing.T) {
	repo := newFakeOrderRepo(fixtureOrder(enums.OrderStatusPending))
	stores := &fakeStores{stores: map[string]*models.Store{"pulperia_abc123def456": fixtureStore()}}
	notif := &fakeNotifier{}
	svc := newTestService(t, repo, stores, &fakeUsers{}, notif)

	_, err := svc.SetStatus(context.Background(), "user_stranger01", "order_111122223333", enums.OrderStatusAccepted)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if repo.orders["order_111122223333"].Status != enums.OrderStatusPending {
		t.Fatalf("forbidden update must not change the order")
	}
	if len(notif.calls) != 0 {
		t.Fatalf("forbidden update must not notify")
	}
}

func TestSetStatusUnknownOrder(t *testing.T) {
	svc := newTestService(t, newFakeOrderRepo(), &fakeStores{stores: map[string]*models.Store{}}, &fakeUsers{}, &fakeNotifier{})

	_, err := svc.SetStatus(context.Background(), "user_owner00001", "order_missing", enums.OrderStatusReady)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateStatusFromSocketSkipsOwnershipCheck(t *testing.T) {
	repo := newFakeOrderRepo(fixtureOrder(enums.OrderStatusPending))
	stores := &fakeStores{stores: map[string]*models.Store{"pulperia_abc123def456": fixtureStore()}}
	notif := &fakeNotifier{}
	svc := newTestService(t, repo, stores, &fakeUsers{}, notif)

	if err := svc.UpdateStatusFromSocket(context.Background(), "order_111122223333", enums.OrderStatusReady); err != nil {
		t.Fatalf("socket status update: %v", err)
	}
	if repo.orders["order_111122223333"].Status != enums.OrderStatusReady {
		t.Fatalf("status change was not persisted")
	}
	if len(notif.calls) != 1 || notif.calls[0].event != enums.OrderEventStatusChanged {
		t.Fatalf("expected status_changed, got %+v", notif.calls)
	}
}

func TestListMineByRole(t *testing.T) {
	order := fixtureOrder(enums.OrderStatusPending)
	repo := newFakeOrderRepo(order)
	stores := &fakeStores{stores: map[string]*models.Store{"pulperia_abc123def456": fixtureStore()}}
	users := &fakeUsers{users: map[string]*models.User{
		"user_cust000001": {ID: "user_cust000001", UserType: userTypePtr(enums.UserTypeCliente)},
		"user_owner00001": {ID: "user_owner00001", UserType: userTypePtr(enums.UserTypePulperia)},
	}}
	svc := newTestService(t, repo, stores, users, &fakeNotifier{})

	mine, err := svc.ListMine(context.Background(), "user_cust000001")
	if err != nil {
		t.Fatalf("customer list: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != order.ID {
		t.Fatalf("customer must see their order, got %+v", mine)
	}

	owned, err := svc.ListMine(context.Background(), "user_owner00001")
	if err != nil {
		t.Fatalf("owner list: %v", err)
	}
	if len(owned) != 1 || owned[0].ID != order.ID {
		t.Fatalf("owner must see store orders, got %+v", owned)
	}
}

func TestStatsAggregatesCompletedOrders(t *testing.T) {
	now := time.Now().UTC()
	first := fixtureOrder(enums.OrderStatusCompleted)
	first.CreatedAt = now

	second := fixtureOrder(enums.OrderStatusCompleted)
	second.ID = "order_444455556666"
	second.Total = 30
	second.Items = types.OrderItems{
		{ProductID: "product_2", ProductName: "Refresco", Quantity: 3, Price: 10},
	}
	second.CreatedAt = now

	ignored := fixtureOrder(enums.OrderStatusPending)
	ignored.ID = "order_777788889999"
	ignored.CreatedAt = now

	repo := newFakeOrderRepo(first, second, ignored)
	stores := &fakeStores{stores: map[string]*models.Store{"pulperia_abc123def456": fixtureStore()}}
	users := &fakeUsers{users: map[string]*models.User{
		"user_owner00001": {ID: "user_owner00001", UserType: userTypePtr(enums.UserTypePulperia)},
	}}
	svc := newTestService(t, repo, stores, users, &fakeNotifier{})

	stats, err := svc.Stats(context.Background(), "user_owner00001", "week")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Period != "week" {
		t.Fatalf("period = %q", stats.Period)
	}
	if stats.TotalOrders != 2 {
		t.Fatalf("total orders = %d, want 2", stats.TotalOrders)
	}
	if stats.TotalRevenue != 80 {
		t.Fatalf("revenue = %v, want 80", stats.TotalRevenue)
	}
	if stats.AverageOrder != 40 {
		t.Fatalf("average = %v, want 40", stats.AverageOrder)
	}
	if len(stats.TopProducts) != 2 || stats.TopProducts[0].Name != "Refresco" || stats.TopProducts[0].Quantity != 3 {
		t.Fatalf("unexpected top products %+v", stats.TopProducts)
	}
}

func TestStatsForbiddenForClientes(t *testing.T) {
	users := &fakeUsers{users: map[string]*models.User{
		"user_cust000001": {ID: "user_cust000001", UserType: userTypePtr(enums.UserTypeCliente)},
	}}
	svc := newTestService(t, newFakeOrderRepo(), &fakeStores{stores: map[string]*models.Store{}}, users, &fakeNotifier{})

	_, err := svc.Stats(context.Background(), "user_cust000001", "day")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}
