package orders

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lapulperia/lapulperia-backend/pkg/db/models"
	"github.com/lapulperia/lapulperia-backend/pkg/enums"
	"github.com/lapulperia/lapulperia-backend/pkg/ids"
	"github.com/lapulperia/lapulperia-backend/pkg/types"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  customer_user_id TEXT NOT NULL,
  pulperia_id TEXT NOT NULL,
  items TEXT,
  total REAL NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  order_type TEXT NOT NULL DEFAULT 'pickup',
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(orders).Error)
	return db
}

func createTestOrder(t *testing.T, db *gorm.DB, customerID, pulperiaID string, status enums.OrderStatus, total float64, created time.Time) *models.Order {
	t.Helper()

	order := &models.Order{
		ID:             ids.New("order"),
		CustomerUserID: customerID,
		PulperiaID:     pulperiaID,
		Items: types.OrderItems{
			{ProductID: ids.New("product"), ProductName: "Refresco", Quantity: 1, Price: total},
		},
		Total:     total,
		Status:    status,
		OrderType: enums.OrderTypePickup,
		CreatedAt: created,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestRepositoryFindByCustomerNewestFirst(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	customer := ids.New("user")
	pulperia := ids.New("pulperia")
	now := time.Now().UTC()

	older := createTestOrder(t, db, customer, pulperia, enums.OrderStatusPending, 20, now.Add(-time.Hour))
	newer := createTestOrder(t, db, customer, pulperia, enums.OrderStatusPending, 35, now)
	createTestOrder(t, db, ids.New("user"), pulperia, enums.OrderStatusPending, 10, now)

	list, err := repo.FindByCustomer(context.Background(), customer)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)
}

func TestRepositorySetStatusStampsUpdatedAt(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	order := createTestOrder(t, db, ids.New("user"), ids.New("pulperia"), enums.OrderStatusPending, 50, time.Now().UTC())

	stamp := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.SetStatus(context.Background(), order.ID, enums.OrderStatusAccepted, stamp))

	loaded, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusAccepted, loaded.Status)
	require.NotNil(t, loaded.UpdatedAt)
	assert.WithinDuration(t, stamp, *loaded.UpdatedAt, time.Second)
}

func TestRepositoryFindCompletedSinceFiltersWindow(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	pulperia := ids.New("pulperia")
	now := time.Now().UTC()

	recent := createTestOrder(t, db, ids.New("user"), pulperia, enums.OrderStatusCompleted, 40, now.Add(-time.Hour))
	createTestOrder(t, db, ids.New("user"), pulperia, enums.OrderStatusCompleted, 60, now.Add(-48*time.Hour))
	createTestOrder(t, db, ids.New("user"), pulperia, enums.OrderStatusPending, 25, now)

	list, err := repo.FindCompletedSince(context.Background(), []string{pulperia}, now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, recent.ID, list[0].ID)
}

func TestRepositoryFindOpenByCustomerExcludesCompleted(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	customer := ids.New("user")
	pulperia := ids.New("pulperia")
	now := time.Now().UTC()

	open := createTestOrder(t, db, customer, pulperia, enums.OrderStatusReady, 15, now)
	createTestOrder(t, db, customer, pulperia, enums.OrderStatusCompleted, 30, now)

	list, err := repo.FindOpenByCustomer(context.Background(), customer, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, open.ID, list[0].ID)
}

func TestRepositoryFindActionableByStores(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	pulperia := ids.New("pulperia")
	now := time.Now().UTC()

	pending := createTestOrder(t, db, ids.New("user"), pulperia, enums.OrderStatusPending, 10, now)
	accepted := createTestOrder(t, db, ids.New("user"), pulperia, enums.OrderStatusAccepted, 20, now.Add(-time.Minute))
	createTestOrder(t, db, ids.New("user"), pulperia, enums.OrderStatusReady, 30, now)
	createTestOrder(t, db, ids.New("user"), pulperia, enums.OrderStatusCancelled, 40, now)

	list, err := repo.FindActionableByStores(context.Background(), []string{pulperia}, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, pending.ID, list[0].ID)
	assert.Equal(t, accepted.ID, list[1].ID)

	empty, err := repo.FindActionableByStores(context.Background(), nil, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRepositoryItemsRoundTrip(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	order := createTestOrder(t, db, ids.New("user"), ids.New("pulperia"), enums.OrderStatusPending, 12.5, time.Now().UTC())

	loaded, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, "Refresco", loaded.Items[0].ProductName)
	assert.Equal(t, 12.5, loaded.Items[0].Price)
}
