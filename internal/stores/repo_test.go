package stores

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lapulperia/lapulperia-backend/pkg/db/models"
	"github.com/lapulperia/lapulperia-backend/pkg/ids"
)

func setupStoresTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	pulperias := `
CREATE TABLE IF NOT EXISTS pulperias (
  id TEXT PRIMARY KEY,
  owner_user_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  address TEXT NOT NULL,
  location TEXT,
  phone TEXT,
  email TEXT,
  website TEXT,
  hours TEXT,
  image_url TEXT,
  logo_url TEXT,
  rating REAL NOT NULL DEFAULT 0,
  review_count INTEGER NOT NULL DEFAULT 0,
  title_font TEXT NOT NULL DEFAULT 'default',
  background_color TEXT NOT NULL DEFAULT '#DC2626',
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(pulperias).Error)
	return db
}

func createTestStore(t *testing.T, db *gorm.DB, owner, name, address string, rating float64) *models.Store {
	t.Helper()

	store := &models.Store{
		ID:              ids.New("pulperia"),
		OwnerUserID:     owner,
		Name:            name,
		Address:         address,
		Rating:          rating,
		TitleFont:       "default",
		BackgroundColor: "#DC2626",
	}
	require.NoError(t, db.Create(store).Error)
	return store
}

func TestRepositoryListSearchMatchesNameAndAddress(t *testing.T) {
	db := setupStoresTestDB(t)
	repo := NewRepository(db)

	owner := ids.New("user")
	byName := createTestStore(t, db, owner, "Pulpería Zamorano", "Col. Centro", 4)
	byAddress := createTestStore(t, db, owner, "La Esquina", "Barrio Zamorano Sur", 3)
	createTestStore(t, db, owner, "Otra Tienda", "Col. Kennedy Norte", 5)

	list, err := repo.List(context.Background(), ListQuery{Search: "zamorano"})
	require.NoError(t, err)
	require.Len(t, list, 2)

	found := map[string]bool{}
	for _, store := range list {
		found[store.ID] = true
	}
	assert.True(t, found[byName.ID])
	assert.True(t, found[byAddress.ID])
}

func TestRepositoryListSortsByRating(t *testing.T) {
	db := setupStoresTestDB(t)
	repo := NewRepository(db)

	owner := ids.New("user")
	low := createTestStore(t, db, owner, "Rating Baja Qx", "Addr", 1.5)
	high := createTestStore(t, db, owner, "Rating Alta Qx", "Addr", 4.8)

	list, err := repo.List(context.Background(), ListQuery{Search: "rating", SortBy: "rating"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, high.ID, list[0].ID)
	assert.Equal(t, low.ID, list[1].ID)
}

func TestRepositoryFindByOwner(t *testing.T) {
	db := setupStoresTestDB(t)
	repo := NewRepository(db)

	owner := ids.New("user")
	mine := createTestStore(t, db, owner, "Mi Tienda", "Addr", 0)
	createTestStore(t, db, ids.New("user"), "Ajena", "Addr", 0)

	list, err := repo.FindByOwner(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ID)
}

func TestRepositoryUpdateRating(t *testing.T) {
	db := setupStoresTestDB(t)
	repo := NewRepository(db)

	store := createTestStore(t, db, ids.New("user"), "Con Reviews", "Addr", 0)

	require.NoError(t, repo.UpdateRating(context.Background(), store.ID, 4.3, 7))

	loaded, err := repo.FindByID(context.Background(), store.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.3, loaded.Rating)
	assert.Equal(t, 7, loaded.ReviewCount)
}
