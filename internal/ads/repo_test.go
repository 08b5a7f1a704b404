package ads

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
)

func setupAdsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	advertisements := `
CREATE TABLE IF NOT EXISTS advertisements (
  id TEXT PRIMARY KEY,
  pulperia_id TEXT NOT NULL,
  pulperia_name TEXT NOT NULL,
  plan TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  payment_method TEXT NOT NULL,
  payment_reference TEXT,
  amount REAL NOT NULL,
  duration_days INTEGER NOT NULL,
  start_date DATETIME,
  end_date DATETIME,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(advertisements).Error)
	return db
}

func createTestAd(t *testing.T, db *gorm.DB, pulperiaID string, plan enums.AdPlan, status enums.AdStatus, end *time.Time) *models.Advertisement {
	t.Helper()

	info := Plans[plan]
	ad := &models.Advertisement{
		ID:            ids.New("ad"),
		PulperiaID:    pulperiaID,
		PulperiaName:  "Test",
		Plan:          plan,
		Status:        status,
		PaymentMethod: "transferencia",
		Amount:        info.Price,
		DurationDays:  info.Duration,
		EndDate:       end,
		CreatedAt:     time.Now().UTC(),
	}
	require.NoError(t, db.Create(ad).Error)
	return ad
}

func TestRepositoryFindActiveOrdersByPlanTier(t *testing.T) {
	db := setupAdsTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	future := now.Add(48 * time.Hour)
	past := now.Add(-time.Hour)

	basico := createTestAd(t, db, ids.New("pulperia"), enums.AdPlanBasico, enums.AdStatusActive, &future)
	premium := createTestAd(t, db, ids.New("pulperia"), enums.AdPlanPremium, enums.AdStatusActive, &future)
	destacado := createTestAd(t, db, ids.New("pulperia"), enums.AdPlanDestacado, enums.AdStatusActive, &future)
	createTestAd(t, db, ids.New("pulperia"), enums.AdPlanPremium, enums.AdStatusActive, &past)
	createTestAd(t, db, ids.New("pulperia"), enums.AdPlanPremium, enums.AdStatusPending, &future)

	active, err := repo.FindActive(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, active, 3)
	assert.Equal(t, premium.ID, active[0].ID)
	assert.Equal(t, destacado.ID, active[1].ID)
	assert.Equal(t, basico.ID, active[2].ID)
}

func TestRepositoryFindOpenByStore(t *testing.T) {
	db := setupAdsTestDB(t)
	repo := NewRepository(db)

	pulperia := ids.New("pulperia")
	future := time.Now().UTC().Add(24 * time.Hour)
	pending := createTestAd(t, db, pulperia, enums.AdPlanBasico, enums.AdStatusPending, nil)
	createTestAd(t, db, ids.New("pulperia"), enums.AdPlanBasico, enums.AdStatusActive, &future)

	open, err := repo.FindOpenByStore(context.Background(), pulperia)
	require.NoError(t, err)
	assert.Equal(t, pending.ID, open.ID)

	_, err = repo.FindOpenByStore(context.Background(), ids.New("pulperia"))
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryActivateSetsWindow(t *testing.T) {
	db := setupAdsTestDB(t)
	repo := NewRepository(db)

	ad := createTestAd(t, db, ids.New("pulperia"), enums.AdPlanDestacado, enums.AdStatusPending, nil)

	start := time.Now().UTC().Truncate(time.Second)
	end := start.AddDate(0, 0, ad.DurationDays)
	require.NoError(t, repo.Activate(context.Background(), ad.ID, start, end))

	loaded, err := repo.FindByID(context.Background(), ad.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.AdStatusActive, loaded.Status)
	require.NotNil(t, loaded.StartDate)
	require.NotNil(t, loaded.EndDate)
	assert.WithinDuration(t, start, *loaded.StartDate, time.Second)
	assert.WithinDuration(t, end, *loaded.EndDate, time.Second)
}
