package events

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/velvethq/velvet-backend/pkg/db/models"
	"github.com/velvethq/velvet-backend/pkg/enums"
)

func setupEventsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS events (
  id TEXT PRIMARY KEY,
  venue_id TEXT NOT NULL,
  name TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'draft',
  currency_code TEXT NOT NULL DEFAULT 'USD',
  tags TEXT,
  starts_at DATETIME,
  ends_at DATETIME,
  closeout_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedEvent(t *testing.T, db *gorm.DB) *models.Event {
	t.Helper()
	event := &models.Event{
		ID:           uuid.New(),
		VenueID:      uuid.New(),
		Name:         "Closing Night",
		Status:       enums.EventStatusFinished,
		CurrencyCode: enums.CurrencyUSD,
		StartsAt:     time.Now().Add(-6 * time.Hour),
	}
	require.NoError(t, db.Create(event).Error)
	return event
}

func TestRepositoryFindByID(t *testing.T) {
	db := setupEventsTestDB(t)
	repo := NewRepository(db)
	seeded := seedEvent(t, db)

	found, err := repo.FindByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, found.ID)
	assert.Equal(t, enums.EventStatusFinished, found.Status)
	assert.Nil(t, found.CloseoutAt)

	_, err = repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryFinalizeCloseoutIsConditional(t *testing.T) {
	db := setupEventsTestDB(t)
	repo := NewRepository(db)
	seeded := seedEvent(t, db)

	now := time.Now().UTC()
	locked, err := repo.FinalizeCloseout(context.Background(), seeded.ID, now)
	require.NoError(t, err)
	assert.True(t, locked)

	found, err := repo.FindByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	require.NotNil(t, found.CloseoutAt)
	assert.Equal(t, enums.EventStatusClosedOut, found.Status)

	// second writer must lose the conditional update
	locked, err = repo.FinalizeCloseout(context.Background(), seeded.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestRepositoryFinalizeCloseoutUnknownEvent(t *testing.T) {
	db := setupEventsTestDB(t)
	repo := NewRepository(db)

	locked, err := repo.FinalizeCloseout(context.Background(), uuid.New(), time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, locked)
}
