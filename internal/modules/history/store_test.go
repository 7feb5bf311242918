package history

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farequote/internal/migrations"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := os.Getenv("FAREQUOTE_TEST_DB_DSN")
	if dsn == "" {
		t.Skip("FAREQUOTE_TEST_DB_DSN not set; skipping DB-backed history tests")
	}
	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, migrations.Up(db))
	return NewStore(db)
}

func TestStore_InsertAndRecent(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(time.Hour).Truncate(time.Microsecond)
	older := &Record{
		ID: uuid.NewString(), DistanceMeters: 8000, StopsCount: 3,
		VehicleType: "Van", ScheduleType: "Regular",
		HourlyTotal: 60000, PerJobTotal: 59200, RecommendedPlan: "PerJob", TotalPrice: 59200,
		CreatedAt: base,
	}
	newer := &Record{
		ID: uuid.NewString(), DistanceMeters: 12000, DurationSeconds: 1500,
		DwellMinutes: []int32{10, 10}, StopsCount: 2,
		VehicleType: "Compact", ScheduleType: "AdHoc",
		HourlyTotal: 53000, PerJobTotal: 40000, RecommendedPlan: "PerJob", TotalPrice: 40000,
		RouteSource: "google", CreatedAt: base.Add(time.Second),
	}
	require.NoError(t, store.Insert(ctx, older))
	require.NoError(t, store.Insert(ctx, newer))

	got, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, newer.ID, got[0].ID)
	assert.Equal(t, []int32{10, 10}, got[0].DwellMinutes)
	assert.Equal(t, "google", got[0].RouteSource)
	assert.True(t, newer.CreatedAt.Equal(got[0].CreatedAt))

	assert.Equal(t, older.ID, got[1].ID)
	assert.Empty(t, got[1].DwellMinutes)
	assert.Empty(t, got[1].RouteSource)
}
