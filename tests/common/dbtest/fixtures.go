//go:build unit || e2e

package dbtest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// CreateTestRange inserts a day_ranges row directly, bypassing the
// engine, for tests that need pre-existing configuration.
func CreateTestRange(t *testing.T, db DBLike, resourceID uuid.UUID, day string, startMin, endMin int) {
	t.Helper()

	dayTime, err := time.Parse("2006-01-02", day)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = db.Exec(ctx,
		"INSERT INTO day_ranges (resource_id, day, start_min, end_min) VALUES ($1, $2, $3, $4)",
		resourceID, dayTime, startMin, endMin)
	require.NoError(t, err)
}

// CreateTestSlot inserts a slot row directly in the given state.
func CreateTestSlot(t *testing.T, db DBLike, resourceID uuid.UUID, day string, startMin, endMin int, state string) uuid.UUID {
	t.Helper()

	dayTime, err := time.Parse("2006-01-02", day)
	require.NoError(t, err)

	slotID := uuid.New()
	ctx := context.Background()
	_, err = db.Exec(ctx,
		"INSERT INTO slots (id, resource_id, day, start_min, end_min, state, version) VALUES ($1, $2, $3, $4, $5, $6, 0)",
		slotID, resourceID, dayTime, startMin, endMin, state)
	require.NoError(t, err)

	return slotID
}

// MarkSlotBooked flips a slot row to booked outside the engine.
func MarkSlotBooked(t *testing.T, db DBLike, slotID, bookedBy uuid.UUID) {
	t.Helper()

	ctx := context.Background()
	tag, err := db.Exec(ctx,
		"UPDATE slots SET state = 'booked', booked_by = $2, version = version + 1 WHERE id = $1",
		slotID, bookedBy)
	require.NoError(t, err)
	require.EqualValues(t, 1, tag.RowsAffected())
}

// ResetDB truncates engine tables between subtests.
func ResetDB(pool *pgxpool.Pool) error {
	ctx := context.Background()
	_, err := pool.Exec(ctx, "TRUNCATE TABLE slots, day_ranges")
	return err
}
