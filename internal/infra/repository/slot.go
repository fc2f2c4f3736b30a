package repository

import (
	"context"
	"errors"
	"time"

	"slotboard/internal/domain/slot"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"slotboard/internal/infra"
)

const slotColumns = `id, resource_id, day, start_min, end_min, state, held_by, held_until, booked_by, version`

// SlotRepository is the durable side of the slot lifecycle. Every
// mutation carries the version the caller observed; a mismatch comes
// back as KindConflict instead of silently overwriting.
type SlotRepository struct {
	pool *pgxpool.Pool
}

func NewSlotRepository(pool *pgxpool.Pool) *SlotRepository {
	return &SlotRepository{pool: pool}
}

func (r *SlotRepository) Snapshot(ctx context.Context, resourceID uuid.UUID, day slot.Day) ([]*slot.Slot, error) {
	const query = `
SELECT ` + slotColumns + `
FROM slots
WHERE resource_id = $1 AND day = $2
ORDER BY start_min`

	dayTime, err := dayToTime(day)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid day", err)
	}

	rows, err := r.pool.Query(ctx, query, resourceID, dayTime)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query slots", err)
	}
	defer rows.Close()

	var slots []*slot.Slot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan slot", err)
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read slots", err)
	}
	return slots, nil
}

// Transition applies a state change guarded by both the expected
// current state and the expected version.
func (r *SlotRepository) Transition(
	ctx context.Context,
	slotID uuid.UUID,
	from, to slot.State,
	heldBy *uuid.UUID,
	heldUntil *time.Time,
	bookedBy *uuid.UUID,
	expectedVersion int64,
) error {
	const stmt = `
UPDATE slots
SET state = $1, held_by = $2, held_until = $3, booked_by = $4,
    version = version + 1, updated_at = now()
WHERE id = $5 AND state = $6 AND version = $7`

	tag, err := r.pool.Exec(ctx, stmt, string(to), heldBy, heldUntil, bookedBy, slotID, string(from), expectedVersion)
	if err != nil {
		return infra.WrapRepoErr("failed to transition slot", err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a missing row from a concurrent writer.
		var exists bool
		if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM slots WHERE id = $1)`, slotID).Scan(&exists); err != nil {
			return infra.WrapRepoErr("failed to check slot existence", err)
		}
		if !exists {
			return infra.WrapRepoErr("slot not found", nil, infra.KindNotFound)
		}
		return infra.WrapRepoErr("slot state or version mismatch", nil, infra.KindConflict)
	}
	return nil
}

func scanSlot(row pgx.Row) (*slot.Slot, error) {
	var (
		id, resourceID     uuid.UUID
		dayTime            time.Time
		startMin, endMin   int
		state              string
		heldBy, bookedBy   *uuid.UUID
		heldUntil          *time.Time
		version            int64
	)
	if err := row.Scan(&id, &resourceID, &dayTime, &startMin, &endMin, &state, &heldBy, &heldUntil, &bookedBy, &version); err != nil {
		return nil, err
	}

	start, err := slot.TimeOfDayFromMinutes(startMin)
	if err != nil {
		return nil, err
	}
	end, err := slot.TimeOfDayFromMinutes(endMin)
	if err != nil {
		return nil, err
	}

	return slot.Reconstruct(id, resourceID, slot.DayOf(dayTime), start, end, slot.State(state), heldBy, heldUntil, bookedBy, version)
}

func dayToTime(d slot.Day) (time.Time, error) {
	if d.IsZero() {
		return time.Time{}, errors.New("zero day")
	}
	return d.Time(), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
