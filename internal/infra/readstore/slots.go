package readstore

import (
	"context"
	"time"

	"slotboard/internal/domain/slot"
	"slotboard/internal/infra"
	"slotboard/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SlotReadStore struct {
	pool *pgxpool.Pool
}

func NewSlotReadStore(pool *pgxpool.Pool) *SlotReadStore {
	return &SlotReadStore{pool: pool}
}

func (r *SlotReadStore) ListDaySlots(ctx context.Context, resourceID uuid.UUID, day slot.Day) ([]*queries.SlotDayView, error) {
	const query = `
SELECT id, start_min, end_min, state, held_by, held_until, booked_by
FROM slots
WHERE resource_id = $1 AND day = $2
ORDER BY start_min`

	rows, err := r.pool.Query(ctx, query, resourceID, day.Time())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query day slots", err)
	}
	defer rows.Close()

	var views []*queries.SlotDayView
	for rows.Next() {
		var (
			id               uuid.UUID
			startMin, endMin int
			state            string
			heldBy, bookedBy *uuid.UUID
			heldUntil        *time.Time
		)
		if err := rows.Scan(&id, &startMin, &endMin, &state, &heldBy, &heldUntil, &bookedBy); err != nil {
			return nil, infra.WrapRepoErr("failed to scan day slot", err)
		}
		start, err := slot.TimeOfDayFromMinutes(startMin)
		if err != nil {
			return nil, infra.WrapRepoErr("corrupt slot start", err)
		}
		end, err := slot.TimeOfDayFromMinutes(endMin)
		if err != nil {
			return nil, infra.WrapRepoErr("corrupt slot end", err)
		}
		views = append(views, &queries.SlotDayView{
			ID:        id,
			Start:     start.String(),
			End:       end.String(),
			State:     state,
			HeldBy:    heldBy,
			HeldUntil: heldUntil,
			BookedBy:  bookedBy,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read day slots", err)
	}
	return views, nil
}

func (r *SlotReadStore) ListDayRanges(ctx context.Context, resourceID uuid.UUID, day slot.Day) ([]*queries.DayRangeView, error) {
	const query = `
SELECT resource_id, day, start_min, end_min
FROM day_ranges
WHERE resource_id = $1 AND day = $2
ORDER BY start_min`

	rows, err := r.pool.Query(ctx, query, resourceID, day.Time())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query day ranges", err)
	}
	defer rows.Close()

	var views []*queries.DayRangeView
	for rows.Next() {
		var (
			rid              uuid.UUID
			dayTime          time.Time
			startMin, endMin int
		)
		if err := rows.Scan(&rid, &dayTime, &startMin, &endMin); err != nil {
			return nil, infra.WrapRepoErr("failed to scan day range", err)
		}
		start, err := slot.TimeOfDayFromMinutes(startMin)
		if err != nil {
			return nil, infra.WrapRepoErr("corrupt range start", err)
		}
		end, err := slot.TimeOfDayFromMinutes(endMin)
		if err != nil {
			return nil, infra.WrapRepoErr("corrupt range end", err)
		}
		views = append(views, &queries.DayRangeView{
			ResourceID: rid,
			Day:        slot.DayOf(dayTime).String(),
			Start:      start.String(),
			End:        end.String(),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read day ranges", err)
	}
	return views, nil
}
