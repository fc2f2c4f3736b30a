package repository

import (
	"context"
	"log/slog"
	"time"

	"slotboard/internal/domain/dayconfig"
	"slotboard/internal/domain/slot"
	"slotboard/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DayConfigRepository owns the day_ranges rows and the structural
// mutations that touch both tables: creating a range materializes its
// slots in the same transaction, deleting a range removes them. The
// delete re-checks for booked slots inside the transaction as a second
// line of defense behind the coordinator's serialized guard check.
type DayConfigRepository struct {
	pool *pgxpool.Pool
}

func NewDayConfigRepository(pool *pgxpool.Pool) *DayConfigRepository {
	return &DayConfigRepository{pool: pool}
}

func (r *DayConfigRepository) ListRanges(ctx context.Context, resourceID uuid.UUID, day slot.Day) ([]dayconfig.Range, error) {
	const query = `
SELECT resource_id, day, start_min, end_min
FROM day_ranges
WHERE resource_id = $1 AND day = $2
ORDER BY start_min`

	dayTime, err := dayToTime(day)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid day", err)
	}

	rows, err := r.pool.Query(ctx, query, resourceID, dayTime)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query day ranges", err)
	}
	defer rows.Close()

	var ranges []dayconfig.Range
	for rows.Next() {
		var (
			rid              uuid.UUID
			dt               time.Time
			startMin, endMin int
		)
		if err := rows.Scan(&rid, &dt, &startMin, &endMin); err != nil {
			return nil, infra.WrapRepoErr("failed to scan day range", err)
		}
		rng, err := rangeFromRow(rid, dt, startMin, endMin)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to rebuild day range", err)
		}
		ranges = append(ranges, rng)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read day ranges", err)
	}
	return ranges, nil
}

// CreateRange inserts the range row and its materialized slots atomically.
func (r *DayConfigRepository) CreateRange(ctx context.Context, rng dayconfig.Range, slots []*slot.Slot) error {
	dayTime, err := dayToTime(rng.Day())
	if err != nil {
		return infra.WrapRepoErr("invalid day", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return infra.WrapRepoErr("failed to begin transaction", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && rollbackErr.Error() != "tx is closed" {
			slog.Warn("failed to rollback transaction", "error", rollbackErr)
		}
	}()

	const insertRange = `
INSERT INTO day_ranges (resource_id, day, start_min, end_min)
VALUES ($1, $2, $3, $4)`
	if _, err := tx.Exec(ctx, insertRange, rng.ResourceID(), dayTime, rng.Start().Minutes(), rng.End().Minutes()); err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("day range already exists", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to insert day range", err)
	}

	const insertSlot = `
INSERT INTO slots (id, resource_id, day, start_min, end_min, state, version)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, s := range slots {
		_, err := tx.Exec(ctx, insertSlot,
			s.ID(), s.ResourceID(), dayTime, s.Start().Minutes(), s.End().Minutes(), string(s.SlotState()), s.Version())
		if err != nil {
			if isUniqueViolation(err) {
				return infra.WrapRepoErr("slot already exists in range", err, infra.KindDuplicateKey)
			}
			return infra.WrapRepoErr("failed to insert slot", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return infra.WrapRepoErr("failed to commit range creation", err)
	}
	return nil
}

// DeleteRange removes the range row and every slot inside it, unless
// any of those slots is booked; then nothing is deleted and the booked
// count is returned.
func (r *DayConfigRepository) DeleteRange(ctx context.Context, rng dayconfig.Range) (removed []uuid.UUID, booked int, err error) {
	dayTime, err := dayToTime(rng.Day())
	if err != nil {
		return nil, 0, infra.WrapRepoErr("invalid day", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, 0, infra.WrapRepoErr("failed to begin transaction", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && rollbackErr.Error() != "tx is closed" {
			slog.Warn("failed to rollback transaction", "error", rollbackErr)
		}
	}()

	const countBooked = `
SELECT COUNT(*)
FROM slots
WHERE resource_id = $1 AND day = $2 AND start_min >= $3 AND end_min <= $4 AND state = 'booked'`
	if err := tx.QueryRow(ctx, countBooked, rng.ResourceID(), dayTime, rng.Start().Minutes(), rng.End().Minutes()).Scan(&booked); err != nil {
		return nil, 0, infra.WrapRepoErr("failed to count booked slots", err)
	}
	if booked > 0 {
		return nil, booked, nil
	}

	const deleteSlots = `
DELETE FROM slots
WHERE resource_id = $1 AND day = $2 AND start_min >= $3 AND end_min <= $4
RETURNING id`
	rows, err := tx.Query(ctx, deleteSlots, rng.ResourceID(), dayTime, rng.Start().Minutes(), rng.End().Minutes())
	if err != nil {
		return nil, 0, infra.WrapRepoErr("failed to delete slots", err)
	}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, 0, infra.WrapRepoErr("failed to scan deleted slot id", err)
		}
		removed = append(removed, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, infra.WrapRepoErr("failed to read deleted slot ids", err)
	}

	const deleteRange = `
DELETE FROM day_ranges
WHERE resource_id = $1 AND day = $2 AND start_min = $3 AND end_min = $4`
	tag, err := tx.Exec(ctx, deleteRange, rng.ResourceID(), dayTime, rng.Start().Minutes(), rng.End().Minutes())
	if err != nil {
		return nil, 0, infra.WrapRepoErr("failed to delete day range", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, 0, infra.WrapRepoErr("day range not found", nil, infra.KindNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, 0, infra.WrapRepoErr("failed to commit range deletion", err)
	}
	return removed, 0, nil
}

func rangeFromRow(resourceID uuid.UUID, dayTime time.Time, startMin, endMin int) (dayconfig.Range, error) {
	start, err := slot.TimeOfDayFromMinutes(startMin)
	if err != nil {
		return dayconfig.Range{}, err
	}
	end, err := slot.TimeOfDayFromMinutes(endMin)
	if err != nil {
		return dayconfig.Range{}, err
	}
	return dayconfig.NewRange(resourceID, slot.DayOf(dayTime), start, end)
}
