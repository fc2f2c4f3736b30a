//go:build unit

package dayconfig_test

import (
	"testing"
	"time"

	"slotboard/internal/domain/dayconfig"
	"slotboard/internal/domain/slot"
	"slotboard/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testResourceID = uuid.New()

func mustRange(t *testing.T, day, start, end string) dayconfig.Range {
	t.Helper()
	rng, err := builder.NewRangeBuilder().
		WithResourceID(testResourceID).
		WithDay(day).
		WithTimes(start, end).
		BuildDomain()
	require.NoError(t, err)
	return rng
}

func mustDay(t *testing.T, s string) slot.Day {
	t.Helper()
	d, err := slot.NewDay(s)
	require.NoError(t, err)
	return d
}

func TestGuardCanCreate(t *testing.T) {
	guard := dayconfig.NewGuard()
	today := mustDay(t, "2030-06-14")

	t.Run("tomorrow with no existing ranges", func(t *testing.T) {
		rng := mustRange(t, "2030-06-15", "09:00", "12:00")
		assert.NoError(t, guard.CanCreate(rng, nil, today))
	})

	t.Run("today is frozen", func(t *testing.T) {
		rng := mustRange(t, "2030-06-14", "09:00", "12:00")
		assert.ErrorIs(t, guard.CanCreate(rng, nil, today), dayconfig.ErrPastOrToday)
	})

	t.Run("past days are frozen", func(t *testing.T) {
		rng := mustRange(t, "2030-06-01", "09:00", "12:00")
		assert.ErrorIs(t, guard.CanCreate(rng, nil, today), dayconfig.ErrPastOrToday)
	})

	t.Run("overlap with an existing range", func(t *testing.T) {
		existing := mustRange(t, "2030-06-15", "09:00", "12:00")
		cases := []struct {
			name       string
			start, end string
			overlaps   bool
		}{
			{name: "identical", start: "09:00", end: "12:00", overlaps: true},
			{name: "straddles start", start: "08:00", end: "10:00", overlaps: true},
			{name: "straddles end", start: "11:00", end: "13:00", overlaps: true},
			{name: "inside", start: "10:00", end: "11:00", overlaps: true},
			{name: "surrounds", start: "08:00", end: "13:00", overlaps: true},
			{name: "adjacent before", start: "07:00", end: "09:00", overlaps: false},
			{name: "adjacent after", start: "12:00", end: "14:00", overlaps: false},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				rng := mustRange(t, "2030-06-15", tc.start, tc.end)
				err := guard.CanCreate(rng, []dayconfig.Range{existing}, today)
				if tc.overlaps {
					assert.ErrorIs(t, err, dayconfig.ErrRangeOverlap)
				} else {
					assert.NoError(t, err)
				}
			})
		}
	})

	t.Run("ranges on other days or resources never overlap", func(t *testing.T) {
		rng := mustRange(t, "2030-06-15", "09:00", "12:00")

		otherDay := mustRange(t, "2030-06-16", "09:00", "12:00")
		assert.NoError(t, guard.CanCreate(rng, []dayconfig.Range{otherDay}, today))

		otherResource, err := builder.NewRangeBuilder().
			WithDay("2030-06-15").
			WithTimes("09:00", "12:00").
			BuildDomain()
		require.NoError(t, err)
		assert.NoError(t, guard.CanCreate(rng, []dayconfig.Range{otherResource}, today))
	})
}

func TestGuardCanDelete(t *testing.T) {
	guard := dayconfig.NewGuard()
	today := mustDay(t, "2030-06-14")
	rng := mustRange(t, "2030-06-15", "09:00", "12:00")

	mkSlot := func(t *testing.T, start, end string, mutate func(*builder.SlotBuilder)) *slot.Slot {
		t.Helper()
		b := builder.NewSlotBuilder().
			WithResourceID(testResourceID).
			WithDay("2030-06-15").
			WithTimes(start, end)
		if mutate != nil {
			mutate(b)
		}
		s, err := b.BuildDomain()
		require.NoError(t, err)
		return s
	}

	t.Run("free and held slots do not block deletion", func(t *testing.T) {
		slots := []*slot.Slot{
			mkSlot(t, "09:00", "10:00", nil),
			mkSlot(t, "10:00", "11:00", func(b *builder.SlotBuilder) {
				b.Held(uuid.New(), time.Date(2030, 6, 15, 10, 1, 30, 0, time.UTC))
			}),
		}
		assert.NoError(t, guard.CanDelete(rng, slots, today))
	})

	t.Run("booked slots inside the range block deletion with a count", func(t *testing.T) {
		slots := []*slot.Slot{
			mkSlot(t, "09:00", "10:00", func(b *builder.SlotBuilder) { b.Booked(uuid.New()) }),
			mkSlot(t, "10:00", "11:00", func(b *builder.SlotBuilder) { b.Booked(uuid.New()) }),
			mkSlot(t, "11:00", "12:00", nil),
		}

		err := guard.CanDelete(rng, slots, today)
		var bookedErr *dayconfig.BookedOverlapError
		require.ErrorAs(t, err, &bookedErr)
		assert.Equal(t, 2, bookedErr.Count)
	})

	t.Run("booked slots outside the range are ignored", func(t *testing.T) {
		slots := []*slot.Slot{
			mkSlot(t, "13:00", "14:00", func(b *builder.SlotBuilder) { b.Booked(uuid.New()) }),
		}
		assert.NoError(t, guard.CanDelete(rng, slots, today))
	})

	t.Run("today is frozen even without booked slots", func(t *testing.T) {
		frozen := mustRange(t, "2030-06-14", "09:00", "12:00")
		assert.ErrorIs(t, guard.CanDelete(frozen, nil, today), dayconfig.ErrPastOrToday)
	})
}
