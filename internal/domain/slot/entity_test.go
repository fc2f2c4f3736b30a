//go:build unit

package slot_test

import (
	"testing"
	"time"

	"slotboard/internal/domain/slot"
	"slotboard/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSlot(t *testing.T) {
	day, err := slot.NewDay("2030-06-15")
	require.NoError(t, err)
	start, err := slot.NewTimeOfDay("09:00")
	require.NoError(t, err)
	end, err := slot.NewTimeOfDay("10:00")
	require.NoError(t, err)

	t.Run("basic success case", func(t *testing.T) {
		s, err := slot.NewSlot(uuid.New(), day, start, end)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, s.ID())
		assert.True(t, s.IsFree())
		assert.Nil(t, s.HeldBy())
		assert.Nil(t, s.BookedBy())
		assert.EqualValues(t, 1, s.Version())
	})

	t.Run("start must precede end", func(t *testing.T) {
		_, err := slot.NewSlot(uuid.New(), day, end, start)
		assert.ErrorIs(t, err, slot.ErrInvalidTimes)

		_, err = slot.NewSlot(uuid.New(), day, start, start)
		assert.ErrorIs(t, err, slot.ErrInvalidTimes)
	})
}

func TestSlotLifecycle(t *testing.T) {
	holder := uuid.New()
	until := time.Date(2030, 6, 15, 9, 1, 30, 0, time.UTC)

	t.Run("hold a free slot", func(t *testing.T) {
		s, err := builder.NewSlotBuilder().BuildDomain()
		require.NoError(t, err)
		v := s.Version()

		require.NoError(t, s.Hold(holder, until))

		assert.True(t, s.IsHeld())
		require.NotNil(t, s.HeldBy())
		assert.Equal(t, holder, *s.HeldBy())
		require.NotNil(t, s.HeldUntil())
		assert.Equal(t, until, *s.HeldUntil())
		assert.Equal(t, v+1, s.Version())
	})

	t.Run("hold is rejected unless free", func(t *testing.T) {
		held, err := builder.NewSlotBuilder().Held(uuid.New(), until).BuildDomain()
		require.NoError(t, err)
		assert.ErrorIs(t, held.Hold(holder, until), slot.ErrNotFree)

		booked, err := builder.NewSlotBuilder().Booked(uuid.New()).BuildDomain()
		require.NoError(t, err)
		assert.ErrorIs(t, booked.Hold(holder, until), slot.ErrNotFree)
	})

	t.Run("release a held slot", func(t *testing.T) {
		s, err := builder.NewSlotBuilder().Held(holder, until).BuildDomain()
		require.NoError(t, err)
		v := s.Version()

		require.NoError(t, s.Release())

		assert.True(t, s.IsFree())
		assert.Nil(t, s.HeldBy())
		assert.Nil(t, s.HeldUntil())
		assert.Equal(t, v+1, s.Version())
	})

	t.Run("release is rejected unless held", func(t *testing.T) {
		free, err := builder.NewSlotBuilder().BuildDomain()
		require.NoError(t, err)
		assert.ErrorIs(t, free.Release(), slot.ErrNotHeld)

		booked, err := builder.NewSlotBuilder().Booked(uuid.New()).BuildDomain()
		require.NoError(t, err)
		assert.ErrorIs(t, booked.Release(), slot.ErrNotHeld)
	})

	t.Run("book a held slot", func(t *testing.T) {
		s, err := builder.NewSlotBuilder().Held(holder, until).BuildDomain()
		require.NoError(t, err)
		v := s.Version()

		require.NoError(t, s.Book(holder))

		assert.True(t, s.IsBooked())
		require.NotNil(t, s.BookedBy())
		assert.Equal(t, holder, *s.BookedBy())
		assert.Nil(t, s.HeldBy())
		assert.Nil(t, s.HeldUntil())
		assert.Equal(t, v+1, s.Version())
	})

	t.Run("book is rejected unless held", func(t *testing.T) {
		free, err := builder.NewSlotBuilder().BuildDomain()
		require.NoError(t, err)
		assert.ErrorIs(t, free.Book(holder), slot.ErrNotHeld)

		booked, err := builder.NewSlotBuilder().Booked(uuid.New()).BuildDomain()
		require.NoError(t, err)
		assert.ErrorIs(t, booked.Book(holder), slot.ErrNotHeld)
	})
}

func TestReconstruct(t *testing.T) {
	t.Run("rejects unknown state", func(t *testing.T) {
		day, _ := slot.NewDay("2030-06-15")
		start, _ := slot.NewTimeOfDay("09:00")
		end, _ := slot.NewTimeOfDay("10:00")

		_, err := slot.Reconstruct(uuid.New(), uuid.New(), day, start, end, slot.State("pending"), nil, nil, nil, 1)
		assert.ErrorIs(t, err, slot.ErrInvalidState)
	})
}

func TestWithin(t *testing.T) {
	s, err := builder.NewSlotBuilder().WithDay("2030-06-15").WithTimes("09:00", "10:00").BuildDomain()
	require.NoError(t, err)

	day, _ := slot.NewDay("2030-06-15")
	otherDay, _ := slot.NewDay("2030-06-16")
	at := func(v string) slot.TimeOfDay {
		tod, err := slot.NewTimeOfDay(v)
		require.NoError(t, err)
		return tod
	}

	assert.True(t, s.Within(day, at("09:00"), at("10:00")))
	assert.True(t, s.Within(day, at("08:00"), at("12:00")))
	assert.False(t, s.Within(day, at("09:30"), at("12:00")))
	assert.False(t, s.Within(day, at("08:00"), at("09:30")))
	assert.False(t, s.Within(otherDay, at("08:00"), at("12:00")))
}
