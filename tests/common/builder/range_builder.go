//go:build unit || e2e

package builder

import (
	"slotboard/internal/domain/dayconfig"
	"slotboard/internal/domain/slot"

	"github.com/google/uuid"
)

type RangeBuilder struct {
	resourceID uuid.UUID
	day        string
	start      string
	end        string
}

func NewRangeBuilder() *RangeBuilder {
	return &RangeBuilder{
		resourceID: uuid.New(),
		day:        "2030-06-15",
		start:      "09:00",
		end:        "12:00",
	}
}

func (b *RangeBuilder) WithResourceID(id uuid.UUID) *RangeBuilder {
	b.resourceID = id
	return b
}

func (b *RangeBuilder) WithDay(day string) *RangeBuilder {
	b.day = day
	return b
}

func (b *RangeBuilder) WithTimes(start, end string) *RangeBuilder {
	b.start = start
	b.end = end
	return b
}

func (b *RangeBuilder) BuildDomain() (dayconfig.Range, error) {
	day, err := slot.NewDay(b.day)
	if err != nil {
		return dayconfig.Range{}, err
	}
	start, err := slot.NewTimeOfDay(b.start)
	if err != nil {
		return dayconfig.Range{}, err
	}
	end, err := slot.NewTimeOfDay(b.end)
	if err != nil {
		return dayconfig.Range{}, err
	}
	return dayconfig.NewRange(b.resourceID, day, start, end)
}

// BuildRequestMap renders the body for the day-config endpoints.
func (b *RangeBuilder) BuildRequestMap() map[string]any {
	return map[string]any{
		"resource_id": b.resourceID.String(),
		"day":         b.day,
		"start":       b.start,
		"end":         b.end,
	}
}
