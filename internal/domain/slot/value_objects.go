package slot

import (
	"errors"
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

// Day is a calendar date with no time component, compared in the
// service's canonical location rather than whatever the client sends.
type Day struct {
	t time.Time
}

func NewDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid day %q: expected YYYY-MM-DD", s)
	}
	return Day{t: t}, nil
}

func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d Day) String() string {
	return d.t.Format(dayLayout)
}

func (d Day) IsZero() bool {
	return d.t.IsZero()
}

func (d Day) Before(o Day) bool {
	return d.t.Before(o.t)
}

func (d Day) After(o Day) bool {
	return d.t.After(o.t)
}

func (d Day) Equal(o Day) bool {
	return d.t.Equal(o.t)
}

// Time returns midnight UTC of this date.
func (d Day) Time() time.Time {
	return d.t
}

// At anchors a time-of-day on this date.
func (d Day) At(tod TimeOfDay) time.Time {
	return d.t.Add(time.Duration(tod.minutes) * time.Minute)
}

// TimeOfDay is a clock time within a day, minute precision.
type TimeOfDay struct {
	minutes int
}

func NewTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	return TimeOfDay{minutes: t.Hour()*60 + t.Minute()}, nil
}

func TimeOfDayFromMinutes(m int) (TimeOfDay, error) {
	if m < 0 || m >= 24*60 {
		return TimeOfDay{}, errors.New("time of day out of range")
	}
	return TimeOfDay{minutes: m}, nil
}

func (t TimeOfDay) Minutes() int {
	return t.minutes
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.minutes/60, t.minutes%60)
}

func (t TimeOfDay) Before(o TimeOfDay) bool {
	return t.minutes < o.minutes
}

func (t TimeOfDay) Add(d time.Duration) TimeOfDay {
	return TimeOfDay{minutes: t.minutes + int(d.Minutes())}
}
