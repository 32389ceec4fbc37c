package punch

import (
	"fmt"
	"time"
)

// =============================================================================
// CLOCK TIME - Minutes since local midnight
// =============================================================================

// ClockTime is a time-of-day at minute resolution, expressed as minutes
// since midnight in [0, 1440).
type ClockTime int

const MinutesPerDay = 1440

func NewClockTime(hour, minute int) ClockTime {
	return ClockTime((hour*60 + minute) % MinutesPerDay)
}

// ClockTimeOf returns the clock-time of t in t's own location.
func ClockTimeOf(t time.Time) ClockTime {
	return ClockTime(t.Hour()*60 + t.Minute())
}

// ParseClockTime parses "15:04".
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return ClockTimeOf(t), nil
}

func (c ClockTime) Hour() int   { return int(c) / 60 }
func (c ClockTime) Minute() int { return int(c) % 60 }

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// =============================================================================
// BAND - Recurring daily clock-time interval (may wrap midnight)
// =============================================================================

// Band is a recurring half-open daily interval [Start, End). A band with
// End <= Start wraps midnight (e.g. 22:00-05:00); End == Start is the
// degenerate wrap covering the full 1440-minute day, never the empty
// band. Its overlap with worked time is counted separately for
// night-shift compensation.
type Band struct {
	Start ClockTime
	End   ClockTime
}

// Wraps reports whether the band crosses midnight.
func (b Band) Wraps() bool { return b.End <= b.Start }

// Length returns the band duration in minutes.
func (b Band) Length() int {
	if b.Wraps() {
		return MinutesPerDay - int(b.Start) + int(b.End)
	}
	return int(b.End) - int(b.Start)
}

// Overlap returns the whole minutes of intersection between the absolute
// half-open interval [from, to) and every daily occurrence of the band.
// Occurrences are walked day by day; an occurrence that started the day
// before `from` and spills past midnight is included.
func (b Band) Overlap(from, to time.Time) int {
	if !to.After(from) || b.Length() == 0 {
		return 0
	}

	length := time.Duration(b.Length()) * time.Minute
	loc := from.Location()
	day := WorkDateOf(from.In(loc)).Previous()
	last := WorkDateOf(to.In(loc))

	total := 0
	for !last.Before(day) {
		occStart := day.Midnight(loc).Add(time.Duration(b.Start) * time.Minute)
		occEnd := occStart.Add(length)
		total += overlapMinutes(from, to, occStart, occEnd)
		day = day.Next()
	}
	return total
}

// overlapMinutes computes the intersection of [aFrom, aTo) and
// [bFrom, bTo) in whole minutes, clamped to zero.
func overlapMinutes(aFrom, aTo, bFrom, bTo time.Time) int {
	start := aFrom
	if bFrom.After(start) {
		start = bFrom
	}
	end := aTo
	if bTo.Before(end) {
		end = bTo
	}
	if !end.After(start) {
		return 0
	}
	return int(end.Sub(start) / time.Minute)
}
