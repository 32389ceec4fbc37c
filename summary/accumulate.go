/*
Package summary derives per-day time metrics from a work-day's ordered
punch list.

PURPOSE:
  Given the accepted punches of one work-day, compute worked minutes,
  break minutes, actual (net) worked minutes, night-shift minutes, and
  overtime minutes. The result is recomputed from scratch on every
  accepted punch, never incrementally patched, so it can never drift
  from the ledger of punches.

ALGORITHM (accumulate.go):
  1. Clock-in is the first IN; clock-out is the last OUT, or "now" when
     the day is still open (such summaries are provisional).
  2. work = clock-out - clock-in, in whole minutes.
  3. Each OUTSIDE pairs with the chronologically next RETURN to form a
     break; an unterminated OUTSIDE is excluded and flagged.
  4. actual = work - breaks.
  5. Night minutes intersect [in, out) with the recurring night band,
     minus break overlap with the same band.
  6. overtime = max(0, actual - standard).
  7. actual and overtime are rounded to the nearest 15 minutes,
     round-half-up (see rounding.go).

DATA QUALITY:
  Negative intermediate durations (clock-out before clock-in, RETURN
  before its OUTSIDE) are clamped to zero and surfaced as flags. They
  are never silently accepted.

SEE ALSO:
  - rounding.go: Daily and monthly rounding conventions
  - punch package: Band arithmetic and ordering invariants
*/
package summary

import (
	"time"

	"github.com/warp/punch-engine/punch"
)

// =============================================================================
// DAILY SUMMARY - Derived, recomputed, read-only downstream
// =============================================================================

// Flag marks a provisional or data-quality condition on a summary.
type Flag string

const (
	// FlagOpenDay marks a summary computed against "now" because the
	// work-day has no OUT yet. Callers must treat it as provisional.
	FlagOpenDay Flag = "open_day"
	// FlagOpenBreak marks an OUTSIDE with no following RETURN; the break
	// is excluded from break minutes.
	FlagOpenBreak Flag = "open_break"
	// FlagNegativeDuration marks a clamped negative duration. Always a
	// data-quality error, never silent.
	FlagNegativeDuration Flag = "negative_duration"
)

// DailySummary holds the derived minute totals for one work-day. All
// minute values are non-negative integers. ActualWorkMinutes and
// OvertimeMinutes carry the 15-minute daily rounding.
type DailySummary struct {
	EmployeeID        punch.EmployeeID
	WorkDate          punch.WorkDate
	WorkMinutes       int
	BreakMinutes      int
	ActualWorkMinutes int
	NightMinutes      int
	OvertimeMinutes   int
	Flags             []Flag
}

// Provisional reports whether the summary may still change as the day
// progresses (open day or unterminated break).
func (s DailySummary) Provisional() bool {
	return s.Has(FlagOpenDay) || s.Has(FlagOpenBreak)
}

func (s DailySummary) Has(flag Flag) bool {
	for _, f := range s.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// =============================================================================
// INPUT
// =============================================================================

// Input is the snapshot the accumulator works on. Punches must be the
// full ordered list for one (employee, work-date).
type Input struct {
	Punches         []punch.Punch
	NightBand       punch.Band
	StandardMinutes int
	// Now is the provisional clock-out for open days. Zero means
	// time.Now().
	Now time.Time
}

// =============================================================================
// ACCUMULATOR
// =============================================================================

// Accumulate computes the DailySummary for one work-day. Pure and
// side-effect free; safe to run concurrently over a fixed punch list.
// The only error is an out-of-order punch list, which is an invariant
// violation from storage.
func Accumulate(in Input) (DailySummary, error) {
	if err := punch.VerifyOrder(in.Punches); err != nil {
		return DailySummary{}, err
	}

	var s DailySummary
	if len(in.Punches) > 0 {
		s.EmployeeID = in.Punches[0].EmployeeID
		s.WorkDate = in.Punches[0].WorkDate
	}

	clockIn, ok := firstOfType(in.Punches, punch.TypeIn)
	if !ok {
		// Nothing to account without a clock-in.
		return s, nil
	}

	clockOut, closed := lastOfType(in.Punches, punch.TypeOut)
	end := clockOut
	if !closed {
		end = in.Now
		if end.IsZero() {
			end = time.Now()
		}
		s.Flags = append(s.Flags, FlagOpenDay)
	}

	work := int(end.Sub(clockIn) / time.Minute)
	if work < 0 {
		work = 0
		s.Flags = append(s.Flags, FlagNegativeDuration)
	}
	s.WorkMinutes = work

	breaks, openBreak, negBreak := pairBreaks(in.Punches)
	if openBreak {
		s.Flags = append(s.Flags, FlagOpenBreak)
	}
	if negBreak && !s.Has(FlagNegativeDuration) {
		s.Flags = append(s.Flags, FlagNegativeDuration)
	}

	for _, b := range breaks {
		s.BreakMinutes += int(b.to.Sub(b.from) / time.Minute)
	}

	actual := s.WorkMinutes - s.BreakMinutes
	if actual < 0 {
		actual = 0
		if !s.Has(FlagNegativeDuration) {
			s.Flags = append(s.Flags, FlagNegativeDuration)
		}
	}

	// Night minutes: worked overlap with the band, minus breaks spent
	// inside the band (a night off during a break is not night work).
	if end.After(clockIn) {
		night := in.NightBand.Overlap(clockIn, end)
		for _, b := range breaks {
			night -= in.NightBand.Overlap(b.from, b.to)
		}
		if night < 0 {
			night = 0
		}
		s.NightMinutes = night
	}

	standard := in.StandardMinutes
	if standard == 0 {
		standard = 480
	}
	overtime := actual - standard
	if overtime < 0 {
		overtime = 0
	}

	s.ActualWorkMinutes = RoundDaily(actual)
	s.OvertimeMinutes = RoundDaily(overtime)
	return s, nil
}

// =============================================================================
// BREAK PAIRING
// =============================================================================

type interval struct {
	from, to time.Time
}

// pairBreaks pairs each OUTSIDE with its chronologically next RETURN.
// An OUTSIDE with no following RETURN is an open break: excluded from
// the result and reported via the openBreak flag. A RETURN before its
// OUTSIDE is clamped and reported as a negative duration.
func pairBreaks(punches []punch.Punch) (breaks []interval, openBreak, negative bool) {
	var outsideAt *time.Time
	for _, p := range punches {
		switch p.Type {
		case punch.TypeOutside:
			if outsideAt == nil {
				t := p.Time
				outsideAt = &t
			}
		case punch.TypeReturn:
			if outsideAt == nil {
				continue // RETURN without OUTSIDE; sequence gate prevents this
			}
			if p.Time.Before(*outsideAt) {
				negative = true
			} else {
				breaks = append(breaks, interval{from: *outsideAt, to: p.Time})
			}
			outsideAt = nil
		}
	}
	if outsideAt != nil {
		openBreak = true
	}
	return breaks, openBreak, negative
}

func firstOfType(punches []punch.Punch, t punch.Type) (time.Time, bool) {
	for _, p := range punches {
		if p.Type == t {
			return p.Time, true
		}
	}
	return time.Time{}, false
}

func lastOfType(punches []punch.Punch, t punch.Type) (time.Time, bool) {
	for i := len(punches) - 1; i >= 0; i-- {
		if punches[i].Type == t {
			return punches[i].Time, true
		}
	}
	return time.Time{}, false
}
