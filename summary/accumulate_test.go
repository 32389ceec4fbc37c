package summary_test

import (
	"testing"
	"time"

	"github.com/warp/punch-engine/punch"
	"github.com/warp/punch-engine/summary"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

var (
	workDate = punch.NewWorkDate(2025, time.March, 10)
	night    = punch.Band{Start: punch.NewClockTime(22, 0), End: punch.NewClockTime(5, 0)}
)

func ts(day, hour, minute int) time.Time {
	return time.Date(2025, time.March, day, hour, minute, 0, 0, time.UTC)
}

func day(pairs ...any) []punch.Punch {
	// pairs is (Type, time.Time) repeated.
	punches := make([]punch.Punch, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		punches = append(punches, punch.Punch{
			EmployeeID: "emp-1",
			Type:       pairs[i].(punch.Type),
			Time:       pairs[i+1].(time.Time),
			WorkDate:   workDate,
		})
	}
	return punches
}

func accumulate(t *testing.T, punches []punch.Punch, now time.Time) summary.DailySummary {
	t.Helper()
	s, err := summary.Accumulate(summary.Input{
		Punches:         punches,
		NightBand:       night,
		StandardMinutes: 480,
		Now:             now,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

// =============================================================================
// CLOSED DAYS
// =============================================================================

func TestAccumulate_StandardDayWithLunch(t *testing.T) {
	// GIVEN: IN 09:00, OUTSIDE 12:00, RETURN 13:00, OUT 18:00
	// THEN: work=540 break=60 actual=480 night=0 overtime=0
	s := accumulate(t, day(
		punch.TypeIn, ts(10, 9, 0),
		punch.TypeOutside, ts(10, 12, 0),
		punch.TypeReturn, ts(10, 13, 0),
		punch.TypeOut, ts(10, 18, 0),
	), time.Time{})

	if s.WorkMinutes != 540 || s.BreakMinutes != 60 || s.ActualWorkMinutes != 480 {
		t.Errorf("expected 540/60/480, got %d/%d/%d", s.WorkMinutes, s.BreakMinutes, s.ActualWorkMinutes)
	}
	if s.NightMinutes != 0 || s.OvertimeMinutes != 0 {
		t.Errorf("expected no night or overtime, got %d/%d", s.NightMinutes, s.OvertimeMinutes)
	}
	if s.Provisional() || len(s.Flags) != 0 {
		t.Errorf("closed clean day carries no flags: %v", s.Flags)
	}
	if s.EmployeeID != "emp-1" || s.WorkDate != workDate {
		t.Errorf("summary identity mismatch: %s %s", s.EmployeeID, s.WorkDate)
	}
}

func TestAccumulate_NightShiftAcrossMidnight(t *testing.T) {
	// GIVEN: IN 22:00, OUT 06:00 next calendar day
	// THEN: 480 worked minutes, 420 of them inside the 22:00-05:00 band
	s := accumulate(t, day(
		punch.TypeIn, ts(10, 22, 0),
		punch.TypeOut, ts(11, 6, 0),
	), time.Time{})

	if s.WorkMinutes != 480 || s.ActualWorkMinutes != 480 {
		t.Errorf("expected 480 worked minutes, got %d/%d", s.WorkMinutes, s.ActualWorkMinutes)
	}
	if s.NightMinutes != 420 {
		t.Errorf("expected 420 night minutes, got %d", s.NightMinutes)
	}
}

func TestAccumulate_NightBreakExcludedFromNightMinutes(t *testing.T) {
	// A break taken inside the band is not night work: IN 22:00,
	// OUTSIDE 23:00, RETURN 00:00, OUT 06:00 -> night 420-60 = 360.
	s := accumulate(t, day(
		punch.TypeIn, ts(10, 22, 0),
		punch.TypeOutside, ts(10, 23, 0),
		punch.TypeReturn, ts(11, 0, 0),
		punch.TypeOut, ts(11, 6, 0),
	), time.Time{})

	if s.NightMinutes != 360 {
		t.Errorf("expected 360 night minutes, got %d", s.NightMinutes)
	}
	if s.BreakMinutes != 60 {
		t.Errorf("expected 60 break minutes, got %d", s.BreakMinutes)
	}
}

func TestAccumulate_Overtime(t *testing.T) {
	// IN 08:00, OUT 18:00, no breaks: actual 600, overtime 120.
	s := accumulate(t, day(
		punch.TypeIn, ts(10, 8, 0),
		punch.TypeOut, ts(10, 18, 0),
	), time.Time{})

	if s.ActualWorkMinutes != 600 || s.OvertimeMinutes != 120 {
		t.Errorf("expected 600/120, got %d/%d", s.ActualWorkMinutes, s.OvertimeMinutes)
	}
}

func TestAccumulate_DailyRounding_HalfUp(t *testing.T) {
	// 472 raw minutes round down to 465; 473 round up to 480.
	s := accumulate(t, day(
		punch.TypeIn, ts(10, 9, 0),
		punch.TypeOut, ts(10, 9, 0).Add(472*time.Minute),
	), time.Time{})
	if s.ActualWorkMinutes != 465 {
		t.Errorf("expected 472 -> 465, got %d", s.ActualWorkMinutes)
	}

	s = accumulate(t, day(
		punch.TypeIn, ts(10, 9, 0),
		punch.TypeOut, ts(10, 9, 0).Add(473*time.Minute),
	), time.Time{})
	if s.ActualWorkMinutes != 480 {
		t.Errorf("expected 473 -> 480, got %d", s.ActualWorkMinutes)
	}
}

// =============================================================================
// OPEN AND DEGENERATE DAYS
// =============================================================================

func TestAccumulate_OpenDay_ProvisionalAgainstNow(t *testing.T) {
	// GIVEN: Only an IN at 09:00 and it is currently 13:00
	// THEN: Provisional summary with 240 minutes against "now"
	s := accumulate(t, day(punch.TypeIn, ts(10, 9, 0)), ts(10, 13, 0))

	if !s.Has(summary.FlagOpenDay) || !s.Provisional() {
		t.Error("open day must be flagged provisional")
	}
	if s.WorkMinutes != 240 {
		t.Errorf("expected 240 provisional minutes, got %d", s.WorkMinutes)
	}
}

func TestAccumulate_OpenBreak_ExcludedAndFlagged(t *testing.T) {
	// An OUTSIDE with no RETURN contributes nothing to break minutes.
	s := accumulate(t, day(
		punch.TypeIn, ts(10, 9, 0),
		punch.TypeOutside, ts(10, 12, 0),
	), ts(10, 14, 0))

	if !s.Has(summary.FlagOpenBreak) {
		t.Error("unterminated OUTSIDE must be flagged")
	}
	if s.BreakMinutes != 0 {
		t.Errorf("open break counts 0 minutes, got %d", s.BreakMinutes)
	}
	if s.WorkMinutes != 300 {
		t.Errorf("expected 300 provisional work minutes, got %d", s.WorkMinutes)
	}
}

func TestAccumulate_EmptyDayAndNoClockIn(t *testing.T) {
	s := accumulate(t, nil, time.Time{})
	if s.WorkMinutes != 0 || len(s.Flags) != 0 {
		t.Errorf("empty day is all zeros, got %+v", s)
	}
}

func TestAccumulate_ClockSkew_ClampedAndFlagged(t *testing.T) {
	// GIVEN: An open day whose IN is ahead of the caller's clock
	// THEN: The negative duration clamps to zero and is flagged
	s := accumulate(t, day(punch.TypeIn, ts(10, 9, 0)), ts(10, 8, 30))

	if s.WorkMinutes != 0 {
		t.Errorf("negative duration clamps to 0, got %d", s.WorkMinutes)
	}
	if !s.Has(summary.FlagNegativeDuration) {
		t.Error("clamped negative duration must be flagged")
	}
}

func TestAccumulate_OutOfOrderPunches_Error(t *testing.T) {
	punches := []punch.Punch{
		{EmployeeID: "emp-1", Type: punch.TypeIn, Time: ts(10, 12, 0), WorkDate: workDate},
		{EmployeeID: "emp-1", Type: punch.TypeOut, Time: ts(10, 9, 0), WorkDate: workDate},
	}
	if _, err := summary.Accumulate(summary.Input{Punches: punches, NightBand: night}); err == nil {
		t.Fatal("out-of-order list must be rejected")
	}
}
