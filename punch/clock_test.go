package punch_test

import (
	"testing"
	"time"

	"github.com/warp/punch-engine/punch"
)

var nightBand = punch.Band{Start: punch.NewClockTime(22, 0), End: punch.NewClockTime(5, 0)}

func TestBand_WrapAndLength(t *testing.T) {
	if !nightBand.Wraps() {
		t.Error("22:00-05:00 wraps midnight")
	}
	if nightBand.Length() != 420 {
		t.Errorf("expected 420 minutes, got %d", nightBand.Length())
	}

	day := punch.Band{Start: punch.NewClockTime(9, 0), End: punch.NewClockTime(17, 0)}
	if day.Wraps() {
		t.Error("09:00-17:00 does not wrap")
	}
	if day.Length() != 480 {
		t.Errorf("expected 480 minutes, got %d", day.Length())
	}

	// End == Start is the full-day band, not the empty one.
	full := punch.Band{Start: punch.NewClockTime(6, 0), End: punch.NewClockTime(6, 0)}
	if !full.Wraps() || full.Length() != 1440 {
		t.Errorf("expected a full 1440-minute wrap, got wraps=%v length=%d", full.Wraps(), full.Length())
	}
}

func TestBandOverlap_NightShift_FullBand(t *testing.T) {
	// GIVEN: Worked 22:00 to 06:00 next day, band 22:00-05:00
	// THEN: The overlap is the full 7-hour band = 420 minutes
	from := time.Date(2025, time.March, 10, 22, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.March, 11, 6, 0, 0, 0, time.UTC)

	if got := nightBand.Overlap(from, to); got != 420 {
		t.Errorf("expected 420 night minutes, got %d", got)
	}
}

func TestBandOverlap_DayShift_Zero(t *testing.T) {
	from := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.March, 10, 18, 0, 0, 0, time.UTC)

	if got := nightBand.Overlap(from, to); got != 0 {
		t.Errorf("expected 0 night minutes, got %d", got)
	}
}

func TestBandOverlap_PartialEvening(t *testing.T) {
	// 20:00-23:30 overlaps the band only from 22:00 = 90 minutes.
	from := time.Date(2025, time.March, 10, 20, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.March, 10, 23, 30, 0, 0, time.UTC)

	if got := nightBand.Overlap(from, to); got != 90 {
		t.Errorf("expected 90 night minutes, got %d", got)
	}
}

func TestBandOverlap_EarlyMorningTail(t *testing.T) {
	// 03:00-08:00 catches the tail of the previous day's band occurrence:
	// 03:00-05:00 = 120 minutes.
	from := time.Date(2025, time.March, 11, 3, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.March, 11, 8, 0, 0, 0, time.UTC)

	if got := nightBand.Overlap(from, to); got != 120 {
		t.Errorf("expected 120 night minutes, got %d", got)
	}
}

func TestBandOverlap_MultiDay(t *testing.T) {
	// A 48h interval covers two full band occurrences.
	from := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.March, 12, 12, 0, 0, 0, time.UTC)

	if got := nightBand.Overlap(from, to); got != 840 {
		t.Errorf("expected 840 night minutes, got %d", got)
	}
}

func TestClockTime_ParseAndFormat(t *testing.T) {
	c, err := punch.ParseClockTime("22:15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c != punch.NewClockTime(22, 15) || c.String() != "22:15" {
		t.Errorf("round trip failed: %v / %s", c, c)
	}

	if _, err := punch.ParseClockTime("25:99"); err == nil {
		t.Error("expected parse error")
	}
}
