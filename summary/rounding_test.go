package summary_test

import (
	"testing"

	"github.com/warp/punch-engine/summary"
)

func TestRoundDaily(t *testing.T) {
	cases := []struct{ in, want int }{
		{0, 0},
		{-5, 0},
		{1, 0},
		{7, 0},
		{8, 15},
		{15, 15},
		{472, 465}, // 472 = 465 + 7: rounds down
		{473, 480}, // 473 = 465 + 8: half rounds up
		{480, 480},
		{487, 480},
		{488, 495},
	}
	for _, c := range cases {
		if got := summary.RoundDaily(c.in); got != c.want {
			t.Errorf("RoundDaily(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestMonthlyOvertimeMinutes(t *testing.T) {
	// Monthly totals round to whole hours; 30 leftover minutes round up.
	cases := []struct{ in, want int }{
		{0, 0},
		{29, 0},
		{30, 60},
		{60, 60},
		{89, 60},
		{90, 120},
		{150, 180},
	}
	for _, c := range cases {
		if got := summary.MonthlyOvertimeMinutes(c.in); got != c.want {
			t.Errorf("MonthlyOvertimeMinutes(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestMonthlyOvertimeHours(t *testing.T) {
	if got := summary.MonthlyOvertimeHours(90); !got.Equal(summary.Hours(120)) {
		t.Errorf("MonthlyOvertimeHours(90) = %s, want 2", got)
	}
	if got := summary.MonthlyOvertimeHours(29); !got.IsZero() {
		t.Errorf("MonthlyOvertimeHours(29) = %s, want 0", got)
	}
}

func TestHours(t *testing.T) {
	if got := summary.Hours(90); got.String() != "1.5" {
		t.Errorf("Hours(90) = %s, want 1.5", got)
	}
	if got := summary.Hours(465); got.String() != "7.75" {
		t.Errorf("Hours(465) = %s, want 7.75", got)
	}
}
