package summary

import "github.com/shopspring/decimal"

// =============================================================================
// ROUNDING CONVENTIONS - Single source of truth for payroll rounding
// =============================================================================

// RoundDaily rounds a minute value to the nearest 15-minute increment,
// round-half-up: round(x/15)*15. Example: 472 -> 465, 473 -> 480.
// Applied to actual work minutes and overtime minutes per day.
func RoundDaily(minutes int) int {
	if minutes <= 0 {
		return 0
	}
	return (minutes + 7) / 15 * 15
}

// MonthlyOvertimeMinutes applies the monthly overtime rounding used by
// the external monthly aggregator: minutes fewer than 30 past a whole
// hour truncate down, 30 or more round up to the next hour. The result
// is a whole number of hours expressed in minutes.
func MonthlyOvertimeMinutes(totalMinutes int) int {
	if totalMinutes <= 0 {
		return 0
	}
	hours := totalMinutes / 60
	if totalMinutes%60 >= 30 {
		hours++
	}
	return hours * 60
}

// MonthlyOvertimeHours returns the monthly-rounded overtime as decimal
// hours for payroll consumers. Decimal keeps downstream pay arithmetic
// exact.
func MonthlyOvertimeHours(totalMinutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(MonthlyOvertimeMinutes(totalMinutes) / 60))
}

// Hours converts a minute total to decimal hours with two decimal
// places, for reporting surfaces.
func Hours(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(60)).Round(2)
}
