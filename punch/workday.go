package punch

import "time"

// =============================================================================
// WORK-DAY ATTRIBUTION - Maps a punch instant to its logical date
// =============================================================================

// AttributeWorkDay maps a punch timestamp to the work-day it belongs to.
//
// Rule: if the punch's local clock-time falls before the day boundary
// (default 05:00) AND the employee's previous calendar date is still open
// (its last punch is not OUT), the punch continues that day's shift and
// is attributed to the previous date. Otherwise it belongs to its own
// calendar date. A pre-boundary punch with no open prior day starts a new
// early shift on its own date.
//
// Always returns a date; sequence legality is handled by other gates.
func AttributeWorkDay(at time.Time, boundary ClockTime, priorDayOpen bool) WorkDate {
	date := WorkDateOf(at)
	if ClockTimeOf(at) < boundary && priorDayOpen {
		return date.Previous()
	}
	return date
}
