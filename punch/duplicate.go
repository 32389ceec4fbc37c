package punch

import "time"

// =============================================================================
// DUPLICATE SUPPRESSION - Same-type cooldown window
// =============================================================================

// CheckCooldown is the pure form of the duplicate check: it rejects when
// a new punch of some type arrives within cooldown of the previous punch
// of the same type. Different punch types never suppress each other;
// this guards double-tap scans, not legitimate rapid type changes.
func CheckCooldown(lastSameType, attempt time.Time, cooldown time.Duration) bool {
	return attempt.Sub(lastSameType) >= cooldown
}

// CheckDuplicate scans the ordered work-day punch list for the most
// recent punch of the requested type and applies the cooldown window.
// Returns a DuplicateError on rejection; no side effects.
func CheckDuplicate(employeeID EmployeeID, punches []Punch, requested Type, at time.Time, cooldown time.Duration) error {
	for i := len(punches) - 1; i >= 0; i-- {
		if punches[i].Type != requested {
			continue
		}
		if !CheckCooldown(punches[i].Time, at, cooldown) {
			return &DuplicateError{
				EmployeeID: employeeID,
				Type:       requested,
				LastAt:     punches[i].Time,
				AttemptAt:  at,
				Cooldown:   cooldown,
			}
		}
		break
	}
	return nil
}
