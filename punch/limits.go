package punch

// =============================================================================
// DAILY LIMITS - Per-type quotas bounding repeated-punch storms
// =============================================================================

// CountByType tallies a work-day's punches per type.
func CountByType(punches []Punch) map[Type]int {
	counts := make(map[Type]int, len(Types))
	for _, p := range punches {
		counts[p.Type]++
	}
	return counts
}

// CheckDailyLimit rejects the requested type once its daily quota is
// reached. A type missing from limits is unlimited. Encodes the business
// expectation of one clock-in/out pair with bounded break excursions.
func CheckDailyLimit(employeeID EmployeeID, counts map[Type]int, requested Type, limits map[Type]int) error {
	limit, ok := limits[requested]
	if !ok {
		return nil
	}
	if counts[requested] >= limit {
		return &LimitError{
			EmployeeID: employeeID,
			Type:       requested,
			Limit:      limit,
			Count:      counts[requested],
		}
	}
	return nil
}
