/*
Package anomaly scores accepted punches against an employee's rolling
historical baseline.

PURPOSE:
  Detects statistically unusual punches (time-of-day, location,
  frequency) for alerting. Scoring is advisory only: it never blocks
  punch acceptance, and "insufficient history" is a valid no-opinion
  result rather than an error.

KEY CONCEPTS IN THIS FILE (baseline.go):
  - Sample: One historical observation (clock minute, date, location)
  - Baseline: The rolling per (employee, punch type) window of samples
  - BaselineStore: Persistence boundary for samples

WINDOWING:
  Baselines cover the most recent N days (default 30). A baseline below
  the minimum sample count is not "confident" and produces no signal.

SEE ALSO:
  - detector.go: z-score ladder and secondary checks
  - cache.go: Bounded LRU in front of BaselineStore
*/
package anomaly

import (
	"context"
	"math"
	"sort"

	"github.com/warp/punch-engine/punch"
)

// =============================================================================
// SAMPLES AND BASELINE
// =============================================================================

// Sample is one historical observation of an accepted punch.
type Sample struct {
	Day      punch.WorkDate
	Minute   punch.ClockTime
	Location string // optional
}

// Baseline is the rolling history for one (employee, punch type) pair.
// It is a value fetched per call from a BaselineStore, never a module
// level cache.
type Baseline struct {
	EmployeeID punch.EmployeeID
	Type       punch.Type
	Samples    []Sample
}

// Count returns the number of samples in the window.
func (b *Baseline) Count() int { return len(b.Samples) }

// Confident reports whether the baseline has enough history to score.
func (b *Baseline) Confident(minSamples int) bool {
	return b != nil && len(b.Samples) >= minSamples
}

// Stats returns the mean and population standard deviation of the
// sample clock-times, in minutes since midnight.
func (b *Baseline) Stats() (mean, stddev float64) {
	n := len(b.Samples)
	if n == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, s := range b.Samples {
		sum += float64(s.Minute)
	}
	mean = sum / float64(n)

	variance := 0.0
	for _, s := range b.Samples {
		d := float64(s.Minute) - mean
		variance += d * d
	}
	return mean, math.Sqrt(variance / float64(n))
}

// TopLocations returns the k most frequent non-empty sample locations,
// most frequent first.
func (b *Baseline) TopLocations(k int) []string {
	counts := make(map[string]int)
	for _, s := range b.Samples {
		if s.Location != "" {
			counts[s.Location]++
		}
	}
	locs := make([]string, 0, len(counts))
	for loc := range counts {
		locs = append(locs, loc)
	}
	sort.Slice(locs, func(i, j int) bool {
		if counts[locs[i]] != counts[locs[j]] {
			return counts[locs[i]] > counts[locs[j]]
		}
		return locs[i] < locs[j] // stable order for equal counts
	})
	if len(locs) > k {
		locs = locs[:k]
	}
	return locs
}

// DailyAverage returns the historical average number of punches of this
// type per active day.
func (b *Baseline) DailyAverage() float64 {
	if len(b.Samples) == 0 {
		return 0
	}
	days := make(map[punch.WorkDate]struct{})
	for _, s := range b.Samples {
		days[s.Day] = struct{}{}
	}
	return float64(len(b.Samples)) / float64(len(days))
}

// =============================================================================
// BASELINE STORE - History persistence boundary
// =============================================================================

// BaselineStore persists baseline samples. Implementations window reads
// to the configured number of recent days.
type BaselineStore interface {
	// LoadBaseline returns the rolling window for (employeeID, punchType).
	// A missing history returns an empty baseline, not an error.
	LoadBaseline(ctx context.Context, employeeID punch.EmployeeID, punchType punch.Type) (*Baseline, error)

	// RecordSample appends an observation for an accepted punch.
	RecordSample(ctx context.Context, employeeID punch.EmployeeID, punchType punch.Type, s Sample) error
}
