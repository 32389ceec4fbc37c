// Package store provides in-memory implementations of the punch and
// baseline stores, for testing and development.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/punch-engine/anomaly"
	"github.com/warp/punch-engine/punch"
)

// =============================================================================
// MEMORY STORE - punch.Store + anomaly.BaselineStore
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	punches   map[dayKey][]punch.Punch
	baselines map[baselineKey][]anomaly.Sample

	// WindowDays bounds baseline reads; 0 means 30.
	WindowDays int
	// Now is injectable for tests; nil means time.Now.
	Now func() time.Time
}

type dayKey struct {
	EmployeeID punch.EmployeeID
	Date       punch.WorkDate
}

type baselineKey struct {
	EmployeeID punch.EmployeeID
	Type       punch.Type
}

func NewMemory() *Memory {
	return &Memory{
		punches:   make(map[dayKey][]punch.Punch),
		baselines: make(map[baselineKey][]anomaly.Sample),
	}
}

// Append adds an accepted punch. Append-only.
func (m *Memory) Append(_ context.Context, p punch.Punch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := dayKey{EmployeeID: p.EmployeeID, Date: p.WorkDate}
	day := m.punches[k]

	// Sorted insert keeps LoadWorkDay's ordering contract cheap.
	i := sort.Search(len(day), func(i int) bool {
		return day[i].Time.After(p.Time)
	})
	day = append(day, punch.Punch{})
	copy(day[i+1:], day[i:])
	day[i] = p
	m.punches[k] = day
	return nil
}

// LoadWorkDay returns the day's punches ordered by time ascending.
func (m *Memory) LoadWorkDay(_ context.Context, employeeID punch.EmployeeID, date punch.WorkDate) ([]punch.Punch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	k := dayKey{EmployeeID: employeeID, Date: date}
	result := make([]punch.Punch, len(m.punches[k]))
	copy(result, m.punches[k])
	return result, nil
}

// LoadBaseline returns the rolling sample window for the pair.
func (m *Memory) LoadBaseline(_ context.Context, employeeID punch.EmployeeID, punchType punch.Type) (*anomaly.Baseline, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cutoff := m.cutoff()
	b := &anomaly.Baseline{EmployeeID: employeeID, Type: punchType}
	for _, s := range m.baselines[baselineKey{EmployeeID: employeeID, Type: punchType}] {
		if !s.Day.Before(cutoff) {
			b.Samples = append(b.Samples, s)
		}
	}
	return b, nil
}

// RecordSample appends an observation and prunes anything outside the
// window.
func (m *Memory) RecordSample(_ context.Context, employeeID punch.EmployeeID, punchType punch.Type, s anomaly.Sample) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := baselineKey{EmployeeID: employeeID, Type: punchType}
	cutoff := m.cutoff()
	kept := m.baselines[k][:0]
	for _, old := range m.baselines[k] {
		if !old.Day.Before(cutoff) {
			kept = append(kept, old)
		}
	}
	m.baselines[k] = append(kept, s)
	return nil
}

func (m *Memory) cutoff() punch.WorkDate {
	window := m.WindowDays
	if window == 0 {
		window = 30
	}
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	return punch.WorkDateOf(now()).AddDays(-window)
}
