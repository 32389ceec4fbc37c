/*
detector.go - z-score based anomaly scoring

PURPOSE:
  Compares a punch against the employee's baseline and emits
  severity-tagged anomalies:

  1. Time:      z = |minute - mean| / stddev over same-type history.
                z > 4 CRITICAL, z > 3 HIGH, z > 2.5 MEDIUM, z >= MinZ LOW,
                below MinZ no signal. stddev == 0 means no signal.
  2. Location:  Secondary, independent check; flags a location absent
                from the top-K historical locations. Weighted lower than
                time anomalies (LOW, MEDIUM when the time z is elevated).
  3. Frequency: Same-day punch count above twice the historical daily
                average is a separate anomaly.

NO-OPINION RESULTS:
  Below MinSamples the detector returns nothing: insufficient data is
  not an anomaly and never an error.

SEE ALSO:
  - baseline.go: Stats and windowing
  - attendance package: Runs scoring after acceptance, fire-and-forget
*/
package anomaly

import (
	"context"
	"fmt"
	"math"

	"github.com/warp/punch-engine/punch"
)

// =============================================================================
// ANOMALY EVENT
// =============================================================================

type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

type Kind string

const (
	KindTime      Kind = "time"
	KindLocation  Kind = "location"
	KindFrequency Kind = "frequency"
)

// Anomaly is an advisory event emitted to an external alerting
// collaborator. It is not persisted by this core.
type Anomaly struct {
	EmployeeID punch.EmployeeID
	PunchID    punch.PunchID
	Type       punch.Type
	Kind       Kind
	Severity   Severity
	ZScore     float64 // 0 for non-time anomalies
	Detail     string
}

// Emitter delivers anomalies to an external alerting collaborator.
// Delivery is fire-and-forget: failure must never roll back punch
// acceptance.
type Emitter interface {
	Emit(ctx context.Context, a Anomaly) error
}

// NopEmitter discards anomalies. Used when alerting is disabled.
type NopEmitter struct{}

func (NopEmitter) Emit(context.Context, Anomaly) error { return nil }

// =============================================================================
// DETECTOR
// =============================================================================

// Detector scores punches against baselines. Pure computation over a
// snapshot; safe to run concurrently.
type Detector struct {
	// MinSamples below which no scoring occurs. Default 10.
	MinSamples int
	// MinZ is the minimum z-score producing any time signal. Default 2.0.
	MinZ float64
	// TopK historical locations considered usual. Default 3.
	TopK int
}

func NewDetector(cfg punch.Config) Detector {
	cfg = cfg.Normalized()
	return Detector{
		MinSamples: cfg.MinHistorySamples,
		MinZ:       cfg.AnomalySensitivity,
		TopK:       3,
	}
}

// Score evaluates one accepted punch. dayCount is the total number of
// same-type punches on the punch's work-day, including this one.
// Returns nil when the baseline is not confident or nothing deviates.
func (d Detector) Score(b *Baseline, p punch.Punch, dayCount int) []Anomaly {
	if !b.Confident(d.minSamples()) {
		return nil // insufficient history: no opinion
	}

	var out []Anomaly
	z := 0.0

	mean, stddev := b.Stats()
	if stddev > 0 {
		z = math.Abs(float64(punch.ClockTimeOf(p.Time))-mean) / stddev
		if sev, ok := d.timeSeverity(z); ok {
			out = append(out, Anomaly{
				EmployeeID: p.EmployeeID,
				PunchID:    p.ID,
				Type:       p.Type,
				Kind:       KindTime,
				Severity:   sev,
				ZScore:     z,
				Detail: fmt.Sprintf("punched at %s, usual %s ± %.0f min (z=%.1f)",
					punch.ClockTimeOf(p.Time), punch.ClockTime(int(mean)), stddev, z),
			})
		}
	}

	if a := d.scoreLocation(b, p, z); a != nil {
		out = append(out, *a)
	}
	if a := d.scoreFrequency(b, p, dayCount); a != nil {
		out = append(out, *a)
	}
	return out
}

func (d Detector) timeSeverity(z float64) (Severity, bool) {
	minZ := d.MinZ
	if minZ == 0 {
		minZ = 2.0
	}
	switch {
	case z > 4:
		return SeverityCritical, true
	case z > 3:
		return SeverityHigh, true
	case z > 2.5:
		return SeverityMedium, true
	case z >= minZ:
		return SeverityLow, true
	default:
		return "", false
	}
}

// scoreLocation flags a punch from a location outside the employee's
// top-K usual locations. Independent of the time check but weighted
// lower: LOW by default, MEDIUM when the time z-score is also elevated.
func (d Detector) scoreLocation(b *Baseline, p punch.Punch, z float64) *Anomaly {
	if p.Location == "" {
		return nil
	}
	topK := d.TopK
	if topK == 0 {
		topK = 3
	}
	usual := b.TopLocations(topK)
	if len(usual) == 0 {
		return nil // no location history to compare against
	}
	for _, loc := range usual {
		if loc == p.Location {
			return nil
		}
	}
	sev := SeverityLow
	if z > 2.5 {
		sev = SeverityMedium
	}
	return &Anomaly{
		EmployeeID: p.EmployeeID,
		PunchID:    p.ID,
		Type:       p.Type,
		Kind:       KindLocation,
		Severity:   sev,
		Detail:     fmt.Sprintf("location %q not among usual locations %v", p.Location, usual),
	}
}

// scoreFrequency flags a same-day punch count above twice the
// historical daily average.
func (d Detector) scoreFrequency(b *Baseline, p punch.Punch, dayCount int) *Anomaly {
	avg := b.DailyAverage()
	if avg == 0 || float64(dayCount) <= 2*avg {
		return nil
	}
	return &Anomaly{
		EmployeeID: p.EmployeeID,
		PunchID:    p.ID,
		Type:       p.Type,
		Kind:       KindFrequency,
		Severity:   SeverityMedium,
		Detail: fmt.Sprintf("%d %s punches today, historical average %.1f/day",
			dayCount, p.Type, avg),
	}
}

func (d Detector) minSamples() int {
	if d.MinSamples == 0 {
		return 10
	}
	return d.MinSamples
}
