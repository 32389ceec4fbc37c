package punch

import "time"

// =============================================================================
// CONFIG - Explicit option set consumed by the engine
// =============================================================================

// Config carries every tunable of the punch engine. Zero values are
// replaced by defaults via Normalized; there is no ambient global state.
type Config struct {
	// DayBoundary is the clock-time before which a punch may still belong
	// to the previous work-day, when that day is open. Default 05:00.
	DayBoundary ClockTime

	// Cooldown is the minimum gap between two punches of the same type.
	// Default 3 minutes.
	Cooldown time.Duration

	// DailyLimits caps punches per type per work-day.
	// Defaults: IN 1, OUT 1, OUTSIDE 3, RETURN 3.
	DailyLimits map[Type]int

	// NightBand is the recurring interval counted as night work.
	// Default 22:00-05:00 (wraps midnight).
	NightBand Band

	// StandardWorkMinutes is the daily norm for overtime. Default 480.
	StandardWorkMinutes int

	// AnomalySensitivity is the minimum z-score that produces any anomaly
	// signal. Default 2.0.
	AnomalySensitivity float64

	// MinHistorySamples is the sample count below which the anomaly
	// detector has no opinion. Default 10.
	MinHistorySamples int

	// BaselineWindowDays bounds the rolling history window. Default 30.
	BaselineWindowDays int
}

func DefaultDailyLimits() map[Type]int {
	return map[Type]int{
		TypeIn:      1,
		TypeOut:     1,
		TypeOutside: 3,
		TypeReturn:  3,
	}
}

func DefaultConfig() Config {
	return Config{
		DayBoundary:         NewClockTime(5, 0),
		Cooldown:            3 * time.Minute,
		DailyLimits:         DefaultDailyLimits(),
		NightBand:           Band{Start: NewClockTime(22, 0), End: NewClockTime(5, 0)},
		StandardWorkMinutes: 480,
		AnomalySensitivity:  2.0,
		MinHistorySamples:   10,
		BaselineWindowDays:  30,
	}
}

// Normalized returns a copy with defaults filled in for zero values.
func (c Config) Normalized() Config {
	def := DefaultConfig()
	if c.DayBoundary == 0 {
		c.DayBoundary = def.DayBoundary
	}
	if c.Cooldown == 0 {
		c.Cooldown = def.Cooldown
	}
	if len(c.DailyLimits) == 0 {
		c.DailyLimits = def.DailyLimits
	}
	if c.NightBand == (Band{}) {
		c.NightBand = def.NightBand
	}
	if c.StandardWorkMinutes == 0 {
		c.StandardWorkMinutes = def.StandardWorkMinutes
	}
	if c.AnomalySensitivity == 0 {
		c.AnomalySensitivity = def.AnomalySensitivity
	}
	if c.MinHistorySamples == 0 {
		c.MinHistorySamples = def.MinHistorySamples
	}
	if c.BaselineWindowDays == 0 {
		c.BaselineWindowDays = def.BaselineWindowDays
	}
	return c
}
