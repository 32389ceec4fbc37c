/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Raw punch-type strings are parsed exactly once, in the handler, via
  punch.ParseType. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - summary package: DailySummary source shape
*/
package api

import (
	"time"

	"github.com/warp/punch-engine/anomaly"
	"github.com/warp/punch-engine/punch"
	"github.com/warp/punch-engine/summary"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// SubmitPunchRequest is one raw clock-event from a device.
type SubmitPunchRequest struct {
	EmployeeID string    `json:"employee_id"`
	PunchType  string    `json:"punch_type"`
	PunchTime  time.Time `json:"punch_time"`
	DeviceType string    `json:"device_type"`
	Location   string    `json:"location,omitempty"`
}

// PunchDTO represents an accepted punch in API responses.
type PunchDTO struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	PunchType  string `json:"punch_type"`
	PunchTime  string `json:"punch_time"`
	WorkDate   string `json:"work_date"`
	DeviceType string `json:"device_type,omitempty"`
	Location   string `json:"location,omitempty"`
}

// DailySummaryDTO is the derived per-day metric set. Hours fields carry
// two-decimal hour equivalents for reporting clients.
type DailySummaryDTO struct {
	EmployeeID        string   `json:"employee_id"`
	WorkDate          string   `json:"work_date"`
	WorkMinutes       int      `json:"work_minutes"`
	BreakMinutes      int      `json:"break_minutes"`
	ActualWorkMinutes int      `json:"actual_work_minutes"`
	NightMinutes      int      `json:"night_minutes"`
	OvertimeMinutes   int      `json:"overtime_minutes"`
	ActualWorkHours   string   `json:"actual_work_hours"`
	Provisional       bool     `json:"provisional"`
	Flags             []string `json:"flags,omitempty"`
}

// AnomalyDTO is an advisory anomaly attached to a submission response.
type AnomalyDTO struct {
	Kind     string  `json:"kind"`
	Severity string  `json:"severity"`
	ZScore   float64 `json:"z_score,omitempty"`
	Detail   string  `json:"detail"`
}

// SubmitPunchResponse wraps an accepted punch with its recomputed
// summary and any advisory anomalies.
type SubmitPunchResponse struct {
	Punch     PunchDTO        `json:"punch"`
	Summary   DailySummaryDTO `json:"summary"`
	Anomalies []AnomalyDTO    `json:"anomalies,omitempty"`
}

// BaselineDTO exposes the rolling history for inspection.
type BaselineDTO struct {
	EmployeeID  string   `json:"employee_id"`
	PunchType   string   `json:"punch_type"`
	SampleCount int      `json:"sample_count"`
	Confident   bool     `json:"confident"`
	MeanClock   string   `json:"mean_clock,omitempty"`
	StddevMin   float64  `json:"stddev_minutes,omitempty"`
	TopLocation []string `json:"top_locations,omitempty"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func toPunchDTO(p punch.Punch) PunchDTO {
	return PunchDTO{
		ID:         string(p.ID),
		EmployeeID: string(p.EmployeeID),
		PunchType:  string(p.Type),
		PunchTime:  p.Time.Format(time.RFC3339),
		WorkDate:   p.WorkDate.String(),
		DeviceType: string(p.Device),
		Location:   p.Location,
	}
}

func toSummaryDTO(s summary.DailySummary) DailySummaryDTO {
	flags := make([]string, 0, len(s.Flags))
	for _, f := range s.Flags {
		flags = append(flags, string(f))
	}
	return DailySummaryDTO{
		EmployeeID:        string(s.EmployeeID),
		WorkDate:          s.WorkDate.String(),
		WorkMinutes:       s.WorkMinutes,
		BreakMinutes:      s.BreakMinutes,
		ActualWorkMinutes: s.ActualWorkMinutes,
		NightMinutes:      s.NightMinutes,
		OvertimeMinutes:   s.OvertimeMinutes,
		ActualWorkHours:   summary.Hours(s.ActualWorkMinutes).String(),
		Provisional:       s.Provisional(),
		Flags:             flags,
	}
}

func toAnomalyDTOs(anomalies []anomaly.Anomaly) []AnomalyDTO {
	if len(anomalies) == 0 {
		return nil
	}
	out := make([]AnomalyDTO, len(anomalies))
	for i, a := range anomalies {
		out[i] = AnomalyDTO{
			Kind:     string(a.Kind),
			Severity: string(a.Severity),
			ZScore:   a.ZScore,
			Detail:   a.Detail,
		}
	}
	return out
}

func toBaselineDTO(b *anomaly.Baseline, minSamples int) BaselineDTO {
	dto := BaselineDTO{
		EmployeeID:  string(b.EmployeeID),
		PunchType:   string(b.Type),
		SampleCount: b.Count(),
		Confident:   b.Confident(minSamples),
		TopLocation: b.TopLocations(3),
	}
	if b.Count() > 0 {
		mean, stddev := b.Stats()
		dto.MeanClock = punch.ClockTime(int(mean)).String()
		dto.StddevMin = stddev
	}
	return dto
}
