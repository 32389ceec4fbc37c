/*
handlers.go - HTTP API handlers for the punch engine

PURPOSE:
  Exposes punch submission and the derived read models via REST.
  Handles HTTP request/response, JSON serialization, and delegates to
  the attendance engine.

ENDPOINTS:
  Punches:
    POST /api/punches                                      Submit a punch
    GET  /api/employees/{id}/workdays/{date}/punches       Work-day punch list
    GET  /api/employees/{id}/workdays/{date}/summary       Daily summary
    GET  /api/employees/{id}/baselines/{type}              Rolling baseline

  Ops:
    GET  /api/health                                       Liveness

ERROR HANDLING:
  The punch error taxonomy maps to HTTP status:
  - 400: Malformed JSON, unknown punch type, bad date
  - 409: Duplicate punch inside cooldown
  - 422: Daily limit exceeded, invalid sequence
  - 500: Storage/invariant failures

SECURITY NOTE:
  No authentication middleware: identity resolution happens upstream of
  this core and endpoints trust the employee_id they are given.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/warp/punch-engine/attendance"
	"github.com/warp/punch-engine/punch"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Engine *attendance.Engine
	Config punch.Config
	Log    *zap.Logger
}

// NewHandler creates a handler around the engine.
func NewHandler(engine *attendance.Engine, cfg punch.Config, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Engine: engine, Config: cfg.Normalized(), Log: logger}
}

// =============================================================================
// PUNCH SUBMISSION
// =============================================================================

// SubmitPunch handles POST /api/punches.
func (h *Handler) SubmitPunch(w http.ResponseWriter, r *http.Request) {
	var req SubmitPunchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body", "bad_request")
		return
	}
	if req.EmployeeID == "" {
		h.writeError(w, http.StatusBadRequest, "employee_id is required", "bad_request")
		return
	}

	typ, err := punch.ParseType(req.PunchType)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error(), "unknown_punch_type")
		return
	}

	result, err := h.Engine.Submit(r.Context(), attendance.Submission{
		EmployeeID: punch.EmployeeID(req.EmployeeID),
		Type:       typ,
		Time:       req.PunchTime,
		Device:     punch.DeviceType(req.DeviceType),
		Location:   req.Location,
	})
	if err != nil {
		h.writePunchError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, SubmitPunchResponse{
		Punch:     toPunchDTO(result.Punch),
		Summary:   toSummaryDTO(result.Summary),
		Anomalies: toAnomalyDTOs(result.Anomalies),
	})
}

// =============================================================================
// READ MODELS
// =============================================================================

// GetWorkDayPunches handles GET /api/employees/{id}/workdays/{date}/punches.
func (h *Handler) GetWorkDayPunches(w http.ResponseWriter, r *http.Request) {
	employeeID := punch.EmployeeID(chi.URLParam(r, "id"))
	date, err := punch.ParseWorkDate(chi.URLParam(r, "date"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error(), "bad_date")
		return
	}

	punches, err := h.Engine.WorkDayPunches(r.Context(), employeeID, date)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error(), "internal")
		return
	}

	dtos := make([]PunchDTO, len(punches))
	for i, p := range punches {
		dtos[i] = toPunchDTO(p)
	}
	h.writeJSON(w, http.StatusOK, dtos)
}

// GetDailySummary handles GET /api/employees/{id}/workdays/{date}/summary.
func (h *Handler) GetDailySummary(w http.ResponseWriter, r *http.Request) {
	employeeID := punch.EmployeeID(chi.URLParam(r, "id"))
	date, err := punch.ParseWorkDate(chi.URLParam(r, "date"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error(), "bad_date")
		return
	}

	s, err := h.Engine.DailySummary(r.Context(), employeeID, date)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error(), "internal")
		return
	}
	h.writeJSON(w, http.StatusOK, toSummaryDTO(s))
}

// GetBaseline handles GET /api/employees/{id}/baselines/{type}.
func (h *Handler) GetBaseline(w http.ResponseWriter, r *http.Request) {
	employeeID := punch.EmployeeID(chi.URLParam(r, "id"))
	typ, err := punch.ParseType(chi.URLParam(r, "type"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error(), "unknown_punch_type")
		return
	}

	b, err := h.Engine.Baseline(r.Context(), employeeID, typ)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error(), "internal")
		return
	}
	h.writeJSON(w, http.StatusOK, toBaselineDTO(b, h.Config.MinHistorySamples))
}

// Health handles GET /api/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// ERROR MAPPING
// =============================================================================

func (h *Handler) writePunchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, punch.ErrDuplicatePunch):
		h.writeError(w, http.StatusConflict, err.Error(), "duplicate_punch")
	case errors.Is(err, punch.ErrDailyLimitExceeded):
		h.writeError(w, http.StatusUnprocessableEntity, err.Error(), "daily_limit_exceeded")
	case errors.Is(err, punch.ErrInvalidSequence):
		h.writeError(w, http.StatusUnprocessableEntity, err.Error(), "invalid_sequence")
	case errors.Is(err, punch.ErrUnknownPunchType):
		h.writeError(w, http.StatusBadRequest, err.Error(), "unknown_punch_type")
	default:
		h.Log.Error("punch submission failed", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal error", "internal")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg, code string) {
	h.writeJSON(w, status, ErrorResponse{Error: msg, Code: code})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.Log.Warn("response encode failed", zap.Error(err))
	}
}
