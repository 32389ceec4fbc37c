/*
Package attendance wires the punch gates, time accounting, and anomaly
scoring into the punch submission pipeline.

PURPOSE:
  One punch submission flows synchronously through:

    attribute work-day -> duplicate check -> daily limit -> transition
    -> persist -> recompute daily summary -> score anomalies

  All four gates must pass before the punch is persisted. Summary
  recomputation and anomaly scoring happen after acceptance; the anomaly
  path is advisory and can never fail a submission.

CONCURRENCY:
  Punches for different employees proceed fully in parallel. Punches for
  the same employee are serialized through a per-employee lock arena so
  every validation runs against a consistent, read-your-writes view of
  that employee's work-day. Without this, two concurrent IN submissions
  could both pass a stale "no prior IN today" read.

SEE ALSO:
  - locks.go: The keyed lock arena
  - punch package: Gates, types, store contract
  - summary, anomaly packages: Pure post-acceptance computations
*/
package attendance

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warp/punch-engine/anomaly"
	"github.com/warp/punch-engine/punch"
	"github.com/warp/punch-engine/summary"
)

// =============================================================================
// ENGINE
// =============================================================================

// Engine processes punch submissions. Construct with New.
type Engine struct {
	cfg       punch.Config
	store     punch.Store
	baselines anomaly.BaselineStore
	detector  anomaly.Detector
	emitter   anomaly.Emitter
	log       *zap.Logger
	locks     *lockArena
	now       func() time.Time
}

// New creates an Engine. baselines and emitter may be nil, which
// disables anomaly detection; logger may be nil for silence.
func New(cfg punch.Config, store punch.Store, baselines anomaly.BaselineStore, emitter anomaly.Emitter, logger *zap.Logger) *Engine {
	cfg = cfg.Normalized()
	if emitter == nil {
		emitter = anomaly.NopEmitter{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		cfg:       cfg,
		store:     store,
		baselines: baselines,
		detector:  anomaly.NewDetector(cfg),
		emitter:   emitter,
		log:       logger,
		locks:     newLockArena(),
		now:       time.Now,
	}
}

// Submission is one raw punch from a device, after upstream identity
// resolution.
type Submission struct {
	EmployeeID punch.EmployeeID
	Type       punch.Type
	Time       time.Time
	Device     punch.DeviceType
	Location   string // optional
}

// Result is the outcome of an accepted submission.
type Result struct {
	Punch     punch.Punch
	Summary   summary.DailySummary
	Anomalies []anomaly.Anomaly
}

// Submit validates and persists one punch. Business rejections come
// back as the punch error taxonomy (check with errors.Is / errors.As);
// any other error is a collaborator failure.
func (e *Engine) Submit(ctx context.Context, sub Submission) (*Result, error) {
	if !sub.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", punch.ErrUnknownPunchType, string(sub.Type))
	}
	if sub.EmployeeID == "" {
		return nil, fmt.Errorf("employee id is required")
	}
	if sub.Time.IsZero() {
		sub.Time = e.now()
	}

	// Serialize per employee: every read below must see prior writes.
	unlock := e.locks.acquire(sub.EmployeeID)
	defer unlock()

	workDate, err := e.attribute(ctx, sub)
	if err != nil {
		return nil, err
	}

	day, err := e.loadWorkDay(ctx, sub.EmployeeID, workDate)
	if err != nil {
		return nil, err
	}

	if err := punch.CheckDuplicate(sub.EmployeeID, day, sub.Type, sub.Time, e.cfg.Cooldown); err != nil {
		e.logRejection(sub, workDate, err)
		return nil, err
	}
	if err := punch.CheckDailyLimit(sub.EmployeeID, punch.CountByType(day), sub.Type, e.cfg.DailyLimits); err != nil {
		e.logRejection(sub, workDate, err)
		return nil, err
	}
	if err := punch.ValidateTransition(sub.EmployeeID, day, sub.Type); err != nil {
		e.logRejection(sub, workDate, err)
		return nil, err
	}

	accepted := punch.Punch{
		ID:         punch.PunchID(uuid.NewString()),
		EmployeeID: sub.EmployeeID,
		Type:       sub.Type,
		Time:       sub.Time,
		WorkDate:   workDate,
		Device:     sub.Device,
		Location:   sub.Location,
		CreatedAt:  e.now(),
	}
	if err := e.store.Append(ctx, accepted); err != nil {
		return nil, fmt.Errorf("persist punch: %w", err)
	}

	day = insertOrdered(day, accepted)
	daySummary, err := summary.Accumulate(summary.Input{
		Punches:         day,
		NightBand:       e.cfg.NightBand,
		StandardMinutes: e.cfg.StandardWorkMinutes,
		Now:             e.now(),
	})
	if err != nil {
		// The punch is already persisted; a summary failure must not
		// turn acceptance into an error the client would retry.
		e.log.Warn("summary recompute failed",
			zap.String("punch", string(accepted.ID)),
			zap.Error(err))
		daySummary = summary.DailySummary{
			EmployeeID: accepted.EmployeeID,
			WorkDate:   accepted.WorkDate,
		}
	}

	e.log.Info("punch accepted",
		zap.String("employee", string(accepted.EmployeeID)),
		zap.String("type", string(accepted.Type)),
		zap.String("work_date", workDate.String()),
		zap.String("punch", string(accepted.ID)),
	)

	anomalies := e.scoreAnomalies(ctx, accepted, day)
	return &Result{Punch: accepted, Summary: daySummary, Anomalies: anomalies}, nil
}

// WorkDayPunches returns the ordered punch list for one work-day.
func (e *Engine) WorkDayPunches(ctx context.Context, employeeID punch.EmployeeID, date punch.WorkDate) ([]punch.Punch, error) {
	return e.loadWorkDay(ctx, employeeID, date)
}

// DailySummary recomputes the summary for one work-day from its punch
// list. Open-day summaries are provisional.
func (e *Engine) DailySummary(ctx context.Context, employeeID punch.EmployeeID, date punch.WorkDate) (summary.DailySummary, error) {
	day, err := e.loadWorkDay(ctx, employeeID, date)
	if err != nil {
		return summary.DailySummary{}, err
	}
	s, err := summary.Accumulate(summary.Input{
		Punches:         day,
		NightBand:       e.cfg.NightBand,
		StandardMinutes: e.cfg.StandardWorkMinutes,
		Now:             e.now(),
	})
	if err != nil {
		return summary.DailySummary{}, err
	}
	if len(day) == 0 {
		s.EmployeeID = employeeID
		s.WorkDate = date
	}
	return s, nil
}

// Baseline exposes the rolling history for inspection surfaces.
func (e *Engine) Baseline(ctx context.Context, employeeID punch.EmployeeID, punchType punch.Type) (*anomaly.Baseline, error) {
	if e.baselines == nil {
		return &anomaly.Baseline{EmployeeID: employeeID, Type: punchType}, nil
	}
	return e.baselines.LoadBaseline(ctx, employeeID, punchType)
}

// =============================================================================
// PIPELINE STAGES
// =============================================================================

// attribute resolves the work-day for the submission. A pre-boundary
// punch continues the previous date only when that date is still open.
func (e *Engine) attribute(ctx context.Context, sub Submission) (punch.WorkDate, error) {
	priorOpen := false
	if punch.ClockTimeOf(sub.Time) < e.cfg.DayBoundary {
		prev, err := e.loadWorkDay(ctx, sub.EmployeeID, punch.WorkDateOf(sub.Time).Previous())
		if err != nil {
			return punch.WorkDate{}, err
		}
		priorOpen = punch.IsOpen(prev)
	}
	return punch.AttributeWorkDay(sub.Time, e.cfg.DayBoundary, priorOpen), nil
}

func (e *Engine) loadWorkDay(ctx context.Context, employeeID punch.EmployeeID, date punch.WorkDate) ([]punch.Punch, error) {
	day, err := e.store.LoadWorkDay(ctx, employeeID, date)
	if err != nil {
		return nil, fmt.Errorf("load work-day %s: %w", date, err)
	}
	if err := punch.VerifyOrder(day); err != nil {
		return nil, err
	}
	return day, nil
}

// scoreAnomalies updates the baseline and scores the accepted punch.
// Advisory only: every failure is logged and swallowed.
func (e *Engine) scoreAnomalies(ctx context.Context, accepted punch.Punch, day []punch.Punch) []anomaly.Anomaly {
	if e.baselines == nil {
		return nil
	}

	base, err := e.baselines.LoadBaseline(ctx, accepted.EmployeeID, accepted.Type)
	if err != nil {
		e.log.Warn("baseline load failed", zap.Error(err))
		base = nil
	}

	sameType := 0
	for _, p := range day {
		if p.Type == accepted.Type {
			sameType++
		}
	}

	anomalies := e.detector.Score(base, accepted, sameType)
	for _, a := range anomalies {
		if err := e.emitter.Emit(ctx, a); err != nil {
			// Delivery failure never rolls back acceptance.
			e.log.Warn("anomaly emit failed",
				zap.String("employee", string(a.EmployeeID)),
				zap.String("kind", string(a.Kind)),
				zap.Error(err))
		} else {
			e.log.Info("anomaly detected",
				zap.String("employee", string(a.EmployeeID)),
				zap.String("kind", string(a.Kind)),
				zap.String("severity", string(a.Severity)),
				zap.Float64("z", a.ZScore))
		}
	}

	sample := anomaly.Sample{
		Day:      accepted.WorkDate,
		Minute:   punch.ClockTimeOf(accepted.Time),
		Location: accepted.Location,
	}
	if err := e.baselines.RecordSample(ctx, accepted.EmployeeID, accepted.Type, sample); err != nil {
		e.log.Warn("baseline record failed", zap.Error(err))
	}

	return anomalies
}

// insertOrdered places p into the chronologically ordered day slice.
// The gates do not require monotonic submission times, so a backdated
// punch may belong before existing entries.
func insertOrdered(day []punch.Punch, p punch.Punch) []punch.Punch {
	i := sort.Search(len(day), func(i int) bool { return day[i].Time.After(p.Time) })
	day = append(day, punch.Punch{})
	copy(day[i+1:], day[i:])
	day[i] = p
	return day
}

func (e *Engine) logRejection(sub Submission, date punch.WorkDate, err error) {
	e.log.Info("punch rejected",
		zap.String("employee", string(sub.EmployeeID)),
		zap.String("type", string(sub.Type)),
		zap.String("work_date", date.String()),
		zap.String("reason", err.Error()),
	)
}
