/*
errors.go - Centralized rejection taxonomy for the punch engine

PURPOSE:
  All expected business-rule rejections in one place. Rejections are
  values, never panics: the four gating checks return typed errors and
  the transport layer decides the user-facing status code.

ERROR CATEGORIES:
  1. Gating rejections - duplicate, daily limit, invalid sequence
  2. Ingress errors    - unknown punch type
  3. Invariant errors  - out-of-order punch list from storage,
                         data-quality violations in time accounting

USAGE:
  Callers branch with errors.Is and recover details with errors.As:

    if errors.Is(err, punch.ErrInvalidSequence) {
        var seqErr *punch.SequenceError
        errors.As(err, &seqErr) // seqErr.Current, seqErr.Requested
    }

SEE ALSO:
  - transition.go: Returns SequenceError
  - duplicate.go: Returns DuplicateError
  - limits.go: Returns LimitError
*/
package punch

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrDuplicatePunch is returned when a punch of the same type arrives
	// inside the cooldown window of the previous one. Guards double-tap
	// scans; recoverable ("already recorded").
	ErrDuplicatePunch = errors.New("duplicate punch inside cooldown window")

	// ErrDailyLimitExceeded is returned when the per-type daily quota is
	// reached. Recoverable via a manual/admin path outside this core.
	ErrDailyLimitExceeded = errors.New("daily punch limit exceeded")

	// ErrInvalidSequence is returned when the requested type is not a legal
	// transition from the work-day's current state.
	ErrInvalidSequence = errors.New("invalid punch sequence")

	// ErrUnknownPunchType is returned by ParseType for unrecognized input.
	ErrUnknownPunchType = errors.New("unknown punch type")

	// ErrPunchOrder indicates storage returned a punch list out of order.
	// This is an invariant violation, not a business rejection.
	ErrPunchOrder = errors.New("punch list out of chronological order")

	// ErrDataQuality indicates a negative or otherwise impossible duration
	// was encountered while accounting a work-day. The value is clamped to
	// zero but the condition is always surfaced.
	ErrDataQuality = errors.New("data quality violation")
)

// =============================================================================
// STRUCTURED ERRORS - Carry rejection context for UI guidance
// =============================================================================

// DuplicateError details a cooldown rejection.
type DuplicateError struct {
	EmployeeID EmployeeID
	Type       Type
	LastAt     time.Time
	AttemptAt  time.Time
	Cooldown   time.Duration
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate %s punch: previous at %s, attempt at %s (cooldown %s)",
		e.Type, e.LastAt.Format(time.RFC3339), e.AttemptAt.Format(time.RFC3339), e.Cooldown)
}

func (e *DuplicateError) Unwrap() error { return ErrDuplicatePunch }

// LimitError details a daily quota rejection.
type LimitError struct {
	EmployeeID EmployeeID
	Type       Type
	Limit      int
	Count      int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("daily limit exceeded: %d %s punches already recorded (limit %d)",
		e.Count, e.Type, e.Limit)
}

func (e *LimitError) Unwrap() error { return ErrDailyLimitExceeded }

// SequenceError details an illegal state transition. Current and
// Requested are surfaced so the UI can explain what is missing.
type SequenceError struct {
	EmployeeID EmployeeID
	Current    State
	Requested  Type
}

func (e *SequenceError) Error() string {
	return fmt.Sprintf("invalid sequence: cannot punch %s while in state %s (allowed: %v)",
		e.Requested, e.Current, AllowedNext(e.Current))
}

func (e *SequenceError) Unwrap() error { return ErrInvalidSequence }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is a recoverable business
// rejection caused by the submitted punch rather than by the system.
func IsClientError(err error) bool {
	return errors.Is(err, ErrDuplicatePunch) ||
		errors.Is(err, ErrDailyLimitExceeded) ||
		errors.Is(err, ErrInvalidSequence) ||
		errors.Is(err, ErrUnknownPunchType)
}

// IsInvariantError returns true if the error indicates corrupt state
// from a collaborator (storage ordering, impossible durations).
func IsInvariantError(err error) bool {
	return errors.Is(err, ErrPunchOrder) || errors.Is(err, ErrDataQuality)
}
