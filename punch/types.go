/*
Package punch provides the core punch validation engine.

PURPOSE:
  This package contains the domain types and the four gating checks that
  decide whether a raw clock-event ("punch") is accepted: work-day
  attribution, duplicate suppression, daily limits, and the punch type
  state machine. All checks are pure decision functions fed an ordered
  snapshot of the work-day's punches.

KEY CONCEPTS IN THIS FILE (types.go):
  - Type: A closed sum type for the four punch kinds (IN/OUTSIDE/RETURN/OUT)
  - Punch: An immutable accepted clock-event
  - WorkDate: The logical date a punch is attributed to (may differ from
    its calendar date for shifts crossing midnight)
  - EmployeeID/PunchID: Type-safe identifiers

DESIGN PRINCIPLES:
  1. Immutability: Punches are never modified; corrections are new punches
  2. Parse at ingress: raw strings become Type exactly once, at the boundary
  3. Type Safety: Strong typing for IDs prevents mixing employees/punches
  4. Purity: Decision functions take snapshots, never reach for globals

USAGE:
  typ, err := punch.ParseType("IN")
  if err != nil { ... }
  date := punch.AttributeWorkDay(at, cfg.DayBoundary, priorOpen)

SEE ALSO:
  - transition.go: The punch sequence state machine
  - clock.go: Clock-time and night band arithmetic
  - errors.go: Rejection taxonomy
*/
package punch

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// PUNCH TYPE - Closed sum type, parsed once at the boundary
// =============================================================================

type Type string

const (
	TypeIn      Type = "IN"
	TypeOutside Type = "OUTSIDE"
	TypeReturn  Type = "RETURN"
	TypeOut     Type = "OUT"
)

// Types lists all valid punch types in their canonical daily order.
var Types = []Type{TypeIn, TypeOutside, TypeReturn, TypeOut}

// ParseType converts a raw string into a Type. This is the single place
// raw punch-type strings are inspected; internal logic only sees Type.
func ParseType(raw string) (Type, error) {
	switch Type(strings.ToUpper(strings.TrimSpace(raw))) {
	case TypeIn:
		return TypeIn, nil
	case TypeOutside:
		return TypeOutside, nil
	case TypeReturn:
		return TypeReturn, nil
	case TypeOut:
		return TypeOut, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPunchType, raw)
	}
}

// Valid reports whether t is one of the four known punch types.
func (t Type) Valid() bool {
	switch t {
	case TypeIn, TypeOutside, TypeReturn, TypeOut:
		return true
	}
	return false
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string
type PunchID string

// DeviceType identifies the submission channel. Informational only:
// device/credential resolution happens upstream of this core.
type DeviceType string

const (
	DeviceCard   DeviceType = "card"
	DeviceNFC    DeviceType = "nfc"
	DeviceMobile DeviceType = "mobile"
	DeviceWeb    DeviceType = "web"
	DeviceAdmin  DeviceType = "admin"
)

// =============================================================================
// WORK DATE - The logical date a punch belongs to
// =============================================================================

// WorkDate is a calendar date without a time component. It is comparable
// and safe to use as a map key.
type WorkDate struct {
	Year  int
	Month time.Month
	Day   int
}

func NewWorkDate(year int, month time.Month, day int) WorkDate {
	// Route through time.Date so out-of-range components normalize.
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return WorkDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// WorkDateOf returns the calendar date of t in t's own location.
func WorkDateOf(t time.Time) WorkDate {
	y, m, d := t.Date()
	return WorkDate{Year: y, Month: m, Day: d}
}

// ParseWorkDate parses a "2006-01-02" date string.
func ParseWorkDate(s string) (WorkDate, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return WorkDate{}, fmt.Errorf("invalid work date %q: %w", s, err)
	}
	return WorkDateOf(t), nil
}

func (d WorkDate) Previous() WorkDate { return d.AddDays(-1) }
func (d WorkDate) Next() WorkDate     { return d.AddDays(1) }

func (d WorkDate) AddDays(n int) WorkDate {
	t := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
	return WorkDateOf(t)
}

// Midnight returns the start of the work date in the given location.
func (d WorkDate) Midnight(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d WorkDate) Before(other WorkDate) bool {
	return d.Midnight(time.UTC).Before(other.Midnight(time.UTC))
}

func (d WorkDate) IsZero() bool { return d == WorkDate{} }

func (d WorkDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// =============================================================================
// PUNCH - Immutable accepted clock-event
// =============================================================================

// Punch is a single accepted clock-event. Once accepted it is never
// modified; corrections are modeled as new punches plus an audit
// annotation handled outside this core.
type Punch struct {
	ID         PunchID
	EmployeeID EmployeeID
	Type       Type
	Time       time.Time
	WorkDate   WorkDate
	Device     DeviceType
	Location   string // optional; empty means unknown
	CreatedAt  time.Time
}

// =============================================================================
// WORK DAY HELPERS
// =============================================================================

// IsOpen reports whether a work-day punch sequence is still open,
// i.e. its last punch is not OUT.
func IsOpen(punches []Punch) bool {
	if len(punches) == 0 {
		return false
	}
	return punches[len(punches)-1].Type != TypeOut
}

// VerifyOrder checks the storage contract that punches arrive ordered by
// time ascending. A violation is an invariant breakage, not a business
// rejection.
func VerifyOrder(punches []Punch) error {
	for i := 1; i < len(punches); i++ {
		if punches[i].Time.Before(punches[i-1].Time) {
			return fmt.Errorf("%w: punch %s before predecessor %s",
				ErrPunchOrder, punches[i].ID, punches[i-1].ID)
		}
	}
	return nil
}
