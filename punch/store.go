/*
store.go - Persistence interface for accepted punches

PURPOSE:
  Defines the boundary between the punch engine and its persistence
  collaborator. The engine validates; the store persists. Different
  implementations can use SQLite, PostgreSQL, or in-memory storage.

APPEND-ONLY CONTRACT:
  Punches are immutable once accepted:
  - Append(): Single punch write
  - NO Update() or Delete() methods exist
  Corrections are modeled as new punches plus an external audit trail.

ORDERING CONTRACT:
  LoadWorkDay MUST return punches ordered by punch time ascending. The
  engine treats a violation as corrupt state (ErrPunchOrder), not as a
  business rejection.

IMPLEMENTATIONS:
  - store/sqlite: Production SQLite store
  - punch/store:  In-memory store for testing/dev

SEE ALSO:
  - attendance package: The engine consuming this interface
  - anomaly package: BaselineStore, the history-side counterpart
*/
package punch

import "context"

// Store persists accepted punches. Append-only: no update, no delete.
type Store interface {
	// Append persists an accepted punch.
	Append(ctx context.Context, p Punch) error

	// LoadWorkDay returns all punches attributed to (employeeID, date),
	// ordered by punch time ascending.
	LoadWorkDay(ctx context.Context, employeeID EmployeeID, date WorkDate) ([]Punch, error)
}
