/*
Package sqlite provides the SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements punch.Store and anomaly.BaselineStore using SQLite. In
  production the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

APPEND-ONLY ENFORCEMENT:
  Punches are immutable:
  - No UPDATE statements on the punches table
  - No DELETE statements on the punches table
  Baseline samples are the one exception: rows older than the rolling
  window are pruned, because the window IS the data contract.

KEY TABLES:
  punches:          Immutable ledger of accepted punches
  baseline_samples: Rolling per (employee, type) punch-time history

INDEXES:
  - idx_punches_day: Work-day loads (hot path, ordered by punch_time)
  - idx_unique_punch_instant: DB-level backstop against the exact same
    (employee, type, time) being persisted twice under concurrency
  - idx_baseline_window: Windowed baseline reads

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging): readers don't block,
  single writer at a time, better crash recovery.

USAGE:
  store, err := sqlite.New("./data/punches.db")
  if err != nil { log.Fatal(err) }
  defer store.Close()

SEE ALSO:
  - punch/store.go: Interface contract
  - punch/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/punch-engine/anomaly"
	"github.com/warp/punch-engine/punch"
)

// Store implements punch.Store and anomaly.BaselineStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex

	// WindowDays bounds baseline reads and pruning; 0 means 30.
	WindowDays int
	// Now is injectable for tests; nil means time.Now.
	Now func() time.Time
}

// New creates a SQLite store. Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	-- Punches (append-only)
	CREATE TABLE IF NOT EXISTS punches (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		punch_type TEXT NOT NULL,
		punch_time TEXT NOT NULL,
		work_date TEXT NOT NULL,
		device_type TEXT,
		location TEXT,
		created_at TEXT NOT NULL
	);

	-- Work-day loads (hot path)
	CREATE INDEX IF NOT EXISTS idx_punches_day
		ON punches(employee_id, work_date, punch_time);

	-- Backstop against the exact same physical punch being persisted
	-- twice by concurrent submissions; the cooldown check handles
	-- near-duplicates above this layer.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_unique_punch_instant
		ON punches(employee_id, punch_type, punch_time);

	-- Baseline samples (rolling window)
	CREATE TABLE IF NOT EXISTS baseline_samples (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id TEXT NOT NULL,
		punch_type TEXT NOT NULL,
		sample_date TEXT NOT NULL,
		minute_of_day INTEGER NOT NULL,
		location TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_baseline_window
		ON baseline_samples(employee_id, punch_type, sample_date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// PUNCH STORE (punch.Store interface)
// =============================================================================

// Append persists an accepted punch.
func (s *Store) Append(ctx context.Context, p punch.Punch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO punches
		(id, employee_id, punch_type, punch_time, work_date, device_type, location, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	// punch_time is stored normalized to UTC: ORDER BY compares the
	// RFC3339 strings lexicographically, which is only chronological
	// when every row carries the same offset.
	_, err := s.db.ExecContext(ctx, query,
		string(p.ID),
		string(p.EmployeeID),
		string(p.Type),
		p.Time.UTC().Format(time.RFC3339),
		p.WorkDate.String(),
		string(p.Device),
		nullString(p.Location),
		p.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return punch.ErrDuplicatePunch
		}
		return fmt.Errorf("failed to append punch: %w", err)
	}
	return nil
}

// LoadWorkDay returns the day's punches ordered by punch time ascending.
func (s *Store) LoadWorkDay(ctx context.Context, employeeID punch.EmployeeID, date punch.WorkDate) ([]punch.Punch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, employee_id, punch_type, punch_time, work_date, device_type, location, created_at
		FROM punches
		WHERE employee_id = ? AND work_date = ?
		ORDER BY punch_time ASC, created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, string(employeeID), date.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query punches: %w", err)
	}
	defer rows.Close()

	var punches []punch.Punch
	for rows.Next() {
		p, err := scanPunch(rows)
		if err != nil {
			return nil, err
		}
		punches = append(punches, p)
	}
	return punches, rows.Err()
}

func scanPunch(rows *sql.Rows) (punch.Punch, error) {
	var (
		p                              punch.Punch
		id, employeeID, punchType      string
		punchTime, workDate, createdAt string
		deviceType, location           sql.NullString
	)
	if err := rows.Scan(&id, &employeeID, &punchType, &punchTime, &workDate, &deviceType, &location, &createdAt); err != nil {
		return p, fmt.Errorf("failed to scan punch: %w", err)
	}

	t, err := time.Parse(time.RFC3339, punchTime)
	if err != nil {
		return p, fmt.Errorf("corrupt punch_time %q: %w", punchTime, err)
	}
	d, err := punch.ParseWorkDate(workDate)
	if err != nil {
		return p, fmt.Errorf("corrupt work_date %q: %w", workDate, err)
	}
	created, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return p, fmt.Errorf("corrupt created_at %q: %w", createdAt, err)
	}

	p = punch.Punch{
		ID:         punch.PunchID(id),
		EmployeeID: punch.EmployeeID(employeeID),
		Type:       punch.Type(punchType),
		Time:       t,
		WorkDate:   d,
		Device:     punch.DeviceType(deviceType.String),
		Location:   location.String,
		CreatedAt:  created,
	}
	return p, nil
}

// =============================================================================
// BASELINE STORE (anomaly.BaselineStore interface)
// =============================================================================

// LoadBaseline returns the rolling window of samples for the pair.
func (s *Store) LoadBaseline(ctx context.Context, employeeID punch.EmployeeID, punchType punch.Type) (*anomaly.Baseline, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT sample_date, minute_of_day, location
		FROM baseline_samples
		WHERE employee_id = ? AND punch_type = ? AND sample_date >= ?
		ORDER BY sample_date ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query,
		string(employeeID), string(punchType), s.cutoff().String())
	if err != nil {
		return nil, fmt.Errorf("failed to query baseline: %w", err)
	}
	defer rows.Close()

	b := &anomaly.Baseline{EmployeeID: employeeID, Type: punchType}
	for rows.Next() {
		var (
			sampleDate string
			minute     int
			location   sql.NullString
		)
		if err := rows.Scan(&sampleDate, &minute, &location); err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		d, err := punch.ParseWorkDate(sampleDate)
		if err != nil {
			return nil, fmt.Errorf("corrupt sample_date %q: %w", sampleDate, err)
		}
		b.Samples = append(b.Samples, anomaly.Sample{
			Day:      d,
			Minute:   punch.ClockTime(minute),
			Location: location.String,
		})
	}
	return b, rows.Err()
}

// RecordSample appends an observation and prunes rows that fell out of
// the rolling window.
func (s *Store) RecordSample(ctx context.Context, employeeID punch.EmployeeID, punchType punch.Type, sample anomaly.Sample) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO baseline_samples
		(employee_id, punch_type, sample_date, minute_of_day, location, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		string(employeeID),
		string(punchType),
		sample.Day.String(),
		int(sample.Minute),
		nullString(sample.Location),
		s.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to record sample: %w", err)
	}

	// Best-effort pruning; the read path windows regardless.
	_, _ = s.db.ExecContext(ctx, `
		DELETE FROM baseline_samples
		WHERE employee_id = ? AND punch_type = ? AND sample_date < ?`,
		string(employeeID), string(punchType), s.cutoff().String())
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *Store) cutoff() punch.WorkDate {
	window := s.WindowDays
	if window == 0 {
		window = 30
	}
	return punch.WorkDateOf(s.now()).AddDays(-window)
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key"))
}
