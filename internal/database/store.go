// Package database provides the storage layer for wayfinder.
//
// It implements the Store interface using SQLite with WAL mode. The schema
// is managed by embedded golang-migrate migrations. DBService holds saved
// navigator state (the per-unit blobs plus the host's display snapshot),
// navigation sessions and the event journal written while a host runs.
package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Mr-Dark-debug/wayfinder/pkg/timeutil"
)

// ErrStateNotFound is returned by LoadState for an unknown name.
var ErrStateNotFound = errors.New("database: saved state not found")

// Store defines the interface for navigation persistence.
type Store interface {
	// SaveState stores or replaces a named navigator state.
	SaveState(st *SavedState) error
	// LoadState returns the named state, or ErrStateNotFound.
	LoadState(name string) (*SavedState, error)
	// DeleteState removes the named state. Unknown names are not an error.
	DeleteState(name string) error
	// ListStates returns every saved state, most recently updated first.
	ListStates() ([]*SavedState, error)

	// StartSession records a new running session.
	StartSession(sess *Session) error
	// EndSession marks a session finished with the given status.
	EndSession(sessionID, status string) error
	// ListSessions returns sessions, most recent first.
	ListSessions(limit int) ([]*Session, error)

	// InsertEvent persists one journal record.
	InsertEvent(ev *NavEvent) error
	// BatchInsertEvents inserts several records in a single transaction.
	BatchInsertEvents(events []*NavEvent) error
	// QueryEvents returns records matching filter in session order.
	QueryEvents(filter EventFilter) ([]*NavEvent, error)
	// GetSessionStats returns aggregated statistics for a session.
	GetSessionStats(sessionID string) (*SessionStats, error)

	// Close gracefully shuts down the database connection.
	Close() error
}

// ============================================================
// Domain Models
// ============================================================

// SavedState is a persisted navigator state. State holds the per-unit
// blobs keyed by unit; Snapshot is whatever the host needs to put the same
// screens back on display.
type SavedState struct {
	Name      string          `json:"name"`
	State     json.RawMessage `json:"state"`
	Snapshot  json.RawMessage `json:"snapshot,omitempty"`
	UpdatedAt int64           `json:"updated_at"`
}

// Session is one run of a navigation host.
type Session struct {
	SessionID string `json:"session_id"`
	Host      string `json:"host"`
	StartedAt int64  `json:"started_at"`
	EndedAt   *int64 `json:"ended_at,omitempty"`
	Status    string `json:"status"`
}

// Session statuses.
const (
	SessionRunning  = "running"
	SessionFinished = "finished"
	SessionAborted  = "aborted"
)

// Event kinds recorded in the journal.
const (
	KindLaunch    = "launch"
	KindFinish    = "finish"
	KindOpen      = "open"
	KindClose     = "close"
	KindSwitchTab = "switch_tab"
	KindCommand   = "command"
	KindBack      = "back"
	KindError     = "error"
)

// NavEvent is one journal record.
type NavEvent struct {
	EventID   string  `json:"event_id"`
	SessionID string  `json:"session_id"`
	Seq       int64   `json:"seq"`
	Timestamp int64   `json:"timestamp"`
	Kind      string  `json:"kind"`
	Command   *string `json:"command,omitempty"`
	Tab       *string `json:"tab,omitempty"`
	Screen    *string `json:"screen,omitempty"`
	Depth     int     `json:"depth"`
	Message   string  `json:"message"`
	Outcome   *string `json:"outcome,omitempty"`
}

// EventFilter defines query parameters for journal queries.
type EventFilter struct {
	SessionID *string `json:"session_id,omitempty"`
	Kind      *string `json:"kind,omitempty"`
	Tab       *string `json:"tab,omitempty"`
	Since     *int64  `json:"since,omitempty"` // Unix nanoseconds
	Until     *int64  `json:"until,omitempty"` // Unix nanoseconds
	Limit     int     `json:"limit"`
	Offset    int     `json:"offset"`
}

// SessionStats holds aggregated statistics for a single session.
type SessionStats struct {
	SessionID       string `json:"session_id"`
	TotalEvents     int    `json:"total_events"`
	Opens           int    `json:"opens"`
	Closes          int    `json:"closes"`
	TabSwitches     int    `json:"tab_switches"`
	Backs           int    `json:"backs"`
	Errors          int    `json:"errors"`
	MaxDepth        int    `json:"max_depth"`
	DistinctScreens int    `json:"distinct_screens"`
	DurationMs      int64  `json:"duration_ms"`
}

// ============================================================
// DBService Implementation
// ============================================================

// DBService implements the Store interface using SQLite.
// It serialises access through a read-write mutex.
type DBService struct {
	db   *sql.DB
	mu   sync.RWMutex
	path string

	stmtSaveState   *sql.Stmt
	stmtInsertEvent *sql.Stmt
}

// NewDBService opens the database at path, applies migrations and prepares
// frequently-used statements. Use ":memory:" for tests.
func NewDBService(path string) (*DBService, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=ON&_busy_timeout=5000", path)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database at %s: %w", path, err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	svc := &DBService{
		db:   db,
		path: path,
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	if err := svc.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("preparing statements: %w", err)
	}

	return svc, nil
}

// Path returns the database location.
func (s *DBService) Path() string {
	return s.path
}

func (s *DBService) prepareStatements() error {
	var err error

	s.stmtSaveState, err = s.db.Prepare(`
		INSERT INTO nav_states (name, state, snapshot, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			state = excluded.state,
			snapshot = excluded.snapshot,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("preparing SaveState: %w", err)
	}

	s.stmtInsertEvent, err = s.db.Prepare(`
		INSERT INTO nav_events (event_id, session_id, seq, timestamp, kind, command,
			tab, screen, depth, message, outcome)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing InsertEvent: %w", err)
	}

	return nil
}

// SaveState stores st, replacing any state with the same name. A zero
// UpdatedAt is set to the current time.
func (s *DBService) SaveState(st *SavedState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st.UpdatedAt == 0 {
		st.UpdatedAt = timeutil.NowNano()
	}
	var snapshot *string
	if len(st.Snapshot) > 0 {
		str := string(st.Snapshot)
		snapshot = &str
	}
	if _, err := s.stmtSaveState.Exec(st.Name, string(st.State), snapshot, st.UpdatedAt); err != nil {
		return fmt.Errorf("saving state %s: %w", st.Name, err)
	}
	return nil
}

// LoadState returns the state saved under name.
func (s *DBService) LoadState(name string) (*SavedState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := &SavedState{Name: name}
	var state string
	var snapshot *string
	err := s.db.QueryRow(`
		SELECT state, snapshot, updated_at FROM nav_states WHERE name = ?
	`, name).Scan(&state, &snapshot, &st.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("loading state %s: %w", name, ErrStateNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading state %s: %w", name, err)
	}
	st.State = json.RawMessage(state)
	if snapshot != nil {
		st.Snapshot = json.RawMessage(*snapshot)
	}
	return st, nil
}

// DeleteState removes the state saved under name.
func (s *DBService) DeleteState(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM nav_states WHERE name = ?`, name); err != nil {
		return fmt.Errorf("deleting state %s: %w", name, err)
	}
	return nil
}

// ListStates returns every saved state, most recently updated first.
func (s *DBService) ListStates() ([]*SavedState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT name, state, snapshot, updated_at FROM nav_states ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("listing states: %w", err)
	}
	defer rows.Close()

	var states []*SavedState
	for rows.Next() {
		st := &SavedState{}
		var state string
		var snapshot *string
		if err := rows.Scan(&st.Name, &state, &snapshot, &st.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning state row: %w", err)
		}
		st.State = json.RawMessage(state)
		if snapshot != nil {
			st.Snapshot = json.RawMessage(*snapshot)
		}
		states = append(states, st)
	}
	return states, rows.Err()
}

// StartSession records sess as running.
func (s *DBService) StartSession(sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess.Status == "" {
		sess.Status = SessionRunning
	}
	_, err := s.db.Exec(`
		INSERT INTO sessions (session_id, host, started_at, ended_at, status)
		VALUES (?, ?, ?, ?, ?)
	`, sess.SessionID, sess.Host, sess.StartedAt, sess.EndedAt, sess.Status)
	if err != nil {
		return fmt.Errorf("starting session %s: %w", sess.SessionID, err)
	}
	return nil
}

// EndSession stamps the end time and final status of a session.
func (s *DBService) EndSession(sessionID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		UPDATE sessions SET ended_at = ?, status = ? WHERE session_id = ?
	`, timeutil.NowNano(), status, sessionID)
	if err != nil {
		return fmt.Errorf("ending session %s: %w", sessionID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("ending session %s: no such session", sessionID)
	}
	return nil
}

// ListSessions returns up to limit sessions, most recent first. A
// non-positive limit means 100.
func (s *DBService) ListSessions(limit int) ([]*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(`
		SELECT session_id, host, started_at, ended_at, status
		FROM sessions
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess := &Session{}
		if err := rows.Scan(&sess.SessionID, &sess.Host, &sess.StartedAt, &sess.EndedAt, &sess.Status); err != nil {
			return nil, fmt.Errorf("scanning session row: %w", err)
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// InsertEvent persists one journal record.
func (s *DBService) InsertEvent(ev *NavEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := execEvent(s.stmtInsertEvent, ev); err != nil {
		return fmt.Errorf("inserting event %s: %w", ev.EventID, err)
	}
	return nil
}

// BatchInsertEvents inserts events within a single transaction.
func (s *DBService) BatchInsertEvents(events []*NavEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning batch event transaction: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	stmt := tx.Stmt(s.stmtInsertEvent)
	for _, ev := range events {
		if err := execEvent(stmt, ev); err != nil {
			return fmt.Errorf("batch inserting event %s: %w", ev.EventID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing batch event transaction: %w", err)
	}
	return nil
}

func execEvent(stmt *sql.Stmt, ev *NavEvent) error {
	_, err := stmt.Exec(
		ev.EventID, ev.SessionID, ev.Seq, ev.Timestamp, ev.Kind, ev.Command,
		ev.Tab, ev.Screen, ev.Depth, ev.Message, ev.Outcome,
	)
	return err
}

// QueryEvents returns journal records matching filter, ordered by session
// and sequence number.
func (s *DBService) QueryEvents(filter EventFilter) ([]*NavEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT event_id, session_id, seq, timestamp, kind, command, tab, screen,
		depth, message, outcome FROM nav_events WHERE 1=1`
	args := make([]interface{}, 0)

	if filter.SessionID != nil {
		query += ` AND session_id = ?`
		args = append(args, *filter.SessionID)
	}
	if filter.Kind != nil {
		query += ` AND kind = ?`
		args = append(args, *filter.Kind)
	}
	if filter.Tab != nil {
		query += ` AND tab = ?`
		args = append(args, *filter.Tab)
	}
	if filter.Since != nil {
		query += ` AND timestamp >= ?`
		args = append(args, *filter.Since)
	}
	if filter.Until != nil {
		query += ` AND timestamp <= ?`
		args = append(args, *filter.Until)
	}

	query += ` ORDER BY timestamp ASC, seq ASC`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	} else {
		query += ` LIMIT 1000`
	}
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// GetSessionStats returns aggregated statistics for a session.
func (s *DBService) GetSessionStats(sessionID string) (*SessionStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &SessionStats{SessionID: sessionID}

	var first, last int64
	err := s.db.QueryRow(`
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN kind = 'open' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN kind = 'close' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN kind = 'switch_tab' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN kind = 'back' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN kind = 'error' THEN 1 ELSE 0 END), 0),
			COALESCE(MAX(depth), 0),
			COUNT(DISTINCT screen),
			COALESCE(MIN(timestamp), 0),
			COALESCE(MAX(timestamp), 0)
		FROM nav_events
		WHERE session_id = ?
	`, sessionID).Scan(
		&stats.TotalEvents, &stats.Opens, &stats.Closes, &stats.TabSwitches,
		&stats.Backs, &stats.Errors, &stats.MaxDepth, &stats.DistinctScreens,
		&first, &last,
	)
	if err != nil {
		return nil, fmt.Errorf("querying session stats for %s: %w", sessionID, err)
	}
	stats.DurationMs = (last - first) / int64(time.Millisecond)
	return stats, nil
}

// Close closes the prepared statements and the connection pool.
func (s *DBService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, stmt := range []*sql.Stmt{s.stmtSaveState, s.stmtInsertEvent} {
		if stmt != nil {
			stmt.Close()
		}
	}
	return s.db.Close()
}

// ============================================================
// Scan Helpers
// ============================================================

func scanEvents(rows *sql.Rows) ([]*NavEvent, error) {
	var events []*NavEvent
	for rows.Next() {
		ev := &NavEvent{}
		if err := rows.Scan(
			&ev.EventID, &ev.SessionID, &ev.Seq, &ev.Timestamp, &ev.Kind,
			&ev.Command, &ev.Tab, &ev.Screen, &ev.Depth, &ev.Message, &ev.Outcome,
		); err != nil {
			return nil, fmt.Errorf("scanning event row: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

var _ Store = (*DBService)(nil)
