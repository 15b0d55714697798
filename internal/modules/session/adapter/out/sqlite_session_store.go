package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"attn/internal/modules/session/domain"
	sessionout "attn/internal/modules/session/port/out"
	apperrors "attn/internal/platform/errors"

	_ "modernc.org/sqlite"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

type SQLiteSessionStore struct {
	db *sql.DB
}

func NewSQLiteSessionStore(dbPath string) (*SQLiteSessionStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// modernc.org/sqlite serializes writes per connection; one connection
	// makes the conditional UPDATE below a true compare-and-set.
	db.SetMaxOpenConns(1)
	store := &SQLiteSessionStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

var _ sessionout.Store = (*SQLiteSessionStore)(nil)

func (s *SQLiteSessionStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  started_at TEXT NOT NULL,
  ended_at TEXT
);
CREATE TABLE IF NOT EXISTS distractions (
  id TEXT PRIMARY KEY,
  session_id TEXT NOT NULL REFERENCES sessions(id),
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at);
CREATE INDEX IF NOT EXISTS idx_distractions_session_id ON distractions(session_id);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create session tables: %w", err)
	}
	return nil
}

func (s *SQLiteSessionStore) Close() error { return s.db.Close() }

// Create inserts only while no session is unended, so two racing starts
// cannot both persist. The service pre-checks for the common case; this
// guard closes the check-then-act window.
func (s *SQLiteSessionStore) Create(ctx context.Context, session domain.Session) error {
	const stmt = `
INSERT INTO sessions (id, started_at, ended_at)
SELECT ?, ?, NULL
WHERE NOT EXISTS (SELECT 1 FROM sessions WHERE ended_at IS NULL)`
	res, err := s.db.ExecContext(ctx, stmt, session.ID, session.StartedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrActiveSessionExists
	}
	return nil
}

func (s *SQLiteSessionStore) Get(ctx context.Context, id string) (domain.Session, error) {
	const stmt = `SELECT id, started_at, ended_at FROM sessions WHERE id = ?`
	session, err := scanSession(s.db.QueryRowContext(ctx, stmt, id))
	if err != nil {
		return domain.Session{}, err
	}
	events, err := s.eventsFor(ctx, []string{id})
	if err != nil {
		return domain.Session{}, err
	}
	session.Events = events[id]
	return session, nil
}

func (s *SQLiteSessionStore) Active(ctx context.Context) (domain.Session, error) {
	const stmt = `
SELECT id, started_at, ended_at FROM sessions
WHERE ended_at IS NULL
ORDER BY started_at DESC
LIMIT 1`
	session, err := scanSession(s.db.QueryRowContext(ctx, stmt))
	if err == apperrors.ErrSessionNotFound {
		return domain.Session{}, apperrors.ErrNoActiveSession
	}
	if err != nil {
		return domain.Session{}, err
	}
	events, err := s.eventsFor(ctx, []string{session.ID})
	if err != nil {
		return domain.Session{}, err
	}
	session.Events = events[session.ID]
	return session, nil
}

// AppendEvent inserts only while the session is unended. The guard and the
// insert run as one statement so a concurrent End cannot slip between them.
func (s *SQLiteSessionStore) AppendEvent(ctx context.Context, event domain.DistractionEvent) error {
	const stmt = `
INSERT INTO distractions (id, session_id, created_at)
SELECT ?, ?, ?
WHERE EXISTS (SELECT 1 FROM sessions WHERE id = ? AND ended_at IS NULL)`
	res, err := s.db.ExecContext(ctx, stmt,
		event.ID, event.SessionID, event.At.UTC().Format(timeLayout), event.SessionID)
	if err != nil {
		return fmt.Errorf("insert distraction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert distraction: %w", err)
	}
	if affected == 0 {
		return s.sessionGoneErr(ctx, event.SessionID)
	}
	return nil
}

// End is a compare-and-set on ended_at being NULL, so it succeeds at most
// once per session.
func (s *SQLiteSessionStore) End(ctx context.Context, id string, at time.Time) error {
	const stmt = `UPDATE sessions SET ended_at = ? WHERE id = ? AND ended_at IS NULL`
	res, err := s.db.ExecContext(ctx, stmt, at.UTC().Format(timeLayout), id)
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	if affected == 0 {
		return s.sessionGoneErr(ctx, id)
	}
	return nil
}

func (s *SQLiteSessionStore) StartedBetween(ctx context.Context, from, to time.Time) ([]domain.Session, error) {
	const stmt = `
SELECT id, started_at, ended_at FROM sessions
WHERE started_at >= ? AND started_at < ?
ORDER BY started_at ASC`
	rows, err := s.db.QueryContext(ctx, stmt,
		from.UTC().Format(timeLayout), to.UTC().Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.Session
	var ids []string
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
		ids = append(ids, session.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	if len(sessions) == 0 {
		return nil, nil
	}

	events, err := s.eventsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		sessions[i].Events = events[sessions[i].ID]
	}
	return sessions, nil
}

// sessionGoneErr distinguishes a missing session from an ended one after a
// zero-row conditional write.
func (s *SQLiteSessionStore) sessionGoneErr(ctx context.Context, id string) error {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM sessions WHERE id = ?`, id).Scan(&exists)
	if err == sql.ErrNoRows {
		return apperrors.ErrSessionNotFound
	}
	if err != nil {
		return fmt.Errorf("check session: %w", err)
	}
	return apperrors.ErrSessionEnded
}

func (s *SQLiteSessionStore) eventsFor(ctx context.Context, ids []string) (map[string][]domain.DistractionEvent, error) {
	placeholders := ""
	args := make([]any, len(ids))
	for i, id := range ids {
		if i > 0 {
			placeholders += ", "
		}
		placeholders += "?"
		args[i] = id
	}
	stmt := `
SELECT id, session_id, created_at FROM distractions
WHERE session_id IN (` + placeholders + `)
ORDER BY created_at ASC`
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query distractions: %w", err)
	}
	defer rows.Close()

	events := make(map[string][]domain.DistractionEvent)
	for rows.Next() {
		var e domain.DistractionEvent
		var at string
		if err := rows.Scan(&e.ID, &e.SessionID, &at); err != nil {
			return nil, fmt.Errorf("scan distraction: %w", err)
		}
		e.At, err = time.Parse(timeLayout, at)
		if err != nil {
			return nil, fmt.Errorf("parse distraction time: %w", err)
		}
		events[e.SessionID] = append(events[e.SessionID], e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query distractions: %w", err)
	}
	return events, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (domain.Session, error) {
	var session domain.Session
	var startedAt string
	var endedAt sql.NullString
	err := row.Scan(&session.ID, &startedAt, &endedAt)
	if err == sql.ErrNoRows {
		return domain.Session{}, apperrors.ErrSessionNotFound
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("scan session: %w", err)
	}
	session.StartedAt, err = time.Parse(timeLayout, startedAt)
	if err != nil {
		return domain.Session{}, fmt.Errorf("parse started_at: %w", err)
	}
	if endedAt.Valid {
		session.EndedAt, err = time.Parse(timeLayout, endedAt.String)
		if err != nil {
			return domain.Session{}, fmt.Errorf("parse ended_at: %w", err)
		}
	}
	return session, nil
}
