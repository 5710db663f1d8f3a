package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/xiaot623/gogo/relay/internal/domain"
)

// SQLStore implements Store on SQLite or PostgreSQL. Timestamps are stored as
// unix nanoseconds so both dialects share one set of queries.
type SQLStore struct {
	db     *sql.DB
	driver string
}

var _ Store = (*SQLStore)(nil)

// Open connects to the database and applies migrations.
func Open(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == DriverSQLite {
		// For in-memory SQLite, multiple connections create separate databases.
		if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
			db.SetMaxOpenConns(1)
			db.SetMaxIdleConns(1)
		}
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	} else if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrate(ctx, db, driver); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLStore{db: db, driver: driver}, nil
}

// NewSQLiteStore opens a SQLite store.
func NewSQLiteStore(dsn string) (*SQLStore, error) {
	return Open(context.Background(), DriverSQLite, dsn)
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (s *SQLStore) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CreateSession creates a new session.
func (s *SQLStore) CreateSession(ctx context.Context, session *domain.Session) error {
	_, err := s.db.ExecContext(ctx,
		s.rebind(`INSERT INTO sessions (session_id, user_id, created_at) VALUES (?, ?, ?)`),
		session.SessionID, session.UserID, session.CreatedAt.UnixNano())
	return err
}

// GetSession retrieves a session by ID. It returns nil when the session does not exist.
func (s *SQLStore) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	var session domain.Session
	var createdAt int64
	var endedAt, duration sql.NullInt64
	var summary sql.NullString
	err := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT session_id, user_id, created_at, ended_at, summary, duration_seconds FROM sessions WHERE session_id = ?`),
		sessionID).Scan(&session.SessionID, &session.UserID, &createdAt, &endedAt, &summary, &duration)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	session.CreatedAt = time.Unix(0, createdAt).UTC()
	if endedAt.Valid {
		t := time.Unix(0, endedAt.Int64).UTC()
		session.EndedAt = &t
	}
	if summary.Valid {
		session.Summary = &summary.String
	}
	if duration.Valid {
		session.DurationSeconds = &duration.Int64
	}
	return &session, nil
}

// UpdateSessionSummary stores the summary and duration and marks the session ended.
func (s *SQLStore) UpdateSessionSummary(ctx context.Context, sessionID, summary string, durationSeconds int64) error {
	result, err := s.db.ExecContext(ctx,
		s.rebind(`UPDATE sessions SET summary = ?, duration_seconds = ?, ended_at = ? WHERE session_id = ?`),
		summary, durationSeconds, time.Now().UnixNano(), sessionID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("session not found: %s", sessionID)
	}
	return nil
}

// AppendEvent appends one event to a session's log.
func (s *SQLStore) AppendEvent(ctx context.Context, event *domain.SessionEvent) error {
	payload := string(event.Payload)
	if payload == "" {
		payload = "{}"
	}
	_, err := s.db.ExecContext(ctx,
		s.rebind(`INSERT INTO session_events (event_id, session_id, event_type, payload, created_at) VALUES (?, ?, ?, ?, ?)`),
		event.EventID, event.SessionID, string(event.Type), payload, event.CreatedAt.UnixNano())
	return err
}

// ListEvents returns a session's events in creation order.
func (s *SQLStore) ListEvents(ctx context.Context, sessionID string) ([]domain.SessionEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		s.rebind(`SELECT event_id, session_id, event_type, payload, created_at FROM session_events WHERE session_id = ? ORDER BY created_at ASC, seq ASC`),
		sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.SessionEvent
	for rows.Next() {
		var event domain.SessionEvent
		var eventType, payload string
		var createdAt int64
		if err := rows.Scan(&event.EventID, &event.SessionID, &eventType, &payload, &createdAt); err != nil {
			return nil, err
		}
		event.Type = domain.EventType(eventType)
		event.Payload = json.RawMessage(payload)
		event.CreatedAt = time.Unix(0, createdAt).UTC()
		events = append(events, event)
	}
	return events, rows.Err()
}
