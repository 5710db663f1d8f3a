// Package store defines the event log storage interface and its SQL implementations.
package store

import (
	"context"

	"github.com/xiaot623/gogo/relay/internal/domain"
)

// Store persists sessions and their append-only event log. Each call is
// independently atomic; there are no cross-call transactions.
type Store interface {
	// Sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)
	UpdateSessionSummary(ctx context.Context, sessionID, summary string, durationSeconds int64) error

	// Events
	AppendEvent(ctx context.Context, event *domain.SessionEvent) error
	ListEvents(ctx context.Context, sessionID string) ([]domain.SessionEvent, error)

	Close() error
}

// Supported database drivers.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)
