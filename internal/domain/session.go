package domain

import (
	"encoding/json"
	"time"
)

// Session represents one client connection's lifetime.
type Session struct {
	SessionID       string     `json:"session_id"`
	UserID          string     `json:"user_id"`
	CreatedAt       time.Time  `json:"created_at"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	Summary         *string    `json:"summary,omitempty"`
	DurationSeconds *int64     `json:"duration_seconds,omitempty"`
}

// SessionEvent is an append-only record of something that happened in a session.
type SessionEvent struct {
	EventID   string          `json:"event_id"`
	SessionID string          `json:"session_id"`
	Type      EventType       `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}
