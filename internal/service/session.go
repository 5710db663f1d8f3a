package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/xiaot623/gogo/relay/internal/domain"
)

// StartSession creates a session for a newly connected client.
func (s *Service) StartSession(ctx context.Context, userID string) (*domain.Session, error) {
	session := &domain.Session{
		SessionID: "sess_" + uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, &PersistenceError{Op: "create session", Err: err}
	}
	s.logger.Info("session started", "session_id", session.SessionID, "user_id", userID)
	return session, nil
}

// Transcript returns a session and its ordered event log.
func (s *Service) Transcript(ctx context.Context, sessionID string) (*domain.Session, []domain.SessionEvent, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, nil, &PersistenceError{Op: "get session", Err: err}
	}
	if session == nil {
		return nil, nil, ErrSessionNotFound
	}

	events, err := s.store.ListEvents(ctx, sessionID)
	if err != nil {
		return nil, nil, &PersistenceError{Op: "list events", Err: err}
	}
	if events == nil {
		events = []domain.SessionEvent{}
	}
	return session, events, nil
}
