package service

import (
	"context"
	"time"

	"github.com/xiaot623/gogo/relay/internal/domain"
)

// SummarizeSession condenses a finished session's transcript and stores the
// summary with the session duration. Sessions without conversation events are
// left untouched.
func (s *Service) SummarizeSession(ctx context.Context, sessionID string, duration time.Duration) error {
	events, err := s.store.ListEvents(ctx, sessionID)
	if err != nil {
		return &PersistenceError{Op: "list events", Err: err}
	}

	messages := transcriptMessages(events)
	if len(messages) == 0 {
		s.logger.Info("no conversation to summarize", "session_id", sessionID)
		return nil
	}

	summary := s.model.Summarize(ctx, messages)
	if err := s.store.UpdateSessionSummary(ctx, sessionID, summary, int64(duration.Seconds())); err != nil {
		return &PersistenceError{Op: "update session summary", Err: err}
	}

	s.logger.Info("session summarized", "session_id", sessionID, "messages", len(messages), "duration_seconds", int64(duration.Seconds()))
	return nil
}

// ResummarizeSession re-runs the summary for a stored session, keeping the
// duration recorded when it ended.
func (s *Service) ResummarizeSession(ctx context.Context, sessionID string) error {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return &PersistenceError{Op: "get session", Err: err}
	}
	if session == nil {
		return ErrSessionNotFound
	}

	var duration time.Duration
	if session.DurationSeconds != nil {
		duration = time.Duration(*session.DurationSeconds) * time.Second
	} else if session.EndedAt != nil {
		duration = session.EndedAt.Sub(session.CreatedAt)
	}
	return s.SummarizeSession(ctx, sessionID, duration)
}

// transcriptMessages maps conversation events to summary input. User messages
// keep the user role; everything else is attributed to the assistant.
func transcriptMessages(events []domain.SessionEvent) []domain.Message {
	var messages []domain.Message
	for _, ev := range events {
		if !ev.Type.IsConversation() {
			continue
		}
		role := domain.RoleAssistant
		if ev.Type == domain.EventTypeUserMessage {
			role = domain.RoleUser
		}
		messages = append(messages, domain.Message{Role: role, Content: string(ev.Payload)})
	}
	return messages
}
