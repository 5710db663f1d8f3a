package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/xiaot623/gogo/relay/internal/domain"
)

// recordEvent records an event to the store.
func (s *Service) recordEvent(ctx context.Context, sessionID string, eventType domain.EventType, payload any) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	event := &domain.SessionEvent{
		EventID:   "evt_" + uuid.NewString(),
		SessionID: sessionID,
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now(),
	}

	if err := s.store.AppendEvent(ctx, event); err != nil {
		return &PersistenceError{Op: "append " + string(eventType) + " event", Err: err}
	}
	return nil
}
