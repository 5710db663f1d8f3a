package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/gogo/relay/internal/domain"
	"github.com/xiaot623/gogo/relay/internal/service"
)

// TranscriptReader loads a stored session with its events.
type TranscriptReader interface {
	Transcript(ctx context.Context, sessionID string) (*domain.Session, []domain.SessionEvent, error)
}

// ConnectionCounter reports live connections.
type ConnectionCounter interface {
	Count() int
}

// Handler handles HTTP requests.
type Handler struct {
	transcripts TranscriptReader
	connections ConnectionCounter
}

// NewHandler creates a new handler.
func NewHandler(transcripts TranscriptReader, connections ConnectionCounter) *Handler {
	return &Handler{
		transcripts: transcripts,
		connections: connections,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)
	e.GET("/v1/sessions/:session_id", h.GetSession)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":      "ok",
		"connections": h.connections.Count(),
	})
}

// SessionResponse is the body of GET /v1/sessions/:session_id.
type SessionResponse struct {
	Session *domain.Session       `json:"session"`
	Events  []domain.SessionEvent `json:"events"`
}

// GetSession returns a session and its ordered events.
// GET /v1/sessions/:session_id
func (h *Handler) GetSession(c echo.Context) error {
	sessionID := c.Param("session_id")

	session, events, err := h.transcripts.Transcript(c.Request().Context(), sessionID)
	if errors.Is(err, service.ErrSessionNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, SessionResponse{Session: session, Events: events})
}
