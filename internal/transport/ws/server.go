// Package ws serves chat sessions over WebSocket.
package ws

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/xiaot623/gogo/relay/internal/config"
	"github.com/xiaot623/gogo/relay/internal/domain"
	"github.com/xiaot623/gogo/relay/internal/jobs"
	"github.com/xiaot623/gogo/relay/internal/service"
)

// SessionService is the part of the service a connection drives.
type SessionService interface {
	StartSession(ctx context.Context, userID string) (*domain.Session, error)
	HandleMessage(ctx context.Context, session *domain.Session, conv *domain.Conversation, text string, emit service.Emitter) error
	SummarizeSession(ctx context.Context, sessionID string, duration time.Duration) error
}

// JobSubmitter schedules detached work.
type JobSubmitter interface {
	Submit(name string, job jobs.Job) bool
}

// Server handles WebSocket connections.
type Server struct {
	cfg      *config.Config
	hub      *Hub
	service  SessionService
	jobs     JobSubmitter
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewServer creates a new WebSocket server.
func NewServer(cfg *config.Config, h *Hub, svc SessionService, runner JobSubmitter, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:     cfg,
		hub:     h,
		service: svc,
		jobs:    runner,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleWebSocket upgrades the request and serves one session until the
// client leaves.
func (s *Server) HandleWebSocket(c echo.Context) error {
	clientID := c.Param("client_id")

	ws, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		s.logger.Warn("failed to upgrade websocket", "client_id", clientID, "error", err)
		return nil
	}

	// Turns and session bookkeeping outlive the client.
	ctx := context.WithoutCancel(c.Request().Context())

	session, err := s.service.StartSession(ctx, clientID)
	if err != nil {
		s.logger.Error("failed to start session", "client_id", clientID, "error", err)
		msg := websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "session unavailable")
		_ = ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		_ = ws.Close()
		return nil
	}
	startTime := time.Now()

	conn := s.hub.NewConnection(ws, session.SessionID)
	s.hub.Register(conn)
	ws.SetReadLimit(s.cfg.MaxMessageSize)

	go s.writePump(conn)
	s.readPump(ctx, conn, session, startTime)
	return nil
}

// readPump reads one user message at a time and runs its turn to completion
// before reading the next.
func (s *Server) readPump(ctx context.Context, conn *Connection, session *domain.Session, startTime time.Time) {
	logger := s.logger.With("session_id", session.SessionID, "client_id", session.UserID)
	defer s.hub.Unregister(conn)

	conn.Conn.SetPongHandler(func(string) error {
		return conn.Conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
	})

	conv := domain.NewConversation(service.SystemPrompt)
	for {
		_ = conn.Conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		messageType, data, err := conn.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				logger.Warn("websocket read failed", "error", err)
			}
			logger.Info("client disconnected")
			conn.Close(websocket.CloseNormalClosure, "")
			s.scheduleSummary(session.SessionID, time.Since(startTime))
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		if err := s.service.HandleMessage(ctx, session, conv, string(data), conn); err != nil {
			logger.Error("turn failed, closing connection", "error", err)
			conn.Close(websocket.CloseInternalServerErr, "internal error")
			return
		}
	}
}

// writePump serializes frames and keep-alive pings onto the socket.
func (s *Server) writePump(conn *Connection) {
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case message := <-conn.send:
			_ = conn.Conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				s.logger.Debug("failed to write frame", "session_id", conn.SessionID, "error", err)
				conn.Close(websocket.CloseGoingAway, "")
				return
			}

		case <-ticker.C:
			_ = conn.Conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				conn.Close(websocket.CloseGoingAway, "")
				return
			}

		case <-conn.done:
			return
		}
	}
}

func (s *Server) scheduleSummary(sessionID string, duration time.Duration) {
	s.jobs.Submit("summarize:"+sessionID, func(ctx context.Context) error {
		return s.service.SummarizeSession(ctx, sessionID, duration)
	})
}
