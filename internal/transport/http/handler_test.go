package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/gogo/relay/internal/adapter/llm"
	"github.com/xiaot623/gogo/relay/internal/domain"
	"github.com/xiaot623/gogo/relay/internal/service"
	"github.com/xiaot623/gogo/relay/internal/testutil"
	"github.com/xiaot623/gogo/relay/internal/tools"
)

type fixedCounter int

func (c fixedCounter) Count() int { return int(c) }

func newTestHandler(t *testing.T, scripts ...[]llm.Chunk) (*Handler, *service.Service) {
	t.Helper()
	st := testutil.NewTestSQLiteStore(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.New(st, testutil.NewScriptedModel(scripts...), tools.NewDefaultRegistry(), nil, logger)
	return NewHandler(svc, fixedCounter(3)), svc
}

func TestHealth(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	if err := h.Health(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Status      string `json:"status"`
		Connections int    `json:"connections"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "ok" || resp.Connections != 3 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestGetSession(t *testing.T) {
	e := echo.New()
	h, svc := newTestHandler(t, []llm.Chunk{llm.ContentChunk{Text: "Hello"}})

	ctx := context.Background()
	session, err := svc.StartSession(ctx, "client-1")
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	conv := domain.NewConversation(service.SystemPrompt)
	if err := svc.HandleMessage(ctx, session, conv, "hi", &testutil.FrameRecorder{}); err != nil {
		t.Fatalf("HandleMessage failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/"+session.SessionID, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("session_id")
	c.SetParamValues(session.SessionID)

	if err := h.GetSession(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp SessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Session == nil || resp.Session.UserID != "client-1" {
		t.Fatalf("unexpected session: %+v", resp.Session)
	}
	if len(resp.Events) != 2 ||
		resp.Events[0].Type != domain.EventTypeUserMessage ||
		resp.Events[1].Type != domain.EventTypeAssistantMessage {
		t.Fatalf("unexpected events: %+v", resp.Events)
	}
}

func TestGetSessionNotFound(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/sess_missing", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("session_id")
	c.SetParamValues("sess_missing")

	if err := h.GetSession(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
