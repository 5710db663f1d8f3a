package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/gogo/relay/internal/adapter/llm"
	"github.com/xiaot623/gogo/relay/internal/domain"
)

func TestSummarizeSessionWithoutEventsWritesNothing(t *testing.T) {
	f := newFixture(t, nil, nil)

	require.NoError(t, f.svc.SummarizeSession(context.Background(), f.session.SessionID, 5*time.Second))

	assert.Empty(t, f.model.SummaryCalls())
	got, err := f.store.GetSession(context.Background(), f.session.SessionID)
	require.NoError(t, err)
	assert.Nil(t, got.Summary)
	assert.Nil(t, got.EndedAt)
}

func TestSummarizeSessionStoresSummary(t *testing.T) {
	f := newFixture(t, nil, nil,
		[]llm.Chunk{llm.ContentChunk{Text: "Hello"}},
	)
	f.model.Summary = "The user greeted the assistant."
	require.NoError(t, f.send(t, "hi"))

	require.NoError(t, f.svc.SummarizeSession(context.Background(), f.session.SessionID, 90*time.Second))

	calls := f.model.SummaryCalls()
	require.Len(t, calls, 1)
	require.Len(t, calls[0], 2)
	assert.Equal(t, domain.RoleUser, calls[0][0].Role)
	assert.JSONEq(t, `{"content":"hi"}`, calls[0][0].Content)
	assert.Equal(t, domain.RoleAssistant, calls[0][1].Role)
	assert.JSONEq(t, `{"content":"Hello"}`, calls[0][1].Content)

	got, err := f.store.GetSession(context.Background(), f.session.SessionID)
	require.NoError(t, err)
	require.NotNil(t, got.Summary)
	assert.Equal(t, "The user greeted the assistant.", *got.Summary)
	require.NotNil(t, got.DurationSeconds)
	assert.Equal(t, int64(90), *got.DurationSeconds)
	assert.NotNil(t, got.EndedAt)
}

func TestResummarizeSession(t *testing.T) {
	f := newFixture(t, nil, nil, []llm.Chunk{llm.ContentChunk{Text: "Hello"}})
	require.NoError(t, f.send(t, "hi"))
	require.NoError(t, f.svc.SummarizeSession(context.Background(), f.session.SessionID, 30*time.Second))

	f.model.Summary = "second pass"
	require.NoError(t, f.svc.ResummarizeSession(context.Background(), f.session.SessionID))

	got, err := f.store.GetSession(context.Background(), f.session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "second pass", *got.Summary)
	assert.Equal(t, int64(30), *got.DurationSeconds)

	assert.ErrorIs(t, f.svc.ResummarizeSession(context.Background(), "sess_missing"), ErrSessionNotFound)
}

func TestTranscript(t *testing.T) {
	f := newFixture(t, nil, nil, []llm.Chunk{llm.ContentChunk{Text: "Hello"}})
	require.NoError(t, f.send(t, "hi"))

	session, events, err := f.svc.Transcript(context.Background(), f.session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "client-1", session.UserID)
	assert.Len(t, events, 2)

	_, _, err = f.svc.Transcript(context.Background(), "sess_missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
