package testutil

import (
	"context"
	"iter"
	"sync"

	"github.com/xiaot623/gogo/relay/internal/adapter/llm"
	"github.com/xiaot623/gogo/relay/internal/domain"
)

// ScriptedModel replays one scripted chunk sequence per Stream call and
// records the history it was given.
type ScriptedModel struct {
	mu        sync.Mutex
	scripts   [][]llm.Chunk
	histories [][]domain.Message
	summaries [][]domain.Message

	// Summary is returned by Summarize.
	Summary string
}

// NewScriptedModel creates a model that answers successive streams with the
// given scripts. Streams beyond the script list yield nothing.
func NewScriptedModel(scripts ...[]llm.Chunk) *ScriptedModel {
	return &ScriptedModel{scripts: scripts, Summary: "summary"}
}

// Stream implements llm.Client.
func (m *ScriptedModel) Stream(ctx context.Context, history []domain.Message) iter.Seq[llm.Chunk] {
	m.mu.Lock()
	m.histories = append(m.histories, history)
	var script []llm.Chunk
	if len(m.scripts) > 0 {
		script = m.scripts[0]
		m.scripts = m.scripts[1:]
	}
	m.mu.Unlock()

	return func(yield func(llm.Chunk) bool) {
		for _, c := range script {
			if !yield(c) {
				return
			}
		}
	}
}

// Summarize implements llm.Client.
func (m *ScriptedModel) Summarize(ctx context.Context, messages []domain.Message) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summaries = append(m.summaries, messages)
	return m.Summary
}

// Histories returns the history passed to each Stream call.
func (m *ScriptedModel) Histories() [][]domain.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]domain.Message(nil), m.histories...)
}

// SummaryCalls returns the transcripts passed to Summarize.
func (m *ScriptedModel) SummaryCalls() [][]domain.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]domain.Message(nil), m.summaries...)
}
