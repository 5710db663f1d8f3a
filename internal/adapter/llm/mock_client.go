package llm

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/xiaot623/gogo/relay/internal/domain"
)

// MockClient is an offline stand-in for the upstream model.
type MockClient struct {
	chunkSize int
}

// NewMockClient creates a new mock model client.
func NewMockClient() *MockClient {
	return &MockClient{chunkSize: 10}
}

// Stream simulates a streaming response. A user message mentioning "profile"
// triggers one fetch_user_profile call; once a tool result is present the
// response reports it.
func (m *MockClient) Stream(ctx context.Context, history []domain.Message) iter.Seq[Chunk] {
	return func(yield func(Chunk) bool) {
		last, ok := lastMessage(history)
		if ok && last.Role == domain.RoleUser && strings.Contains(strings.ToLower(last.Content), "profile") {
			yield(ToolCallsChunk{Calls: []domain.ToolCall{{
				ID: "call_mock_1",
				Function: domain.ToolCallFunction{
					Name:      "fetch_user_profile",
					Arguments: `{"user_id":"mock-user"}`,
				},
			}}})
			return
		}

		for _, chunk := range m.splitIntoChunks(m.generateMockResponse(history)) {
			if ctx.Err() != nil {
				yield(ErrorChunk{Message: ctx.Err().Error()})
				return
			}
			if !yield(ContentChunk{Text: chunk}) {
				return
			}
		}
	}
}

// Summarize returns a canned summary.
func (m *MockClient) Summarize(ctx context.Context, messages []domain.Message) string {
	return fmt.Sprintf("[MOCK] Conversation with %d messages.", len(messages))
}

func (m *MockClient) generateMockResponse(history []domain.Message) string {
	if last, ok := lastMessage(history); ok && last.Role == domain.RoleTool {
		return fmt.Sprintf("[MOCK] The %s tool returned: %s", last.Name, truncate(last.Content, 100))
	}

	var lastUserMessage string
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == domain.RoleUser {
			lastUserMessage = history[i].Content
			break
		}
	}
	if lastUserMessage == "" {
		return "[MOCK] This is a mock response from the model client."
	}
	return fmt.Sprintf("[MOCK] Received your message: %q. This is a mock response.", truncate(lastUserMessage, 100))
}

// splitIntoChunks splits a string into chunks of chunkSize runes.
func (m *MockClient) splitIntoChunks(s string) []string {
	runes := []rune(s)
	var chunks []string
	for i := 0; i < len(runes); i += m.chunkSize {
		end := i + m.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}

func lastMessage(history []domain.Message) (domain.Message, bool) {
	if len(history) == 0 {
		return domain.Message{}, false
	}
	return history[len(history)-1], true
}

// truncate shortens s to at most maxLen runes.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
