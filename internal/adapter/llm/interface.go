// Package llm provides the model client used by the turn orchestrator.
package llm

import (
	"context"
	"iter"

	"github.com/xiaot623/gogo/relay/internal/domain"
)

// SummaryInstruction is the system instruction used for session summaries.
const SummaryInstruction = "Summarize the following conversation concisely in 2-3 sentences."

// Client defines the model operations the relay depends on.
type Client interface {
	// Stream opens one streaming completion over the full history. The sequence
	// is finite and can be ranged over once; request a new stream per invocation.
	Stream(ctx context.Context, history []domain.Message) iter.Seq[Chunk]

	// Summarize condenses a transcript. Failures are reported in the returned text.
	Summarize(ctx context.Context, messages []domain.Message) string
}

// Ensure implementations satisfy Client.
var (
	_ Client = (*OpenAIClient)(nil)
	_ Client = (*MockClient)(nil)
)
