package llm

import "github.com/xiaot623/gogo/relay/internal/domain"

// Chunk is one unit produced by a model stream. It is one of ContentChunk,
// ToolCallsChunk or ErrorChunk.
type Chunk interface {
	// Accept dispatches the chunk to the matching visitor method.
	Accept(v ChunkVisitor)
}

// ChunkVisitor handles every chunk variant.
type ChunkVisitor interface {
	VisitContent(c ContentChunk)
	VisitToolCalls(c ToolCallsChunk)
	VisitError(c ErrorChunk)
}

// ContentChunk carries assistant text as soon as it arrives.
type ContentChunk struct {
	Text string
}

// ToolCallsChunk carries the fully merged tool calls, ordered by stream index.
type ToolCallsChunk struct {
	Calls []domain.ToolCall
}

// ErrorChunk reports an upstream failure. It is always the last chunk of a stream.
type ErrorChunk struct {
	Message string
}

func (c ContentChunk) Accept(v ChunkVisitor)   { v.VisitContent(c) }
func (c ToolCallsChunk) Accept(v ChunkVisitor) { v.VisitToolCalls(c) }
func (c ErrorChunk) Accept(v ChunkVisitor)     { v.VisitError(c) }
