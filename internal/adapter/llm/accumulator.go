package llm

import (
	"sort"

	"github.com/xiaot623/gogo/relay/internal/domain"
)

// ToolCallDelta is one incremental tool-call fragment from the stream.
type ToolCallDelta struct {
	Index     int
	ID        string
	Name      string
	Arguments string
}

type fragment struct {
	id   string
	name string
	args []byte
}

// ToolCallAccumulator merges tool-call fragments keyed by the stream index
// at which the model introduced them.
type ToolCallAccumulator struct {
	fragments map[int]*fragment
}

// NewToolCallAccumulator creates an empty accumulator.
func NewToolCallAccumulator() *ToolCallAccumulator {
	return &ToolCallAccumulator{fragments: make(map[int]*fragment)}
}

// Add merges a delta. Identity fields are only overwritten by non-empty values;
// arguments are concatenated.
func (a *ToolCallAccumulator) Add(d ToolCallDelta) {
	f, ok := a.fragments[d.Index]
	if !ok {
		f = &fragment{}
		a.fragments[d.Index] = f
	}
	if d.ID != "" {
		f.id = d.ID
	}
	if d.Name != "" {
		f.name = d.Name
	}
	f.args = append(f.args, d.Arguments...)
}

// Len returns the number of distinct tool calls seen.
func (a *ToolCallAccumulator) Len() int {
	return len(a.fragments)
}

// ToolCalls returns the merged calls ordered by index.
func (a *ToolCallAccumulator) ToolCalls() []domain.ToolCall {
	indexes := make([]int, 0, len(a.fragments))
	for idx := range a.fragments {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	calls := make([]domain.ToolCall, 0, len(indexes))
	for _, idx := range indexes {
		f := a.fragments[idx]
		calls = append(calls, domain.ToolCall{
			ID: f.id,
			Function: domain.ToolCallFunction{
				Name:      f.name,
				Arguments: string(f.args),
			},
		})
	}
	return calls
}
