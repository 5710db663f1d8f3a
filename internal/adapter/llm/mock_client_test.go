package llm

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/gogo/relay/internal/domain"
)

func TestMockClientEchoesInChunks(t *testing.T) {
	m := NewMockClient()
	var text strings.Builder
	for chunk := range m.Stream(context.Background(), []domain.Message{{Role: domain.RoleUser, Content: "hello"}}) {
		c, ok := chunk.(ContentChunk)
		require.True(t, ok)
		assert.LessOrEqual(t, len([]rune(c.Text)), 10)
		text.WriteString(c.Text)
	}
	assert.Contains(t, text.String(), `"hello"`)
}

func TestMockClientRequestsProfileTool(t *testing.T) {
	m := NewMockClient()
	var chunks []Chunk
	for chunk := range m.Stream(context.Background(), []domain.Message{{Role: domain.RoleUser, Content: "show my profile"}}) {
		chunks = append(chunks, chunk)
	}
	require.Len(t, chunks, 1)
	tc, ok := chunks[0].(ToolCallsChunk)
	require.True(t, ok)
	assert.Equal(t, "fetch_user_profile", tc.Calls[0].Function.Name)
}

func TestTruncateKeepsRuneBoundaries(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "héé...", truncate("hééllo", 3))

	long := strings.Repeat("日本語", 50)
	got := truncate(long, 100)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 103, utf8.RuneCountInString(got))
}

func TestMockClientMultiByteInputStreamsValidUTF8(t *testing.T) {
	m := NewMockClient()
	input := "a" + strings.Repeat("é", 120)
	var text strings.Builder
	for chunk := range m.Stream(context.Background(), []domain.Message{{Role: domain.RoleUser, Content: input}}) {
		c, ok := chunk.(ContentChunk)
		require.True(t, ok)
		assert.True(t, utf8.ValidString(c.Text), "invalid chunk %q", c.Text)
		text.WriteString(c.Text)
	}
	assert.Contains(t, text.String(), "...")
}
