package policy

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const blockingPolicy = `
package tool_policy

default decision = "allow"

decision = "block" {
	input.tool_name == "fetch_user_profile"
	input.args.user_id == "restricted"
}
`

func TestDefaultPolicyAllows(t *testing.T) {
	ctx := context.Background()
	engine, err := NewEngine(ctx, DefaultPolicy)
	require.NoError(t, err)

	allowed, err := engine.Allow(ctx, Input{ToolName: "anything", Args: map[string]any{}})
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestPolicyBlocks(t *testing.T) {
	ctx := context.Background()
	engine, err := NewEngine(ctx, blockingPolicy)
	require.NoError(t, err)

	allowed, err := engine.Allow(ctx, Input{
		ToolName: "fetch_user_profile",
		Args:     map[string]any{"user_id": "restricted"},
		UserID:   "client-1",
	})
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = engine.Allow(ctx, Input{
		ToolName: "fetch_user_profile",
		Args:     map[string]any{"user_id": "u1"},
	})
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestNoDecisionAllows(t *testing.T) {
	ctx := context.Background()
	engine, err := NewEngine(ctx, "package tool_policy\n")
	require.NoError(t, err)

	decision, err := engine.Evaluate(ctx, Input{ToolName: "x"})
	require.NoError(t, err)
	assert.Equal(t, DecisionAllow, decision)
}

func TestInvalidPolicy(t *testing.T) {
	_, err := NewEngine(context.Background(), "this is not rego")
	assert.Error(t, err)
}

func TestLoadEngineFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.rego")
	require.NoError(t, os.WriteFile(path, []byte(blockingPolicy), 0o600))

	ctx := context.Background()
	engine, err := LoadEngine(ctx, path)
	require.NoError(t, err)

	decision, err := engine.Evaluate(ctx, Input{
		ToolName: "fetch_user_profile",
		Args:     map[string]any{"user_id": "restricted"},
	})
	require.NoError(t, err)
	assert.Equal(t, DecisionBlock, decision)

	_, err = LoadEngine(ctx, filepath.Join(t.TempDir(), "missing.rego"))
	assert.Error(t, err)
}
