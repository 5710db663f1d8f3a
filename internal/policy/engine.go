// Package policy gates tool invocations with an OPA rego policy.
package policy

import (
	"context"
	"fmt"
	"os"

	"github.com/open-policy-agent/opa/rego"
)

// Decisions a policy can return.
const (
	DecisionAllow = "allow"
	DecisionBlock = "block"
)

// Input is the document a policy is evaluated against.
type Input struct {
	ToolName string         `json:"tool_name"`
	Args     map[string]any `json:"args"`
	UserID   string         `json:"user_id"`
}

// Engine is the OPA policy engine. The prepared query is safe for concurrent use.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.tool_policy.decision"),
		rego.Module("tool_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// LoadEngine builds an engine from a policy file, or from DefaultPolicy when
// path is empty.
func LoadEngine(ctx context.Context, path string) (*Engine, error) {
	if path == "" {
		return NewEngine(ctx, DefaultPolicy)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}
	return NewEngine(ctx, string(content))
}

// Evaluate returns the decision for a tool invocation. A policy with no
// matching rule and no default allows the call.
func (e *Engine) Evaluate(ctx context.Context, input Input) (string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return DecisionAllow, nil
	}

	decision, ok := results[0].Expressions[0].Value.(string)
	if !ok {
		return "", fmt.Errorf("unexpected policy result type %T", results[0].Expressions[0].Value)
	}
	return decision, nil
}

// Allow reports whether the invocation may run.
func (e *Engine) Allow(ctx context.Context, input Input) (bool, error) {
	decision, err := e.Evaluate(ctx, input)
	if err != nil {
		return false, err
	}
	return decision == DecisionAllow, nil
}

// DefaultPolicy allows every tool.
const DefaultPolicy = `
package tool_policy

default decision = "allow"
`
