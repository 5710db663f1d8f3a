// Package service implements the chat turn orchestrator and session summaries.
package service

import (
	"context"
	"log/slog"

	"github.com/xiaot623/gogo/relay/internal/adapter/llm"
	"github.com/xiaot623/gogo/relay/internal/policy"
	"github.com/xiaot623/gogo/relay/internal/protocol"
	"github.com/xiaot623/gogo/relay/internal/store"
	"github.com/xiaot623/gogo/relay/internal/tools"
)

// SystemPrompt seeds every new conversation.
const SystemPrompt = "You are a helpful AI assistant. You can fetch user profiles using the fetch_user_profile tool."

// Emitter receives outbound frames for one connection. Emit must not block.
type Emitter interface {
	Emit(frame protocol.Frame)
}

// ToolRegistry resolves and validates tools by name.
type ToolRegistry interface {
	Lookup(name string) (tools.Executor, bool)
	Validate(name string, args map[string]any) error
}

// PolicyGate decides whether a tool invocation may run.
type PolicyGate interface {
	Allow(ctx context.Context, input policy.Input) (bool, error)
}

type Service struct {
	store  store.Store
	model  llm.Client
	tools  ToolRegistry
	policy PolicyGate
	logger *slog.Logger
}

// New creates a service. A nil gate allows every tool.
func New(store store.Store, model llm.Client, registry ToolRegistry, gate PolicyGate, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  store,
		model:  model,
		tools:  registry,
		policy: gate,
		logger: logger,
	}
}
