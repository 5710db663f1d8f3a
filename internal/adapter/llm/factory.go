package llm

import (
	"log/slog"

	"github.com/xiaot623/gogo/relay/internal/domain"
)

// ModeMock selects the offline mock client.
const ModeMock = "MOCK"

// NewClient creates a model client for the configured mode.
func NewClient(mode string, cfg Config, tools []domain.ToolDefinition, logger *slog.Logger) Client {
	if mode == ModeMock {
		logger.Info("mock mode enabled, using mock model client")
		return NewMockClient()
	}
	return NewOpenAIClient(cfg, tools, logger)
}
