package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/xiaot623/gogo/relay/internal/adapter/llm"
	"github.com/xiaot623/gogo/relay/internal/domain"
	"github.com/xiaot623/gogo/relay/internal/policy"
	"github.com/xiaot623/gogo/relay/internal/protocol"
)

// streamVisitor relays one model stream to the client.
type streamVisitor struct {
	emit         Emitter
	text         strings.Builder
	toolCalls    []domain.ToolCall
	failed       bool
	captureTools bool
}

func (v *streamVisitor) VisitContent(c llm.ContentChunk) {
	if c.Text == "" {
		return
	}
	v.text.WriteString(c.Text)
	v.emit.Emit(protocol.Token(c.Text))
}

func (v *streamVisitor) VisitToolCalls(c llm.ToolCallsChunk) {
	if v.captureTools {
		v.toolCalls = c.Calls
	}
}

func (v *streamVisitor) VisitError(c llm.ErrorChunk) {
	v.failed = true
	v.emit.Emit(protocol.Error(c.Message))
}

func (s *Service) stream(ctx context.Context, conv *domain.Conversation, emit Emitter, captureTools bool) *streamVisitor {
	v := &streamVisitor{emit: emit, captureTools: captureTools}
	for chunk := range s.model.Stream(ctx, conv.Messages()) {
		chunk.Accept(v)
		if v.failed {
			break
		}
	}
	return v
}

// HandleMessage persists one inbound user message and runs a full turn for it.
// Upstream model failures end the turn with an error frame and are not
// returned. A returned error means the connection should be closed.
func (s *Service) HandleMessage(ctx context.Context, session *domain.Session, conv *domain.Conversation, text string, emit Emitter) error {
	conv.Append(domain.Message{Role: domain.RoleUser, Content: text})
	if err := s.recordEvent(ctx, session.SessionID, domain.EventTypeUserMessage, domain.MessagePayload{Content: text}); err != nil {
		return err
	}
	return s.runTurn(ctx, session, conv, emit)
}

func (s *Service) runTurn(ctx context.Context, session *domain.Session, conv *domain.Conversation, emit Emitter) error {
	logger := s.logger.With("session_id", session.SessionID)

	first := s.stream(ctx, conv, emit, true)
	if first.failed {
		logger.Warn("model stream failed")
		emit.Emit(protocol.EndTurn())
		return nil
	}

	text := first.text.String()
	if len(first.toolCalls) > 0 {
		emit.Emit(protocol.Info(protocol.ExecutingToolsNotice))

		calls := make([]domain.ToolCall, len(first.toolCalls))
		for i, tc := range first.toolCalls {
			tc.Type = domain.ToolCallTypeFunction
			calls[i] = tc
		}
		conv.Append(domain.Message{Role: domain.RoleAssistant, Content: text, ToolCalls: calls})
		if err := s.recordEvent(ctx, session.SessionID, domain.EventTypeToolCall, domain.ToolCallPayload{ToolCalls: calls}); err != nil {
			return err
		}

		for _, tc := range calls {
			if err := s.executeTool(ctx, session, conv, tc); err != nil {
				return err
			}
		}

		second := s.stream(ctx, conv, emit, false)
		if second.failed {
			logger.Warn("model stream failed after tool execution")
			emit.Emit(protocol.EndTurn())
			return nil
		}
		text = second.text.String()
	}

	if text != "" {
		if last, ok := conv.Last(); !ok || last.Role != domain.RoleAssistant || last.Content != text {
			conv.Append(domain.Message{Role: domain.RoleAssistant, Content: text})
		}
		if err := s.recordEvent(ctx, session.SessionID, domain.EventTypeAssistantMessage, domain.MessagePayload{Content: text}); err != nil {
			return err
		}
	}

	emit.Emit(protocol.EndTurn())
	return nil
}

// executeTool runs one requested tool call. Unknown and policy-blocked tools
// are skipped without touching history or the event log.
func (s *Service) executeTool(ctx context.Context, session *domain.Session, conv *domain.Conversation, tc domain.ToolCall) error {
	name := tc.Function.Name
	logger := s.logger.With("session_id", session.SessionID, "tool", name, "tool_call_id", tc.ID)

	var args map[string]any
	if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
		return &ToolArgumentError{Tool: name, Arguments: tc.Function.Arguments, Err: err}
	}
	if args == nil {
		return &ToolArgumentError{Tool: name, Arguments: tc.Function.Arguments, Err: errors.New("arguments must be a JSON object")}
	}

	exec, ok := s.tools.Lookup(name)
	if !ok {
		logger.Warn("skipping unknown tool")
		return nil
	}
	if err := s.tools.Validate(name, args); err != nil {
		return &ToolArgumentError{Tool: name, Arguments: tc.Function.Arguments, Err: err}
	}

	if s.policy != nil {
		allowed, err := s.policy.Allow(ctx, policy.Input{ToolName: name, Args: args, UserID: session.UserID})
		if err != nil {
			return &ToolExecutionError{Tool: name, Err: err}
		}
		if !allowed {
			logger.Warn("skipping tool blocked by policy")
			return nil
		}
	}

	result, err := exec(ctx, args)
	if err != nil {
		return &ToolExecutionError{Tool: name, Err: err}
	}
	logger.Debug("tool executed", "result_bytes", len(result))

	conv.Append(domain.Message{
		Role:       domain.RoleTool,
		ToolCallID: tc.ID,
		Name:       name,
		Content:    result,
	})
	return s.recordEvent(ctx, session.SessionID, domain.EventTypeToolResult, domain.ToolResultPayload{Name: name, Result: result})
}
