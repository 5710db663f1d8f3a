package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/xiaot623/gogo/relay/internal/domain"
)

// Config holds the upstream provider settings.
type Config struct {
	BaseURL          string
	APIKey           string
	Model            string
	Timeout          time.Duration
	SummaryMaxTokens int
}

// OpenAIClient talks to an OpenAI-compatible chat completion endpoint.
type OpenAIClient struct {
	client           *openai.Client
	model            string
	tools            []openai.Tool
	summaryMaxTokens int
	timeout          time.Duration
	logger           *slog.Logger
}

// NewOpenAIClient creates a client that declares the given tools on every stream.
func NewOpenAIClient(cfg Config, tools []domain.ToolDefinition, logger *slog.Logger) *OpenAIClient {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}
	if cfg.Timeout > 0 {
		clientConfig.HTTPClient = &http.Client{Transport: newTransport(cfg.Timeout)}
	}
	if logger == nil {
		logger = slog.Default()
	}
	maxTokens := cfg.SummaryMaxTokens
	if maxTokens <= 0 {
		maxTokens = 150
	}

	return &OpenAIClient{
		client:           openai.NewClientWithConfig(clientConfig),
		model:            cfg.Model,
		tools:            toOpenAITools(tools),
		summaryMaxTokens: maxTokens,
		timeout:          cfg.Timeout,
		logger:           logger,
	}
}

// newTransport bounds connecting and waiting for response headers only.
// Stream bodies may run past timeout.
func newTransport(timeout time.Duration) *http.Transport {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{Timeout: timeout, KeepAlive: 30 * time.Second}).DialContext
	transport.TLSHandshakeTimeout = timeout
	transport.ResponseHeaderTimeout = timeout
	return transport
}

// Stream implements Client.
func (c *OpenAIClient) Stream(ctx context.Context, history []domain.Message) iter.Seq[Chunk] {
	return func(yield func(Chunk) bool) {
		startTime := time.Now()
		req := openai.ChatCompletionRequest{
			Model:    c.model,
			Messages: toOpenAIMessages(history),
			Stream:   true,
		}
		if len(c.tools) > 0 {
			req.Tools = c.tools
			req.ToolChoice = "auto"
		}

		stream, err := c.client.CreateChatCompletionStream(ctx, req)
		if err != nil {
			c.logger.Warn("model stream failed to open", "model", c.model, "error", err)
			yield(ErrorChunk{Message: err.Error()})
			return
		}
		defer stream.Close()

		acc := NewToolCallAccumulator()
		deltas := 0
		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				c.logger.Warn("model stream read failed", "model", c.model, "deltas", deltas, "error", err)
				yield(ErrorChunk{Message: err.Error()})
				return
			}
			if len(resp.Choices) == 0 {
				continue
			}
			deltas++

			delta := resp.Choices[0].Delta
			if delta.Content != "" {
				if !yield(ContentChunk{Text: delta.Content}) {
					return
				}
			}
			for _, tc := range delta.ToolCalls {
				acc.Add(ToolCallDelta{
					Index:     indexOf(tc),
					ID:        tc.ID,
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
				})
			}
		}

		c.logger.Debug("model stream complete",
			"model", c.model,
			"deltas", deltas,
			"tool_calls", acc.Len(),
			"latency_ms", time.Since(startTime).Milliseconds())

		if acc.Len() > 0 {
			yield(ToolCallsChunk{Calls: acc.ToolCalls()})
		}
	}
}

// Summarize implements Client.
func (c *OpenAIClient) Summarize(ctx context.Context, messages []domain.Message) string {
	transcript, err := json.Marshal(messages)
	if err != nil {
		return fmt.Sprintf("Error generating summary: %v", err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SummaryInstruction},
			{Role: openai.ChatMessageRoleUser, Content: string(transcript)},
		},
		MaxTokens: c.summaryMaxTokens,
	})
	if err != nil {
		c.logger.Warn("summary request failed", "model", c.model, "error", err)
		return fmt.Sprintf("Error generating summary: %v", err)
	}
	if len(resp.Choices) == 0 {
		return "Error generating summary: empty response"
	}
	return resp.Choices[0].Message.Content
}

// indexOf returns the stream position of a tool-call delta. Providers that
// omit the index only ever stream a single call.
func indexOf(tc openai.ToolCall) int {
	if tc.Index == nil {
		return 0
	}
	return *tc.Index
}

func toOpenAIMessages(history []domain.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, len(history))
	for i, m := range history {
		msg := openai.ChatCompletionMessage{
			Role:       string(m.Role),
			Content:    m.Content,
			Name:       m.Name,
			ToolCallID: m.ToolCallID,
		}
		for _, tc := range m.ToolCalls {
			msg.ToolCalls = append(msg.ToolCalls, openai.ToolCall{
				ID:   tc.ID,
				Type: openai.ToolType(tc.Type),
				Function: openai.FunctionCall{
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
				},
			})
		}
		out[i] = msg
	}
	return out
}

func toOpenAITools(defs []domain.ToolDefinition) []openai.Tool {
	tools := make([]openai.Tool, 0, len(defs))
	for _, d := range defs {
		tools = append(tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        d.Name,
				Description: d.Description,
				Parameters:  d.Parameters,
			},
		})
	}
	return tools
}
