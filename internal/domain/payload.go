package domain

// MessagePayload is the payload for user_message and assistant_message events.
type MessagePayload struct {
	Content string `json:"content"`
}

// ToolCallPayload is the payload for tool_call events.
type ToolCallPayload struct {
	ToolCalls []ToolCall `json:"tool_calls"`
}

// ToolResultPayload is the payload for tool_result events.
type ToolResultPayload struct {
	Name   string `json:"name"`
	Result string `json:"result"`
}
