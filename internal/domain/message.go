package domain

// Message is one role-tagged entry of the conversation history sent to the model.
type Message struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content,omitempty"`
	Name       string     `json:"name,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ToolCall is a request from the model to invoke a named local function.
type ToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function ToolCallFunction `json:"function"`
}

// ToolCallFunction carries the function name and its raw JSON arguments.
type ToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Conversation is the in-memory, append-only history of one connection.
type Conversation struct {
	messages []Message
}

// NewConversation creates a conversation seeded with a system instruction.
func NewConversation(systemPrompt string) *Conversation {
	c := &Conversation{}
	if systemPrompt != "" {
		c.Append(Message{Role: RoleSystem, Content: systemPrompt})
	}
	return c
}

// Append adds a message to the end of the history.
func (c *Conversation) Append(msg Message) {
	c.messages = append(c.messages, msg)
}

// Messages returns a copy of the history.
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Last returns the most recent message.
func (c *Conversation) Last() (Message, bool) {
	if len(c.messages) == 0 {
		return Message{}, false
	}
	return c.messages[len(c.messages)-1], true
}

// Len returns the number of messages in the history.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// ToolDefinition describes a tool the model may call.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}
