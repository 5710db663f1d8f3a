// Package domain defines the core domain models for the relay.
package domain

// EventType represents the type of a session event.
type EventType string

const (
	EventTypeUserMessage      EventType = "user_message"
	EventTypeAssistantMessage EventType = "assistant_message"
	EventTypeToolCall         EventType = "tool_call"
	EventTypeToolResult       EventType = "tool_result"
)

// ConversationEventTypes lists the event types that make up a transcript.
var ConversationEventTypes = []EventType{
	EventTypeUserMessage,
	EventTypeAssistantMessage,
	EventTypeToolCall,
	EventTypeToolResult,
}

// IsConversation reports whether the event type belongs to the transcript.
func (t EventType) IsConversation() bool {
	for _, ct := range ConversationEventTypes {
		if t == ct {
			return true
		}
	}
	return false
}

// Role is the author of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCallTypeFunction is the discriminator the model API expects on function-call entries.
const ToolCallTypeFunction = "function"
