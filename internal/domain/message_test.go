package domain

import (
	"testing"
)

func TestConversationMessagesReturnsCopy(t *testing.T) {
	c := NewConversation("be helpful")
	c.Append(Message{Role: RoleUser, Content: "hi"})

	msgs := c.Messages()
	msgs[1].Content = "changed"

	last, ok := c.Last()
	if !ok || last.Content != "hi" {
		t.Fatalf("history was mutated through Messages: %+v", last)
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 messages, got %d", c.Len())
	}
}

func TestConversationWithoutSystemPrompt(t *testing.T) {
	c := NewConversation("")
	if _, ok := c.Last(); ok {
		t.Fatal("expected empty conversation")
	}
}

func TestIsConversation(t *testing.T) {
	for _, et := range ConversationEventTypes {
		if !et.IsConversation() {
			t.Fatalf("%s should be a conversation event", et)
		}
	}
	if EventType("session_started").IsConversation() {
		t.Fatal("unexpected conversation event type")
	}
}
