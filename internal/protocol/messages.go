// Package protocol defines the frames exchanged with chat clients.
package protocol

import "encoding/json"

// FrameType identifies an outbound frame.
type FrameType string

const (
	FrameToken   FrameType = "token"
	FrameInfo    FrameType = "info"
	FrameError   FrameType = "error"
	FrameEndTurn FrameType = "end_turn"
)

// ExecutingToolsNotice is the info text sent before tools run.
const ExecutingToolsNotice = "Executing tools..."

// Frame is one outbound message. Inbound frames are raw user text.
type Frame struct {
	Type    FrameType `json:"type"`
	Content string    `json:"content,omitempty"`
}

// Token creates a token frame.
func Token(text string) Frame {
	return Frame{Type: FrameToken, Content: text}
}

// Info creates an info frame.
func Info(text string) Frame {
	return Frame{Type: FrameInfo, Content: text}
}

// Error creates an error frame.
func Error(message string) Frame {
	return Frame{Type: FrameError, Content: message}
}

// EndTurn creates the end_turn frame.
func EndTurn() Frame {
	return Frame{Type: FrameEndTurn}
}

// Encode serializes a frame for the wire.
func (f Frame) Encode() ([]byte, error) {
	return json.Marshal(f)
}
