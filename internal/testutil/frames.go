package testutil

import (
	"sync"

	"github.com/xiaot623/gogo/relay/internal/protocol"
)

// FrameRecorder collects emitted frames.
type FrameRecorder struct {
	mu     sync.Mutex
	frames []protocol.Frame
}

// Emit records a frame.
func (r *FrameRecorder) Emit(f protocol.Frame) {
	r.mu.Lock()
	r.frames = append(r.frames, f)
	r.mu.Unlock()
}

// Frames returns the recorded frames.
func (r *FrameRecorder) Frames() []protocol.Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]protocol.Frame(nil), r.frames...)
}

// Count returns how many frames of a type were recorded.
func (r *FrameRecorder) Count(t protocol.FrameType) int {
	n := 0
	for _, f := range r.Frames() {
		if f.Type == t {
			n++
		}
	}
	return n
}
