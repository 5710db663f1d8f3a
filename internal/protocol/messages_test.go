package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name  string
		frame Frame
		want  string
	}{
		{"token", Token("Hel"), `{"type":"token","content":"Hel"}`},
		{"info", Info(ExecutingToolsNotice), `{"type":"info","content":"Executing tools..."}`},
		{"error", Error("boom"), `{"type":"error","content":"boom"}`},
		{"end_turn", EndTurn(), `{"type":"end_turn"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.frame.Encode()
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}
