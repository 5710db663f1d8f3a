package service

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a session does not exist.
var ErrSessionNotFound = errors.New("session not found")

// ToolArgumentError reports tool-call arguments that are not a valid JSON
// object or do not satisfy the tool's parameter schema. It aborts the turn.
type ToolArgumentError struct {
	Tool      string
	Arguments string
	Err       error
}

func (e *ToolArgumentError) Error() string {
	return fmt.Sprintf("invalid arguments for tool %s: %v", e.Tool, e.Err)
}

func (e *ToolArgumentError) Unwrap() error { return e.Err }

// ToolExecutionError reports a tool that failed while running. It aborts the turn.
type ToolExecutionError struct {
	Tool string
	Err  error
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("tool %s failed: %v", e.Tool, e.Err)
}

func (e *ToolExecutionError) Unwrap() error { return e.Err }

// PersistenceError reports a failed store operation.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
