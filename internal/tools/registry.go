package tools

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/xiaot623/gogo/relay/internal/domain"
)

// Executor runs a server-side tool with decoded arguments and returns its
// textual result.
type Executor func(ctx context.Context, args map[string]any) (string, error)

// ErrFrozen is returned when registering into a frozen registry.
var ErrFrozen = errors.New("tool registry is frozen")

type entry struct {
	def    domain.ToolDefinition
	schema *gojsonschema.Schema
	exec   Executor
}

// Registry maps tool names to their definitions and executors. It is built at
// startup and frozen before the first connection is served.
type Registry struct {
	mu      sync.RWMutex
	frozen  bool
	entries map[string]entry
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]entry),
	}
}

// Register adds a tool. The parameter schema is compiled up front so a bad
// definition fails at startup instead of mid-turn.
func (r *Registry) Register(def domain.ToolDefinition, exec Executor) error {
	if def.Name == "" {
		return fmt.Errorf("tool name is required")
	}
	if exec == nil {
		return fmt.Errorf("executor is required")
	}

	var schema *gojsonschema.Schema
	if def.Parameters != nil {
		compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(def.Parameters))
		if err != nil {
			return fmt.Errorf("invalid parameter schema for %s: %w", def.Name, err)
		}
		schema = compiled
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return ErrFrozen
	}
	if _, exists := r.entries[def.Name]; exists {
		return fmt.Errorf("tool already registered: %s", def.Name)
	}
	r.entries[def.Name] = entry{def: def, schema: schema, exec: exec}
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(def domain.ToolDefinition, exec Executor) {
	if err := r.Register(def, exec); err != nil {
		panic(err)
	}
}

// Freeze prevents further registration.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Lookup returns the executor for a tool name.
func (r *Registry) Lookup(name string) (Executor, bool) {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return e.exec, true
}

// Validate checks decoded arguments against the tool's parameter schema.
// Tools registered without a schema accept any arguments.
func (r *Registry) Validate(name string, args map[string]any) error {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("unknown tool: %s", name)
	}
	if e.schema == nil {
		return nil
	}

	result, err := e.schema.Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		return fmt.Errorf("failed to validate arguments for %s: %w", name, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, re := range result.Errors() {
			msgs = append(msgs, re.String())
		}
		return fmt.Errorf("invalid arguments for %s: %s", name, strings.Join(msgs, "; "))
	}
	return nil
}

// Definitions returns the tool declarations advertised to the model, sorted
// by name.
func (r *Registry) Definitions() []domain.ToolDefinition {
	r.mu.RLock()
	defs := make([]domain.ToolDefinition, 0, len(r.entries))
	for _, e := range r.entries {
		defs = append(defs, e.def)
	}
	r.mu.RUnlock()

	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}
