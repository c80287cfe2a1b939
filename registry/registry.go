// Package registry maps tool names to schema-validated operations that an
// external orchestrator can invoke. Transport is left to the caller.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/xeipuuv/gojsonschema"
)

var (
	ErrUnknownTool   = errors.New("unknown tool")
	ErrDuplicateTool = errors.New("tool already registered")
)

// ValidationError lists every schema violation of a tool input
type ValidationError struct {
	Tool   string
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input for %s: %s", e.Tool, strings.Join(e.Errors, "; "))
}

// Handler runs a tool on already validated input
type Handler func(ctx context.Context, input json.RawMessage) (interface{}, error)

// Tool is one registered operation
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"input_schema"`

	handler Handler
	schema  *gojsonschema.Schema
}

// Registry is safe for concurrent use
type Registry struct {
	mu    sync.RWMutex
	tools map[string]*Tool
	log   *slog.Logger
}

// New creates an empty registry. A nil logger uses slog.Default().
func New(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{tools: make(map[string]*Tool), log: logger}
}

// Register compiles inputSchema and adds the tool.
func (r *Registry) Register(name, description string, inputSchema json.RawMessage, h Handler) error {
	if name == "" || h == nil {
		return fmt.Errorf("register %q: name and handler are required", name)
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(inputSchema))
	if err != nil {
		return fmt.Errorf("register %s: invalid json schema: %w", name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, name)
	}
	r.tools[name] = &Tool{
		Name:        name,
		Description: description,
		InputSchema: inputSchema,
		handler:     h,
		schema:      schema,
	}
	return nil
}

// Invoke validates input against the tool's schema and runs it. Empty input
// is treated as an empty object.
func (r *Registry) Invoke(ctx context.Context, name string, input json.RawMessage) (interface{}, error) {
	r.mu.RLock()
	tool, ok := r.tools[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	if len(strings.TrimSpace(string(input))) == 0 {
		input = json.RawMessage("{}")
	}

	result, err := tool.schema.Validate(gojsonschema.NewBytesLoader(input))
	if err != nil {
		return nil, fmt.Errorf("validate %s input: %w", name, err)
	}
	if !result.Valid() {
		verr := &ValidationError{Tool: name}
		for _, desc := range result.Errors() {
			verr.Errors = append(verr.Errors, desc.String())
		}
		return nil, verr
	}

	start := time.Now()
	out, err := tool.handler(ctx, input)
	if err != nil {
		r.log.Warn("Tool failed", "tool", name, "error", err)
		return nil, err
	}
	r.log.Debug("Tool invoked", "tool", name, "elapsed", time.Since(start))
	return out, nil
}

// List returns the registered tools sorted by name
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
