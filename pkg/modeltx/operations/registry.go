// Package operations defines the handler contract for named operations and
// the registry the executor resolves them through. New operations plug in
// here without touching orchestration code.
package operations

import (
	"context"
	"fmt"
	"sort"

	"github.com/modeltx/modeltx/pkg/modeltx/core"
	"github.com/modeltx/modeltx/pkg/modeltx/resource"
)

// Handler executes one named operation against the model document. Handlers
// never open a top-level scope themselves; the caller (batch executor or
// safe-execute wrapper) owns the scope. Expected failures come back as a
// failed OperationResult, never as a panic.
type Handler func(ctx context.Context, res resource.Handle, params map[string]any) core.OperationResult

// Registry maps operation names to handlers. Registration happens once at
// startup; lookups are side-effect free.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register adds a handler under a name. Duplicate names are an error so a
// startup typo cannot silently shadow an operation.
func (r *Registry) Register(name string, h Handler) error {
	if name == "" {
		return fmt.Errorf("register operation: empty name")
	}
	if h == nil {
		return fmt.Errorf("register operation %q: nil handler", name)
	}
	if _, exists := r.handlers[name]; exists {
		return fmt.Errorf("register operation %q: already registered", name)
	}
	r.handlers[name] = h
	return nil
}

// Resolve looks up a handler by name.
func (r *Registry) Resolve(name string) (Handler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}

// Names returns every registered operation name, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered operations.
func (r *Registry) Len() int {
	return len(r.handlers)
}
