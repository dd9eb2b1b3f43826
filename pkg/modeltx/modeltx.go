// Package modeltx wires the transactional operation engine together: a
// registry of named operations, a transaction-group session, and a batch
// executor, all sharing one model document handle.
package modeltx

import (
	"github.com/rs/zerolog"

	"github.com/modeltx/modeltx/pkg/modeltx/core"
	"github.com/modeltx/modeltx/pkg/modeltx/execution"
	"github.com/modeltx/modeltx/pkg/modeltx/operations"
	"github.com/modeltx/modeltx/pkg/modeltx/resource"
	"github.com/modeltx/modeltx/pkg/modeltx/txn"
)

// Engine bundles the components that serve one model document. The handle
// is borrowed from the host; the engine owns everything else.
type Engine struct {
	Handle   resource.Handle
	Registry *operations.Registry
	Session  *txn.Session
	Executor *execution.Executor
}

// New builds an engine over a handle with the built-in operations
// registered and the default failure classification policy attached to
// every scope.
func New(handle resource.Handle, logger zerolog.Logger) (*Engine, error) {
	return NewWithPolicy(handle, resource.NewDefaultPolicy(), logger)
}

// NewWithPolicy builds an engine with a caller-supplied failure
// classification policy.
func NewWithPolicy(handle resource.Handle, policy resource.Policy, logger zerolog.Logger) (*Engine, error) {
	registry := operations.NewRegistry()
	if err := operations.RegisterBuiltin(registry); err != nil {
		return nil, err
	}
	adapted := NewLoggerAdapter(&logger)
	return &Engine{
		Handle:   handle,
		Registry: registry,
		Session:  txn.NewSession(handle, policy, adapted),
		Executor: execution.NewExecutor(registry, handle, policy, adapted),
	}, nil
}

// Logger exposes the adapter for callers that hold a zerolog.Logger but
// need the engine's core.Logger interface.
func Logger(logger *zerolog.Logger) core.Logger {
	return NewLoggerAdapter(logger)
}
