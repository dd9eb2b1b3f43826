// Package execution runs named operations inside transaction scopes: batches
// under a stop-on-error or continue-on-error policy, single operations with
// automatic rollback, and two-phase execute-then-verify protocols.
package execution

import (
	"context"
	"fmt"
	"time"

	"github.com/modeltx/modeltx/pkg/modeltx/core"
	"github.com/modeltx/modeltx/pkg/modeltx/operations"
	"github.com/modeltx/modeltx/pkg/modeltx/resource"
)

// Executor runs operations against one model document. It owns the private
// scope of every call it serves; operation handlers never manage scopes.
type Executor struct {
	registry *operations.Registry
	handle   resource.Handle
	policy   resource.Policy
	logger   core.Logger
}

// NewExecutor creates an executor. A nil policy selects the default failure
// classification policy; a nil logger discards logs.
func NewExecutor(registry *operations.Registry, handle resource.Handle, policy resource.Policy, logger core.Logger) *Executor {
	if policy == nil {
		policy = resource.NewDefaultPolicy()
	}
	if logger == nil {
		logger = core.NopLogger()
	}
	return &Executor{
		registry: registry,
		handle:   handle,
		policy:   policy,
		logger:   logger,
	}
}

// Run executes a batch of operations in strict list order inside one freshly
// opened scope. Later operations may depend on identifiers produced by
// earlier ones, so operations are never reordered or parallelized.
//
// With StopOnError set, the first failure rolls the whole scope back and
// stops processing; the result cites the failing index and name. Without it,
// the batch runs to completion and commits whatever succeeded, even when
// some operations failed. The returned error covers only scope-level faults
// (the document refusing to open a scope); per-operation outcomes live in
// the BatchResult.
func (e *Executor) Run(ctx context.Context, ops []core.Operation, opts core.BatchOptions) (*core.BatchResult, error) {
	name := opts.Name
	if name == "" {
		name = "batch"
	}

	token, err := e.begin(name)
	if err != nil {
		return nil, err
	}

	e.logger.Info().
		Str("batch", name).
		Int("operation_count", len(ops)).
		Bool("stop_on_error", opts.StopOnError).
		Msg("starting batch execution")

	start := time.Now()
	result := &core.BatchResult{Entries: []core.BatchEntry{}}

	for i, op := range ops {
		opStart := time.Now()
		opResult := e.invoke(ctx, op)
		opDuration := time.Since(opStart)

		result.Entries = append(result.Entries, core.BatchEntry{
			Index:  i,
			Name:   op.Name,
			Result: opResult,
		})

		if opResult.Success {
			result.Succeeded++
			e.logger.Info().
				Str("batch", name).
				Str("operation", op.Name).
				Int("index", i).
				Dur("duration", opDuration).
				Msg("operation succeeded")
			continue
		}

		result.Failed++
		e.logger.Info().
			Str("batch", name).
			Str("operation", op.Name).
			Int("index", i).
			Str("error_kind", string(opResult.ErrorKind)).
			Str("error", opResult.ErrorMessage).
			Dur("duration", opDuration).
			Msg("operation failed")

		if opts.StopOnError {
			reason := fmt.Sprintf("operation %d (%s) failed: %s", i, op.Name, opResult.ErrorMessage)
			e.rollback(token, name, reason)
			result.RolledBack = true
			result.RollbackReason = reason
			break
		}
	}

	if !result.RolledBack {
		if err := e.handle.Commit(token); err != nil {
			reason := fmt.Sprintf("commit refused: %v", err)
			e.rollback(token, name, reason)
			result.RolledBack = true
			result.RollbackReason = reason
		}
	}

	result.Duration = time.Since(start)
	e.logger.Info().
		Str("batch", name).
		Int("succeeded", result.Succeeded).
		Int("failed", result.Failed).
		Bool("rolled_back", result.RolledBack).
		Dur("duration", result.Duration).
		Msg("batch execution completed")
	return result, nil
}

// invoke resolves and runs one operation. An unresolved name becomes a
// not_found result, treated like any other failure by the batch policy. A
// panicking handler is recovered here and converted to an exception result
// so the scope can still be rolled back cleanly.
func (e *Executor) invoke(ctx context.Context, op core.Operation) (result core.OperationResult) {
	handler, ok := e.registry.Resolve(op.Name)
	if !ok {
		return core.Fail(core.ErrKindNotFound,
			(&core.NotFoundError{Kind: "operation", Name: op.Name}).Error())
	}
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().
				Str("operation", op.Name).
				Interface("panic", r).
				Msg("operation handler panicked")
			result = core.Fail(core.ErrKindException,
				fmt.Sprintf("operation %q panicked: %v", op.Name, r))
		}
	}()
	return handler(ctx, e.handle, op.Params)
}

// begin opens a scope and attaches the failure classification policy.
func (e *Executor) begin(name string) (resource.ScopeToken, error) {
	token, err := e.handle.BeginScope(name)
	if err != nil {
		return "", fmt.Errorf("open scope %q: %w", name, err)
	}
	if err := e.handle.AttachPolicy(token, e.policy); err != nil {
		// Close the scope we just opened rather than leaking it.
		if rbErr := e.handle.Rollback(token); rbErr != nil {
			e.logger.Error().
				Str("scope", name).
				Err(rbErr).
				Msg("failed to close scope after policy attach failure")
		}
		return "", fmt.Errorf("attach failure policy to scope %q: %w", name, err)
	}
	return token, nil
}

func (e *Executor) rollback(token resource.ScopeToken, name, reason string) {
	e.logger.Warn().
		Str("scope", name).
		Str("reason", reason).
		Msg("rolling back scope")
	if err := e.handle.Rollback(token); err != nil {
		e.logger.Error().
			Str("scope", name).
			Err(err).
			Msg("rollback failed")
	}
}
