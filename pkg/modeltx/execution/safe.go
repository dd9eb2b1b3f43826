package execution

import (
	"context"
	"fmt"

	"github.com/modeltx/modeltx/pkg/modeltx/core"
)

// SafeResult reports one operation's outcome plus whether its scope was
// rolled back.
type SafeResult struct {
	Result     core.OperationResult
	RolledBack bool
}

// SafeExecute runs exactly one operation inside a private scope: commit on
// success, rollback on failure. A panicking handler counts as a failure, so
// the document is never left with a partially applied operation. The
// returned error covers only scope-level faults.
func (e *Executor) SafeExecute(ctx context.Context, op core.Operation, displayName string) (*SafeResult, error) {
	if displayName == "" {
		displayName = op.Name
	}

	token, err := e.begin(displayName)
	if err != nil {
		return nil, err
	}

	opResult := e.invoke(ctx, op)

	if !opResult.Success {
		e.rollback(token, displayName, opResult.ErrorMessage)
		return &SafeResult{Result: opResult, RolledBack: true}, nil
	}

	if err := e.handle.Commit(token); err != nil {
		reason := fmt.Sprintf("commit refused: %v", err)
		e.rollback(token, displayName, reason)
		return &SafeResult{
			Result:     core.Fail(core.ErrKindResource, reason),
			RolledBack: true,
		}, nil
	}

	e.logger.Info().
		Str("operation", op.Name).
		Str("scope", displayName).
		Msg("operation committed")
	return &SafeResult{Result: opResult}, nil
}
