package execution

import (
	"context"
	"fmt"

	"github.com/modeltx/modeltx/pkg/modeltx/core"
)

// Phase names the point a verify-and-rollback call reached.
type Phase string

const (
	// PhaseExecution means the main operation failed; nothing was verified
	PhaseExecution Phase = "execution"
	// PhaseVerification means the main operation succeeded but verification
	// failed, so its effect was undone
	PhaseVerification Phase = "verification"
	// PhaseComplete means both phases succeeded and the scope committed
	PhaseComplete Phase = "complete"
)

// VerifyResult reports the outcome of a two-phase execute-then-verify call.
// Verify is nil when the main operation already failed.
type VerifyResult struct {
	Phase      Phase
	Main       core.OperationResult
	Verify     *core.OperationResult
	RolledBack bool
}

// VerifyAndRollback runs the main operation and, if it succeeds, a caller
// supplied verification operation against the tentatively mutated document.
// The scope commits only when both succeed; a verification failure undoes
// the main operation too. Some mutations can only be validated by
// re-querying the document after the change is applied, which is what this
// protocol exists for.
func (e *Executor) VerifyAndRollback(ctx context.Context, main, verify core.Operation) (*VerifyResult, error) {
	scopeName := fmt.Sprintf("verify: %s", main.Name)
	token, err := e.begin(scopeName)
	if err != nil {
		return nil, err
	}

	mainResult := e.invoke(ctx, main)
	if !mainResult.Success {
		e.rollback(token, scopeName, mainResult.ErrorMessage)
		return &VerifyResult{
			Phase:      PhaseExecution,
			Main:       mainResult,
			RolledBack: true,
		}, nil
	}

	verifyResult := e.invoke(ctx, verify)
	if !verifyResult.Success {
		e.logger.Info().
			Str("operation", main.Name).
			Str("verify", verify.Name).
			Str("error", verifyResult.ErrorMessage).
			Msg("verification failed, undoing main operation")
		e.rollback(token, scopeName, verifyResult.ErrorMessage)
		return &VerifyResult{
			Phase:      PhaseVerification,
			Main:       mainResult,
			Verify:     &verifyResult,
			RolledBack: true,
		}, nil
	}

	if err := e.handle.Commit(token); err != nil {
		reason := fmt.Sprintf("commit refused: %v", err)
		e.rollback(token, scopeName, reason)
		failed := core.Fail(core.ErrKindResource, reason)
		return &VerifyResult{
			Phase:      PhaseVerification,
			Main:       mainResult,
			Verify:     &failed,
			RolledBack: true,
		}, nil
	}

	return &VerifyResult{
		Phase:  PhaseComplete,
		Main:   mainResult,
		Verify: &verifyResult,
	}, nil
}
