package execution_test

import (
	"context"
	"testing"

	"github.com/modeltx/modeltx/pkg/modeltx/core"
)

func TestSafeExecute(t *testing.T) {
	ctx := context.Background()

	t.Run("success commits", func(t *testing.T) {
		executor, doc := newTestExecutor(t)

		safe, err := executor.SafeExecute(ctx, createOp("wall-1", "Walls"), "place wall")
		if err != nil {
			t.Fatalf("SafeExecute failed: %v", err)
		}

		if !safe.Result.Success {
			t.Errorf("Expected success, got %+v", safe.Result)
		}
		if safe.RolledBack {
			t.Error("Expected no rollback")
		}
		if _, ok := doc.Element("wall-1"); !ok {
			t.Error("Expected wall-1 to be committed")
		}
	})

	t.Run("reported failure rolls back", func(t *testing.T) {
		executor, doc := newTestExecutor(t)

		safe, err := executor.SafeExecute(ctx, getOp("ghost"), "")
		if err != nil {
			t.Fatalf("SafeExecute failed: %v", err)
		}

		if safe.Result.Success {
			t.Error("Expected failure")
		}
		if !safe.RolledBack {
			t.Error("Expected rollback")
		}
		if doc.OpenScopes() != 0 {
			t.Errorf("Expected no open scopes, got %d", doc.OpenScopes())
		}
	})

	t.Run("panic is treated like a reported failure", func(t *testing.T) {
		executor, doc := newTestExecutor(t)

		safe, err := executor.SafeExecute(ctx, core.Operation{Name: "test.panic"}, "")
		if err != nil {
			t.Fatalf("SafeExecute failed: %v", err)
		}

		if safe.Result.Success {
			t.Error("Expected failure")
		}
		if safe.Result.ErrorKind != core.ErrKindException {
			t.Errorf("Expected exception kind, got %s", safe.Result.ErrorKind)
		}
		if !safe.RolledBack {
			t.Error("Expected rollback")
		}
		if doc.ElementCount() != 0 {
			t.Errorf("Expected unchanged document, got %d elements", doc.ElementCount())
		}
	})

	t.Run("refused commit rolls back and surfaces a resource failure", func(t *testing.T) {
		executor, doc := newTestExecutor(t)

		safe, err := executor.SafeExecute(ctx, core.Operation{
			Name:   "test.note",
			Params: map[string]any{"code": "constraint_violation", "severity": "error"},
		}, "")
		if err != nil {
			t.Fatalf("SafeExecute failed: %v", err)
		}

		if safe.Result.Success {
			t.Error("Expected failure after refused commit")
		}
		if safe.Result.ErrorKind != core.ErrKindResource {
			t.Errorf("Expected resource kind, got %s", safe.Result.ErrorKind)
		}
		if !safe.RolledBack {
			t.Error("Expected rollback")
		}
		if doc.OpenScopes() != 0 {
			t.Errorf("Expected no open scopes, got %d", doc.OpenScopes())
		}
	})
}
