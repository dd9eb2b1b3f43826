package operations_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/modeltx/modeltx/pkg/modeltx/core"
	"github.com/modeltx/modeltx/pkg/modeltx/operations"
	"github.com/modeltx/modeltx/pkg/modeltx/resource"
)

func noopHandler(_ context.Context, _ resource.Handle, _ map[string]any) core.OperationResult {
	return core.Succeed(nil)
}

func TestRegistry(t *testing.T) {
	t.Run("register and resolve", func(t *testing.T) {
		r := operations.NewRegistry()
		if err := r.Register("demo.noop", noopHandler); err != nil {
			t.Fatalf("Register failed: %v", err)
		}

		if _, ok := r.Resolve("demo.noop"); !ok {
			t.Error("Expected to resolve demo.noop")
		}
		if _, ok := r.Resolve("demo.missing"); ok {
			t.Error("Expected demo.missing to be unresolved")
		}
	})

	t.Run("duplicate registration fails", func(t *testing.T) {
		r := operations.NewRegistry()
		if err := r.Register("demo.noop", noopHandler); err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if err := r.Register("demo.noop", noopHandler); err == nil {
			t.Error("Expected duplicate registration to fail")
		}
	})

	t.Run("empty name and nil handler fail", func(t *testing.T) {
		r := operations.NewRegistry()
		if err := r.Register("", noopHandler); err == nil {
			t.Error("Expected empty name to fail")
		}
		if err := r.Register("demo.nil", nil); err == nil {
			t.Error("Expected nil handler to fail")
		}
	})

	t.Run("names are sorted", func(t *testing.T) {
		r := operations.NewRegistry()
		for _, name := range []string{"c.op", "a.op", "b.op"} {
			if err := r.Register(name, noopHandler); err != nil {
				t.Fatalf("Register failed: %v", err)
			}
		}
		want := []string{"a.op", "b.op", "c.op"}
		if got := r.Names(); !reflect.DeepEqual(got, want) {
			t.Errorf("Expected %v, got %v", want, got)
		}
	})

	t.Run("builtin set registers once", func(t *testing.T) {
		r := operations.NewRegistry()
		if err := operations.RegisterBuiltin(r); err != nil {
			t.Fatalf("RegisterBuiltin failed: %v", err)
		}
		if r.Len() != 6 {
			t.Errorf("Expected 6 built-in operations, got %d", r.Len())
		}
		if err := operations.RegisterBuiltin(r); err == nil {
			t.Error("Expected a second RegisterBuiltin to fail on duplicates")
		}
	})
}
