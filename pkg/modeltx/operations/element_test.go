package operations_test

import (
	"context"
	"strings"
	"testing"

	"github.com/modeltx/modeltx/pkg/modeltx/core"
	"github.com/modeltx/modeltx/pkg/modeltx/operations"
	"github.com/modeltx/modeltx/pkg/modeltx/resource"
)

// scopedDocument opens a scope so handlers can mutate, and rolls it back at
// the end of the test.
func scopedDocument(t *testing.T) *resource.Document {
	t.Helper()
	doc := resource.NewDocument()
	token, err := doc.BeginScope("test")
	if err != nil {
		t.Fatalf("BeginScope failed: %v", err)
	}
	t.Cleanup(func() { _ = doc.Rollback(token) })
	return doc
}

func TestElementCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and returns the ID", func(t *testing.T) {
		doc := scopedDocument(t)

		result := operations.ElementCreate(ctx, doc, map[string]any{
			"category": "Walls",
			"params":   map[string]any{"height": 3.0},
		})

		if !result.Success {
			t.Fatalf("Expected success, got %+v", result)
		}
		id, _ := result.Payload["id"].(string)
		if id == "" {
			t.Fatal("Expected a generated ID in the payload")
		}
		el, ok := doc.Element(id)
		if !ok {
			t.Fatal("Expected the element to exist")
		}
		if el.Category != "Walls" {
			t.Errorf("Expected category Walls, got %s", el.Category)
		}
	})

	t.Run("missing category is a validation failure", func(t *testing.T) {
		doc := scopedDocument(t)

		result := operations.ElementCreate(ctx, doc, map[string]any{})

		if result.Success {
			t.Fatal("Expected failure")
		}
		if result.ErrorKind != core.ErrKindValidation {
			t.Errorf("Expected validation kind, got %s", result.ErrorKind)
		}
		if !strings.Contains(result.ErrorMessage, "category") {
			t.Errorf("Expected the message to name the field, got %q", result.ErrorMessage)
		}
	})

	t.Run("mutation outside a scope is a resource failure", func(t *testing.T) {
		doc := resource.NewDocument()

		result := operations.ElementCreate(ctx, doc, map[string]any{"category": "Walls"})

		if result.Success {
			t.Fatal("Expected failure")
		}
		if result.ErrorKind != core.ErrKindResource {
			t.Errorf("Expected resource kind, got %s", result.ErrorKind)
		}
	})
}

func TestElementGetUpdateDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("get returns the element", func(t *testing.T) {
		doc := scopedDocument(t)
		if _, err := doc.CreateElement(resource.Element{ID: "wall-1", Category: "Walls"}); err != nil {
			t.Fatalf("CreateElement failed: %v", err)
		}

		result := operations.ElementGet(ctx, doc, map[string]any{"id": "wall-1"})
		if !result.Success {
			t.Fatalf("Expected success, got %+v", result)
		}
		if result.Payload["category"] != "Walls" {
			t.Errorf("Expected category Walls in payload, got %v", result.Payload["category"])
		}
	})

	t.Run("get of a missing element is not_found", func(t *testing.T) {
		doc := scopedDocument(t)

		result := operations.ElementGet(ctx, doc, map[string]any{"id": "ghost"})
		if result.Success || result.ErrorKind != core.ErrKindNotFound {
			t.Errorf("Expected not_found failure, got %+v", result)
		}
	})

	t.Run("update merges params", func(t *testing.T) {
		doc := scopedDocument(t)
		if _, err := doc.CreateElement(resource.Element{
			ID:       "wall-1",
			Category: "Walls",
			Params:   map[string]any{"height": 3.0},
		}); err != nil {
			t.Fatalf("CreateElement failed: %v", err)
		}

		result := operations.ElementUpdate(ctx, doc, map[string]any{
			"id":     "wall-1",
			"params": map[string]any{"fire_rating": "2h"},
		})
		if !result.Success {
			t.Fatalf("Expected success, got %+v", result)
		}

		el, _ := doc.Element("wall-1")
		if el.Params["height"] != 3.0 || el.Params["fire_rating"] != "2h" {
			t.Errorf("Expected merged params, got %v", el.Params)
		}
	})

	t.Run("update of a missing element is not_found", func(t *testing.T) {
		doc := scopedDocument(t)

		result := operations.ElementUpdate(ctx, doc, map[string]any{
			"id":     "ghost",
			"params": map[string]any{"height": 1.0},
		})
		if result.Success || result.ErrorKind != core.ErrKindNotFound {
			t.Errorf("Expected not_found failure, got %+v", result)
		}
	})

	t.Run("delete removes the element", func(t *testing.T) {
		doc := scopedDocument(t)
		if _, err := doc.CreateElement(resource.Element{ID: "wall-1", Category: "Walls"}); err != nil {
			t.Fatalf("CreateElement failed: %v", err)
		}

		result := operations.ElementDelete(ctx, doc, map[string]any{"id": "wall-1"})
		if !result.Success {
			t.Fatalf("Expected success, got %+v", result)
		}
		if _, ok := doc.Element("wall-1"); ok {
			t.Error("Expected wall-1 to be gone")
		}
	})
}

func TestElementQueryAndStats(t *testing.T) {
	ctx := context.Background()

	doc := scopedDocument(t)
	for _, id := range []string{"wall-1", "wall-2"} {
		if _, err := doc.CreateElement(resource.Element{ID: id, Category: "Walls"}); err != nil {
			t.Fatalf("CreateElement failed: %v", err)
		}
	}
	if _, err := doc.CreateElement(resource.Element{ID: "door-1", Category: "Doors"}); err != nil {
		t.Fatalf("CreateElement failed: %v", err)
	}

	result := operations.ElementQuery(ctx, doc, map[string]any{"category": "Walls"})
	if !result.Success {
		t.Fatalf("Expected success, got %+v", result)
	}
	ids, _ := result.Payload["ids"].([]string)
	if len(ids) != 2 || ids[0] != "wall-1" || ids[1] != "wall-2" {
		t.Errorf("Expected sorted wall IDs, got %v", ids)
	}

	stats := operations.ModelStats(ctx, doc, nil)
	if stats.Payload["element_count"] != 3 {
		t.Errorf("Expected 3 elements, got %v", stats.Payload["element_count"])
	}
}
