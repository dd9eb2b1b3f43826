package operations

import (
	"context"
	"errors"
	"sort"

	"github.com/modeltx/modeltx/pkg/modeltx/core"
	"github.com/modeltx/modeltx/pkg/modeltx/resource"
)

// Built-in operation names.
const (
	OpElementCreate = "element.create"
	OpElementGet    = "element.get"
	OpElementUpdate = "element.update"
	OpElementDelete = "element.delete"
	OpElementQuery  = "element.query"
	OpModelStats    = "model.stats"
)

// RegisterBuiltin adds the built-in element operations to a registry.
func RegisterBuiltin(r *Registry) error {
	builtin := map[string]Handler{
		OpElementCreate: ElementCreate,
		OpElementGet:    ElementGet,
		OpElementUpdate: ElementUpdate,
		OpElementDelete: ElementDelete,
		OpElementQuery:  ElementQuery,
		OpModelStats:    ModelStats,
	}
	for name, h := range builtin {
		if err := r.Register(name, h); err != nil {
			return err
		}
	}
	return nil
}

type elementCreateParams struct {
	ID       string         `json:"id"`
	Category string         `json:"category" validate:"required"`
	Params   map[string]any `json:"params"`
}

// ElementCreate adds a new element to the model document.
func ElementCreate(_ context.Context, res resource.Handle, params map[string]any) core.OperationResult {
	var p elementCreateParams
	if err := decodeParams(OpElementCreate, params, &p); err != nil {
		return failValidation(err)
	}
	id, err := res.CreateElement(resource.Element{ID: p.ID, Category: p.Category, Params: p.Params})
	if err != nil {
		return core.Fail(core.ErrKindResource, err.Error())
	}
	return core.Succeed(map[string]any{"id": id, "category": p.Category})
}

type elementIDParams struct {
	ID string `json:"id" validate:"required"`
}

// ElementGet reads a single element by ID.
func ElementGet(_ context.Context, res resource.Handle, params map[string]any) core.OperationResult {
	var p elementIDParams
	if err := decodeParams(OpElementGet, params, &p); err != nil {
		return failValidation(err)
	}
	el, ok := res.Element(p.ID)
	if !ok {
		return core.Fail(core.ErrKindNotFound, (&core.NotFoundError{Kind: "element", Name: p.ID}).Error())
	}
	return core.Succeed(map[string]any{
		"id":       el.ID,
		"category": el.Category,
		"params":   el.Params,
	})
}

type elementUpdateParams struct {
	ID     string         `json:"id" validate:"required"`
	Params map[string]any `json:"params" validate:"required"`
}

// ElementUpdate merges parameters into an existing element.
func ElementUpdate(_ context.Context, res resource.Handle, params map[string]any) core.OperationResult {
	var p elementUpdateParams
	if err := decodeParams(OpElementUpdate, params, &p); err != nil {
		return failValidation(err)
	}
	if err := res.UpdateElement(p.ID, p.Params); err != nil {
		return failElementMutation(err)
	}
	return core.Succeed(map[string]any{"id": p.ID, "updated": len(p.Params)})
}

// ElementDelete removes an element from the model document.
func ElementDelete(_ context.Context, res resource.Handle, params map[string]any) core.OperationResult {
	var p elementIDParams
	if err := decodeParams(OpElementDelete, params, &p); err != nil {
		return failValidation(err)
	}
	if err := res.DeleteElement(p.ID); err != nil {
		return failElementMutation(err)
	}
	return core.Succeed(map[string]any{"id": p.ID})
}

type elementQueryParams struct {
	Category string `json:"category" validate:"required"`
}

// ElementQuery lists the IDs of every element in a category.
func ElementQuery(_ context.Context, res resource.Handle, params map[string]any) core.OperationResult {
	var p elementQueryParams
	if err := decodeParams(OpElementQuery, params, &p); err != nil {
		return failValidation(err)
	}
	elements := res.ElementsByCategory(p.Category)
	ids := make([]string, 0, len(elements))
	for _, el := range elements {
		ids = append(ids, el.ID)
	}
	sort.Strings(ids)
	return core.Succeed(map[string]any{
		"category": p.Category,
		"ids":      ids,
		"count":    len(ids),
	})
}

// ModelStats reports document-level counters.
func ModelStats(_ context.Context, res resource.Handle, _ map[string]any) core.OperationResult {
	return core.Succeed(map[string]any{"element_count": res.ElementCount()})
}

// failElementMutation keeps the error taxonomy: a missing referenced entity
// is not_found, everything else from the document is a resource failure.
func failElementMutation(err error) core.OperationResult {
	var nf *core.NotFoundError
	if errors.As(err, &nf) {
		return core.Fail(core.ErrKindNotFound, err.Error())
	}
	return core.Fail(core.ErrKindResource, err.Error())
}
