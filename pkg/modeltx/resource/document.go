package resource

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/modeltx/modeltx/pkg/modeltx/core"
)

// ErrNoOpenScope is returned when a mutation is attempted outside a scope.
var ErrNoOpenScope = errors.New("no open scope")

// scope is one level of the document's transaction stack. The snapshot is
// taken at BeginScope; Rollback restores it, Commit discards it.
type scope struct {
	token    ScopeToken
	name     string
	snapshot map[string]Element
	policy   Policy
	notes    []FailureNote
}

// Document is an in-memory model document implementing Handle. It stands in
// for the host CAD application in tests and in the CLI, offering the same
// coarse-grained scope primitives: a snapshot per open scope, restored whole
// on rollback.
//
// The document is single-threaded by contract: the engine is its sole
// mutator while a scope is open.
type Document struct {
	elements map[string]Element
	scopes   []*scope
	logger   core.Logger
}

// NewDocument creates an empty model document.
func NewDocument() *Document {
	return NewDocumentWithLogger(core.NopLogger())
}

// NewDocumentWithLogger creates an empty model document that logs scope
// activity and note classification to the given logger.
func NewDocumentWithLogger(logger core.Logger) *Document {
	if logger == nil {
		logger = core.NopLogger()
	}
	return &Document{
		elements: make(map[string]Element),
		logger:   logger,
	}
}

// BeginScope opens a new scope on top of the stack.
func (d *Document) BeginScope(name string) (ScopeToken, error) {
	token := ScopeToken(uuid.NewString())
	d.scopes = append(d.scopes, &scope{
		token:    token,
		name:     name,
		snapshot: copyElements(d.elements),
	})
	d.logger.Debug().
		Str("scope", name).
		Int("depth", len(d.scopes)).
		Msg("scope opened")
	return token, nil
}

// AttachPolicy sets the failure classification policy for an open scope.
func (d *Document) AttachPolicy(token ScopeToken, p Policy) error {
	sc, err := d.top(token)
	if err != nil {
		return err
	}
	sc.policy = p
	return nil
}

// RaiseNote records a pending note against the innermost open scope.
func (d *Document) RaiseNote(note FailureNote) error {
	if len(d.scopes) == 0 {
		return fmt.Errorf("raise note %q: %w", note.Code, ErrNoOpenScope)
	}
	sc := d.scopes[len(d.scopes)-1]
	sc.notes = append(sc.notes, note)
	return nil
}

// Commit closes the innermost scope, keeping its mutations. Notes raised
// inside the scope are classified first; any note the policy marks fatal
// refuses the commit and leaves the scope open for rollback.
func (d *Document) Commit(token ScopeToken) error {
	sc, err := d.top(token)
	if err != nil {
		return err
	}
	if fatal := d.classifyNotes(sc); fatal != nil {
		return &core.ResourceError{Scope: sc.name, Cause: fatal}
	}
	d.scopes = d.scopes[:len(d.scopes)-1]
	d.logger.Debug().
		Str("scope", sc.name).
		Int("depth", len(d.scopes)).
		Msg("scope committed")
	return nil
}

// Rollback closes the innermost scope, restoring the element map captured
// at BeginScope.
func (d *Document) Rollback(token ScopeToken) error {
	sc, err := d.top(token)
	if err != nil {
		return err
	}
	d.elements = sc.snapshot
	d.scopes = d.scopes[:len(d.scopes)-1]
	d.logger.Debug().
		Str("scope", sc.name).
		Int("depth", len(d.scopes)).
		Msg("scope rolled back")
	return nil
}

// OpenScopes reports how many scopes are currently open.
func (d *Document) OpenScopes() int {
	return len(d.scopes)
}

// classifyNotes runs the scope's policy over its pending notes. It returns
// nil when every note was suppressed or resolved, otherwise an error naming
// the first fatal note. Without an attached policy every note is fatal.
func (d *Document) classifyNotes(sc *scope) error {
	var fatal []FailureNote
	for _, note := range sc.notes {
		decision := DecisionFail
		if sc.policy != nil {
			decision = sc.policy.Classify(note)
		}
		switch decision {
		case DecisionSuppress:
			d.logger.Debug().
				Str("scope", sc.name).
				Str("code", note.Code).
				Str("note", note.Message).
				Msg("failure note suppressed")
		case DecisionResolve:
			d.logger.Info().
				Str("scope", sc.name).
				Str("code", note.Code).
				Str("note", note.Message).
				Msg("failure note auto-resolved")
		case DecisionFail:
			fatal = append(fatal, note)
		}
	}
	// Fatal notes stay on the scope so a retried commit is refused again.
	sc.notes = fatal
	if len(fatal) == 0 {
		return nil
	}
	return fmt.Errorf("%d unresolved failure note(s), first: [%s] %s",
		len(fatal), fatal[0].Code, fatal[0].Message)
}

// top returns the innermost scope, verifying the caller's token matches it.
func (d *Document) top(token ScopeToken) (*scope, error) {
	if len(d.scopes) == 0 {
		return nil, ErrNoOpenScope
	}
	sc := d.scopes[len(d.scopes)-1]
	if sc.token != token {
		return nil, fmt.Errorf("scope token does not match the innermost open scope %q", sc.name)
	}
	return sc, nil
}

// CreateElement adds an element to the document. An empty ID is assigned
// one. Requires an open scope.
func (d *Document) CreateElement(el Element) (string, error) {
	if len(d.scopes) == 0 {
		return "", fmt.Errorf("create element: %w", ErrNoOpenScope)
	}
	if el.ID == "" {
		el.ID = uuid.NewString()
	}
	if _, exists := d.elements[el.ID]; exists {
		return "", fmt.Errorf("element %q already exists", el.ID)
	}
	el.Params = copyParams(el.Params)
	d.elements[el.ID] = el
	return el.ID, nil
}

// Element returns an element by ID.
func (d *Document) Element(id string) (Element, bool) {
	el, ok := d.elements[id]
	if !ok {
		return Element{}, false
	}
	el.Params = copyParams(el.Params)
	return el, true
}

// UpdateElement merges the given parameters into an element. Requires an
// open scope.
func (d *Document) UpdateElement(id string, params map[string]any) error {
	if len(d.scopes) == 0 {
		return fmt.Errorf("update element: %w", ErrNoOpenScope)
	}
	el, ok := d.elements[id]
	if !ok {
		return &core.NotFoundError{Kind: "element", Name: id}
	}
	merged := copyParams(el.Params)
	if merged == nil {
		merged = make(map[string]any, len(params))
	}
	for k, v := range params {
		merged[k] = v
	}
	el.Params = merged
	d.elements[id] = el
	return nil
}

// DeleteElement removes an element. Requires an open scope.
func (d *Document) DeleteElement(id string) error {
	if len(d.scopes) == 0 {
		return fmt.Errorf("delete element: %w", ErrNoOpenScope)
	}
	if _, ok := d.elements[id]; !ok {
		return &core.NotFoundError{Kind: "element", Name: id}
	}
	delete(d.elements, id)
	return nil
}

// ElementsByCategory returns every element of a category, in no particular
// order.
func (d *Document) ElementsByCategory(category string) []Element {
	var out []Element
	for _, el := range d.elements {
		if el.Category == category {
			el.Params = copyParams(el.Params)
			out = append(out, el)
		}
	}
	return out
}

// ElementCount returns the number of elements in the document.
func (d *Document) ElementCount() int {
	return len(d.elements)
}

func copyElements(src map[string]Element) map[string]Element {
	dst := make(map[string]Element, len(src))
	for id, el := range src {
		el.Params = copyParams(el.Params)
		dst[id] = el
	}
	return dst
}

// copyParams deep-copies a parameter map, descending into nested maps and
// slices so snapshots never alias live values.
func copyParams(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = copyValue(v)
	}
	return dst
}

func copyValue(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		return copyParams(tv)
	case []any:
		out := make([]any, len(tv))
		for i, item := range tv {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}
