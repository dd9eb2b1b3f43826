// Package resource defines the handle the engine borrows to mutate the model
// document, plus an in-memory Document implementation with scope-level undo.
package resource

// ScopeToken identifies one open transaction scope on a Handle. Tokens are
// opaque; callers get one from BeginScope and must hand it back to exactly
// one of Commit or Rollback.
type ScopeToken string

// Element is a single object in the model document: a wall, a door, a view.
// Params carries the element's named parameters as the host exposes them.
type Element struct {
	ID       string         `json:"id"`
	Category string         `json:"category"`
	Params   map[string]any `json:"params,omitempty"`
}

// Handle is the engine's borrowed reference to the live model document.
// The host owns the document; the engine only drives scopes on it and
// performs element reads/writes through it.
//
// Scope primitives map to the host's coarse-grained transaction control.
// Scopes nest: a batch may open its own scope while a user-initiated
// transaction group is active, and commits into it.
type Handle interface {
	// BeginScope opens a new transaction scope. Mutations made while the
	// scope is open are undone by Rollback and kept by Commit.
	BeginScope(name string) (ScopeToken, error)
	// Commit closes the most recent scope. If the scope holds failure notes
	// the attached policy classifies as fatal, Commit returns an error and
	// the scope stays open so the caller can still roll it back.
	Commit(token ScopeToken) error
	// Rollback closes the most recent scope and reverts every mutation made
	// since the matching BeginScope.
	Rollback(token ScopeToken) error
	// AttachPolicy sets the failure classification policy for a scope.
	AttachPolicy(token ScopeToken, p Policy) error
	// RaiseNote records a pending warning or error against the innermost
	// open scope, to be classified at commit time.
	RaiseNote(note FailureNote) error

	// Element primitives used by operation handlers. Mutations require an
	// open scope; reads work in any state.
	CreateElement(el Element) (string, error)
	Element(id string) (Element, bool)
	UpdateElement(id string, params map[string]any) error
	DeleteElement(id string) error
	ElementsByCategory(category string) []Element
	ElementCount() int
}
