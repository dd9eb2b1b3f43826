package core

import "fmt"

// ValidationError represents malformed or missing operation parameters.
// It is resolved locally as a failed result and never touches a scope.
type ValidationError struct {
	Op     string
	Field  string
	Reason string
	Cause  error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for operation %s: field %q: %s", e.Op, e.Field, e.Reason)
	}
	if e.Cause != nil {
		return fmt.Sprintf("validation error for operation %s: %s: %v", e.Op, e.Reason, e.Cause)
	}
	return fmt.Sprintf("validation error for operation %s: %s", e.Op, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// NotFoundError represents an unresolved operation name or a missing entity.
type NotFoundError struct {
	Kind string // "operation", "element", ...
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// StateError represents an illegal transaction-group transition, such as
// a commit with no active group. The requested transition is aborted with
// no side effects on the model document.
type StateError struct {
	Requested string
	Current   string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s: transaction group is %s", e.Requested, e.Current)
}

// ResourceError represents a mutation the model document refused or failed
// after failure classification ran.
type ResourceError struct {
	Scope string
	Cause error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("resource error in scope %q: %v", e.Scope, e.Cause)
}

func (e *ResourceError) Unwrap() error {
	return e.Cause
}
