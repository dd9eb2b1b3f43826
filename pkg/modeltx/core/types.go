package core

import "time"

// ErrorKind classifies why an operation failed
type ErrorKind string

const (
	// ErrKindNone means the operation did not fail
	ErrKindNone ErrorKind = ""
	// ErrKindValidation indicates malformed or missing parameters; never opens a scope
	ErrKindValidation ErrorKind = "validation"
	// ErrKindNotFound indicates an unresolved operation name or a missing referenced entity
	ErrKindNotFound ErrorKind = "not_found"
	// ErrKindState indicates an illegal transaction-group transition
	ErrKindState ErrorKind = "state"
	// ErrKindResource indicates the model document refused or failed a mutation
	ErrKindResource ErrorKind = "resource"
	// ErrKindException indicates an unexpected fault recovered at the executor boundary
	ErrKindException ErrorKind = "exception"
)

// Operation is a named unit of work against the model document.
// Operations are value objects, immutable once constructed.
type Operation struct {
	Name   string
	Params map[string]any
}

// OperationResult holds the outcome of a single operation invocation
type OperationResult struct {
	Success      bool
	Payload      map[string]any
	ErrorMessage string
	ErrorKind    ErrorKind
}

// Succeed builds a successful OperationResult carrying an optional payload.
func Succeed(payload map[string]any) OperationResult {
	return OperationResult{Success: true, Payload: payload}
}

// Fail builds a failed OperationResult with the given kind and message.
func Fail(kind ErrorKind, message string) OperationResult {
	return OperationResult{Success: false, ErrorKind: kind, ErrorMessage: message}
}

// BatchEntry pairs an operation with its result, preserving list position.
// A batch aborted by stop-on-error has no entries for operations that never ran.
type BatchEntry struct {
	Index  int
	Name   string
	Result OperationResult
}

// BatchOptions controls how a batch reacts to individual failures
type BatchOptions struct {
	Name        string // scope name; defaults to "batch"
	StopOnError bool   // roll back the whole scope on the first failure
}

// BatchResult holds the overall outcome of running a batch of operations
type BatchResult struct {
	Entries        []BatchEntry
	Succeeded      int
	Failed         int
	RolledBack     bool
	RollbackReason string
	Duration       time.Duration
}
