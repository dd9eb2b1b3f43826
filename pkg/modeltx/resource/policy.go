package resource

// Severity is the level the host reported a failure note at.
type Severity string

const (
	// SeverityWarning marks a recoverable condition the mutation survived
	SeverityWarning Severity = "warning"
	// SeverityError marks a condition that fails the scope unless a
	// resolution is applied
	SeverityError Severity = "error"
)

// FailureNote is a pending warning or error the model document raised while
// a mutation ran inside a scope. Notes accumulate on the scope and are
// classified when the scope commits.
type FailureNote struct {
	Severity Severity
	Code     string
	Message  string
}

// Decision is the outcome of classifying one failure note.
type Decision int

const (
	// DecisionSuppress discards the note; the mutation stands
	DecisionSuppress Decision = iota
	// DecisionResolve applies a known automatic resolution for the note
	DecisionResolve
	// DecisionFail treats the note as fatal to the scope
	DecisionFail
)

// Policy classifies failure notes raised during a transaction scope.
// It is attached to every scope the engine opens; no individual operation
// handler owns it.
type Policy interface {
	Classify(note FailureNote) Decision
}

// DefaultPolicy suppresses warnings and fails errors unless an automatic
// resolution is registered for the note's code.
type DefaultPolicy struct {
	resolvable map[string]bool
}

// NewDefaultPolicy builds a policy that can auto-resolve the given codes.
func NewDefaultPolicy(resolvableCodes ...string) *DefaultPolicy {
	resolvable := make(map[string]bool, len(resolvableCodes))
	for _, code := range resolvableCodes {
		resolvable[code] = true
	}
	return &DefaultPolicy{resolvable: resolvable}
}

// Classify implements Policy.
func (p *DefaultPolicy) Classify(note FailureNote) Decision {
	if note.Severity == SeverityWarning {
		return DecisionSuppress
	}
	if p.resolvable[note.Code] {
		return DecisionResolve
	}
	return DecisionFail
}
