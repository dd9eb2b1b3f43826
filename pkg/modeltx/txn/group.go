// Package txn owns the transaction-group lifecycle: a group merges many
// primitive scopes into one undoable unit and carries an ordered checkpoint
// log for observability.
package txn

import "time"

// GroupState is the lifecycle state of a transaction group.
type GroupState string

const (
	// StateInactive means no group has been started
	StateInactive GroupState = "inactive"
	// StateActive means a group is open and accepting checkpoints
	StateActive GroupState = "active"
	// StateCommitted is terminal; the group's changes were merged
	StateCommitted GroupState = "committed"
	// StateRolledBack is terminal; the group's changes were reverted
	StateRolledBack GroupState = "rolled_back"
)

// Checkpoint is a labeled, timestamped marker recorded inside an active
// group. Checkpoints are observational only; they have no effect on the
// model document.
type Checkpoint struct {
	Label string    `json:"label"`
	At    time.Time `json:"at"`
}

// Status is a read-only projection of the session's group state, callable
// in any state.
type Status struct {
	HasActive       bool
	Name            string
	State           GroupState
	CheckpointCount int
	Checkpoints     []Checkpoint
}
