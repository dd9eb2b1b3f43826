package txn

import (
	"fmt"
	"time"

	"github.com/modeltx/modeltx/pkg/modeltx/core"
	"github.com/modeltx/modeltx/pkg/modeltx/resource"
)

// AlreadyActiveError is returned by Start while another group is active.
// It carries the active group's name so the caller can decide to wait or
// abort; there is no implicit queuing and groups never nest.
type AlreadyActiveError struct {
	Active string
}

func (e *AlreadyActiveError) Error() string {
	return fmt.Sprintf("a transaction group is already active: %q", e.Active)
}

// group is the session's record of one transaction group.
type group struct {
	name        string
	state       GroupState
	token       resource.ScopeToken
	checkpoints []Checkpoint
}

// Session owns at most one active transaction group on a model document.
// It replaces a process-global "current group" slot: whoever starts the
// group owns the session and must consume it with Commit or Rollback.
//
// Groups are one-shot. A committed or rolled-back group cannot be restarted;
// a fresh Start is required, which resets the checkpoint log.
type Session struct {
	handle resource.Handle
	policy resource.Policy
	logger core.Logger
	active *group
	now    func() time.Time
}

// NewSession creates a session over the given handle. The policy is
// attached to the scope of every group the session starts; nil selects
// the default policy.
func NewSession(handle resource.Handle, policy resource.Policy, logger core.Logger) *Session {
	if policy == nil {
		policy = resource.NewDefaultPolicy()
	}
	if logger == nil {
		logger = core.NopLogger()
	}
	return &Session{
		handle: handle,
		policy: policy,
		logger: logger,
		now:    time.Now,
	}
}

// Start opens a new transaction group. Allowed only while no group is
// active; otherwise it fails with *AlreadyActiveError and leaves the active
// group untouched.
func (s *Session) Start(name string) error {
	if s.active != nil {
		return &AlreadyActiveError{Active: s.active.name}
	}
	token, err := s.handle.BeginScope(name)
	if err != nil {
		return fmt.Errorf("start transaction group %q: %w", name, err)
	}
	if err := s.handle.AttachPolicy(token, s.policy); err != nil {
		return fmt.Errorf("start transaction group %q: %w", name, err)
	}
	s.active = &group{
		name:  name,
		state: StateActive,
		token: token,
		checkpoints: []Checkpoint{
			{Label: "started: " + name, At: s.now()},
		},
	}
	s.logger.Info().
		Str("group", name).
		Msg("transaction group started")
	return nil
}

// AddCheckpoint appends a labeled checkpoint to the active group.
func (s *Session) AddCheckpoint(label string) error {
	if s.active == nil {
		return &core.StateError{Requested: "add checkpoint", Current: string(StateInactive)}
	}
	s.active.checkpoints = append(s.active.checkpoints, Checkpoint{
		Label: label,
		At:    s.now(),
	})
	s.logger.Debug().
		Str("group", s.active.name).
		Str("label", label).
		Int("checkpoints", len(s.active.checkpoints)).
		Msg("checkpoint recorded")
	return nil
}

// Commit merges everything recorded since Start into one undoable unit on
// the model document and returns the accumulated checkpoint log. The group
// becomes terminal; a fresh Start is required afterward.
//
// When the document refuses the commit (fatal failure notes), the group
// stays active so the caller can roll it back.
func (s *Session) Commit() ([]Checkpoint, error) {
	if s.active == nil {
		return nil, &core.StateError{Requested: "commit", Current: string(StateInactive)}
	}
	if err := s.handle.Commit(s.active.token); err != nil {
		s.logger.Warn().
			Str("group", s.active.name).
			Err(err).
			Msg("transaction group commit refused")
		return nil, err
	}
	checkpoints := s.active.checkpoints
	s.logger.Info().
		Str("group", s.active.name).
		Int("checkpoints", len(checkpoints)).
		Msg("transaction group committed")
	s.active.state = StateCommitted
	s.active = nil
	return checkpoints, nil
}

// Rollback reverts every change made on the model document since Start and
// returns the accumulated checkpoint log. The group becomes terminal.
func (s *Session) Rollback() ([]Checkpoint, error) {
	if s.active == nil {
		return nil, &core.StateError{Requested: "rollback", Current: string(StateInactive)}
	}
	if err := s.handle.Rollback(s.active.token); err != nil {
		return nil, fmt.Errorf("rollback transaction group %q: %w", s.active.name, err)
	}
	checkpoints := s.active.checkpoints
	s.logger.Info().
		Str("group", s.active.name).
		Int("checkpoints", len(checkpoints)).
		Msg("transaction group rolled back")
	s.active.state = StateRolledBack
	s.active = nil
	return checkpoints, nil
}

// Status reports the session's group state. Callable in any state.
func (s *Session) Status() Status {
	if s.active == nil {
		return Status{State: StateInactive}
	}
	checkpoints := make([]Checkpoint, len(s.active.checkpoints))
	copy(checkpoints, s.active.checkpoints)
	return Status{
		HasActive:       true,
		Name:            s.active.name,
		State:           s.active.state,
		CheckpointCount: len(checkpoints),
		Checkpoints:     checkpoints,
	}
}
