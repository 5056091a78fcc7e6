package care

import (
	"time"

	"github.com/google/uuid"
)

// StateMachine is the single entry point for every status change of a care.
// It performs no I/O; callers load and persist the cares it returns.
type StateMachine struct {
	table  *TransitionTable
	engine *Engine
}

// NewStateMachine wires the default transition table.
func NewStateMachine() *StateMachine {
	return NewStateMachineWithTable(DefaultTransitionTable())
}

// NewStateMachineWithTable wires a custom table.
func NewStateMachineWithTable(table *TransitionTable) *StateMachine {
	return &StateMachine{table: table, engine: NewEngine(table)}
}

// Table exposes the read-only transition table.
func (m *StateMachine) Table() *TransitionTable {
	return m.table
}

// Transition moves the actor's side of the care to the requested status.
func (m *StateMachine) Transition(actor Actor, c *Care, requested Status) (*Care, error) {
	return m.engine.Apply(c, actor, requested)
}

// OutdateExpired forces every care that has started on or before today into
// outdated and returns the cares it changed. Cares whose caretaker status has
// no system transition are left alone.
func (m *StateMachine) OutdateExpired(cares []*Care, today time.Time) []*Care {
	var outdated []*Care
	for _, c := range cares {
		if !c.HasStarted(today) {
			continue
		}
		if _, err := m.engine.Apply(c, ActorSystem, StatusOutdated); err != nil {
			continue
		}
		outdated = append(outdated, c)
	}
	return outdated
}

// CancelIfPermitted cancels each care on behalf of actingUser, using the role
// the user holds on that care. Cares the user does not take part in, or whose
// status has no cancel transition, are skipped. It returns the cancelled cares.
func (m *StateMachine) CancelIfPermitted(cares []*Care, actingUser uuid.UUID) []*Care {
	var cancelled []*Care
	for _, c := range cares {
		actor, ok := c.ActorFor(actingUser)
		if !ok {
			continue
		}
		if _, err := m.engine.Apply(c, actor, StatusCancelled); err != nil {
			continue
		}
		cancelled = append(cancelled, c)
	}
	return cancelled
}

// EnsureEditable fails with an IllegalTransitionError unless both sides are
// still pending or accepted, i.e. the terms are not locked yet.
func (m *StateMachine) EnsureEditable(actor Actor, c *Care) error {
	if editable(c.clientStatus) && editable(c.caretakerStatus) {
		return nil
	}
	current := c.StatusFor(actor)
	return &IllegalTransitionError{Actor: actor, From: current, To: current}
}

func editable(s Status) bool {
	return s == StatusPending || s == StatusAccepted
}
