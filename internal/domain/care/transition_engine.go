package care

import (
	"errors"
	"fmt"
)

// ErrIllegalTransition is matched by every IllegalTransitionError.
var ErrIllegalTransition = errors.New("illegal care transition")

// IllegalTransitionError reports a transition that is not registered or whose
// prerequisite does not hold. Both cases produce the same error.
type IllegalTransitionError struct {
	Actor Actor
	From  Status
	To    Status
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("%s may not move a care from %s to %s", e.Actor, e.From, e.To)
}

// Is lets errors.Is match ErrIllegalTransition.
func (e *IllegalTransitionError) Is(target error) bool {
	return target == ErrIllegalTransition
}

// IsIllegalTransition reports whether err is an IllegalTransitionError.
func IsIllegalTransition(err error) bool {
	return errors.Is(err, ErrIllegalTransition)
}

// Engine applies a single transition request to a single care. It holds no
// state besides the read-only table.
type Engine struct {
	table *TransitionTable
}

// NewEngine creates an Engine over the given table.
func NewEngine(table *TransitionTable) *Engine {
	return &Engine{table: table}
}

// Apply moves the actor's side of the care to the requested status. On error
// the care is left untouched.
func (e *Engine) Apply(c *Care, actor Actor, requested Status) (*Care, error) {
	current := c.StatusFor(actor)

	action, ok := e.table.Lookup(actor, current, requested)
	if !ok || !action.Prerequisite(c) {
		return nil, &IllegalTransitionError{Actor: actor, From: current, To: requested}
	}

	action.Effect.apply(c)
	return c, nil
}
