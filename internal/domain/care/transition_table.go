package care

// Transition is the lookup key of the transition table: who asks to move their
// side of a care from one status to another.
type Transition struct {
	Actor Actor
	From  Status
	To    Status
}

// Prerequisite is an extra runtime condition a care must satisfy for a
// registered transition to apply.
type Prerequisite func(c *Care) bool

// Always is the default prerequisite.
func Always(*Care) bool { return true }

type effectKind int

const (
	effectSetBoth effectKind = iota + 1
	effectAcceptHandshake
)

// Effect is the mutation a transition applies to a care.
type Effect struct {
	kind   effectKind
	status Status
	side   Actor
}

// SetBoth moves the client and the caretaker side to the same status.
func SetBoth(s Status) Effect {
	return Effect{kind: effectSetBoth, status: s}
}

// AcceptHandshake marks the given side accepted. Whichever side accepts second
// moves both sides to awaiting payment.
func AcceptHandshake(side Actor) Effect {
	return Effect{kind: effectAcceptHandshake, side: side}
}

func (e Effect) apply(c *Care) {
	switch e.kind {
	case effectSetBoth:
		c.setStatuses(e.status, e.status)
	case effectAcceptHandshake:
		client, caretaker := c.clientStatus, c.caretakerStatus
		if e.side == ActorClient {
			client = StatusAccepted
		} else {
			caretaker = StatusAccepted
		}
		if client == StatusAccepted && caretaker == StatusAccepted {
			client, caretaker = StatusAwaitingPayment, StatusAwaitingPayment
		}
		c.setStatuses(client, caretaker)
	default:
		panic("care: transition registered without an effect")
	}
}

// Action is what the table stores for a Transition.
type Action struct {
	Prerequisite Prerequisite
	Effect       Effect
}

// TransitionTable is the registry of legal transitions. It is filled once at
// construction and only read afterwards, so concurrent lookups need no locking.
type TransitionTable struct {
	entries map[Transition]Action
}

// NewTransitionTable returns an empty table.
func NewTransitionTable() *TransitionTable {
	return &TransitionTable{entries: make(map[Transition]Action)}
}

// Register adds an entry. Registering the same key twice keeps the last one.
// A nil prerequisite means Always.
func (t *TransitionTable) Register(actor Actor, from, to Status, effect Effect, prerequisite Prerequisite) {
	if prerequisite == nil {
		prerequisite = Always
	}
	t.entries[Transition{Actor: actor, From: from, To: to}] = Action{
		Prerequisite: prerequisite,
		Effect:       effect,
	}
}

// Lookup returns the action registered for the key.
func (t *TransitionTable) Lookup(actor Actor, from, to Status) (Action, bool) {
	action, ok := t.entries[Transition{Actor: actor, From: from, To: to}]
	return action, ok
}

// Transitions lists every registered key.
func (t *TransitionTable) Transitions() []Transition {
	keys := make([]Transition, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	return keys
}

// clientSideOpen holds while the client has not cancelled or otherwise left
// the workflow.
func clientSideOpen(c *Care) bool {
	return c.clientStatus == StatusPending || c.clientStatus == StatusAccepted
}

// DefaultTransitionTable builds the care lifecycle table.
func DefaultTransitionTable() *TransitionTable {
	t := NewTransitionTable()

	t.Register(ActorClient, StatusPending, StatusAccepted, AcceptHandshake(ActorClient), nil)
	t.Register(ActorClient, StatusPending, StatusCancelled, SetBoth(StatusCancelled), nil)
	t.Register(ActorClient, StatusAccepted, StatusCancelled, SetBoth(StatusCancelled), nil)

	t.Register(ActorCaretaker, StatusPending, StatusAccepted, AcceptHandshake(ActorCaretaker), clientSideOpen)
	t.Register(ActorCaretaker, StatusPending, StatusCancelled, SetBoth(StatusCancelled), nil)
	t.Register(ActorCaretaker, StatusAccepted, StatusCancelled, SetBoth(StatusCancelled), nil)
	t.Register(ActorCaretaker, StatusAwaitingPayment, StatusPaid, SetBoth(StatusPaid), nil)

	t.Register(ActorSystem, StatusPending, StatusOutdated, SetBoth(StatusOutdated), nil)
	t.Register(ActorSystem, StatusAccepted, StatusOutdated, SetBoth(StatusOutdated), nil)
	t.Register(ActorSystem, StatusAwaitingPayment, StatusOutdated, SetBoth(StatusOutdated), nil)

	return t
}
