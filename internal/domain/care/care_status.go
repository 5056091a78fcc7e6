package care

import "fmt"

// Status is the position of one side of a care in its lifecycle. The client and
// the caretaker each carry their own Status.
type Status string

const (
	StatusPending         Status = "pending"
	StatusAccepted        Status = "accepted"
	StatusAwaitingPayment Status = "awaiting_payment"
	StatusPaid            Status = "paid"
	StatusCancelled       Status = "cancelled"
	StatusOutdated        Status = "outdated"
)

var allStatuses = []Status{
	StatusPending,
	StatusAccepted,
	StatusAwaitingPayment,
	StatusPaid,
	StatusCancelled,
	StatusOutdated,
}

// TerminalStatuses can never be left once reached.
var TerminalStatuses = []Status{StatusPaid, StatusCancelled, StatusOutdated}

// AllStatuses returns every known status.
func AllStatuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// IsValid returns true if the status is a recognized care status.
func (s Status) IsValid() bool {
	for _, known := range allStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal returns true for paid, cancelled and outdated.
func (s Status) IsTerminal() bool {
	for _, t := range TerminalStatuses {
		if s == t {
			return true
		}
	}
	return false
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// ParseStatus converts a string to a Status, returning an error if invalid.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid care status: %s", s)
	}
	return status, nil
}

// Actor identifies who requests a transition.
type Actor string

const (
	ActorClient    Actor = "client"
	ActorCaretaker Actor = "caretaker"
	// ActorSystem drives scheduled transitions that no participant triggered.
	ActorSystem Actor = "system"
)

// IsValid returns true if the actor is known.
func (a Actor) IsValid() bool {
	switch a {
	case ActorClient, ActorCaretaker, ActorSystem:
		return true
	}
	return false
}

// String returns the string representation of the actor.
func (a Actor) String() string {
	return string(a)
}
