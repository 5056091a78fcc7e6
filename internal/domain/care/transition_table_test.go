package care

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTransitionTable_Entries(t *testing.T) {
	table := DefaultTransitionTable()

	expected := []Transition{
		{ActorClient, StatusPending, StatusAccepted},
		{ActorClient, StatusPending, StatusCancelled},
		{ActorClient, StatusAccepted, StatusCancelled},
		{ActorCaretaker, StatusPending, StatusAccepted},
		{ActorCaretaker, StatusPending, StatusCancelled},
		{ActorCaretaker, StatusAccepted, StatusCancelled},
		{ActorCaretaker, StatusAwaitingPayment, StatusPaid},
		{ActorSystem, StatusPending, StatusOutdated},
		{ActorSystem, StatusAccepted, StatusOutdated},
		{ActorSystem, StatusAwaitingPayment, StatusOutdated},
	}

	assert.ElementsMatch(t, expected, table.Transitions())
	for _, key := range expected {
		_, ok := table.Lookup(key.Actor, key.From, key.To)
		assert.True(t, ok, "missing %v", key)
	}
}

func TestDefaultTransitionTable_TerminalStatusesHaveNoExit(t *testing.T) {
	table := DefaultTransitionTable()

	for _, key := range table.Transitions() {
		assert.False(t, key.From.IsTerminal(), "transition out of terminal status: %v", key)
	}

	actors := []Actor{ActorClient, ActorCaretaker, ActorSystem}
	for _, actor := range actors {
		for _, from := range TerminalStatuses {
			for _, to := range AllStatuses() {
				_, ok := table.Lookup(actor, from, to)
				assert.False(t, ok, "%s %s -> %s", actor, from, to)
			}
		}
	}
}

func TestDefaultTransitionTable_OnlyCaretakerAcceptHasPrerequisite(t *testing.T) {
	table := DefaultTransitionTable()
	closedClient := careWith(StatusCancelled, StatusPending, testNow)

	for _, key := range table.Transitions() {
		action, _ := table.Lookup(key.Actor, key.From, key.To)
		if key == (Transition{ActorCaretaker, StatusPending, StatusAccepted}) {
			assert.False(t, action.Prerequisite(closedClient))
			continue
		}
		assert.True(t, action.Prerequisite(closedClient), "%v", key)
	}
}

func TestRegister_LastWriteWins(t *testing.T) {
	table := NewTransitionTable()
	table.Register(ActorClient, StatusPending, StatusCancelled, SetBoth(StatusCancelled), nil)
	table.Register(ActorClient, StatusPending, StatusCancelled, SetBoth(StatusOutdated), func(*Care) bool { return false })

	action, ok := table.Lookup(ActorClient, StatusPending, StatusCancelled)
	require.True(t, ok)
	assert.Len(t, table.Transitions(), 1)
	assert.False(t, action.Prerequisite(careWith(StatusPending, StatusPending, testNow)))

	c := careWith(StatusPending, StatusPending, testNow)
	action.Effect.apply(c)
	assert.Equal(t, StatusOutdated, c.ClientStatus())
}

func TestRegister_NilPrerequisiteMeansAlways(t *testing.T) {
	table := NewTransitionTable()
	table.Register(ActorSystem, StatusPending, StatusOutdated, SetBoth(StatusOutdated), nil)

	action, ok := table.Lookup(ActorSystem, StatusPending, StatusOutdated)
	require.True(t, ok)
	require.NotNil(t, action.Prerequisite)
	assert.True(t, action.Prerequisite(careWith(StatusPaid, StatusPaid, testNow)))
}

func TestLookup_Missing(t *testing.T) {
	_, ok := DefaultTransitionTable().Lookup(ActorClient, StatusAwaitingPayment, StatusPaid)
	assert.False(t, ok)
}

func TestAcceptHandshake(t *testing.T) {
	tests := []struct {
		name              string
		side              Actor
		client, caretaker Status
		wantClient        Status
		wantCaretaker     Status
	}{
		{"client first", ActorClient, StatusPending, StatusPending, StatusAccepted, StatusPending},
		{"caretaker first", ActorCaretaker, StatusPending, StatusPending, StatusPending, StatusAccepted},
		{"client second", ActorClient, StatusPending, StatusAccepted, StatusAwaitingPayment, StatusAwaitingPayment},
		{"caretaker second", ActorCaretaker, StatusAccepted, StatusPending, StatusAwaitingPayment, StatusAwaitingPayment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := careWith(tt.client, tt.caretaker, testNow)
			AcceptHandshake(tt.side).apply(c)
			assert.Equal(t, tt.wantClient, c.ClientStatus())
			assert.Equal(t, tt.wantCaretaker, c.CaretakerStatus())
		})
	}
}

func TestEffect_ZeroValuePanics(t *testing.T) {
	assert.Panics(t, func() {
		Effect{}.apply(careWith(StatusPending, StatusPending, testNow))
	})
}
