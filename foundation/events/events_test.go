package events_test

import (
	"testing"

	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/stretchr/testify/require"
)

func TestEvents(t *testing.T) {
	evts := events.New()

	a := evts.Acquire("a")
	b := evts.Acquire("b")
	require.Equal(t, a, evts.Acquire("a"))
	require.Equal(t, 2, evts.Len())

	require.Equal(t, 2, evts.Send("viewer: block"))
	require.Equal(t, "viewer: block", <-a)
	require.Equal(t, "viewer: block", <-b)

	require.NoError(t, evts.Release("a"))
	require.Error(t, evts.Release("a"))

	_, open := <-a
	require.False(t, open)

	evts.Shutdown()
	require.Equal(t, 0, evts.Len())

	_, open = <-b
	require.False(t, open)
}

func TestSendDoesNotBlock(t *testing.T) {
	evts := events.New()
	evts.Acquire("slow")

	for i := 0; i < 150; i++ {
		evts.Send("x")
	}

	require.Equal(t, 0, evts.Send("dropped"))
}
