package stream

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValueReplaysCurrentToNewSubscribers(t *testing.T) {
	t.Parallel()

	v := NewValue(10)
	defer v.Close()

	v.Publish(20)

	sub := v.Subscribe()
	require.Equal(t, 20, receive(t, sub))

	v.Publish(30)
	require.Equal(t, 30, receive(t, sub))
}

func TestValueGetTracksLatest(t *testing.T) {
	t.Parallel()

	v := NewValue("initial")
	defer v.Close()

	require.Equal(t, "initial", v.Get())
	v.Publish("updated")
	require.Equal(t, "updated", v.Get())
}

func TestValueSubscriberSeesInitialThenUpdates(t *testing.T) {
	t.Parallel()

	v := NewValue(0)
	defer v.Close()

	sub := v.Subscribe()
	for i := 1; i <= 3; i++ {
		v.Publish(i)
	}

	for want := 0; want <= 3; want++ {
		require.Equal(t, want, receive(t, sub))
	}
}

func TestValueIndependentSubscribers(t *testing.T) {
	t.Parallel()

	v := NewValue(1)
	defer v.Close()

	first := v.Subscribe()
	require.Equal(t, 1, receive(t, first))

	v.Publish(2)

	second := v.Subscribe()
	require.Equal(t, 2, receive(t, first))
	require.Equal(t, 2, receive(t, second))
}

func TestValueGetAfterClose(t *testing.T) {
	t.Parallel()

	v := NewValue(5)
	v.Publish(6)
	v.Close()

	require.Equal(t, 6, v.Get())

	sub := v.Subscribe()
	_, ok := <-sub.Events()
	require.False(t, ok)
}
