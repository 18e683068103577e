package eventbus

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversInOrder(t *testing.T) {
	bus := New[int](nil)

	var first, second []int
	bus.Subscribe("first", func(event int) error {
		first = append(first, event)
		return nil
	})
	bus.Subscribe("second", func(event int) error {
		second = append(second, event)
		return nil
	})

	for event := 1; event <= 3; event++ {
		bus.Publish(event)
	}

	assert.Equal(t, []int{1, 2, 3}, first)
	assert.Equal(t, []int{1, 2, 3}, second)
}

func TestFailingSubscriberDoesNotBlockOthers(t *testing.T) {
	bus := New[string](nil)

	var received []string
	bus.Subscribe("panics", func(string) error { panic("boom") })
	bus.Subscribe("errors", func(string) error { return errors.New("nope") })
	bus.Subscribe("ok", func(event string) error {
		received = append(received, event)
		return nil
	})

	require.NotPanics(t, func() { bus.Publish("work-start") })
	assert.Equal(t, []string{"work-start"}, received)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := New[int](nil)

	count := 0
	unsubscribe := bus.Subscribe("counter", func(int) error {
		count++
		return nil
	})
	bus.Publish(1)
	unsubscribe()
	bus.Publish(2)

	assert.Equal(t, 1, count)
	assert.Equal(t, 0, bus.Len())
}

func TestChannelSubscriberDropsWhenFull(t *testing.T) {
	bus := New[int](nil)
	events, unsubscribe := bus.SubscribeChannel("observer", 2)

	bus.Publish(1)
	bus.Publish(2)
	bus.Publish(3)

	assert.Equal(t, 1, <-events)
	assert.Equal(t, 2, <-events)

	unsubscribe()
	_, open := <-events
	assert.False(t, open)

	require.NotPanics(t, func() { bus.Publish(4) })
}

func TestCloseClosesObserversAndIgnoresPublish(t *testing.T) {
	bus := New[int](nil)
	events, _ := bus.SubscribeChannel("observer", 1)
	called := false
	bus.Subscribe("handler", func(int) error {
		called = true
		return nil
	})

	bus.Close()
	bus.Publish(1)

	_, open := <-events
	assert.False(t, open)
	assert.False(t, called)

	late, _ := bus.SubscribeChannel("late", 1)
	_, open = <-late
	assert.False(t, open)
}
