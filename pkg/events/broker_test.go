package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroker_FanOutToAllSubscribers(t *testing.T) {
	b := NewBroker[int]("test", 4)
	s1 := b.Subscribe()
	s2 := b.Subscribe()
	defer b.Unsubscribe(s1)
	defer b.Unsubscribe(s2)

	b.Publish(42)

	assert.Equal(t, 42, <-s1.Events)
	assert.Equal(t, 42, <-s2.Events)
}

func TestBroker_PublishOrderPreserved(t *testing.T) {
	b := NewBroker[int]("test", 8)
	sub := b.Subscribe()
	defer b.Unsubscribe(sub)

	for i := 0; i < 5; i++ {
		b.Publish(i)
	}
	for i := 0; i < 5; i++ {
		assert.Equal(t, i, <-sub.Events)
	}
}

func TestBroker_NoSubscribersIsNoop(t *testing.T) {
	b := NewBroker[int]("test", 4)
	assert.NotPanics(t, func() { b.Publish(1) })
}

func TestBroker_LateSubscriberMissesEarlierEvents(t *testing.T) {
	b := NewBroker[int]("test", 4)
	b.Publish(1) // no subscribers yet, dropped

	sub := b.Subscribe()
	defer b.Unsubscribe(sub)
	b.Publish(2)

	assert.Equal(t, 2, <-sub.Events)
}

func TestBroker_LaggedSubscriberDropsWithoutBlockingProducer(t *testing.T) {
	b := NewBroker[int]("test", 2)
	sub := b.Subscribe()
	defer b.Unsubscribe(sub)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			b.Publish(i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}

	select {
	case n := <-sub.Lagged:
		assert.Greater(t, n, 0)
	case <-time.After(time.Second):
		t.Fatal("expected a lag notification")
	}
}

func TestBroker_UnsubscribeStopsDelivery(t *testing.T) {
	b := NewBroker[int]("test", 4)
	sub := b.Subscribe()
	other := b.Subscribe()
	defer b.Unsubscribe(other)

	b.Unsubscribe(sub)
	require.Equal(t, 1, b.SubscriberCount())

	assert.NotPanics(t, func() { b.Publish(7) })
	assert.Equal(t, 7, <-other.Events)
}

func TestBroker_SubscriberCount(t *testing.T) {
	b := NewBroker[string]("test", 4)
	assert.Equal(t, 0, b.SubscriberCount())
	s1 := b.Subscribe()
	assert.Equal(t, 1, b.SubscriberCount())
	s2 := b.Subscribe()
	assert.Equal(t, 2, b.SubscriberCount())
	b.Unsubscribe(s1)
	assert.Equal(t, 1, b.SubscriberCount())
	b.Unsubscribe(s2)
}
