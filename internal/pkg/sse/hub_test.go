package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesOnlyMatchingKey(t *testing.T) {
	hub := NewHub()

	customer, closeCustomer := hub.Subscribe("customer:1")
	defer closeCustomer()
	driver, closeDriver := hub.Subscribe("driver:1")
	defer closeDriver()

	n := hub.Publish("customer:1", Event{Event: "notification", Data: "hello"})
	assert.Equal(t, 1, n)

	select {
	case ev := <-customer:
		assert.Equal(t, "customer:1", ev.Key)
		assert.Equal(t, "hello", ev.Data)
	default:
		t.Fatal("expected an event for customer:1")
	}

	select {
	case <-driver:
		t.Fatal("driver:1 should not receive customer events")
	default:
	}
}

func TestHub_CleanupRemovesSubscriber(t *testing.T) {
	hub := NewHub()

	ch, cleanup := hub.Subscribe("user:1")
	_, cleanup2 := hub.Subscribe("user:1")
	require.Equal(t, 2, hub.SubscriberCount("user:1"))

	cleanup()
	cleanup()
	assert.Equal(t, 1, hub.SubscriberCount("user:1"))

	_, open := <-ch
	assert.False(t, open)

	cleanup2()
	assert.Equal(t, 0, hub.TotalSubscribers())
}

func TestHub_FullBufferDoesNotBlock(t *testing.T) {
	hub := NewHub()
	_, cleanup := hub.Subscribe("user:1")
	defer cleanup()

	for i := 0; i < hub.buffer; i++ {
		assert.Equal(t, 1, hub.Publish("user:1", Event{Event: "tick"}))
	}
	assert.Equal(t, 0, hub.Publish("user:1", Event{Event: "dropped"}))
}
