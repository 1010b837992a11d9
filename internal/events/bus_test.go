package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEvent struct {
	BaseEvent
	Message string `json:"message"`
}

func TestBus_PublishSubscribe(t *testing.T) {
	bus := NewBus(nil)
	defer bus.Close()

	// Subscribe before publishing
	ch := bus.Subscribe(EventJobCompleted, 10)

	e := &testEvent{BaseEvent: NewBaseEvent(EventJobCompleted, EntityBatch, 1), Message: "hello"}
	err := bus.Publish(context.Background(), e)
	require.NoError(t, err)

	select {
	case received := <-ch:
		assert.Equal(t, EventJobCompleted, received.EventType())
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestBus_SubscribeOnlyMatchingType(t *testing.T) {
	bus := NewBus(nil)
	defer bus.Close()

	ch := bus.Subscribe(EventConversionFinished, 10)
	require.NoError(t, bus.Publish(context.Background(), &testEvent{BaseEvent: NewBaseEvent(EventJobCompleted, EntityBatch, 1)}))

	select {
	case e := <-ch:
		t.Fatalf("unexpected event %s", e.EventType())
	default:
	}
}

func TestBus_SubscribeAll(t *testing.T) {
	bus := NewBus(nil)
	defer bus.Close()

	ch := bus.SubscribeAll(10)

	e1 := &testEvent{BaseEvent: NewBaseEvent(EventConversionStarted, EntityBatch, 1), Message: "first"}
	e2 := &testEvent{BaseEvent: NewBaseEvent(EventJobCompleted, EntityBatch, 1), Message: "second"}

	require.NoError(t, bus.Publish(context.Background(), e1))
	require.NoError(t, bus.Publish(context.Background(), e2))

	received := make([]Event, 0, 2)
	timeout := time.After(time.Second)
	for i := 0; i < 2; i++ {
		select {
		case e := <-ch:
			received = append(received, e)
		case <-timeout:
			t.Fatalf("timeout waiting for event %d", i+1)
		}
	}

	assert.Len(t, received, 2)
	assert.Equal(t, EventConversionStarted, received[0].EventType())
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus(nil)
	defer bus.Close()

	ch := bus.Subscribe("test.event", 10)
	bus.Unsubscribe(ch)

	// Publish should not block with no subscribers
	e := &testEvent{BaseEvent: NewBaseEvent("test.event", EntityBatch, 1), Message: "hello"}
	require.NoError(t, bus.Publish(context.Background(), e))

	_, ok := <-ch
	assert.False(t, ok, "channel should be closed")
}

func TestBus_FullSubscriberDropsEvent(t *testing.T) {
	bus := NewBus(nil)
	defer bus.Close()

	ch := bus.SubscribeAll(1)
	for i := 0; i < 3; i++ {
		e := &testEvent{BaseEvent: NewBaseEvent("test.event", EntityBatch, int64(i))}
		require.NoError(t, bus.Publish(context.Background(), e))
	}

	assert.Len(t, ch, 1)
}

func TestBus_CloseClosesSubscribers(t *testing.T) {
	bus := NewBus(nil)
	ch := bus.SubscribeAll(1)

	require.NoError(t, bus.Close())
	_, ok := <-ch
	assert.False(t, ok)

	// Publishing after close is a no-op
	require.NoError(t, bus.Publish(context.Background(), &testEvent{BaseEvent: NewBaseEvent("x", EntityBatch, 1)}))

	late := bus.SubscribeAll(1)
	_, ok = <-late
	assert.False(t, ok, "subscribing to a closed bus returns a closed channel")
}

func TestBus_ConcurrentPublish(t *testing.T) {
	bus := NewBus(nil)
	defer bus.Close()

	ch := bus.SubscribeAll(100)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			e := &testEvent{BaseEvent: NewBaseEvent("test.concurrent", EntityBatch, int64(n)), Message: "concurrent"}
			_ = bus.Publish(context.Background(), e)
		}(i)
	}

	wg.Wait()

	count := 0
	timeout := time.After(time.Second)
loop:
	for {
		select {
		case <-ch:
			count++
			if count == 10 {
				break loop
			}
		case <-timeout:
			break loop
		}
	}

	assert.Equal(t, 10, count)
}
