package dispatch

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventQueue_EnqueueDequeue(t *testing.T) {
	q := newEventQueue()

	ok := q.Enqueue(Event{Type: EventTypeCall, Method: "add", Seq: 1})
	require.True(t, ok, "enqueue should succeed")

	got, ok := q.TryDequeue()
	require.True(t, ok, "dequeue should succeed")
	assert.Equal(t, EventTypeCall, got.Type)
	assert.Equal(t, "add", got.Method)
}

func TestEventQueue_FIFO(t *testing.T) {
	q := newEventQueue()

	for i := 1; i <= 3; i++ {
		q.Enqueue(Event{Type: EventTypeCall, Seq: int64(i)})
	}

	for i := 1; i <= 3; i++ {
		e, ok := q.TryDequeue()
		require.True(t, ok)
		assert.Equal(t, int64(i), e.Seq)
	}
}

func TestEventQueue_TryDequeue_Empty(t *testing.T) {
	q := newEventQueue()

	_, ok := q.TryDequeue()
	assert.False(t, ok, "dequeue from empty queue should return false")
}

func TestEventQueue_Len(t *testing.T) {
	q := newEventQueue()
	assert.Equal(t, 0, q.Len())

	q.Enqueue(Event{Type: EventTypeCall, Seq: 1})
	q.Enqueue(Event{Type: EventTypeCall, Seq: 2})
	assert.Equal(t, 2, q.Len())

	q.TryDequeue()
	assert.Equal(t, 1, q.Len())
}

func TestEventQueue_Wait_SignalsOnEnqueue(t *testing.T) {
	q := newEventQueue()

	done := make(chan Event)
	go func() {
		for {
			if e, ok := q.TryDequeue(); ok {
				done <- e
				return
			}
			<-q.Wait()
		}
	}()

	// Give the goroutine time to block on Wait
	time.Sleep(10 * time.Millisecond)
	q.Enqueue(Event{Type: EventTypeCall, Method: "ping"})

	select {
	case e := <-done:
		assert.Equal(t, "ping", e.Method)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("waiter did not unblock")
	}
}

func TestEventQueue_Close_RejectsEnqueue(t *testing.T) {
	q := newEventQueue()
	q.Close()

	ok := q.Enqueue(Event{Type: EventTypeCall})
	assert.False(t, ok, "enqueue after close should fail")
}

func TestEventQueue_Close_Idempotent(t *testing.T) {
	q := newEventQueue()

	q.Close()
	assert.NotPanics(t, func() { q.Close() })
}

func TestEventQueue_Close_UnblocksWaiters(t *testing.T) {
	q := newEventQueue()

	unblocked := make(chan struct{})
	go func() {
		<-q.Wait()
		close(unblocked)
	}()

	time.Sleep(10 * time.Millisecond)
	q.Close()

	select {
	case <-unblocked:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Close did not wake waiter")
	}
}

func TestEventQueue_ConcurrentEnqueue(t *testing.T) {
	q := newEventQueue()

	const producers = 8
	const perProducer = 50

	var wg sync.WaitGroup
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Enqueue(Event{Type: EventTypeCall})
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, producers*perProducer, q.Len())
}
