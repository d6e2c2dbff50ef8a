package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSideEffectLog_AppendOrder(t *testing.T) {
	log := NewSideEffectLog()

	log.Append("a")
	log.Append("b")
	log.Append("c")

	assert.Equal(t, []string{"a", "b", "c"}, log.Entries())
	assert.Equal(t, 3, log.Len())
}

func TestSideEffectLog_EntriesReturnsCopy(t *testing.T) {
	log := NewSideEffectLog()
	log.Append("a")

	entries := log.Entries()
	entries[0] = "mutated"

	assert.Equal(t, []string{"a"}, log.Entries())
}

func TestSideEffectLog_ConcurrentAppend(t *testing.T) {
	log := NewSideEffectLog()

	const goroutines = 8
	const perGoroutine = 50

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				log.Append("entry")
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, goroutines*perGoroutine, log.Len())
}
