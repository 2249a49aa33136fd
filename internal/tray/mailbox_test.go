package tray

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailboxTakeOnce(t *testing.T) {
	mb := newMailbox()

	token := mb.put("payload")
	require.NotZero(t, token)

	v, ok := mb.take(token)
	require.True(t, ok)
	assert.Equal(t, "payload", v)

	_, ok = mb.take(token)
	assert.False(t, ok)

	_, ok = mb.take(0)
	assert.False(t, ok)
}

func TestMailboxDrain(t *testing.T) {
	mb := newMailbox()
	mb.put(1)
	mb.put(2)
	taken := mb.put(3)
	mb.take(taken)

	var sum int
	n := mb.drain(func(v any) { sum += v.(int) })

	assert.Equal(t, 2, n)
	assert.Equal(t, 3, sum)
	assert.Equal(t, 0, mb.pending())
}

func TestMailboxConcurrentTakeAndDrain(t *testing.T) {
	mb := newMailbox()

	const n = 500
	tokens := make([]uintptr, n)
	for i := range tokens {
		tokens[i] = mb.put(i)
	}

	var claimed atomic.Int64
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for _, tok := range tokens {
			if _, ok := mb.take(tok); ok {
				claimed.Add(1)
			}
		}
	}()
	go func() {
		defer wg.Done()
		claimed.Add(int64(mb.drain(func(any) {})))
	}()
	wg.Wait()

	assert.Equal(t, int64(n), claimed.Load())
	assert.Equal(t, 0, mb.pending())
}
