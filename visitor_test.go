package syncpool

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisitorBarrier_RegisterReleaseRoundTrip(t *testing.T) {
	b := newVisitorBarrier()
	assert.Equal(t, int64(1), b.visitors.Load())

	g, ok := b.register(false)
	require.True(t, ok)
	assert.Equal(t, int64(2), b.visitors.Load())

	g.release()
	assert.Equal(t, int64(1), b.visitors.Load())
}

func TestVisitorBarrier_FailFastWhenBarrierRaised(t *testing.T) {
	b := newVisitorBarrier()
	b.barrier.Store(true)

	g, ok := b.register(true)
	assert.False(t, ok)
	assert.Equal(t, int64(1), b.visitors.Load())

	// zero-value guard must be safe to release.
	g.release()
	assert.Equal(t, int64(1), b.visitors.Load())
}

func TestVisitorBarrier_NonFailFastWaitsForBarrierToClear(t *testing.T) {
	b := newVisitorBarrier()
	b.barrier.Store(true)

	done := make(chan struct{})
	go func() {
		defer close(done)
		g, ok := b.register(false)
		assert.True(t, ok)
		g.release()
	}()

	select {
	case <-done:
		t.Fatal("register(false) returned before the barrier cleared")
	case <-time.After(20 * time.Millisecond):
	}

	b.barrier.Store(false)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("register(false) never returned after the barrier cleared")
	}
}

func TestVisitorBarrier_ConcurrentRegistersBalance(t *testing.T) {
	b := newVisitorBarrier()

	const workers = 32
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			g, ok := b.register(false)
			require.True(t, ok)
			time.Sleep(time.Millisecond)
			g.release()
		}()
	}

	wg.Wait()
	assert.Equal(t, int64(1), b.visitors.Load())
}
