package tasks

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitRunsEachUnitOnce(t *testing.T) {
	pool := NewPool(5)
	defer pool.Shutdown()

	const n = 20
	counters := make([]atomic.Int32, n)
	futures := make([]*Future[int], n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			futures[i] = Submit(pool, func() (int, error) {
				counters[i].Add(1)
				return i * 2, nil
			})
		}()
	}
	wg.Wait()

	for i, f := range futures {
		val, err := f.Wait()
		require.NoError(t, err)
		assert.Equal(t, i*2, val)
		assert.EqualValues(t, 1, counters[i].Load(), "unit %d ran more than once", i)
	}
}

func TestAllDone(t *testing.T) {
	pool := NewPool(2)
	defer pool.Shutdown()

	release := make(chan struct{})
	slow := Submit(pool, func() (struct{}, error) {
		<-release
		return struct{}{}, nil
	})
	fast := Submit(pool, func() (struct{}, error) {
		return struct{}{}, nil
	})

	fast.Wait()
	assert.True(t, fast.Done())
	assert.False(t, slow.Done())
	assert.False(t, AllDone(fast, slow))

	close(release)
	slow.Wait()
	assert.True(t, AllDone(fast, slow))
}

func TestDoneDoesNotBlock(t *testing.T) {
	pool := NewPool(1)
	defer pool.Shutdown()

	release := make(chan struct{})
	defer close(release)
	f := Submit(pool, func() (int, error) {
		<-release
		return 0, nil
	})

	done := make(chan bool, 1)
	go func() { done <- f.Done() }()
	select {
	case v := <-done:
		assert.False(t, v)
	case <-time.After(time.Second):
		t.Fatal("Done blocked")
	}
}

func TestShutdownCancelsQueuedUnits(t *testing.T) {
	pool := NewPool(1)

	block := make(chan struct{})
	running := make(chan struct{})
	inflight := Submit(pool, func() (int, error) {
		close(running)
		<-block
		return 42, nil
	})
	<-running

	queued := Submit(pool, func() (int, error) {
		return 1, nil
	})

	pool.Shutdown()
	_, err := queued.Wait()
	assert.ErrorIs(t, err, ErrPoolClosed)

	// The in-flight unit still finishes on its own.
	close(block)
	val, err := inflight.Wait()
	require.NoError(t, err)
	assert.Equal(t, 42, val)
}

func TestSubmitAfterShutdown(t *testing.T) {
	pool := NewPool(1)
	pool.Shutdown()

	f := Submit(pool, func() (int, error) { return 1, nil })
	_, err := f.Wait()
	assert.ErrorIs(t, err, ErrPoolClosed)
}
