package writequeue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_SerializesPerUser(t *testing.T) {
	m := New(nil, nil)
	defer m.Shutdown(context.Background())

	var running, maxRunning atomic.Int32
	var order []int
	var mu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := m.Execute(context.Background(), 1, func() error {
				n := running.Add(1)
				for {
					cur := maxRunning.Load()
					if n <= cur || maxRunning.CompareAndSwap(cur, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				mu.Lock()
				order = append(order, i)
				mu.Unlock()
				running.Add(-1)
				return nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxRunning.Load())
	assert.Len(t, order, 20)
}

func TestExecute_ReturnsError(t *testing.T) {
	m := New(nil, nil)
	defer m.Shutdown(context.Background())

	boom := errors.New("boom")
	assert.ErrorIs(t, m.Execute(context.Background(), 7, func() error { return boom }), boom)
	assert.Error(t, m.Execute(context.Background(), 7, func() error { panic("bad") }))
	assert.NoError(t, m.Execute(context.Background(), 7, func() error { return nil }))
}

func TestExecute_QueueFull(t *testing.T) {
	m := New(&Config{QueueCapacity: 1, WriteTimeout: time.Second}, nil)
	defer m.Shutdown(context.Background())

	release := make(chan struct{})
	started := make(chan struct{})
	go m.Execute(context.Background(), 1, func() error {
		close(started)
		<-release
		return nil
	})
	<-started

	// one slot in the buffer, then full
	go m.Execute(context.Background(), 1, func() error { return nil })
	require.Eventually(t, func() bool { return m.QueuedCount(1) == 1 }, time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, m.Execute(context.Background(), 1, func() error { return nil }), ErrWriteQueueFull)

	// another user is unaffected
	assert.NoError(t, m.Execute(context.Background(), 2, func() error { return nil }))
	close(release)
}

func TestIdleWorkerExits(t *testing.T) {
	m := New(&Config{IdleTimeout: 20 * time.Millisecond}, nil)
	defer m.Shutdown(context.Background())

	require.NoError(t, m.Execute(context.Background(), 3, func() error { return nil }))
	assert.Eventually(t, func() bool { return m.QueueCount() == 0 }, time.Second, 10*time.Millisecond)

	// a new lane is created on demand
	require.NoError(t, m.Execute(context.Background(), 3, func() error { return nil }))
}

func TestShutdown(t *testing.T) {
	m := New(nil, nil)
	require.NoError(t, m.Execute(context.Background(), 1, func() error { return nil }))
	require.NoError(t, m.Shutdown(context.Background()))
	assert.ErrorIs(t, m.Execute(context.Background(), 1, func() error { return nil }), ErrWriteQueueClosed)
	assert.NoError(t, m.Shutdown(context.Background()))
}
