package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestQueue(t *testing.T, size int) *Queue {
	t.Helper()
	q := NewQueue(zap.NewNop().Sugar(), size)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = q.Close(ctx)
	})
	return q
}

// Тест: задачи выполняются в порядке постановки
func TestQueue_FIFO(t *testing.T) {
	q := newTestQueue(t, 16)

	var mu sync.Mutex
	var got []int
	for i := 0; i < 10; i++ {
		i := i
		require.True(t, q.Submit("seq", func(context.Context) error {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
			return nil
		}))
	}
	require.NoError(t, q.Flush(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got)
}

// Тест: ошибка и паника задачи не останавливают воркер
func TestQueue_FailuresAreSwallowed(t *testing.T) {
	q := newTestQueue(t, 4)

	ran := make(chan struct{})
	q.Submit("fail", func(context.Context) error { return errors.New("db down") })
	q.Submit("panic", func(context.Context) error { panic("boom") })
	q.Submit("ok", func(context.Context) error { close(ran); return nil })

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("worker stopped after failing task")
	}
}

// Тест: переполненный буфер — Submit не блокируется и отбрасывает задачу
func TestQueue_SubmitNeverBlocks(t *testing.T) {
	q := newTestQueue(t, 1)

	release := make(chan struct{})
	started := make(chan struct{})
	require.True(t, q.Submit("block", func(context.Context) error {
		close(started)
		<-release
		return nil
	}))
	<-started
	// буфер на 1: первая задача в буфере, вторая отброшена
	assert.True(t, q.Submit("fill", func(context.Context) error { return nil }))

	done := make(chan bool)
	go func() { done <- q.Submit("overflow", func(context.Context) error { return nil }) }()
	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("Submit blocked on a full queue")
	}
	close(release)
}

// Тест: Close дожидается оставшихся задач, после Close задачи не принимаются
func TestQueue_CloseDrains(t *testing.T) {
	q := NewQueue(zap.NewNop().Sugar(), 8)

	var mu sync.Mutex
	count := 0
	for i := 0; i < 5; i++ {
		q.Submit("n", func(context.Context) error {
			time.Sleep(5 * time.Millisecond)
			mu.Lock()
			count++
			mu.Unlock()
			return nil
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, q.Close(ctx))

	mu.Lock()
	assert.Equal(t, 5, count)
	mu.Unlock()

	assert.False(t, q.Submit("late", func(context.Context) error { return nil }))
	assert.ErrorIs(t, q.Flush(context.Background()), ErrQueueClosed)
	// повторный Close безопасен
	assert.NoError(t, q.Close(ctx))
}
