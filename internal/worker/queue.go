package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"Trades/internal/metrics"

	"go.uber.org/zap"
)

// ErrQueueClosed возвращается Flush после Close.
var ErrQueueClosed = errors.New("write-behind queue is closed")

// ErrQueueFull возвращается Flush, если барьер не поместился в буфер.
var ErrQueueFull = errors.New("write-behind queue is full")

type task struct {
	name string
	fn   func(ctx context.Context) error
}

// Queue — очередь отложенной записи (write-behind) с одним воркером.
// Задачи выполняются строго в порядке постановки, поэтому два снапшота
// одного ключа не могут сохраниться в обратном порядке.
type Queue struct {
	tasks       chan task
	done        chan struct{}
	logger      *zap.SugaredLogger
	taskTimeout time.Duration

	mu     sync.RWMutex
	closed bool
}

// NewQueue создаёт очередь с буфером size и сразу запускает воркер.
func NewQueue(logger *zap.SugaredLogger, size int) *Queue {
	if size <= 0 {
		size = 1
	}
	q := &Queue{
		tasks:       make(chan task, size),
		done:        make(chan struct{}),
		logger:      logger,
		taskTimeout: 10 * time.Second,
	}
	go q.run()
	return q
}

// Submit ставит задачу в очередь и никогда не блокируется.
// При переполненном буфере или закрытой очереди задача отбрасывается.
func (q *Queue) Submit(name string, fn func(ctx context.Context) error) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		q.logger.Warnw("write-behind task dropped: queue closed", "task", name)
		metrics.RecordPersist(name, "dropped")
		return false
	}
	select {
	case q.tasks <- task{name: name, fn: fn}:
		return true
	default:
		q.logger.Warnw("write-behind task dropped: queue full", "task", name, "capacity", cap(q.tasks))
		metrics.RecordPersist(name, "dropped")
		return false
	}
}

// Flush ждёт выполнения всех задач, поставленных до вызова.
func (q *Queue) Flush(ctx context.Context) error {
	reached := make(chan struct{})
	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return ErrQueueClosed
	}
	select {
	case q.tasks <- task{name: "flush", fn: func(context.Context) error { close(reached); return nil }}:
	default:
		q.mu.RUnlock()
		return ErrQueueFull
	}
	q.mu.RUnlock()

	select {
	case <-reached:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close перестаёт принимать задачи и дожидается выполнения оставшихся
// либо отмены ctx.
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.tasks)
	}
	q.mu.Unlock()

	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		q.logger.Warnw("write-behind queue not drained before deadline", "pending", len(q.tasks))
		return ctx.Err()
	}
}

func (q *Queue) run() {
	defer close(q.done)
	for t := range q.tasks {
		q.exec(t)
	}
}

func (q *Queue) exec(t task) {
	ctx, cancel := context.WithTimeout(context.Background(), q.taskTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			q.logger.Errorw("write-behind task panicked", "task", t.name, "panic", r)
			metrics.RecordPersist(t.name, "failed")
		}
	}()

	if err := t.fn(ctx); err != nil {
		// ошибки записи не всплывают к вызывающему и не повторяются
		q.logger.Warnw("write-behind task failed", "task", t.name, "error", err)
		metrics.RecordPersist(t.name, "failed")
		return
	}
	if t.name != "flush" {
		metrics.RecordPersist(t.name, "ok")
	}
}
