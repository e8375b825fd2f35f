package notify

import (
	"sync"

	"go.uber.org/zap"
)

type Task func() error

// WorkerPool runs notification tasks off the request path. Its queue is
// bounded so a slow channel can never stall settlement.
type WorkerPool struct {
	pool chan Task
	wg   sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewWorkerPool(workers, queue int) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}
	if queue < workers {
		queue = workers
	}
	wp := &WorkerPool{pool: make(chan Task, queue)}

	wp.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go wp.worker()
	}
	return wp
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()
	for task := range wp.pool {
		if err := task(); err != nil {
			zap.L().Error("Notification task failed", zap.Error(err))
		}
	}
}

// TryAddTask queues the task only when there is room for it.
func (wp *WorkerPool) TryAddTask(task Task) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	if wp.closed {
		return false
	}

	select {
	case wp.pool <- task:
		return true
	default:
		return false
	}
}

// Close stops accepting tasks and waits for the queued ones to finish.
func (wp *WorkerPool) Close() {
	wp.mu.Lock()
	if wp.closed {
		wp.mu.Unlock()
		return
	}
	wp.closed = true
	close(wp.pool)
	wp.mu.Unlock()

	wp.wg.Wait()
}
