package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Common errors returned by the Runner
var (
	ErrQueueClosed = errors.New("task queue is closed")
	ErrQueueFull   = errors.New("task queue is full")
)

// RunnerConfig holds configuration for the task runner
type RunnerConfig struct {
	// WorkerCount determines how many concurrent workers process tasks
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue
	QueueSize int
}

// DefaultRunnerConfig returns a RunnerConfig with reasonable defaults
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		WorkerCount: 2,
		QueueSize:   100,
	}
}

// Runner manages background task processing over a bounded in-memory queue.
// Submission never blocks: a full queue is reported to the caller instead.
type Runner struct {
	taskChan   chan Task
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	config     RunnerConfig
	logger     *slog.Logger

	mu     sync.Mutex
	closed bool

	// errHandler is called when a task execution fails
	errHandler func(task Task, err error)

	// doneHandler is called after a task finishes, successfully or not
	doneHandler func(task Task)
}

// NewRunner creates a new Runner. Invalid config values fall back to defaults.
func NewRunner(config RunnerConfig, logger *slog.Logger) *Runner {
	if config.WorkerCount <= 0 {
		config.WorkerCount = DefaultRunnerConfig().WorkerCount
	}
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultRunnerConfig().QueueSize
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Runner{
		taskChan:   make(chan Task, config.QueueSize),
		ctx:        ctx,
		cancelFunc: cancel,
		config:     config,
		logger:     logger.With(slog.String("component", "task_runner")),
		errHandler: func(task Task, err error) {
			logger.Error("task execution failed",
				slog.String("task_id", task.ID().String()),
				slog.String("task_type", task.Type()),
				slog.String("error", err.Error()))
		},
	}
}

// SetErrorHandler sets a custom handler for task execution failures.
// Must be called before Start.
func (r *Runner) SetErrorHandler(handler func(task Task, err error)) {
	r.errHandler = handler
}

// SetDoneHandler sets a handler invoked after every task finishes,
// regardless of outcome. Must be called before Start.
func (r *Runner) SetDoneHandler(handler func(task Task)) {
	r.doneHandler = handler
}

// Submit adds a task to the queue without blocking.
// Returns ErrQueueFull when the queue is at capacity and ErrQueueClosed
// after Stop has been called.
func (r *Runner) Submit(task Task) error {
	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed {
		return ErrQueueClosed
	}

	select {
	case r.taskChan <- task:
		r.logger.Debug("task enqueued",
			slog.String("task_id", task.ID().String()),
			slog.String("task_type", task.Type()),
			slog.Int("queue_len", len(r.taskChan)),
			slog.Int("queue_cap", cap(r.taskChan)))
		return nil
	default:
		return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(r.taskChan))
	}
}

// Start launches the worker goroutines.
func (r *Runner) Start() {
	for i := 0; i < r.config.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}
}

// Stop drains submission and waits for in-flight tasks to finish.
func (r *Runner) Stop() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.mu.Unlock()

	close(r.taskChan)
	r.wg.Wait()
	r.cancelFunc()
}

// worker processes tasks from the queue until it is closed and drained.
func (r *Runner) worker(id int) {
	defer r.wg.Done()

	r.logger.Debug("starting worker", slog.Int("worker_id", id))

	for task := range r.taskChan {
		r.processTask(task, id)
	}

	r.logger.Debug("task channel closed, stopping worker", slog.Int("worker_id", id))
}

// processTask handles execution of a single task
func (r *Runner) processTask(task Task, workerID int) {
	log := r.logger.With(
		slog.String("task_id", task.ID().String()),
		slog.String("task_type", task.Type()),
		slog.Int("worker_id", workerID),
	)

	log.Debug("processing task")

	if err := task.Execute(r.ctx); err != nil {
		log.Error("task execution failed", slog.String("error", err.Error()))
		if r.errHandler != nil {
			r.errHandler(task, err)
		}
	} else {
		log.Debug("task completed")
	}

	if r.doneHandler != nil {
		r.doneHandler(task)
	}
}
