// Package progress implements the study-progress outbox: per-card review
// updates are queued at request time and flushed to the store by background
// workers, so a slow or failing write never stalls a study session.
package progress

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/studyhall/studyhall-api/internal/platform/logger"
	"github.com/studyhall/studyhall-api/internal/store"
	"github.com/studyhall/studyhall-api/internal/task"
)

// taskTypeProgressUpdate identifies outbox tasks in logs.
const taskTypeProgressUpdate = "progress_update"

// Update is one pending per-card review result.
type Update struct {
	UserID  uuid.UUID
	CardID  uuid.UUID
	Correct bool
	At      time.Time
}

// Status is a snapshot of the outbox counters.
type Status struct {
	// Pending is the number of updates queued or in flight.
	Pending int64 `json:"pending"`

	// Processed is the number of updates flushed successfully.
	Processed int64 `json:"processed"`

	// Failed is the number of updates dropped after a write failure.
	Failed int64 `json:"failed"`
}

// Outbox queues per-card progress updates and flushes them via a worker
// pool. Enqueue never blocks; a full queue is counted as a failure and
// reported to the caller.
type Outbox struct {
	runner *task.Runner
	cards  store.CardStore
	logger *slog.Logger

	pending    atomic.Int64
	done       atomic.Int64
	execFailed atomic.Int64
	dropped    atomic.Int64
}

// Config holds outbox sizing.
type Config struct {
	Workers   int
	QueueSize int
}

// NewOutbox creates an Outbox flushing updates through the given card store.
// Panics on a nil store: the outbox is wired once at startup.
func NewOutbox(cards store.CardStore, cfg Config, log *slog.Logger) *Outbox {
	if cards == nil {
		panic("progress.NewOutbox: cards store cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	o := &Outbox{
		cards:  cards,
		logger: log.With(slog.String("component", "progress_outbox")),
	}

	runner := task.NewRunner(task.RunnerConfig{
		WorkerCount: cfg.Workers,
		QueueSize:   cfg.QueueSize,
	}, log)
	runner.SetErrorHandler(func(t task.Task, err error) {
		o.execFailed.Add(1)
	})
	runner.SetDoneHandler(func(t task.Task) {
		o.pending.Add(-1)
		o.done.Add(1)
	})
	o.runner = runner

	return o
}

// Start launches the flush workers.
func (o *Outbox) Start() {
	o.runner.Start()
}

// Stop drains the queue and waits for in-flight updates to finish.
func (o *Outbox) Stop() {
	o.runner.Stop()
}

// Enqueue queues one review result for background flushing.
// Returns task.ErrQueueFull or task.ErrQueueClosed without blocking when the
// update cannot be accepted; the failure is counted either way.
func (o *Outbox) Enqueue(ctx context.Context, update Update) error {
	t := &updateTask{
		id:     uuid.New(),
		update: update,
		cards:  o.cards,
	}

	if err := o.runner.Submit(t); err != nil {
		o.dropped.Add(1)
		logger.FromContextOrDefault(ctx, o.logger).Warn("dropped progress update",
			slog.String("card_id", update.CardID.String()),
			slog.String("error", err.Error()))
		return err
	}

	o.pending.Add(1)
	return nil
}

// Status returns a snapshot of the outbox counters. Failed covers both
// updates dropped at enqueue time and updates whose write ultimately failed.
func (o *Outbox) Status() Status {
	execFailed := o.execFailed.Load()
	return Status{
		Pending:   o.pending.Load(),
		Processed: o.done.Load() - execFailed,
		Failed:    execFailed + o.dropped.Load(),
	}
}

// updateTask applies one review result with a read-then-write increment.
type updateTask struct {
	id     uuid.UUID
	update Update
	cards  store.CardStore
}

var _ task.Task = (*updateTask)(nil)

func (t *updateTask) ID() uuid.UUID { return t.id }

func (t *updateTask) Type() string { return taskTypeProgressUpdate }

func (t *updateTask) Execute(ctx context.Context) error {
	card, err := t.cards.GetByID(ctx, t.update.UserID, t.update.CardID)
	if err != nil {
		return fmt.Errorf("failed to load card for progress update: %w", err)
	}

	card.RecordReview(t.update.Correct, t.update.At)

	if err := t.cards.UpdateProgress(ctx, card); err != nil {
		return fmt.Errorf("failed to persist progress update: %w", err)
	}
	return nil
}
