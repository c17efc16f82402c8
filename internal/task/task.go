// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package task runs summarization pipelines as cancellable, progress-tracked
// tasks behind a status-polling surface: Submit returns an id, Get returns a
// snapshot, Cancel requests cooperative cancellation.
//
// Each task record lives behind an atomic pointer. Writers publish a fresh
// copy with compare-and-swap, so readers never block and never observe a
// partially updated record. Status and progress only move forward.
package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/paper-summarizer/internal/capability"
	"github.com/pdiddy/paper-summarizer/internal/pipeline"
	"github.com/pdiddy/paper-summarizer/internal/sections"
	"github.com/pdiddy/paper-summarizer/pkg/types"
)

var (
	// ErrNotFound is returned for an unknown task id.
	ErrNotFound = errors.New("task not found")

	// ErrQueueFull is returned by Submit when no queue slot is free.
	ErrQueueFull = errors.New("task queue full")

	// ErrClosed is returned by Submit after Close.
	ErrClosed = errors.New("task manager closed")

	// ErrNotTerminal is returned by Remove for a task that is still running.
	ErrNotTerminal = errors.New("task not finished")
)

// Caller-safe failure messages. Internal details go to the log only.
const (
	msgEmptyDocument = "The document contains no extractable text."
	msgModelDown     = "The summarization model is unavailable. Try again later."
	msgInternal      = "Summarization failed because of an internal error."
)

// Runner executes one pipeline run. *pipeline.Pipeline satisfies it.
type Runner interface {
	Run(ctx context.Context, doc types.Document, meta types.PaperMeta, checkpoint pipeline.Checkpoint) (*types.PaperSummary, error)
}

// entry holds one task. snap is the published record; doc and meta are
// owned by the worker that runs the task.
type entry struct {
	snap      atomic.Pointer[types.Task]
	cancelled atomic.Bool
	done      chan struct{}
	doneOnce  sync.Once

	doc  types.Document
	meta types.PaperMeta
}

func (e *entry) finish() {
	e.doneOnce.Do(func() { close(e.done) })
}

// Manager owns the task store and the worker pool.
type Manager struct {
	runner Runner
	logger *slog.Logger
	now    func() time.Time

	tasks sync.Map // id -> *entry
	queue chan *entry
	wg    sync.WaitGroup

	mu     sync.RWMutex // guards closed and sends on queue
	closed bool
}

// NewManager starts cfg.Workers workers (at least one) draining a queue of
// cfg.QueueSize pending tasks. A nil logger uses slog.Default.
func NewManager(r Runner, cfg types.TaskConfig, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	workers := max(cfg.Workers, 1)
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 64
	}

	m := &Manager{
		runner: r,
		logger: logger,
		now:    time.Now,
		queue:  make(chan *entry, queueSize),
	}
	m.wg.Add(workers)
	for range workers {
		go m.worker()
	}
	return m
}

// Submit queues doc for summarization and returns the new task id.
func (m *Manager) Submit(doc types.Document, meta types.PaperMeta) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return "", ErrClosed
	}

	uid, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating task id: %w", err)
	}
	id := uid.String()
	now := m.now()

	e := &entry{done: make(chan struct{}), doc: doc, meta: meta}
	e.snap.Store(&types.Task{
		ID:        id,
		Status:    types.TaskQueued,
		Message:   "Waiting to start",
		CreatedAt: now,
		UpdatedAt: now,
	})
	m.tasks.Store(id, e)

	select {
	case m.queue <- e:
	default:
		m.tasks.Delete(id)
		return "", ErrQueueFull
	}
	m.logger.Info("task submitted", "task_id", id, "title", meta.Title, "blocks", len(doc.Blocks))
	return id, nil
}

// Get returns a snapshot of the task. It never blocks on a running task.
func (m *Manager) Get(id string) (types.Task, error) {
	e, ok := m.entry(id)
	if !ok {
		return types.Task{}, ErrNotFound
	}
	return *e.snap.Load(), nil
}

// Cancel requests cancellation. A queued task is cancelled at once; a
// processing task stops at its next stage boundary. It returns false when
// the task had already reached a terminal state.
func (m *Manager) Cancel(id string) (bool, error) {
	e, ok := m.entry(id)
	if !ok {
		return false, ErrNotFound
	}
	if e.snap.Load().Status.Terminal() {
		return false, nil
	}
	e.cancelled.Store(true)

	if m.update(e, func(t *types.Task) bool {
		if t.Status != types.TaskQueued {
			return false
		}
		t.Status = types.TaskCancelled
		t.Message = "Cancelled before start"
		return true
	}) {
		m.logger.Info("task cancelled while queued", "task_id", id)
		return true, nil
	}
	s := e.snap.Load().Status
	return !s.Terminal() || s == types.TaskCancelled, nil
}

// Wait blocks until the task reaches a terminal state or ctx is done and
// returns the latest snapshot.
func (m *Manager) Wait(ctx context.Context, id string) (types.Task, error) {
	e, ok := m.entry(id)
	if !ok {
		return types.Task{}, ErrNotFound
	}
	select {
	case <-e.done:
		return *e.snap.Load(), nil
	case <-ctx.Done():
		return *e.snap.Load(), ctx.Err()
	}
}

// Remove drops a finished task from the store.
func (m *Manager) Remove(id string) error {
	e, ok := m.entry(id)
	if !ok {
		return ErrNotFound
	}
	if !e.snap.Load().Status.Terminal() {
		return ErrNotTerminal
	}
	m.tasks.Delete(id)
	return nil
}

// Close stops accepting tasks, requests cancellation of every unfinished
// task and waits for the workers to exit.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	close(m.queue)
	m.mu.Unlock()

	m.tasks.Range(func(key, _ any) bool {
		m.Cancel(key.(string))
		return true
	})
	m.wg.Wait()
}

func (m *Manager) entry(id string) (*entry, bool) {
	v, ok := m.tasks.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*entry), true
}

// update publishes a modified copy of the task record. mutate reports
// whether it changed anything; transitions that would regress status or
// progress are refused. It reports whether a new record was published.
func (m *Manager) update(e *entry, mutate func(t *types.Task) bool) bool {
	for {
		old := e.snap.Load()
		next := *old
		if !mutate(&next) {
			return false
		}
		if !old.Status.CanTransition(next.Status) || next.Progress < old.Progress {
			return false
		}
		next.UpdatedAt = m.now()
		if e.snap.CompareAndSwap(old, &next) {
			if next.Status.Terminal() {
				e.finish()
			}
			return true
		}
	}
}

func (m *Manager) worker() {
	defer m.wg.Done()
	for e := range m.queue {
		m.run(e)
	}
}

// run drives one task from queued to a terminal state.
func (m *Manager) run(e *entry) {
	id := e.snap.Load().ID
	logger := m.logger.With("task_id", id)

	if !m.update(e, func(t *types.Task) bool {
		t.Status = types.TaskProcessing
		t.Progress = 0
		t.Message = "Extracting sections"
		return true
	}) {
		// Cancelled while queued.
		return
	}
	start := m.now()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("task panicked", "panic", r, "stack", string(debug.Stack()))
			m.fail(e, msgInternal)
		}
		e.doc, e.meta = types.Document{}, types.PaperMeta{}
	}()

	checkpoint := func(progress int, message string) error {
		if e.cancelled.Load() {
			return pipeline.ErrCancelled
		}
		m.update(e, func(t *types.Task) bool {
			t.Progress = progress
			t.Message = message
			return true
		})
		logger.Debug("task progress", "progress", progress, "message", message)
		return nil
	}

	result, err := m.runner.Run(context.Background(), e.doc, e.meta, checkpoint)
	switch {
	case errors.Is(err, pipeline.ErrCancelled), err == nil && e.cancelled.Load():
		m.update(e, func(t *types.Task) bool {
			t.Status = types.TaskCancelled
			t.Message = "Cancelled"
			return true
		})
		logger.Info("task cancelled", "progress", e.snap.Load().Progress)
	case err != nil:
		logger.Error("task failed", "error", err, "duration", m.now().Sub(start))
		m.fail(e, safeMessage(err))
	default:
		m.update(e, func(t *types.Task) bool {
			t.Status = types.TaskCompleted
			t.Progress = 100
			t.Message = "Summary ready"
			t.Result = result
			return true
		})
		logger.Info("task completed", "sections", len(result.SectionsFound), "duration", m.now().Sub(start))
	}
}

func (m *Manager) fail(e *entry, msg string) {
	m.update(e, func(t *types.Task) bool {
		t.Status = types.TaskFailed
		t.Message = "Failed"
		t.Error = msg
		return true
	})
}

// safeMessage maps an internal error to text that can be shown to callers.
func safeMessage(err error) string {
	switch {
	case errors.Is(err, sections.ErrEmptyDocument):
		return msgEmptyDocument
	case errors.Is(err, capability.ErrModelUnavailable):
		return msgModelDown
	default:
		return msgInternal
	}
}
