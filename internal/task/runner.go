package task

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"slack_helper/internal/logger"
	"slack_helper/internal/model"
)

// Task is one deferred continuation. Run does the long-running work and
// returns the follow-up action to deliver, or a zero action when there
// is nothing to report. Errors are captured by the runner and logged,
// never silently dropped.
type Task struct {
	Name string
	Run  func() (model.OutboundAction, error)
}

// Sink receives follow-up actions produced by completed tasks. The
// executor satisfies this interface.
type Sink interface {
	Execute(action model.OutboundAction) error
}

// ErrQueueFull is returned by Submit when the queue is at capacity.
// Handlers treat it like any other external failure rather than block.
var ErrQueueFull = errors.New("task queue is full")

// Runner is a bounded worker pool for fire-and-forget continuations.
// No ordering is guaranteed between a handler's immediate reply and a
// task's follow-up action.
type Runner struct {
	sink    Sink
	tasks   chan Task
	quit    chan struct{}
	wg      sync.WaitGroup
	stopped sync.Once
}

// NewRunner creates a runner with the given worker count and queue size.
func NewRunner(sink Sink, workers, queueSize int) *Runner {
	if workers < 1 {
		workers = 1
	}
	r := &Runner{
		sink:  sink,
		tasks: make(chan Task, queueSize),
		quit:  make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		r.wg.Add(1)
		go r.worker(i + 1)
	}
	return r
}

// Submit queues a task without blocking. It fails with ErrQueueFull
// when the queue is at capacity and with an error after Stop.
func (r *Runner) Submit(t Task) error {
	select {
	case <-r.quit:
		return errors.New("task runner is stopped")
	default:
	}
	select {
	case r.tasks <- t:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop signals all workers and waits for in-flight tasks to finish.
// Queued tasks that no worker picked up yet are discarded.
func (r *Runner) Stop() {
	r.stopped.Do(func() {
		close(r.quit)
		r.wg.Wait()
	})
}

func (r *Runner) worker(id int) {
	defer r.wg.Done()
	for {
		select {
		case <-r.quit:
			return
		case t := <-r.tasks:
			r.process(id, t)
		}
	}
}

func (r *Runner) process(id int, t Task) {
	action, err := t.Run()
	if err != nil {
		logger.GetLogger().Error("deferred task failed",
			zap.String("task", t.Name),
			zap.Int("worker", id),
			zap.Error(err))
		return
	}
	if action.Kind == "" {
		return
	}
	if err := r.sink.Execute(action); err != nil {
		logger.GetLogger().Error("failed to deliver task follow-up",
			zap.String("task", t.Name),
			zap.Int("worker", id),
			zap.Error(err))
	}
}
