package task

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrBusy is returned by Submit while another task is in flight
var ErrBusy = errors.New("another task is already running")

// Kind names the operation a task performs
type Kind string

const (
	KindSearch Kind = "search"
	KindExport Kind = "export"
)

// Outcome is posted exactly once when a task finishes
type Outcome[T any] struct {
	TaskID   string
	Kind     Kind
	Value    T
	Err      error
	Duration time.Duration
}

// Runner admits one background task at a time.
// A task cannot be cancelled once started; it runs to completion or failure.
type Runner struct {
	mu      sync.Mutex // held for the lifetime of the running task
	running atomic.Bool
	kind    atomic.Value
	wg      sync.WaitGroup
	log     zerolog.Logger
}

// NewRunner creates a task runner
func NewRunner(logger zerolog.Logger) *Runner {
	r := &Runner{log: logger.With().Str("component", "task").Logger()}
	r.kind.Store(Kind(""))
	return r
}

// Submit starts fn on its own goroutine and returns a channel that receives
// the outcome and is then closed. It returns ErrBusy without running fn when
// a task is already in flight. The task context keeps ctx's values but not
// its cancellation.
func Submit[T any](r *Runner, ctx context.Context, kind Kind, fn func(ctx context.Context) (T, error)) (<-chan Outcome[T], error) {
	// Try to acquire the mutex without blocking
	if !r.mu.TryLock() {
		r.log.Warn().Str("kind", string(kind)).Str("running", string(r.Current())).Msg("Task already running, rejecting submission")
		return nil, ErrBusy
	}

	r.running.Store(true)
	r.kind.Store(kind)

	id := uuid.NewString()
	out := make(chan Outcome[T], 1)
	taskCtx := context.WithoutCancel(ctx)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		startTime := time.Now()
		r.log.Info().Str("task", id).Str("kind", string(kind)).Msg("Task started")

		value, err := execute(taskCtx, fn)
		outcome := Outcome[T]{
			TaskID:   id,
			Kind:     kind,
			Value:    value,
			Err:      err,
			Duration: time.Since(startTime),
		}

		if err != nil {
			r.log.Error().Err(err).Str("task", id).Str("kind", string(kind)).Dur("duration", outcome.Duration).Msg("Task failed")
		} else {
			r.log.Info().Str("task", id).Str("kind", string(kind)).Dur("duration", outcome.Duration).Msg("Task completed")
		}

		// Release before posting so the receiver can submit the next task immediately
		r.kind.Store(Kind(""))
		r.running.Store(false)
		r.mu.Unlock()

		out <- outcome
		close(out)
	}()

	return out, nil
}

// execute runs fn and converts a panic into an error
func execute[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) (value T, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("task panicked: %v", p)
		}
	}()
	return fn(ctx)
}

// IsRunning returns true if a task is currently running
func (r *Runner) IsRunning() bool {
	return r.running.Load()
}

// Current returns the kind of the running task, or "" when idle
func (r *Runner) Current() Kind {
	return r.kind.Load().(Kind)
}

// Wait blocks until the running task, if any, has finished
func (r *Runner) Wait() {
	r.wg.Wait()
}
