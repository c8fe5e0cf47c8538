package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"reelforge/internal/logging"
	"reelforge/internal/services"
)

var (
	// ErrClosed is returned when submitting to a closed pool.
	ErrClosed = errors.New("job pool closed")
	// ErrSkipped marks a job that was cancelled before a worker started it.
	ErrSkipped = errors.New("job skipped")
)

// Job is a unit of work run on a pool worker.
type Job func(ctx context.Context) error

// Handle tracks a submitted job.
type Handle struct {
	ID   string
	done chan struct{}
	err  error
}

// Done is closed once the job finished or was skipped.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the job finishes or ctx ends. Abandoning the wait does
// not cancel the job.
func (h *Handle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return h.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the job result. It is only meaningful after Done is closed.
func (h *Handle) Err() error {
	return h.err
}

type task struct {
	ctx    context.Context
	job    Job
	handle *Handle
}

// Pool is a fixed-size worker pool.
type Pool struct {
	logger  *slog.Logger
	timeout time.Duration
	tasks   chan task

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// Option configures a Pool.
type Option func(*Pool)

// WithTimeout bounds each job's runtime. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(p *Pool) {
		p.timeout = d
	}
}

// NewPool starts workers goroutines. Values below one start a single worker.
func NewPool(workers int, logger *slog.Logger, opts ...Option) *Pool {
	if workers < 1 {
		workers = 1
	}
	p := &Pool{
		logger: logging.NewComponentLogger(logger, "jobs"),
		tasks:  make(chan task, workers),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

// Submit queues job and returns its handle. It blocks while all workers are
// busy and the queue is full, until ctx ends.
func (p *Pool) Submit(ctx context.Context, job Job) (*Handle, error) {
	if job == nil {
		return nil, services.Wrap(services.ErrValidation, "jobs", "submit", "job is nil", nil)
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return nil, ErrClosed
	}
	handle := &Handle{ID: uuid.NewString(), done: make(chan struct{})}
	t := task{
		ctx:    services.WithRequestID(ctx, handle.ID),
		job:    job,
		handle: handle,
	}
	select {
	case p.tasks <- t:
		return handle, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Run submits job and waits for its result.
func (p *Pool) Run(ctx context.Context, job Job) error {
	handle, err := p.Submit(ctx, job)
	if err != nil {
		return err
	}
	return handle.Wait(ctx)
}

// Close stops accepting jobs and waits for queued and running jobs to finish.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for t := range p.tasks {
		t.handle.err = p.execute(t)
		close(t.handle.done)
	}
}

func (p *Pool) execute(t task) (err error) {
	logger := logging.WithContext(t.ctx, p.logger)
	if cause := t.ctx.Err(); cause != nil {
		logger.Info("job skipped", logging.String("reason", cause.Error()))
		return fmt.Errorf("%w: %w", ErrSkipped, cause)
	}

	ctx := t.ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()

	started := time.Now()
	logger.Debug("job started")
	err = t.job(ctx)
	if err != nil {
		logger.Info("job failed",
			logging.Duration("elapsed", time.Since(started)),
			logging.String("error_kind", string(services.Classify(err))),
			logging.Error(err),
		)
		return err
	}
	logger.Debug("job finished", logging.Duration("elapsed", time.Since(started)))
	return nil
}
