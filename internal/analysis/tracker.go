// Package analysis runs website analysis jobs in the background and tracks
// their progress until a client has seen the outcome.
package analysis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/brand-content-engine/internal/logger"
	"github.com/jonathan/brand-content-engine/internal/types"
)

const (
	// DefaultEvictDelay is how long a finished job stays readable after the
	// first poll that observed its outcome.
	DefaultEvictDelay = 5 * time.Minute
	// UnpolledRetention bounds how long a finished job nobody polled is kept.
	UnpolledRetention = time.Hour
	// WallClockHint is the overall bound callers are expected to enforce.
	// The tracker itself never times a job out.
	WallClockHint = 2 * time.Minute
)

// ProgressFunc receives incremental progress from a running analysis.
type ProgressFunc func(types.JobProgress)

// Runner performs one analysis.
type Runner interface {
	Run(ctx context.Context, url string, progress ProgressFunc) (*types.AnalysisResult, error)
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, url string, progress ProgressFunc) (*types.AnalysisResult, error)

func (f RunnerFunc) Run(ctx context.Context, url string, progress ProgressFunc) (*types.AnalysisResult, error) {
	return f(ctx, url, progress)
}

// Tracker owns the job state machine: PROCESSING, then exactly one of
// COMPLETE or FAILED.
type Tracker struct {
	store      Store
	runner     Runner
	log        *logger.Logger
	validate   *validator.Validate
	now        func() time.Time
	evictDelay time.Duration

	mu sync.Mutex
	wg sync.WaitGroup
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithEvictDelay overrides DefaultEvictDelay.
func WithEvictDelay(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.evictDelay = d
		}
	}
}

// NewTracker creates a Tracker.
func NewTracker(store Store, runner Runner, log *logger.Logger, opts ...Option) *Tracker {
	t := &Tracker{
		store:      store,
		runner:     runner,
		log:        logger.OrNop(log).With("component", "analysis"),
		validate:   validator.New(),
		now:        func() time.Time { return time.Now().UTC() },
		evictDelay: DefaultEvictDelay,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start records a PROCESSING job and launches the analysis detached from
// ctx. It returns the job id without waiting.
func (t *Tracker) Start(ctx context.Context, url string) (string, error) {
	if err := t.validate.Var(url, "required,http_url"); err != nil {
		return "", &ValidationError{Field: "url", Message: "must be an absolute http or https URL"}
	}

	job := &types.AnalysisJob{
		ID:        uuid.NewString(),
		URL:       url,
		Status:    types.JobProcessing,
		StartedAt: t.now(),
	}
	if err := t.store.Put(ctx, job, 0); err != nil {
		return "", fmt.Errorf("failed to store job: %w", err)
	}
	t.log.Info("analysis started", "job_id", job.ID, "url", url)

	t.wg.Add(1)
	go t.run(context.WithoutCancel(ctx), job.ID, url)
	return job.ID, nil
}

func (t *Tracker) run(ctx context.Context, id, url string) {
	defer t.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			t.log.Error("analysis panicked", "job_id", id, "panic", r)
			t.finish(ctx, id, nil, fmt.Errorf("analysis crashed: %v", r))
		}
	}()

	result, err := t.runner.Run(ctx, url, func(p types.JobProgress) { t.progress(ctx, id, p) })
	if err == nil && result == nil {
		err = fmt.Errorf("analysis produced no result")
	}
	t.finish(ctx, id, result, err)
}

// progress writes p verbatim unless the job already finished.
func (t *Tracker) progress(ctx context.Context, id string, p types.JobProgress) {
	t.mu.Lock()
	defer t.mu.Unlock()
	job, err := t.store.Get(ctx, id)
	if err != nil || job.Status.Terminal() {
		return
	}
	job.Progress = p
	if err := t.store.Put(ctx, job, 0); err != nil {
		t.log.Warn("failed to record progress", "job_id", id, "error", err)
	}
}

func (t *Tracker) finish(ctx context.Context, id string, result *types.AnalysisResult, runErr error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	job, err := t.store.Get(ctx, id)
	if err != nil {
		t.log.Error("finished job missing from store", "job_id", id, "error", err)
		return
	}
	if job.Status.Terminal() {
		return
	}
	now := t.now()
	job.CompletedAt = &now
	if runErr != nil {
		job.Status = types.JobFailed
		job.ErrorMessage = runErr.Error()
		t.log.Warn("analysis failed", "job_id", id, "error", runErr)
	} else {
		job.Status = types.JobComplete
		job.Result = result
		job.Progress = types.JobProgress{Step: "complete", Percentage: 100, Message: "Analysis complete"}
		t.log.Info("analysis complete", "job_id", id)
	}
	if err := t.store.Put(ctx, job, UnpolledRetention); err != nil {
		t.log.Error("failed to record job outcome", "job_id", id, "error", err)
	}
}

// Poll returns the job. The first poll that sees a terminal status schedules
// eviction evictDelay later; once that deadline passes the job is gone.
func (t *Tracker) Poll(ctx context.Context, id string) (*types.AnalysisJob, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	job, err := t.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	now := t.now()
	if job.EvictAt != nil && !now.Before(*job.EvictAt) {
		if err := t.store.Delete(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrJobNotFound
	}
	if job.Status.Terminal() && job.EvictAt == nil {
		evictAt := now.Add(t.evictDelay)
		job.EvictAt = &evictAt
		if err := t.store.Put(ctx, job, t.evictDelay); err != nil {
			return nil, err
		}
	}
	return job, nil
}

// Sweep deletes jobs past their eviction deadline and finished jobs nobody
// polled within UnpolledRetention. It returns the number removed.
func (t *Tracker) Sweep(ctx context.Context) (int, error) {
	ids, err := t.store.IDs(ctx)
	if err != nil {
		return 0, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	removed := 0
	for _, id := range ids {
		job, err := t.store.Get(ctx, id)
		if err != nil {
			continue
		}
		expired := job.EvictAt != nil && !now.Before(*job.EvictAt)
		abandoned := job.EvictAt == nil && job.CompletedAt != nil && !now.Before(job.CompletedAt.Add(UnpolledRetention))
		if !expired && !abandoned {
			continue
		}
		if err := t.store.Delete(ctx, id); err != nil {
			return removed, err
		}
		removed++
	}
	if removed > 0 {
		t.log.Debug("swept analysis jobs", "removed", removed)
	}
	return removed, nil
}

// RunSweeper calls Sweep every interval until ctx is done. A non-positive
// interval disables sweeping.
func (t *Tracker) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := t.Sweep(ctx); err != nil {
				t.log.Warn("job sweep failed", "error", err)
			}
		}
	}
}

// Wait blocks until every launched analysis has finished.
func (t *Tracker) Wait() {
	t.wg.Wait()
}
