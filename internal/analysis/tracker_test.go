package analysis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/brand-content-engine/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func resultRunner(result *types.AnalysisResult, err error) Runner {
	return RunnerFunc(func(context.Context, string, ProgressFunc) (*types.AnalysisResult, error) {
		return result, err
	})
}

func newTestTracker(runner Runner, clock *fakeClock) *Tracker {
	return NewTracker(NewMemoryStore(), runner, nil, WithClock(clock.Now))
}

func TestStart_RejectsInvalidURL(t *testing.T) {
	tr := newTestTracker(resultRunner(&types.AnalysisResult{}, nil), newFakeClock())
	for _, u := range []string{"", "not a url", "ftp://example.com", "example.com"} {
		_, err := tr.Start(context.Background(), u)
		var ve *ValidationError
		assert.True(t, errors.As(err, &ve), u)
	}
}

func TestStart_ReturnsImmediatelyAndReportsProgress(t *testing.T) {
	release := make(chan struct{})
	reported := make(chan struct{})
	runner := RunnerFunc(func(_ context.Context, url string, progress ProgressFunc) (*types.AnalysisResult, error) {
		progress(types.JobProgress{Step: "fetching", Percentage: 10, Message: "Fetching website"})
		close(reported)
		<-release
		return &types.AnalysisResult{URL: url}, nil
	})
	tr := newTestTracker(runner, newFakeClock())
	ctx := context.Background()

	id, err := tr.Start(ctx, "https://shelflabs.example")
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err)

	<-reported
	job, err := tr.Poll(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, types.JobProcessing, job.Status)
	assert.Equal(t, types.JobProgress{Step: "fetching", Percentage: 10, Message: "Fetching website"}, job.Progress)
	assert.Nil(t, job.EvictAt)

	close(release)
	tr.Wait()

	job, err = tr.Poll(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, types.JobComplete, job.Status)
	assert.Equal(t, 100, job.Progress.Percentage)
	require.NotNil(t, job.Result)
	assert.Equal(t, "https://shelflabs.example", job.Result.URL)
	assert.NotNil(t, job.CompletedAt)
}

func TestStart_InitialRecordHasZeroProgress(t *testing.T) {
	release := make(chan struct{})
	runner := RunnerFunc(func(context.Context, string, ProgressFunc) (*types.AnalysisResult, error) {
		<-release
		return &types.AnalysisResult{}, nil
	})
	tr := newTestTracker(runner, newFakeClock())

	id, err := tr.Start(context.Background(), "https://a.example")
	require.NoError(t, err)
	job, err := tr.Poll(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, types.JobProgress{}, job.Progress)
	assert.Equal(t, types.JobProcessing, job.Status)

	close(release)
	tr.Wait()
}

func TestPoll_EvictionAnchoredToFirstTerminalRead(t *testing.T) {
	clock := newFakeClock()
	tr := newTestTracker(resultRunner(&types.AnalysisResult{}, nil), clock)
	ctx := context.Background()

	completedAt := clock.Now()
	id, err := tr.Start(ctx, "https://a.example")
	require.NoError(t, err)
	tr.Wait()

	clock.Set(completedAt.Add(time.Second))
	job, err := tr.Poll(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, types.JobComplete, job.Status)
	require.NotNil(t, job.EvictAt)
	assert.Equal(t, completedAt.Add(time.Second+DefaultEvictDelay), *job.EvictAt)

	clock.Set(completedAt.Add(300 * time.Second))
	_, err = tr.Poll(ctx, id)
	require.NoError(t, err)

	clock.Set(completedAt.Add(302 * time.Second))
	_, err = tr.Poll(ctx, id)
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestPoll_LaterPollsDoNotExtendEviction(t *testing.T) {
	clock := newFakeClock()
	tr := newTestTracker(resultRunner(&types.AnalysisResult{}, nil), clock)
	ctx := context.Background()
	start := clock.Now()

	id, err := tr.Start(ctx, "https://a.example")
	require.NoError(t, err)
	tr.Wait()

	first, err := tr.Poll(ctx, id)
	require.NoError(t, err)
	clock.Set(start.Add(4 * time.Minute))
	second, err := tr.Poll(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, *first.EvictAt, *second.EvictAt)
}

func TestRun_FailureBecomesFailedRecord(t *testing.T) {
	tests := []struct {
		name    string
		runner  Runner
		message string
	}{
		{"error", resultRunner(nil, errors.New("could not fetch website: timeout")), "could not fetch website: timeout"},
		{"panic", RunnerFunc(func(context.Context, string, ProgressFunc) (*types.AnalysisResult, error) {
			panic("nil map")
		}), "analysis crashed: nil map"},
		{"nil result", resultRunner(nil, nil), "analysis produced no result"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTestTracker(tt.runner, newFakeClock())
			id, err := tr.Start(context.Background(), "https://a.example")
			require.NoError(t, err)
			tr.Wait()

			job, err := tr.Poll(context.Background(), id)
			require.NoError(t, err)
			assert.Equal(t, types.JobFailed, job.Status)
			assert.Equal(t, tt.message, job.ErrorMessage)
			assert.Nil(t, job.Result)
		})
	}
}

func TestRun_ProgressAfterTerminalIgnored(t *testing.T) {
	var saved ProgressFunc
	runner := RunnerFunc(func(_ context.Context, _ string, progress ProgressFunc) (*types.AnalysisResult, error) {
		saved = progress
		return &types.AnalysisResult{}, nil
	})
	tr := newTestTracker(runner, newFakeClock())
	id, err := tr.Start(context.Background(), "https://a.example")
	require.NoError(t, err)
	tr.Wait()

	saved(types.JobProgress{Step: "late", Percentage: 50})

	job, err := tr.Poll(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, types.JobComplete, job.Status)
	assert.Equal(t, "complete", job.Progress.Step)
}

func TestRun_SurvivesCallerCancellation(t *testing.T) {
	release := make(chan struct{})
	runner := RunnerFunc(func(ctx context.Context, _ string, _ ProgressFunc) (*types.AnalysisResult, error) {
		<-release
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return &types.AnalysisResult{}, nil
	})
	tr := newTestTracker(runner, newFakeClock())

	ctx, cancel := context.WithCancel(context.Background())
	id, err := tr.Start(ctx, "https://a.example")
	require.NoError(t, err)
	cancel()
	close(release)
	tr.Wait()

	job, err := tr.Poll(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, types.JobComplete, job.Status)
}

func TestPoll_UnknownJob(t *testing.T) {
	tr := newTestTracker(resultRunner(nil, nil), newFakeClock())
	_, err := tr.Poll(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestStart_IDsAreUnique(t *testing.T) {
	tr := newTestTracker(resultRunner(&types.AnalysisResult{}, nil), newFakeClock())
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		id, err := tr.Start(context.Background(), "https://a.example")
		require.NoError(t, err)
		assert.False(t, seen[id])
		seen[id] = true
	}
	tr.Wait()
}

func TestSweep(t *testing.T) {
	clock := newFakeClock()
	start := clock.Now()
	store := NewMemoryStore()
	tr := NewTracker(store, resultRunner(&types.AnalysisResult{}, nil), nil, WithClock(clock.Now))
	ctx := context.Background()

	polled, err := tr.Start(ctx, "https://a.example")
	require.NoError(t, err)
	unpolled, err := tr.Start(ctx, "https://b.example")
	require.NoError(t, err)
	tr.Wait()
	_, err = tr.Poll(ctx, polled)
	require.NoError(t, err)

	processing := &types.AnalysisJob{ID: "stuck", Status: types.JobProcessing, StartedAt: start}
	require.NoError(t, store.Put(ctx, processing, 0))

	clock.Set(start.Add(DefaultEvictDelay))
	removed, err := tr.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	_, err = store.Get(ctx, polled)
	assert.ErrorIs(t, err, ErrJobNotFound)

	clock.Set(start.Add(UnpolledRetention))
	removed, err = tr.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	_, err = store.Get(ctx, unpolled)
	assert.ErrorIs(t, err, ErrJobNotFound)

	_, err = store.Get(ctx, "stuck")
	assert.NoError(t, err)
}

func TestWithEvictDelay(t *testing.T) {
	tr := NewTracker(NewMemoryStore(), nil, nil, WithEvictDelay(time.Second), WithEvictDelay(-1))
	assert.Equal(t, time.Second, tr.evictDelay)
}
