package scanrunner

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"leakwatch/internal/domain"
	"leakwatch/internal/ports"
)

type acquirerFunc func(ctx context.Context, email string) *domain.LeakAnalysisReport

func (f acquirerFunc) Acquire(ctx context.Context, email string) *domain.LeakAnalysisReport {
	return f(ctx, email)
}

type recordingSink struct {
	mu        sync.Mutex
	completed map[string]*domain.LeakAnalysisReport
	failed    map[string]string
	done      chan string
}

func newSink() *recordingSink {
	return &recordingSink{
		completed: map[string]*domain.LeakAnalysisReport{},
		failed:    map[string]string{},
		done:      make(chan string, 16),
	}
}

func (s *recordingSink) MarkCompleted(_ context.Context, job ports.ScanJob, r *domain.LeakAnalysisReport) error {
	s.mu.Lock()
	s.completed[job.ID] = r
	s.mu.Unlock()
	s.done <- job.ID
	return nil
}

func (s *recordingSink) MarkFailed(_ context.Context, job ports.ScanJob, reason string) error {
	s.mu.Lock()
	s.failed[job.ID] = reason
	s.mu.Unlock()
	s.done <- job.ID
	return nil
}

func TestPacedWaitsForMinimumDuration(t *testing.T) {
	defer goleak.VerifyNone(t)
	want := domain.FallbackReport()

	start := time.Now()
	got, err := Paced(context.Background(), 80*time.Millisecond, func(context.Context) *domain.LeakAnalysisReport {
		return want
	})
	require.NoError(t, err)
	assert.Same(t, want, got)
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
}

func TestPacedWaitsForSlowAcquisition(t *testing.T) {
	defer goleak.VerifyNone(t)

	start := time.Now()
	got, err := Paced(context.Background(), 10*time.Millisecond, func(context.Context) *domain.LeakAnalysisReport {
		time.Sleep(60 * time.Millisecond)
		return domain.FallbackReport()
	})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
}

func TestPacedCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Paced(ctx, time.Hour, func(context.Context) *domain.LeakAnalysisReport {
		return domain.FallbackReport()
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPacedProcessorUsesJobEmail(t *testing.T) {
	var gotEmail string
	p := PacedProcessor{Acquirer: acquirerFunc(func(_ context.Context, email string) *domain.LeakAnalysisReport {
		gotEmail = email
		return domain.FallbackReport()
	})}
	r, err := p.Process(context.Background(), ports.ScanJob{ID: "j1", Email: "a@b.com"})
	require.NoError(t, err)
	assert.NotNil(t, r)
	assert.Equal(t, "a@b.com", gotEmail)
}

func TestRunnerProcessesJobs(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx, cancel := context.WithCancel(context.Background())

	r := New(PacedProcessor{
		Acquirer:    acquirerFunc(func(context.Context, string) *domain.LeakAnalysisReport { return domain.FallbackReport() }),
		MinDuration: 5 * time.Millisecond,
	}, 2, 4, nil)
	sink := newSink()
	r.Start(ctx, sink)

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, r.Submit(ports.ScanJob{ID: id, SessionID: "s", Email: "x@y.com"}))
	}
	for i := 0; i < 3; i++ {
		select {
		case <-sink.done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for scan jobs")
		}
	}
	cancel()
	r.Wait()

	assert.Len(t, sink.completed, 3)
	assert.Empty(t, sink.failed)
	assert.ErrorIs(t, r.Submit(ports.ScanJob{ID: "late"}), ErrStopped)
}

func TestRunnerRejectsBeforeStartAndWhenFull(t *testing.T) {
	defer goleak.VerifyNone(t)
	block := make(chan struct{})
	r := New(PacedProcessor{
		Acquirer: acquirerFunc(func(context.Context, string) *domain.LeakAnalysisReport {
			<-block
			return domain.FallbackReport()
		}),
		MinDuration: time.Hour,
	}, 1, 1, nil)
	assert.ErrorIs(t, r.Submit(ports.ScanJob{ID: "early"}), ErrStopped)

	ctx, cancel := context.WithCancel(context.Background())
	sink := newSink()
	r.Start(ctx, sink)

	require.NoError(t, r.Submit(ports.ScanJob{ID: "1"}))
	// Fill the single buffered slot once the worker holds job 1.
	require.Eventually(t, func() bool { return r.Submit(ports.ScanJob{ID: "2"}) == nil }, time.Second, time.Millisecond)
	assert.ErrorIs(t, r.Submit(ports.ScanJob{ID: "3"}), ErrQueueFull)

	cancel()
	close(block)
	r.Wait()

	sink.mu.Lock()
	defer sink.mu.Unlock()
	assert.Contains(t, sink.failed, "1")
	assert.Contains(t, sink.failed, "2")
	assert.Empty(t, sink.completed)
}

func TestProcessInlineReportsFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sink := newSink()
	p := PacedProcessor{
		Acquirer:    acquirerFunc(func(context.Context, string) *domain.LeakAnalysisReport { return domain.FallbackReport() }),
		MinDuration: time.Hour,
	}
	err := ProcessInline(ctx, sink, p, ports.ScanJob{ID: "x"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, sink.failed, "x")
}

func TestPacedCancelledWithoutFloor(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := Paced(ctx, 0, func(context.Context) *domain.LeakAnalysisReport {
		return domain.FallbackReport()
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, got)
}

func TestProcessInlineCancelledWithoutFloorMarksFailed(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sink := newSink()
	p := PacedProcessor{
		Acquirer: acquirerFunc(func(context.Context, string) *domain.LeakAnalysisReport { return domain.FallbackReport() }),
	}
	err := ProcessInline(ctx, sink, p, ports.ScanJob{ID: "x"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, sink.failed, "x")
	assert.Empty(t, sink.completed)
}

func TestRunnerShutdownWithoutFloorAbandonsScan(t *testing.T) {
	defer goleak.VerifyNone(t)
	entered := make(chan struct{})
	r := New(PacedProcessor{
		// Like the real acquirer, a cancelled call still yields a report.
		Acquirer: acquirerFunc(func(ctx context.Context, _ string) *domain.LeakAnalysisReport {
			close(entered)
			<-ctx.Done()
			return domain.FallbackReport()
		}),
	}, 1, 1, nil)
	ctx, cancel := context.WithCancel(context.Background())
	sink := newSink()
	r.Start(ctx, sink)

	require.NoError(t, r.Submit(ports.ScanJob{ID: "1"}))
	<-entered
	cancel()
	r.Wait()

	sink.mu.Lock()
	defer sink.mu.Unlock()
	assert.Contains(t, sink.failed, "1")
	assert.Empty(t, sink.completed)
}
