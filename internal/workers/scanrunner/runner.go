package scanrunner

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"leakwatch/internal/domain"
	"leakwatch/internal/ports"
)

var (
	ErrQueueFull = errors.New("scan queue is full")
	ErrStopped   = errors.New("scan runner is not running")
)

// Paced runs acquire next to a timer of length min and returns once both
// have finished, so the caller observes max(acquisition latency, min).
// This is the minimum perceived latency policy; min is a floor, never a
// timeout. Only cancellation of ctx cuts the wait short.
func Paced(ctx context.Context, min time.Duration, acquire func(context.Context) *domain.LeakAnalysisReport) (*domain.LeakAnalysisReport, error) {
	var report *domain.LeakAnalysisReport
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		report = acquire(gctx)
		return nil
	})
	g.Go(func() error {
		if min <= 0 {
			return nil
		}
		t := time.NewTimer(min)
		defer t.Stop()
		select {
		case <-t.C:
			return nil
		case <-gctx.Done():
			return gctx.Err()
		}
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// With no floor to wait on, a cancelled acquisition still returns a
	// report; it must not count as a completed scan.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return report, nil
}

// PacedProcessor acquires the job's report under the Paced policy.
type PacedProcessor struct {
	Acquirer    ports.ReportAcquirer
	MinDuration time.Duration
}

func (p PacedProcessor) Process(ctx context.Context, job ports.ScanJob) (*domain.LeakAnalysisReport, error) {
	return Paced(ctx, p.MinDuration, func(ctx context.Context) *domain.LeakAnalysisReport {
		return p.Acquirer.Acquire(ctx, job.Email)
	})
}

// Runner is a bounded scan queue drained by a fixed set of workers.
type Runner struct {
	processor   ports.ScanProcessor
	concurrency int
	jobs        chan ports.ScanJob
	log         *zap.Logger

	mu      sync.RWMutex
	running bool
	done    chan struct{}
}

func New(processor ports.ScanProcessor, concurrency, queueSize int, log *zap.Logger) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		processor:   processor,
		concurrency: concurrency,
		jobs:        make(chan ports.ScanJob, queueSize),
		log:         log,
		done:        make(chan struct{}),
	}
}

// Submit enqueues job without blocking.
func (r *Runner) Submit(job ports.ScanJob) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.running {
		return ErrStopped
	}
	select {
	case r.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Start launches the workers. They stop when ctx is cancelled; jobs still
// queued at that point are reported to sink as failed.
func (r *Runner) Start(ctx context.Context, sink ports.ScanSink) {
	r.mu.Lock()
	r.running = true
	r.mu.Unlock()

	var wg sync.WaitGroup
	for i := 0; i < r.concurrency; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case job := <-r.jobs:
					if ctx.Err() != nil {
						r.markStopped(ctx, sink, job)
						return
					}
					if err := ProcessInline(ctx, sink, r.processor, job); err != nil {
						r.log.Warn("scan job failed", zap.Int("worker", idx), zap.String("scan_id", job.ID), zap.Error(err))
					}
				}
			}
		}(i)
	}

	go func() {
		<-ctx.Done()
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
		wg.Wait()
		for {
			select {
			case job := <-r.jobs:
				r.markStopped(ctx, sink, job)
			default:
				close(r.done)
				return
			}
		}
	}()
}

func (r *Runner) markStopped(ctx context.Context, sink ports.ScanSink, job ports.ScanJob) {
	if err := sink.MarkFailed(context.WithoutCancel(ctx), job, "scan runner stopped"); err != nil {
		r.log.Warn("mark failed", zap.String("scan_id", job.ID), zap.Error(err))
	}
}

// Wait blocks until a started runner has shut down.
func (r *Runner) Wait() { <-r.done }

// ProcessInline processes one job synchronously with the same processor the
// workers use and hands the outcome to sink.
func ProcessInline(ctx context.Context, sink ports.ScanSink, processor ports.ScanProcessor, job ports.ScanJob) error {
	report, err := processor.Process(ctx, job)
	if err != nil {
		if markErr := sink.MarkFailed(context.WithoutCancel(ctx), job, err.Error()); markErr != nil {
			return errors.Join(err, markErr)
		}
		return err
	}
	return sink.MarkCompleted(ctx, job, report)
}
