package ports

import (
	"context"

	"leakwatch/internal/domain"
)

type ScanJob struct {
	ID        string
	SessionID string
	Email     string
}

// ScanProcessor performs the scan work for a job.
type ScanProcessor interface {
	Process(ctx context.Context, job ScanJob) (*domain.LeakAnalysisReport, error)
}

// ScanQueue accepts jobs for background processing.
type ScanQueue interface {
	Submit(job ScanJob) error
}

// ScanSink receives the outcome of processed jobs.
type ScanSink interface {
	MarkCompleted(ctx context.Context, job ScanJob, report *domain.LeakAnalysisReport) error
	MarkFailed(ctx context.Context, job ScanJob, reason string) error
}
