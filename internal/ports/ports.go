package ports

import (
	"context"

	"leakwatch/internal/domain"
)

// ReportSource produces a JSON document matching schema for the prompt.
// Implementations may fail for any reason; callers own the fallback.
type ReportSource interface {
	Generate(ctx context.Context, prompt string, schema *domain.Schema) ([]byte, error)
}

// ReportAcquirer resolves a report for an email. It never fails.
type ReportAcquirer interface {
	Acquire(ctx context.Context, email string) *domain.LeakAnalysisReport
}

// CurrentReports exposes the report a session is currently displaying.
type CurrentReports interface {
	CurrentReport(ctx context.Context, sessionID string) (report *domain.LeakAnalysisReport, found bool, err error)
}
