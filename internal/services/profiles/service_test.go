package profiles

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leakwatch/internal/adapters/stub"
	"leakwatch/internal/domain"
)

type fakeReports struct {
	report *domain.LeakAnalysisReport
	err    error
}

func (f fakeReports) CurrentReport(context.Context, string) (*domain.LeakAnalysisReport, bool, error) {
	return f.report, f.report != nil, f.err
}

func TestSummarize(t *testing.T) {
	p := Summarize(stub.Report())
	assert.Equal(t, 3, p.LeakCount)
	assert.Equal(t, 64.0, p.Score)
	assert.Equal(t, domain.IntensityModerate, p.Intensity)
	assert.Equal(t, map[domain.Severity]int{"high": 1, "mid": 1, "low": 1}, p.SeverityCounts)
}

func TestGetLatest(t *testing.T) {
	svc := New(fakeReports{report: domain.FallbackReport()})
	p, err := svc.GetLatest(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 1240, p.CompromisedRecords)
	assert.Equal(t, 1, p.SeverityCounts[domain.SeverityHigh])
}

func TestGetLatestWithoutReport(t *testing.T) {
	_, err := New(fakeReports{}).GetLatest(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrNotFound)

	boom := errors.New("boom")
	_, err = New(fakeReports{err: boom}).GetLatest(context.Background(), "s1")
	assert.ErrorIs(t, err, boom)
}
