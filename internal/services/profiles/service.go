package profiles

import (
	"context"

	"leakwatch/internal/domain"
	"leakwatch/internal/ports"
)

// Profile is the risk summary shown right after a scan.
type Profile struct {
	Score                 float64                 `json:"score"`
	Intensity             domain.Intensity        `json:"intensity"`
	LeakCount             int                     `json:"leakCount"`
	CompromisedRecords    int                     `json:"compromisedRecords"`
	ExposureMapPercentage float64                 `json:"exposureMapPercentage"`
	MitigationSummary     string                  `json:"mitigationSummary"`
	SeverityCounts        map[domain.Severity]int `json:"severityCounts"`
}

type Service struct {
	reports ports.CurrentReports
}

func New(reports ports.CurrentReports) *Service { return &Service{reports: reports} }

// GetLatest summarizes the report the session currently displays.
func (s *Service) GetLatest(ctx context.Context, sessionID string) (Profile, error) {
	report, found, err := s.reports.CurrentReport(ctx, sessionID)
	if err != nil {
		return Profile{}, err
	}
	if !found {
		return Profile{}, ErrNotFound
	}
	return Summarize(report), nil
}

func Summarize(r *domain.LeakAnalysisReport) Profile {
	counts := map[domain.Severity]int{
		domain.SeverityHigh: 0,
		domain.SeverityMid:  0,
		domain.SeverityLow:  0,
	}
	for _, inc := range r.Incidents {
		counts[inc.Severity]++
	}
	return Profile{
		Score:                 r.Score,
		Intensity:             r.Intensity,
		LeakCount:             len(r.Incidents),
		CompromisedRecords:    r.CompromisedRecords,
		ExposureMapPercentage: r.ExposureMapPercentage,
		MitigationSummary:     r.MitigationSummary,
		SeverityCounts:        counts,
	}
}

var ErrNotFound = errString("no report selected")

type errString string

func (e errString) Error() string { return string(e) }
