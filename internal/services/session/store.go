package session

import "leakwatch/internal/domain"

// Store is the in-memory scan history of one session, most recent first.
// It has a single owner and does no locking of its own.
type Store struct {
	reports []*domain.LeakAnalysisReport
}

func NewStore() *Store { return &Store{} }

// Record prepends r. Duplicates are kept.
func (s *Store) Record(r *domain.LeakAnalysisReport) {
	s.reports = append([]*domain.LeakAnalysisReport{r}, s.reports...)
}

// All returns the history in order. The slice is a copy; the reports are shared.
func (s *Store) All() []*domain.LeakAnalysisReport {
	out := make([]*domain.LeakAnalysisReport, len(s.reports))
	copy(out, s.reports)
	return out
}

func (s *Store) Len() int { return len(s.reports) }

// At returns the i-th most recent report.
func (s *Store) At(i int) (*domain.LeakAnalysisReport, bool) {
	if i < 0 || i >= len(s.reports) {
		return nil, false
	}
	return s.reports[i], true
}

// Select hands back r unchanged so it can become the current report.
func (s *Store) Select(r *domain.LeakAnalysisReport) *domain.LeakAnalysisReport { return r }
