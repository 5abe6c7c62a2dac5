package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"leakwatch/internal/domain"
	"leakwatch/internal/services/remediation"
	"leakwatch/internal/services/viewstate"
)

var (
	ErrNotFound = errors.New("session not found")
	// ErrScanInFlight rejects a submit while the session still waits for a
	// previous scan.
	ErrScanInFlight = errors.New("a scan is already in flight for this session")
	ErrUnknownScan  = errors.New("scan does not belong to this session")
	ErrHistoryIndex = errors.New("history index out of range")
)

// Session is the controller behind one client: it owns the view machine,
// the history store, the current report and user context. Every method
// takes the session lock, so a session has exactly one logical actor.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu        sync.Mutex
	machine   *viewstate.Machine
	store     *Store
	current   *domain.LeakAnalysisReport
	user      *domain.UserContext
	inflight  string
	checklist *remediation.Checklist
}

func New(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		CreatedAt: now,
		machine:   viewstate.NewMachine(),
		store:     NewStore(),
		checklist: remediation.NewChecklist(),
	}
}

type Snapshot struct {
	ID          string
	View        viewstate.State
	User        *domain.UserContext
	Report      *domain.LeakAnalysisReport
	Scanning    bool
	ScanID      string
	HistorySize int
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		ID:          s.ID,
		View:        s.machine.Current(),
		Report:      s.current,
		Scanning:    s.inflight != "",
		ScanID:      s.inflight,
		HistorySize: s.store.Len(),
	}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

// Dispatch applies a navigation event. Submit, completion and history
// selection have dedicated methods because they carry data.
func (s *Session) Dispatch(e viewstate.Event) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch e.Kind {
	case viewstate.EventSubmit, viewstate.EventScanComplete, viewstate.EventSelectReport, viewstate.EventScanAborted:
		return s.snapshotLocked(), fmt.Errorf("%w: %q cannot be dispatched directly", viewstate.ErrInvalidTransition, e.Kind)
	}
	from := s.machine.Current()
	to, err := s.machine.Apply(e)
	if err != nil {
		return s.snapshotLocked(), err
	}
	if to == viewstate.Remediation && from != viewstate.Remediation {
		s.checklist.Reset()
	}
	return s.snapshotLocked(), nil
}

// BeginScan runs the input guard, creates the user context and marks scanID
// as the one outstanding scan.
func (s *Session) BeginScan(scanID, email string, authorized bool, now time.Time) (domain.UserContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inflight != "" {
		return domain.UserContext{}, ErrScanInFlight
	}
	if _, err := s.machine.Apply(viewstate.Submit(email, authorized)); err != nil {
		return domain.UserContext{}, err
	}
	user := domain.NewUserContext(email, authorized, now)
	s.user = &user
	s.inflight = scanID
	return user, nil
}

// CompleteScan records the report and only then moves to the risk profile,
// so history is current by the time the result screen is visible.
func (s *Session) CompleteScan(scanID string, report *domain.LeakAnalysisReport) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if scanID == "" || scanID != s.inflight {
		return s.snapshotLocked(), ErrUnknownScan
	}
	s.store.Record(report)
	s.current = report
	s.inflight = ""
	if _, err := s.machine.Apply(viewstate.Event{Kind: viewstate.EventScanComplete}); err != nil {
		return s.snapshotLocked(), err
	}
	return s.snapshotLocked(), nil
}

// AbandonScan clears the in-flight marker without recording anything. A
// session still showing the scanning screen goes back to input.
func (s *Session) AbandonScan(scanID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if scanID == "" || scanID != s.inflight {
		return ErrUnknownScan
	}
	s.inflight = ""
	if s.machine.Current() == viewstate.Scanning {
		_, _ = s.machine.Apply(viewstate.Event{Kind: viewstate.EventScanAborted})
	}
	return nil
}

func (s *Session) History() []*domain.LeakAnalysisReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.All()
}

// SelectHistory makes the i-th most recent report current and shows it.
func (s *Session) SelectHistory(i int) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.store.At(i)
	if !ok {
		return s.snapshotLocked(), ErrHistoryIndex
	}
	if _, err := s.machine.Apply(viewstate.Event{Kind: viewstate.EventSelectReport}); err != nil {
		return s.snapshotLocked(), err
	}
	s.current = s.store.Select(r)
	return s.snapshotLocked(), nil
}

func (s *Session) Current() (*domain.LeakAnalysisReport, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.current != nil
}

func (s *Session) Remediation() remediation.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checklist.Status()
}

func (s *Session) ToggleRemediation(i int) (remediation.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.checklist.Toggle(i); err != nil {
		return s.checklist.Status(), err
	}
	return s.checklist.Status(), nil
}
