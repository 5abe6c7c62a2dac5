package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"leakwatch/internal/domain"
)

// Registry keeps every session for the lifetime of the process.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session), now: time.Now}
}

func (r *Registry) Create() *Session {
	s := New(uuid.NewString(), r.now())
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// CurrentReport implements ports.CurrentReports.
func (r *Registry) CurrentReport(_ context.Context, sessionID string) (*domain.LeakAnalysisReport, bool, error) {
	s, err := r.Get(sessionID)
	if err != nil {
		return nil, false, err
	}
	report, ok := s.Current()
	return report, ok, nil
}
