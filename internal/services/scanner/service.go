package scanner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"leakwatch/internal/domain"
	"leakwatch/internal/ports"
	"leakwatch/internal/services/acquisition"
	"leakwatch/internal/services/session"
	scanrunner "leakwatch/internal/workers/scanrunner"
)

// Service starts scans for sessions and receives their results. It is the
// ScanSink of the background runner.
type Service struct {
	sessions  *session.Registry
	queue     ports.ScanQueue
	processor ports.ScanProcessor
	log       *zap.Logger
	now       func() time.Time
}

func New(sessions *session.Registry, queue ports.ScanQueue, processor ports.ScanProcessor, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{sessions: sessions, queue: queue, processor: processor, log: log, now: time.Now}
}

// Start moves the session into scanning and queues the acquisition. The
// returned scan id completes asynchronously.
func (s *Service) Start(ctx context.Context, sessionID, email string, authorized bool) (string, error) {
	sess, job, err := s.begin(sessionID, email, authorized)
	if err != nil {
		return "", err
	}
	if err := s.queue.Submit(job); err != nil {
		_ = sess.AbandonScan(job.ID)
		return "", err
	}
	return job.ID, nil
}

// ScanInline runs the whole scan on the caller's goroutine and returns the
// session once it has reached the risk profile.
func (s *Service) ScanInline(ctx context.Context, sessionID, email string, authorized bool) (session.Snapshot, error) {
	sess, job, err := s.begin(sessionID, email, authorized)
	if err != nil {
		return session.Snapshot{}, err
	}
	// A started scan cannot be aborted by the client going away.
	if err := scanrunner.ProcessInline(context.WithoutCancel(ctx), s, s.processor, job); err != nil {
		return sess.Snapshot(), err
	}
	return sess.Snapshot(), nil
}

func (s *Service) begin(sessionID, email string, authorized bool) (*session.Session, ports.ScanJob, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, ports.ScanJob{}, err
	}
	job := ports.ScanJob{ID: uuid.NewString(), SessionID: sessionID, Email: email}
	if _, err := sess.BeginScan(job.ID, email, authorized, s.now()); err != nil {
		return nil, ports.ScanJob{}, err
	}
	s.log.Info("scan started",
		zap.String("session_id", sessionID),
		zap.String("scan_id", job.ID),
		zap.String("provider_domain", acquisition.ProviderDomain(email)))
	return sess, job, nil
}

func (s *Service) MarkCompleted(ctx context.Context, job ports.ScanJob, report *domain.LeakAnalysisReport) error {
	sess, err := s.sessions.Get(job.SessionID)
	if err != nil {
		return err
	}
	if _, err := sess.CompleteScan(job.ID, report); err != nil {
		return err
	}
	s.log.Info("scan completed", zap.String("session_id", job.SessionID), zap.String("scan_id", job.ID))
	return nil
}

func (s *Service) MarkFailed(ctx context.Context, job ports.ScanJob, reason string) error {
	sess, err := s.sessions.Get(job.SessionID)
	if err != nil {
		return err
	}
	s.log.Warn("scan abandoned", zap.String("session_id", job.SessionID), zap.String("scan_id", job.ID), zap.String("reason", reason))
	return sess.AbandonScan(job.ID)
}
