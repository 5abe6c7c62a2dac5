package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	api "leakwatch/internal/api"
	profilesvc "leakwatch/internal/services/profiles"
	"leakwatch/internal/services/remediation"
	"leakwatch/internal/services/session"
	"leakwatch/internal/services/viewstate"
	scanrunner "leakwatch/internal/workers/scanrunner"
)

// Scanner starts scans for a session, either queued or on the request
// goroutine.
type Scanner interface {
	Start(ctx context.Context, sessionID, email string, authorized bool) (string, error)
	ScanInline(ctx context.Context, sessionID, email string, authorized bool) (session.Snapshot, error)
}

type Profiles interface {
	GetLatest(ctx context.Context, sessionID string) (profilesvc.Profile, error)
}

// Server implements the generated ServerInterface.
type Server struct {
	sessions *session.Registry
	scanner  Scanner
	profiles Profiles
	log      *zap.Logger
}

var _ api.ServerInterface = (*Server)(nil)

func New(sessions *session.Registry, scanner Scanner, profiles Profiles, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{sessions: sessions, scanner: scanner, profiles: profiles, log: log}
}

// Routes returns a chi.Router mounting the generated handlers.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	api.HandlerWithOptions(s, api.ChiServerOptions{
		BaseRouter: r,
		ErrorHandlerFunc: func(w http.ResponseWriter, r *http.Request, err error) {
			s.fail(w, r, http.StatusBadRequest, err)
		},
	})
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

func (s *Server) GetHealthz(w http.ResponseWriter, r *http.Request) {
	ok := "ok"
	render.JSON(w, r, api.Health{Status: &ok})
}

func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create()
	s.log.Debug("session created", zap.String("session_id", sess.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toState(sess.Snapshot()))
}

func (s *Server) GetSession(w http.ResponseWriter, r *http.Request, sessionId api.SessionId) {
	sess, err := s.sessions.Get(sessionId)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	render.JSON(w, r, toState(sess.Snapshot()))
}

func (s *Server) PostSessionEvent(w http.ResponseWriter, r *http.Request, sessionId api.SessionId) {
	var body api.PostSessionEventJSONRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.fail(w, r, http.StatusBadRequest, errors.New("invalid event body"))
		return
	}
	sess, err := s.sessions.Get(sessionId)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	snap, err := sess.Dispatch(viewstate.Event{Kind: viewstate.EventKind(body.Type)})
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	render.JSON(w, r, toState(snap))
}

func (s *Server) StartScan(w http.ResponseWriter, r *http.Request, sessionId api.SessionId, params api.StartScanParams) {
	var body api.StartScanJSONRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.fail(w, r, http.StatusBadRequest, errors.New("invalid scan body"))
		return
	}

	// Blocking path: the response carries the session at its risk profile.
	if params.Wait != nil && *params.Wait {
		snap, err := s.scanner.ScanInline(r.Context(), sessionId, body.Email, body.Authorized)
		if err != nil {
			s.respondErr(w, r, err)
			return
		}
		render.JSON(w, r, toState(snap))
		return
	}

	scanID, err := s.scanner.Start(r.Context(), sessionId, body.Email, body.Authorized)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, api.ScanAccepted{ScanId: scanID, SessionId: sessionId})
}

func (s *Server) ListHistory(w http.ResponseWriter, r *http.Request, sessionId api.SessionId) {
	sess, err := s.sessions.Get(sessionId)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	reports := sess.History()
	out := api.History{Reports: make([]api.LeakAnalysisReport, 0, len(reports))}
	for _, rep := range reports {
		out.Reports = append(out.Reports, *rep)
	}
	render.JSON(w, r, out)
}

func (s *Server) SelectHistory(w http.ResponseWriter, r *http.Request, sessionId api.SessionId, index api.Index) {
	sess, err := s.sessions.Get(sessionId)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	snap, err := sess.SelectHistory(index)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	render.JSON(w, r, toState(snap))
}

func (s *Server) GetRiskProfile(w http.ResponseWriter, r *http.Request, sessionId api.SessionId) {
	prof, err := s.profiles.GetLatest(r.Context(), sessionId)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	render.JSON(w, r, api.RiskProfile(prof))
}

func (s *Server) GetRemediation(w http.ResponseWriter, r *http.Request, sessionId api.SessionId) {
	sess, err := s.sessions.Get(sessionId)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	render.JSON(w, r, api.Remediation(sess.Remediation()))
}

func (s *Server) ToggleRemediation(w http.ResponseWriter, r *http.Request, sessionId api.SessionId, index api.Index) {
	sess, err := s.sessions.Get(sessionId)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	status, err := sess.ToggleRemediation(index)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	render.JSON(w, r, api.Remediation(status))
}

func toState(snap session.Snapshot) api.SessionState {
	out := api.SessionState{
		Id:          snap.ID,
		View:        api.View(snap.View),
		User:        snap.User,
		Report:      snap.Report,
		Scanning:    snap.Scanning,
		HistorySize: snap.HistorySize,
	}
	if snap.ScanID != "" {
		id := snap.ScanID
		out.ScanId = &id
	}
	return out
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrNotFound), errors.Is(err, profilesvc.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, viewstate.ErrSubmissionBlocked),
		errors.Is(err, viewstate.ErrInvalidTransition),
		errors.Is(err, session.ErrScanInFlight):
		return http.StatusConflict
	case errors.Is(err, session.ErrHistoryIndex), errors.Is(err, remediation.ErrActionIndex):
		return http.StatusBadRequest
	case errors.Is(err, scanrunner.ErrQueueFull), errors.Is(err, scanrunner.ErrStopped):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respondErr(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		s.log.Error("request failed", zap.Error(err), zap.String("path", r.URL.Path))
	}
	s.fail(w, r, code, err)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, code int, err error) {
	render.Status(r, code)
	render.JSON(w, r, api.Error{Message: err.Error()})
}
