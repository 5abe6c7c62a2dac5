// Package api provides primitives to interact with the openapi HTTP API.
//
// Generated from openapi.yaml by oapi-codegen (see generate.go).
package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"leakwatch/internal/domain"
	"leakwatch/internal/services/profiles"
	"leakwatch/internal/services/remediation"
)

// Defines values for EventType.
const (
	EventTypeDetailedLog EventType = "detailed_log"
	EventTypeNavAbout    EventType = "nav_about"
	EventTypeNavConsole  EventType = "nav_console"
	EventTypeNavEntropy  EventType = "nav_entropy"
	EventTypeNavHistory  EventType = "nav_history"
	EventTypeNavHome     EventType = "nav_home"
	EventTypeRemediate   EventType = "remediate"
	EventTypeStart       EventType = "start"
)

// Defines values for View.
const (
	ViewAbout       View = "about"
	ViewEntropy     View = "entropy"
	ViewHistory     View = "history"
	ViewInput       View = "input"
	ViewLanding     View = "landing"
	ViewRemediation View = "remediation"
	ViewReport      View = "report"
	ViewRiskProfile View = "riskProfile"
	ViewScanning    View = "scanning"
)

// Error defines model for Error.
type Error struct {
	Message string `json:"message"`
}

// EventType defines model for EventType.
type EventType string

// Health defines model for Health.
type Health struct {
	Status *string `json:"status,omitempty"`
}

// History defines model for History.
type History struct {
	Reports []LeakAnalysisReport `json:"reports"`
}

// LeakAnalysisReport defines model for LeakAnalysisReport.
type LeakAnalysisReport = domain.LeakAnalysisReport

// Remediation defines model for Remediation.
type Remediation = remediation.Status

// RiskProfile defines model for RiskProfile.
type RiskProfile = profiles.Profile

// ScanAccepted defines model for ScanAccepted.
type ScanAccepted struct {
	ScanId    string `json:"scanId"`
	SessionId string `json:"sessionId"`
}

// ScanRequest defines model for ScanRequest.
type ScanRequest struct {
	Authorized bool   `json:"authorized"`
	Email      string `json:"email"`
}

// SessionEvent defines model for SessionEvent.
type SessionEvent struct {
	Type EventType `json:"type"`
}

// SessionState defines model for SessionState.
type SessionState struct {
	HistorySize int                 `json:"historySize"`
	Id          string              `json:"id"`
	Report      *LeakAnalysisReport `json:"report,omitempty"`
	ScanId      *string             `json:"scanId,omitempty"`
	Scanning    bool                `json:"scanning"`
	User        *UserContext        `json:"user,omitempty"`
	View        View                `json:"view"`
}

// UserContext defines model for UserContext.
type UserContext = domain.UserContext

// View defines model for View.
type View string

// Index defines model for Index.
type Index = int

// SessionId defines model for SessionId.
type SessionId = string

// StartScanParams defines parameters for StartScan.
type StartScanParams struct {
	Wait *bool `form:"wait,omitempty" json:"wait,omitempty"`
}

// PostSessionEventJSONRequestBody defines body for PostSessionEvent for application/json ContentType.
type PostSessionEventJSONRequestBody = SessionEvent

// StartScanJSONRequestBody defines body for StartScan for application/json ContentType.
type StartScanJSONRequestBody = ScanRequest

// ServerInterface represents all server handlers.
type ServerInterface interface {

	// (GET /healthz)
	GetHealthz(w http.ResponseWriter, r *http.Request)

	// (POST /sessions)
	CreateSession(w http.ResponseWriter, r *http.Request)

	// (GET /sessions/{sessionId})
	GetSession(w http.ResponseWriter, r *http.Request, sessionId SessionId)

	// (POST /sessions/{sessionId}/events)
	PostSessionEvent(w http.ResponseWriter, r *http.Request, sessionId SessionId)

	// (GET /sessions/{sessionId}/history)
	ListHistory(w http.ResponseWriter, r *http.Request, sessionId SessionId)

	// (POST /sessions/{sessionId}/history/{index}/select)
	SelectHistory(w http.ResponseWriter, r *http.Request, sessionId SessionId, index Index)

	// (GET /sessions/{sessionId}/profile)
	GetRiskProfile(w http.ResponseWriter, r *http.Request, sessionId SessionId)

	// (GET /sessions/{sessionId}/remediation)
	GetRemediation(w http.ResponseWriter, r *http.Request, sessionId SessionId)

	// (POST /sessions/{sessionId}/remediation/{index}/toggle)
	ToggleRemediation(w http.ResponseWriter, r *http.Request, sessionId SessionId, index Index)

	// (POST /sessions/{sessionId}/scans)
	StartScan(w http.ResponseWriter, r *http.Request, sessionId SessionId, params StartScanParams)
}

// ServerInterfaceWrapper converts contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler            ServerInterface
	HandlerMiddlewares []MiddlewareFunc
	ErrorHandlerFunc   func(w http.ResponseWriter, r *http.Request, err error)
}

type MiddlewareFunc func(http.Handler) http.Handler

func (siw *ServerInterfaceWrapper) serve(w http.ResponseWriter, r *http.Request, h http.Handler) {
	for _, middleware := range siw.HandlerMiddlewares {
		h = middleware(h)
	}
	h.ServeHTTP(w, r)
}

func (siw *ServerInterfaceWrapper) bindSessionId(w http.ResponseWriter, r *http.Request) (SessionId, bool) {
	var sessionId SessionId
	err := runtime.BindStyledParameterWithOptions("simple", "sessionId", chi.URLParam(r, "sessionId"), &sessionId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "sessionId", Err: err})
		return "", false
	}
	return sessionId, true
}

func (siw *ServerInterfaceWrapper) bindIndex(w http.ResponseWriter, r *http.Request) (Index, bool) {
	var index Index
	err := runtime.BindStyledParameterWithOptions("simple", "index", chi.URLParam(r, "index"), &index, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "index", Err: err})
		return 0, false
	}
	return index, true
}

// GetHealthz operation middleware
func (siw *ServerInterfaceWrapper) GetHealthz(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetHealthz(w, r)
	}))
}

// CreateSession operation middleware
func (siw *ServerInterfaceWrapper) CreateSession(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.CreateSession(w, r)
	}))
}

// GetSession operation middleware
func (siw *ServerInterfaceWrapper) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionId, ok := siw.bindSessionId(w, r)
	if !ok {
		return
	}
	siw.serve(w, r, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetSession(w, r, sessionId)
	}))
}

// PostSessionEvent operation middleware
func (siw *ServerInterfaceWrapper) PostSessionEvent(w http.ResponseWriter, r *http.Request) {
	sessionId, ok := siw.bindSessionId(w, r)
	if !ok {
		return
	}
	siw.serve(w, r, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.PostSessionEvent(w, r, sessionId)
	}))
}

// ListHistory operation middleware
func (siw *ServerInterfaceWrapper) ListHistory(w http.ResponseWriter, r *http.Request) {
	sessionId, ok := siw.bindSessionId(w, r)
	if !ok {
		return
	}
	siw.serve(w, r, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.ListHistory(w, r, sessionId)
	}))
}

// SelectHistory operation middleware
func (siw *ServerInterfaceWrapper) SelectHistory(w http.ResponseWriter, r *http.Request) {
	sessionId, ok := siw.bindSessionId(w, r)
	if !ok {
		return
	}
	index, ok := siw.bindIndex(w, r)
	if !ok {
		return
	}
	siw.serve(w, r, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.SelectHistory(w, r, sessionId, index)
	}))
}

// GetRiskProfile operation middleware
func (siw *ServerInterfaceWrapper) GetRiskProfile(w http.ResponseWriter, r *http.Request) {
	sessionId, ok := siw.bindSessionId(w, r)
	if !ok {
		return
	}
	siw.serve(w, r, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetRiskProfile(w, r, sessionId)
	}))
}

// GetRemediation operation middleware
func (siw *ServerInterfaceWrapper) GetRemediation(w http.ResponseWriter, r *http.Request) {
	sessionId, ok := siw.bindSessionId(w, r)
	if !ok {
		return
	}
	siw.serve(w, r, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetRemediation(w, r, sessionId)
	}))
}

// ToggleRemediation operation middleware
func (siw *ServerInterfaceWrapper) ToggleRemediation(w http.ResponseWriter, r *http.Request) {
	sessionId, ok := siw.bindSessionId(w, r)
	if !ok {
		return
	}
	index, ok := siw.bindIndex(w, r)
	if !ok {
		return
	}
	siw.serve(w, r, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.ToggleRemediation(w, r, sessionId, index)
	}))
}

// StartScan operation middleware
func (siw *ServerInterfaceWrapper) StartScan(w http.ResponseWriter, r *http.Request) {
	sessionId, ok := siw.bindSessionId(w, r)
	if !ok {
		return
	}

	var params StartScanParams
	if err := runtime.BindQueryParameter("form", true, false, "wait", r.URL.Query(), &params.Wait); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "wait", Err: err})
		return
	}

	siw.serve(w, r, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.StartScan(w, r, sessionId, params)
	}))
}

type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error {
	return e.Err
}

// Handler creates http.Handler with routing matching OpenAPI spec.
func Handler(si ServerInterface) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{})
}

type ChiServerOptions struct {
	BaseURL          string
	BaseRouter       chi.Router
	Middlewares      []MiddlewareFunc
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// HandlerFromMux creates http.Handler with routing matching OpenAPI spec based on the provided mux.
func HandlerFromMux(si ServerInterface, r chi.Router) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{
		BaseRouter: r,
	})
}

// HandlerWithOptions creates http.Handler with additional options
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter

	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := ServerInterfaceWrapper{
		Handler:            si,
		HandlerMiddlewares: options.Middlewares,
		ErrorHandlerFunc:   options.ErrorHandlerFunc,
	}

	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/healthz", wrapper.GetHealthz)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/sessions", wrapper.CreateSession)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/sessions/{sessionId}", wrapper.GetSession)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/sessions/{sessionId}/events", wrapper.PostSessionEvent)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/sessions/{sessionId}/history", wrapper.ListHistory)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/sessions/{sessionId}/history/{index}/select", wrapper.SelectHistory)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/sessions/{sessionId}/profile", wrapper.GetRiskProfile)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/sessions/{sessionId}/remediation", wrapper.GetRemediation)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/sessions/{sessionId}/remediation/{index}/toggle", wrapper.ToggleRemediation)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/sessions/{sessionId}/scans", wrapper.StartScan)
	})

	return r
}
