// Package viewstate holds the screen flow of a LeakWatch session as an
// explicit finite-state machine. Transitions are a pure function of the
// current state and the event; Machine only remembers where it is.
package viewstate

import (
	"errors"
	"fmt"
	"strings"
)

type State string

const (
	Landing     State = "landing"
	Input       State = "input"
	Scanning    State = "scanning"
	RiskProfile State = "riskProfile"
	Report      State = "report"
	Remediation State = "remediation"
	Entropy     State = "entropy"
	History     State = "history"
	About       State = "about"
)

// States lists every screen in declaration order.
var States = []State{Landing, Input, Scanning, RiskProfile, Report, Remediation, Entropy, History, About}

type EventKind string

const (
	EventStart        EventKind = "start"
	EventSubmit       EventKind = "submit"
	EventScanComplete EventKind = "scan_complete"
	EventDetailedLog  EventKind = "detailed_log"
	EventRemediate    EventKind = "remediate"
	EventNavHistory   EventKind = "nav_history"
	EventNavAbout     EventKind = "nav_about"
	EventNavEntropy   EventKind = "nav_entropy"
	EventNavHome      EventKind = "nav_home"
	EventNavConsole   EventKind = "nav_console"
	EventSelectReport EventKind = "select_report"
	// EventScanAborted returns a scan that never started processing to the
	// input screen.
	EventScanAborted EventKind = "scan_aborted"
)

// Event is a user action or a completion signal. Email and Authorized are
// only read for EventSubmit.
type Event struct {
	Kind       EventKind
	Email      string
	Authorized bool
}

func Submit(email string, authorized bool) Event {
	return Event{Kind: EventSubmit, Email: email, Authorized: authorized}
}

var (
	ErrInvalidTransition = errors.New("invalid view transition")
	// ErrSubmissionBlocked means the scan guard rejected the input: the
	// email was empty or authorization was not given.
	ErrSubmissionBlocked = errors.New("scan submission requires an email and authorization")
)

// navigation events are accepted from every state. Completion lands on the
// result screen even if the user wandered off while the scan was running.
var navigation = map[EventKind]State{
	EventNavHistory:   History,
	EventNavAbout:     About,
	EventNavEntropy:   Entropy,
	EventNavHome:      Landing,
	EventNavConsole:   Input,
	EventScanComplete: RiskProfile,
}

type edge struct {
	from State
	kind EventKind
}

var flow = map[edge]State{
	{Landing, EventStart}:           Input,
	{Input, EventSubmit}:            Scanning,
	{RiskProfile, EventDetailedLog}: Report,
	{Report, EventRemediate}:        Remediation,
	{History, EventSelectReport}:    Report,
	{Scanning, EventScanAborted}:    Input,
}

// Next returns the state reached from s on e. On error the caller must stay
// in s.
func Next(s State, e Event) (State, error) {
	if to, ok := navigation[e.Kind]; ok {
		return to, nil
	}
	to, ok := flow[edge{s, e.Kind}]
	if !ok {
		return s, fmt.Errorf("%w: %s on %q", ErrInvalidTransition, s, e.Kind)
	}
	if e.Kind == EventSubmit && !CanSubmit(e.Email, e.Authorized) {
		return s, ErrSubmissionBlocked
	}
	return to, nil
}

// CanSubmit is the input screen guard.
func CanSubmit(email string, authorized bool) bool {
	return authorized && strings.TrimSpace(email) != ""
}

// Valid reports whether s names a known screen.
func Valid(s State) bool {
	for _, known := range States {
		if s == known {
			return true
		}
	}
	return false
}

// Machine is not safe for concurrent use; its owner serializes access.
type Machine struct {
	current State
}

func NewMachine() *Machine { return &Machine{current: Landing} }

func (m *Machine) Current() State { return m.current }

// Apply moves the machine along e, leaving it untouched on error.
func (m *Machine) Apply(e Event) (State, error) {
	to, err := Next(m.current, e)
	if err != nil {
		return m.current, err
	}
	m.current = to
	return to, nil
}
