package remediation

import (
	"errors"
	"math"
)

// Action is one countermeasure on the remediation screen.
type Action struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

var Actions = []Action{
	{ID: "revoke", Title: "Revoke Third-Party Access", Description: "Terminate all active sessions and OAuth tokens connected to compromised vectors."},
	{ID: "password", Title: "Deploy Encrypted Credential Update", Description: "Rotate high-entropy passwords for all affected primary accounts."},
	{ID: "mfa", Title: "Initialize Multi-Factor Authentication", Description: "Secure access points with hardware security keys or biometric verification."},
	{ID: "darkweb", Title: "Monitor Dark Web Surface", Description: "Continuous scanning of illicit marketplaces for recurring PII leakage patterns."},
}

const (
	baseMitigation    = 62.0
	mitigationPerStep = 9.5
)

var ErrActionIndex = errors.New("remediation action index out of range")

// Checklist tracks which actions are resolved. The first action starts
// resolved, but the mitigation stays at its base value until the first
// toggle.
type Checklist struct {
	resolved []bool
	toggled  bool
}

func NewChecklist() *Checklist {
	c := &Checklist{}
	c.Reset()
	return c
}

func (c *Checklist) Reset() {
	c.resolved = make([]bool, len(Actions))
	c.resolved[0] = true
	c.toggled = false
}

// Toggle flips action i and returns its new state.
func (c *Checklist) Toggle(i int) (bool, error) {
	if i < 0 || i >= len(c.resolved) {
		return false, ErrActionIndex
	}
	c.resolved[i] = !c.resolved[i]
	c.toggled = true
	return c.resolved[i], nil
}

func (c *Checklist) Resolved() int {
	n := 0
	for _, r := range c.resolved {
		if r {
			n++
		}
	}
	return n
}

// Mitigation is the displayed mitigation percentage, capped at 100.
func (c *Checklist) Mitigation() float64 {
	if !c.toggled {
		return baseMitigation
	}
	return math.Min(100, baseMitigation+float64(c.Resolved())*mitigationPerStep)
}

type Item struct {
	Action
	Resolved bool `json:"resolved"`
}

type Status struct {
	Items      []Item  `json:"items"`
	Resolved   int     `json:"resolved"`
	Total      int     `json:"total"`
	Mitigation float64 `json:"mitigation"`
}

func (c *Checklist) Status() Status {
	items := make([]Item, len(Actions))
	for i, a := range Actions {
		items[i] = Item{Action: a, Resolved: c.resolved[i]}
	}
	return Status{Items: items, Resolved: c.Resolved(), Total: len(Actions), Mitigation: c.Mitigation()}
}
