package domain

import (
	"fmt"
	"time"
)

// Core domain models used internally. The HTTP API reuses these shapes
// directly (see x-go-type in internal/api/openapi.yaml), so the json tags
// here are the wire contract.

type Severity string

const (
	SeverityHigh Severity = "high"
	SeverityMid  Severity = "mid"
	SeverityLow  Severity = "low"
)

type Intensity string

const (
	IntensityHighLume Intensity = "High Lume"
	IntensityModerate Intensity = "Moderate"
	IntensityLow      Intensity = "Low"
)

type BreachIncidentMetadata struct {
	SourceOrigin string `json:"sourceOrigin"`
	VectorType   string `json:"vectorType"`
	DataFormat   string `json:"dataFormat"`
	LeakDomain   string `json:"leakDomain"`
	ThreatActor  string `json:"threatActor"`
	Validity     string `json:"validity"`
	TraceID      string `json:"traceId,omitempty"`
}

// BreachIncident is one fabricated leak entry. Date and Time are display
// strings and are never parsed.
type BreachIncident struct {
	ID          string                 `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Date        string                 `json:"date"`
	Time        string                 `json:"time"`
	Severity    Severity               `json:"severity"`
	Tags        []string               `json:"tags"`
	Metadata    BreachIncidentMetadata `json:"metadata"`
}

// LeakAnalysisReport is immutable once produced by acquisition.
type LeakAnalysisReport struct {
	Score                 float64          `json:"score"`
	CompromisedRecords    int              `json:"compromisedRecords"`
	Intensity             Intensity        `json:"intensity"`
	ExposureMapPercentage float64          `json:"exposureMapPercentage"`
	MitigationSummary     string           `json:"mitigationSummary"`
	Incidents             []BreachIncident `json:"incidents"`
}

// Validate checks the rules a JSON schema cannot express.
func (r *LeakAnalysisReport) Validate() error {
	seen := make(map[string]struct{}, len(r.Incidents))
	for _, inc := range r.Incidents {
		if _, dup := seen[inc.ID]; dup {
			return fmt.Errorf("duplicate incident id %q", inc.ID)
		}
		seen[inc.ID] = struct{}{}
	}
	if r.CompromisedRecords < 0 {
		return fmt.Errorf("negative compromisedRecords %d", r.CompromisedRecords)
	}
	return nil
}

// UserContext is created once per scan, right before acquisition starts.
type UserContext struct {
	Email      string `json:"email"`
	Authorized bool   `json:"authorized"`
	Timestamp  string `json:"timestamp"`
}

func NewUserContext(email string, authorized bool, now time.Time) UserContext {
	return UserContext{
		Email:      email,
		Authorized: authorized,
		Timestamp:  now.UTC().Format(time.RFC3339Nano),
	}
}
