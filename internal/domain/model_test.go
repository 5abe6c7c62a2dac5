package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackReportValues(t *testing.T) {
	r := FallbackReport()
	assert.Equal(t, 78.0, r.Score)
	assert.Equal(t, 1240, r.CompromisedRecords)
	assert.Equal(t, IntensityHighLume, r.Intensity)
	assert.Equal(t, 84.0, r.ExposureMapPercentage)
	require.Len(t, r.Incidents, 1)
	assert.Equal(t, "BR-9092", r.Incidents[0].ID)
	assert.NoError(t, r.Validate())
}

func TestFallbackReportIsFreshEachCall(t *testing.T) {
	a, b := FallbackReport(), FallbackReport()
	require.NotSame(t, a, b)
	a.Incidents[0].Tags[0] = "changed"
	assert.Equal(t, "Passwords", b.Incidents[0].Tags[0])
}

func TestValidateRejectsDuplicateIncidentIDs(t *testing.T) {
	r := FallbackReport()
	r.Incidents = append(r.Incidents, r.Incidents[0])
	assert.ErrorContains(t, r.Validate(), "duplicate incident id")
}

func TestNewUserContextTimestamp(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.FixedZone("X", 3600))
	u := NewUserContext("a@b.com", true, now)
	assert.Equal(t, "2024-03-01T09:00:00Z", u.Timestamp)
	assert.True(t, u.Authorized)
}

func TestSchemaJSONSchema(t *testing.T) {
	one := 1
	s := &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"tags":     {Type: TypeArray, Items: &Schema{Type: TypeString}, MinItems: &one},
			"severity": {Type: TypeString, Enum: []string{"high", "low"}},
		},
		Required: []string{"tags"},
	}
	doc := s.JSONSchema()
	assert.Equal(t, "object", doc["type"])
	assert.Equal(t, []any{"tags"}, doc["required"])
	props := doc["properties"].(map[string]any)
	tags := props["tags"].(map[string]any)
	assert.Equal(t, 1, tags["minItems"])
	assert.Equal(t, map[string]any{"type": "string"}, tags["items"])
	assert.Equal(t, []any{"high", "low"}, props["severity"].(map[string]any)["enum"])
}
