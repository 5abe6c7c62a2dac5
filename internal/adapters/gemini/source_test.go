package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"leakwatch/internal/domain"
	"leakwatch/internal/services/acquisition"
)

func TestGenerateWithoutKeyFails(t *testing.T) {
	src := New(context.Background(), Config{}, nil)
	_, err := src.Generate(context.Background(), "prompt", acquisition.ReportSchema())
	require.ErrorIs(t, err, ErrMissingCredential)
	assert.Equal(t, DefaultModel, src.model)
}

func TestToGenAISchema(t *testing.T) {
	s := ToGenAISchema(acquisition.ReportSchema())
	require.NotNil(t, s)
	assert.Equal(t, genai.TypeObject, s.Type)
	assert.Contains(t, s.Required, "incidents")
	assert.Equal(t, []string{"score", "compromisedRecords", "intensity", "exposureMapPercentage", "mitigationSummary", "incidents"}, s.PropertyOrdering)

	incidents := s.Properties["incidents"]
	assert.Equal(t, genai.TypeArray, incidents.Type)
	require.NotNil(t, incidents.MinItems)
	assert.EqualValues(t, 1, *incidents.MinItems)

	severity := incidents.Items.Properties["severity"]
	assert.Equal(t, []string{"high", "mid", "low"}, severity.Enum)
	records := s.Properties["compromisedRecords"]
	assert.Equal(t, genai.TypeNumber, records.Type)
	require.NotNil(t, records.Minimum)
	assert.Zero(t, *records.Minimum)
	assert.Len(t, incidents.Items.Properties["metadata"].Required, 6)
	assert.Nil(t, ToGenAISchema(nil))
}

func TestGenerateAgainstFakeEndpoint(t *testing.T) {
	const reportJSON = `{"score":10}`
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			http.NotFound(w, r)
			return
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{
					"role":  "model",
					"parts": []any{map[string]any{"text": reportJSON}},
				},
				"finishReason": "STOP",
			}},
		})
	}))
	defer srv.Close()

	src := New(context.Background(), Config{APIKey: "test-key", BaseURL: srv.URL}, nil)
	out, err := src.Generate(context.Background(), "scan a@b.com", &domain.Schema{Type: domain.TypeObject})
	require.NoError(t, err)
	assert.JSONEq(t, reportJSON, string(out))

	genCfg, ok := gotBody["generationConfig"].(map[string]any)
	require.True(t, ok, "request carries generationConfig")
	assert.Equal(t, "application/json", genCfg["responseMimeType"])
}

func TestGenerateSurfacesServiceErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":500,"message":"boom","status":"INTERNAL"}}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	src := New(context.Background(), Config{APIKey: "test-key", BaseURL: srv.URL}, nil)
	_, err := src.Generate(context.Background(), "scan", &domain.Schema{Type: domain.TypeObject})
	require.Error(t, err)
}
