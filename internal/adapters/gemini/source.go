package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"leakwatch/internal/domain"
)

const DefaultModel = "gemini-3-flash-preview"

// ErrMissingCredential is returned by Generate when no API key was configured.
var ErrMissingCredential = errors.New("gemini api key is not configured")

type Config struct {
	APIKey string
	Model  string
	// BaseURL overrides the API endpoint; empty uses the SDK default.
	BaseURL string
}

// Source implements ports.ReportSource over the Gemini API in JSON mode.
type Source struct {
	client *genai.Client
	model  string
	log    *zap.Logger
}

// New never fails: a missing key or a client that cannot be built leaves the
// source in a state where every Generate call errors, so acquisition falls
// back instead of the process refusing to start.
func New(ctx context.Context, cfg Config, log *zap.Logger) *Source {
	if log == nil {
		log = zap.NewNop()
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	s := &Source{model: model, log: log}
	if cfg.APIKey == "" {
		log.Warn("gemini api key missing, report acquisition will use the fallback report")
		return s
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		log.Error("failed to create gemini client", zap.Error(err))
		return s
	}
	s.client = client
	return s
}

func (s *Source) Generate(ctx context.Context, prompt string, schema *domain.Schema) ([]byte, error) {
	if s.client == nil {
		return nil, ErrMissingCredential
	}
	resp, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   ToGenAISchema(schema),
	})
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("gemini returned an empty response")
	}
	return []byte(text), nil
}

// ToGenAISchema converts the neutral schema into the SDK's representation.
func ToGenAISchema(s *domain.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:     toGenAIType(s.Type),
		Required: s.Required,
		Enum:     s.Enum,
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, p := range s.Properties {
			out.Properties[name] = ToGenAISchema(p)
		}
		out.PropertyOrdering = s.Order
	}
	if s.Items != nil {
		out.Items = ToGenAISchema(s.Items)
	}
	if s.MinItems != nil {
		n := int64(*s.MinItems)
		out.MinItems = &n
	}
	if s.Minimum != nil {
		m := *s.Minimum
		out.Minimum = &m
	}
	return out
}

func toGenAIType(t domain.SchemaType) genai.Type {
	switch t {
	case domain.TypeObject:
		return genai.TypeObject
	case domain.TypeArray:
		return genai.TypeArray
	case domain.TypeNumber:
		return genai.TypeNumber
	case domain.TypeInteger:
		return genai.TypeInteger
	default:
		return genai.TypeString
	}
}
