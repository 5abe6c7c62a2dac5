package acquisition

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"leakwatch/internal/domain"
)

const reportSchemaURL = "https://leakwatch.local/schema/leak-analysis-report.json"

func str() *domain.Schema { return &domain.Schema{Type: domain.TypeString} }

func object(required []string, props map[string]*domain.Schema) *domain.Schema {
	return &domain.Schema{Type: domain.TypeObject, Properties: props, Order: required, Required: required}
}

// ReportSchema is the output contract requested from the report source.
func ReportSchema() *domain.Schema {
	minIncidents := 1
	zero := 0.0

	metadata := object(
		[]string{"sourceOrigin", "vectorType", "dataFormat", "leakDomain", "threatActor", "validity"},
		map[string]*domain.Schema{
			"sourceOrigin": str(),
			"vectorType":   str(),
			"dataFormat":   str(),
			"leakDomain":   str(),
			"threatActor":  str(),
			"validity":     str(),
		},
	)
	incident := object(
		[]string{"id", "title", "description", "date", "time", "severity", "tags", "metadata"},
		map[string]*domain.Schema{
			"id":          str(),
			"title":       str(),
			"description": str(),
			"date":        str(),
			"time":        str(),
			"severity": {
				Type: domain.TypeString,
				Enum: []string{string(domain.SeverityHigh), string(domain.SeverityMid), string(domain.SeverityLow)},
			},
			"tags":     {Type: domain.TypeArray, Items: str()},
			"metadata": metadata,
		},
	)
	return object(
		[]string{"score", "compromisedRecords", "intensity", "exposureMapPercentage", "mitigationSummary", "incidents"},
		map[string]*domain.Schema{
			"score":              {Type: domain.TypeNumber},
			"compromisedRecords": {Type: domain.TypeNumber, Minimum: &zero},
			"intensity": {
				Type: domain.TypeString,
				Enum: []string{string(domain.IntensityHighLume), string(domain.IntensityModerate), string(domain.IntensityLow)},
			},
			"exposureMapPercentage": {Type: domain.TypeNumber},
			"mitigationSummary":     str(),
			"incidents":             {Type: domain.TypeArray, Items: incident, MinItems: &minIncidents},
		},
	)
}

func compileSchema(s *domain.Schema) (*jsonschema.Schema, error) {
	doc, err := json.Marshal(s.JSONSchema())
	if err != nil {
		return nil, fmt.Errorf("marshal report schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(reportSchemaURL, bytes.NewReader(doc)); err != nil {
		return nil, fmt.Errorf("add report schema: %w", err)
	}
	compiled, err := compiler.Compile(reportSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile report schema: %w", err)
	}
	return compiled, nil
}
