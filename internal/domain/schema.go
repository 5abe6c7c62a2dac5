package domain

// SchemaType names a JSON value kind in a provider-neutral way.
type SchemaType string

const (
	TypeObject  SchemaType = "object"
	TypeArray   SchemaType = "array"
	TypeString  SchemaType = "string"
	TypeNumber  SchemaType = "number"
	TypeInteger SchemaType = "integer"
)

// Schema describes the JSON document a ReportSource must produce. Adapters
// translate it into their provider's format; acquisition compiles the same
// value into a JSON Schema for local validation.
type Schema struct {
	Type       SchemaType
	Properties map[string]*Schema
	// Order keeps property declaration order stable for providers that care.
	Order    []string
	Items    *Schema
	Required []string
	Enum     []string
	MinItems *int
	Minimum  *float64
}

// JSONSchema renders s as a draft 2020-12 JSON Schema document fragment.
func (s *Schema) JSONSchema() map[string]any {
	if s == nil {
		return map[string]any{}
	}
	out := map[string]any{"type": string(s.Type)}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for name, p := range s.Properties {
			props[name] = p.JSONSchema()
		}
		out["properties"] = props
	}
	if s.Items != nil {
		out["items"] = s.Items.JSONSchema()
	}
	if len(s.Required) > 0 {
		req := make([]any, len(s.Required))
		for i, r := range s.Required {
			req[i] = r
		}
		out["required"] = req
	}
	if len(s.Enum) > 0 {
		enum := make([]any, len(s.Enum))
		for i, e := range s.Enum {
			enum[i] = e
		}
		out["enum"] = enum
	}
	if s.MinItems != nil {
		out["minItems"] = *s.MinItems
	}
	if s.Minimum != nil {
		out["minimum"] = *s.Minimum
	}
	return out
}
