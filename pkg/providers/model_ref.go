package providers

import "strings"

// ModelRef is a parsed "vendor/model" id as used by the AI gateway.
type ModelRef struct {
	Vendor string
	Model  string
}

// ParseModelRef parses "anthropic/claude-sonnet-4" into its vendor and
// model. A bare id has no vendor. Returns nil for empty input or an empty
// half around the slash.
func ParseModelRef(raw string) *ModelRef {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	idx := strings.Index(raw, "/")
	if idx < 0 {
		return &ModelRef{Model: raw}
	}
	vendor := strings.ToLower(strings.TrimSpace(raw[:idx]))
	model := strings.TrimSpace(raw[idx+1:])
	if vendor == "" || model == "" {
		return nil
	}
	return &ModelRef{Vendor: vendor, Model: model}
}

func (r ModelRef) String() string {
	if r.Vendor == "" {
		return r.Model
	}
	return r.Vendor + "/" + r.Model
}
