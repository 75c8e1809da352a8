package base

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Render formats v as indented JSON or as YAML.
func Render(format string, v any) (string, error) {
	switch format {
	case "", FormatJSON:
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", fmt.Errorf("error encoding JSON: %w", err)
		}
		return string(out), nil

	case FormatYAML:
		plain, err := plainValue(v)
		if err != nil {
			return "", err
		}
		out, err := yaml.Marshal(plain)
		if err != nil {
			return "", fmt.Errorf("error encoding YAML: %w", err)
		}
		return strings.TrimSuffix(string(out), "\n"), nil
	}
	return "", fmt.Errorf("unknown output format %q, must be %s or %s", format, FormatJSON, FormatYAML)
}

// plainValue round-trips v through JSON so json.Number and records reach
// the YAML encoder as plain numbers and maps.
func plainValue(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("error encoding value: %w", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("error decoding value: %w", err)
	}
	return out, nil
}
