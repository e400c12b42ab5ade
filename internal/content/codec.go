package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Format names a file encoding for import and export.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONC Format = "jsonc"
	FormatYAML  Format = "yaml"
)

// FormatFor guesses the format from a file extension, defaulting to JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".jsonc":
		return FormatJSONC
	default:
		return FormatJSON
	}
}

// ParseFormat accepts json, jsonc, yaml or yml.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json", "":
		return FormatJSON, nil
	case "jsonc":
		return FormatJSONC, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported format %q", s)
}

// IsObject reports whether data is a single JSON object.
func IsObject(data []byte) bool {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return false
	}
	var m map[string]json.RawMessage
	return json.Unmarshal(data, &m) == nil
}

// Decode parses a document. JSON input may carry comments and trailing commas.
func Decode(data []byte, f Format) (SiteContent, error) {
	var c SiteContent
	switch f {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &c); err != nil {
			return SiteContent{}, fmt.Errorf("%w: yaml: %v", ErrInvalid, err)
		}
	default:
		data = jsonc.ToJSON(data)
		if !IsObject(data) {
			return SiteContent{}, fmt.Errorf("%w: document must be a JSON object", ErrInvalid)
		}
		if err := json.Unmarshal(data, &c); err != nil {
			return SiteContent{}, fmt.Errorf("%w: json: %v", ErrInvalid, err)
		}
	}
	return c, nil
}

// Encode renders a document. JSONC exports as indented JSON.
func Encode(c SiteContent, f Format) ([]byte, error) {
	switch f {
	case FormatYAML:
		return yaml.Marshal(c)
	default:
		out, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	}
}
