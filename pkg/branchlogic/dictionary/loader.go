package dictionary

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FromFile loads a data dictionary from a file, auto-detecting format
// by extension. Supported extensions: .yaml, .yml, .json
func FromFile(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dictionary file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FromYAML(data)
	case ".json":
		return FromJSON(data)
	default:
		return nil, fmt.Errorf("unsupported dictionary file extension: %s", ext)
	}
}

// FromYAML parses a YAML list of field definitions into a Dictionary.
func FromYAML(data []byte) (*Dictionary, error) {
	var fields []Field
	if err := yaml.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return New(fields)
}

// FromJSON parses a JSON array of field definitions into a Dictionary.
func FromJSON(data []byte) (*Dictionary, error) {
	var fields []Field
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return New(fields)
}
