package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// fileFormat is the on-disk catalog layout.
type fileFormat struct {
	Items []Item `json:"items" yaml:"items"`
}

// LoadFile reads a catalog from a YAML or JSON file with a top-level
// "items" list. The format is chosen by extension (.json, otherwise YAML).
func LoadFile(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var f fileFormat
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
		}
	}

	s, err := New(f.Items)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog file %s: %w", path, err)
	}
	return s, nil
}

// Open returns the catalog at path, or the built-in catalog when path is empty.
func Open(path string) (*Static, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// WriteFile writes items in the layout LoadFile reads, choosing JSON or
// YAML by extension like LoadFile does.
func WriteFile(path string, items []Item) error {
	if err := Validate(items); err != nil {
		return err
	}

	f := fileFormat{Items: items}
	var (
		data []byte
		err  error
	)
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		data, err = json.MarshalIndent(f, "", "  ")
	} else {
		data, err = yaml.Marshal(f)
	}
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
