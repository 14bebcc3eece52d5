// Package seed reads the character catalog from a JSON or YAML file.
package seed

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jask/starfolk/internal/catalog"
)

// Load parses the catalog at path. The format follows the extension: .yaml
// and .yml are YAML, anything else is JSON.
func Load(path string) ([]catalog.Detail, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	var chars []catalog.Detail
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &chars)
	default:
		err = json.Unmarshal(raw, &chars)
	}
	if err != nil {
		return nil, fmt.Errorf("parse seed %s: %w", filepath.Base(path), err)
	}
	if err := Validate(chars); err != nil {
		return nil, err
	}
	return chars, nil
}

// Validate checks that every entry has a positive, unique id and a name.
func Validate(chars []catalog.Detail) error {
	seen := make(map[int]bool, len(chars))
	for i, c := range chars {
		if c.ID <= 0 {
			return fmt.Errorf("entry %d: id must be positive, got %d", i, c.ID)
		}
		if seen[c.ID] {
			return fmt.Errorf("entry %d: duplicate id %d", i, c.ID)
		}
		seen[c.ID] = true
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("entry %d: id %d has no name", i, c.ID)
		}
	}
	return nil
}
