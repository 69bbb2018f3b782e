package marketplace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFromFile loads and validates a dataset from a YAML or JSON config file.
// The extension decides the codec: .yaml/.yml use YAML, everything else JSON.
func LoadFromFile(path string) (*Dataset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("marketplace: read %q: %w", path, err)
	}

	var d Dataset
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		if err := yaml.Unmarshal(b, &d); err != nil {
			return nil, fmt.Errorf("marketplace: parse %q: %w", path, err)
		}
	} else {
		if err := json.Unmarshal(b, &d); err != nil {
			return nil, fmt.Errorf("marketplace: parse %q: %w", path, err)
		}
	}

	if err := Validate(&d); err != nil {
		return nil, fmt.Errorf("marketplace: validate %q: %w", path, err)
	}
	return &d, nil
}

// LoadFromDir loads and validates every dataset config in a directory,
// in lexical filename order.
func LoadFromDir(dir string) ([]*Dataset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("marketplace: read dir %q: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" && ext != ".json" {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)

	out := make([]*Dataset, 0, len(paths))
	for _, path := range paths {
		d, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
