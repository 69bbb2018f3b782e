package marketplace

import (
	"fmt"
	"strings"
)

// Dataset describes one alignment evaluation suite. A Dataset is validated
// once and never mutated afterwards; re-registering an id replaces the stored
// value wholesale.
type Dataset struct {
	ID           string   `json:"dataset_id" yaml:"dataset_id"`
	Name         string   `json:"name" yaml:"name"`
	Description  string   `json:"description" yaml:"description"`
	Category     string   `json:"category" yaml:"category"`
	Size         int      `json:"size" yaml:"size"`
	Format       string   `json:"format" yaml:"format"`
	License      string   `json:"license" yaml:"license"`
	Tags         []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	DownloadURL  string   `json:"download_url,omitempty" yaml:"download_url,omitempty"`
	QualityScore float64  `json:"quality_score" yaml:"quality_score"`
}

// Listing wraps a Dataset with marketplace counters. Counters survive
// re-registration of the same dataset id and are never decreased by registry
// operations.
type Listing struct {
	Dataset   Dataset `json:"dataset"`
	Downloads int     `json:"downloads"`
	Rating    float64 `json:"rating"`
	Reviews   int     `json:"reviews"`
}

// ValidationError reports every field constraint a Dataset violates.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "marketplace: invalid dataset"
	}
	return "marketplace: invalid dataset: " + strings.Join(e.Fields, "; ")
}

// Validate checks every Dataset field constraint and returns a
// *ValidationError naming each violation, or nil.
func Validate(d *Dataset) error {
	if d == nil {
		return &ValidationError{Fields: []string{"dataset is nil"}}
	}

	var fields []string
	if strings.TrimSpace(d.ID) == "" {
		fields = append(fields, "dataset_id: must not be empty")
	}
	if strings.TrimSpace(d.Name) == "" {
		fields = append(fields, "name: must not be empty")
	}
	if strings.TrimSpace(d.Description) == "" {
		fields = append(fields, "description: must not be empty")
	}
	if strings.TrimSpace(d.Category) == "" {
		fields = append(fields, "category: must not be empty")
	}
	if strings.TrimSpace(d.Format) == "" {
		fields = append(fields, "format: must not be empty")
	}
	if strings.TrimSpace(d.License) == "" {
		fields = append(fields, "license: must not be empty")
	}
	if d.Size < 0 {
		fields = append(fields, fmt.Sprintf("size: must be >= 0 (got %d)", d.Size))
	}
	if d.QualityScore < 0.0 || d.QualityScore > 1.0 {
		fields = append(fields, fmt.Sprintf("quality_score: must be between 0.0 and 1.0 (got %v)", d.QualityScore))
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
