package importer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ImportSchema is the top-level structure of a readings import file.
type ImportSchema struct {
	Entries []EntryImport `yaml:"entries" json:"entries"`
}

// EntryImport is one day in the import file. An entry with no metric set
// clears the day.
type EntryImport struct {
	Date         string   `yaml:"date" json:"date"`
	Production   *float64 `yaml:"production,omitempty" json:"production,omitempty"`
	Quality      *float64 `yaml:"quality,omitempty" json:"quality,omitempty"`
	SafetyStatus *string  `yaml:"safety_status,omitempty" json:"safety_status,omitempty"`
}

// LoadImportSchema reads and parses a readings import file. JSON input is
// accepted as well since it is valid YAML.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var schema ImportSchema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
