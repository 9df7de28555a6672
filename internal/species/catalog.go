// Package species resolves free-text species queries against the reference
// catalog, with graceful degradation down to a genus-level match.
package species

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogData []byte

// CareAdvice holds per-species care guidance keyed by concern.
type CareAdvice struct {
	Light       string `yaml:"light" json:"light,omitempty"`
	Watering    string `yaml:"watering" json:"watering,omitempty"`
	Fertilizing string `yaml:"fertilizing" json:"fertilizing,omitempty"`
	Pruning     string `yaml:"pruning" json:"pruning,omitempty"`
	Substrate   string `yaml:"substrate" json:"substrate,omitempty"`
	Repotting   string `yaml:"repotting" json:"repotting,omitempty"`
}

// Reference is a pointer to further reading about a species.
type Reference struct {
	Title string `yaml:"title" json:"title"`
	URL   string `yaml:"url" json:"url"`
}

// TaskDefault is a species-specific checklist entry merged into a plant's
// task list on registration.
type TaskDefault struct {
	Key           string `yaml:"key" json:"key"`
	Label         string `yaml:"label" json:"label"`
	FrequencyDays int    `yaml:"frequencyDays" json:"frequencyDays"`
}

// Record is one immutable catalog entry. Many records share a genus
// prefix, the first whitespace-delimited token of the scientific name.
type Record struct {
	ScientificName string              `yaml:"scientificName" json:"scientificName"`
	CommonNames    map[string][]string `yaml:"commonNames" json:"commonNames"`
	CareAdvice     *CareAdvice         `yaml:"careAdvice" json:"careAdvice,omitempty"`
	References     []Reference         `yaml:"references" json:"references,omitempty"`
	Tasks          []TaskDefault       `yaml:"tasks" json:"tasks,omitempty"`
}

// Genus returns the first token of the scientific name.
func (r *Record) Genus() string {
	return firstToken(r.ScientificName)
}

// Catalog is the loaded reference catalog, read-only after load.
type Catalog struct {
	Records []Record `yaml:"species"`
}

// LoadCatalog parses a catalog from YAML.
func LoadCatalog(data []byte) (*Catalog, error) {
	catalog := &Catalog{}
	if err := yaml.Unmarshal(data, catalog); err != nil {
		return nil, fmt.Errorf("failed to parse species catalog: %w", err)
	}
	if len(catalog.Records) == 0 {
		return nil, fmt.Errorf("species catalog contains no records")
	}
	return catalog, nil
}

// DefaultCatalog loads the embedded reference catalog.
func DefaultCatalog() (*Catalog, error) {
	return LoadCatalog(catalogData)
}
