package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// fileLayout is the on-disk dataset shape. JSON files parse too since JSON is
// a subset of YAML.
type fileLayout struct {
	Trials      []Trial      `yaml:"trials"`
	Competitors []Competitor `yaml:"competitors"`
}

// LoadFile reads a YAML or JSON dataset file.
func LoadFile(path string) (*Dataset, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	return Parse(data)
}

// Parse decodes a dataset document.
func Parse(data []byte) (*Dataset, error) {
	var layout fileLayout
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return nil, fmt.Errorf("unmarshal dataset: %w", err)
	}
	return New(layout.Trials, layout.Competitors)
}

// Marshal renders the dataset in the same layout LoadFile accepts.
func (d *Dataset) Marshal() ([]byte, error) {
	return yaml.Marshal(fileLayout{Trials: d.Trials(), Competitors: d.Competitors()})
}
