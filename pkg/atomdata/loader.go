package atomdata

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RawElementEntry mirrors one YAML list entry from an element table source.
type RawElementEntry struct {
	Symbol          string  `yaml:"symbol"`
	Z               int     `yaml:"z"`
	A               int     `yaml:"a"`
	Mass            float64 `yaml:"mass"`
	CoherentScatLen float64 `yaml:"coherent_scat_len"`
	IncoherentXS    float64 `yaml:"incoherent_xs"`
	AbsorptionXS    float64 `yaml:"absorption_xs"`
}

// RawElementTable represents an element table source file, the shape
// cmd/ncmat-gendb reads to regenerate zz_generated_elements.go.
type RawElementTable struct {
	Version  string            `yaml:"version"`
	Elements []RawElementEntry `yaml:"elements"`
}

// ParseElementTable parses an element table from YAML bytes.
func ParseElementTable(data []byte) (*RawElementTable, error) {
	var table RawElementTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parsing element table: %w", err)
	}
	return &table, nil
}

// LoadElementTable loads and parses an element table from a file.
func LoadElementTable(path string) (*RawElementTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseElementTable(data)
}

// ToAtomData converts every entry of the table to an AtomData slice, in
// source order.
func (t *RawElementTable) ToAtomData() []AtomData {
	out := make([]AtomData, 0, len(t.Elements))
	for _, e := range t.Elements {
		out = append(out, AtomData{
			Symbol:          e.Symbol,
			Z:               e.Z,
			A:               e.A,
			Mass:            e.Mass,
			CoherentScatLen: e.CoherentScatLen,
			IncoherentXS:    e.IncoherentXS,
			AbsorptionXS:    e.AbsorptionXS,
		})
	}
	return out
}
