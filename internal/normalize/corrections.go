package normalize

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Corrections holds the operator-editable lookup tables: known customer
// name fixes and product spelling variants. Kept as data rather than
// code so new entries land without a rebuild.
type Corrections struct {
	// Customers maps a misread name to its correct form.
	Customers map[string]string `yaml:"customers"`
	// Products maps a canonical product name to its known spelling and
	// casing variants.
	Products map[string][]string `yaml:"products"`
}

// DefaultCorrections returns the built-in tables covering the fixes we
// have seen in production batches so far.
func DefaultCorrections() *Corrections {
	return &Corrections{
		Customers: map[string]string{
			"Thu Bàn": "Thu Bồn",
		},
		Products: map[string][]string{
			"Nấm bào ngư": {"Nấm Bào Ngư", "Nấm bào ngư", "Nấm bào ngư xám"},
			"Nấm rơm":     {"Nấm rơm", "Nấm Rơm"},
			"Nấm đông cô": {"Nấm đông cô", "Nấm Đông Cô"},
			"Nấm mộc nhĩ": {"Nấm mộc nhĩ", "Nấm Mộc Nhĩ"},
		},
	}
}

// LoadCorrections reads correction tables from a YAML file. Entries
// merge over the defaults; a file entry wins on key conflict.
func LoadCorrections(path string) (*Corrections, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corrections: %w", err)
	}
	var file Corrections
	if err := yaml.Unmarshal(b, &file); err != nil {
		return nil, fmt.Errorf("decode corrections: %w", err)
	}

	c := DefaultCorrections()
	for k, v := range file.Customers {
		c.Customers[k] = v
	}
	for canonical, variants := range file.Products {
		c.Products[canonical] = append(c.Products[canonical], variants...)
	}
	return c, nil
}

// variantIndex flattens the product table into variant -> canonical for
// O(1) lookup. Variants are trimmed; the canonical name is always its
// own variant.
func (c *Corrections) variantIndex() map[string]string {
	idx := make(map[string]string, len(c.Products)*3)
	for canonical, variants := range c.Products {
		idx[strings.TrimSpace(canonical)] = canonical
		for _, v := range variants {
			idx[strings.TrimSpace(v)] = canonical
		}
	}
	return idx
}
