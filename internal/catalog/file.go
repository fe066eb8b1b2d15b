package catalog

import (
	"fmt"
	"os"

	"github.com/alexanderramin/ascent/internal/domain"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// File is the on-disk YAML catalog layout.
type File struct {
	Version int                 `yaml:"version" validate:"min=1"`
	Days    []domain.CatalogDay `yaml:"days" validate:"dive"`
}

// LoadFile reads and validates a YAML catalog into a MemorySource.
func LoadFile(path string) (*MemorySource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates YAML catalog bytes.
func Parse(data []byte) (*MemorySource, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	if f.Version == 0 {
		f.Version = 1
	}
	if err := validator.New().Struct(f); err != nil {
		return nil, fmt.Errorf("validating catalog: %w", err)
	}
	seen := make(map[int]string, len(f.Days))
	for _, d := range f.Days {
		if prev, ok := seen[d.DBDay]; ok {
			return nil, fmt.Errorf("validating catalog: day %d scheduled twice (%s, %s)", d.DBDay, prev, d.ID)
		}
		seen[d.DBDay] = d.ID
		if err := validateItemIDs(&d); err != nil {
			return nil, fmt.Errorf("validating catalog: %w", err)
		}
	}
	return NewMemorySource(f.Days...), nil
}

// validateItemIDs checks the id every progress item of day resolves to, so a
// bad id fails at load time rather than when the item is completed.
func validateItemIDs(day *domain.CatalogDay) error {
	ids := make(map[string]bool, len(day.Actions))
	for idx, a := range day.Actions {
		if a.Type == domain.ActionTypeDailyRep {
			continue
		}
		id := itemID(day, idx, a)
		if err := domain.ValidateItemID(id); err != nil {
			return fmt.Errorf("day %s action %d: %w", day.ID, idx, err)
		}
		if ids[id] {
			return fmt.Errorf("day %s: item id %q used twice", day.ID, id)
		}
		ids[id] = true
	}
	return nil
}
