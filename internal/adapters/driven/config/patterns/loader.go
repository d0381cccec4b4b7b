// Package patterns loads record segmenter pattern sets from YAML.
//
// A default file is embedded in the binary; a user file given through
// segmenter.patterns_file replaces it entirely.
package patterns

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// file is the on-disk layout.
type file struct {
	Sets []domain.PatternSet `yaml:"sets"`
}

// Defaults returns the embedded pattern sets.
func Defaults() ([]domain.PatternSet, error) {
	return Parse(defaultsYAML)
}

// LoadFile reads pattern sets from a YAML file.
func LoadFile(path string) ([]domain.PatternSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pattern file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates pattern sets.
func Parse(data []byte) ([]domain.PatternSet, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse pattern sets: %w", err)
	}
	if len(f.Sets) == 0 {
		return nil, fmt.Errorf("parse pattern sets: no sets: %w", domain.ErrInvalidInput)
	}

	seen := make(map[string]bool, len(f.Sets))
	for _, set := range f.Sets {
		switch {
		case set.Name == "":
			return nil, fmt.Errorf("pattern set without name: %w", domain.ErrInvalidInput)
		case seen[set.Name]:
			return nil, fmt.Errorf("duplicate pattern set %q: %w", set.Name, domain.ErrInvalidInput)
		case set.Code == "":
			return nil, fmt.Errorf("pattern set %q has no code pattern: %w", set.Name, domain.ErrInvalidInput)
		}
		seen[set.Name] = true
	}
	return f.Sets, nil
}

// Load returns the named set from path, or from the embedded defaults
// when path is empty.
func Load(path, name string) (domain.PatternSet, error) {
	var (
		sets []domain.PatternSet
		err  error
	)
	if path == "" {
		sets, err = Defaults()
	} else {
		sets, err = LoadFile(path)
	}
	if err != nil {
		return domain.PatternSet{}, err
	}

	for _, set := range sets {
		if set.Name == name {
			return set, nil
		}
	}
	return domain.PatternSet{}, fmt.Errorf("pattern set %q: %w", name, domain.ErrNotFound)
}
