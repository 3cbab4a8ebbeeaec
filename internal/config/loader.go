package config

import (
	"fmt"

	"github.com/creasty/defaults"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const filePerm = 0o644

// Default returns a configuration with every default applied and no types.
func Default() *File {
	f := &File{}
	if err := defaults.Set(f); err != nil {
		// Only reachable with malformed default tags.
		panic(fmt.Sprintf("config defaults: %v", err))
	}

	return f
}

// LoadFile loads and parses a YAML configuration file from fs.
func LoadFile(fs afero.Fs, path string) (*File, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a File and fills in defaults.
// It does not validate; call Validate once all overrides are applied.
func Parse(data []byte) (*File, error) {
	var f File

	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if err := defaults.Set(&f); err != nil {
		return nil, fmt.Errorf("failed to apply config defaults: %w", err)
	}

	return &f, nil
}

// Marshal serializes a File to YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}

// WriteFile writes a File to path on fs.
func WriteFile(fs afero.Fs, f *File, path string) error {
	data, err := Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := afero.WriteFile(fs, path, data, filePerm); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}

	return nil
}

// Normalize fills in derived targets. Specs whose target cannot be derived
// are left empty and reported by Validate.
func Normalize(f *File) {
	for i := range f.Types {
		t := &f.Types[i]
		if t.Target != "" {
			continue
		}

		if target, err := DeriveTarget(t.Source); err == nil {
			t.Target = target
		}
	}
}
