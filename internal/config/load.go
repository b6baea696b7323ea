package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML config file. Keys missing from the file keep their
// Default values.
func Load(path string) (Voxels, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Voxels{}, err
	}
	return Parse(raw)
}

// Parse decodes YAML bytes over Default and validates the result.
func Parse(raw []byte) (Voxels, error) {
	v := Default()
	if err := yaml.Unmarshal(raw, &v); err != nil {
		return Voxels{}, fmt.Errorf("config: %w", err)
	}
	if err := v.Validate(); err != nil {
		return Voxels{}, fmt.Errorf("config: %w", err)
	}
	return v, nil
}

// Marshal encodes v as YAML.
func Marshal(v Voxels) ([]byte, error) {
	return yaml.Marshal(v)
}
