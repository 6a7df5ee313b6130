package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// GenerateDefaults renders the default settings as a config.yaml document.
func GenerateDefaults() ([]byte, error) {
	out, err := yaml.Marshal(Defaults)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal defaults: %w", err)
	}
	return out, nil
}

// WriteDefaults writes the default settings to path, refusing to overwrite an existing file.
func WriteDefaults(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %s already exists", path)
	}

	out, err := GenerateDefaults()
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}
