package assemble

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the optional defaults file the CLI shell accepts via
// --config, sparing a project from repeating --prefix/--package-name/
// --copyright on every invocation (spec.md §6, EXPANSION component I).
type Config struct {
	Prefix      string `yaml:"prefix"`
	PackageName string `yaml:"package_name"`
	Copyright   string `yaml:"copyright"`
}

// LoadConfig reads and parses a YAML defaults file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("assemble: read config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("assemble: parse config %s: %w", path, err)
	}
	return cfg, nil
}
