// Package config loads engine.Config from YAML, layering a user-supplied
// file on top of embedded defaults, mirroring the teacher pack's
// config-from-embedded-YAML convention (pthm-soup/config/config.go).
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/andewx/sphcore/engine"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Load reads the embedded defaults and, if path is non-empty, overlays a
// user YAML file on top of them — only the fields present in the file
// override the corresponding default. The result is validated (spec.md
// §7's configuration-error taxonomy) before it is returned.
func Load(path string) (engine.Config, error) {
	cfg := engine.DefaultConfig()
	if err := yaml.Unmarshal(defaultsYAML, &cfg); err != nil {
		return engine.Config{}, fmt.Errorf("config: parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return engine.Config{}, fmt.Errorf("config: reading %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return engine.Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return engine.Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Save marshals cfg to path as YAML, overwriting any existing file.
func Save(cfg engine.Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshaling: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	return nil
}
