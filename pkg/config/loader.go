package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads config/base.yaml, overlays <env>.yaml when present, then
// applies environment variable overrides. env comes from CONFIG_ENV
// (default "local").
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = "config"
	}

	cfg := &Config{}
	if err := loadYAMLInto(filepath.Join(configDir, "base.yaml"), cfg); err != nil {
		return nil, fmt.Errorf("failed to load base.yaml: %w", err)
	}

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "local"
	}
	if env != "base" {
		envFile := filepath.Join(configDir, env+".yaml")
		if _, err := os.Stat(envFile); err == nil {
			if err := loadYAMLInto(envFile, cfg); err != nil {
				return nil, fmt.Errorf("failed to load %s.yaml: %w", env, err)
			}
		}
	}

	cfg.OverrideFromEnv()
	return cfg, nil
}

func loadYAMLInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
