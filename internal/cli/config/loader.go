package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".printlink", "cli.yaml")
	}
	return filepath.Join(homeDir, ".printlink", "cli.yaml")
}

// Load reads the config file, filling unset values from Default.
// A missing file is not an error.
func Load(path string) (*CLIConfig, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var fromFile CLIConfig
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	merge(cfg, &fromFile)
	return cfg, nil
}

// Save writes cfg to path with owner-only permissions, since it may hold
// the API token.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// merge copies non-empty values from src into dst.
func merge(dst, src *CLIConfig) {
	for _, key := range Keys() {
		v, _ := src.Get(key)
		if v != "" {
			p, _ := dst.field(key)
			*p = v
		}
	}
}
