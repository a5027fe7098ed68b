// Package config loads the application configuration from an optional YAML
// file plus environment overrides. Defaults are usable out of the box: an
// on-disk sqlite store next to the binary and the OS temp dir for artifacts.
package config

import (
	"fmt"
	"os"

	"go.uber.org/fx"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Listen string `yaml:"listen"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Fonts struct {
		Dir string `yaml:"dir"`
	} `yaml:"fonts"`

	Artifacts struct {
		Dir string `yaml:"dir"`
	} `yaml:"artifacts"`

	Preview struct {
		OpenerCommand string `yaml:"opener_command"`
	} `yaml:"preview"`

	Print struct {
		Printer string `yaml:"printer"`
		Silent  bool   `yaml:"silent"`
	} `yaml:"print"`
}

// Load reads the file named by DAFTAR_CONFIG (default daftar.yaml when
// present) and applies environment overrides.
func Load() (Config, error) {
	cfg := Config{Listen: ":8970"}
	cfg.Database.Path = "daftar.db"
	cfg.Fonts.Dir = "fonts"

	path := os.Getenv("DAFTAR_CONFIG")
	optional := path == ""
	if optional {
		path = "daftar.yaml"
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err) && optional:
		// defaults only
	default:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if v := os.Getenv("DAFTAR_LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("DAFTAR_DB"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("DAFTAR_FONTS_DIR"); v != "" {
		cfg.Fonts.Dir = v
	}
	if v := os.Getenv("DAFTAR_ARTIFACTS_DIR"); v != "" {
		cfg.Artifacts.Dir = v
	}
	return cfg, nil
}

var Module = fx.Module("config",
	fx.Provide(Load),
)
