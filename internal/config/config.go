package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk YAML configuration shape for loghound. Fields are
// pointers so "unset" is distinguishable from a zero value when merging with
// CLI flags.
type FileConfig struct {
	Include      *string `yaml:"include"`
	Exclude      *string `yaml:"exclude"`
	MaxBytes     *int64  `yaml:"max_bytes"`
	Threads      *int    `yaml:"threads"`
	NoColor      *bool   `yaml:"no_color"`
	NoCache      *bool   `yaml:"no_cache"`
	PatternsFile *string `yaml:"patterns_file"`
}

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadLocal searches for a config file in the given root. It supports
// .loghound.yml/.yaml and loghound.yml/.yaml, dotfiles first.
func LoadLocal(root string) (FileConfig, error) {
	var cfg FileConfig
	for _, name := range []string{".loghound.yml", ".loghound.yaml", "loghound.yml", "loghound.yaml"} {
		p := filepath.Join(root, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return cfg, errors.New("no local config")
}

// LoadGlobal loads the global config from XDG base directory or ~/.config.
func LoadGlobal() (FileConfig, error) {
	var cfg FileConfig
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return cfg, errors.New("no config dir")
	}
	p := filepath.Join(base, "loghound", "config.yml")
	if _, err := os.Stat(p); err == nil {
		return LoadFile(p)
	}
	return cfg, errors.New("no global config")
}
