package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk YAML configuration shape for complyscan.
// Fields are pointers so absent keys can be told apart from zero values
// when merging with CLI flags.
type FileConfig struct {
	Include         *string `yaml:"include"`
	Exclude         *string `yaml:"exclude"`
	MaxBytes        *int64  `yaml:"max_bytes"`
	Threads         *int    `yaml:"threads"`
	RulesDir        *string `yaml:"rules_dir"`
	NoBuiltinRules  *bool   `yaml:"no_builtin_rules"`
	Frameworks      *string `yaml:"frameworks"`
	Enable          *string `yaml:"enable"`
	Disable         *string `yaml:"disable"`
	NoDetectors     *bool   `yaml:"no_detectors"`
	FailOn          *string `yaml:"fail_on"`
	NoColor         *bool   `yaml:"no_color"`
	DefaultExcludes *bool   `yaml:"default_excludes"`
	NoCache         *bool   `yaml:"no_cache"`
	Baseline        *string `yaml:"baseline"`

	// Registry image scanning config mirrors CLI flags
	Images            []string `yaml:"images"`
	MaxImageFileBytes *int64   `yaml:"max_image_file_bytes"`
	MaxImageEntries   *int     `yaml:"max_image_entries"`
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

// LoadLocal searches for a repo-local config file in the given root.
// It supports .complyscan.yml/.yaml and complyscan.yml/.yaml.
func LoadLocal(repoRoot string) (FileConfig, error) {
	var cfg FileConfig
	for _, name := range []string{".complyscan.yml", ".complyscan.yaml", "complyscan.yml", "complyscan.yaml"} {
		p := filepath.Join(repoRoot, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return cfg, errors.New("no local config")
}

// LoadGlobal loads the global config file from XDG base directory or ~/.config.
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
	p := filepath.Join(base, "complyscan", "config.yml")
	if _, err := os.Stat(p); err == nil {
		return LoadFile(p)
	}
	return cfg, errors.New("no global config")
}
