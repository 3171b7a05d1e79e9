// Package config loads the tool-level configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pressmill/pressmill/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
)

// DefaultFile is the config file name looked up in the working directory
// when no --config flag is given.
const DefaultFile = "pressmill.yaml"

// Defaults applied for fields the file leaves unset.
const (
	DefaultBuildRoot  = "build"
	DefaultExportRoot = "export"
)

// Config holds tool-level settings: where resource modules live and where
// output goes. Selection flags on the CLI narrow within these.
type Config struct {
	BuildRoot  string   `yaml:"buildRoot"`
	ExportRoot string   `yaml:"exportRoot"`
	Formats    []string `yaml:"formats"`  // format module paths
	Projects   []string `yaml:"projects"` // project module paths
	Workers    int      `yaml:"workers"`  // 0 = auto
}

// Load reads and parses the config file at path. A missing explicit path is
// an error; use LoadDefault for the optional working-directory lookup.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the --config flag
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, err
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, path, err)
	}
	cfg.applyDefaults(filepath.Dir(path))
	return &cfg, nil
}

// LoadDefault loads pressmill.yaml from the working directory when present,
// or returns a default config when absent.
func LoadDefault() (*Config, error) {
	cfg, err := Load(DefaultFile)
	if errors.Is(err, ErrConfigNotFound) {
		cfg = &Config{}
		cfg.applyDefaults(".")
		return cfg, nil
	}
	return cfg, err
}

// applyDefaults fills unset fields and anchors relative paths at baseDir.
func (c *Config) applyDefaults(baseDir string) {
	if c.BuildRoot == "" {
		c.BuildRoot = DefaultBuildRoot
	}
	if c.ExportRoot == "" {
		c.ExportRoot = DefaultExportRoot
	}
	c.BuildRoot = anchor(baseDir, c.BuildRoot)
	c.ExportRoot = anchor(baseDir, c.ExportRoot)
	for i, p := range c.Formats {
		c.Formats[i] = anchor(baseDir, p)
	}
	for i, p := range c.Projects {
		c.Projects[i] = anchor(baseDir, p)
	}
}

func anchor(baseDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
