// Package project holds the project configuration: where feature files,
// compiled graphs and generated step code live, plus the runtime settings
// resolution and navigation need.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// LogConfig controls the binary-wide slog setup.
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// Config is the project file (compass.yaml or compass.json).
type Config struct {
	// BaseURL prefixes path-only navigation targets at run time.
	BaseURL string `yaml:"base_url" json:"base_url"`
	// Pages maps symbolic page names to paths for navigate steps whose
	// target was not a literal URL.
	Pages map[string]string `yaml:"pages" json:"pages"`

	FeatureDir   string `yaml:"feature_dir" json:"feature_dir"`
	GraphDir     string `yaml:"graph_dir" json:"graph_dir"`
	GeneratedDir string `yaml:"generated_dir" json:"generated_dir"`
	// Database is the sqlite file for execution records.
	Database string `yaml:"database" json:"database"`

	Log LogConfig `yaml:"log" json:"log"`
}

// Default returns the configuration used when no project file exists.
func Default() *Config {
	return &Config{
		FeatureDir:   "features",
		GraphDir:     "graphs",
		GeneratedDir: "steps",
		Database:     "compass.db",
		Log:          LogConfig{Level: "info", Format: "text"},
	}
}

// Load parses a config from bytes. ext is the file extension for the
// format hint; empty means detect from content.
func Load(data []byte, ext string) (*Config, error) {
	cfg := Default()
	ext = strings.ToLower(ext)
	if ext == ".yml" {
		ext = ".yaml"
	}

	switch {
	case ext == ".yaml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse project yaml: %w", err)
		}
	case ext == ".json" || strings.HasPrefix(strings.TrimSpace(string(data)), "{"):
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse project json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse project yaml: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// LoadFromPath reads a project file, YAML or JSON by extension.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project config: %w", err)
	}
	return Load(data, filepath.Ext(path))
}

// Discover looks for compass.yaml, compass.yml or compass.json in dir and
// loads the first one found. Absence is not an error; defaults apply.
func Discover(dir string) (*Config, error) {
	for _, name := range []string{"compass.yaml", "compass.yml", "compass.json"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFromPath(path)
		}
	}
	cfg := Default()
	cfg.applyEnv()
	return cfg, nil
}

// applyEnv lets the environment override the file, so CI can point the
// same project at a different deployment.
func (c *Config) applyEnv() {
	if v := os.Getenv("COMPASS_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("COMPASS_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}
