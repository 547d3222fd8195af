package project

import (
	"os"
	"path/filepath"
	"testing"
)

const yamlConfig = `base_url: https://staging.example.com
pages:
  login: /login
  home: /
graph_dir: build/graphs
log:
  level: debug
`

func TestLoad_YAML(t *testing.T) {
	cfg, err := Load([]byte(yamlConfig), ".yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BaseURL != "https://staging.example.com" {
		t.Errorf("base url = %q", cfg.BaseURL)
	}
	if cfg.Pages["login"] != "/login" {
		t.Errorf("pages = %v", cfg.Pages)
	}
	if cfg.GraphDir != "build/graphs" {
		t.Errorf("graph dir = %q", cfg.GraphDir)
	}
	// Unset keys keep their defaults.
	if cfg.GeneratedDir != "steps" || cfg.Database != "compass.db" {
		t.Errorf("defaults not preserved: %+v", cfg)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
}

func TestLoad_JSONDetectedByContent(t *testing.T) {
	cfg, err := Load([]byte(`{"base_url": "https://prod.example.com"}`), "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BaseURL != "https://prod.example.com" {
		t.Errorf("base url = %q", cfg.BaseURL)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	if _, err := Load([]byte(":\n  - ["), ".yaml"); err == nil {
		t.Error("malformed yaml should fail")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("COMPASS_BASE_URL", "https://override.example.com")
	cfg, err := Load([]byte(yamlConfig), ".yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BaseURL != "https://override.example.com" {
		t.Errorf("env override not applied: %q", cfg.BaseURL)
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "compass.yaml"), []byte(yamlConfig), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Discover(dir)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if cfg.BaseURL != "https://staging.example.com" {
		t.Errorf("base url = %q", cfg.BaseURL)
	}
}

func TestDiscover_AbsentFileUsesDefaults(t *testing.T) {
	cfg, err := Discover(t.TempDir())
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if cfg.FeatureDir != "features" || cfg.Log.Level != "info" {
		t.Errorf("defaults = %+v", cfg)
	}
}
