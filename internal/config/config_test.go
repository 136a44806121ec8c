package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scrapbook.yaml")
	data := []byte(`
httpAddr: ":8080"
log:
  level: debug
plugins:
  timeoutMs: 5000
  registry:
    createPost:
      - plugins/scrappy
      - plugins/streaks
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("httpAddr not applied: %q", cfg.HTTPAddr)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("log level not applied: %q", cfg.Log.Level)
	}
	if cfg.Plugins.TimeoutMs != 5000 {
		t.Fatalf("plugin timeout not applied: %d", cfg.Plugins.TimeoutMs)
	}
	if got := cfg.Plugins.Registry["createPost"]; len(got) != 2 || got[0] != "plugins/scrappy" {
		t.Fatalf("registry not applied: %v", got)
	}
	// defaults survive partial files
	if cfg.Auth.SessionTTLMs == 0 {
		t.Fatalf("defaults lost on partial file")
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scrapbook.json")
	if err := os.WriteFile(path, []byte(`{"httpAddr":":9090"}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("httpAddr not applied: %q", cfg.HTTPAddr)
	}
}

func TestFromEnvOverlay(t *testing.T) {
	t.Setenv("SCRAPBOOK_HTTP_ADDR", ":7070")
	t.Setenv("SCRAPBOOK_LOG_FORMAT", "json")
	t.Setenv("SCRAPBOOK_PLUGIN_TIMEOUT_MS", "1234")
	cfg := Default()
	FromEnv(&cfg)
	if cfg.HTTPAddr != ":7070" || cfg.Log.Format != "json" || cfg.Plugins.TimeoutMs != 1234 {
		t.Fatalf("env overlay not applied: %+v", cfg)
	}
}
