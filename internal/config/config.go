package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	HTTPAddr     string        `json:"httpAddr" yaml:"httpAddr"`
	DataDir      string        `json:"dataDir" yaml:"dataDir"`
	Fsync        string        `json:"fsync" yaml:"fsync"` // always|interval|never
	FeedPageSize int           `json:"feedPageSize" yaml:"feedPageSize"`
	Log          LogConfig     `json:"log" yaml:"log"`
	S3           S3Config      `json:"s3" yaml:"s3"`
	Email        EmailConfig   `json:"email" yaml:"email"`
	Auth         AuthConfig    `json:"auth" yaml:"auth"`
	Plugins      PluginsConfig `json:"plugins" yaml:"plugins"`
}

// LogConfig selects log verbosity and output format.
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"` // text|json
}

// S3Config configures the attachment bucket. Empty Bucket disables uploads.
type S3Config struct {
	Region string `json:"region" yaml:"region"`
	Bucket string `json:"bucket" yaml:"bucket"`
}

// EmailConfig configures the outbound magic-link mailer. Empty APIKey makes
// the mailer log links instead of sending.
type EmailConfig struct {
	Endpoint string `json:"endpoint" yaml:"endpoint"`
	APIKey   string `json:"apiKey" yaml:"apiKey"`
	From     string `json:"from" yaml:"from"`
}

// AuthConfig tunes the magic-link login flow.
type AuthConfig struct {
	// BaseURL is the public prefix for verification links.
	BaseURL string `json:"baseUrl" yaml:"baseUrl"`
	// LoginTokenTTLMs bounds how long a magic-link token stays redeemable.
	LoginTokenTTLMs int64 `json:"loginTokenTtlMs" yaml:"loginTokenTtlMs"`
	// SessionTTLMs bounds session lifetime.
	SessionTTLMs int64 `json:"sessionTtlMs" yaml:"sessionTtlMs"`
}

// PluginsConfig declares which plugins run for which event types.
type PluginsConfig struct {
	// TimeoutMs is the hard deadline for one plugin invocation; the isolated
	// process is killed when it elapses.
	TimeoutMs int64 `json:"timeoutMs" yaml:"timeoutMs"`
	// Registry maps event type name to an ordered list of plugin commands.
	Registry map[string][]string `json:"registry" yaml:"registry"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		HTTPAddr:     ":3000",
		Fsync:        "always",
		FeedPageSize: 100,
		Log:          LogConfig{Level: "info", Format: "text"},
		Email:        EmailConfig{Endpoint: "https://api.resend.com/emails"},
		Auth: AuthConfig{
			BaseURL:         "http://localhost:3000",
			LoginTokenTTLMs: 15 * 60 * 1000,
			SessionTTLMs:    30 * 24 * 60 * 60 * 1000,
		},
		Plugins: PluginsConfig{TimeoutMs: 30_000},
	}
}

// Load reads configuration from a JSON or YAML file by extension. An empty
// path returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	return cfg, nil
}

// DefaultDataDir returns the default data directory, preferring XDG on Linux
// and falling back to a dotdir in the user's home.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "scrapbook")
	}
	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		return "./data"
	}
	return filepath.Join(homeDir, ".scrapbook")
}
