package config

import (
	"os"
	"strconv"
)

// FromEnv overlays SCRAPBOOK_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("SCRAPBOOK_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("SCRAPBOOK_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("SCRAPBOOK_FSYNC"); v != "" {
		cfg.Fsync = v
	}
	if v := os.Getenv("SCRAPBOOK_FEED_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.FeedPageSize = n
		}
	}
	if v := os.Getenv("SCRAPBOOK_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("SCRAPBOOK_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("SCRAPBOOK_S3_REGION"); v != "" {
		cfg.S3.Region = v
	}
	if v := os.Getenv("SCRAPBOOK_S3_BUCKET"); v != "" {
		cfg.S3.Bucket = v
	}
	if v := os.Getenv("SCRAPBOOK_EMAIL_ENDPOINT"); v != "" {
		cfg.Email.Endpoint = v
	}
	if v := os.Getenv("SCRAPBOOK_EMAIL_API_KEY"); v != "" {
		cfg.Email.APIKey = v
	}
	if v := os.Getenv("SCRAPBOOK_EMAIL_FROM"); v != "" {
		cfg.Email.From = v
	}
	if v := os.Getenv("SCRAPBOOK_AUTH_BASE_URL"); v != "" {
		cfg.Auth.BaseURL = v
	}
	if v := os.Getenv("SCRAPBOOK_PLUGIN_TIMEOUT_MS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.Plugins.TimeoutMs = n
		}
	}
}
