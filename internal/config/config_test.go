package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		PostgresDSN:         "postgres://localhost/threadkit",
		RedisAddr:           "localhost:6379",
		NATSURL:             "nats://localhost:4222",
		SpamThreshold:       0.7,
		SentimentThreshold:  -3.0,
		CapsRatioThreshold:  0.8,
		MinTrustScore:       0.1,
		MaxTrustScore:       1.0,
		MaxLinksAllowed:     3,
		MinCommentLength:    1,
		MaxCommentLength:    5000,
		WordRefreshInterval: time.Minute,
		DuplicateWindow:     15 * time.Minute,
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("RedisAddr = %q, want localhost:6379", cfg.RedisAddr)
	}
	if cfg.NATSURL != "nats://localhost:4222" {
		t.Errorf("NATSURL = %q, want nats://localhost:4222", cfg.NATSURL)
	}
	if cfg.SpamThreshold != 0.7 {
		t.Errorf("SpamThreshold = %v, want 0.7", cfg.SpamThreshold)
	}
	if cfg.SentimentThreshold != -3.0 {
		t.Errorf("SentimentThreshold = %v, want -3.0", cfg.SentimentThreshold)
	}
	if cfg.CapsRatioThreshold != 0.8 {
		t.Errorf("CapsRatioThreshold = %v, want 0.8", cfg.CapsRatioThreshold)
	}
	if cfg.MaxCommentLength != 5000 {
		t.Errorf("MaxCommentLength = %d, want 5000", cfg.MaxCommentLength)
	}
	if cfg.WordRefreshInterval != time.Minute {
		t.Errorf("WordRefreshInterval = %v, want 1m", cfg.WordRefreshInterval)
	}
	if cfg.DuplicateWindow != 15*time.Minute {
		t.Errorf("DuplicateWindow = %v, want 15m", cfg.DuplicateWindow)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SPAM_THRESHOLD", "0.5")
	t.Setenv("DUPLICATE_WINDOW", "5m")
	t.Setenv("REDIS_ADDR", "redis.internal:6380")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.SpamThreshold != 0.5 {
		t.Errorf("SpamThreshold = %v, want 0.5", cfg.SpamThreshold)
	}
	if cfg.DuplicateWindow != 5*time.Minute {
		t.Errorf("DuplicateWindow = %v, want 5m", cfg.DuplicateWindow)
	}
	if cfg.RedisAddr != "redis.internal:6380" {
		t.Errorf("RedisAddr = %q, want redis.internal:6380", cfg.RedisAddr)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"spam threshold above one", func(c *Config) { c.SpamThreshold = 1.5 }, "SPAM_THRESHOLD"},
		{"spam threshold negative", func(c *Config) { c.SpamThreshold = -0.1 }, "SPAM_THRESHOLD"},
		{"caps ratio above one", func(c *Config) { c.CapsRatioThreshold = 2 }, "CAPS_RATIO_THRESHOLD"},
		{"trust bounds inverted", func(c *Config) { c.MinTrustScore = 0.9; c.MaxTrustScore = 0.2 }, "trust score bounds"},
		{"trust max above one", func(c *Config) { c.MaxTrustScore = 1.5 }, "trust score bounds"},
		{"min length zero", func(c *Config) { c.MinCommentLength = 0 }, "MIN_COMMENT_LENGTH"},
		{"max below min length", func(c *Config) { c.MaxCommentLength = 0 }, "MAX_COMMENT_LENGTH"},
		{"negative link cap", func(c *Config) { c.MaxLinksAllowed = -1 }, "MAX_LINKS_ALLOWED"},
		{"zero refresh interval", func(c *Config) { c.WordRefreshInterval = 0 }, "WORD_REFRESH_INTERVAL"},
		{"zero duplicate window", func(c *Config) { c.DuplicateWindow = 0 }, "DUPLICATE_WINDOW"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %q, want mention of %q", err, tt.wantErr)
			}
		})
	}
}
