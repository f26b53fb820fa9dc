// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

// SiteConfig describes the publishing site the generated graphs belong to.
type SiteConfig struct {
	Name            string `yaml:"name"`
	URL             string `yaml:"url"`
	LogoURL         string `yaml:"logo_url"`
	Language        string `yaml:"language"` // site locale, e.g. en_US
	WebsiteAllPages bool   `yaml:"website_all_pages"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type AdminConfig struct {
	Port         int           `yaml:"port"`
	APIKey       string        `yaml:"api_key"`
	JWTSecret    string        `yaml:"jwt_secret"`
	SecureCookie bool          `yaml:"secure_cookie"`
	SessionTTL   time.Duration `yaml:"session_ttl"`
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	MaxConns int32  `yaml:"max_conns"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type AIConfig struct {
	OpenAIKey    string        `yaml:"openai_key"`
	OpenAIURL    string        `yaml:"openai_url"`
	GeminiKey    string        `yaml:"gemini_key"`
	GeminiURL    string        `yaml:"gemini_url"`
	DefaultModel string        `yaml:"default_model"`
	Timeout      time.Duration `yaml:"timeout"`     // per classification call
	MaxTokens    int           `yaml:"max_tokens"`  // prompt content token budget
	MaxChars     int           `yaml:"max_chars"`   // fallback char cap when token counting unavailable
}

type QueueConfig struct {
	Interval    time.Duration `yaml:"interval"`     // scheduler tick
	BatchSize   int           `yaml:"batch_size"`   // jobs per drain
	MaxAttempts int           `yaml:"max_attempts"` // per-job retry ceiling
	LockTTL     time.Duration `yaml:"lock_ttl"`     // run-lock lease
	StaleAfter  time.Duration `yaml:"stale_after"`  // running-job requeue threshold
	ReapEvery   int           `yaml:"reap_every"`   // run stale reaper every Nth tick
}

type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Log      LogConfig      `yaml:"log"`
	Admin    AdminConfig    `yaml:"admin"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	AI       AIConfig       `yaml:"ai"`
	Queue    QueueConfig    `yaml:"queue"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(configPath string, dev bool) (*Config, error) {
	b, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Site.Language == "" {
		cfg.Site.Language = "en_US"
	}
	if cfg.Database.MaxConns <= 0 {
		cfg.Database.MaxConns = 10
	}
	if cfg.AI.DefaultModel == "" {
		cfg.AI.DefaultModel = "gpt-4o-mini"
	}
	if cfg.AI.OpenAIURL == "" {
		cfg.AI.OpenAIURL = "https://api.openai.com/v1"
	}
	if cfg.AI.Timeout <= 0 {
		cfg.AI.Timeout = 60 * time.Second
	}
	if cfg.AI.MaxTokens <= 0 {
		cfg.AI.MaxTokens = 7500
	}
	if cfg.AI.MaxChars <= 0 {
		cfg.AI.MaxChars = 30000
	}
	if cfg.Queue.Interval <= 0 {
		cfg.Queue.Interval = 2 * time.Minute
	}
	if cfg.Queue.BatchSize <= 0 {
		cfg.Queue.BatchSize = 2
	}
	if cfg.Queue.MaxAttempts <= 0 {
		cfg.Queue.MaxAttempts = 3
	}
	if cfg.Queue.LockTTL <= 0 {
		cfg.Queue.LockTTL = 90 * time.Second
	}
	if cfg.Queue.StaleAfter <= 0 {
		cfg.Queue.StaleAfter = 10 * time.Minute
	}
	if cfg.Queue.ReapEvery <= 0 {
		cfg.Queue.ReapEvery = 5
	}
	if cfg.Admin.SessionTTL <= 0 {
		cfg.Admin.SessionTTL = 30 * time.Minute
	}

	// Minimal validation
	if cfg.Site.URL == "" {
		return nil, errors.New("site.url is required")
	}
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
