package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

const minimalYAML = `
site:
  url: https://pointspath.example
database:
  url: postgres://localhost/schema
redis:
  url: localhost:6379
`

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, minimalYAML), true)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Runtime.Dev {
		t.Error("dev flag not propagated")
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("log defaults: %+v", cfg.Log)
	}
	if cfg.Site.Language != "en_US" {
		t.Errorf("language default: %q", cfg.Site.Language)
	}
	if cfg.AI.DefaultModel != "gpt-4o-mini" || cfg.AI.Timeout != 60*time.Second {
		t.Errorf("ai defaults: %+v", cfg.AI)
	}
	if cfg.Queue.Interval != 2*time.Minute || cfg.Queue.BatchSize != 2 || cfg.Queue.MaxAttempts != 3 {
		t.Errorf("queue defaults: %+v", cfg.Queue)
	}
	if cfg.Queue.LockTTL != 90*time.Second || cfg.Queue.StaleAfter != 10*time.Minute {
		t.Errorf("queue lock defaults: %+v", cfg.Queue)
	}
	if cfg.Admin.SessionTTL != 30*time.Minute {
		t.Errorf("session ttl default: %v", cfg.Admin.SessionTTL)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	body := minimalYAML + `
queue:
  interval: 30s
  batch_size: 5
  max_attempts: 7
ai:
  openai_key: sk-x
  timeout: 90s
`
	cfg, err := LoadConfig(writeConfig(t, body), false)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Queue.Interval != 30*time.Second || cfg.Queue.BatchSize != 5 || cfg.Queue.MaxAttempts != 7 {
		t.Errorf("queue overrides: %+v", cfg.Queue)
	}
	if cfg.AI.OpenAIKey != "sk-x" || cfg.AI.Timeout != 90*time.Second {
		t.Errorf("ai overrides: %+v", cfg.AI)
	}
}

func TestLoadConfigRequiredFields(t *testing.T) {
	cases := map[string]string{
		"site.url": `
database:
  url: postgres://localhost/schema
redis:
  url: localhost:6379
`,
		"database.url": `
site:
  url: https://pointspath.example
redis:
  url: localhost:6379
`,
		"redis.url": `
site:
  url: https://pointspath.example
database:
  url: postgres://localhost/schema
`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, body), false); err == nil {
				t.Fatalf("missing %s should fail", name)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), false); err == nil {
		t.Fatal("missing file should fail")
	}
}
