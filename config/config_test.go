package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.HTTP.Port != 8080 {
		t.Errorf("Expected port 8080, got %d", cfg.HTTP.Port)
	}
	if cfg.Model.CacheSize != 1024 {
		t.Errorf("Expected cache size 1024, got %d", cfg.Model.CacheSize)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Expected log level info, got %s", cfg.Log.Level)
	}
	if cfg.NLP.Stemmer != "nltk" {
		t.Errorf("Expected nltk stemmer by default, got %s", cfg.NLP.Stemmer)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
http:
  port: 9090
  timeout: 5s
model:
  vectorizer_path: /srv/vector.gob
  classifier_path: /srv/model.gob
  cache_size: 0
log:
  level: debug
  format: json
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.HTTP.Port != 9090 || cfg.HTTP.Timeout != 5*time.Second {
		t.Errorf("unexpected http config: %+v", cfg.HTTP)
	}
	if cfg.HTTP.MaxBodyBytes != 1<<20 {
		t.Errorf("Expected default body limit to survive, got %d", cfg.HTTP.MaxBodyBytes)
	}
	if cfg.Model.VectorizerPath != "/srv/vector.gob" || cfg.Model.CacheSize != 0 {
		t.Errorf("unexpected model config: %+v", cfg.Model)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Expected json format, got %s", cfg.Log.Format)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "")
	if _, err := Load(path); err != nil {
		t.Fatalf("empty file should fall back to defaults: %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "http:\n  port: 9090\n")
	t.Setenv("NEWSGUARD_HTTP_PORT", "7070")
	t.Setenv("NEWSGUARD_MODEL_CLASSIFIER_PATH", "/tmp/model.json")
	t.Setenv("NEWSGUARD_HTTP_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("NEWSGUARD_LOG_LEVEL", "warn")
	t.Setenv("NEWSGUARD_NLP_STEMMER", "porter")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.HTTP.Port != 7070 {
		t.Errorf("Expected env port 7070, got %d", cfg.HTTP.Port)
	}
	if cfg.Model.ClassifierPath != "/tmp/model.json" {
		t.Errorf("Expected env classifier path, got %s", cfg.Model.ClassifierPath)
	}
	if len(cfg.HTTP.AllowedOrigins) != 2 || cfg.HTTP.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("unexpected origins %v", cfg.HTTP.AllowedOrigins)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Expected env log level, got %s", cfg.Log.Level)
	}
	if cfg.NLP.Stemmer != "porter" {
		t.Errorf("Expected env stemmer, got %s", cfg.NLP.Stemmer)
	}
}

func TestEnvOverrideInvalid(t *testing.T) {
	t.Setenv("NEWSGUARD_HTTP_PORT", "eighty")
	_, err := Load("")
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Expected ConfigError, got %v", err)
	}
	if cfgErr.Field != "NEWSGUARD_HTTP_PORT" {
		t.Errorf("unexpected field %s", cfgErr.Field)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		field  string
		mutate func(*Config)
	}{
		{"http.port", func(c *Config) { c.HTTP.Port = 0 }},
		{"http.timeout", func(c *Config) { c.HTTP.Timeout = 0 }},
		{"http.max_body_bytes", func(c *Config) { c.HTTP.MaxBodyBytes = -1 }},
		{"model.vectorizer_path", func(c *Config) { c.Model.VectorizerPath = "" }},
		{"model.classifier_path", func(c *Config) { c.Model.ClassifierPath = "" }},
		{"model.cache_size", func(c *Config) { c.Model.CacheSize = -5 }},
		{"nlp.stemmer", func(c *Config) { c.NLP.Stemmer = "snowball" }},
		{"log.level", func(c *Config) { c.Log.Level = "chatty" }},
	}

	for _, test := range tests {
		cfg := Default()
		test.mutate(&cfg)
		err := cfg.Validate()
		var cfgErr *ConfigError
		if !errors.As(err, &cfgErr) || cfgErr.Field != test.field {
			t.Errorf("Expected ConfigError for %s, got %v", test.field, err)
		}
	}
}

func TestLoadInvalidFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
	path := writeConfig(t, t.TempDir(), "http: [not a map")
	if _, err := Load(path); err == nil {
		t.Error("Expected error for malformed yaml")
	}
}

func TestParseStringSlice(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"", []string{}},
		{"a", []string{"a"}},
		{"a, b , c ", []string{"a", "b", "c"}},
		{"a,,b", []string{"a", "b"}},
	}

	for _, test := range tests {
		result := parseStringSlice(test.input)
		if len(result) != len(test.expected) {
			t.Errorf("For input '%s', expected length %d, got %d", test.input, len(test.expected), len(result))
			continue
		}
		for i := range result {
			if result[i] != test.expected[i] {
				t.Errorf("For input '%s', expected %v, got %v", test.input, test.expected, result)
			}
		}
	}
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "log:\n  level: info\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *Config, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, zap.NewNop(), func(cfg *Config) {
			select {
			case changes <- cfg:
			default:
			}
		})
	}()

	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case cfg := <-changes:
			// a truncate can surface as a write of the empty file
			if cfg.Log.Level != "debug" {
				continue
			}
			cancel()
			if err := <-done; err != nil {
				t.Fatalf("watch returned error: %v", err)
			}
			return
		case <-ticker.C:
			// keep rewriting until the watcher is registered and sees a write
			writeConfig(t, dir, "log:\n  level: debug\n")
		case <-deadline:
			t.Fatal("timed out waiting for config reload")
		}
	}
}
