// Package config loads newsguard settings from a YAML file with .env and
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"newsguard/logging"
	"newsguard/nlp"
)

// EnvPrefix prefixes every environment override, e.g. NEWSGUARD_HTTP_PORT.
const EnvPrefix = "NEWSGUARD_"

type Config struct {
	HTTP  HTTPConfig     `yaml:"http"`
	Model ModelConfig    `yaml:"model"`
	NLP   NLPConfig      `yaml:"nlp"`
	Log   logging.Config `yaml:"log"`
}

type HTTPConfig struct {
	Port           int           `yaml:"port"`
	Timeout        time.Duration `yaml:"timeout"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	MaxBodyBytes   int64         `yaml:"max_body_bytes"`
}

type ModelConfig struct {
	VectorizerPath string `yaml:"vectorizer_path"`
	ClassifierPath string `yaml:"classifier_path"`
	CacheSize      int    `yaml:"cache_size"`
}

type NLPConfig struct {
	// StopwordsPath replaces the built-in English list when set.
	StopwordsPath string `yaml:"stopwords_path"`
	// Stemmer is "nltk" (default) or "porter".
	Stemmer string `yaml:"stemmer"`
}

// Default returns the configuration used for anything the file leaves unset.
func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Port:           8080,
			Timeout:        30 * time.Second,
			AllowedOrigins: []string{"*"},
			MaxBodyBytes:   1 << 20,
		},
		Model: ModelConfig{
			VectorizerPath: "models/vectorizer.json",
			ClassifierPath: "models/classifier.json",
			CacheSize:      1024,
		},
		NLP: NLPConfig{
			Stemmer: nlp.StemmerNLTK,
		},
		Log: logging.Config{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  100,
			MaxBackups: 5,
			MaxAgeDays: 28,
		},
	}
}

// Load reads path (a missing file is fine when path is empty), then .env,
// then NEWSGUARD_* environment variables, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := readFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func readFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	var err error
	setString("MODEL_VECTORIZER_PATH", &cfg.Model.VectorizerPath)
	setString("MODEL_CLASSIFIER_PATH", &cfg.Model.ClassifierPath)
	setString("NLP_STOPWORDS_PATH", &cfg.NLP.StopwordsPath)
	setString("NLP_STEMMER", &cfg.NLP.Stemmer)
	setString("LOG_LEVEL", &cfg.Log.Level)
	setString("LOG_FORMAT", &cfg.Log.Format)
	setString("LOG_FILE", &cfg.Log.File)

	if value, ok := lookup("HTTP_PORT"); ok {
		if cfg.HTTP.Port, err = strconv.Atoi(value); err != nil {
			return &ConfigError{Field: EnvPrefix + "HTTP_PORT", Message: "must be an integer"}
		}
	}
	if value, ok := lookup("HTTP_TIMEOUT"); ok {
		if cfg.HTTP.Timeout, err = time.ParseDuration(value); err != nil {
			return &ConfigError{Field: EnvPrefix + "HTTP_TIMEOUT", Message: "must be a duration"}
		}
	}
	if value, ok := lookup("HTTP_ALLOWED_ORIGINS"); ok {
		cfg.HTTP.AllowedOrigins = parseStringSlice(value)
	}
	if value, ok := lookup("MODEL_CACHE_SIZE"); ok {
		if cfg.Model.CacheSize, err = strconv.Atoi(value); err != nil {
			return &ConfigError{Field: EnvPrefix + "MODEL_CACHE_SIZE", Message: "must be an integer"}
		}
	}
	return nil
}

func lookup(key string) (string, bool) {
	value, ok := os.LookupEnv(EnvPrefix + key)
	if !ok || strings.TrimSpace(value) == "" {
		return "", false
	}
	return strings.TrimSpace(value), true
}

func setString(key string, dst *string) {
	if value, ok := lookup(key); ok {
		*dst = value
	}
}

// parseStringSlice parses comma-separated string into slice
func parseStringSlice(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// Validate checks ranges and required fields.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return &ConfigError{Field: "http.port", Message: fmt.Sprintf("%d is not a valid port", c.HTTP.Port)}
	}
	if c.HTTP.Timeout <= 0 {
		return &ConfigError{Field: "http.timeout", Message: "must be positive"}
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		return &ConfigError{Field: "http.max_body_bytes", Message: "must be positive"}
	}
	if c.Model.VectorizerPath == "" {
		return &ConfigError{Field: "model.vectorizer_path", Message: "is required"}
	}
	if c.Model.ClassifierPath == "" {
		return &ConfigError{Field: "model.classifier_path", Message: "is required"}
	}
	if c.Model.CacheSize < 0 {
		return &ConfigError{Field: "model.cache_size", Message: "must not be negative"}
	}
	if _, err := nlp.StemmerByName(c.NLP.Stemmer); err != nil {
		return &ConfigError{Field: "nlp.stemmer", Message: err.Error()}
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return &ConfigError{Field: "log.level", Message: err.Error()}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
