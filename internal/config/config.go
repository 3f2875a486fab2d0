// Package config reads bookresolver settings from an optional YAML file and
// the environment. Environment variables win over the file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/bookresolver/internal/openlibrary"
)

const DefaultTimeout = 30 * time.Second

type Config struct {
	OpenLibrary OpenLibrary `yaml:"openlibrary"`
	Schema      string      `yaml:"schema"`
	LogLevel    string      `yaml:"log_level"`
	QueryParser QueryParser `yaml:"query_parser"`
}

type OpenLibrary struct {
	BaseURL   string        `yaml:"base_url"`
	CoversURL string        `yaml:"covers_url"`
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
}

// QueryParser selects the LLM used to split free text into a title and an
// ISBN. An empty provider keeps parsing rule based.
type QueryParser struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
}

func Default() Config {
	return Config{
		OpenLibrary: OpenLibrary{
			BaseURL:   openlibrary.DefaultBaseURL,
			CoversURL: openlibrary.DefaultCoversURL,
			Timeout:   DefaultTimeout,
			UserAgent: openlibrary.DefaultUserAgent,
		},
		Schema:   "relations",
		LogLevel: "info",
	}
}

// Load starts from the defaults, applies the YAML file at path when path is
// not empty, then applies the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.OpenLibrary.BaseURL, "OPENLIBRARY_URL")
	setString(&c.OpenLibrary.CoversURL, "OPENLIBRARY_COVERS_URL")
	setString(&c.OpenLibrary.UserAgent, "OPENLIBRARY_USER_AGENT")
	setString(&c.Schema, "LOOKUP_SCHEMA")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.QueryParser.Provider, "QUERY_PARSER_PROVIDER")
	setString(&c.QueryParser.Model, "QUERY_PARSER_MODEL")

	if v := strings.TrimSpace(os.Getenv("OPENLIBRARY_TIMEOUT")); v != "" {
		timeout, err := parseTimeout(v)
		if err != nil {
			return fmt.Errorf("invalid OPENLIBRARY_TIMEOUT %q: %w", v, err)
		}
		c.OpenLibrary.Timeout = timeout
	}
	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

// parseTimeout accepts a Go duration ("45s") or a bare number of seconds.
func parseTimeout(v string) (time.Duration, error) {
	if seconds, err := strconv.Atoi(v); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	return time.ParseDuration(v)
}

// URLBuilder returns the OpenLibrary URL rules for the configured hosts
func (c Config) URLBuilder() openlibrary.URLBuilder {
	return openlibrary.NewURLBuilder(c.OpenLibrary.BaseURL, c.OpenLibrary.CoversURL)
}

// Client returns an OpenLibrary client with the configured timeout and user agent
func (c Config) Client() *openlibrary.Client {
	return openlibrary.NewClient(c.OpenLibrary.Timeout, c.OpenLibrary.UserAgent)
}

// Level maps LogLevel onto slog; unknown values mean info.
func (c Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
