// Package config provides configuration loading and structs for the moyu server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hyperjump/moyu/internal/ranking"
)

// Record source kinds accepted in StoreConfig.Type.
const (
	StoreSupabase = "supabase"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// Generation providers accepted in LLMConfig.Providers.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
)

// Config holds all configuration for the application.
type Config struct {
	Debug   bool          `yaml:"debug"`
	Server  ServerConfig  `yaml:"server"`
	Store   StoreConfig   `yaml:"store"`
	Seed    SeedConfig    `yaml:"seed"`
	Search  SearchConfig  `yaml:"search"`
	LLM     LLMConfig     `yaml:"llm"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host              string `yaml:"host"`
	Port              int    `yaml:"port"`
	RequestTimeoutSec int    `yaml:"request_timeout_sec"`
}

// StoreConfig selects and configures the record source.
type StoreConfig struct {
	Type           string `yaml:"type"`
	SupabaseURL    string `yaml:"supabase_url,omitempty"`
	SupabaseKey    string `yaml:"supabase_key,omitempty"`
	DatabaseURL    string `yaml:"database_url,omitempty"`
	DatabasePath   string `yaml:"database_path"`
	CandidateLimit int    `yaml:"candidate_limit"`
	TimeoutSec     int    `yaml:"timeout_sec"`
}

// SeedConfig holds seed file import and watch settings.
type SeedConfig struct {
	Directories []string `yaml:"directories"`
	Extensions  []string `yaml:"extensions"`
	Recursive   *bool    `yaml:"recursive"`
	Watch       bool     `yaml:"watch"`
}

// RecursiveOrDefault returns whether to walk seed directories recursively; defaults to true when unset.
func (s *SeedConfig) RecursiveOrDefault() bool {
	if s.Recursive != nil {
		return *s.Recursive
	}
	return true
}

// SearchConfig holds search request defaults and ranking weights.
type SearchConfig struct {
	DefaultLimit int                   `yaml:"default_limit"`
	MaxLimit     int                   `yaml:"max_limit"`
	Ranking      ranking.RankingConfig `yaml:"ranking"`
}

// LLMConfig holds generation provider settings. Providers are tried in order.
type LLMConfig struct {
	Providers       []string `yaml:"providers"`
	AnthropicAPIKey string   `yaml:"anthropic_api_key,omitempty"`
	AnthropicModel  string   `yaml:"anthropic_model"`
	OpenAIAPIKey    string   `yaml:"openai_api_key,omitempty"`
	OpenAIModel     string   `yaml:"openai_model"`
	OpenAIBaseURL   string   `yaml:"openai_base_url,omitempty"`
	GeminiAPIKey    string   `yaml:"gemini_api_key,omitempty"`
	GeminiModel     string   `yaml:"gemini_model"`
	MaxTokens       int      `yaml:"max_tokens"`
	TimeoutSec      int      `yaml:"timeout_sec"`
}

// MetricsConfig holds prometheus exposition settings.
type MetricsConfig struct {
	Enabled *bool  `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// EnabledOrDefault returns whether metrics are exposed; defaults to true when unset.
func (m *MetricsConfig) EnabledOrDefault() bool {
	if m.Enabled != nil {
		return *m.Enabled
	}
	return true
}

// Load reads and parses the config file at path, expands paths, applies
// defaults and overlays secrets from the environment and an optional .env
// file next to the config. Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, os.Getenv)
}

// LoadWithEnv is Load with an explicit environment lookup.
func LoadWithEnv(path string, getenv func(string) string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	configDir := filepath.Dir(path)
	env, err := newEnvLookup(getenv, filepath.Join(configDir, ".env"))
	if err != nil {
		return nil, err
	}
	applyEnv(&cfg, env)
	ApplyDefaults(&cfg)

	cfg.Store.DatabasePath = expandPath(cfg.Store.DatabasePath, configDir)
	for i := range cfg.Seed.Directories {
		cfg.Seed.Directories[i] = expandPath(cfg.Seed.Directories[i], configDir)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv builds a config from defaults, the environment and ./.env
// without a config file.
func LoadFromEnv() (*Config, error) {
	env, err := newEnvLookup(os.Getenv, ".env")
	if err != nil {
		return nil, err
	}
	var cfg Config
	applyEnv(&cfg, env)
	ApplyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.Store.Type {
	case StoreSupabase, StorePostgres, StoreSQLite:
	default:
		return fmt.Errorf("config: unknown store type %q", c.Store.Type)
	}
	for _, p := range c.LLM.Providers {
		switch p {
		case ProviderAnthropic, ProviderOpenAI, ProviderGemini:
		default:
			return fmt.Errorf("config: unknown llm provider %q", p)
		}
	}
	if c.Search.MaxLimit < c.Search.DefaultLimit {
		return fmt.Errorf("config: search max_limit %d below default_limit %d", c.Search.MaxLimit, c.Search.DefaultLimit)
	}
	return nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
