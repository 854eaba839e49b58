package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
)

// Environment variables overlaid onto the config. Non-empty values win over
// the config file.
const (
	EnvSupabaseURL     = "SUPABASE_URL"
	EnvSupabaseKey     = "SUPABASE_ANON_KEY"
	EnvDatabaseURL     = "DATABASE_URL"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
	EnvGeminiAPIKey    = "GEMINI_API_KEY"
	EnvStoreType       = "MOYU_STORE_TYPE"
)

// newEnvLookup returns a lookup that prefers getenv and falls back to the
// values in dotenvPath. A missing .env file is not an error.
func newEnvLookup(getenv func(string) string, dotenvPath string) (func(string) string, error) {
	values, err := godotenv.Read(dotenvPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", dotenvPath, err)
		}
		values = map[string]string{}
	}
	return func(key string) string {
		if getenv != nil {
			if v := getenv(key); v != "" {
				return v
			}
		}
		return values[key]
	}, nil
}

func applyEnv(cfg *Config, env func(string) string) {
	overlay := func(dst *string, key string) {
		if v := env(key); v != "" {
			*dst = v
		}
	}
	overlay(&cfg.Store.Type, EnvStoreType)
	overlay(&cfg.Store.SupabaseURL, EnvSupabaseURL)
	overlay(&cfg.Store.SupabaseKey, EnvSupabaseKey)
	overlay(&cfg.Store.DatabaseURL, EnvDatabaseURL)
	overlay(&cfg.LLM.AnthropicAPIKey, EnvAnthropicAPIKey)
	overlay(&cfg.LLM.OpenAIAPIKey, EnvOpenAIAPIKey)
	overlay(&cfg.LLM.GeminiAPIKey, EnvGeminiAPIKey)
}
