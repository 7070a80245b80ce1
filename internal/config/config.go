// Package config collects credentials and defaults from the environment.
package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Providers accepted for Config.Provider.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type Config struct {
	OpenAIAPIKey      string
	GeminiAPIKey      string
	GoogleBooksAPIKey string

	Provider    string
	Model       string
	FormatModel string
	StartPages  int
	MaxPages    int
}

// Load reads .env from the working directory when present, then the process
// environment. Keys are not validated here; a missing model key fails on the
// first request.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("provider", ProviderOpenAI)
	v.SetDefault("start_pages", 4)
	v.SetDefault("max_pages", 16)

	// BOOKINFO_PROVIDER, BOOKINFO_MAX_PAGES, ...
	v.SetEnvPrefix("bookinfo")
	v.AutomaticEnv()
	// Credentials keep their conventional names.
	binds := map[string]string{
		"openai_api_key":       "OPENAI_API_KEY",
		"gemini_api_key":       "GEMINI_API_KEY",
		"google_books_api_key": "GOOGLE_BOOKS_API_KEY",
	}
	for key, env := range binds {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	cfg := Config{
		OpenAIAPIKey:      v.GetString("openai_api_key"),
		GeminiAPIKey:      v.GetString("gemini_api_key"),
		GoogleBooksAPIKey: v.GetString("google_books_api_key"),
		Provider:          v.GetString("provider"),
		Model:             v.GetString("model"),
		FormatModel:       v.GetString("format_model"),
		StartPages:        v.GetInt("start_pages"),
		MaxPages:          v.GetInt("max_pages"),
	}
	if cfg.Provider != ProviderOpenAI && cfg.Provider != ProviderGemini {
		return Config{}, fmt.Errorf("unknown provider %q (want %s or %s)", cfg.Provider, ProviderOpenAI, ProviderGemini)
	}
	return cfg, nil
}
