package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/Veraticus/the-budget-must-balance/internal/common"
	"github.com/Veraticus/the-budget-must-balance/internal/llm"
)

// LoadLLMConfig reads the llm.* keys. When llm.api_key is empty the
// provider's conventional environment variable is used.
func LoadLLMConfig() (llm.Config, error) {
	cfg := llm.Config{
		Provider:    strings.ToLower(viper.GetString("llm.provider")),
		APIKey:      viper.GetString("llm.api_key"),
		Model:       viper.GetString("llm.model"),
		BaseURL:     viper.GetString("llm.base_url"),
		MaxRetries:  viper.GetInt("llm.max_retries"),
		RetryDelay:  viper.GetDuration("llm.retry_delay"),
		RateLimit:   viper.GetInt("llm.rate_limit"),
		Temperature: viper.GetFloat64("llm.temperature"),
		MaxTokens:   viper.GetInt("llm.max_tokens"),
	}
	if cfg.Provider == "" {
		cfg.Provider = "anthropic"
	}

	if cfg.APIKey == "" {
		switch cfg.Provider {
		case "anthropic":
			cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		case "openai":
			cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		default:
			return llm.Config{}, fmt.Errorf("unsupported LLM provider %q: %w", cfg.Provider, common.ErrInvalidConfig)
		}
	}

	if cfg.APIKey == "" {
		return llm.Config{}, fmt.Errorf("no API key for LLM provider %s: %w", cfg.Provider, common.ErrMissingConfig)
	}

	return cfg, nil
}
