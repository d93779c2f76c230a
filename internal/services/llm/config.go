// File: internal/services/llm/config.go
package llm

import (
	"fmt"
	"time"
)

type Config struct {
	// Credentials and endpoint
	APIKey string
	Domain string // host only, e.g. "api.openai.com"

	// Performance Configuration
	Timeout time.Duration

	// Response cap for vendors that require one (Anthropic's
	// max_tokens_to_sample).
	MaxTokensToSample int
}

func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("api key is required")
	}
	if c.Domain == "" {
		return fmt.Errorf("domain is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxTokensToSample <= 0 {
		return fmt.Errorf("max_tokens_to_sample must be positive")
	}
	return nil
}

func DefaultOpenAIConfig() *Config {
	return &Config{
		Domain:            "api.openai.com",
		Timeout:           2 * time.Minute,
		MaxTokensToSample: 2048,
	}
}

func DefaultAnthropicConfig() *Config {
	return &Config{
		Domain:            "api.anthropic.com",
		Timeout:           2 * time.Minute,
		MaxTokensToSample: 2048,
	}
}
