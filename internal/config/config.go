// File: internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort   string
	JWTSecretKey string

	// Login credential for the single-tenant deployment: a bcrypt hash of
	// the access password, generated out of band.
	AccessPasswordHash string

	// OpenAI-style endpoint. Domain is overridable for proxies and
	// API-compatible providers.
	OpenAIAPIKey string
	OpenAIDomain string

	// Anthropic-style endpoint.
	AnthropicAPIKey string
	AnthropicDomain string

	DatabasePath string
	Environment  string
}

// Load reads configuration from environment variables or .env file.
func Load() *Config {
	env := os.Getenv("ENV")
	if strings.ToLower(env) != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	cfg := &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		JWTSecretKey:       getEnv("JWT_SECRET_KEY", ""),
		AccessPasswordHash: getEnv("ACCESS_PASSWORD_HASH", ""),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		OpenAIDomain:       getEnv("OPENAI_DOMAIN", "api.openai.com"),
		AnthropicAPIKey:    getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicDomain:    getEnv("ANTHROPIC_DOMAIN", "api.anthropic.com"),
		DatabasePath:       getEnv("DATABASE_PATH", "lightchat.db"),
		Environment:        env,
	}

	// Validation for production environments
	if strings.ToLower(env) == "production" {
		missing := []string{}
		if cfg.JWTSecretKey == "" {
			missing = append(missing, "JWT_SECRET_KEY")
		}
		if cfg.AccessPasswordHash == "" {
			missing = append(missing, "ACCESS_PASSWORD_HASH")
		}
		if cfg.OpenAIAPIKey == "" && cfg.AnthropicAPIKey == "" {
			missing = append(missing, "OPENAI_API_KEY or ANTHROPIC_API_KEY")
		}
		if len(missing) > 0 {
			log.Fatalf("Missing required production environment variables: %v", missing)
		}
	}

	return cfg
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an env var as an integer, with a fallback.
func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as integer. Using default value.", key)
		return defaultValue
	}
	return intValue
}
