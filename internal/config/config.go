package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dearpower/dearpower-go/internal/constants"
	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Postcodes  PostcodesConfig
	Parliament ParliamentConfig
	Lookup     LookupConfig
	Mapbox     MapboxConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	Redis      RedisConfig
	Logging    LoggingConfig
}

type ServerConfig struct {
	Port      int
	StaticDir string
}

type PostcodesConfig struct {
	BaseURL string
}

type ParliamentConfig struct {
	BaseURL string
}

type LookupConfig struct {
	Timeout time.Duration
}

type MapboxConfig struct {
	Token   string
	BaseURL string
}

type OpenAIConfig struct {
	APIKey string
	Model  string
}

type GeminiConfig struct {
	APIKey         string
	Model          string
	EnableFallback bool
}

// RedisConfig is optional; an empty Host disables the article cache.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.Host) != ""
}

type LoggingConfig struct {
	Level string
	File  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:      getEnvInt("PORT", 3000),
			StaticDir: getEnv("STATIC_DIR", "."),
		},
		Postcodes: PostcodesConfig{
			BaseURL: trimSlash(getEnv("POSTCODES_BASE_URL", constants.APIConfig.PostcodesBaseURL)),
		},
		Parliament: ParliamentConfig{
			BaseURL: trimSlash(getEnv("PARLIAMENT_BASE_URL", constants.APIConfig.ParliamentBaseURL)),
		},
		Lookup: LookupConfig{
			Timeout: getEnvDuration("LOOKUP_TIMEOUT_SECONDS", constants.APIConfig.LookupTimeout),
		},
		Mapbox: MapboxConfig{
			Token:   getEnv("MAPBOX_TOKEN", ""),
			BaseURL: trimSlash(getEnv("MAPBOX_BASE_URL", constants.APIConfig.MapboxBaseURL)),
		},
		OpenAI: OpenAIConfig{
			APIKey: getEnv("OPENAI_API_KEY", ""),
			Model:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		},
		Gemini: GeminiConfig{
			APIKey:         getEnv("GEMINI_API_KEY", ""),
			Model:          getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			EnableFallback: getEnvBool("GEMINI_ENABLE_FALLBACK", true),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Postcodes.BaseURL == "" {
		return fmt.Errorf("POSTCODES_BASE_URL is required")
	}
	if c.Parliament.BaseURL == "" {
		return fmt.Errorf("PARLIAMENT_BASE_URL is required")
	}
	if c.Lookup.Timeout <= 0 {
		return fmt.Errorf("LOOKUP_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getEnvDuration reads a whole number of seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

func trimSlash(value string) string {
	return strings.TrimRight(strings.TrimSpace(value), "/")
}
