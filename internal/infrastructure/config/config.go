package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Shell     ShellConfig
	Engine    EngineConfig
	AI        AIConfig
	Server    ServerConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ShellConfig holds interactive shell configuration.
type ShellConfig struct {
	DBPath       string `envconfig:"SHELL_DB" default:"agentshell.db"`
	HistoryLimit int    `envconfig:"SHELL_HISTORY_LIMIT" default:"500"`
	WorkDir      string `envconfig:"SHELL_WORKDIR" default:"."`
}

// EngineConfig holds script engine configuration.
type EngineConfig struct {
	EvalTimeout time.Duration `envconfig:"ENGINE_EVAL_TIMEOUT" default:"30s"`
}

// AIConfig holds local model server configuration.
type AIConfig struct {
	BaseURL   string        `envconfig:"AI_URL" default:"http://localhost:8080"`
	Model     string        `envconfig:"AI_MODEL" default:"local"`
	Timeout   time.Duration `envconfig:"AI_TIMEOUT" default:"120s"`
	MaxTokens int           `envconfig:"AI_MAX_TOKENS" default:"512"`
}

// ServerConfig holds the control-plane HTTP server configuration.
type ServerConfig struct {
	Addr    string `envconfig:"SERVER_ADDR" default:"127.0.0.1:8090"`
	Enabled bool   `envconfig:"SERVER_ENABLED" default:"false"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds control-plane rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"50"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"100"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Shell: ShellConfig{
			DBPath:       "agentshell.db",
			HistoryLimit: 500,
			WorkDir:      ".",
		},
		Engine: EngineConfig{
			EvalTimeout: 30 * time.Second,
		},
		AI: AIConfig{
			BaseURL:   "http://localhost:8080",
			Model:     "local",
			Timeout:   120 * time.Second,
			MaxTokens: 512,
		},
		Server: ServerConfig{
			Addr:    "127.0.0.1:8090",
			Enabled: false,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 50,
			Burst:             100,
			Enabled:           true,
		},
	}
}
