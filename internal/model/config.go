package model

import (
	"fmt"
	"runtime"
	"time"
)

// Config is the complete piitier configuration
type Config struct {
	Engine      EngineConfig      `mapstructure:"engine" yaml:"engine"`
	Detection   DetectionConfig   `mapstructure:"detection" yaml:"detection"`
	LLM         LLMConfig         `mapstructure:"llm" yaml:"llm"`
	Concurrency ConcurrencyConfig `mapstructure:"concurrency" yaml:"concurrency"`
	Cache       CacheConfig       `mapstructure:"cache" yaml:"cache"`
	Server      ServerConfig      `mapstructure:"server" yaml:"server"`
	Source      SourceConfig      `mapstructure:"source" yaml:"source"`
	Logging     LoggingConfig     `mapstructure:"logging" yaml:"logging"`
}

// EngineConfig selects the entity engine backend
type EngineConfig struct {
	Backend  string         `mapstructure:"backend" yaml:"backend"` // pattern | presidio
	Presidio PresidioConfig `mapstructure:"presidio" yaml:"presidio"`
}

// PresidioConfig configures the Presidio analyzer client
type PresidioConfig struct {
	URL      string `mapstructure:"url" yaml:"url"`
	Language string `mapstructure:"language" yaml:"language"`
	Timeout  int    `mapstructure:"timeout" yaml:"timeout"` // seconds
}

// DetectionConfig tunes the regex detection path
type DetectionConfig struct {
	ScoreFloor float64 `mapstructure:"score_floor" yaml:"score_floor"`
	MergeLLM   bool    `mapstructure:"merge_llm" yaml:"merge_llm"`
	Country    string  `mapstructure:"country" yaml:"country"`
}

// LLMConfig configures the LLM entity detector
type LLMConfig struct {
	Enabled    bool    `mapstructure:"enabled" yaml:"enabled"`
	Provider   string  `mapstructure:"provider" yaml:"provider"` // openai | anthropic | ollama
	Model      string  `mapstructure:"model" yaml:"model"`
	APIKey     string  `mapstructure:"api_key" yaml:"api_key,omitempty"`
	BaseURL    string  `mapstructure:"base_url" yaml:"base_url,omitempty"`
	Timeout    int     `mapstructure:"timeout" yaml:"timeout"` // seconds
	MaxTokens  int     `mapstructure:"max_tokens" yaml:"max_tokens"`
	RateLimit  float64 `mapstructure:"rate_limit" yaml:"rate_limit"` // requests per second per provider
	RateBurst  int     `mapstructure:"rate_burst" yaml:"rate_burst"`
	HTTPProxy  string  `mapstructure:"http_proxy" yaml:"http_proxy,omitempty"`
	HTTPSProxy string  `mapstructure:"https_proxy" yaml:"https_proxy,omitempty"`
	NoProxy    string  `mapstructure:"no_proxy" yaml:"no_proxy,omitempty"`
}

// ConcurrencyConfig bounds document-level parallelism
type ConcurrencyConfig struct {
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// CacheConfig configures caching of LLM categorizations
type CacheConfig struct {
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
	Dir      string `mapstructure:"dir" yaml:"dir"`
	TTLHours int    `mapstructure:"ttl_hours" yaml:"ttl_hours"`
	RedisURL string `mapstructure:"redis_url" yaml:"redis_url,omitempty"`
}

// TTL returns the cache TTL as a duration
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Host         string `mapstructure:"host" yaml:"host"`
	Port         int    `mapstructure:"port" yaml:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout" yaml:"read_timeout"`  // seconds
	WriteTimeout int    `mapstructure:"write_timeout" yaml:"write_timeout"` // seconds
	MaxBodyBytes int64  `mapstructure:"max_body_bytes" yaml:"max_body_bytes"`
}

// SourceConfig configures document text sources
type SourceConfig struct {
	Timeout       int     `mapstructure:"timeout" yaml:"timeout"` // seconds
	MaxBytes      int64   `mapstructure:"max_bytes" yaml:"max_bytes"`
	UserAgent     string  `mapstructure:"user_agent" yaml:"user_agent"`
	RespectRobots bool    `mapstructure:"respect_robots" yaml:"respect_robots"`
	MaxRetries    int     `mapstructure:"max_retries" yaml:"max_retries"`
	RateLimit     float64 `mapstructure:"rate_limit" yaml:"rate_limit"` // requests per second per host
	RateBurst     int     `mapstructure:"rate_burst" yaml:"rate_burst"`
	HTTPProxy     string  `mapstructure:"http_proxy" yaml:"http_proxy,omitempty"`
	HTTPSProxy    string  `mapstructure:"https_proxy" yaml:"https_proxy,omitempty"`
	NoProxy       string  `mapstructure:"no_proxy" yaml:"no_proxy,omitempty"`
}

// LoggingConfig configures the zap logger
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"` // json | console
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			Backend: "pattern",
			Presidio: PresidioConfig{
				URL:      "http://localhost:5002",
				Language: "en",
				Timeout:  10,
			},
		},
		Detection: DetectionConfig{
			ScoreFloor: 0.2,
		},
		LLM: LLMConfig{
			Provider:  "openai",
			Model:     "gpt-4o-mini",
			Timeout:   30,
			MaxTokens: 2048,
			RateLimit: 2,
			RateBurst: 4,
		},
		Concurrency: ConcurrencyConfig{
			Workers: runtime.NumCPU(),
		},
		Cache: CacheConfig{
			Enabled:  false,
			Dir:      "~/.piitier/cache",
			TTLHours: 24,
		},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  30,
			WriteTimeout: 120,
			MaxBodyBytes: 10 << 20,
		},
		Source: SourceConfig{
			Timeout:       30,
			MaxBytes:      10 << 20,
			UserAgent:     "piitier/0.1",
			RespectRobots: true,
			MaxRetries:    2,
			RateLimit:     2,
			RateBurst:     4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate checks enumerated and numeric settings
func (c *Config) Validate() error {
	switch c.Engine.Backend {
	case "pattern", "presidio":
	default:
		return fmt.Errorf("invalid engine backend: %s (must be pattern or presidio)", c.Engine.Backend)
	}

	switch c.LLM.Provider {
	case "openai", "anthropic", "ollama":
	default:
		return fmt.Errorf("invalid llm provider: %s (must be openai, anthropic, or ollama)", c.LLM.Provider)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logging.Level)
	}

	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logging.Format)
	}

	if c.Detection.ScoreFloor < 0 || c.Detection.ScoreFloor > 1 {
		return fmt.Errorf("invalid score floor: %v (must be within 0..1)", c.Detection.ScoreFloor)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Concurrency.Workers <= 0 {
		c.Concurrency.Workers = runtime.NumCPU()
	}

	return nil
}
