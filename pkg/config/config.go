package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string        `yaml:"environment" env:"APP_ENV" default:"development" validate:"required"`
	Server      ServerConfig  `yaml:"server"`
	Log         LogConfig     `yaml:"log"`
	Redis       RedisConfig   `yaml:"redis"`
	LLM         LLMConfig     `yaml:"llm"`
	Symbols     SymbolsConfig `yaml:"symbols"`
	News        NewsConfig    `yaml:"news"`
	Chat        ChatConfig    `yaml:"chat"`
}

type ServerConfig struct {
	Port            int           `yaml:"port" env:"PORT" default:"8080" validate:"gte=1,lte=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	CORSOrigins     []string      `yaml:"cors_origins" env:"CORS_ALLOWED_ORIGINS"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" env:"LOG_FORMAT" default:"json" validate:"oneof=json console"`
	Output string `yaml:"output" env:"LOG_OUTPUT" default:"stdout"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled" env:"REDIS_ENABLED"`
	Host     string `yaml:"host" env:"REDIS_HOST" default:"localhost"`
	Port     int    `yaml:"port" env:"REDIS_PORT" default:"6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
	Prefix   string `yaml:"prefix" env:"REDIS_PREFIX" default:"finassist"`
}

type LLMConfig struct {
	APIKey         string        `yaml:"api_key" env:"OPENAI_API_KEY"`
	BaseURL        string        `yaml:"base_url" env:"OPENAI_BASE_URL"`
	Model          string        `yaml:"model" env:"AGENT_LLM_MODEL" default:"gpt-4o-mini" validate:"required"`
	RequestTimeout time.Duration `yaml:"request_timeout" default:"30s"`
}

type SymbolsConfig struct {
	CacheSize     int           `yaml:"cache_size" default:"1000" validate:"gte=1"`
	CacheTTL      time.Duration `yaml:"cache_ttl" default:"1h"`
	CoarseExpiry  bool          `yaml:"coarse_expiry"`
	ListingsFile  string        `yaml:"listings_file" env:"SYMBOL_LISTINGS_FILE"`
	SearchBaseURL string        `yaml:"search_base_url" env:"SYMBOL_SEARCH_BASE_URL" default:"https://query1.finance.yahoo.com"`
}

type NewsConfig struct {
	BaseURL    string        `yaml:"base_url" env:"NEWS_BASE_URL" default:"https://query1.finance.yahoo.com"`
	MaxSymbols int           `yaml:"max_symbols" default:"2" validate:"gte=1"`
	MaxItems   int           `yaml:"max_items" default:"5" validate:"gte=1"`
	Timeout    time.Duration `yaml:"timeout" default:"8s"`
}

type ChatConfig struct {
	RateCapacity  float64 `yaml:"rate_capacity" default:"10"`
	RateRefillSec float64 `yaml:"rate_refill_per_sec" default:"0.5"`
}

var validate = validator.New()

// Load reads and parses a YAML configuration file, then applies environment overrides.
func Load(path string) (*Config, error) {
	c := &Config{}
	if err := defaults.Set(c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return finish(c)
}

// LoadFromEnv builds the configuration from defaults and environment variables only.
func LoadFromEnv() (*Config, error) {
	c := &Config{}
	if err := defaults.Set(c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	return finish(c)
}

// LoadOrEnv loads path when it exists and falls back to LoadFromEnv otherwise.
func LoadOrEnv(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat config: %w", err)
		}
	}
	return LoadFromEnv()
}

func finish(c *Config) (*Config, error) {
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Symbols.CacheTTL <= 0 {
		return fmt.Errorf("symbols.cache_ttl must be positive")
	}
	return nil
}
