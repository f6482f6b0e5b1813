// Package config loads the engine configuration from a YAML or JSON file and MATCH_* environment
// variables, applies defaults and validates the result.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/jonathan/match-engine/internal/cache"
	"github.com/jonathan/match-engine/internal/dimensions"
	"github.com/jonathan/match-engine/internal/embedding"
	"github.com/jonathan/match-engine/internal/hybrid"
	"github.com/jonathan/match-engine/internal/llm"
)

const (
	// EnvPrefix prefixes every environment override, e.g. MATCH_SCORING_MODE.
	EnvPrefix = "MATCH"
	// DefaultFileName is looked up in the working directory when no config path is given.
	DefaultFileName = "match-engine"
)

// Config is the full engine configuration.
type Config struct {
	Cache       cache.Config      `json:"cache" mapstructure:"cache"`
	Scoring     hybrid.Config     `json:"scoring" mapstructure:"scoring"`
	Dimensions  dimensions.Config `json:"dimensions" mapstructure:"dimensions"`
	Embedding   EmbeddingConfig   `json:"embedding" mapstructure:"embedding"`
	LLM         LLMConfig         `json:"llm" mapstructure:"llm"`
	Logging     LoggingConfig     `json:"logging" mapstructure:"logging"`
	DatabaseURL string            `json:"database_url,omitempty" mapstructure:"database_url" validate:"omitempty,url"`
	Server      ServerConfig      `json:"server" mapstructure:"server"`
}

// EmbeddingConfig selects the embedding provider and tunes the embedding signal.
type EmbeddingConfig struct {
	llm.EmbedderConfig `mapstructure:",squash"`
	embedding.Config   `mapstructure:",squash"`
}

// LLMConfig configures the client used for profile extraction and diploma equivalence.
type LLMConfig struct {
	llm.Config `mapstructure:",squash"`
	APIKey     string `json:"-" mapstructure:"api_key"`
}

// LoggingConfig mirrors the CLI's --json-logs and --debug flags.
type LoggingConfig struct {
	JSON  bool `json:"json" mapstructure:"json"`
	Debug bool `json:"debug" mapstructure:"debug"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string        `json:"addr" mapstructure:"addr" validate:"required"`
	ReadTimeout  time.Duration `json:"read_timeout" mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout time.Duration `json:"write_timeout" mapstructure:"write_timeout" validate:"gte=0"`
}

// Defaults returns the configuration used when nothing is overridden.
func Defaults() Config {
	return Config{
		Cache:      cache.DefaultConfig(),
		Scoring:    hybrid.DefaultConfig(),
		Dimensions: dimensions.DefaultConfig(),
		Embedding: EmbeddingConfig{
			EmbedderConfig: llm.EmbedderConfig{Provider: llm.ProviderNone},
			Config:         embedding.DefaultConfig(),
		},
		LLM: LLMConfig{Config: *llm.DefaultConfig()},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 150 * time.Second,
		},
	}
}

var validate = validator.New()

// Load reads the config file at path, or match-engine.{yaml,json} in the working directory when
// path is empty, layers MATCH_* environment variables over it and validates the result.
// A missing default file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	if err := setDefaults(v, Defaults()); err != nil {
		return nil, err
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Provider-native variable names are honored when the MATCH_ ones are unset.
	if err := v.BindEnv("llm.api_key", "MATCH_LLM_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind llm api key: %w", err)
	}
	if err := v.BindEnv("embedding.api_key", "MATCH_EMBEDDING_API_KEY", "OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind embedding api key: %w", err)
	}
	if err := v.BindEnv("database_url", "MATCH_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind database url: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(DefaultFileName)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults registers every leaf of defaults with viper so that environment variables can
// override keys that no config file mentions.
func setDefaults(v *viper.Viper, defaults Config) error {
	var tree map[string]any
	if err := mapstructure.Decode(defaults, &tree); err != nil {
		return fmt.Errorf("failed to flatten defaults: %w", err)
	}
	setTree(v, "", tree)
	return nil
}

func setTree(v *viper.Viper, prefix string, tree map[string]any) {
	for k, val := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := val.(map[string]any); ok {
			setTree(v, key, sub)
			continue
		}
		v.SetDefault(key, val)
	}
}

// Validate checks struct tags and the cross-field rules the tags cannot express.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := c.Scoring.Validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	switch c.Embedding.Provider {
	case llm.ProviderGemini:
		if c.Embedding.APIKey == "" && c.LLM.APIKey == "" {
			return fmt.Errorf("config error: 'embedding.api_key' is required for the gemini provider")
		}
	case llm.ProviderOpenAI:
		// Self-hosted OpenAI-compatible servers often run without a key.
		if c.Embedding.APIKey == "" && c.Embedding.BaseURL == "" {
			return fmt.Errorf("config error: 'embedding.api_key' or 'embedding.base_url' is required for the openai provider")
		}
	}
	return nil
}

// MergeWithDefaults returns a copy with empty credentials and addresses filled from defaults.
// The CLI uses it to let flags win over the loaded file.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.Server.Addr == "" {
		result.Server.Addr = defaults.Server.Addr
	}
	if result.LLM.APIKey == "" {
		result.LLM.APIKey = defaults.LLM.APIKey
	}
	if result.Embedding.APIKey == "" {
		result.Embedding.APIKey = defaults.Embedding.APIKey
	}
	if result.Embedding.Provider == "" {
		result.Embedding.Provider = defaults.Embedding.Provider
	}
	if result.Scoring.Mode == "" {
		result.Scoring.Mode = defaults.Scoring.Mode
	}

	return result
}

// EmbeddingAPIKey returns the key the embedding provider should use. Gemini embeddings share the
// LLM key when no dedicated key is set.
func (c *Config) EmbeddingAPIKey() string {
	if c.Embedding.APIKey == "" && c.Embedding.Provider == llm.ProviderGemini {
		return c.LLM.APIKey
	}
	return c.Embedding.APIKey
}
