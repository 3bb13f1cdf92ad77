// Package config loads the engine configuration from a YAML or TOML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/ZaguanLabs/gotlqa/similarity"
	"github.com/ZaguanLabs/gotlqa/validate"
)

// Format is a configuration file syntax.
type Format int

const (
	FormatYAML Format = iota
	FormatTOML
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	default:
		return "yaml"
	}
}

// Config holds the engine settings.
type Config struct {
	Weights             similarity.Weights `yaml:"weights" toml:"weights"`
	SimilarityThreshold float64            `yaml:"similarity_threshold" toml:"similarity_threshold"`
	ContextBoost        float64            `yaml:"context_boost" toml:"context_boost"`
	PrefixScale         float64            `yaml:"jaro_winkler_prefix_scale" toml:"jaro_winkler_prefix_scale"`
	LengthRatioLimit    float64            `yaml:"length_ratio_limit" toml:"length_ratio_limit"`
	WholeWordOnly       bool               `yaml:"whole_word_only" toml:"whole_word_only"`
	Workers             int                `yaml:"workers" toml:"workers"`
	LogLevel            string             `yaml:"log_level" toml:"log_level"`
	Cache               CacheConfig        `yaml:"cache" toml:"cache"`
}

// CacheConfig selects the suggestion cache. An empty RedisURL means an
// in-memory cache.
type CacheConfig struct {
	TTLSeconds int    `yaml:"ttl_seconds" toml:"ttl_seconds"`
	RedisURL   string `yaml:"redis_url" toml:"redis_url"`
	KeyPrefix  string `yaml:"key_prefix" toml:"key_prefix"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Weights:             similarity.DefaultWeights(),
		SimilarityThreshold: similarity.DefaultThreshold,
		ContextBoost:        similarity.ContextBoost,
		PrefixScale:         similarity.PrefixScale,
		LengthRatioLimit:    validate.DefaultLengthRatioLimit,
		WholeWordOnly:       true,
		Workers:             4,
		LogLevel:            "info",
		Cache: CacheConfig{
			TTLSeconds: 86400,
		},
	}
}

// Load reads path over the defaults and validates the result. An empty path
// returns the defaults. The format follows the file extension; anything
// other than .toml is read as YAML.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	path = os.ExpandEnv(path)
	data, err := os.ReadFile(path) // #nosec G304 - path is user-provided
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data, DetectFormat(path))
}

// DetectFormat maps a file extension to a Format.
func DetectFormat(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Parse decodes data over the defaults and validates the result. Fields the
// document omits keep their default values.
func Parse(data []byte, format Format) (*Config, error) {
	cfg := Default()

	switch format {
	case FormatTOML:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s config: %w", format, err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s config: %w", format, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ValidationError reports an invalid setting.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Field, e.Message)
}

// Validate checks the settings for consistency.
func (c *Config) Validate() error {
	if !c.Weights.Valid() {
		return &ValidationError{
			Field:   "weights",
			Message: fmt.Sprintf("must be non-negative and sum to 1.0, got %.4f", c.Weights.Sum()),
		}
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return &ValidationError{Field: "similarity_threshold", Message: "must be within [0, 1]"}
	}
	if c.ContextBoost < 0 || c.ContextBoost > 1 {
		return &ValidationError{Field: "context_boost", Message: "must be within [0, 1]"}
	}
	if c.PrefixScale < 0 || c.PrefixScale > 0.25 {
		return &ValidationError{Field: "jaro_winkler_prefix_scale", Message: "must be within [0, 0.25]"}
	}
	if c.LengthRatioLimit <= 0 {
		return &ValidationError{Field: "length_ratio_limit", Message: "must be positive"}
	}
	if c.Workers < 1 {
		return &ValidationError{Field: "workers", Message: "must be at least 1"}
	}
	if c.Cache.TTLSeconds < 0 {
		return &ValidationError{Field: "cache.ttl_seconds", Message: "must not be negative"}
	}
	return nil
}

// Calculator builds a similarity calculator from the settings.
func (c *Config) Calculator() *similarity.Calculator {
	return similarity.New(
		similarity.WithWeights(c.Weights),
		similarity.WithThreshold(c.SimilarityThreshold),
		similarity.WithContextBoost(c.ContextBoost),
		similarity.WithPrefixScale(c.PrefixScale),
	)
}
