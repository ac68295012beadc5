// Package config reads the YAML configuration shared by the subsetsum
// commands.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/operator-framework/subsetsum/pkg/subsetsum/input"
)

var validate = validator.New()

// Config holds solver, input and server settings.
type Config struct {
	// Workers is the solver worker count; 0 means one per CPU.
	Workers   int    `json:"workers" yaml:"workers" validate:"gte=0"`
	Algorithm string `json:"algorithm" yaml:"algorithm" validate:"oneof=auto bit_enum meet_middle dp branch_bound sat"`
	DPMode    string `json:"dp_mode" yaml:"dp_mode" validate:"oneof=table memo"`
	// Scale converts decimal input to integers.
	Scale  int64        `json:"scale" yaml:"scale" validate:"gt=0"`
	Input  InputConfig  `json:"input" yaml:"input"`
	Server ServerConfig `json:"server" yaml:"server"`
}

type InputConfig struct {
	MinCount    int `json:"min_count" yaml:"min_count" validate:"gte=0"`
	MaxCount    int `json:"max_count" yaml:"max_count" validate:"gtefield=MinCount"`
	MaxDecimals int `json:"max_decimals" yaml:"max_decimals" validate:"gte=0,lte=9"`
}

type ServerConfig struct {
	Listen string `json:"listen" yaml:"listen" validate:"required,hostname_port"`
	// MaxNumbers caps the size of a single HTTP solve request.
	MaxNumbers int `json:"max_numbers" yaml:"max_numbers" validate:"gt=0"`
}

func Default() Config {
	limits := input.DefaultLimits()
	return Config{
		Algorithm: "auto",
		DPMode:    "table",
		Scale:     100,
		Input: InputConfig{
			MinCount:    limits.MinCount,
			MaxCount:    limits.MaxCount,
			MaxDecimals: limits.MaxDecimals,
		},
		Server: ServerConfig{
			Listen:     "localhost:8080",
			MaxNumbers: 64,
		},
	}
}

// Limits returns the input limits as understood by the input package.
func (c Config) Limits() input.Limits {
	return input.Limits{
		MinCount:    c.Input.MinCount,
		MaxCount:    c.Input.MaxCount,
		MaxDecimals: c.Input.MaxDecimals,
	}
}

func (c Config) Validate() error {
	return validate.Struct(c)
}

// Load reads path over the defaults. An empty path or a missing file
// yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("error reading config (%s): %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("error parsing config (%s): %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config (%s): %w", path, err)
	}
	return cfg, nil
}

type ctxKey struct{}

// WithContext attaches cfg to ctx.
func WithContext(ctx context.Context, cfg Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext returns the Config attached to ctx, or the defaults.
func FromContext(ctx context.Context) Config {
	if cfg, ok := ctx.Value(ctxKey{}).(Config); ok {
		return cfg
	}
	return Default()
}
