// Package config holds the settings of the grammargen command.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"grammargen/internal/grammar"
)

// Config is loaded from YAML; unset fields keep their defaults.
type Config struct {
	// Start is the rule CompileGrammar resolves.
	Start string `yaml:"start" validate:"required"`

	// RecursionBound is how many expansions of one identifier may be in
	// progress before references to it become literals.
	RecursionBound int `yaml:"recursion_bound" validate:"gte=0,lte=64"`

	// MaxNesting limits bracket nesting inside one expression.
	MaxNesting int `yaml:"max_nesting" validate:"gte=1,lte=10000"`

	// Samples is how many strings the sample command prints.
	Samples int `yaml:"samples" validate:"gte=1"`

	// Seed fixes the sampler. Zero picks a random seed.
	Seed uint64 `yaml:"seed"`

	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`
}

func Default() Config {
	return Config{
		Start:          grammar.DefaultStart,
		RecursionBound: grammar.DefaultRecursionBound,
		MaxNesting:     grammar.DefaultMaxNesting,
		Samples:        1,
		LogLevel:       "warn",
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c Config) Validate() error {
	return validate.Struct(c)
}

// SessionOptions converts c into compiler options.
func (c Config) SessionOptions() []grammar.Option {
	return []grammar.Option{
		grammar.WithStart(c.Start),
		grammar.WithRecursionBound(c.RecursionBound),
		grammar.WithMaxNesting(c.MaxNesting),
	}
}
