// Package config loads CLI settings from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Output formats.
const (
	FormatReport = "report"
	FormatJSON   = "json"
)

// CLI holds settings that override or complement the test input file.
type CLI struct {
	Format      string `env:"BCU_FORMAT" envDefault:"report"`
	Environment string `env:"BCU_ENVIRONMENT"` // overrides the input's environment when set
	Seed        *int64 `env:"BCU_SEED"`        // overrides the input's seed when set
	Verbose     bool   `env:"BCU_VERBOSE"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadCLI parses and validates the CLI settings.
func LoadCLI() (CLI, error) {
	var cfg CLI
	if err := ParseEnv(&cfg); err != nil {
		return CLI{}, err
	}
	switch cfg.Format {
	case FormatReport, FormatJSON:
	default:
		return CLI{}, fmt.Errorf("BCU_FORMAT %q: want %q or %q", cfg.Format, FormatReport, FormatJSON)
	}
	return cfg, nil
}
