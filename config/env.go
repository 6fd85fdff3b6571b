package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to names of environment overrides.
const EnvPrefix = "TWRN"

// envOverrides are settings which could be changed without editing
// configuration file. Unset variables keep configured values.
type envOverrides struct {
	TailwindCommand []string `envconfig:"TAILWIND_COMMAND"`
	Output          string   `envconfig:"OUTPUT"`
	RemBase         float64  `envconfig:"REM_BASE"`
}

func applyEnvironment(cfg *Config) (bool, error) {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return false, fmt.Errorf("failed to load environment overrides: %w", err)
	}

	var changed bool
	if len(env.TailwindCommand) > 0 {
		cfg.Build.Tailwind.Command = env.TailwindCommand
		changed = true
	}
	if env.Output != "" {
		cfg.Build.Output = env.Output
		changed = true
	}
	if env.RemBase != 0 {
		cfg.Build.RemBase = env.RemBase
		changed = true
	}
	return changed, nil
}
