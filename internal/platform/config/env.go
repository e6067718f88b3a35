package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every environment variable read by ParseEnv.
const EnvPrefix = "OBSTACLE_STUDIO_"

// ParseEnv loads configuration from OBSTACLE_STUDIO_* environment variables.
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ParseEnvTracked behaves like ParseEnv and also reports which variables
// were present in the environment, keyed by name without the prefix.
func ParseEnvTracked(target any) (map[string]bool, error) {
	set := make(map[string]bool)
	opts := env.Options{
		Prefix: EnvPrefix,
		OnSet: func(tag string, _ any, isDefault bool) {
			if !isDefault {
				set[strings.TrimPrefix(tag, EnvPrefix)] = true
			}
		},
	}
	if err := env.ParseWithOptions(target, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return set, nil
}
