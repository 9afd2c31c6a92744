package config

import (
	"errors"
	"fmt"

	"github.com/davrell/graft/internal/core"
)

// Validate checks the structural validity of a Config.
// It verifies the version field, the default policy name, and that all
// referenced plugin IDs exist in the module registry.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Version == "" {
		errs = append(errs, errors.New("config: version field is required"))
	} else if cfg.Version != "1" {
		errs = append(errs, fmt.Errorf("config: unsupported version %q (supported: \"1\")", cfg.Version))
	}

	switch cfg.DefaultPolicy {
	case "", PolicyDeny, PolicyAllow:
	default:
		errs = append(errs, fmt.Errorf("config: unknown default_policy %q (supported: deny, allow)", cfg.DefaultPolicy))
	}

	if cfg.Timeout < 0 {
		errs = append(errs, fmt.Errorf("config: timeout must not be negative: %s", cfg.Timeout))
	}

	for id := range cfg.Plugins {
		if id == "" {
			errs = append(errs, errors.New("config: empty plugin ID"))
			continue
		}
		if _, ok := core.GetModule(id); !ok {
			errs = append(errs, fmt.Errorf("config: unknown plugin %q", id))
		}
	}

	return errors.Join(errs...)
}
