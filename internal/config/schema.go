// Package config handles YAML configuration loading, environment
// variable expansion, and structural validation for graft.
package config

import (
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration structure.
type Config struct {
	// Version is the config format version. Currently only "1" is supported.
	Version string `yaml:"version"`

	// Timeout is the per-handler execution ceiling. Zero keeps the
	// built-in default.
	Timeout time.Duration `yaml:"timeout,omitempty" env:"GRAFT_TIMEOUT"`

	// DefaultPolicy selects what happens on extension points absent from
	// the policy table: "deny" (observe-only, the default) or "allow"
	// (fully writable).
	DefaultPolicy string `yaml:"default_policy,omitempty" env:"GRAFT_DEFAULT_POLICY"`

	// Admin configures the local introspection server.
	Admin AdminConfig `yaml:"admin,omitempty"`

	// Plugins maps plugin module IDs to their raw YAML configuration.
	// Keys must match registered module IDs (e.g. "plugin.audit").
	Plugins map[string]yaml.Node `yaml:"plugins,omitempty"`
}

// AdminConfig holds the introspection HTTP server settings.
type AdminConfig struct {
	// Listen is the bind address (e.g. "127.0.0.1:7466"). Empty disables
	// the server.
	Listen string `yaml:"listen,omitempty" env:"GRAFT_ADMIN_LISTEN"`
}

// Policy name values accepted in default_policy.
const (
	PolicyDeny  = "deny"
	PolicyAllow = "allow"
)
