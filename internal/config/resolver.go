package config

import "slices"

// Resolve returns a sorted list of plugin module IDs from the
// configuration. The deterministic order ensures consistent loading.
func Resolve(cfg *Config) []string {
	ids := make([]string, 0, len(cfg.Plugins))
	for id := range cfg.Plugins {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
