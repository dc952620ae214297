// Package config loads ropecore settings.
//
// Settings come from three places, later ones winning:
//
//  1. Built-in defaults (Default)
//  2. A TOML or YAML file, chosen by extension (Load)
//  3. ROPECORE_* environment variables (ApplyEnv)
//
// Example TOML file:
//
//	[editor]
//	history_limit = 500
//	coalesce_ms = 300
//
//	[logging]
//	level = "debug"
//
//	[watch]
//	debounce_ms = 200
package config
