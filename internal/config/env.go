package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"
)

// EnvPrefix is the prefix of all environment overrides.
const EnvPrefix = "ROPECORE_"

// envSetter applies one environment value to the config.
type envSetter func(c *Config, value string) error

// envMapping maps environment variables to settings.
var envMapping = map[string]envSetter{
	EnvPrefix + "HISTORY_LIMIT": func(c *Config, v string) error {
		return setInt(&c.Editor.HistoryLimit, v)
	},
	EnvPrefix + "COALESCE_MS": func(c *Config, v string) error {
		return setInt(&c.Editor.CoalesceMS, v)
	},
	EnvPrefix + "READ_ONLY": func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		c.Editor.ReadOnly = b
		return nil
	},
	EnvPrefix + "LOG_LEVEL": func(c *Config, v string) error {
		c.Logging.Level = v
		return nil
	},
	EnvPrefix + "WATCH_DEBOUNCE_MS": func(c *Config, v string) error {
		return setInt(&c.Watch.DebounceMS, v)
	},
}

func setInt(dst *int, v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

// ApplyEnv overlays environment variables found by lookup, in name order.
// Pass os.LookupEnv in production. Every malformed value is reported.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	var errs []error
	for _, name := range slices.Sorted(maps.Keys(envMapping)) {
		v, ok := lookup(name)
		if !ok {
			continue
		}
		if err := envMapping[name](c, v); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s=%q: %v", ErrInvalid, name, v, err))
		}
	}
	return errors.Join(errs...)
}
