// Configuration loading for the gridlock CLI.
package main

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/gridlock/internal/paths"
	"github.com/mesh-intelligence/gridlock/pkg/pattern"
)

// Configuration defaults. max_length defaults to the full grid (size²)
// when left unset.
const (
	defaultMinLength      = 4 // Android minimum pattern length
	defaultAttemptTimeout = "30s"
	defaultLedgerBackend  = pattern.LedgerBackendCSV
)

// loadConfig reads the YAML configuration using Viper, decodes it into a
// pattern.Config, and validates it. Node lists given as YAML integers are
// coerced to node labels, matching the file format's original behavior.
func loadConfig(flag string) (pattern.Config, error) {
	var cfg pattern.Config

	path, err := paths.ResolveConfigFile(flag)
	if err != nil {
		return cfg, fmt.Errorf("resolve config file: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("min_length", defaultMinLength)
	v.SetDefault("attempt_timeout", defaultAttemptTimeout)
	v.SetDefault("ledger.backend", defaultLedgerBackend)

	if err := v.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	weak := func(dc *mapstructure.DecoderConfig) { dc.WeaklyTypedInput = true }
	if err := v.Unmarshal(&cfg, weak); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}

	if cfg.MaxLength == 0 {
		cfg.MaxLength = cfg.GridSize * cfg.GridSize
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
