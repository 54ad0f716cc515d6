// Package paths resolves the configuration file and ledger store
// locations.
package paths

import (
	"os"
	"path/filepath"
)

// CWD-relative defaults.
const (
	DefaultConfigFileName = "gridlock.yaml"
	DefaultLedgerFileName = "attempts.csv"
)

// EnvConfigFile overrides the configuration file location when the flag
// is not given.
const EnvConfigFile = "GRIDLOCK_CONFIG"

// ResolveConfigFile returns the configuration file path following the
// precedence chain: flag > GRIDLOCK_CONFIG env > $(CWD)/gridlock.yaml.
// The result is absolute.
func ResolveConfigFile(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigFile); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultConfigFileName), nil
}

// ResolveLedgerPath returns the ledger store path: the configured value
// made absolute, or $(CWD)/attempts.csv when unset.
func ResolveLedgerPath(configured string) (string, error) {
	if configured != "" {
		return filepath.Abs(configured)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultLedgerFileName), nil
}
