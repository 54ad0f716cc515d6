package pattern

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Ledger backend names accepted in LedgerConfig.Backend.
const (
	LedgerBackendCSV    = "csv"
	LedgerBackendSQLite = "sqlite"
)

// Markers are the stdout fragments that classify a device response: one
// marks a successful decrypt, the other the normal "wrong pattern" reply.
type Markers struct {
	Success string `mapstructure:"stdout_success"`
	Normal  string `mapstructure:"stdout_normal"`
}

// LedgerConfig selects the attempt-ledger backend and store location.
type LedgerConfig struct {
	Backend string `mapstructure:"backend" validate:"omitempty,oneof=csv sqlite"`
	Path    string `mapstructure:"path"`
}

// Config is the pre-validated search configuration the engine consumes.
// Field-level constraints are enforced with validator tags; relationships
// between fields are checked in Validate. The engine itself trusts that
// these invariants hold and treats any violation it discovers anyway as a
// fatal construction-time error.
type Config struct {
	GridSize  int `mapstructure:"grid_size" validate:"required,min=3,max=6"`
	MinLength int `mapstructure:"min_length" validate:"min=1"`
	MaxLength int `mapstructure:"max_length" validate:"min=1"`

	// MaxNodeDistance is accepted and carried for configuration
	// compatibility but is not applied during traversal. Reserved until an
	// enforcement policy is agreed.
	MaxNodeDistance int `mapstructure:"max_node_distance" validate:"min=0"`

	Prefix   Path `mapstructure:"prefix"`
	Suffix   Path `mapstructure:"suffix"`
	Excluded Path `mapstructure:"excluded_nodes"`

	AttemptDelay   time.Duration `mapstructure:"attempt_delay" validate:"min=0"`
	AttemptTimeout time.Duration `mapstructure:"attempt_timeout" validate:"gt=0"`

	// TestPath is the known pattern the match consumer compares against.
	TestPath Path `mapstructure:"test_path"`

	// EchoCommands prefixes each device command with an identifying echo.
	EchoCommands bool `mapstructure:"echo_commands"`

	Markers Markers      `mapstructure:"markers"`
	Ledger  LedgerConfig `mapstructure:"ledger"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field-level constraints and the relationships between
// prefix, suffix, exclusions, and the length bounds. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %s", ErrConfigInvalid, err)
	}
	if c.MinLength > c.MaxLength {
		return fmt.Errorf("%w: min_length %d, max_length %d", ErrLengthOrder, c.MinLength, c.MaxLength)
	}
	if len(c.Prefix) > c.MaxLength {
		return fmt.Errorf("%w: prefix length %d, max_length %d", ErrAffixTooLong, len(c.Prefix), c.MaxLength)
	}
	if len(c.Suffix) > c.MaxLength {
		return fmt.Errorf("%w: suffix length %d, max_length %d", ErrAffixTooLong, len(c.Suffix), c.MaxLength)
	}
	if len(c.Prefix)+len(c.Suffix) > c.MaxLength {
		return fmt.Errorf("%w: prefix+suffix length %d, max_length %d",
			ErrAffixTooLong, len(c.Prefix)+len(c.Suffix), c.MaxLength)
	}

	excluded := make(map[Node]bool, len(c.Excluded))
	for _, n := range c.Excluded {
		excluded[n] = true
	}
	for _, n := range c.Prefix {
		if excluded[n] {
			return fmt.Errorf("%w: prefix node %q", ErrAffixExcluded, n)
		}
	}
	for _, n := range c.Suffix {
		if excluded[n] {
			return fmt.Errorf("%w: suffix node %q", ErrAffixExcluded, n)
		}
	}
	return nil
}
