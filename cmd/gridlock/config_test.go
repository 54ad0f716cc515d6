package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/gridlock/pkg/pattern"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gridlock.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_Full(t *testing.T) {
	path := writeConfig(t, `
grid_size: 4
min_length: 5
max_length: 8
prefix: [1, 2]
suffix: [9]
excluded_nodes: [5, 7]
attempt_delay: 2s
attempt_timeout: 45s
test_path: [1, 2, 6, 9]
echo_commands: true
markers:
  stdout_success: "Data successfully decrypted"
  stdout_normal: "Failed to decrypt data"
ledger:
  backend: sqlite
  path: /var/lib/gridlock/attempts.db
`)

	cfg, err := loadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.GridSize)
	assert.Equal(t, 5, cfg.MinLength)
	assert.Equal(t, 8, cfg.MaxLength)
	assert.True(t, cfg.Prefix.Equal(pattern.Path{"1", "2"}))
	assert.True(t, cfg.Suffix.Equal(pattern.Path{"9"}))
	assert.True(t, cfg.Excluded.Equal(pattern.Path{"5", "7"}))
	assert.Equal(t, 2*time.Second, cfg.AttemptDelay)
	assert.Equal(t, 45*time.Second, cfg.AttemptTimeout)
	assert.True(t, cfg.TestPath.Equal(pattern.Path{"1", "2", "6", "9"}))
	assert.True(t, cfg.EchoCommands)
	assert.Equal(t, "Data successfully decrypted", cfg.Markers.Success)
	assert.Equal(t, pattern.LedgerBackendSQLite, cfg.Ledger.Backend)
	assert.Equal(t, "/var/lib/gridlock/attempts.db", cfg.Ledger.Path)
}

// TestLoadConfig_Defaults checks the minimal file: only grid_size is
// required; min_length, max_length, timeout, and the ledger backend come
// from defaults.
func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, "grid_size: 3\n")

	cfg, err := loadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.MinLength)
	assert.Equal(t, 9, cfg.MaxLength, "max_length defaults to the full grid")
	assert.Equal(t, 30*time.Second, cfg.AttemptTimeout)
	assert.Equal(t, pattern.LedgerBackendCSV, cfg.Ledger.Backend)
	assert.False(t, cfg.EchoCommands)
}

// TestLoadConfig_NodeCoercion: node lists written as YAML integers or as
// quoted strings both decode to node labels.
func TestLoadConfig_NodeCoercion(t *testing.T) {
	path := writeConfig(t, `
grid_size: 4
excluded_nodes: [1, ":", 16]
`)

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.Excluded.Equal(pattern.Path{"1", ":", "16"}))
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{name: "grid size out of range", content: "grid_size: 9\n", want: pattern.ErrConfigInvalid},
		{name: "grid size missing", content: "min_length: 4\n", want: pattern.ErrConfigInvalid},
		{
			name:    "min exceeds max",
			content: "grid_size: 3\nmin_length: 6\nmax_length: 5\n",
			want:    pattern.ErrLengthOrder,
		},
		{
			name:    "excluded prefix node",
			content: "grid_size: 3\nprefix: [5]\nexcluded_nodes: [5]\n",
			want:    pattern.ErrAffixExcluded,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(writeConfig(t, tt.content))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
