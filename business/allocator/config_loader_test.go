//go:build !integration

package allocator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsFileLayersOverBase(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "allocator.yaml")

	content := `
decay_constant: 0.0001
temperature: 0.4
mature_ctr_weight: 0.3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadDefaultsFile(path, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 0.0001, cfg.DecayConstant)
	assert.Equal(t, 0.4, cfg.Temperature)
	assert.Equal(t, 0.3, cfg.MatureCTRWeight)

	// keys absent from the file keep the base values
	assert.Equal(t, defaultMaxBudgetChangePct, cfg.MaxBudgetChangePct)
	assert.Equal(t, defaultCTRCeiling, cfg.CTRCeiling)
	assert.Equal(t, defaultROASCeiling, cfg.ROASCeiling)
	assert.Equal(t, defaultEarlyPhaseHours, cfg.EarlyPhaseHours)
	assert.Equal(t, defaultMaturePhaseHours, cfg.MaturePhaseHours)
}

func TestLoadDefaultsFileExplicitZeroWins(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "allocator.yaml")

	// zero is a valid on-file value (it disables the rate cap), unlike a
	// zero-valued DB column which reads as "unset"
	require.NoError(t, os.WriteFile(path, []byte("max_budget_change_pct: 0\n"), 0644))

	cfg, err := LoadDefaultsFile(path, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 0.0, cfg.MaxBudgetChangePct)
}

func TestLoadDefaultsFileMissingFile(t *testing.T) {
	base := DefaultConfig()
	cfg, err := LoadDefaultsFile(filepath.Join(t.TempDir(), "nope.yaml"), base)
	require.Error(t, err)
	assert.Equal(t, base, cfg, "base config comes back unchanged on error")
}

func TestLoadDefaultsFileRejectsBadYAML(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "allocator.yaml")
	require.NoError(t, os.WriteFile(path, []byte("decay_constant: [not a number\n"), 0644))

	_, err := LoadDefaultsFile(path, DefaultConfig())
	require.Error(t, err)
}
