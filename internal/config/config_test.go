package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "editor.yaml")
	data := []byte(`
import:
  atomic: true
  bus_capacity: 8
picking:
  max_distance: 42.5
storage:
  path: /tmp/structures
metrics:
  addr: ":2112"
tracing:
  endpoint: "localhost:4318"
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Import.Atomic)
	assert.Equal(t, 8, cfg.Import.GetBusCapacity())
	assert.Equal(t, 42.5, cfg.Picking.GetMaxDistance())
	assert.Equal(t, "/tmp/structures", cfg.Storage.GetPath())
	assert.True(t, cfg.Storage.Enabled())
	assert.Equal(t, ":2112", cfg.Metrics.GetAddr())
	assert.Equal(t, "localhost:4318", cfg.Tracing.GetEndpoint())
	assert.Equal(t, "schematic-tool", cfg.Tracing.GetServiceName())
	assert.Equal(t, "info", cfg.Logging.Level, "Незаданные поля берутся из Default")
}

func TestLoad_DefaultsWithoutPath(t *testing.T) {
	t.Setenv("EDITOR_CONFIG", "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 100.0, cfg.Picking.GetMaxDistance())
}

func TestEnvFallbacks(t *testing.T) {
	t.Setenv("EDITOR_MAX_DISTANCE", "12")
	t.Setenv("EDITOR_BUS_CAPACITY", "3")
	t.Setenv("EDITOR_STORAGE_PATH", "")

	var cfg Config
	assert.Equal(t, 12.0, cfg.Picking.GetMaxDistance())
	assert.Equal(t, 3, cfg.Import.GetBusCapacity())
	assert.False(t, cfg.Storage.Enabled())

	t.Setenv("EDITOR_BUS_CAPACITY", "oops")
	assert.Equal(t, 64, cfg.Import.GetBusCapacity())
}

func TestGetMaxDistance_RejectsNonFinite(t *testing.T) {
	t.Setenv("EDITOR_MAX_DISTANCE", "inf")
	cfg := PickingConfig{MaxDistance: math.Inf(1)}
	assert.Equal(t, 100.0, cfg.GetMaxDistance())

	t.Setenv("EDITOR_MAX_DISTANCE", "NaN")
	cfg.MaxDistance = math.NaN()
	assert.Equal(t, 100.0, cfg.GetMaxDistance())

	path := filepath.Join(t.TempDir(), "editor.yaml")
	require.NoError(t, os.WriteFile(path, []byte("picking:\n  max_distance: .inf\n"), 0o644))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.True(t, math.IsInf(loaded.Picking.MaxDistance, 1))
	assert.Equal(t, 100.0, loaded.Picking.GetMaxDistance())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
