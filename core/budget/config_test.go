package budget

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zircuit-labs/contract-host/params"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "budget.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigLayers(t *testing.T) {
	path := writeConfig(t, `{
		"cpu_insns_limit": 500,
		"cost_params": {
			"MemCpy": {"cpu": {"const_term": 7, "lin_term": 128}}
		},
		"fuel_weights": {"call": 10}
	}`)
	t.Setenv("HOSTBUDGET_MEM_BYTES_LIMIT", "2048")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), cfg.CPUInsnsLimit)
	assert.Equal(t, uint64(2048), cfg.MemBytesLimit)
	assert.Equal(t, params.CostParams{CPU: params.CostModelParams{ConstTerm: 7, LinTerm: 128}}, cfg.CostParams["MemCpy"])
	assert.Equal(t, params.DefaultCostParams()["WasmInsnExec"], cfg.CostParams["WasmInsnExec"])
	assert.Equal(t, uint64(10), cfg.FuelWeights["call"])
	assert.Equal(t, uint64(3), cfg.FuelWeights["entity"])

	b, err := NewFromConfig(cfg)
	require.NoError(t, err)
	m, err := b.CostModel(CPU, MemCpy)
	require.NoError(t, err)
	assert.Equal(t, CostModel{ConstTerm: 7, LinTerm: FromUnscaled(1)}, m)
	limit, err := b.MemLimit()
	require.NoError(t, err)
	assert.Equal(t, uint64(2048), limit)
	f, err := b.FuelConfig()
	require.NoError(t, err)
	assert.Equal(t, uint64(10), f.Weight(FuelCall))
}

func TestLoadConfigErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})
	t.Run("malformed json", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, `{"cpu_insns_limit":`))
		assert.Error(t, err)
	})
	t.Run("unknown cost type", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, `{"cost_params": {"Bogus": {}}}`))
		assert.ErrorIs(t, err, ErrUnknownCostType)
	})
	t.Run("unknown fuel category", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, `{"fuel_weights": {"jump": 2}}`))
		assert.ErrorIs(t, err, ErrUnknownFuelCategory)
	})
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv(ConfigEnv, writeConfig(t, `{"cpu_insns_limit": 42}`))
	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, uint64(42), cfg.CPUInsnsLimit)

	t.Setenv(ConfigEnv, filepath.Join(t.TempDir(), "missing.json"))
	_, err = ConfigFromEnv()
	assert.Error(t, err)
}

func TestNewFromConfigRejectsUnknownNames(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CostParams["Bogus"] = params.CostParams{}
	_, err := NewFromConfig(cfg)
	assert.ErrorIs(t, err, ErrUnknownCostType)
}

func TestDefaultConfigIsACopy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CostParams["WasmInsnExec"] = params.CostParams{}
	cfg.FuelWeights["call"] = 0
	assert.Equal(t, uint64(4), params.DefaultCostParams()["WasmInsnExec"].CPU.ConstTerm)
	assert.Equal(t, uint64(67), params.DefaultFuelWeights()["call"])
	assert.NotPanics(t, func() { New() })
}

func TestFuelWeightsOverlayDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FuelWeights = map[string]uint64{"call": 5}
	b, err := NewFromConfig(cfg)
	require.NoError(t, err)

	f, err := b.FuelConfig()
	require.NoError(t, err)
	assert.Equal(t, uint64(5), f.Weight(FuelCall))
	assert.Equal(t, DefaultFuelConfig().Weight(FuelEntity), f.Weight(FuelEntity))
	assert.Equal(t, uint64(3), f.Weight(FuelEntity))
}
