package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zircuit-labs/contract-host/core/budget"
	"github.com/zircuit-labs/contract-host/log"
)

func init() {
	color.NoColor = true
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = io.Discard
	err := app.Run(append([]string{clientIdentifier}, args...))
	return out.String(), err
}

func TestParseStep(t *testing.T) {
	u := func(n uint64) *uint64 { return &n }
	tests := []struct {
		arg     string
		want    step
		wantErr error
	}{
		{arg: "WasmInsnExec", want: step{ty: budget.WasmInsnExec, iterations: 1}},
		{arg: "MemCpy:64", want: step{ty: budget.MemCpy, input: u(64), iterations: 1}},
		{arg: "ValDeser:1024x3", want: step{ty: budget.ValDeser, input: u(1024), iterations: 3}},
		{arg: "Bogus:1", wantErr: budget.ErrUnknownCostType},
		{arg: "MemCpy:abc", wantErr: ErrInvalidStep},
		{arg: "MemCpy:1xz", wantErr: ErrInvalidStep},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := parseStep(tt.arg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.arg, got.String())
		})
	}
}

func TestModelsCommand(t *testing.T) {
	out, err := runApp(t, "models", "--input", "128")
	require.NoError(t, err)
	assert.Contains(t, out, "WasmInsnExec")
	assert.Contains(t, out, "ChaCha20DrawBytes")
	assert.Contains(t, out, "CPU@128")
}

func TestModelsCommandWithConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "budget.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"cost_params": {"Bogus": {}}}`), 0o600))

	_, err := runApp(t, "--config", path, "models")
	assert.ErrorIs(t, err, budget.ErrUnknownCostType)
}

func TestSimulateStopsAtFirstFailure(t *testing.T) {
	out, err := runApp(t, "simulate", "--cpu-limit", "1000", "--metrics",
		"WasmInsnExec:0x10", "MemCpy:64x10", "WasmInsnExec")
	assert.ErrorIs(t, err, ErrStepsFailed)

	assert.Contains(t, out, "step 1 (MemCpy:64x10) failed: HostError: Error(Budget, ExceededLimit) (recoverable: false)")
	assert.NotContains(t, out, "step 2")
	assert.Contains(t, out, "Cpu limit: 1000; used: 1160; shadow used: 0")
	assert.Contains(t, out, `contract_host_budget_limit_exceeded{resource="cpu",shadow="false"} 1`)
	assert.Contains(t, out, `contract_host_errors{code="ExceededLimit",type="Budget"} 1`)
}

func TestSimulateShadow(t *testing.T) {
	out, err := runApp(t, "simulate", "--shadow", "--debug", "WasmInsnExec:0x10")
	require.NoError(t, err)
	assert.Contains(t, out, "used: 0; shadow used: 350")
}

func TestLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hostbudget.log")
	_, err := runApp(t, "--log.file", path, "--verbosity", "debug", "simulate", "--cpu-limit", "10", "WasmInsnExec")
	assert.ErrorIs(t, err, ErrStepsFailed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Charge step failed")
}

func TestParseLevel(t *testing.T) {
	lvl, err := parseLevel("trace")
	require.NoError(t, err)
	assert.Equal(t, log.LevelTrace, lvl)
	lvl, err = parseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, log.LevelWarn, lvl)
	_, err = parseLevel("loud")
	assert.Error(t, err)
}
