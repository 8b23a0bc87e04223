package budget

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReport(t *testing.T) {
	b := newTenUnitBudget(t, 100)
	require.NoError(t, b.Charge(WasmInsnExec, 0))
	require.NoError(t, b.Charge(WasmInsnExec, 0))
	b.WithShadowMode(func() error { return b.Charge(WasmInsnExec, 0) })

	var buf bytes.Buffer
	require.NoError(t, b.WriteReport(&buf))
	out := buf.String()

	assert.Contains(t, out, "Cpu limit: 100; used: 20; shadow used: 10")
	assert.Contains(t, out, "Mem limit: 1000; used: 0; shadow used: 0")
	assert.Contains(t, out, "WasmInsnExec")
	assert.NotContains(t, out, "MemAlloc", "uncharged cost types are omitted")
	assert.Equal(t, out, b.String())
}
