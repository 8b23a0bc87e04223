package params

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zircuit-labs/zkr-go-common/version"
)

func TestLoadVersion(t *testing.T) {
	saved := Info
	t.Cleanup(func() { Info = saved })

	dir := t.TempDir()
	path := filepath.Join(dir, "version.json")
	data, err := json.Marshal(version.VersionInformation{Version: "v1.4.0", Variant: "debug", GitDate: 1700000000})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	assert.Equal(t, "v1.4.0-debug", LoadVersion(path))
	assert.Equal(t, "v1.4.0", Info.Version)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), Info.Date)

	assert.Equal(t, "unknown-version", LoadVersion(filepath.Join(dir, "missing.json")))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
	assert.Equal(t, "unknown-version", LoadVersion(bad))
}

func TestDefaultCostParamsAreScaled(t *testing.T) {
	// Linear terms are stored scaled; MemAlloc's memory model charges one
	// byte per input byte.
	assert.Equal(t, uint64(1)<<CostModelLinTermScaleBits, DefaultCostParams()["MemAlloc"].Mem.LinTerm)
	assert.Len(t, DefaultCostParams(), 23)
}

func TestDefaultsAreCopies(t *testing.T) {
	costs := DefaultCostParams()
	delete(costs, "WasmInsnExec")
	costs["Bogus"] = CostParams{}
	weights := DefaultFuelWeights()
	weights["call"] = 0
	weights["jump"] = 1

	assert.Equal(t, uint64(4), DefaultCostParams()["WasmInsnExec"].CPU.ConstTerm)
	assert.NotContains(t, DefaultCostParams(), "Bogus")
	assert.Equal(t, uint64(67), DefaultFuelWeights()["call"])
	assert.NotContains(t, DefaultFuelWeights(), "jump")
}
