package budget

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/zircuit-labs/contract-host/core/scerr"
)

// newTenUnitBudget returns a budget where each WasmInsnExec charge costs
// exactly 10 CPU instructions and no memory.
func newTenUnitBudget(t *testing.T, cpuLimit uint64, opts ...Option) *Budget {
	t.Helper()
	b := NewWithLimits(cpuLimit, 1000, opts...)
	require.NoError(t, b.OverrideModelWithUnscaledParams(WasmInsnExec, 10, 0, 0, 0))
	return b
}

func consumed(t *testing.T, b *Budget) (cpu, shadowCPU uint64) {
	t.Helper()
	cpu, err := b.CPUInsnsConsumed()
	require.NoError(t, err)
	shadowCPU, err = b.ShadowCPUInsnsConsumed()
	require.NoError(t, err)
	return cpu, shadowCPU
}

func TestRealChargesUntilExceeded(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := NewMockMetrics(ctrl)
	// Memory is not charged once CPU is exceeded, so the eleventh charge
	// reports CPU only.
	m.EXPECT().AddCharged("cpu", false, uint64(10)).Times(11)
	m.EXPECT().AddCharged("mem", false, uint64(0)).Times(10)
	m.EXPECT().IncLimitExceeded("cpu", false)
	b := newTenUnitBudget(t, 100, WithMetrics(m))

	for i := 0; i < 10; i++ {
		require.NoError(t, b.Charge(WasmInsnExec, 0), "charge %d", i+1)
	}
	err := b.Charge(WasmInsnExec, 0)
	assert.Equal(t, scerr.ErrBudgetExceeded, err)
	assert.False(t, scerr.IsRecoverable(err.(scerr.Error)))

	cpu, shadowCPU := consumed(t, b)
	assert.Equal(t, uint64(110), cpu)
	assert.Equal(t, uint64(0), shadowCPU)
	assert.Equal(t, scerr.ErrBudgetExceeded, b.CheckBudgetLimit())
}

func TestShadowChargesUntilExceeded(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := NewMockMetrics(ctrl)
	m.EXPECT().AddCharged("cpu", true, uint64(10)).Times(11)
	m.EXPECT().AddCharged("mem", true, uint64(0)).Times(10)
	m.EXPECT().IncLimitExceeded("cpu", true)
	m.EXPECT().AddCharged("cpu", false, uint64(10))
	m.EXPECT().AddCharged("mem", false, uint64(0))
	b := newTenUnitBudget(t, 100, WithMetrics(m))

	runs := 0
	charge := func() error {
		runs++
		return b.Charge(WasmInsnExec, 0)
	}
	for i := 0; i < 10; i++ {
		require.NoError(t, b.WithShadowModeFallible(charge), "shadow charge %d", i+1)
	}

	// At 100 the shadow budget is at its limit but not over it, so the
	// eleventh closure still runs and its charge is what exceeds the limit.
	err := b.WithShadowModeFallible(charge)
	assert.Equal(t, scerr.ErrBudgetExceeded, err)
	assert.Equal(t, 11, runs)

	// From now on the pre-check fails and the closure is skipped.
	err = b.WithShadowModeFallible(charge)
	assert.Equal(t, scerr.ErrBudgetExceeded, err)
	assert.Equal(t, 11, runs)

	cpu, shadowCPU := consumed(t, b)
	assert.Equal(t, uint64(0), cpu)
	assert.Equal(t, uint64(110), shadowCPU)

	over, err := b.ShadowCPULimitExceeded()
	require.NoError(t, err)
	assert.True(t, over)
	over, err = b.ShadowMemLimitExceeded()
	require.NoError(t, err)
	assert.False(t, over)

	assert.NoError(t, b.CheckBudgetLimit(), "real budget is untouched")
	assert.NoError(t, b.Charge(WasmInsnExec, 0), "real charges still succeed")

	tr, err := b.Tracker()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), tr.MeterCount, "shadow charges are not tracked")
}

func TestShadowModeRestore(t *testing.T) {
	inShadow := func(b *Budget) bool {
		on, err := b.IsInShadowMode()
		require.NoError(t, err)
		return on
	}

	t.Run("nested", func(t *testing.T) {
		b := newTenUnitBudget(t, 100)
		err := b.WithShadowModeFallible(func() error {
			assert.True(t, inShadow(b))
			require.NoError(t, b.WithShadowModeFallible(func() error {
				assert.True(t, inShadow(b))
				return nil
			}))
			assert.True(t, inShadow(b), "inner exit restores the outer shadow flag")
			return nil
		})
		require.NoError(t, err)
		assert.False(t, inShadow(b))
	})

	t.Run("closure error", func(t *testing.T) {
		b := newTenUnitBudget(t, 100)
		sentinel := errors.New("boom")
		err := b.WithShadowModeFallible(func() error { return sentinel })
		assert.ErrorIs(t, err, sentinel)
		assert.False(t, inShadow(b))
	})

	t.Run("pre-check failure", func(t *testing.T) {
		b := newTenUnitBudget(t, 5)
		_ = b.WithShadowModeFallible(func() error { return b.Charge(WasmInsnExec, 0) })
		ran := false
		err := b.WithShadowModeFallible(func() error {
			ran = true
			return nil
		})
		assert.Equal(t, scerr.ErrBudgetExceeded, err)
		assert.False(t, ran)
		assert.False(t, inShadow(b))
	})

	t.Run("panic", func(t *testing.T) {
		b := newTenUnitBudget(t, 100)
		assert.Panics(t, func() {
			_ = b.WithShadowModeFallible(func() error {
				_ = b.Charge(WasmInsnExec, 0)
				panic("guest trap")
			})
		})
		assert.False(t, inShadow(b))
		_, shadowCPU := consumed(t, b)
		assert.Equal(t, uint64(10), shadowCPU)
	})

	t.Run("non-fallible", func(t *testing.T) {
		b := newTenUnitBudget(t, 100)
		ran := false
		b.WithShadowMode(func() error {
			ran = true
			return errors.New("dropped")
		})
		assert.True(t, ran)
		assert.False(t, inShadow(b))
	})
}

func TestReentrantMutationIsInternalError(t *testing.T) {
	b := newTenUnitBudget(t, 100)

	var inner error
	err := b.mutBudget(func(*budgetState) error {
		inner = b.Charge(WasmInsnExec, 0)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, scerr.ErrContextInternal, inner)

	err = b.readBudget(func(*budgetState) error {
		return b.Charge(WasmInsnExec, 0)
	})
	assert.Equal(t, scerr.ErrContextInternal, err)

	// Shared reads nest.
	err = b.readBudget(func(*budgetState) error {
		_, err := b.CPUInsnsConsumed()
		return err
	})
	assert.NoError(t, err)

	cpu, _ := consumed(t, b)
	assert.Equal(t, uint64(0), cpu, "rejected charges leave the counters alone")
}

func TestMetricsCallbackCannotReenter(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := NewMockMetrics(ctrl)
	b := newTenUnitBudget(t, 100, WithMetrics(m))

	var readErr, chargeErr error
	m.EXPECT().AddCharged("cpu", false, uint64(10)).DoAndReturn(func(string, bool, uint64) {
		_, readErr = b.CPUInsnsConsumed()
	})
	m.EXPECT().AddCharged("mem", false, uint64(0)).DoAndReturn(func(string, bool, uint64) {
		chargeErr = b.Charge(WasmInsnExec, 0)
	})

	require.NoError(t, b.Charge(WasmInsnExec, 0))
	assert.Equal(t, scerr.ErrContextInternal, readErr)
	assert.Equal(t, scerr.ErrContextInternal, chargeErr)

	cpu, _ := consumed(t, b)
	assert.Equal(t, uint64(10), cpu, "the reentrant charge is rejected")
}

func TestChargeInvalidCostType(t *testing.T) {
	b := New()
	assert.Equal(t, scerr.ErrBudgetInternal, b.Charge(CostType(NumCostTypes), 0))
	assert.Equal(t, scerr.ErrBudgetInternal, b.ChargeDimension(Resource(7), WasmInsnExec, 0))
}

func TestBulkChargeAndTracker(t *testing.T) {
	b := NewWithLimits(math.MaxUint64, math.MaxUint64)
	require.NoError(t, b.OverrideModelWithUnscaledParams(MemCpy, 2, 1, 1, 0))

	in := uint64(8)
	require.NoError(t, b.BulkCharge(MemCpy, 3, &in))
	require.NoError(t, b.ChargeOptional(MemCpy, nil))
	require.NoError(t, b.TrackWasmMemAlloc(4096))

	cpu, _ := consumed(t, b)
	assert.Equal(t, uint64(3*(2+8)+2), cpu)
	mem, err := b.MemBytesConsumed()
	require.NoError(t, err)
	assert.Equal(t, uint64(4), mem)

	tr, err := b.Tracker()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), tr.MeterCount)
	assert.Equal(t, uint64(4096), tr.WasmMemory)
	assert.Equal(t, CostTracker{Iterations: 4, Inputs: 24, CPU: 32, Mem: 4}, tr.Costs[MemCpy])

	require.NoError(t, b.ResetTracker())
	tr, err = b.Tracker()
	require.NoError(t, err)
	assert.Equal(t, Tracker{}, tr)
}

func TestChargeDimension(t *testing.T) {
	b := NewWithLimits(math.MaxUint64, math.MaxUint64)
	require.NoError(t, b.OverrideModelWithUnscaledParams(ValSer, 5, 0, 7, 0))

	require.NoError(t, b.ChargeDimension(Memory, ValSer, 0))
	cpu, _ := consumed(t, b)
	mem, err := b.MemBytesConsumed()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), cpu)
	assert.Equal(t, uint64(7), mem)
}

func TestResets(t *testing.T) {
	b := newTenUnitBudget(t, 100)
	require.NoError(t, b.Charge(WasmInsnExec, 0))
	b.WithShadowMode(func() error { return b.Charge(WasmInsnExec, 0) })

	require.NoError(t, b.ResetLimits(50, 60))
	for i := 0; i < 2; i++ {
		cpu, shadowCPU := consumed(t, b)
		assert.Equal(t, uint64(0), cpu)
		assert.Equal(t, uint64(0), shadowCPU)
		limit, err := b.CPULimit()
		require.NoError(t, err)
		assert.Equal(t, uint64(50), limit)
		limit, err = b.MemLimit()
		require.NoError(t, err)
		assert.Equal(t, uint64(60), limit)
		tr, err := b.Tracker()
		require.NoError(t, err)
		assert.Equal(t, uint64(0), tr.MeterCount)

		require.NoError(t, b.ResetLimits(50, 60), "reset is idempotent")
	}

	require.NoError(t, b.ResetUnlimitedCPU())
	remaining, err := b.CPUInsnsRemaining()
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), remaining)
	limit, err := b.MemLimit()
	require.NoError(t, err)
	assert.Equal(t, uint64(60), limit)

	require.NoError(t, b.ResetUnlimitedMem())
	remaining, err = b.MemBytesRemaining()
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), remaining)

	require.NoError(t, b.ResetUnlimited())
	require.NoError(t, b.Charge(WasmInsnExec, 0))
	cpu, _ := consumed(t, b)
	assert.Equal(t, uint64(10), cpu, "limit resets keep overridden models")

	require.NoError(t, b.ResetModels())
	m, err := b.CostModel(CPU, WasmInsnExec)
	require.NoError(t, err)
	assert.Equal(t, CostModel{ConstTerm: 4}, m)

	require.NoError(t, b.ResetDefault())
	limit, err = b.CPULimit()
	require.NoError(t, err)
	assert.Equal(t, uint64(100), limit)
	cpu, _ = consumed(t, b)
	assert.Equal(t, uint64(0), cpu)
}

func TestResetFuelConfig(t *testing.T) {
	b := New()
	f, err := b.FuelConfig()
	require.NoError(t, err)
	assert.Equal(t, uint64(67), f.Weight(FuelCall))

	require.NoError(t, b.ResetFuelConfig())
	f, err = b.FuelConfig()
	require.NoError(t, err)
	for c := FuelCategory(0); int(c) < NumFuelCategories; c++ {
		assert.Equal(t, uint64(1), f.Weight(c), c.String())
	}
}

func TestDefaultBudget(t *testing.T) {
	b := New()
	limit, err := b.CPULimit()
	require.NoError(t, err)
	assert.Equal(t, uint64(100_000_000), limit)
	limit, err = b.MemLimit()
	require.NoError(t, err)
	assert.Equal(t, uint64(40*1024*1024), limit)

	m, err := b.CostModel(Memory, MemAlloc)
	require.NoError(t, err)
	assert.Equal(t, CostModel{ConstTerm: 16, LinTerm: FromUnscaled(1)}, m)

	_, err = b.CostModel(Resource(9), MemAlloc)
	assert.Equal(t, scerr.ErrBudgetInternal, err)
}

func TestWasmMemAllocSaturates(t *testing.T) {
	b := New()
	require.NoError(t, b.TrackWasmMemAlloc(math.MaxUint64))
	require.NoError(t, b.TrackWasmMemAlloc(1))
	n, err := b.WasmMemAlloc()
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), n)
}
