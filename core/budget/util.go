package budget

import (
	"math"

	"github.com/zircuit-labs/contract-host/core/scerr"
)

func (b *Budget) readCount(f func(*budgetState) uint64) (uint64, error) {
	var n uint64
	err := b.readBudget(func(s *budgetState) error {
		n = f(s)
		return nil
	})
	return n, err
}

func (b *Budget) CPUInsnsConsumed() (uint64, error) {
	return b.readCount(func(s *budgetState) uint64 { return s.cpu.totalCount })
}

func (b *Budget) MemBytesConsumed() (uint64, error) {
	return b.readCount(func(s *budgetState) uint64 { return s.mem.totalCount })
}

func (b *Budget) CPUInsnsRemaining() (uint64, error) {
	return b.readCount(func(s *budgetState) uint64 { return s.cpu.Remaining() })
}

func (b *Budget) MemBytesRemaining() (uint64, error) {
	return b.readCount(func(s *budgetState) uint64 { return s.mem.Remaining() })
}

func (b *Budget) CPULimit() (uint64, error) {
	return b.readCount(func(s *budgetState) uint64 { return s.cpu.limit })
}

func (b *Budget) MemLimit() (uint64, error) {
	return b.readCount(func(s *budgetState) uint64 { return s.mem.limit })
}

// CostModel returns the model of cost type ty in dimension res.
func (b *Budget) CostModel(res Resource, ty CostType) (CostModel, error) {
	var m CostModel
	err := b.readBudget(func(s *budgetState) error {
		d := s.dimension(res)
		if d == nil {
			return scerr.ErrBudgetInternal
		}
		var err error
		m, err = d.CostModel(ty)
		return err
	})
	return m, err
}

// Tracker returns a copy of the tracker.
func (b *Budget) Tracker() (Tracker, error) {
	var t Tracker
	err := b.readBudget(func(s *budgetState) error {
		t = s.tracker
		return nil
	})
	return t, err
}

// FuelConfig returns a copy of the fuel configuration.
func (b *Budget) FuelConfig() (FuelConfig, error) {
	var f FuelConfig
	err := b.readBudget(func(s *budgetState) error {
		f = s.fuel
		return nil
	})
	return f, err
}

// TrackWasmMemAlloc records guest linear memory growth.
func (b *Budget) TrackWasmMemAlloc(delta uint64) error {
	return b.mutBudget(func(s *budgetState) error {
		s.tracker.TrackWasmMemAlloc(delta)
		return nil
	})
}

func (b *Budget) WasmMemAlloc() (uint64, error) {
	return b.readCount(func(s *budgetState) uint64 { return s.tracker.WasmMemory })
}

// ResetLimits zeroes both dimensions, installs new limits and resets the tracker.
func (b *Budget) ResetLimits(cpu, mem uint64) error {
	if err := b.mutBudget(func(s *budgetState) error {
		s.cpu.Reset(cpu)
		s.mem.Reset(mem)
		return nil
	}); err != nil {
		return err
	}
	return b.ResetTracker()
}

func (b *Budget) ResetUnlimited() error {
	return b.ResetLimits(math.MaxUint64, math.MaxUint64)
}

func (b *Budget) ResetUnlimitedCPU() error {
	if err := b.mutBudget(func(s *budgetState) error {
		s.cpu.Reset(math.MaxUint64)
		return nil
	}); err != nil {
		return err
	}
	return b.ResetTracker()
}

func (b *Budget) ResetUnlimitedMem() error {
	if err := b.mutBudget(func(s *budgetState) error {
		s.mem.Reset(math.MaxUint64)
		return nil
	}); err != nil {
		return err
	}
	return b.ResetTracker()
}

// ResetDefault restores the state the budget was constructed with.
func (b *Budget) ResetDefault() error {
	return b.mutBudget(func(s *budgetState) error {
		*s = b.defaults
		return nil
	})
}

func (b *Budget) ResetTracker() error {
	return b.mutBudget(func(s *budgetState) error {
		s.tracker.Reset()
		return nil
	})
}

// ResetFuelConfig sets every fuel weight to 1. Instruction calibration
// divides observed consumption by a known iteration count, which only
// works when one instruction costs one unit of fuel.
func (b *Budget) ResetFuelConfig() error {
	return b.mutBudget(func(s *budgetState) error {
		s.fuel.Reset()
		return nil
	})
}

// ResetModels restores the cost models the budget was constructed with.
func (b *Budget) ResetModels() error {
	return b.mutBudget(func(s *budgetState) error {
		s.cpu.models = b.defaults.cpu.models
		s.mem.models = b.defaults.mem.models
		return nil
	})
}

// OverrideModelWithScaledParams replaces both models of ty. Intended for
// calibration and tests.
func (b *Budget) OverrideModelWithScaledParams(ty CostType, constCPU uint64, linCPU ScaledU64, constMem uint64, linMem ScaledU64) error {
	return b.mutBudget(func(s *budgetState) error {
		if err := s.cpu.SetCostModel(ty, CostModel{ConstTerm: constCPU, LinTerm: linCPU}); err != nil {
			return err
		}
		return s.mem.SetCostModel(ty, CostModel{ConstTerm: constMem, LinTerm: linMem})
	})
}

// OverrideModelWithUnscaledParams is OverrideModelWithScaledParams with
// integer linear coefficients.
func (b *Budget) OverrideModelWithUnscaledParams(ty CostType, constCPU, linCPU, constMem, linMem uint64) error {
	return b.OverrideModelWithScaledParams(ty, constCPU, FromUnscaled(linCPU), constMem, FromUnscaled(linMem))
}
