// Package budget implements the resource accounting engine of the contract
// host. Every metered operation is charged against a CPU instruction and a
// memory byte dimension, either on the real budget or, in shadow mode, on a
// parallel shadow budget that never affects production accounting.
//
// A Budget is used from one execution context at a time. Its state sits
// behind a borrow guard; a reentrant mutation is reported as a
// (Context, InternalError) fault instead of corrupting the counters.
package budget

import (
	"errors"

	"github.com/zircuit-labs/zkr-go-common/xerrors/stacktrace"

	"github.com/zircuit-labs/contract-host/core/scerr"
	"github.com/zircuit-labs/contract-host/internal/refcell"
	"github.com/zircuit-labs/contract-host/log"
)

type budgetState struct {
	cpu        Dimension
	mem        Dimension
	tracker    Tracker
	fuel       FuelConfig
	shadowMode bool
}

// Budget is the shared accounting handle for one execution session.
type Budget struct {
	state    *refcell.Cell[budgetState]
	defaults budgetState
	metrics  Metrics
}

type Option func(*Budget)

// WithMetrics attaches a metrics sink.
func WithMetrics(m Metrics) Option {
	return func(b *Budget) {
		b.metrics = m
	}
}

// New returns a budget with the default limits, cost models and fuel weights.
func New(opts ...Option) *Budget {
	b, err := NewFromConfig(DefaultConfig(), opts...)
	if err != nil {
		// DefaultConfig is built from copies of fixed defaults and always
		// validates.
		panic(err)
	}
	return b
}

// NewWithLimits returns a default budget with the given limits.
func NewWithLimits(cpuLimit, memLimit uint64, opts ...Option) *Budget {
	cfg := DefaultConfig()
	cfg.CPUInsnsLimit = cpuLimit
	cfg.MemBytesLimit = memLimit
	b, err := NewFromConfig(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return b
}

// NewFromConfig builds a budget from cfg.
func NewFromConfig(cfg Config, opts ...Option) (*Budget, error) {
	cpuModels, memModels, err := cfg.models()
	if err != nil {
		return nil, err
	}
	fuel, err := cfg.fuelConfig()
	if err != nil {
		return nil, err
	}
	b := &Budget{
		defaults: budgetState{
			cpu:  newDimension(cfg.CPUInsnsLimit, cpuModels),
			mem:  newDimension(cfg.MemBytesLimit, memModels),
			fuel: fuel,
		},
	}
	for _, opt := range opts {
		opt(b)
	}
	b.state = refcell.New(b.defaults)
	return b, nil
}

func logger() log.Logger {
	return log.Module("budget")
}

// mutBudget runs f with exclusive access to the state. A conflicting borrow
// means a caller mutated the budget from inside another budget access.
func (b *Budget) mutBudget(f func(*budgetState) error) error {
	st, release, err := b.state.TryBorrowMut()
	if err != nil {
		return borrowFault(err)
	}
	defer release()
	return f(st)
}

// readBudget runs f with shared access to the state.
func (b *Budget) readBudget(f func(*budgetState) error) error {
	st, release, err := b.state.TryBorrow()
	if err != nil {
		return borrowFault(err)
	}
	defer release()
	return f(st)
}

func borrowFault(err error) error {
	logger().Error("Reentrant budget access", "err", stacktrace.Wrap(err))
	return scerr.ErrContextInternal
}

// Charge charges one operation of type ty over an input of the given size
// against both dimensions.
func (b *Budget) Charge(ty CostType, input uint64) error {
	return b.BulkCharge(ty, 1, &input)
}

// ChargeOptional is Charge for operations whose input size may be absent.
func (b *Budget) ChargeOptional(ty CostType, input *uint64) error {
	return b.BulkCharge(ty, 1, input)
}

// BulkCharge charges `iterations` operations of type ty against the CPU
// dimension and then the memory dimension. The memory dimension is not
// charged when the CPU charge exceeds its limit.
func (b *Budget) BulkCharge(ty CostType, iterations uint64, input *uint64) error {
	return b.mutBudget(func(s *budgetState) error {
		if !ty.Valid() {
			return scerr.ErrBudgetInternal
		}
		shadow := s.shadowMode
		if !shadow {
			s.tracker.recordCall(ty, iterations, input)
		}
		if err := b.chargeDimension(s, CPU, ty, iterations, input); err != nil {
			return err
		}
		return b.chargeDimension(s, Memory, ty, iterations, input)
	})
}

// ChargeDimension charges a single dimension.
func (b *Budget) ChargeDimension(res Resource, ty CostType, input uint64) error {
	return b.mutBudget(func(s *budgetState) error {
		if !ty.Valid() {
			return scerr.ErrBudgetInternal
		}
		return b.chargeDimension(s, res, ty, 1, &input)
	})
}

func (s *budgetState) dimension(res Resource) *Dimension {
	switch res {
	case CPU:
		return &s.cpu
	case Memory:
		return &s.mem
	default:
		return nil
	}
}

func (b *Budget) chargeDimension(s *budgetState, res Resource, ty CostType, iterations uint64, input *uint64) error {
	d := s.dimension(res)
	if d == nil {
		return scerr.ErrBudgetInternal
	}
	shadow := s.shadowMode
	amount, err := d.Charge(ty, iterations, input, shadow)
	if !shadow {
		s.tracker.recordCost(ty, res, amount)
	}
	if b.metrics != nil {
		b.metrics.AddCharged(res.String(), shadow, amount)
	}
	if err != nil {
		if errors.Is(err, scerr.ErrBudgetExceeded) {
			if b.metrics != nil {
				b.metrics.IncLimitExceeded(res.String(), shadow)
			}
			total, limit := d.TotalCount(), d.Limit()
			if shadow {
				total, limit = d.ShadowTotalCount(), d.ShadowLimit()
			}
			logger().Debug("Budget limit exceeded",
				"resource", res,
				"costType", ty,
				"shadow", shadow,
				"total", total,
				"limit", limit,
			)
		}
		return err
	}
	return nil
}

// CheckBudgetLimit checks both dimensions against the limits of the active mode.
func (b *Budget) CheckBudgetLimit() error {
	return b.readBudget(func(s *budgetState) error {
		if err := s.cpu.CheckBudgetLimit(s.shadowMode); err != nil {
			return err
		}
		return s.mem.CheckBudgetLimit(s.shadowMode)
	})
}
