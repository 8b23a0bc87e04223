package budget

import (
	"github.com/zircuit-labs/contract-host/core/scerr"
)

// Dimension accounts one resource: a cost model per cost type plus a real
// and a shadow running total, each with its own limit. Totals only grow
// between resets and saturate instead of wrapping.
type Dimension struct {
	models           [NumCostTypes]CostModel
	totalCount       uint64
	shadowTotalCount uint64
	limit            uint64
	shadowLimit      uint64
}

func newDimension(limit uint64, models [NumCostTypes]CostModel) Dimension {
	return Dimension{
		models:      models,
		limit:       limit,
		shadowLimit: limit,
	}
}

// Charge adds the cost of `iterations` operations of type ty to the total
// selected by shadow and checks that total against its limit. The charge
// is kept even when the limit is exceeded. It returns the amount charged.
func (d *Dimension) Charge(ty CostType, iterations uint64, input *uint64, shadow bool) (uint64, error) {
	if !ty.Valid() {
		return 0, scerr.ErrBudgetInternal
	}
	cost := saturatingMul(d.models[ty].EvaluateOptional(input), iterations)
	if shadow {
		d.shadowTotalCount = saturatingAdd(d.shadowTotalCount, cost)
	} else {
		d.totalCount = saturatingAdd(d.totalCount, cost)
	}
	return cost, d.CheckBudgetLimit(shadow)
}

// CheckBudgetLimit fails with (Budget, ExceededLimit) when the selected
// total is strictly above its limit.
func (d *Dimension) CheckBudgetLimit(shadow bool) error {
	if d.IsOverBudget(shadow) {
		return scerr.ErrBudgetExceeded
	}
	return nil
}

func (d *Dimension) IsOverBudget(shadow bool) bool {
	if shadow {
		return d.shadowTotalCount > d.shadowLimit
	}
	return d.totalCount > d.limit
}

// Reset zeroes both totals and installs limit as both the real and shadow limit.
func (d *Dimension) Reset(limit uint64) {
	d.totalCount = 0
	d.shadowTotalCount = 0
	d.limit = limit
	d.shadowLimit = limit
}

func (d *Dimension) TotalCount() uint64       { return d.totalCount }
func (d *Dimension) ShadowTotalCount() uint64 { return d.shadowTotalCount }
func (d *Dimension) Limit() uint64            { return d.limit }
func (d *Dimension) ShadowLimit() uint64      { return d.shadowLimit }

// Remaining is the real budget left, zero once exceeded.
func (d *Dimension) Remaining() uint64 {
	if d.totalCount >= d.limit {
		return 0
	}
	return d.limit - d.totalCount
}

func (d *Dimension) CostModel(ty CostType) (CostModel, error) {
	if !ty.Valid() {
		return CostModel{}, scerr.ErrBudgetInternal
	}
	return d.models[ty], nil
}

func (d *Dimension) SetCostModel(ty CostType, m CostModel) error {
	if !ty.Valid() {
		return scerr.ErrBudgetInternal
	}
	d.models[ty] = m
	return nil
}
