package budget

// CostTracker is the per-cost-type bookkeeping of real-mode charges.
type CostTracker struct {
	Iterations uint64
	Inputs     uint64
	CPU        uint64
	Mem        uint64
}

// Tracker holds counters for resources that are not modeled as linear
// costs, plus per-cost-type statistics. It has no limits of its own; limits
// on these counters belong to whoever reads them.
type Tracker struct {
	// WasmMemory is the cumulative guest linear memory growth in bytes.
	WasmMemory uint64

	// MeterCount is the number of real-mode charge calls.
	MeterCount uint64

	Costs [NumCostTypes]CostTracker
}

func (t *Tracker) TrackWasmMemAlloc(delta uint64) {
	t.WasmMemory = saturatingAdd(t.WasmMemory, delta)
}

func (t *Tracker) recordCall(ty CostType, iterations uint64, input *uint64) {
	t.MeterCount = saturatingAdd(t.MeterCount, 1)
	c := &t.Costs[ty]
	c.Iterations = saturatingAdd(c.Iterations, iterations)
	if input != nil {
		c.Inputs = saturatingAdd(c.Inputs, saturatingMul(*input, iterations))
	}
}

func (t *Tracker) recordCost(ty CostType, res Resource, amount uint64) {
	c := &t.Costs[ty]
	switch res {
	case CPU:
		c.CPU = saturatingAdd(c.CPU, amount)
	case Memory:
		c.Mem = saturatingAdd(c.Mem, amount)
	}
}

func (t *Tracker) Reset() {
	*t = Tracker{}
}
