package budget

// CostModel is a linear cost function: ConstTerm + LinTerm * input.
type CostModel struct {
	ConstTerm uint64
	LinTerm   ScaledU64
}

// Evaluate returns the cost of one operation over an input of the given
// size. Every step saturates.
func (m CostModel) Evaluate(input uint64) uint64 {
	return saturatingAdd(m.ConstTerm, m.LinTerm.Apply(input))
}

// EvaluateOptional evaluates the model; a nil input means the operation
// has no size and only the constant term applies.
func (m CostModel) EvaluateOptional(input *uint64) uint64 {
	if input == nil {
		return m.ConstTerm
	}
	return m.Evaluate(*input)
}

func (m CostModel) IsZero() bool {
	return m.ConstTerm == 0 && m.LinTerm.IsZero()
}
