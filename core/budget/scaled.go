package budget

import (
	"math"
	"math/bits"

	"github.com/holiman/uint256"

	"github.com/zircuit-labs/contract-host/params"
)

const scaleBits = params.CostModelLinTermScaleBits

// ScaledU64 is an unsigned fixed-point number with scaleBits fractional
// bits. Linear cost coefficients are kept in this form so that evaluating a
// model never touches floating point.
type ScaledU64 uint64

// FromUnscaled converts an integer coefficient, saturating on overflow.
func FromUnscaled(u uint64) ScaledU64 {
	if u > math.MaxUint64>>scaleBits {
		return ScaledU64(math.MaxUint64)
	}
	return ScaledU64(u << scaleBits)
}

// Unscale drops the fractional bits.
func (s ScaledU64) Unscale() uint64 {
	return uint64(s) >> scaleBits
}

func (s ScaledU64) IsZero() bool {
	return s == 0
}

// Apply returns floor(s * input), saturating at math.MaxUint64. The
// product is formed in 256-bit arithmetic so no precision is lost before
// the fractional bits are dropped.
func (s ScaledU64) Apply(input uint64) uint64 {
	if s == 0 || input == 0 {
		return 0
	}
	p := new(uint256.Int).SetUint64(uint64(s))
	p.Mul(p, uint256.NewInt(input))
	p.Rsh(p, scaleBits)
	if !p.IsUint64() {
		return math.MaxUint64
	}
	return p.Uint64()
}

func saturatingAdd(a, b uint64) uint64 {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return math.MaxUint64
	}
	return sum
}

func saturatingMul(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return math.MaxUint64
	}
	return lo
}
