package budget

import (
	"errors"

	"github.com/zircuit-labs/zkr-go-common/xerrors/stacktrace"

	"github.com/zircuit-labs/contract-host/params"
)

// FuelCategory is a class of interpreter instructions that share a fuel weight.
type FuelCategory int

const (
	FuelBase FuelCategory = iota
	FuelEntity
	FuelLoad
	FuelStore
	FuelCall

	NumFuelCategories = int(FuelCall) + 1
)

var ErrUnknownFuelCategory = errors.New("unknown fuel category")

var fuelCategoryToString = [NumFuelCategories]string{
	FuelBase:   "base",
	FuelEntity: "entity",
	FuelLoad:   "load",
	FuelStore:  "store",
	FuelCall:   "call",
}

func (c FuelCategory) String() string {
	if c >= 0 && int(c) < NumFuelCategories {
		return fuelCategoryToString[c]
	}
	return "unknown"
}

func FuelCategoryFromString(s string) (FuelCategory, error) {
	for i, name := range fuelCategoryToString {
		if name == s {
			return FuelCategory(i), nil
		}
	}
	return 0, stacktrace.Wrap(ErrUnknownFuelCategory)
}

// FuelConfig maps each fuel category to the weight the interpreter charges
// per instruction of that category.
type FuelConfig struct {
	weights [NumFuelCategories]uint64
}

// DefaultFuelConfig returns the production weights.
func DefaultFuelConfig() FuelConfig {
	var f FuelConfig
	for name, w := range params.DefaultFuelWeights() {
		if c, err := FuelCategoryFromString(name); err == nil {
			f.weights[c] = w
		}
	}
	return f
}

// Reset sets every weight to 1. Calibration needs unit weights so the fuel
// count equals the number of executed instructions.
func (f *FuelConfig) Reset() {
	for i := range f.weights {
		f.weights[i] = 1
	}
}

func (f FuelConfig) Weight(c FuelCategory) uint64 {
	if c < 0 || int(c) >= NumFuelCategories {
		return 0
	}
	return f.weights[c]
}

func (f *FuelConfig) SetWeight(c FuelCategory, w uint64) error {
	if c < 0 || int(c) >= NumFuelCategories {
		return stacktrace.Wrap(ErrUnknownFuelCategory)
	}
	f.weights[c] = w
	return nil
}

// Fuel returns the fuel consumed by count instructions of category c.
func (f FuelConfig) Fuel(c FuelCategory, count uint64) uint64 {
	return saturatingMul(f.Weight(c), count)
}
