package budget

import (
	"errors"

	"github.com/zircuit-labs/zkr-go-common/xerrors/stacktrace"
)

// CostType is the category of a metered host operation. Each category has
// its own CPU and memory cost model.
type CostType uint32

const (
	WasmInsnExec CostType = iota
	MemAlloc
	MemCpy
	MemCmp
	DispatchHostFunction
	VisitObject
	ValSer
	ValDeser
	ComputeSha256Hash
	ComputeEd25519PubKey
	VerifyEd25519Sig
	VmInstantiation
	VmCachedInstantiation
	InvokeVmFunction
	ComputeKeccak256Hash
	DecodeEcdsaCurve256Sig
	RecoverEcdsaSecp256k1Key
	Int256AddSub
	Int256Mul
	Int256Div
	Int256Pow
	Int256Shift
	ChaCha20DrawBytes

	// NumCostTypes is the number of defined cost types.
	NumCostTypes = int(ChaCha20DrawBytes) + 1
)

var ErrUnknownCostType = errors.New("unknown cost type")

var costTypeToString = [NumCostTypes]string{
	WasmInsnExec:             "WasmInsnExec",
	MemAlloc:                 "MemAlloc",
	MemCpy:                   "MemCpy",
	MemCmp:                   "MemCmp",
	DispatchHostFunction:     "DispatchHostFunction",
	VisitObject:              "VisitObject",
	ValSer:                   "ValSer",
	ValDeser:                 "ValDeser",
	ComputeSha256Hash:        "ComputeSha256Hash",
	ComputeEd25519PubKey:     "ComputeEd25519PubKey",
	VerifyEd25519Sig:         "VerifyEd25519Sig",
	VmInstantiation:          "VmInstantiation",
	VmCachedInstantiation:    "VmCachedInstantiation",
	InvokeVmFunction:         "InvokeVmFunction",
	ComputeKeccak256Hash:     "ComputeKeccak256Hash",
	DecodeEcdsaCurve256Sig:   "DecodeEcdsaCurve256Sig",
	RecoverEcdsaSecp256k1Key: "RecoverEcdsaSecp256k1Key",
	Int256AddSub:             "Int256AddSub",
	Int256Mul:                "Int256Mul",
	Int256Div:                "Int256Div",
	Int256Pow:                "Int256Pow",
	Int256Shift:              "Int256Shift",
	ChaCha20DrawBytes:        "ChaCha20DrawBytes",
}

var stringToCostType = func() map[string]CostType {
	m := make(map[string]CostType, NumCostTypes)
	for i, s := range costTypeToString {
		m[s] = CostType(i)
	}
	return m
}()

// AllCostTypes returns every defined cost type in declaration order.
func AllCostTypes() []CostType {
	out := make([]CostType, NumCostTypes)
	for i := range out {
		out[i] = CostType(i)
	}
	return out
}

func (ty CostType) Valid() bool {
	return int(ty) < NumCostTypes
}

func (ty CostType) String() string {
	if ty.Valid() {
		return costTypeToString[ty]
	}
	return "Unknown"
}

func CostTypeFromString(s string) (CostType, error) {
	if ty, ok := stringToCostType[s]; ok {
		return ty, nil
	}
	return 0, stacktrace.Wrap(ErrUnknownCostType)
}

// Resource is one budget dimension.
type Resource int

const (
	CPU Resource = iota
	Memory
)

func (r Resource) String() string {
	switch r {
	case CPU:
		return "cpu"
	case Memory:
		return "mem"
	default:
		return "unknown"
	}
}
