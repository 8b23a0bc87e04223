package params

import "maps"

const (
	// DefaultCPUInsnsLimit is the CPU instruction limit of a fresh budget.
	DefaultCPUInsnsLimit uint64 = 100_000_000

	// DefaultMemBytesLimit is the memory byte limit of a fresh budget.
	DefaultMemBytesLimit uint64 = 40 * 1024 * 1024

	// CostModelLinTermScaleBits is the number of fractional bits of a scaled
	// linear cost coefficient.
	CostModelLinTermScaleBits = 7
)

// CostModelParams are the terms of one linear cost model. LinTerm is
// already scaled by 2^CostModelLinTermScaleBits.
type CostModelParams struct {
	ConstTerm uint64 `json:"const_term" koanf:"const_term"`
	LinTerm   uint64 `json:"lin_term" koanf:"lin_term"`
}

// CostParams pairs the CPU and memory models of one cost type.
type CostParams struct {
	CPU CostModelParams `json:"cpu" koanf:"cpu"`
	Mem CostModelParams `json:"mem" koanf:"mem"`
}

// defaultCostParams holds the cost models installed in a fresh budget,
// keyed by cost type name. Cost types not listed here cost nothing.
var defaultCostParams = map[string]CostParams{
	"WasmInsnExec":             {CPU: CostModelParams{4, 0}},
	"MemAlloc":                 {CPU: CostModelParams{434, 16}, Mem: CostModelParams{16, 128}},
	"MemCpy":                   {CPU: CostModelParams{42, 16}},
	"MemCmp":                   {CPU: CostModelParams{44, 16}},
	"DispatchHostFunction":     {CPU: CostModelParams{310, 0}},
	"VisitObject":              {CPU: CostModelParams{61, 0}},
	"ValSer":                   {CPU: CostModelParams{230, 29}, Mem: CostModelParams{242, 384}},
	"ValDeser":                 {CPU: CostModelParams{59052, 4001}, Mem: CostModelParams{0, 384}},
	"ComputeSha256Hash":        {CPU: CostModelParams{3738, 7012}},
	"ComputeEd25519PubKey":     {CPU: CostModelParams{40253, 0}},
	"VerifyEd25519Sig":         {CPU: CostModelParams{377524, 4068}},
	"VmInstantiation":          {CPU: CostModelParams{451626, 45405}, Mem: CostModelParams{130065, 5064}},
	"VmCachedInstantiation":    {CPU: CostModelParams{451626, 45405}, Mem: CostModelParams{130065, 5064}},
	"InvokeVmFunction":         {CPU: CostModelParams{1948, 0}, Mem: CostModelParams{14, 0}},
	"ComputeKeccak256Hash":     {CPU: CostModelParams{3766, 5969}},
	"DecodeEcdsaCurve256Sig":   {CPU: CostModelParams{710, 0}},
	"RecoverEcdsaSecp256k1Key": {CPU: CostModelParams{2315295, 0}, Mem: CostModelParams{181, 0}},
	"Int256AddSub":             {CPU: CostModelParams{4404, 0}, Mem: CostModelParams{99, 0}},
	"Int256Mul":                {CPU: CostModelParams{4947, 0}, Mem: CostModelParams{99, 0}},
	"Int256Div":                {CPU: CostModelParams{4911, 0}, Mem: CostModelParams{99, 0}},
	"Int256Pow":                {CPU: CostModelParams{4286, 0}, Mem: CostModelParams{99, 0}},
	"Int256Shift":              {CPU: CostModelParams{913, 0}, Mem: CostModelParams{99, 0}},
	"ChaCha20DrawBytes":        {CPU: CostModelParams{1058, 501}},
}

// defaultFuelWeights are the interpreter fuel weights per fuel category.
var defaultFuelWeights = map[string]uint64{
	"base":   1,
	"entity": 3,
	"load":   2,
	"store":  1,
	"call":   67,
}

// DefaultCostParams returns a copy of the default cost models.
func DefaultCostParams() map[string]CostParams {
	return maps.Clone(defaultCostParams)
}

// DefaultFuelWeights returns a copy of the default fuel weights.
func DefaultFuelWeights() map[string]uint64 {
	return maps.Clone(defaultFuelWeights)
}
