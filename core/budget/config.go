package budget

import (
	"os"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/zircuit-labs/zkr-go-common/xerrors/stacktrace"

	"github.com/zircuit-labs/contract-host/params"
)

const (
	// ConfigEnv names a JSON file overriding the default budget configuration.
	ConfigEnv = "HOSTBUDGET_CONFIG"

	// EnvPrefix is the prefix of environment variables overriding single
	// configuration keys, e.g. HOSTBUDGET_CPU_INSNS_LIMIT.
	EnvPrefix = "HOSTBUDGET_"
)

// Config describes the limits, cost models and fuel weights of a budget.
//
// A cost type present in CostParams replaces its default entry as a whole;
// terms left out of the entry are zero. A fuel category missing from
// FuelWeights keeps its default weight.
type Config struct {
	CPUInsnsLimit uint64                       `koanf:"cpu_insns_limit"`
	MemBytesLimit uint64                       `koanf:"mem_bytes_limit"`
	CostParams    map[string]params.CostParams `koanf:"cost_params"`
	FuelWeights   map[string]uint64            `koanf:"fuel_weights"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		CPUInsnsLimit: params.DefaultCPUInsnsLimit,
		MemBytesLimit: params.DefaultMemBytesLimit,
		CostParams:    params.DefaultCostParams(),
		FuelWeights:   params.DefaultFuelWeights(),
	}
}

// LoadConfig layers the JSON file at path (if path is not empty) and then
// HOSTBUDGET_* environment variables over the defaults.
func LoadConfig(path string) (Config, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			return Config{}, stacktrace.Wrap(err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return Config{}, stacktrace.Wrap(err)
	}

	cfg := DefaultConfig()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, stacktrace.Wrap(err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ConfigFromEnv loads the file named by HOSTBUDGET_CONFIG, if set.
func ConfigFromEnv() (Config, error) {
	path := os.Getenv(ConfigEnv)
	cfg, err := LoadConfig(path)
	if err != nil {
		logger().Warn("Failed to load budget config", "path", path, "err", err)
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects unknown cost type and fuel category names.
func (c Config) Validate() error {
	for name := range c.CostParams {
		if _, err := CostTypeFromString(name); err != nil {
			return err
		}
	}
	for name := range c.FuelWeights {
		if _, err := FuelCategoryFromString(name); err != nil {
			return err
		}
	}
	return nil
}

func (c Config) models() (cpu, mem [NumCostTypes]CostModel, err error) {
	for name, p := range c.CostParams {
		ty, err := CostTypeFromString(name)
		if err != nil {
			return cpu, mem, err
		}
		cpu[ty] = CostModel{ConstTerm: p.CPU.ConstTerm, LinTerm: ScaledU64(p.CPU.LinTerm)}
		mem[ty] = CostModel{ConstTerm: p.Mem.ConstTerm, LinTerm: ScaledU64(p.Mem.LinTerm)}
	}
	return cpu, mem, nil
}

func (c Config) fuelConfig() (FuelConfig, error) {
	f := DefaultFuelConfig()
	for name, w := range c.FuelWeights {
		cat, err := FuelCategoryFromString(name)
		if err != nil {
			return FuelConfig{}, err
		}
		f.weights[cat] = w
	}
	return f, nil
}
