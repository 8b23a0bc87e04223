package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/urfave/cli/v2"
	"github.com/zircuit-labs/zkr-go-common/xerrors/stacktrace"

	"github.com/zircuit-labs/contract-host/core/budget"
	"github.com/zircuit-labs/contract-host/core/host"
	"github.com/zircuit-labs/contract-host/log"
	"github.com/zircuit-labs/contract-host/metrics"
)

var (
	ErrInvalidStep = errors.New("invalid charge step")
	ErrStepsFailed = errors.New("one or more charge steps failed")
)

var simulateCommand = &cli.Command{
	Name:      "simulate",
	Usage:     "Charge a sequence of operations and print the resulting budget",
	ArgsUsage: "<CostType[:input[xiterations]]>...",
	Description: `
hostbudget simulate [flags] WasmInsnExec MemCpy:64 ValDeser:1024x3
Charges every step in order, each dispatched as a host function call.
Without --keep-going the run stops at the first failing step.
`,
	Flags: []cli.Flag{
		&cli.Uint64Flag{Name: "cpu-limit", Usage: "CPU instruction limit (default: from config)"},
		&cli.Uint64Flag{Name: "mem-limit", Usage: "memory byte limit (default: from config)"},
		&cli.BoolFlag{Name: "shadow", Usage: "charge every step to the shadow budget"},
		&cli.BoolFlag{Name: "debug", Usage: "record diagnostics and print full errors"},
		&cli.BoolFlag{Name: "keep-going", Usage: "continue after a failing step"},
		&cli.BoolFlag{Name: "metrics", Usage: "print the collected prometheus metrics"},
	},
	Action: simulate,
}

// step is one parsed charge.
type step struct {
	ty         budget.CostType
	input      *uint64
	iterations uint64
}

func (s step) String() string {
	out := s.ty.String()
	if s.input != nil {
		out += ":" + strconv.FormatUint(*s.input, 10)
	}
	if s.iterations != 1 {
		out += "x" + strconv.FormatUint(s.iterations, 10)
	}
	return out
}

func parseStep(arg string) (step, error) {
	s := step{iterations: 1}
	name, rest, hasInput := strings.Cut(arg, ":")
	ty, err := budget.CostTypeFromString(name)
	if err != nil {
		return step{}, err
	}
	s.ty = ty
	if !hasInput {
		return s, nil
	}
	inputStr, itersStr, hasIters := strings.Cut(rest, "x")
	input, err := strconv.ParseUint(inputStr, 10, 64)
	if err != nil {
		return step{}, stacktrace.Wrap(fmt.Errorf("%w %q: %w", ErrInvalidStep, arg, err))
	}
	s.input = &input
	if hasIters {
		if s.iterations, err = strconv.ParseUint(itersStr, 10, 64); err != nil {
			return step{}, stacktrace.Wrap(fmt.Errorf("%w %q: %w", ErrInvalidStep, arg, err))
		}
	}
	return s, nil
}

func simulate(ctx *cli.Context) error {
	steps := make([]step, 0, ctx.NArg())
	for _, arg := range ctx.Args().Slice() {
		s, err := parseStep(arg)
		if err != nil {
			return err
		}
		steps = append(steps, s)
	}

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if ctx.IsSet("cpu-limit") {
		cfg.CPUInsnsLimit = ctx.Uint64("cpu-limit")
	}
	if ctx.IsSet("mem-limit") {
		cfg.MemBytesLimit = ctx.Uint64("mem-limit")
	}

	reg := prometheus.NewRegistry()
	m, err := metrics.NewCollector(reg)
	if err != nil {
		return err
	}
	b, err := budget.NewFromConfig(cfg, budget.WithMetrics(m))
	if err != nil {
		return err
	}
	opts := []host.Option{host.WithBudget(b), host.WithMetrics(m)}
	if ctx.Bool("debug") {
		opts = append(opts, host.WithDiagnosticLevel(host.DiagnosticLevelDebug))
	}
	h := host.New(opts...)

	w := ctx.App.Writer
	fail := color.New(color.FgRed)
	failed := false
	for i, s := range steps {
		err := runStep(h, s, ctx.Bool("shadow"))
		if err == nil {
			continue
		}
		failed = true
		var he *host.HostError
		recoverable := errors.As(err, &he) && he.IsRecoverable()
		log.Debug("Charge step failed", "step", s, "index", i, "recoverable", recoverable, "err", err)
		if ctx.Bool("debug") {
			fail.Fprintf(w, "step %d (%s) failed: %+v\n", i, s, err)
		} else {
			fail.Fprintf(w, "step %d (%s) failed: %v (recoverable: %t)\n", i, s, err, recoverable)
		}
		if !ctx.Bool("keep-going") {
			break
		}
	}

	if err := b.WriteReport(w); err != nil {
		return err
	}
	if ctx.Bool("metrics") {
		if err := writeMetrics(ctx, reg); err != nil {
			return err
		}
	}
	if failed {
		return ErrStepsFailed
	}
	return nil
}

func runStep(h *host.Host, s step, shadow bool) error {
	charge := func() error {
		return h.Invoke(s.String(), func() error {
			return h.Budget().BulkCharge(s.ty, s.iterations, s.input)
		})
	}
	if !shadow {
		return charge()
	}
	return h.MapErr(h.Budget().WithShadowModeFallible(charge))
}

func writeMetrics(ctx *cli.Context, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return stacktrace.Wrap(err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(ctx.App.Writer, mf); err != nil {
			return stacktrace.Wrap(err)
		}
	}
	return nil
}
