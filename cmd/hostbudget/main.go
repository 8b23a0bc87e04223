// hostbudget inspects and exercises the contract host's resource budget.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
	"github.com/zircuit-labs/zkr-go-common/xerrors/stacktrace"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/zircuit-labs/contract-host/core/budget"
	"github.com/zircuit-labs/contract-host/internal/version"
	"github.com/zircuit-labs/contract-host/log"
)

const clientIdentifier = "hostbudget"

var (
	configFlag = &cli.StringFlag{
		Name:    "config",
		Usage:   "JSON file overriding the default limits, cost models and fuel weights",
		EnvVars: []string{budget.ConfigEnv},
	}
	verbosityFlag = &cli.StringFlag{
		Name:  "verbosity",
		Usage: "log level (trace, debug, info, warn, error)",
		Value: "info",
	}
	logFileFlag = &cli.StringFlag{
		Name:  "log.file",
		Usage: "write logs to a rotated file instead of stderr",
	}
	logMaxSizeFlag = &cli.IntFlag{
		Name:  "log.maxsize",
		Usage: "maximum size in megabytes of the log file before it is rotated",
		Value: 100,
	}
)

func newApp() *cli.App {
	v, _ := version.Info()
	return &cli.App{
		Name:    clientIdentifier,
		Usage:   "inspect and exercise the contract host resource budget",
		Version: v,
		Flags:   []cli.Flag{configFlag, verbosityFlag, logFileFlag, logMaxSizeFlag},
		Before:  setupLogging,
		Commands: []*cli.Command{
			modelsCommand,
			simulateCommand,
			versionCommand,
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "trace":
		return log.LevelTrace, nil
	case "crit":
		return log.LevelCrit, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return 0, stacktrace.Wrap(err)
	}
	return lvl, nil
}

func setupLogging(ctx *cli.Context) error {
	lvl, err := parseLevel(ctx.String(verbosityFlag.Name))
	if err != nil {
		return err
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var w io.Writer = ctx.App.ErrWriter
	if path := ctx.String(logFileFlag.Name); path != "" {
		w = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    ctx.Int(logMaxSizeFlag.Name),
			MaxBackups: 3,
		}
	}
	var h slog.Handler = slog.NewJSONHandler(w, opts)
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		h = slog.NewTextHandler(w, opts)
	}
	log.SetDefault(log.NewLogger(h))
	return nil
}

// loadConfig reads the budget configuration named by --config.
func loadConfig(ctx *cli.Context) (budget.Config, error) {
	path := ctx.String(configFlag.Name)
	cfg, err := budget.LoadConfig(path)
	if err != nil {
		log.Error("Failed to load budget config", "path", path, "err", err)
		return budget.Config{}, err
	}
	return cfg, nil
}

var versionCommand = &cli.Command{
	Name:  "version",
	Usage: "Print version numbers",
	Action: func(ctx *cli.Context) error {
		v, date := version.Info()
		fmt.Fprintln(ctx.App.Writer, version.ClientName(clientIdentifier))
		fmt.Fprintln(ctx.App.Writer, v)
		if date != "" {
			fmt.Fprintln(ctx.App.Writer, "Git Date:", date)
		}
		return nil
	},
}
