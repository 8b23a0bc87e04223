package main

import (
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"

	"github.com/zircuit-labs/contract-host/core/budget"
)

var modelsCommand = &cli.Command{
	Name:  "models",
	Usage: "Print the configured cost models",
	Description: `
hostbudget models [--input N]
Prints the CPU and memory model of every cost type. Linear terms are shown
scaled by 128. With --input the models are also evaluated for an input of
size N.
`,
	Flags: []cli.Flag{
		&cli.Uint64Flag{
			Name:  "input",
			Usage: "input size to evaluate every model at",
		},
	},
	Action: printModels,
}

func printModels(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	b, err := budget.NewFromConfig(cfg)
	if err != nil {
		return err
	}

	evaluate := ctx.IsSet("input")
	input := ctx.Uint64("input")

	table := tablewriter.NewWriter(ctx.App.Writer)
	header := []string{"Cost type", "Cpu const", "Cpu lin", "Mem const", "Mem lin"}
	if evaluate {
		header = append(header, "Cpu@"+strconv.FormatUint(input, 10), "Mem@"+strconv.FormatUint(input, 10))
	}
	table.SetHeader(header)
	for _, ty := range budget.AllCostTypes() {
		cpu, err := b.CostModel(budget.CPU, ty)
		if err != nil {
			return err
		}
		mem, err := b.CostModel(budget.Memory, ty)
		if err != nil {
			return err
		}
		row := []string{
			ty.String(),
			strconv.FormatUint(cpu.ConstTerm, 10),
			strconv.FormatUint(uint64(cpu.LinTerm), 10),
			strconv.FormatUint(mem.ConstTerm, 10),
			strconv.FormatUint(uint64(mem.LinTerm), 10),
		}
		if evaluate {
			row = append(row,
				strconv.FormatUint(cpu.Evaluate(input), 10),
				strconv.FormatUint(mem.Evaluate(input), 10),
			)
		}
		table.Append(row)
	}
	table.Render()
	return nil
}
