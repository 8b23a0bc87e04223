package budget

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// WriteReport renders the limits, totals and per-cost-type tracker of the
// budget to w. Cost types that were never charged are omitted.
func (b *Budget) WriteReport(w io.Writer) error {
	return b.readBudget(func(s *budgetState) error {
		fmt.Fprintf(w, "Cpu limit: %d; used: %d; shadow used: %d\n", s.cpu.limit, s.cpu.totalCount, s.cpu.shadowTotalCount)
		fmt.Fprintf(w, "Mem limit: %d; used: %d; shadow used: %d\n", s.mem.limit, s.mem.totalCount, s.mem.shadowTotalCount)
		fmt.Fprintf(w, "Wasm memory: %d; meter count: %d\n", s.tracker.WasmMemory, s.tracker.MeterCount)

		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"Cost type", "Iterations", "Input", "Cpu insns", "Mem bytes"})
		for _, ty := range AllCostTypes() {
			c := s.tracker.Costs[ty]
			if c.Iterations == 0 && c.CPU == 0 && c.Mem == 0 {
				continue
			}
			table.Append([]string{
				ty.String(),
				strconv.FormatUint(c.Iterations, 10),
				strconv.FormatUint(c.Inputs, 10),
				strconv.FormatUint(c.CPU, 10),
				strconv.FormatUint(c.Mem, 10),
			})
		}
		table.Render()
		return nil
	})
}

func (b *Budget) String() string {
	var sb strings.Builder
	if err := b.WriteReport(&sb); err != nil {
		return fmt.Sprintf("budget unavailable: %v", err)
	}
	return sb.String()
}
