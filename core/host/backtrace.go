package host

import (
	"strings"

	"github.com/go-stack/stack"
)

// Frames belonging to error construction and budget bookkeeping. They are
// dropped from the top of a captured backtrace.
var plumbingFrames = []string{
	".(*Host).Err",
	".(*Host).Error",
	".(*Host).MapErr",
	".(*Host).Decorate",
	".(*Host).maybeGetDebugInfo",
	"/core/host.withDebugMode",
	"/core/host.captureCallHistory",
	"/core/budget.(*Budget)",
	"/internal/refcell.",
}

// dispatchFrame is the outermost frame worth reporting.
const dispatchFrame = ".(*Host).Invoke"

func captureCallHistory() stack.CallStack {
	return trimBacktrace(stack.Trace())
}

func frameFunction(c stack.Call) string {
	return c.Frame().Function
}

func isPlumbing(c stack.Call) bool {
	fn := frameFunction(c)
	for _, p := range plumbingFrames {
		if strings.Contains(fn, p) {
			return true
		}
	}
	return false
}

// trimBacktrace drops leading plumbing frames and everything below the
// outermost dispatch frame.
func trimBacktrace(cs stack.CallStack) stack.CallStack {
	start := 0
	for start < len(cs) && isPlumbing(cs[start]) {
		start++
	}
	end := len(cs)
	for i := len(cs) - 1; i >= start; i-- {
		if strings.Contains(frameFunction(cs[i]), dispatchFrame) {
			end = i + 1
			break
		}
	}
	out := make(stack.CallStack, end-start)
	copy(out, cs[start:end])
	return out
}
