package host

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-stack/stack"

	"github.com/zircuit-labs/contract-host/core/scerr"
)

// maxRenderedEvents bounds the event log printed by %+v.
const maxRenderedEvents = 25

// DebugInfo is a snapshot of the host taken when an error was built in
// debug diagnostic mode. It is never mutated afterwards.
type DebugInfo struct {
	Events    []Event
	Frames    []Frame
	Backtrace stack.CallStack
}

// HostError is a classified fault plus optional diagnostics. Equality
// and matching only consider the classification.
type HostError struct {
	err  scerr.Error
	info *DebugInfo
}

// NewHostError wraps e without diagnostics. Use Host.Error to get a
// diagnostic event and a snapshot in debug mode.
func NewHostError(e scerr.Error) *HostError {
	return &HostError{err: e}
}

// ScError returns the classification.
func (e *HostError) ScError() scerr.Error { return e.err }

// DebugInfo returns the diagnostic snapshot, or nil if none was captured.
func (e *HostError) DebugInfo() *DebugInfo { return e.info }

func (e *HostError) Error() string {
	return "HostError: " + e.err.String()
}

func (e *HostError) Unwrap() error {
	return e.err
}

// Is matches another *HostError with the same classification.
func (e *HostError) Is(target error) bool {
	var t *HostError
	if errors.As(target, &t) {
		return t.err == e.err
	}
	return false
}

func (e *HostError) IsRecoverable() bool {
	return scerr.IsRecoverable(e.err)
}

// Format renders the single-line form for %v and %s, and the event log,
// call frames and backtrace for %+v. Other verbs are reported the way fmt
// reports a bad verb.
func (e *HostError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			e.writeDebug(s)
			return
		}
		fallthrough
	case 's':
		io.WriteString(s, e.Error())
	case 'q':
		fmt.Fprintf(s, "%q", e.Error())
	default:
		fmt.Fprintf(s, "%%!%c(%T=%s)", verb, e, e.Error())
	}
}

func (e *HostError) writeDebug(w io.Writer) {
	fmt.Fprintln(w, e.Error())
	if e.info == nil {
		fmt.Fprintln(w, "DebugInfo not available")
		return
	}
	if n := len(e.info.Events); n > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Event log (newest first):")
		for i := 0; i < n && i < maxRenderedEvents; i++ {
			fmt.Fprintf(w, "   %d: %s\n", i, e.info.Events[n-1-i])
		}
		if n > maxRenderedEvents {
			fmt.Fprintf(w, "   %d: ... elided ...\n", maxRenderedEvents)
		}
	}
	if len(e.info.Frames) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Call frames (innermost first):")
		for i := range e.info.Frames {
			fmt.Fprintf(w, "   %d: %s\n", i, e.info.Frames[len(e.info.Frames)-1-i])
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Backtrace (newest first):")
	for i, c := range e.info.Backtrace {
		fmt.Fprintf(w, "   %d: %+n\n      at %+v\n", i, c, c)
	}
}

// ResultMatchesErr reports whether err carries the classification want.
func ResultMatchesErr(err error, want scerr.Error) bool {
	if err == nil {
		return false
	}
	var he *HostError
	if errors.As(err, &he) {
		return he.err == want
	}
	var e scerr.Error
	return errors.As(err, &e) && e == want
}
