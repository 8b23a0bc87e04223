// Package host builds classified host errors and their diagnostics.
//
// In debug diagnostic mode every error constructed through a Host records a
// diagnostic event and captures a snapshot of the event log, the explicit
// call frames and a trimmed Go backtrace. All of that work is charged to the
// shadow budget. Failures while building diagnostics, including reentrant
// access to the event buffer, degrade to a plain HostError.
package host

import (
	"errors"

	"github.com/google/uuid"

	"github.com/zircuit-labs/contract-host/core/budget"
	"github.com/zircuit-labs/contract-host/core/scerr"
	"github.com/zircuit-labs/contract-host/internal/refcell"
	"github.com/zircuit-labs/contract-host/log"
)

// DiagnosticLevel controls how much diagnostic work errors perform.
type DiagnosticLevel int

const (
	DiagnosticLevelNone DiagnosticLevel = iota
	DiagnosticLevelDebug
)

// Frame is one entry of the explicit call stack maintained by Invoke.
type Frame struct {
	Name string
}

func (f Frame) String() string { return f.Name }

// Host is the error-construction context of one execution session. It is
// not safe for concurrent use.
type Host struct {
	session string
	budget  *budget.Budget
	events  *refcell.Cell[Events]
	frames  []Frame
	level   DiagnosticLevel
	metrics Metrics
	logger  log.Logger
}

type Option func(*Host)

func WithBudget(b *budget.Budget) Option {
	return func(h *Host) {
		h.budget = b
	}
}

func WithDiagnosticLevel(l DiagnosticLevel) Option {
	return func(h *Host) {
		h.level = l
	}
}

func WithMetrics(m Metrics) Option {
	return func(h *Host) {
		h.metrics = m
	}
}

// New returns a host with an empty event log. Without WithBudget it gets
// a default budget.
func New(opts ...Option) *Host {
	session := uuid.NewString()
	h := &Host{
		session: session,
		events:  refcell.New(Events{}),
		logger:  log.Module("host").With("session", session),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.budget == nil {
		h.budget = budget.New()
	}
	return h
}

func (h *Host) Budget() *budget.Budget { return h.budget }

// Session identifies the host in log output.
func (h *Host) Session() string { return h.session }

func (h *Host) SetDiagnosticLevel(l DiagnosticLevel) { h.level = l }

func (h *Host) IsDebug() bool { return h.level == DiagnosticLevelDebug }

// withDebugMode runs f in shadow mode when the host is in debug mode and
// returns its result. Outside debug mode, or if f fails, it returns
// fallback().
func withDebugMode[T any](h *Host, f func() (T, error), fallback func() T) T {
	if !h.IsDebug() {
		return fallback()
	}
	var out T
	err := h.budget.WithShadowModeFallible(func() error {
		v, err := f()
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		h.logger.Debug("Diagnostic work failed", "err", err)
		return fallback()
	}
	return out
}

// Invoke is the outer dispatch entry point for a host function. It pushes
// a call frame named name, charges the dispatch, runs f and maps any error
// into a *HostError.
func (h *Host) Invoke(name string, f func() error) error {
	h.frames = append(h.frames, Frame{Name: name})
	defer func() {
		h.frames = h.frames[:len(h.frames)-1]
	}()
	if err := h.budget.Charge(budget.DispatchHostFunction, 0); err != nil {
		return h.MapErr(err)
	}
	return h.MapErr(f())
}

// CallFrames returns a copy of the current call frames, outermost first.
func (h *Host) CallFrames() []Frame {
	return append([]Frame(nil), h.frames...)
}

// WithEvents runs f with shared access to the event log.
func (h *Host) WithEvents(f func(*Events) error) error {
	evs, release, err := h.events.TryBorrow()
	if err != nil {
		return h.Error(scerr.ErrContextInternal, "event buffer is mutably borrowed")
	}
	defer release()
	return f(evs)
}

// WithEventsMut runs f with exclusive access to the event log.
func (h *Host) WithEventsMut(f func(*Events) error) error {
	evs, release, err := h.events.TryBorrowMut()
	if err != nil {
		return h.Error(scerr.ErrContextInternal, "event buffer is already borrowed")
	}
	defer release()
	return f(evs)
}

// RecordEvent appends e to the event log, charging the copy to the budget.
func (h *Host) RecordEvent(e Event) error {
	size := uint64(len(e.Topics) + len(e.Data))
	if err := h.budget.BulkCharge(budget.MemCpy, size, nil); err != nil {
		return h.MapErr(err)
	}
	return h.WithEventsMut(func(evs *Events) error {
		evs.Record(e)
		return nil
	})
}

// Events returns a snapshot of the event log.
func (h *Host) Events() ([]Event, error) {
	var out []Event
	err := h.WithEvents(func(evs *Events) error {
		out = evs.Snapshot()
		return nil
	})
	return out, err
}

func (h *Host) observe(e scerr.Error) {
	if h.metrics == nil {
		return
	}
	code := e.Code.String()
	if e.Type == scerr.Contract {
		code = "contract"
	}
	h.metrics.IncHostError(e.Type.String(), code)
}

// errorOf extracts the classification carried by err, if any.
func errorOf(err error) (scerr.Error, bool) {
	var he *HostError
	if errors.As(err, &he) {
		return he.err, true
	}
	var e scerr.Error
	if errors.As(err, &e) {
		return e, true
	}
	return scerr.Error{}, false
}
