package host

import (
	"encoding/hex"
	"errors"

	"github.com/zircuit-labs/contract-host/core/budget"
	"github.com/zircuit-labs/contract-host/core/scerr"
)

// Err builds an Error from ty and code and passes it to Error. Outside
// debug mode args are not rendered.
func (h *Host) Err(ty scerr.ErrorType, code scerr.ErrorCode, msg string, args ...any) *HostError {
	e := scerr.New(ty, code)
	if !h.IsDebug() {
		return h.Error(e, msg)
	}
	vals := make([]Val, len(args))
	for i, a := range args {
		vals[i] = DebugArg(h, a)
	}
	return h.Error(e, msg, vals...)
}

// Error returns a HostError for e. In debug mode it also records a
// diagnostic event with msg and args and attaches a DebugInfo snapshot.
func (h *Host) Error(e scerr.Error, msg string, args ...Val) *HostError {
	h.observe(e)
	return withDebugMode(h, func() (*HostError, error) {
		// A held event buffer means we are already inside error reporting
		// or event recording; skip the event instead of faulting again.
		if evs, release, err := h.events.TryBorrowMut(); err == nil {
			recErr := h.recordErrDiagnostics(evs, e, msg, args)
			release()
			if recErr != nil {
				return nil, recErr
			}
		} else {
			h.logger.Warn("Double fault while reporting error", "error", e, "msg", msg)
		}
		return &HostError{err: e, info: h.maybeGetDebugInfo()}, nil
	}, func() *HostError {
		return &HostError{err: e}
	})
}

func (h *Host) recordErrDiagnostics(evs *Events, e scerr.Error, msg string, args []Val) error {
	data := make([]Val, 0, len(args)+1)
	data = append(data, StringVal(msg))
	data = append(data, args...)
	ev := Event{
		Type:   DiagnosticEvent,
		Topics: []Val{SymbolVal("error"), ErrorVal(e)},
		Data:   data,
	}
	if err := h.budget.BulkCharge(budget.MemCpy, uint64(len(ev.Topics)+len(ev.Data)), nil); err != nil {
		return err
	}
	evs.Record(ev)
	return nil
}

func (h *Host) maybeGetDebugInfo() *DebugInfo {
	return withDebugMode(h, func() (*DebugInfo, error) {
		evs, release, err := h.events.TryBorrow()
		if err != nil {
			return nil, nil
		}
		defer release()
		events, err := evs.externalize(h.budget)
		if err != nil {
			return nil, err
		}
		return &DebugInfo{
			Events:    events,
			Frames:    h.CallFrames(),
			Backtrace: captureCallHistory(),
		}, nil
	}, func() *DebugInfo {
		return nil
	})
}

func (h *Host) ErrArithOverflow() *HostError {
	return h.Err(scerr.Value, scerr.ArithDomain, "arithmetic overflow")
}

func (h *Host) ErrOOBLinearMemory() *HostError {
	return h.Err(scerr.WasmVm, scerr.IndexBounds, "out-of-bounds access to WASM linear memory")
}

// ErrOOBObjectIndex reports an object handle outside the object table.
// index may be nil when the offending handle is unknown.
func (h *Host) ErrOOBObjectIndex(index *uint32) *HostError {
	const msg = "object index out of bounds"
	if index == nil {
		return h.Err(scerr.Object, scerr.IndexBounds, msg)
	}
	return h.Err(scerr.Object, scerr.IndexBounds, msg, U32Val(*index))
}

// MapErr routes err through Error. A *HostError is returned unchanged, an
// error carrying a scerr.Error keeps its classification and anything else
// becomes (Context, InternalError). In debug mode the error text is the
// diagnostic message.
func (h *Host) MapErr(err error) error {
	if err == nil {
		return nil
	}
	var he *HostError
	if errors.As(err, &he) {
		return he
	}
	e, ok := errorOf(err)
	if !ok {
		e = scerr.ErrContextInternal
	}
	var msg string
	if h.IsDebug() {
		msg = err.Error()
	}
	return h.Error(e, msg)
}

// DecorateContractDataStorageError adds the storage key to footprint and
// missing-value storage errors.
func (h *Host) DecorateContractDataStorageError(err *HostError, key Val) *HostError {
	if !err.err.IsType(scerr.Storage) {
		return err
	}
	switch err.err.Code {
	case scerr.ExceededLimit:
		return h.Err(scerr.Storage, scerr.ExceededLimit,
			"trying to access contract storage key outside of the footprint", key)
	case scerr.MissingValue:
		return h.Err(scerr.Storage, scerr.MissingValue,
			"trying to get non-existing value for contract storage key", key)
	}
	return err
}

// DecorateContractInstanceStorageError adds the contract address to a
// footprint violation on a contract instance entry.
func (h *Host) DecorateContractInstanceStorageError(err *HostError, contractID [32]byte) *HostError {
	if err.err != scerr.ErrStorageExceeded {
		return err
	}
	return h.Err(scerr.Storage, scerr.ExceededLimit,
		"trying to access contract instance key outside of the footprint",
		AddressVal("contract:"+hex.EncodeToString(contractID[:])))
}

// DecorateContractCodeStorageError adds the code hash to a footprint
// violation on a contract code entry.
func (h *Host) DecorateContractCodeStorageError(err *HostError, wasmHash [32]byte) *HostError {
	if err.err != scerr.ErrStorageExceeded {
		return err
	}
	return h.Err(scerr.Storage, scerr.ExceededLimit,
		"trying to access contract code key outside of the footprint", wasmHash)
}

// DecorateAccountFootprintError adds the account address to a footprint
// violation. An empty accountID means the ledger key has no account and
// is rendered as Void.
func (h *Host) DecorateAccountFootprintError(err *HostError, accountID string, msg string) *HostError {
	if err.err != scerr.ErrStorageExceeded {
		return err
	}
	addr := Void
	if accountID != "" {
		addr = AddressVal("account:" + accountID)
	}
	return h.Err(scerr.Storage, scerr.ExceededLimit, msg, addr)
}
