package host

import (
	"fmt"
	"math"

	"github.com/zircuit-labs/contract-host/core/budget"
	"github.com/zircuit-labs/contract-host/core/scerr"
)

// DebugArgConverter is implemented by types that know how to render
// themselves as a diagnostic argument.
type DebugArgConverter interface {
	DebugVal(h *Host) (Val, error)
}

var errConversion = scerr.New(scerr.Value, scerr.UnexpectedType)

// DebugArg renders arg as a Val for a diagnostic event. Rendering is
// charged to the budget. If the event buffer is held, the host is not in
// debug mode or the conversion fails, the result is an (Events,
// InternalError) value.
func DebugArg(h *Host, arg any) Val {
	// Holding the buffer while converting makes any error raised by the
	// conversion itself skip its diagnostic event.
	_, release, err := h.events.TryBorrowMut()
	if err != nil {
		return ErrorVal(scerr.ErrEventsInternal)
	}
	defer release()
	return withDebugMode(h, func() (Val, error) {
		return debugVal(h, arg)
	}, func() Val {
		return ErrorVal(scerr.ErrEventsInternal)
	})
}

func chargeCopy(h *Host, n int) error {
	return h.budget.Charge(budget.MemCpy, uint64(n))
}

// debugVal converts arg. A conversion that panics, including a method call
// on a typed nil, fails with errConversion.
func debugVal(h *Host, arg any) (out Val, err error) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Debug("Debug argument conversion panicked", "type", fmt.Sprintf("%T", arg), "panic", r)
			out, err = Val{}, errConversion
		}
	}()
	switch v := arg.(type) {
	case Val:
		return v, nil
	case scerr.Error:
		return ErrorVal(v), nil
	case *HostError:
		if v == nil {
			return Val{}, errConversion
		}
		return ErrorVal(v.err), nil
	case DebugArgConverter:
		return v.DebugVal(h)
	case string:
		if err := chargeCopy(h, len(v)); err != nil {
			return Val{}, err
		}
		return StringVal(v), nil
	case []byte:
		if err := chargeCopy(h, len(v)); err != nil {
			return Val{}, err
		}
		return BytesVal(v), nil
	case [32]byte:
		if err := chargeCopy(h, len(v)); err != nil {
			return Val{}, err
		}
		return BytesVal(v[:]), nil
	case bool:
		return BoolVal(v), nil
	case uint32:
		return U32Val(v), nil
	case int32:
		return I32Val(v), nil
	case uint64:
		return U64Val(v), nil
	case int64:
		return I64Val(v), nil
	case int:
		return I64Val(int64(v)), nil
	case uint:
		if uint64(v) > math.MaxUint32 {
			return Val{}, errConversion
		}
		return U32Val(uint32(v)), nil
	case fmt.Stringer:
		s := v.String()
		if err := chargeCopy(h, len(s)); err != nil {
			return Val{}, err
		}
		return StringVal(s), nil
	default:
		return Val{}, errConversion
	}
}
