package host

import (
	"encoding/hex"
	"strconv"

	"github.com/zircuit-labs/contract-host/core/scerr"
)

// ValKind tags the payload of a Val.
type ValKind uint8

const (
	KindVoid ValKind = iota
	KindBool
	KindU32
	KindI32
	KindU64
	KindI64
	KindSymbol
	KindString
	KindBytes
	KindError
	KindAddress
)

var valKindToString = map[ValKind]string{
	KindVoid:    "Void",
	KindBool:    "Bool",
	KindU32:     "U32",
	KindI32:     "I32",
	KindU64:     "U64",
	KindI64:     "I64",
	KindSymbol:  "Symbol",
	KindString:  "String",
	KindBytes:   "Bytes",
	KindError:   "Error",
	KindAddress: "Address",
}

func (k ValKind) String() string {
	if s, ok := valKindToString[k]; ok {
		return s
	}
	return "Unknown"
}

// Val is the host's tagged value as it appears in events and error
// diagnostics. It is immutable once built.
type Val struct {
	kind ValKind
	num  uint64
	str  string
	err  scerr.Error
}

// Void is the empty value.
var Void = Val{}

func BoolVal(b bool) Val {
	v := Val{kind: KindBool}
	if b {
		v.num = 1
	}
	return v
}

func U32Val(n uint32) Val { return Val{kind: KindU32, num: uint64(n)} }
func I32Val(n int32) Val  { return Val{kind: KindI32, num: uint64(int64(n))} }
func U64Val(n uint64) Val { return Val{kind: KindU64, num: n} }
func I64Val(n int64) Val  { return Val{kind: KindI64, num: uint64(n)} }

func SymbolVal(s string) Val { return Val{kind: KindSymbol, str: s} }
func StringVal(s string) Val { return Val{kind: KindString, str: s} }

// BytesVal copies b.
func BytesVal(b []byte) Val { return Val{kind: KindBytes, str: string(b)} }

func ErrorVal(e scerr.Error) Val { return Val{kind: KindError, err: e} }

// AddressVal wraps the printable form of an account or contract address.
func AddressVal(addr string) Val { return Val{kind: KindAddress, str: addr} }

func (v Val) Kind() ValKind { return v.kind }

func (v Val) IsVoid() bool { return v.kind == KindVoid }

// AsError returns the classified error carried by an Error value.
func (v Val) AsError() (scerr.Error, bool) {
	if v.kind != KindError {
		return scerr.Error{}, false
	}
	return v.err, true
}

func (v Val) String() string {
	switch v.kind {
	case KindVoid:
		return "Void"
	case KindBool:
		return strconv.FormatBool(v.num != 0)
	case KindU32, KindU64:
		return strconv.FormatUint(v.num, 10)
	case KindI32, KindI64:
		return strconv.FormatInt(int64(v.num), 10)
	case KindSymbol:
		return v.str
	case KindString:
		return strconv.Quote(v.str)
	case KindBytes:
		return "Bytes(" + hex.EncodeToString([]byte(v.str)) + ")"
	case KindError:
		return v.err.String()
	case KindAddress:
		return "Address(" + v.str + ")"
	default:
		return "Unknown"
	}
}
