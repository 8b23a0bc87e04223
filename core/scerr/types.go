package scerr

import (
	"errors"

	"github.com/zircuit-labs/zkr-go-common/xerrors/stacktrace"
)

// ErrorType is the domain a classified error originates from.
type ErrorType uint32

const (
	Contract ErrorType = iota
	WasmVm
	Context
	Storage
	Object
	Crypto
	Events
	Budget
	Value
	Auth
)

// ErrorCode identifies the kind of failure within a domain. Errors of type
// Contract carry a contract-defined code instead.
type ErrorCode uint32

const (
	ArithDomain ErrorCode = iota
	IndexBounds
	InvalidInput
	MissingValue
	ExistingValue
	ExceededLimit
	InvalidAction
	InternalError
	UnexpectedType
	UnexpectedSize
)

const unknownString = "Unknown"

var (
	ErrUnknownErrorTypeString = errors.New("unknown error type")
	ErrUnknownErrorCodeString = errors.New("unknown error code")
)

var errorTypeToString = map[ErrorType]string{
	Contract: "Contract",
	WasmVm:   "WasmVm",
	Context:  "Context",
	Storage:  "Storage",
	Object:   "Object",
	Crypto:   "Crypto",
	Events:   "Events",
	Budget:   "Budget",
	Value:    "Value",
	Auth:     "Auth",
}

var errorCodeToString = map[ErrorCode]string{
	ArithDomain:    "ArithDomain",
	IndexBounds:    "IndexBounds",
	InvalidInput:   "InvalidInput",
	MissingValue:   "MissingValue",
	ExistingValue:  "ExistingValue",
	ExceededLimit:  "ExceededLimit",
	InvalidAction:  "InvalidAction",
	InternalError:  "InternalError",
	UnexpectedType: "UnexpectedType",
	UnexpectedSize: "UnexpectedSize",
}

var (
	stringToErrorType = invert(errorTypeToString)
	stringToErrorCode = invert(errorCodeToString)
)

func invert[K comparable](m map[K]string) map[string]K {
	out := make(map[string]K, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

func (t ErrorType) String() string {
	if s, ok := errorTypeToString[t]; ok {
		return s
	}
	return unknownString
}

// Valid reports whether t is one of the known error types.
func (t ErrorType) Valid() bool {
	_, ok := errorTypeToString[t]
	return ok
}

func (c ErrorCode) String() string {
	if s, ok := errorCodeToString[c]; ok {
		return s
	}
	return unknownString
}

// Valid reports whether c is one of the known (non-contract) error codes.
func (c ErrorCode) Valid() bool {
	_, ok := errorCodeToString[c]
	return ok
}

func ErrorTypeFromString(s string) (ErrorType, error) {
	if t, ok := stringToErrorType[s]; ok {
		return t, nil
	}
	return 0, stacktrace.Wrap(ErrUnknownErrorTypeString)
}

func ErrorCodeFromString(s string) (ErrorCode, error) {
	if c, ok := stringToErrorCode[s]; ok {
		return c, nil
	}
	return 0, stacktrace.Wrap(ErrUnknownErrorCodeString)
}
