// Package scerr defines the classified error value shared by the contract
// host: a stable (type, code) pair that is comparable by value and carries
// no diagnostic payload.
package scerr

import "fmt"

// Error is a classified fault. The zero value is (Contract, 0).
type Error struct {
	Type ErrorType
	Code ErrorCode
}

// Frequently used classifications.
var (
	ErrBudgetExceeded   = New(Budget, ExceededLimit)
	ErrStorageExceeded  = New(Storage, ExceededLimit)
	ErrContextInternal  = New(Context, InternalError)
	ErrEventsInternal   = New(Events, InternalError)
	ErrBudgetInternal   = New(Budget, InternalError)
	ErrValueArithDomain = New(Value, ArithDomain)
)

// New builds an Error from a type and code.
func New(t ErrorType, c ErrorCode) Error {
	return Error{Type: t, Code: c}
}

// FromContractCode builds a contract-originated error with a contract-defined code.
func FromContractCode(code uint32) Error {
	return Error{Type: Contract, Code: ErrorCode(code)}
}

func (e Error) IsType(t ErrorType) bool { return e.Type == t }

func (e Error) IsCode(c ErrorCode) bool { return e.Code == c }

// Error implements the error interface.
func (e Error) Error() string {
	if e.Type == Contract {
		return fmt.Sprintf("Error(%s, #%d)", e.Type, uint32(e.Code))
	}
	return fmt.Sprintf("Error(%s, %s)", e.Type, e.Code)
}

func (e Error) String() string {
	return e.Error()
}
