package scerr

// IsRecoverable reports whether a fault may be caught and turned into a
// contract-visible outcome. Faults that break the execution's preconditions
// unwind the whole execution instead.
func IsRecoverable(e Error) bool {
	// Internal errors raised by the host point at a host bug or a broken
	// setup. Contracts may raise InternalError themselves.
	if !e.IsType(Contract) && e.IsCode(InternalError) {
		return false
	}
	// Running out of budget, or touching storage outside the footprint.
	if e.IsCode(ExceededLimit) && (e.IsType(Storage) || e.IsType(Budget)) {
		return false
	}
	return true
}
