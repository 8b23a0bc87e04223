// Package refcell provides a single-goroutine borrow guard around mutable
// state. It detects reentrant access (a mutation requested while the value
// is already borrowed) and reports it instead of letting two callers alias
// the same state. It is not a lock: nothing ever blocks.
package refcell

import "errors"

var (
	// ErrAlreadyBorrowed is returned when a shared borrow is requested while
	// the value is mutably borrowed.
	ErrAlreadyBorrowed = errors.New("refcell: value is mutably borrowed")

	// ErrAlreadyMutablyBorrowed is returned when a mutable borrow is requested
	// while any other borrow is outstanding.
	ErrAlreadyMutablyBorrowed = errors.New("refcell: value is already borrowed")
)

// Cell holds a value of type T behind borrow flags.
type Cell[T any] struct {
	value   T
	readers int
	writer  bool
}

// New returns a cell holding v.
func New[T any](v T) *Cell[T] {
	return &Cell[T]{value: v}
}

// TryBorrow takes a shared borrow. The returned release func must be called
// exactly once.
func (c *Cell[T]) TryBorrow() (*T, func(), error) {
	if c.writer {
		return nil, nil, ErrAlreadyBorrowed
	}
	c.readers++
	released := false
	return &c.value, func() {
		if !released {
			released = true
			c.readers--
		}
	}, nil
}

// TryBorrowMut takes an exclusive borrow. The returned release func must be
// called exactly once.
func (c *Cell[T]) TryBorrowMut() (*T, func(), error) {
	if c.writer || c.readers > 0 {
		return nil, nil, ErrAlreadyMutablyBorrowed
	}
	c.writer = true
	released := false
	return &c.value, func() {
		if !released {
			released = true
			c.writer = false
		}
	}, nil
}

// With runs f under a shared borrow.
func (c *Cell[T]) With(f func(*T) error) error {
	v, release, err := c.TryBorrow()
	if err != nil {
		return err
	}
	defer release()
	return f(v)
}

// WithMut runs f under an exclusive borrow.
func (c *Cell[T]) WithMut(f func(*T) error) error {
	v, release, err := c.TryBorrowMut()
	if err != nil {
		return err
	}
	defer release()
	return f(v)
}

// Replace swaps in v. It fails if the cell is borrowed.
func (c *Cell[T]) Replace(v T) error {
	return c.WithMut(func(cur *T) error {
		*cur = v
		return nil
	})
}

// IsBorrowed reports whether any borrow is outstanding.
func (c *Cell[T]) IsBorrowed() bool {
	return c.writer || c.readers > 0
}
