package budget

// WithShadowModeFallible runs f with all charges routed to the shadow
// budget. Both dimensions are checked against their shadow limits first;
// if either is already exceeded f is not run and the error is returned.
// The previous shadow flag is restored on every exit path, so calls nest.
//
// Shadow mode keeps work that must not count against the real budget
// (preflight-only logic, diagnostics) bounded instead of unmetered.
func (b *Budget) WithShadowModeFallible(f func() error) (err error) {
	var prev, entered bool
	err = b.mutBudget(func(s *budgetState) error {
		prev, entered = s.shadowMode, true
		s.shadowMode = true
		if err := s.cpu.CheckBudgetLimit(true); err != nil {
			return err
		}
		return s.mem.CheckBudgetLimit(true)
	})
	if entered {
		defer func() {
			restoreErr := b.mutBudget(func(s *budgetState) error {
				s.shadowMode = prev
				return nil
			})
			if err == nil {
				err = restoreErr
			}
		}()
	}
	if err != nil {
		return err
	}
	return f()
}

// WithShadowMode is the non-fallible form of WithShadowModeFallible: a
// failure of the pre-check or of f is logged and dropped.
func (b *Budget) WithShadowMode(f func() error) {
	if err := b.WithShadowModeFallible(f); err != nil {
		logger().Debug("Shadow mode execution failed", "err", err)
	}
}

// IsInShadowMode reports whether charges currently go to the shadow budget.
func (b *Budget) IsInShadowMode() (bool, error) {
	var on bool
	err := b.readBudget(func(s *budgetState) error {
		on = s.shadowMode
		return nil
	})
	return on, err
}

func (b *Budget) ShadowCPUInsnsConsumed() (uint64, error) {
	return b.readCount(func(s *budgetState) uint64 { return s.cpu.shadowTotalCount })
}

func (b *Budget) ShadowMemBytesConsumed() (uint64, error) {
	return b.readCount(func(s *budgetState) uint64 { return s.mem.shadowTotalCount })
}

func (b *Budget) ShadowCPULimitExceeded() (bool, error) {
	var over bool
	err := b.readBudget(func(s *budgetState) error {
		over = s.cpu.IsOverBudget(true)
		return nil
	})
	return over, err
}

func (b *Budget) ShadowMemLimitExceeded() (bool, error) {
	var over bool
	err := b.readBudget(func(s *budgetState) error {
		over = s.mem.IsOverBudget(true)
		return nil
	})
	return over, err
}
