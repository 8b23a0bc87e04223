package budget

//go:generate go tool mockgen -source metrics.go -destination mock_metrics.go -package budget

// Metrics receives accounting events. It is called with the budget state
// borrowed, so implementations must not call back into the Budget.
type Metrics interface {
	AddCharged(resource string, shadow bool, amount uint64)
	IncLimitExceeded(resource string, shadow bool)
}
