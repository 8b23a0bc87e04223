package host

//go:generate go tool mockgen -source metrics.go -destination mock_metrics.go -package host

// Metrics receives host error events.
type Metrics interface {
	IncHostError(errType, errCode string)
}
