// Package metrics exposes budget and host accounting as prometheus collectors.
package metrics

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/zircuit-labs/contract-host/core/budget"
	"github.com/zircuit-labs/contract-host/core/host"
)

const (
	labelResource = "resource"
	labelShadow   = "shadow"
	labelType     = "type"
	labelCode     = "code"
)

type Metrics struct {
	chargedCounter       *prometheus.CounterVec
	limitExceededCounter *prometheus.CounterVec
	hostErrorCounter     *prometheus.CounterVec
}

var (
	_ budget.Metrics = (*Metrics)(nil)
	_ host.Metrics   = (*Metrics)(nil)
)

func NewCollector(prom prometheus.Registerer) (*Metrics, error) {
	chargedCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contract_host_budget_charged",
			Help: "Amount charged to the budget, per resource and mode.",
		},
		[]string{labelResource, labelShadow},
	)
	limitExceededCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contract_host_budget_limit_exceeded",
			Help: "A counter for charges that exceeded a budget limit.",
		},
		[]string{labelResource, labelShadow},
	)
	hostErrorCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contract_host_errors",
			Help: "A counter for host errors by classification.",
		},
		[]string{labelType, labelCode},
	)

	var err error
	if chargedCounter, err = registerCollector(prom, chargedCounter); err != nil {
		return nil, err
	}
	if limitExceededCounter, err = registerCollector(prom, limitExceededCounter); err != nil {
		return nil, err
	}
	if hostErrorCounter, err = registerCollector(prom, hostErrorCounter); err != nil {
		return nil, err
	}

	return &Metrics{
		chargedCounter:       chargedCounter,
		limitExceededCounter: limitExceededCounter,
		hostErrorCounter:     hostErrorCounter,
	}, nil
}

func (c *Metrics) AddCharged(resource string, shadow bool, amount uint64) {
	c.chargedCounter.With(prometheus.Labels{
		labelResource: resource,
		labelShadow:   strconv.FormatBool(shadow),
	}).Add(float64(amount))
}

func (c *Metrics) IncLimitExceeded(resource string, shadow bool) {
	c.limitExceededCounter.With(prometheus.Labels{
		labelResource: resource,
		labelShadow:   strconv.FormatBool(shadow),
	}).Inc()
}

func (c *Metrics) IncHostError(errType, errCode string) {
	c.hostErrorCounter.With(prometheus.Labels{
		labelType: errType,
		labelCode: errCode,
	}).Inc()
}

var ErrWrongMetricType = errors.New("collector already registered with different type")

// registerCollector registers a Prometheus collector and returns the registered collector or an error
func registerCollector[T prometheus.Collector](prom prometheus.Registerer, c T) (T, error) {
	err := prom.Register(c)
	if err == nil {
		return c, nil
	}

	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return c, err
	}

	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return c, ErrWrongMetricType
	}

	return existing, nil
}
