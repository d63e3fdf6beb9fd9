package middleware

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bjaus/mediator"
)

// Metrics records execution duration and outcome counts per request
// type. Request names are extracted from the runtime type with package
// prefixes removed, so "*commands.ShipOrder" is reported as
// "ShipOrder".
type Metrics struct {
	duration *prometheus.HistogramVec
	results  *prometheus.CounterVec
}

// NewMetrics creates a metrics stage and registers its collectors with
// reg. Use prometheus.DefaultRegisterer unless you manage your own
// registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mediator",
			Name:      "request_duration_seconds",
			Help:      "Request execution duration by request type.",
		}, []string{"request"}),
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mediator",
			Name:      "requests_total",
			Help:      "Request outcomes by request type.",
		}, []string{"request", "result"}),
	}
	reg.MustRegister(m.duration, m.results)
	return m
}

// StaticOrder implements mediator.StaticOrderer.
func (*Metrics) StaticOrder() int { return OrderMetrics }

// Execute implements mediator.Middleware.
func (m *Metrics) Execute(ctx context.Context, request any, next mediator.Next) (any, error) {
	name := requestName(request)
	start := time.Now()

	response, err := next(ctx)

	m.duration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.results.WithLabelValues(name, result).Inc()

	return response, err
}

// ExecuteNotification implements mediator.NotificationMiddleware.
func (m *Metrics) ExecuteNotification(ctx context.Context, notification any, next mediator.NotificationNext) error {
	name := requestName(notification)
	start := time.Now()

	err := next(ctx)

	m.duration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.results.WithLabelValues(name, result).Inc()

	return err
}
