// Package middleware provides ready-made pipeline stages for the
// mediator: structured logging, Prometheus metrics, struct validation,
// rate limiting, and correlation IDs.
//
// Each stage declares a type-level order (see the Order constants) so
// that stacking several of them produces a sensible chain without any
// WithOrder tuning: correlation runs outermost, then logging and
// metrics, with rate limiting and validation closest to the handler.
//
//	m.Use(middleware.NewCorrelation())
//	m.Use(middleware.NewLogging(logger))
//	m.Use(middleware.NewMetrics(prometheus.DefaultRegisterer))
//	m.Use(middleware.NewValidation())
package middleware
