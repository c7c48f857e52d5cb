package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CalculationMetrics records outcomes of landed-cost calculations.
type CalculationMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewCalculationMetrics registers the pricing metrics on the provided registerer.
func NewCalculationMetrics(reg prometheus.Registerer) *CalculationMetrics {
	if reg == nil {
		return &CalculationMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pricing_calculation_duration_seconds",
		Help:    "Duration of landed-cost calculations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"destination_country"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_calculation_success",
		Help: "Successful landed-cost calculations.",
	}, []string{"destination_country"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_calculation_failure",
		Help: "Failed landed-cost calculations by error code.",
	}, []string{"code"})
	reg.MustRegister(duration, success, failure)
	return &CalculationMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// ObserveDuration records the duration of a calculation for the country.
func (c *CalculationMetrics) ObserveDuration(country string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(country)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the country.
func (c *CalculationMetrics) IncSuccess(country string) {
	if c == nil || c.success == nil {
		return
	}
	c.success.WithLabelValues(normalizeLabel(country)).Inc()
}

// IncFailure increments the failure counter for the error code.
func (c *CalculationMetrics) IncFailure(code string) {
	if c == nil || c.failure == nil {
		return
	}
	c.failure.WithLabelValues(normalizeLabel(code)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
