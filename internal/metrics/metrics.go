package metrics

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Package-level Prometheus collectors. They are registered via Register;
// recording helpers are no-ops until registration succeeds.
var (
	regOK atomic.Bool

	servicesUp = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rt",
			Subsystem: "session",
			Name:      "services_up_total",
			Help:      "Number of service bring-up invocations issued, per service.",
		}, []string{"service"},
	)
	servicesDown = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rt",
			Subsystem: "session",
			Name:      "services_down_total",
			Help:      "Number of service bring-down invocations issued, per service.",
		}, []string{"service"},
	)
	commandFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rt",
			Subsystem: "session",
			Name:      "command_failures_total",
			Help:      "External service-manager invocations that returned an error.",
		}, []string{"verb"},
	)
	sessionOwner = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "rt",
			Subsystem: "session",
			Name:      "owner",
			Help:      "1 when this process owns the session, 0 otherwise.",
		},
	)
)

// Register registers all metrics with the provided registerer.
// It is safe to call multiple times; subsequent calls after success are no-ops.
func Register(r prometheus.Registerer) error {
	if regOK.Load() {
		return nil
	}
	collectors := []prometheus.Collector{servicesUp, servicesDown, commandFailures, sessionOwner}
	for _, c := range collectors {
		if err := r.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	regOK.Store(true)
	return nil
}

// Handler returns the metrics endpoint handler for the default registry.
func Handler() http.Handler { return promhttp.Handler() }

func IncUp(service string) {
	if regOK.Load() {
		servicesUp.WithLabelValues(service).Inc()
	}
}

func IncDown(service string) {
	if regOK.Load() {
		servicesDown.WithLabelValues(service).Inc()
	}
}

func IncFailure(verb string) {
	if regOK.Load() {
		commandFailures.WithLabelValues(verb).Inc()
	}
}

func SetOwner(owned bool) {
	if regOK.Load() {
		var value float64
		if owned {
			value = 1
		}
		sessionOwner.Set(value)
	}
}
