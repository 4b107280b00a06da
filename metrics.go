package grooming

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// AdmissionCollector bundles the Prometheus metrics of the admission loop
type AdmissionCollector struct {
	Trials     *prometheus.CounterVec
	Admitted   prometheus.Counter
	Blocked    prometheus.Counter
	Lightpaths prometheus.Gauge
}

// NewAdmissionCollector registers the admission metrics against reg, defaulting to
// the global registry when reg is nil.  Registering twice against the same
// registry hands back the collectors already registered.
func NewAdmissionCollector(reg prometheus.Registerer) (*AdmissionCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	trials := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "grooming_admission_trials_total",
		Help: "Admission trials, labeled by outcome (admitted, rejected, error).",
	}, []string{"outcome"})
	if err := reg.Register(trials); err != nil {
		are := prometheus.AlreadyRegisteredError{}
		if !errors.As(err, &are) {
			return nil, err
		}
		trials = are.ExistingCollector.(*prometheus.CounterVec)
	}

	admitted, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "grooming_services_admitted_total",
		Help: "Services admitted on one of their candidate paths.",
	}))
	if err != nil {
		return nil, err
	}
	blocked, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "grooming_services_blocked_total",
		Help: "Services that exhausted every candidate path.",
	}))
	if err != nil {
		return nil, err
	}

	lightpaths := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "grooming_lightpaths",
		Help: "Network-wide optical transport units of the last admitted configuration.",
	})
	if err := reg.Register(lightpaths); err != nil {
		are := prometheus.AlreadyRegisteredError{}
		if !errors.As(err, &are) {
			return nil, err
		}
		lightpaths = are.ExistingCollector.(prometheus.Gauge)
	}

	return &AdmissionCollector{Trials: trials, Admitted: admitted, Blocked: blocked, Lightpaths: lightpaths}, nil
}

func registerCounter(reg prometheus.Registerer, c prometheus.Counter) (prometheus.Counter, error) {
	if err := reg.Register(c); err != nil {
		are := prometheus.AlreadyRegisteredError{}
		if errors.As(err, &are) {
			return are.ExistingCollector.(prometheus.Counter), nil
		}
		return nil, err
	}
	return c, nil
}

// ObserveTrial counts one trial outcome
func (ac *AdmissionCollector) ObserveTrial(outcome string) {
	if ac == nil {
		return
	}
	ac.Trials.WithLabelValues(outcome).Inc()
}

// ObserveDecision counts the final outcome of a service
func (ac *AdmissionCollector) ObserveDecision(dec Decision) {
	if ac == nil {
		return
	}
	if dec.Admitted {
		ac.Admitted.Inc()
		ac.Lightpaths.Set(float64(dec.Lightpaths))
		return
	}
	ac.Blocked.Inc()
}
