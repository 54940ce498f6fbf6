// Package metrics defines the Prometheus metrics for account operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "accounts"

// Result label values shared by the counters below.
const (
	ResultSuccess         = "success"
	ResultInvalidInput    = "invalid_input"
	ResultDuplicate       = "duplicate"
	ResultNotFound        = "not_found"
	ResultInvalidPassword = "invalid_password"
	ResultError           = "error"
)

type Metrics struct {
	// Registrations counts register attempts by result.
	Registrations *prometheus.CounterVec
	// Logins counts login attempts by result.
	Logins *prometheus.CounterVec
}

// New creates the account metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Registrations: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "registrations_total",
				Help:      "Total number of account registration attempts, by result.",
			},
			[]string{"result"},
		),
		Logins: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "logins_total",
				Help:      "Total number of login attempts, by result.",
			},
			[]string{"result"},
		),
	}
}
