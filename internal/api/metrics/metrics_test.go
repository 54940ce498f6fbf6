package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNew_RegistersCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Registrations.WithLabelValues(ResultSuccess).Inc()
	m.Logins.WithLabelValues(ResultInvalidPassword).Inc()
	m.Logins.WithLabelValues(ResultInvalidPassword).Inc()

	if got := testutil.ToFloat64(m.Registrations.WithLabelValues(ResultSuccess)); got != 1 {
		t.Fatalf("expected 1 registration, got %v", got)
	}
	if got := testutil.ToFloat64(m.Logins.WithLabelValues(ResultInvalidPassword)); got != 2 {
		t.Fatalf("expected 2 failed logins, got %v", got)
	}

	if n, err := testutil.GatherAndCount(reg, "accounts_registrations_total", "accounts_logins_total"); err != nil || n != 2 {
		t.Fatalf("expected 2 series, got %d (%v)", n, err)
	}
}
