package grooming

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmissionCollectorCountsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	ac, err := NewAdmissionCollector(reg)
	require.NoError(t, err)

	policy := DefaultPolicy()
	policy.MaxOduCount = 2
	tp := lineTopology(t, 3)
	as := CreateAdmissionSimulator(tp, policy)
	as.SetCollector(ac)

	bad := ServiceRequest{ID: 3, Src: 1, Dst: 3, Size: OduLow, Paths: [][]NodeID{{1, 3}}}
	services := []ServiceRequest{
		request(t, tp, 0, OduHigh, 1, 3),
		request(t, tp, 1, OduLow, 1, 2),
		request(t, tp, 2, OduLow, 1, 3),
		bad,
	}
	result := as.Run(services)
	require.Equal(t, 2, result.Blocked)

	assert.Equal(t, 2.0, testutil.ToFloat64(ac.Trials.WithLabelValues(outcomeAdmitted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(ac.Trials.WithLabelValues(outcomeRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(ac.Trials.WithLabelValues(outcomeError)))
	assert.Equal(t, 2.0, testutil.ToFloat64(ac.Admitted))
	assert.Equal(t, 2.0, testutil.ToFloat64(ac.Blocked))
	assert.Equal(t, float64(result.Lightpaths), testutil.ToFloat64(ac.Lightpaths))
}

func TestAdmissionCollectorReusesRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewAdmissionCollector(reg)
	require.NoError(t, err)
	second, err := NewAdmissionCollector(reg)
	require.NoError(t, err)

	first.Admitted.Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(second.Admitted))

	count, err := testutil.GatherAndCount(reg, "grooming_services_admitted_total",
		"grooming_services_blocked_total", "grooming_lightpaths")
	require.NoError(t, err)
	assert.Equal(t, 3, count, "each metric registered once")
}

func TestNilCollectorIsSilent(t *testing.T) {
	var ac *AdmissionCollector
	assert.NotPanics(t, func() {
		ac.ObserveTrial(outcomeAdmitted)
		ac.ObserveDecision(Decision{Admitted: true})
	})
}
