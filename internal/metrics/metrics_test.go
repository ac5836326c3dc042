package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KrolPaul/call-center/internal/cdr"
)

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, g.Write(m))
	return m.GetGauge().GetValue()
}

func TestObserveTick_SetsGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.ObserveTick(3, 2, 5, 1, true)

	assert.Equal(t, float64(3), gaugeValue(t, c.queueSize))
	assert.Equal(t, float64(2), gaugeValue(t, c.poolFree))
	assert.Equal(t, float64(5), gaugeValue(t, c.poolCapacity))
	assert.Equal(t, float64(1), gaugeValue(t, c.inFlight))
	assert.Equal(t, float64(1), gaugeValue(t, c.pendingActive))

	c.ObserveTick(0, 5, 5, 0, false)
	assert.Equal(t, float64(0), gaugeValue(t, c.pendingActive))
}

func TestNilCollector_MethodsAreNoops(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveTick(1, 1, 1, 1, true)
		c.RecordCall(cdr.StatusOK)
	})
}

type captureSink struct{ got []cdr.CDR }

func (s *captureSink) Emit(c cdr.CDR) { s.got = append(s.got, c) }

func TestMeteredSink_ForwardsAndCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	capture := &captureSink{}
	sink := NewMeteredSink(capture, c)

	sink.Emit(cdr.CDR{CallID: 1, CallStatus: cdr.StatusOK})
	sink.Emit(cdr.CDR{CallID: 2, CallStatus: cdr.StatusTimeout})

	require.Len(t, capture.got, 2)

	metricFamilies, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range metricFamilies {
		if mf.GetName() != "callcenter_calls_total" {
			continue
		}
		found = true
		assert.Len(t, mf.GetMetric(), 2)
	}
	assert.True(t, found, "callcenter_calls_total must be registered")
}
