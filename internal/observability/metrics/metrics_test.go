package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestAppMetricsCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAppMetrics(reg)

	m.JourneyStarted("create-appointment")
	m.JourneyStarted("create-appointment")
	m.JourneyCompleted("create-appointment")
	m.ObserveTrackingEvent("SAA-Appointment-Created", nil)
	m.ObserveTrackingEvent("SAA-Appointment-Created", errors.New("broker down"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.journeysStarted.WithLabelValues("create-appointment")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.journeysCompleted.WithLabelValues("create-appointment")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.trackingEvents.WithLabelValues("SAA-Appointment-Created", "failed")))
}

func TestAppMetricsBackendLatency(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAppMetrics(reg)

	m.ObserveBackendCall("activity", "GET", 200, 150*time.Millisecond)
	m.ObserveBackendCall("activity", "GET", 0, time.Second)

	assert.Equal(t, 2, testutil.CollectAndCount(m.backendLatency))
}

func TestAppMetricsNilSafe(t *testing.T) {
	var m *AppMetrics
	m.JourneyStarted("j")
	m.JourneyCompleted("j")
	m.ObserveBackendCall("e", "GET", 500, time.Millisecond)
	m.ObserveTrackingEvent("e", nil)
}
