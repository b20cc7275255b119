package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// AppMetrics exposes counters/histograms for journeys and backend calls.
type AppMetrics struct {
	journeysStarted   *prometheus.CounterVec
	journeysCompleted *prometheus.CounterVec
	backendLatency    *prometheus.HistogramVec
	trackingEvents    *prometheus.CounterVec
}

func NewAppMetrics(reg prometheus.Registerer) *AppMetrics {
	m := &AppMetrics{
		journeysStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "activities_ui",
			Subsystem: "journey",
			Name:      "started_total",
			Help:      "Multi-step journeys started",
		}, []string{"journey"}),
		journeysCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "activities_ui",
			Subsystem: "journey",
			Name:      "completed_total",
			Help:      "Multi-step journeys completed",
		}, []string{"journey"}),
		backendLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "activities_ui",
			Subsystem: "backend",
			Name:      "request_duration_seconds",
			Help:      "Latency of calls to the downstream APIs",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint", "method", "status"}),
		trackingEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "activities_ui",
			Subsystem: "tracking",
			Name:      "events_total",
			Help:      "Tracking events emitted",
		}, []string{"event", "outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.journeysStarted, m.journeysCompleted, m.backendLatency, m.trackingEvents)
	return m
}

func (m *AppMetrics) JourneyStarted(journey string) {
	if m == nil {
		return
	}
	m.journeysStarted.WithLabelValues(journey).Inc()
}

func (m *AppMetrics) JourneyCompleted(journey string) {
	if m == nil {
		return
	}
	m.journeysCompleted.WithLabelValues(journey).Inc()
}

// ObserveBackendCall records one downstream request. status is 0 when no
// response came back.
func (m *AppMetrics) ObserveBackendCall(endpoint, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.backendLatency.WithLabelValues(endpoint, method, label).Observe(d.Seconds())
}

func (m *AppMetrics) ObserveTrackingEvent(event string, err error) {
	if m == nil {
		return
	}
	outcome := "sent"
	if err != nil {
		outcome = "failed"
	}
	m.trackingEvents.WithLabelValues(event, outcome).Inc()
}
