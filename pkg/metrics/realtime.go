package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// RealtimeMetrics records websocket presence and notification delivery counts.
type RealtimeMetrics struct {
	connections prometheus.Gauge
	delivered   *prometheus.CounterVec
	failed      prometheus.Counter
}

// NewRealtimeMetrics registers the realtime metrics on the provided registerer.
func NewRealtimeMetrics(reg prometheus.Registerer) *RealtimeMetrics {
	if reg == nil {
		return &RealtimeMetrics{}
	}
	connections := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ws_connections",
		Help: "Currently open websocket connections.",
	})
	delivered := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ws_frames_delivered",
		Help: "Notification frames delivered to sockets.",
	}, []string{"event"})
	failed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ws_frames_failed",
		Help: "Notification frames that failed to deliver.",
	})
	reg.MustRegister(connections, delivered, failed)
	return &RealtimeMetrics{
		connections: connections,
		delivered:   delivered,
		failed:      failed,
	}
}

// ConnOpened increments the live connection gauge.
func (m *RealtimeMetrics) ConnOpened() {
	if m == nil || m.connections == nil {
		return
	}
	m.connections.Inc()
}

// ConnClosed decrements the live connection gauge.
func (m *RealtimeMetrics) ConnClosed() {
	if m == nil || m.connections == nil {
		return
	}
	m.connections.Dec()
}

// FrameDelivered counts a delivered frame for the named event.
func (m *RealtimeMetrics) FrameDelivered(event string) {
	if m == nil || m.delivered == nil {
		return
	}
	if event == "" {
		event = "unknown"
	}
	m.delivered.WithLabelValues(event).Inc()
}

// FrameFailed counts a frame that could not be written to its socket.
func (m *RealtimeMetrics) FrameFailed() {
	if m == nil || m.failed == nil {
		return
	}
	m.failed.Inc()
}
