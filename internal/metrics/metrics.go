package metrics

import "github.com/prometheus/client_golang/prometheus"

// RelayMetrics exposes counters for deliveries, callbacks, backend calls and poller runs.
type RelayMetrics struct {
	notifications *prometheus.CounterVec
	callbacks     *prometheus.CounterVec
	backend       *prometheus.CounterVec
	pollerRuns    *prometheus.CounterVec
}

func NewRelayMetrics(reg prometheus.Registerer) *RelayMetrics {
	m := &RelayMetrics{
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "relay",
			Name:      "notifications_total",
			Help:      "Chat messages sent, by kind and outcome",
		}, []string{"kind", "status"}),
		callbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "relay",
			Name:      "callbacks_total",
			Help:      "Inline button presses handled, by action and outcome",
		}, []string{"action", "outcome"}),
		backend: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "relay",
			Name:      "backend_requests_total",
			Help:      "Requests made to the website backend",
		}, []string{"endpoint", "status"}),
		pollerRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "relay",
			Name:      "poller_iterations_total",
			Help:      "Reminder poller iterations by outcome",
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.notifications, m.callbacks, m.backend, m.pollerRuns)
	return m
}

func (m *RelayMetrics) ObserveNotification(kind string, err error) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(kind, status(err)).Inc()
}

func (m *RelayMetrics) ObserveCallback(action, outcome string) {
	if m == nil {
		return
	}
	m.callbacks.WithLabelValues(action, outcome).Inc()
}

func (m *RelayMetrics) ObserveBackend(endpoint string, err error) {
	if m == nil {
		return
	}
	m.backend.WithLabelValues(endpoint, status(err)).Inc()
}

func (m *RelayMetrics) ObservePollerRun(outcome string) {
	if m == nil {
		return
	}
	m.pollerRuns.WithLabelValues(outcome).Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
