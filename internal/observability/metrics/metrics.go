package metrics

import "github.com/prometheus/client_golang/prometheus"

// ChatMetrics exposes counters for the chat pipeline.
type ChatMetrics struct {
	turnsTotal    *prometheus.CounterVec
	turnLatency   prometheus.Histogram
	prohibitedHit prometheus.Counter
}

func NewChatMetrics(reg prometheus.Registerer) *ChatMetrics {
	m := &ChatMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "webvantage",
			Subsystem: "chat",
			Name:      "turns_total",
			Help:      "Total chat turns processed",
		}, []string{"category", "stage"}),
		turnLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "webvantage",
			Subsystem: "chat",
			Name:      "turn_latency_seconds",
			Help:      "Latency of chat turn processing",
			Buckets:   prometheus.DefBuckets,
		}),
		prohibitedHit: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "webvantage",
			Subsystem: "chat",
			Name:      "prohibited_total",
			Help:      "Messages classified into the prohibited category",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.turnLatency, m.prohibitedHit)
	return m
}

func (m *ChatMetrics) ObserveTurn(category, stage string, seconds float64) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(category, stage).Inc()
	m.turnLatency.Observe(seconds)
}

func (m *ChatMetrics) ObserveProhibited() {
	if m == nil {
		return
	}
	m.prohibitedHit.Inc()
}

// AppointmentMetrics exposes counters for the booking pipeline.
type AppointmentMetrics struct {
	createdTotal  prometheus.Counter
	rejectedTotal *prometheus.CounterVec
	notifyTotal   *prometheus.CounterVec
}

func NewAppointmentMetrics(reg prometheus.Registerer) *AppointmentMetrics {
	m := &AppointmentMetrics{
		createdTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "webvantage",
			Subsystem: "appointments",
			Name:      "created_total",
			Help:      "Appointments successfully created",
		}),
		rejectedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "webvantage",
			Subsystem: "appointments",
			Name:      "rejected_total",
			Help:      "Appointment requests rejected before persistence",
		}, []string{"reason"}),
		notifyTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "webvantage",
			Subsystem: "appointments",
			Name:      "notifications_total",
			Help:      "Notification emails attempted per outcome",
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.createdTotal, m.rejectedTotal, m.notifyTotal)
	return m
}

func (m *AppointmentMetrics) ObserveCreated() {
	if m == nil {
		return
	}
	m.createdTotal.Inc()
}

func (m *AppointmentMetrics) ObserveRejected(reason string) {
	if m == nil {
		return
	}
	m.rejectedTotal.WithLabelValues(reason).Inc()
}

func (m *AppointmentMetrics) ObserveNotification(status string) {
	if m == nil {
		return
	}
	m.notifyTotal.WithLabelValues(status).Inc()
}
