package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the reconciliation engine and
// the notification dispatcher. All methods are safe on a nil receiver so
// tests can omit metrics.
type Metrics struct {
	MembersRegistered      prometheus.Counter
	CustodyTransitions     *prometheus.CounterVec
	ConfirmationsIssued    *prometheus.CounterVec
	ConfirmationAnswers    *prometheus.CounterVec
	DailyResets            prometheus.Counter
	NotificationsDelivered prometheus.Counter
	NotificationsDropped   *prometheus.CounterVec
	DeliveryRetries        prometheus.Counter
	BroadcastDuration      prometheus.Histogram
	RequestDuration        *prometheus.HistogramVec
}

// New creates and registers all collectors on reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		MembersRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "keywatch_members_registered_total",
			Help: "Total number of members registered",
		}),
		CustodyTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "keywatch_custody_transitions_total",
			Help: "Observed key custody changes",
		}, []string{"key", "from", "to"}),
		ConfirmationsIssued: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "keywatch_confirmations_issued_total",
			Help: "Return confirmations issued per key",
		}, []string{"key"}),
		ConfirmationAnswers: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "keywatch_confirmation_answers_total",
			Help: "Confirmation answers by outcome",
		}, []string{"key", "outcome"}),
		DailyResets: factory.NewCounter(prometheus.CounterOpts{
			Name: "keywatch_daily_resets_total",
			Help: "Number of daily resets applied",
		}),
		NotificationsDelivered: factory.NewCounter(prometheus.CounterOpts{
			Name: "keywatch_notifications_delivered_total",
			Help: "Per-recipient notification deliveries that succeeded",
		}),
		NotificationsDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "keywatch_notifications_dropped_total",
			Help: "Per-recipient notification deliveries abandoned",
		}, []string{"reason"}),
		DeliveryRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "keywatch_notification_retries_total",
			Help: "Delivery attempts retried after a transient failure",
		}),
		BroadcastDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "keywatch_broadcast_duration_seconds",
			Help:    "Duration of a full broadcast fan-out including retries",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 15, 30},
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "keywatch_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}
}

func (m *Metrics) IncrementMembersRegistered() {
	if m == nil {
		return
	}
	m.MembersRegistered.Inc()
}

func (m *Metrics) IncrementCustodyTransition(key, from, to string) {
	if m == nil {
		return
	}
	m.CustodyTransitions.WithLabelValues(key, from, to).Inc()
}

func (m *Metrics) IncrementConfirmationsIssued(key string) {
	if m == nil {
		return
	}
	m.ConfirmationsIssued.WithLabelValues(key).Inc()
}

func (m *Metrics) IncrementConfirmationAnswers(key, outcome string) {
	if m == nil {
		return
	}
	m.ConfirmationAnswers.WithLabelValues(key, outcome).Inc()
}

func (m *Metrics) IncrementDailyResets() {
	if m == nil {
		return
	}
	m.DailyResets.Inc()
}

func (m *Metrics) IncrementDelivered() {
	if m == nil {
		return
	}
	m.NotificationsDelivered.Inc()
}

// IncrementDropped records an abandoned delivery; reason is "permanent",
// "exhausted" or "canceled".
func (m *Metrics) IncrementDropped(reason string) {
	if m == nil {
		return
	}
	m.NotificationsDropped.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncrementRetries() {
	if m == nil {
		return
	}
	m.DeliveryRetries.Inc()
}

// ObserveBroadcast records a broadcast duration.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveBroadcast(start time.Time) {
	if m == nil {
		return
	}
	m.BroadcastDuration.Observe(time.Since(start).Seconds())
}

// ObserveRequest records the latency of one HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int, start time.Time) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(route, method, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
}
