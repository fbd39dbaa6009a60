package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gympro_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gympro_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	SessionsBookedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gympro_sessions_booked_total",
			Help: "Total number of training sessions booked",
		},
		[]string{"result"},
	)

	SessionCancellationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gympro_session_cancellations_total",
			Help: "Total number of session cancellations",
		},
	)

	CheckInsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gympro_check_ins_total",
			Help: "Total number of attendance check-ins",
		},
		[]string{"method", "result"},
	)

	PaymentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gympro_payments_total",
			Help: "Total number of payments recorded",
		},
		[]string{"type", "status"},
	)

	MembershipsPurchasedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gympro_memberships_purchased_total",
			Help: "Total number of membership purchases",
		},
	)

	OrdersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gympro_supplement_orders_total",
			Help: "Total number of supplement orders",
		},
		[]string{"result"},
	)

	SweepRowsAffected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gympro_sweep_rows_affected_total",
			Help: "Rows transitioned by scheduled sweeps",
		},
		[]string{"job"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gympro_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gympro_email_queue_length",
			Help: "Current length of email queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordSessionBooked(result string) {
	SessionsBookedTotal.WithLabelValues(result).Inc()
}

func RecordSessionCancellation() {
	SessionCancellationsTotal.Inc()
}

func RecordCheckIn(method, result string) {
	CheckInsTotal.WithLabelValues(method, result).Inc()
}

func RecordPayment(paymentType, status string) {
	PaymentsTotal.WithLabelValues(paymentType, status).Inc()
}

func RecordMembershipPurchase() {
	MembershipsPurchasedTotal.Inc()
}

func RecordOrder(result string) {
	OrdersTotal.WithLabelValues(result).Inc()
}

func RecordSweep(job string, rows int64) {
	SweepRowsAffected.WithLabelValues(job).Add(float64(rows))
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}
