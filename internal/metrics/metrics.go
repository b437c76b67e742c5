package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studiodesk_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "studiodesk_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// BookingAttemptsTotal counts book calls by outcome: "confirmed" or the
	// rejecting error kind.
	BookingAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studiodesk_booking_attempts_total",
			Help: "Total number of booking attempts by outcome",
		},
		[]string{"outcome"},
	)

	CancellationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studiodesk_cancellations_total",
			Help: "Total number of reservation cancellations",
		},
		[]string{"refunded"},
	)

	SubscriptionsActivatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studiodesk_subscriptions_activated_total",
			Help: "Total number of subscriptions activated",
		},
		[]string{"pack", "channel"},
	)

	SubscriptionsExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "studiodesk_subscriptions_expired_total",
			Help: "Subscriptions moved to EXPIRED by the sweep",
		},
	)

	PaymentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studiodesk_payments_total",
			Help: "Total number of subscription payments recorded",
		},
		[]string{"method"},
	)

	PaymentsAmount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studiodesk_payments_amount_total",
			Help: "Sum of subscription payments recorded",
		},
		[]string{"method"},
	)

	TreasuryTransactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studiodesk_treasury_transactions_total",
			Help: "Total number of treasury entries",
		},
		[]string{"type", "method"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studiodesk_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "studiodesk_email_queue_length",
			Help: "Current length of email queue",
		},
	)

	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studiodesk_events_published_total",
			Help: "Domain events handed to the broker",
		},
		[]string{"type", "status"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBookingAttempt(outcome string) {
	BookingAttemptsTotal.WithLabelValues(outcome).Inc()
}

func RecordCancellation(refunded bool) {
	label := "false"
	if refunded {
		label = "true"
	}
	CancellationsTotal.WithLabelValues(label).Inc()
}

func RecordSubscriptionActivated(pack, channel string) {
	SubscriptionsActivatedTotal.WithLabelValues(pack, channel).Inc()
}

func RecordSubscriptionsExpired(n int64) {
	SubscriptionsExpiredTotal.Add(float64(n))
}

func RecordPayment(method string, amount float64) {
	PaymentsTotal.WithLabelValues(method).Inc()
	PaymentsAmount.WithLabelValues(method).Add(amount)
}

func RecordTreasury(txType, method string) {
	TreasuryTransactionsTotal.WithLabelValues(txType, method).Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}

func RecordEvent(eventType string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	EventsPublishedTotal.WithLabelValues(eventType, status).Inc()
}
