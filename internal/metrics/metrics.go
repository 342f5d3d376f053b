package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gym_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gym_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	PaymentsInitiatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gym_payments_initiated_total",
			Help: "Total number of payment initiation attempts",
		},
		[]string{"status"},
	)

	PaymentReconciliationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gym_payment_reconciliations_total",
			Help: "Total number of payment callback reconciliations",
		},
		[]string{"outcome"},
	)

	GatewayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gym_gateway_requests_total",
			Help: "Total number of outbound payment gateway calls",
		},
		[]string{"operation", "status"},
	)

	MembershipsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gym_memberships_created_total",
			Help: "Total number of memberships created",
		},
		[]string{"status"},
	)

	MembershipRenewalsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gym_membership_renewals_total",
			Help: "Total number of membership renewals",
		},
	)

	MembershipCancellationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gym_membership_cancellations_total",
			Help: "Total number of membership cancellations",
		},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gym_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gym_email_queue_length",
			Help: "Current length of email queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordPaymentInitiation(status string) {
	PaymentsInitiatedTotal.WithLabelValues(status).Inc()
}

func RecordReconciliation(outcome string) {
	PaymentReconciliationsTotal.WithLabelValues(outcome).Inc()
}

func RecordGatewayRequest(operation, status string) {
	GatewayRequestsTotal.WithLabelValues(operation, status).Inc()
}

func RecordMembership(status string) {
	MembershipsCreatedTotal.WithLabelValues(status).Inc()
}

func RecordMembershipRenewal() {
	MembershipRenewalsTotal.Inc()
}

func RecordMembershipCancellation() {
	MembershipCancellationsTotal.Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}
