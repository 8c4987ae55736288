package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(inboundSMSTotal, formSubmissionsTotal, rateLimitedTotal, leadNotificationsTotal) }

var (
	inboundSMSTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inbound_sms_total",
			Help: "Inbound SMS webhook calls by classified intent.",
		},
		[]string{"intent"}, // opt_out|interest|none|invalid_phone
	)

	formSubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "form_submissions_total",
			Help: "Public contact form submissions by result.",
		},
		[]string{"result"}, // ok|invalid|unavailable|error
	)

	rateLimitedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limited_total",
			Help: "Requests rejected by the rate limiter, by scope.",
		},
		[]string{"scope"},
	)

	leadNotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_notifications_total",
			Help: "Staff notifications for new warm leads, by status.",
		},
		[]string{"status"}, // sent|error
	)
)

func IncInboundSMS(intent string) {
	inboundSMSTotal.WithLabelValues(norm(intent)).Inc()
}

func IncFormSubmission(result string) {
	formSubmissionsTotal.WithLabelValues(norm(result)).Inc()
}

func IncRateLimited(scope string) {
	rateLimitedTotal.WithLabelValues(norm(scope)).Inc()
}

func IncLeadNotification(status string) {
	leadNotificationsTotal.WithLabelValues(norm(status)).Inc()
}
