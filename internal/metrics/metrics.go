package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Signup outcomes.
const (
	OutcomeCreated            = "created"
	OutcomeInvalid            = "invalid"
	OutcomeVerificationFailed = "verification_failed"
	OutcomeDuplicate          = "duplicate"
	OutcomeError              = "error"
)

// Notification kinds and results.
const (
	NotificationAdmin   = "admin"
	NotificationWelcome = "welcome"

	ResultSent     = "sent"
	ResultSkipped  = "skipped"
	ResultFailed   = "failed"
	ResultEnqueued = "enqueued"
)

// Metrics holds the Prometheus collectors of the signup flow.
type Metrics struct {
	SignupRequests *prometheus.CounterVec
	Notifications  *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		SignupRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "signup_requests_total",
			Help: "Signup requests by outcome",
		}, []string{"outcome"}),
		Notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "signup_notifications_total",
			Help: "Notification emails by kind and result",
		}, []string{"kind", "result"}),
	}
}

// NewNop returns collectors that are not registered anywhere.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}

func (m *Metrics) ObserveSignup(outcome string) {
	if m == nil {
		return
	}
	m.SignupRequests.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveNotification(kind string, result string) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(kind, result).Inc()
}
