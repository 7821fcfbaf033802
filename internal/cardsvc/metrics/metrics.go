package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the card service
type Metrics struct {
	Registrations *prometheus.CounterVec
	Lookups       *prometheus.CounterVec
	ListRequests  *prometheus.CounterVec
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Registrations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cardbot_registrations_total",
			Help: "Card register-or-update commands by outcome",
		}, []string{"outcome"}),
		Lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cardbot_lookups_total",
			Help: "Own-card lookups by outcome",
		}, []string{"outcome"}),
		ListRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cardbot_list_requests_total",
			Help: "Requests to the card list endpoint by outcome",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) IncRegistration(outcome string) {
	if m == nil {
		return
	}
	m.Registrations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncLookup(outcome string) {
	if m == nil {
		return
	}
	m.Lookups.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncListRequest(outcome string) {
	if m == nil {
		return
	}
	m.ListRequests.WithLabelValues(outcome).Inc()
}
