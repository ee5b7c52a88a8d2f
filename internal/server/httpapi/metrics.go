package httpapi

import (
	"errors"

	"github.com/dmitrijs2005/talentbridge/internal/common"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts identity events by outcome.
type Metrics struct {
	events *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "talentbridge_auth_events_total",
			Help: "Identity operations by event and outcome.",
		}, []string{"event", "outcome"}),
	}
	if reg != nil {
		reg.MustRegister(m.events)
	}
	return m
}

// Observe records event with an outcome derived from err.
func (m *Metrics) Observe(event string, err error) {
	m.events.WithLabelValues(event, outcome(err)).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, common.ErrValidation):
		return "invalid"
	case errors.Is(err, common.ErrConflict):
		return "conflict"
	case errors.Is(err, common.ErrOTP):
		return "rejected"
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		return "unauthorized"
	case errors.Is(err, common.ErrForbidden):
		return "forbidden"
	default:
		return "error"
	}
}
