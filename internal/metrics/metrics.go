package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "rps"

// Metrics счетчики игры. Регистрируются в переданном реестре,
// в main это prometheus.DefaultRegisterer, в тестах отдельный реестр.
type Metrics struct {
	SessionsCreated  prometheus.Counter
	SessionsResolved *prometheus.CounterVec
	SessionsEvicted  prometheus.Counter
	Errors           *prometheus.CounterVec
	RateLimited      prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_created_total",
			Help:      "Challenges created.",
		}),
		SessionsResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_resolved_total",
			Help:      "Challenges resolved, by outcome (win|tie).",
		}, []string{"outcome"}),
		SessionsEvicted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_evicted_total",
			Help:      "Challenges dropped by TTL.",
		}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Game errors by kind.",
		}, []string{"kind"}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Actions rejected by the rate limiter.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.SessionsCreated, m.SessionsResolved, m.SessionsEvicted, m.Errors, m.RateLimited)
	}
	return m
}

// RegisterActiveSessions добавляет gauge с числом ожидающих партий
func RegisterActiveSessions(reg prometheus.Registerer, count func() int) {
	if reg == nil {
		return
	}
	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions_active",
		Help:      "Challenges waiting for a second player.",
	}, func() float64 {
		return float64(count())
	}))
}
