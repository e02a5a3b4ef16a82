// Package metrics exposes gameplay counters to Prometheus. Collectors live on
// their own registry so tests can build independent instances.
package metrics

import (
	"net/http"
	"speeddots/internal/events"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	Registry *prometheus.Registry

	DotsSpawned      prometheus.Counter
	DotsTapped       prometheus.Counter
	DotsMissed       prometheus.Counter
	LevelUps         prometheus.Counter
	SessionsStarted  prometheus.Counter
	SessionsEnded    *prometheus.CounterVec
	ReactionSeconds  prometheus.Histogram
	Score            prometheus.Gauge
	Level            prometheus.Gauge
	ConnectedClients prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		DotsSpawned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "speeddots",
			Name:      "dots_spawned_total",
			Help:      "Dots spawned across all sessions.",
		}),
		DotsTapped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "speeddots",
			Name:      "dots_tapped_total",
			Help:      "Dots tapped before expiry.",
		}),
		DotsMissed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "speeddots",
			Name:      "dots_missed_total",
			Help:      "Dots that expired untapped.",
		}),
		LevelUps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "speeddots",
			Name:      "level_ups_total",
			Help:      "Level increases.",
		}),
		SessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "speeddots",
			Name:      "sessions_started_total",
			Help:      "Sessions started.",
		}),
		SessionsEnded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "speeddots",
			Name:      "sessions_ended_total",
			Help:      "Sessions ended, by whether the clock ran out.",
		}, []string{"completed"}),
		ReactionSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "speeddots",
			Name:      "reaction_seconds",
			Help:      "Time from spawn to tap.",
			Buckets:   []float64{0.2, 0.3, 0.4, 0.5, 0.75, 1, 1.5, 2},
		}),
		Score: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "speeddots",
			Name:      "score",
			Help:      "Score of the current session.",
		}),
		Level: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "speeddots",
			Name:      "level",
			Help:      "Level of the current session.",
		}),
		ConnectedClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "speeddots",
			Name:      "connected_clients",
			Help:      "Open websocket renderers.",
		}),
	}
	m.Registry.MustRegister(
		m.DotsSpawned,
		m.DotsTapped,
		m.DotsMissed,
		m.LevelUps,
		m.SessionsStarted,
		m.SessionsEnded,
		m.ReactionSeconds,
		m.Score,
		m.Level,
		m.ConnectedClients,
	)
	return m
}

// Observe updates collectors from a gameplay event.
func (m *Metrics) Observe(ev events.Event) {
	switch ev.Kind {
	case events.SessionStarted:
		m.SessionsStarted.Inc()
	case events.SessionEnded:
		if ev.Completed {
			m.SessionsEnded.WithLabelValues("true").Inc()
		} else {
			m.SessionsEnded.WithLabelValues("false").Inc()
		}
	case events.DotSpawned:
		m.DotsSpawned.Inc()
	case events.DotTapped:
		m.DotsTapped.Inc()
		m.ReactionSeconds.Observe(ev.Reaction.Seconds())
	case events.DotMissed:
		m.DotsMissed.Inc()
	case events.LevelUp:
		m.LevelUps.Inc()
	}
	m.Score.Set(float64(ev.Score))
	if ev.Level > 0 {
		m.Level.Set(float64(ev.Level))
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
