package syncer

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	custom_errors "github-portfolio/internal/errors"
)

// Metrics counts cache hits and refreshes. A nil *Metrics records nothing.
type Metrics struct {
	cacheHits     prometheus.Counter
	refreshes     *prometheus.CounterVec
	fetchDuration prometheus.Histogram
}

// NewMetrics creates the sync metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portfolio_snapshot_cache_hits_total",
			Help: "Snapshots served from the cache without contacting GitHub",
		}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_snapshot_refreshes_total",
			Help: "Snapshot refreshes by trigger and result",
		}, []string{"trigger", "result"}),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "portfolio_github_fetch_duration_seconds",
			Help:    "Wall time of the concurrent GitHub fetches for one refresh",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.cacheHits, m.refreshes, m.fetchDuration)
	return m
}

func (m *Metrics) cacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

func (m *Metrics) refreshed(forced bool, err error) {
	if m == nil {
		return
	}
	trigger := "expired"
	if forced {
		trigger = "forced"
	}
	m.refreshes.WithLabelValues(trigger, resultLabel(err)).Inc()
}

func (m *Metrics) observeFetch(d time.Duration) {
	if m == nil {
		return
	}
	m.fetchDuration.Observe(d.Seconds())
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, custom_errors.ErrNotFound):
		return "not_found"
	case errors.Is(err, custom_errors.ErrAuthFailure):
		return "auth_failure"
	case errors.Is(err, custom_errors.ErrRemote):
		return "remote_error"
	default:
		return "error"
	}
}
