package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	RankingDuration   *prometheus.HistogramVec
	RankedCandidates  prometheus.Histogram
	CandidateFailures *prometheus.CounterVec
	CacheLookups      *prometheus.CounterVec
	EventsPublished   *prometheus.CounterVec
	HTTPRequests      *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New registers the collectors on reg. A nil reg uses a fresh registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)

	return &Metrics{
		RankingDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "talent_match_ranking_duration_seconds",
				Help:    "Time spent ranking a candidate pool",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		RankedCandidates: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "talent_match_ranked_candidates",
				Help:    "Candidate pool size per ranking",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
		),
		CandidateFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "talent_match_candidate_failures_total",
				Help: "Candidates dropped from a ranking",
			},
			[]string{"reason"},
		),
		CacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "talent_match_ranking_cache_lookups_total",
				Help: "Ranking cache lookups",
			},
			[]string{"result"},
		),
		EventsPublished: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "talent_match_events_published_total",
				Help: "Domain events handed to the broker",
			},
			[]string{"type", "status"},
		),
		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "talent_match_http_requests_total",
				Help: "HTTP requests by route and status class",
			},
			[]string{"method", "route", "status"},
		),
		gatherer: reg,
	}
}

func (m *Metrics) Handler() http.Handler {
	if m == nil || m.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveRanking(outcome string, took time.Duration, pool int) {
	if m == nil {
		return
	}
	m.RankingDuration.WithLabelValues(outcome).Observe(took.Seconds())
	if pool > 0 {
		m.RankedCandidates.Observe(float64(pool))
	}
}

func (m *Metrics) CandidateFailed(reason string) {
	if m == nil {
		return
	}
	m.CandidateFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) EventPublished(eventType string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.EventsPublished.WithLabelValues(eventType, status).Inc()
}

func (m *Metrics) HTTPRequest(method, route string, status int) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status/100)+"xx").Inc()
}
