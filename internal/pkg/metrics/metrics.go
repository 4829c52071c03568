package metrics

import (
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Исходы обращения к удалённому API
const (
	OutcomeSuccess     = "success"
	OutcomeUnavailable = "network_unavailable"
	OutcomeTimeout     = "network_timeout"
	OutcomeServerError = "server_error"
	OutcomeParseError  = "parse_error"
	OutcomeOther       = "other"
)

// StationCacheMetrics - счётчики координатора кеша станций.
// Атомарные поля доступны всегда, prometheus счётчики появляются после Register.
type StationCacheMetrics struct {
	Hits       atomic.Uint64
	Misses     atomic.Uint64
	StaleServe atomic.Uint64
	Coalesced  atomic.Uint64

	hitsCounter      prometheus.Counter
	missesCounter    prometheus.Counter
	staleCounter     prometheus.Counter
	coalescedCounter prometheus.Counter
	fetchCounter     *prometheus.CounterVec

	registerOnce sync.Once
}

// NewStationCacheMetrics создает метрики; при registry == nil работают только атомарные счётчики
func NewStationCacheMetrics(registry prometheus.Registerer) *StationCacheMetrics {
	m := &StationCacheMetrics{}
	m.Register(registry)
	return m
}

// Register регистрирует prometheus метрики. Повторные вызовы ничего не делают.
func (m *StationCacheMetrics) Register(registry prometheus.Registerer) {
	if registry == nil {
		return
	}

	m.registerOnce.Do(func() {
		factory := promauto.With(registry)

		m.hitsCounter = factory.NewCounter(prometheus.CounterOpts{
			Name: "rivr_station_cache_hits_total",
			Help: "Total number of station payloads served from the local store",
		})
		m.missesCounter = factory.NewCounter(prometheus.CounterOpts{
			Name: "rivr_station_cache_misses_total",
			Help: "Total number of station lookups that required the remote API",
		})
		m.staleCounter = factory.NewCounter(prometheus.CounterOpts{
			Name: "rivr_station_cache_stale_served_total",
			Help: "Total number of expired payloads served because the remote API failed",
		})
		m.coalescedCounter = factory.NewCounter(prometheus.CounterOpts{
			Name: "rivr_station_cache_coalesced_total",
			Help: "Total number of requests that shared an in-flight remote fetch",
		})
		m.fetchCounter = factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rivr_river_api_fetches_total",
			Help: "Total number of remote station fetches by outcome",
		}, []string{"outcome"})
	})
}

func (m *StationCacheMetrics) IncHit() {
	m.Hits.Add(1)
	if m.hitsCounter != nil {
		m.hitsCounter.Inc()
	}
}

func (m *StationCacheMetrics) IncMiss() {
	m.Misses.Add(1)
	if m.missesCounter != nil {
		m.missesCounter.Inc()
	}
}

func (m *StationCacheMetrics) IncStaleServe() {
	m.StaleServe.Add(1)
	if m.staleCounter != nil {
		m.staleCounter.Inc()
	}
}

func (m *StationCacheMetrics) IncCoalesced() {
	m.Coalesced.Add(1)
	if m.coalescedCounter != nil {
		m.coalescedCounter.Inc()
	}
}

// ObserveFetch учитывает исход обращения к удалённому API
func (m *StationCacheMetrics) ObserveFetch(outcome string) {
	if m.fetchCounter != nil {
		m.fetchCounter.WithLabelValues(outcome).Inc()
	}
}
