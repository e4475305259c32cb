package metrics

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"ipinsight/internal/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	RequestsTotal     *prometheus.CounterVec
	InvalidInputs     prometheus.Counter
	LookupCacheHits   prometheus.Counter
	LookupCacheMisses prometheus.Counter
	RecordCacheHits   prometheus.Counter
	RecordCacheMisses prometheus.Counter
	UpstreamLookups   prometheus.Counter
	UpstreamErrors    prometheus.Counter

	requestsCount      atomic.Uint64
	invalidCount       atomic.Uint64
	lookupHitCount     atomic.Uint64
	lookupMissCount    atomic.Uint64
	recordHitCount     atomic.Uint64
	recordMissCount    atomic.Uint64
	upstreamCount      atomic.Uint64
	upstreamErrCount   atomic.Uint64
	mu                 sync.Mutex
	requestsByEndpoint map[string]uint64
}

func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ipinsight_requests_total",
			Help: "Requests served, by endpoint",
		}, []string{"endpoint"}),
		InvalidInputs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ipinsight_invalid_inputs_total",
			Help: "Requests rejected for malformed IP input",
		}),
		LookupCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ipinsight_lookup_cache_hits_total",
			Help: "External lookup cache hits",
		}),
		LookupCacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ipinsight_lookup_cache_misses_total",
			Help: "External lookup cache misses",
		}),
		RecordCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ipinsight_record_cache_hits_total",
			Help: "Unified record cache hits",
		}),
		RecordCacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ipinsight_record_cache_misses_total",
			Help: "Unified record cache misses",
		}),
		UpstreamLookups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ipinsight_upstream_lookups_total",
			Help: "Outbound intelligence lookups issued",
		}),
		UpstreamErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ipinsight_upstream_errors_total",
			Help: "Outbound intelligence lookups that failed",
		}),
		requestsByEndpoint: map[string]uint64{},
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.RequestsTotal,
		m.InvalidInputs,
		m.LookupCacheHits,
		m.LookupCacheMisses,
		m.RecordCacheHits,
		m.RecordCacheMisses,
		m.UpstreamLookups,
		m.UpstreamErrors,
	)
	return m
}

func (m *Metrics) IncRequest(endpoint string) {
	if endpoint == "" {
		endpoint = "unknown"
	}
	m.requestsCount.Add(1)
	m.RequestsTotal.WithLabelValues(endpoint).Inc()
	m.mu.Lock()
	m.requestsByEndpoint[endpoint]++
	m.mu.Unlock()
}

func (m *Metrics) IncInvalidInput() {
	m.invalidCount.Add(1)
	m.InvalidInputs.Inc()
}

func (m *Metrics) IncLookupCacheHit() {
	m.lookupHitCount.Add(1)
	m.LookupCacheHits.Inc()
}

func (m *Metrics) IncLookupCacheMiss() {
	m.lookupMissCount.Add(1)
	m.LookupCacheMisses.Inc()
}

func (m *Metrics) IncRecordCacheHit() {
	m.recordHitCount.Add(1)
	m.RecordCacheHits.Inc()
}

func (m *Metrics) IncRecordCacheMiss() {
	m.recordMissCount.Add(1)
	m.RecordCacheMisses.Inc()
}

func (m *Metrics) IncUpstreamLookup() {
	m.upstreamCount.Add(1)
	m.UpstreamLookups.Inc()
}

func (m *Metrics) IncUpstreamError() {
	m.upstreamErrCount.Add(1)
	m.UpstreamErrors.Inc()
}

type Snapshot struct {
	Requests           uint64            `json:"requests"`
	RequestsByEndpoint map[string]uint64 `json:"requests_by_endpoint"`
	InvalidInputs      uint64            `json:"invalid_inputs"`
	LookupCacheHits    uint64            `json:"lookup_cache_hits"`
	LookupCacheMisses  uint64            `json:"lookup_cache_misses"`
	RecordCacheHits    uint64            `json:"record_cache_hits"`
	RecordCacheMisses  uint64            `json:"record_cache_misses"`
	UpstreamLookups    uint64            `json:"upstream_lookups"`
	UpstreamErrors     uint64            `json:"upstream_errors"`
}

func (m *Metrics) Snapshot() Snapshot {
	m.mu.Lock()
	byEndpoint := make(map[string]uint64, len(m.requestsByEndpoint))
	for k, v := range m.requestsByEndpoint {
		byEndpoint[k] = v
	}
	m.mu.Unlock()
	return Snapshot{
		Requests:           m.requestsCount.Load(),
		RequestsByEndpoint: byEndpoint,
		InvalidInputs:      m.invalidCount.Load(),
		LookupCacheHits:    m.lookupHitCount.Load(),
		LookupCacheMisses:  m.lookupMissCount.Load(),
		RecordCacheHits:    m.recordHitCount.Load(),
		RecordCacheMisses:  m.recordMissCount.Load(),
		UpstreamLookups:    m.upstreamCount.Load(),
		UpstreamErrors:     m.upstreamErrCount.Load(),
	}
}

func StartServer(ctx context.Context, cfg config.MetricsConfig) error {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.Handler())

	srv := &http.Server{
		Addr:    cfg.Address,
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}
