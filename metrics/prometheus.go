package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/krisalay/yuv-frame-cache/types"
)

// Sizer is the read-only view of a cache the gauges sample.
type Sizer interface {
	Cost() int64
	Len() int
	Capacity() int64
}

// Prometheus records cache activity in its own registry.
type Prometheus struct {
	registry  *prometheus.Registry
	namespace string

	// Counters
	hits          prometheus.Counter
	misses        prometheus.Counter
	evictions     prometheus.Counter
	rejects       prometheus.Counter
	invalidations prometheus.Counter
	invalidated   prometheus.Counter
}

var _ types.Metrics = (*Prometheus)(nil)

// NewPrometheus builds the collectors under namespace and registers the
// default Go and process collectors next to them.
func NewPrometheus(namespace string) *Prometheus {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	counter := func(name, help string) prometheus.Counter {
		c := prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "frame_cache",
			Name:      name,
			Help:      help,
		})
		registry.MustRegister(c)
		return c
	}

	return &Prometheus{
		registry:      registry,
		namespace:     namespace,
		hits:          counter("hits_total", "Lookups that found a cached frame"),
		misses:        counter("misses_total", "Lookups that had to decode"),
		evictions:     counter("evictions_total", "Frames evicted to make room"),
		rejects:       counter("rejects_total", "Frames too large to be retained"),
		invalidations: counter("invalidations_total", "Clear or source invalidation calls"),
		invalidated:   counter("invalidated_frames_total", "Frames dropped by invalidation"),
	}
}

func (p *Prometheus) Hit()      { p.hits.Inc() }
func (p *Prometheus) Miss()     { p.misses.Inc() }
func (p *Prometheus) Eviction() { p.evictions.Inc() }
func (p *Prometheus) Reject()   { p.rejects.Inc() }

func (p *Prometheus) Invalidate(removed int) {
	p.invalidations.Inc()
	p.invalidated.Add(float64(removed))
}

// Observe exports the retained cost, capacity and entry count of c as gauges.
// It must be called at most once per Prometheus.
func (p *Prometheus) Observe(c Sizer) {
	gauge := func(name, help string, fn func() float64) {
		p.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "frame_cache",
			Name:      name,
			Help:      help,
		}, fn))
	}

	gauge("cost_megabytes", "Retained cost of cached frames in MB",
		func() float64 { return float64(c.Cost()) })
	gauge("capacity_megabytes", "Configured cache budget in MB",
		func() float64 { return float64(c.Capacity()) })
	gauge("entries", "Number of cached frames",
		func() float64 { return float64(c.Len()) })
}

// Handler serves the registry in the Prometheus exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}
