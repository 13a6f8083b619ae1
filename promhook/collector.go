// Package promhook exports datefilter transform metrics to Prometheus.
package promhook

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	datefilter "github.com/goliatone/go-datefilter"
)

const startedAtKey = "promhook.started_at"

// Collector is a datefilter.TransformHook recording transform outcomes and durations.
type Collector struct {
	transformsTotal   *prometheus.CounterVec
	transformDuration *prometheus.HistogramVec
	now               func() time.Time
}

var _ datefilter.TransformHook = &Collector{}

type options struct {
	namespace string
	buckets   []float64
}

// Option configures a Collector
type Option func(*options)

// WithNamespace prefixes metric names, "datefilter" by default.
func WithNamespace(namespace string) Option {
	return func(o *options) {
		o.namespace = namespace
	}
}

func WithBuckets(buckets ...float64) Option {
	return func(o *options) {
		o.buckets = append([]float64(nil), buckets...)
	}
}

// New creates the collector and registers its metrics on reg.
func New(reg prometheus.Registerer, opts ...Option) (*Collector, error) {
	if reg == nil {
		return nil, errors.New("promhook: nil registerer")
	}

	cfg := options{
		namespace: "datefilter",
		buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	c := &Collector{
		transformsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.namespace,
				Name:      "transforms_total",
				Help:      "Total number of date transforms by outcome",
			},
			[]string{"outcome"},
		),
		transformDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.namespace,
				Name:      "transform_duration_seconds",
				Help:      "Date transform duration in seconds",
				Buckets:   cfg.buckets,
			},
			[]string{"outcome"},
		),
		now: time.Now,
	}

	for _, collector := range []prometheus.Collector{c.transformsTotal, c.transformDuration} {
		if err := reg.Register(collector); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Collector) BeforeTransform(ctx *datefilter.TransformContext) {
	if c == nil {
		return
	}
	ctx.SetMetadata(startedAtKey, c.now())
}

func (c *Collector) AfterTransform(ctx *datefilter.TransformContext) {
	if c == nil || ctx == nil {
		return
	}

	outcome := string(ctx.Outcome)
	c.transformsTotal.WithLabelValues(outcome).Inc()

	if value, ok := ctx.MetadataValue(startedAtKey); ok {
		if startedAt, ok := value.(time.Time); ok {
			c.transformDuration.WithLabelValues(outcome).Observe(c.now().Sub(startedAt).Seconds())
		}
	}
}
