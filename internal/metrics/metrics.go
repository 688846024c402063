package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Acquisition Metrics
var (
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCacheLookups,
			Help: HelpTextCacheLookups,
		},
		[]string{LabelResult},
	)

	Acquisitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameAcquisitions,
			Help: HelpTextAcquisitions,
		},
		[]string{LabelPlatform, LabelSource},
	)

	UpstreamFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameUpstreamFailures,
			Help: HelpTextUpstreamFailures,
		},
		[]string{LabelPlatform, LabelReason},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameUpstreamDuration,
			Help:    HelpTextUpstreamDuration,
			Buckets: UpstreamLatencyBuckets,
		},
		[]string{LabelPlatform},
	)
)
