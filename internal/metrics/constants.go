package metrics

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Acquisition metric names
const (
	MetricNameCacheLookups     = "cache_lookups_total"
	MetricNameAcquisitions     = "acquisitions_total"
	MetricNameUpstreamFailures = "upstream_failures_total"
	MetricNameUpstreamDuration = "upstream_fetch_duration_seconds"
)

const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
	HelpTextCacheLookups         = "Result cache lookups by outcome"
	HelpTextAcquisitions         = "Stats records acquired by platform and source"
	HelpTextUpstreamFailures     = "Upstream fetch failures by platform and reason"
	HelpTextUpstreamDuration     = "Platform fetcher latency in seconds"
)

const (
	LabelMethod   = "method"
	LabelPath     = "path"
	LabelStatus   = "status"
	LabelResult   = "result"
	LabelPlatform = "platform"
	LabelSource   = "source"
	LabelReason   = "reason"
)

const (
	ResultHit  = "hit"
	ResultMiss = "miss"
)

// HTTPLatencyBuckets spans 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// UpstreamLatencyBuckets stops just past the longest fetch timeout.
var UpstreamLatencyBuckets = []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 15}
