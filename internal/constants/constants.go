package constants

import "time"

const (
	DefaultCacheTTL  = 10 * time.Minute
	DefaultCacheSize = 10000
)

const (
	// structured APIs answer faster than profile pages
	APIFetchTimeout    = 10 * time.Second
	ScrapeFetchTimeout = 12 * time.Second
	DatabaseTimeout    = 5 * time.Second
)

const (
	UpstreamMaxConnsPerHost     = 100
	UpstreamReadTimeout         = 15 * time.Second
	UpstreamWriteTimeout        = 15 * time.Second
	UpstreamMaxIdleConnDuration = 1 * time.Minute
	UpstreamMaxResponseBodySize = 4 << 20
	UpstreamMaxRedirects        = 5
	UpstreamUserAgent           = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

const (
	DBMaxOpenConns    = 10
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout   = 5 * time.Second
	ReadHeaderTimeout = 5 * time.Second
)

const (
	SummaryConcurrency  = 4
	HistoryDefaultLimit = 20
	HistoryMaxLimit     = 100

	HistoryMaxPendingWrites = 32
)
