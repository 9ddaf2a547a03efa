package metrics

import (
	"go.opencensus.io/stats"
	"go.opencensus.io/tag"
)

const (
	defaultMetricsPrefix = "ld_flagsync"

	watchResultsViewName = "watch_results"
	cacheUpdatesViewName = "cache_updates"
	httpRequestsViewName = "http_requests"
)

// Values of the "result" tag for watch results.
const (
	WatchSuccess = "success"
	WatchEmpty   = "empty"
	WatchFailure = "failure"
)

// Values of the "result" tag for cache updates.
const (
	UpdateApplied     = "applied"
	UpdateDecodeError = "decode_error"
	UpdateNotCached   = "not_cached"
)

var (
	instanceIDTagKey, _ = tag.NewKey("instanceId") //nolint:gochecknoglobals
	resultTagKey, _     = tag.NewKey("result")     //nolint:gochecknoglobals
	routeTagKey, _      = tag.NewKey("route")      //nolint:gochecknoglobals
	methodTagKey, _     = tag.NewKey("method")     //nolint:gochecknoglobals

	watchResultMeasure = stats.Int64("ld_flagsync/watch_results", //nolint:gochecknoglobals
		"completed Consul watch requests", stats.UnitDimensionless)
	cacheUpdateMeasure = stats.Int64("ld_flagsync/cache_updates", //nolint:gochecknoglobals
		"watch-driven cache updates", stats.UnitDimensionless)
	httpRequestMeasure = stats.Int64("ld_flagsync/http_requests", //nolint:gochecknoglobals
		"requests to the status endpoints", stats.UnitDimensionless)
)
