package metrics

import (
	"context"
	"strings"

	"go.opencensus.io/stats"
	"go.opencensus.io/tag"
)

// RecordWatchResult counts one completed watch request. The result should be one of WatchSuccess,
// WatchEmpty, or WatchFailure.
//
// Recording is a no-op if RegisterViews has not been called.
func RecordWatchResult(result string) {
	record(watchResultMeasure, result)
}

// RecordCacheUpdate counts one watch-delivered update. The result should be one of UpdateApplied,
// UpdateDecodeError, or UpdateNotCached.
func RecordCacheUpdate(result string) {
	record(cacheUpdateMeasure, result)
}

// RecordRequest counts one request to an HTTP endpoint. The route should be the path template that
// matched, not the request path, so that flag IDs do not become tag values.
func RecordRequest(route, method string) {
	_ = stats.RecordWithTags(context.Background(),
		[]tag.Mutator{
			tag.Upsert(instanceIDTagKey, instanceID),
			tag.Upsert(routeTagKey, sanitizeTagValue(route)),
			tag.Upsert(methodTagKey, sanitizeTagValue(method)),
		},
		httpRequestMeasure.M(1))
}

// sanitizeTagValue replaces characters that OpenCensus does not allow in tag values.
func sanitizeTagValue(v string) string {
	if strings.TrimSpace(v) == "" {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e {
			return '_'
		}
		return r
	}, v)
}

func record(measure *stats.Int64Measure, result string) {
	_ = stats.RecordWithTags(context.Background(),
		[]tag.Mutator{tag.Upsert(instanceIDTagKey, instanceID), tag.Upsert(resultTagKey, result)},
		measure.M(1))
}
