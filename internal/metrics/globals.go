package metrics

import (
	"sync"

	"github.com/pborman/uuid"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

var (
	registerViewsOnce sync.Once //nolint:gochecknoglobals
	registerViewsErr  error     //nolint:gochecknoglobals

	// instanceID distinguishes metrics from different ld-flagsync processes that report to the same backend.
	instanceID = uuid.New() //nolint:gochecknoglobals

	watchResultsView = &view.View{ //nolint:gochecknoglobals
		Name:        watchResultsViewName,
		Measure:     watchResultMeasure,
		Aggregation: view.Count(),
		TagKeys:     []tag.Key{instanceIDTagKey, resultTagKey},
	}
	cacheUpdatesView = &view.View{ //nolint:gochecknoglobals
		Name:        cacheUpdatesViewName,
		Measure:     cacheUpdateMeasure,
		Aggregation: view.Count(),
		TagKeys:     []tag.Key{instanceIDTagKey, resultTagKey},
	}
	httpRequestsView = &view.View{ //nolint:gochecknoglobals
		Name:        httpRequestsViewName,
		Measure:     httpRequestMeasure,
		Aggregation: view.Count(),
		TagKeys:     []tag.Key{instanceIDTagKey, routeTagKey, methodTagKey},
	}
)

// RegisterViews registers the OpenCensus views for ld-flagsync's measures. It is safe to call more than
// once; only the first call has any effect.
func RegisterViews() error {
	registerViewsOnce.Do(func() {
		registerViewsErr = view.Register(watchResultsView, cacheUpdatesView, httpRequestsView)
		if registerViewsErr != nil {
			registerViewsErr = errRegisteringViews(registerViewsErr)
		}
	})
	return registerViewsErr
}

// InstanceID returns the value of the "instanceId" tag for this process.
func InstanceID() string {
	return instanceID
}
