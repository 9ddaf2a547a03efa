package status

import (
	"net/http"

	"github.com/launchdarkly/ld-flagsync/internal/cachestore"
	"github.com/launchdarkly/ld-flagsync/internal/flagmodel"
	"github.com/launchdarkly/ld-flagsync/internal/metrics"
	"github.com/launchdarkly/ld-flagsync/internal/middleware"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/gorilla/mux"
)

// FlagProvider is the subset of SyncCacheManager's methods that the endpoints use.
type FlagProvider interface {
	ProviderName() string
	Cache() cachestore.Cache
	WatchedKeys() []string
}

// NewRouter creates the status endpoints:
//
//	GET /status      provider name, number of cached flags, and watched keys
//	GET /flags       all cached flags, as an object keyed by flag ID
//	GET /flags/{id}  a single flag, or 404 with an error message
func NewRouter(provider FlagProvider, loggers ldlog.Loggers) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.Chain(middleware.RequestLogger(loggers), middleware.RequestCount()))
	router.Handle("/status", statusHandler(provider)).Methods("GET")
	router.Handle("/flags", allFlagsHandler(provider)).Methods("GET")
	router.Handle("/flags/{id}", flagHandler(provider)).Methods("GET")
	return router
}

func statusHandler(provider FlagProvider) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		cache := provider.Cache()

		jw := jwriter.NewWriter()
		obj := jw.Object()
		obj.Name("provider").String(provider.ProviderName())
		obj.Name("instanceId").String(metrics.InstanceID())
		obj.Name("flagCount").Int(cache.Len())
		keysArr := obj.Name("watchedKeys").Array()
		for _, key := range provider.WatchedKeys() {
			keysArr.String(key)
		}
		keysArr.End()
		obj.End()

		writeJSON(w, jw.Bytes())
	})
}

func allFlagsHandler(provider FlagProvider) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		jw := jwriter.NewWriter()
		obj := jw.Object()
		for _, entry := range provider.Cache().List() {
			writeEntry(obj.Name(entry.Flag.ID), entry)
		}
		obj.End()

		writeJSON(w, jw.Bytes())
	})
}

func flagHandler(provider FlagProvider) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		id := mux.Vars(req)["id"]
		entry, ok := provider.Cache().Get(id)
		if !ok {
			writeError(w, http.StatusNotFound, "unknown flag: "+id)
			return
		}

		jw := jwriter.NewWriter()
		writeEntry(&jw, entry)
		writeJSON(w, jw.Bytes())
	})
}

// writeEntry writes the flag's own properties followed by the cache bookkeeping fields.
func writeEntry(w *jwriter.Writer, entry cachestore.CacheEntry) {
	obj := w.Object()
	obj.Name(flagmodel.PropertyUID).String(entry.Flag.ID)
	obj.Name(flagmodel.PropertyEnable).Bool(entry.Flag.Enabled)
	obj.Name(flagmodel.PropertyDescription).String(entry.Flag.Description)
	obj.Name("insertedAt").Int(int(entry.InsertedAt))
	obj.Name("revision").Int(int(entry.Revision))
	obj.End()
}

func writeJSON(w http.ResponseWriter, data []byte) {
	writeJSONWithStatus(w, http.StatusOK, data)
}

// writeError responds with a JSON object of the form {"message": "..."}.
func writeError(w http.ResponseWriter, status int, message string) {
	jw := jwriter.NewWriter()
	obj := jw.Object()
	obj.Name("message").String(message)
	obj.End()
	writeJSONWithStatus(w, status, jw.Bytes())
}

func writeJSONWithStatus(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
