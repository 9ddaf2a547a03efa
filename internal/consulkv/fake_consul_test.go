package consulkv

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-test-helpers/v3/httphelpers"

	c "github.com/hashicorp/consul/api"
	"github.com/stretchr/testify/require"
)

// fakeConsul is a minimal in-memory implementation of Consul's KV HTTP endpoints, including blocking
// queries on single keys.
type fakeConsul struct {
	lock      sync.Mutex
	values    map[string][]byte
	indexes   map[string]uint64
	index     uint64
	changedCh chan struct{}
	failNext  int
}

type fakeKVPair struct {
	Key         string
	Value       []byte
	CreateIndex uint64
	ModifyIndex uint64
}

func newFakeConsul() *fakeConsul {
	return &fakeConsul{
		values:    make(map[string][]byte),
		indexes:   make(map[string]uint64),
		index:     1,
		changedCh: make(chan struct{}),
	}
}

func (f *fakeConsul) set(key string, value string) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.index++
	f.values[key] = []byte(value)
	f.indexes[key] = f.index
	close(f.changedCh)
	f.changedCh = make(chan struct{})
}

func (f *fakeConsul) failRequests(n int) {
	f.lock.Lock()
	f.failNext = n
	f.lock.Unlock()
}

func (f *fakeConsul) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/v1/kv/")
	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.set(key, string(body))
		_, _ = w.Write([]byte("true"))
	case http.MethodGet:
		f.serveGet(w, r, key)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakeConsul) serveGet(w http.ResponseWriter, r *http.Request, key string) {
	query := r.URL.Query()
	waitIndex, _ := strconv.ParseUint(query.Get("index"), 10, 64)
	waitTime, _ := time.ParseDuration(query.Get("wait"))
	deadline := time.After(waitTime)

	for {
		f.lock.Lock()
		if f.failNext > 0 {
			f.failNext--
			f.lock.Unlock()
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		var pairs []fakeKVPair
		if query.Has("recurse") {
			for k, v := range f.values {
				if strings.HasPrefix(k, key) {
					pairs = append(pairs, fakeKVPair{Key: k, Value: v, CreateIndex: f.indexes[k], ModifyIndex: f.indexes[k]})
				}
			}
			sort.Slice(pairs, func(i, j int) bool { return pairs[i].Key < pairs[j].Key })
		} else if v, ok := f.values[key]; ok {
			pairs = append(pairs, fakeKVPair{Key: key, Value: v, CreateIndex: f.indexes[key], ModifyIndex: f.indexes[key]})
		}
		index := f.index
		if len(pairs) == 1 && !query.Has("recurse") {
			index = pairs[0].ModifyIndex
		}
		changedCh := f.changedCh
		f.lock.Unlock()

		if waitIndex == 0 || index > waitIndex || waitTime == 0 {
			f.writePairs(w, pairs, index)
			return
		}
		select {
		case <-changedCh:
		case <-deadline:
			f.writePairs(w, pairs, index)
			return
		case <-r.Context().Done():
			return
		}
	}
}

func (f *fakeConsul) writePairs(w http.ResponseWriter, pairs []fakeKVPair, index uint64) {
	w.Header().Set("X-Consul-Index", strconv.FormatUint(index, 10))
	w.Header().Set("X-Consul-LastContact", "0")
	w.Header().Set("X-Consul-KnownLeader", "true")
	if len(pairs) == 0 {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(pairs)
}

func withFakeConsul(t *testing.T, action func(fake *fakeConsul, client *c.Client)) {
	fake := newFakeConsul()
	httphelpers.WithServer(fake, func(server *httptest.Server) {
		client, err := NewClient(ClientConfig{Address: server.URL}, ldlog.NewDisabledLoggers())
		require.NoError(t, err)
		action(fake, client)
	})
}
