package flagsync

import (
	"encoding/base64"
	"sync"
	"testing"
	"time"

	"github.com/launchdarkly/ld-flagsync/internal/cachestore"
	"github.com/launchdarkly/ld-flagsync/internal/flagmodel"
	"github.com/launchdarkly/ld-flagsync/internal/watcher"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldlogtest"
	helpers "github.com/launchdarkly/go-test-helpers/v3"

	"github.com/stretchr/testify/require"
)

const (
	testPrefix     = "ff4j/features/"
	testRetryDelay = 10 * time.Millisecond
)

type watchRequest struct {
	key      string
	options  watcher.QueryOptions
	callback watcher.WatchCallback
}

func (r watchRequest) succeed(payload string, index uint64) {
	r.callback.OnSuccess(watcher.WatchResponse{
		Value: &watcher.WatchValue{Key: r.key, Base64: base64.StdEncoding.EncodeToString([]byte(payload))},
		Index: index,
	})
}

type fakeWatchClient struct {
	requestsCh chan watchRequest
	lock       sync.Mutex
	issued     map[string]int
}

func newFakeWatchClient() *fakeWatchClient {
	return &fakeWatchClient{requestsCh: make(chan watchRequest, 100), issued: make(map[string]int)}
}

func (c *fakeWatchClient) IssueWatch(key string, options watcher.QueryOptions, callback watcher.WatchCallback) {
	c.lock.Lock()
	c.issued[key]++
	c.lock.Unlock()
	c.requestsCh <- watchRequest{key: key, options: options, callback: callback}
}

type managerTestParams struct {
	t       *testing.T
	client  *fakeWatchClient
	cache   *cachestore.FlagCacheStore
	manager *SyncCacheManager
	mockLog *ldlogtest.MockLog
}

func managerTest(t *testing.T, action func(p managerTestParams)) {
	mockLog := ldlogtest.NewMockLog()
	mockLog.Loggers.SetMinLevel(ldlog.Debug)
	defer mockLog.DumpIfTestFailed(t)

	client := newFakeWatchClient()
	cache := cachestore.NewFlagCacheStore()
	m, err := NewSyncCacheManager(client, cache, testPrefix, watcher.Options{RetryDelay: testRetryDelay},
		mockLog.Loggers)
	require.NoError(t, err)
	defer m.Close()

	action(managerTestParams{t: t, client: client, cache: cache, manager: m, mockLog: mockLog})
}

func (p managerTestParams) requireRequest() watchRequest {
	return helpers.RequireValue(p.t, p.client.requestsCh, time.Second, "timed out waiting for watch request")
}

func (p managerTestParams) requireNoMoreRequests() {
	if !helpers.AssertNoMoreValues(p.t, p.client.requestsCh, 50*time.Millisecond, "unexpected watch request") {
		p.t.FailNow()
	}
}

func (p managerTestParams) requireFlag(expected flagmodel.FlagRecord) {
	flag, ok := p.manager.GetFlag(expected.ID)
	require.True(p.t, ok, "flag %q not found in cache", expected.ID)
	require.Equal(p.t, expected, flag)
}

func (p managerTestParams) issuedCount(key string) int {
	p.client.lock.Lock()
	defer p.client.lock.Unlock()
	return p.client.issued[key]
}
