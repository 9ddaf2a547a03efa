package watcher

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldlogtest"
	helpers "github.com/launchdarkly/go-test-helpers/v3"

	"github.com/stretchr/testify/require"
)

const (
	testKey        = "prefix/flagA"
	testWaitTime   = 5 * time.Second
	testRetryDelay = 10 * time.Millisecond
)

type watchRequest struct {
	key      string
	options  QueryOptions
	callback WatchCallback
}

// fakeWatchClient hands every request to the test, which decides when and how to answer it.
type fakeWatchClient struct {
	requestsCh chan watchRequest
}

func newFakeWatchClient() *fakeWatchClient {
	return &fakeWatchClient{requestsCh: make(chan watchRequest, 100)}
}

func (c *fakeWatchClient) IssueWatch(key string, options QueryOptions, callback WatchCallback) {
	c.requestsCh <- watchRequest{key: key, options: options, callback: callback}
}

type watcherTestParams struct {
	t         *testing.T
	client    *fakeWatchClient
	watcher   *ChangeWatcher
	updatesCh chan string
	mockLog   *ldlogtest.MockLog
}

func watcherTest(t *testing.T, action func(p watcherTestParams)) {
	mockLog := ldlogtest.NewMockLog()
	mockLog.Loggers.SetMinLevel(ldlog.Debug)
	defer mockLog.DumpIfTestFailed(t)

	client := newFakeWatchClient()
	updatesCh := make(chan string, 100)
	w, err := NewChangeWatcher(client, testKey, func(payload string) { updatesCh <- payload },
		Options{WaitTime: testWaitTime, RetryDelay: testRetryDelay}, mockLog.Loggers)
	require.NoError(t, err)
	defer w.Close()

	action(watcherTestParams{t: t, client: client, watcher: w, updatesCh: updatesCh, mockLog: mockLog})
}

func (p watcherTestParams) requireRequest() watchRequest {
	return helpers.RequireValue(p.t, p.client.requestsCh, time.Second, "timed out waiting for watch request")
}

func (p watcherTestParams) requireNoMoreRequests() {
	if !helpers.AssertNoMoreValues(p.t, p.client.requestsCh, 50*time.Millisecond, "unexpected watch request") {
		p.t.FailNow()
	}
}

func (p watcherTestParams) requireUpdate() string {
	return helpers.RequireValue(p.t, p.updatesCh, time.Second, "timed out waiting for update")
}

func (p watcherTestParams) requireNoUpdate() {
	if !helpers.AssertNoMoreValues(p.t, p.updatesCh, 50*time.Millisecond, "unexpected update") {
		p.t.FailNow()
	}
}

func valueResponse(payload string, index uint64) WatchResponse {
	return WatchResponse{
		Value: &WatchValue{Key: testKey, Base64: base64.StdEncoding.EncodeToString([]byte(payload))},
		Index: index,
	}
}
