package consulkv

import (
	"context"
	"encoding/base64"
	"sync"

	"github.com/launchdarkly/ld-flagsync/internal/watcher"

	c "github.com/hashicorp/consul/api"
)

// ConsulWatchClient implements watcher.KVWatchClient using Consul blocking queries.
//
// Each call to IssueWatch runs one KV get request on its own goroutine, with the Consul "index" and
// "wait" parameters set from the QueryOptions. Requests that are still outstanding when Close is called
// are cancelled and reported as failures.
type ConsulWatchClient struct {
	kv     *c.KV
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
	lock   sync.Mutex
}

// NewConsulWatchClient creates a ConsulWatchClient that uses an existing Consul API client.
func NewConsulWatchClient(client *c.Client) *ConsulWatchClient {
	ctx, cancel := context.WithCancel(context.Background())
	return &ConsulWatchClient{kv: client.KV(), ctx: ctx, cancel: cancel}
}

// IssueWatch starts a blocking query for the key and returns immediately.
func (w *ConsulWatchClient) IssueWatch(key string, options watcher.QueryOptions, callback watcher.WatchCallback) {
	w.lock.Lock()
	if w.closed {
		w.lock.Unlock()
		go callback.OnFailure(ErrClientClosed)
		return
	}
	w.wg.Add(1)
	w.lock.Unlock()

	go func() {
		defer w.wg.Done()
		q := &c.QueryOptions{WaitIndex: options.WaitIndex, WaitTime: options.WaitTime}
		pair, meta, err := w.kv.Get(key, q.WithContext(w.ctx))
		if err != nil {
			callback.OnFailure(err)
			return
		}
		callback.OnSuccess(makeWatchResponse(pair, meta))
	}()
}

// Close cancels all outstanding requests and waits for their callbacks to finish.
func (w *ConsulWatchClient) Close() {
	w.lock.Lock()
	alreadyClosed := w.closed
	w.closed = true
	w.lock.Unlock()
	if alreadyClosed {
		return
	}
	w.cancel()
	w.wg.Wait()
}

// The Consul client has already decoded the value from the base64 form used in its HTTP API; we
// re-encode it so the watcher sees the same representation that Consul stores.
func makeWatchResponse(pair *c.KVPair, meta *c.QueryMeta) watcher.WatchResponse {
	var resp watcher.WatchResponse
	if meta != nil {
		resp.Index = meta.LastIndex
	}
	if pair != nil {
		resp.Value = &watcher.WatchValue{
			Key:    pair.Key,
			Base64: base64.StdEncoding.EncodeToString(pair.Value),
		}
	}
	return resp
}
