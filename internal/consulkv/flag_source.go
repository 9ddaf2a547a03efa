package consulkv

import (
	"context"
	"strings"

	"github.com/launchdarkly/ld-flagsync/internal/flagmodel"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	c "github.com/hashicorp/consul/api"
	"golang.org/x/sync/singleflight"
)

// FlagSource reads and writes the complete set of flags stored under a prefix.
type FlagSource struct {
	kv          *c.KV
	prefix      string
	loggers     ldlog.Loggers
	flightGroup singleflight.Group
}

// NewFlagSource creates a FlagSource for the given prefix; see NormalizePrefix.
func NewFlagSource(client *c.Client, prefix string, loggers ldlog.Loggers) *FlagSource {
	s := &FlagSource{
		kv:      client.KV(),
		prefix:  NormalizePrefix(prefix),
		loggers: loggers,
	}
	s.loggers.SetPrefix("[ConsulKV]")
	return s
}

// Prefix returns the normalized key prefix.
func (s *FlagSource) Prefix() string {
	return s.prefix
}

// KeyForFlag returns the Consul key for a flag ID.
func (s *FlagSource) KeyForFlag(id string) string {
	return s.prefix + id
}

// LoadAll reads every flag stored under the prefix.
//
// Keys whose values cannot be decoded are logged and skipped. Keys in nested "directories" under the
// prefix are ignored. Concurrent calls share the result of a single Consul request.
func (s *FlagSource) LoadAll(ctx context.Context) ([]flagmodel.FlagRecord, error) {
	result, err, _ := s.flightGroup.Do(s.prefix, func() (interface{}, error) {
		return s.loadAll(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]flagmodel.FlagRecord), nil
}

func (s *FlagSource) loadAll(ctx context.Context) ([]flagmodel.FlagRecord, error) {
	pairs, _, err := s.kv.List(s.prefix, (&c.QueryOptions{}).WithContext(ctx))
	if err != nil {
		return nil, errListFailed(s.prefix, err)
	}

	flags := make([]flagmodel.FlagRecord, 0, len(pairs))
	for _, pair := range pairs {
		id := strings.TrimPrefix(pair.Key, s.prefix)
		if id == "" || strings.Contains(id, "/") {
			continue
		}
		flag, err := flagmodel.DecodeFlag(string(pair.Value))
		if err != nil {
			s.loggers.Errorf(logMsgBadFlagData, pair.Key, err)
			continue
		}
		if flag.ID != id {
			s.loggers.Warnf(logMsgKeyMismatch, pair.Key, flag.ID, id)
		}
		flags = append(flags, flag)
	}
	s.loggers.Infof(logMsgLoadedFlags, len(flags), s.prefix)
	return flags, nil
}

// Publish writes a flag to Consul under its key. Any process watching that key will receive the update.
func (s *FlagSource) Publish(ctx context.Context, flag flagmodel.FlagRecord) error {
	key := s.KeyForFlag(flag.ID)
	pair := &c.KVPair{Key: key, Value: []byte(flagmodel.EncodeFlag(flag))}
	if _, err := s.kv.Put(pair, (&c.WriteOptions{}).WithContext(ctx)); err != nil {
		return errPutFailed(key, err)
	}
	s.loggers.Infof(logMsgPublishedFlag, flag.ID, key)
	return nil
}
