package filters

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/angelmondragon/designstudio-backend/pkg/redis"
)

// Store persists one bundle per design session.
type Store interface {
	Load(ctx context.Context, sessionID string) (*Bundle, error)
	Save(ctx context.Context, sessionID string, bundle Bundle) error
}

type keyValue interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	FilterBundleKey(sessionID string) string
}

// RedisStore keeps bundles in Redis. Keys expire with the freshness window and
// the stored timestamp is checked again on read.
type RedisStore struct {
	kv  keyValue
	ttl time.Duration
	now func() time.Time
}

func NewRedisStore(kv keyValue, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultFreshness
	}
	return &RedisStore{kv: kv, ttl: ttl, now: time.Now}
}

// Load returns nil without error when no usable bundle exists. Stale bundles
// are removed; unreadable ones are removed and reported.
func (s *RedisStore) Load(ctx context.Context, sessionID string) (*Bundle, error) {
	key := s.kv.FilterBundleKey(sessionID)
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if redis.IsMiss(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("load filter bundle: %w", err)
	}

	var bundle Bundle
	if err := json.Unmarshal([]byte(raw), &bundle); err != nil {
		_ = s.kv.Del(ctx, key)
		return nil, fmt.Errorf("decode filter bundle: %w", err)
	}
	if !bundle.Fresh(s.now(), s.ttl) {
		if err := s.kv.Del(ctx, key); err != nil {
			return nil, fmt.Errorf("drop stale filter bundle: %w", err)
		}
		return nil, nil
	}
	bundle = bundle.normalized()
	return &bundle, nil
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, bundle Bundle) error {
	payload, err := json.Marshal(bundle)
	if err != nil {
		return fmt.Errorf("encode filter bundle: %w", err)
	}
	if err := s.kv.Set(ctx, s.kv.FilterBundleKey(sessionID), payload, s.ttl); err != nil {
		return fmt.Errorf("save filter bundle: %w", err)
	}
	return nil
}
