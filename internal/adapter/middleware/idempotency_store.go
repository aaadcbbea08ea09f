package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// record is the stored state of one idempotency key.
type record struct {
	Pending   bool      `json:"pending"`
	Status    int       `json:"status,omitempty"`
	Body      []byte    `json:"body,omitempty"`
	BodyHash  string    `json:"body_hash"`
	RequestAt int64     `json:"request_at_ms"`
	StoredAt  time.Time `json:"stored_at"`
}

// replayStore keeps records in Redis. A pending record doubles as the lock
// that keeps a concurrent retry out while the first attempt runs.
type replayStore struct {
	rdb     *redis.Client
	lockTTL time.Duration
	ttl     time.Duration
}

// reserve claims key; false means another attempt already holds or finished it.
func (s *replayStore) reserve(ctx context.Context, key string, r record) (bool, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return false, err
	}
	return s.rdb.SetNX(ctx, key, payload, s.lockTTL).Result()
}

func (s *replayStore) get(ctx context.Context, key string) (record, error) {
	var r record
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return r, err
	}
	if err := json.Unmarshal(raw, &r); err != nil {
		return r, fmt.Errorf("decode %s: %w", key, err)
	}
	return r, nil
}

// commit replaces the pending record with the final response for ttl.
func (s *replayStore) commit(ctx context.Context, key string, r record) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, payload, s.ttl).Err()
}

// release drops key so the request can be retried from scratch.
func (s *replayStore) release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
