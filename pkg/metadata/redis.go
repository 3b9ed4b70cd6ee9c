package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chahwansong/dms/pkg/types"
	"github.com/redis/go-redis/v9"
)

// RedisStore is a Store backed by github.com/redis/go-redis/v9. Requests
// and worker heartbeats are JSON-encoded values under SET; results are
// pushed onto a per-request Redis list via RPUSH.
type RedisStore struct {
	client    redis.UniversalClient
	namespace string
	ttl       time.Duration
}

// NewRedisStore wraps an already-constructed redis client. namespace
// defaults to Namespace when empty. ttl of zero disables key expiry.
func NewRedisStore(client redis.UniversalClient, namespace string, ttl time.Duration) *RedisStore {
	if namespace == "" {
		namespace = Namespace
	}
	return &RedisStore{client: client, namespace: namespace, ttl: ttl}
}

// StoreRequest implements Store.
func (s *RedisStore) StoreRequest(ctx context.Context, progress types.SyncProgress) error {
	return instrument("store_request", func() error {
		return s.setJSON(ctx, requestKey(s.namespace, progress.RequestID), progress)
	})
}

// UpdateProgress implements Store.
func (s *RedisStore) UpdateProgress(ctx context.Context, progress types.SyncProgress) error {
	return instrument("update_progress", func() error {
		return s.setJSON(ctx, requestKey(s.namespace, progress.RequestID), progress)
	})
}

// AppendResult implements Store.
func (s *RedisStore) AppendResult(ctx context.Context, result types.SyncResult) error {
	return instrument("append_result", func() error {
		payload, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("metadata: marshal result: %w", err)
		}
		key := resultKey(s.namespace, result.RequestID)
		if err := s.client.RPush(ctx, key, payload).Err(); err != nil {
			return fmt.Errorf("metadata: rpush result: %w", err)
		}
		if s.ttl > 0 {
			if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
				return fmt.Errorf("metadata: expire result list: %w", err)
			}
		}
		return nil
	})
}

// Results returns the append-only result log for a request.
func (s *RedisStore) Results(ctx context.Context, requestID string) ([]types.SyncResult, error) {
	var results []types.SyncResult
	err := instrument("results", func() error {
		raw, err := s.client.LRange(ctx, resultKey(s.namespace, requestID), 0, -1).Result()
		if err != nil {
			return fmt.Errorf("metadata: lrange results: %w", err)
		}
		results = make([]types.SyncResult, 0, len(raw))
		for _, item := range raw {
			var r types.SyncResult
			if err := json.Unmarshal([]byte(item), &r); err != nil {
				return fmt.Errorf("metadata: unmarshal result: %w", err)
			}
			results = append(results, r)
		}
		return nil
	})
	return results, err
}

// RecordWorker implements Store.
func (s *RedisStore) RecordWorker(ctx context.Context, heartbeat types.WorkerHeartbeat) error {
	return instrument("record_worker", func() error {
		return s.setJSON(ctx, workerKey(s.namespace, heartbeat.WorkerID), heartbeat)
	})
}

// DeleteRequest implements Store.
func (s *RedisStore) DeleteRequest(ctx context.Context, requestID string) error {
	return instrument("delete_request", func() error {
		err := s.client.Del(ctx,
			requestKey(s.namespace, requestID),
			resultKey(s.namespace, requestID),
		).Err()
		if err != nil {
			return fmt.Errorf("metadata: del request: %w", err)
		}
		return nil
	})
}

// HealthCheck implements Store.
func (s *RedisStore) HealthCheck(ctx context.Context) error {
	return instrument("health_check", func() error {
		if err := s.client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("metadata: redis ping: %w", err)
		}
		return nil
	})
}

// Close implements Store.
func (s *RedisStore) Close() error {
	if closer, ok := s.client.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

func (s *RedisStore) setJSON(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("metadata: marshal value: %w", err)
	}
	if err := s.client.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("metadata: set %s: %w", key, err)
	}
	return nil
}
