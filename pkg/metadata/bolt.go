package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/chahwansong/dms/pkg/types"
	bolt "go.etcd.io/bbolt"
)

var (
	bucketRequests = []byte("requests")
	bucketResults  = []byte("results")
	bucketWorkers  = []byte("workers")
)

// envelope wraps a stored value with the time it was written, so an
// optional TTL sweep can expire entries without a second index.
type envelope struct {
	StoredAt time.Time       `json:"stored_at"`
	Value    json.RawMessage `json:"value"`
}

// BoltStore is a local, single-process Store backed by go.etcd.io/bbolt,
// one bucket per entity type.
type BoltStore struct {
	db  *bolt.DB
	ttl time.Duration

	stopSweep chan struct{}
}

// NewBoltStore opens (creating if necessary) a BoltDB file under dataDir.
// ttl of zero disables the background expiry sweep.
func NewBoltStore(dataDir string, ttl time.Duration) (*BoltStore, error) {
	dbPath := filepath.Join(dataDir, "dms-master.db")
	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("metadata: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketRequests, bucketResults, bucketWorkers} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &BoltStore{db: db, ttl: ttl, stopSweep: make(chan struct{})}
	if ttl > 0 {
		go s.sweepLoop()
	}
	return s, nil
}

func (s *BoltStore) put(bucket []byte, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	env := envelope{StoredAt: time.Now().UTC(), Value: payload}
	envPayload, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), envPayload)
	})
}

func (s *BoltStore) get(bucket []byte, key string, out any) (bool, error) {
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucket).Get([]byte(key))
		if raw == nil {
			return nil
		}
		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return err
		}
		found = true
		return json.Unmarshal(env.Value, out)
	})
	return found, err
}

// StoreRequest implements Store.
func (s *BoltStore) StoreRequest(_ context.Context, progress types.SyncProgress) error {
	return instrument("store_request", func() error {
		return s.put(bucketRequests, progress.RequestID, progress)
	})
}

// UpdateProgress implements Store.
func (s *BoltStore) UpdateProgress(_ context.Context, progress types.SyncProgress) error {
	return instrument("update_progress", func() error {
		return s.put(bucketRequests, progress.RequestID, progress)
	})
}

// AppendResult implements Store.
func (s *BoltStore) AppendResult(_ context.Context, result types.SyncResult) error {
	return instrument("append_result", func() error {
		var existing []types.SyncResult
		if _, err := s.get(bucketResults, result.RequestID, &existing); err != nil {
			return err
		}
		existing = append(existing, result)
		return s.put(bucketResults, result.RequestID, existing)
	})
}

// Results returns the append-only result log for a request.
func (s *BoltStore) Results(_ context.Context, requestID string) ([]types.SyncResult, error) {
	var results []types.SyncResult
	err := instrument("results", func() error {
		var getErr error
		_, getErr = s.get(bucketResults, requestID, &results)
		return getErr
	})
	return results, err
}

// RecordWorker implements Store.
func (s *BoltStore) RecordWorker(_ context.Context, heartbeat types.WorkerHeartbeat) error {
	return instrument("record_worker", func() error {
		return s.put(bucketWorkers, heartbeat.WorkerID, heartbeat)
	})
}

// DeleteRequest implements Store.
func (s *BoltStore) DeleteRequest(_ context.Context, requestID string) error {
	return instrument("delete_request", func() error {
		return s.db.Update(func(tx *bolt.Tx) error {
			if err := tx.Bucket(bucketRequests).Delete([]byte(requestID)); err != nil {
				return err
			}
			return tx.Bucket(bucketResults).Delete([]byte(requestID))
		})
	})
}

// HealthCheck implements Store by verifying the underlying file is still
// accessible through a read-only transaction.
func (s *BoltStore) HealthCheck(_ context.Context) error {
	return instrument("health_check", func() error {
		return s.db.View(func(tx *bolt.Tx) error { return nil })
	})
}

// Close implements Store.
func (s *BoltStore) Close() error {
	if s.ttl > 0 {
		close(s.stopSweep)
	}
	return s.db.Close()
}

func (s *BoltStore) sweepLoop() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.sweepExpired()
		case <-s.stopSweep:
			return
		}
	}
}

func (s *BoltStore) sweepExpired() {
	cutoff := time.Now().Add(-s.ttl)
	_ = s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketRequests, bucketResults, bucketWorkers} {
			b := tx.Bucket(bucket)
			var expiredKeys [][]byte
			err := b.ForEach(func(k, v []byte) error {
				var env envelope
				if err := json.Unmarshal(v, &env); err != nil {
					return nil
				}
				if env.StoredAt.Before(cutoff) {
					expiredKeys = append(expiredKeys, append([]byte(nil), k...))
				}
				return nil
			})
			if err != nil {
				return err
			}
			for _, k := range expiredKeys {
				if err := b.Delete(k); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
