/*
Package metadata defines the durable persistence contract for the DMS
master and ships two reference backends.

# Contract

Store is six operations (Go methods take a context.Context and can block on
I/O, called by the orchestrator only after it releases its lock):

	StoreRequest / UpdateProgress  - upsert by request_id
	AppendResult                   - append to a per-request list
	RecordWorker                   - upsert by worker_id
	DeleteRequest                  - remove progress and results
	HealthCheck                    - fail if the backing store is unreachable

A Store failure never rolls back orchestrator state: the caller logs the
error and continues. On restart, in-memory orchestrator state is empty and
the durable store is authoritative for external observers.

# Backends

BoltStore is a local, single-process key/value store backed by
go.etcd.io/bbolt, one bucket per entity type. It has no native TTL; an
optional background sweep removes entries past their configured age.

RedisStore is backed by github.com/redis/go-redis/v9. It uses a namespaced
key scheme (dms:requests:<id>, dms:results:<id>, dms:workers:<id>) and
native key expiry (SETEX / EXPIRE) for the optional TTL.

Namespace and TTL are both configuration-level concerns (pkg/config); the
Store implementations take them as constructor arguments rather than
reading configuration themselves.
*/
package metadata
