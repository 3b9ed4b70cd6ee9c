/*
Package config loads the DMS master's YAML configuration file.

Default returns a ready-to-run configuration (bbolt backend under
./dms-data, round_robin scheduler, no heartbeat staleness filter beyond 30s).
Load reads a file and overlays its fields onto Default, so a config file
only needs to name what it overrides:

	listen_addr: 0.0.0.0:8080
	scheduler: round_robin
	metadata_backend: redis
	namespace: dms
	worker_heartbeat_timeout_seconds: 45
	redis:
	  addr: redis.internal:6379
*/
package config
