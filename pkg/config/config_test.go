package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "bolt", cfg.MetadataBackend)
	assert.Equal(t, "round_robin", cfg.Scheduler)
	assert.Equal(t, 30*time.Second, cfg.WorkerHeartbeatTimeout())
}

func TestLoad_EmptyPathReturnsDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverlaysFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := `
listen_addr: 0.0.0.0:9000
metadata_backend: redis
worker_heartbeat_timeout_seconds: 45
redis:
  addr: redis.internal:6379
  db: 2
`
	require.NoError(t, writeFile(path, contents))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", cfg.ListenAddr)
	assert.Equal(t, "redis", cfg.MetadataBackend)
	assert.Equal(t, "redis.internal:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, 45*time.Second, cfg.WorkerHeartbeatTimeout())
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, writeFile(path, "metadata_backend: sqlite\n"))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMetadataTTL(t *testing.T) {
	cfg := Default()
	assert.Equal(t, time.Duration(0), cfg.MetadataTTL())

	cfg.MetadataTTLDays = 7
	assert.Equal(t, 7*24*time.Hour, cfg.MetadataTTL())
}

func writeFile(path, contents string) error {
	return os.WriteFile(path, []byte(contents), 0o644)
}
