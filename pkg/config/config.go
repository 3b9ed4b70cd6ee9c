package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// BoltConfig configures the embedded bbolt metadata backend.
type BoltConfig struct {
	DataDir string `yaml:"data_dir"`
}

// RedisConfig configures the Redis metadata backend.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db"`
}

// Config is the DMS master's top-level configuration.
type Config struct {
	ListenAddr                 string      `yaml:"listen_addr"`
	Scheduler                  string      `yaml:"scheduler"`
	MetadataBackend            string      `yaml:"metadata_backend"` // "bolt" or "redis"
	Namespace                  string      `yaml:"namespace"`
	MetadataTTLDays            int         `yaml:"metadata_ttl_days,omitempty"`
	WorkerHeartbeatTimeoutSecs float64     `yaml:"worker_heartbeat_timeout_seconds"`
	Bolt                       BoltConfig  `yaml:"bolt"`
	Redis                      RedisConfig `yaml:"redis"`
}

// WorkerHeartbeatTimeout returns the configured staleness window as a
// time.Duration.
func (c Config) WorkerHeartbeatTimeout() time.Duration {
	return time.Duration(c.WorkerHeartbeatTimeoutSecs * float64(time.Second))
}

// MetadataTTL returns the configured metadata retention window, or zero if
// unset (no expiry sweep).
func (c Config) MetadataTTL() time.Duration {
	if c.MetadataTTLDays <= 0 {
		return 0
	}
	return time.Duration(c.MetadataTTLDays) * 24 * time.Hour
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		ListenAddr:                 "127.0.0.1:8080",
		Scheduler:                  "round_robin",
		MetadataBackend:            "bolt",
		Namespace:                  "dms",
		WorkerHeartbeatTimeoutSecs: 30,
		Bolt:                       BoltConfig{DataDir: "./dms-data"},
		Redis:                      RedisConfig{Addr: "localhost:6379"},
	}
}

// Load reads and parses a YAML configuration file, overlaying it onto
// Default(). An empty path returns the default configuration unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.MetadataBackend != "bolt" && cfg.MetadataBackend != "redis" {
		return cfg, fmt.Errorf("config: metadata_backend must be \"bolt\" or \"redis\", got %q", cfg.MetadataBackend)
	}
	return cfg, nil
}
