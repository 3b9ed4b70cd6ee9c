package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chahwansong/dms/pkg/api"
	"github.com/chahwansong/dms/pkg/config"
	"github.com/chahwansong/dms/pkg/log"
	"github.com/chahwansong/dms/pkg/metadata"
	"github.com/chahwansong/dms/pkg/metrics"
	"github.com/chahwansong/dms/pkg/orchestrator"
	"github.com/chahwansong/dms/pkg/queue"
	"github.com/chahwansong/dms/pkg/scheduler"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the DMS master control plane",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Root().PersistentFlags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if listenAddr, _ := cmd.Flags().GetString("listen-addr"); listenAddr != "" {
		cfg.ListenAddr = listenAddr
	}

	store, err := openMetadataStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to open metadata store: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	healthErr := store.HealthCheck(ctx)
	cancel()
	if healthErr != nil {
		_ = store.Close()
		return fmt.Errorf("metadata store preflight check failed: %w", healthErr)
	}
	// Seeds the component so /ready reports something sane before the first
	// /healthz request refreshes it; handleHealthz keeps this current on
	// every check thereafter.
	metrics.RegisterComponent("metadata_store", true, "ready")

	policy, err := scheduler.New(cfg.Scheduler)
	if err != nil {
		return fmt.Errorf("failed to construct scheduler policy: %w", err)
	}

	q := queue.New()
	orch := orchestrator.New(store, policy, q,
		orchestrator.WithLogger(log.WithComponent("orchestrator")),
		orchestrator.WithHeartbeatStaleness(cfg.WorkerHeartbeatTimeout()),
	)

	collector := metrics.NewCollector(orch)
	collector.Start()
	defer collector.Stop()

	metrics.SetVersion(Version)

	server := api.NewServer(orch, store)
	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(cfg.ListenAddr); err != nil {
			errCh <- err
		}
	}()

	log.Info("dms-master listening on " + cfg.ListenAddr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		log.Info("shutting down")
	case err := <-errCh:
		log.Errorf("api server error: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("graceful shutdown failed: %v", err)
	}

	return store.Close()
}

func openMetadataStore(cfg config.Config) (metadata.Store, error) {
	switch cfg.MetadataBackend {
	case "redis":
		client := redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:    []string{cfg.Redis.Addr},
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return metadata.NewRedisStore(client, cfg.Namespace, cfg.MetadataTTL()), nil
	default:
		return metadata.NewBoltStore(cfg.Bolt.DataDir, cfg.MetadataTTL())
	}
}

func init() {
	serveCmd.Flags().String("listen-addr", "", "Override listen_addr from config")
}
