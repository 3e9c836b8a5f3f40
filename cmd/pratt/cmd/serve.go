package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	mdwlog "github.com/msto63/pratt/foundation/core/log"
	"github.com/msto63/pratt/internal/history"
	"github.com/msto63/pratt/internal/server"
	"github.com/msto63/pratt/pkg/core/version"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var (
	serveHTTPPort int
	serveGRPCPort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the evaluation service",
	Long: `Start the evaluation service.

Endpoints:
  POST /v1/evaluate       HTTP/JSON  {"expression": "...", "mode": "eval|tree"}
  GET  /v1/ws             websocket  {"type": "evaluate", "payload": {...}}
  GET  /health            health report
  GET  /metrics           Prometheus metrics
  pratt.v1.Evaluator      gRPC (google.protobuf.Struct messages)`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVar(&serveHTTPPort, "http-port", 0, "HTTP port (default from config)")
	serveCmd.Flags().IntVar(&serveGRPCPort, "grpc-port", 0, "gRPC port (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	def, err := loadGrammar()
	if err != nil {
		return err
	}

	cfg := appConfig.Server
	if serveHTTPPort != 0 {
		cfg.HTTPPort = serveHTTPPort
	}
	if serveGRPCPort != 0 {
		cfg.GRPCPort = serveGRPCPort
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := server.NewMetrics(registry)
	if err != nil {
		return err
	}

	svcCfg := server.ServiceConfig{
		Grammar:        def,
		MaxInputLength: cfg.MaxInputLength,
		CacheSize:      cfg.CacheSize,
		CacheTTL:       cfg.CacheTTL.Duration,
		Metrics:        metrics,
		Logger:         logger,
	}

	store, err := openHistory()
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
		svcCfg.History = history.Store(store)
		pruneHistory(store, appConfig.History.Retention.Duration)
	}

	svc, err := server.NewService(svcCfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	srv := server.New(server.Config{
		Host:         cfg.Host,
		HTTPPort:     cfg.HTTPPort,
		GRPCPort:     cfg.GRPCPort,
		ReadTimeout:  cfg.ReadTimeout.Duration,
		WriteTimeout: cfg.WriteTimeout.Duration,
		Version:      version.Server,
		Gatherer:     registry,
		Logger:       logger,
	}, svc)

	fmt.Fprintf(cmd.OutOrStdout(), "pratt %s serving grammar %q\n", version.Server, def.Name)
	fmt.Fprintf(cmd.OutOrStdout(), "  HTTP: http://%s\n", srv.HTTPAddress())
	fmt.Fprintf(cmd.OutOrStdout(), "  gRPC: %s\n", srv.GRPCAddress())

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("Shutdown requested", mdwlog.Fields{"signal": sig.String()})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Stop(ctx)
}

func pruneHistory(store history.Store, retention time.Duration) {
	if retention <= 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	deleted, err := store.Prune(ctx, retention)
	if err != nil {
		logger.WarnWithErr("History pruning failed", err)
		return
	}
	if deleted > 0 {
		logger.Info("History pruned", mdwlog.Fields{"deleted": deleted, "retention": retention.String()})
	}
}
