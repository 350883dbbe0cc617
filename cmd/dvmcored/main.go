// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

// Command dvmcored is the thin entrypoint wiring dvmcore's packages
// together: typed config, logging, tracing, the scheduled maintenance
// jobs, and the FNE peer registry/ACL/peer-list stack. It does not open
// any peer-facing UDP socket itself — that plumbing, along with the
// CLI/YAML/REST/TUI surfaces a deployment would wrap around it, is out
// of scope here (see DESIGN.md).
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/USA-RedDragon/configulator"
	"github.com/dvmhub/dvmcore/internal/acl"
	"github.com/dvmhub/dvmcore/internal/config"
	"github.com/dvmhub/dvmcore/internal/fne"
	"github.com/dvmhub/dvmcore/internal/kv"
	"github.com/dvmhub/dvmcore/internal/logging"
	"github.com/dvmhub/dvmcore/internal/lookups"
	"github.com/dvmhub/dvmcore/internal/metrics"
	"github.com/dvmhub/dvmcore/internal/pubsub"
	"github.com/go-co-op/gocron/v2"
	"github.com/mitchellh/hashstructure/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("fatal startup error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := configulator.New[config.Config]().Default()
	if err != nil {
		return fmt.Errorf("failed to build default config: %w", err)
	}

	logHandles, err := logging.Init(logging.Options{
		Level:   slogLevel(cfg.LogLevel),
		Root:    "dvmcore",
		Console: true,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logHandles.Close()
	logger := logHandles.Logger

	if errs := cfg.ValidateWithFields(); len(errs) > 0 {
		for _, verr := range errs {
			logger.Error("invalid configuration", "error", verr)
		}
		return fmt.Errorf("%d configuration error(s), see log", len(errs))
	}

	// configHash lets a future reload path detect whether a re-read
	// config actually changed before paying to rebuild anything.
	configHash, err := hashstructure.Hash(cfg, hashstructure.FormatV2, nil)
	if err != nil {
		return fmt.Errorf("failed to hash config: %w", err)
	}
	logger.Info("configuration loaded", "config_hash", configHash)

	shutdownTracer, err := setupTracing(&cfg)
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}

	kvStore, err := kv.MakeKV(ctx, &cfg)
	if err != nil {
		return fmt.Errorf("failed to create key-value store: %w", err)
	}

	pubsubClient, err := pubsub.MakePubSub(ctx, &cfg)
	if err != nil {
		return fmt.Errorf("failed to create pub/sub client: %w", err)
	}
	_ = pubsubClient // reserved for cross-instance peer/call routing once wired

	promMetrics := metrics.NewMetrics()

	aclTable := acl.New(acl.Options(cfg.ACL))
	aclTable.Metrics = promMetrics

	reloadPeriod := time.Duration(cfg.PeerList.ReloadSeconds) * time.Second
	peerList := lookups.New(cfg.PeerList.Filename, reloadPeriod, cfg.ACL.Enforced)
	if cfg.PeerList.Filename != "" {
		if err := peerList.Load(); err != nil {
			logger.Warn("failed to load peer list, starting empty", "error", err)
		}
	}

	peerTable := fne.NewPeerTable()
	router := fne.NewRouter(peerTable, peerList, aclTable, fne.MasterPassword(cfg.Secret))
	router.Logger = logger
	router.Metrics = promMetrics
	router.Replication = fne.NewReplicationController()

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	if err := setupScheduledJobs(scheduler, &cfg, peerList, peerTable, logger); err != nil {
		return fmt.Errorf("failed to schedule maintenance jobs: %w", err)
	}
	scheduler.Start()

	if cfg.Metrics.Enabled {
		go metrics.CreateMetricsServer(&cfg)
	}

	logger.Info("dvmcore ready",
		"mmdvm_bind", fmt.Sprintf("%s:%d", cfg.DMR.MMDVM.Bind, cfg.DMR.MMDVM.Port),
		"openbridge_enabled", cfg.DMR.OpenBridge.Enabled,
	)

	waitForShutdown(ctx, scheduler, kvStore, shutdownTracer, logger)
	return nil
}

func slogLevel(level config.LogLevel) slog.Level {
	switch level {
	case config.LogLevelDebug:
		return slog.LevelDebug
	case config.LogLevelWarn:
		return slog.LevelWarn
	case config.LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupScheduledJobs installs the periodic maintenance sweeps the
// teacher's own main.go drives via gocron: here, reloading the peer
// list from disk and disconnecting peers that missed their ping
// deadline, rather than the teacher's radio-ID/repeater-ID database
// refresh (which has no equivalent in this scope).
func setupScheduledJobs(scheduler gocron.Scheduler, cfg *config.Config, peerList *lookups.PeerListLookup, peerTable *fne.PeerTable, logger *slog.Logger) error {
	if period := peerList.ReloadPeriod(); period > 0 {
		_, err := scheduler.NewJob(
			gocron.DurationJob(period),
			gocron.NewTask(func() {
				if err := peerList.Load(); err != nil {
					logger.Error("failed to reload peer list", "error", err)
				}
			}),
		)
		if err != nil {
			return fmt.Errorf("failed to schedule peer list reload: %w", err)
		}
	}

	pingTimeout := time.Duration(cfg.Peer.PingTimeoutSeconds) * time.Second
	if pingTimeout <= 0 {
		return nil
	}
	const sweepInterval = 30 * time.Second
	_, err := scheduler.NewJob(
		gocron.DurationJob(sweepInterval),
		gocron.NewTask(func() {
			now := time.Now().UnixMicro()
			peerTable.SweepMissedPings(now, pingTimeout.Microseconds(), func(p *fne.PeerConnection) {
				logger.Warn("peer missed ping timeout, disconnecting", "peer_id", p.PeerID)
				p.Disconnect()
				peerTable.Remove(p.PeerID)
			})
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule ping-timeout sweep: %w", err)
	}
	return nil
}

// setupTracing wires a real OTLP gRPC exporter when configured,
// matching the teacher's own initTracer, and otherwise returns a no-op
// shutdown function.
func setupTracing(cfg *config.Config) (func(context.Context) error, error) {
	if cfg.Metrics.OTLPEndpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptrace.New(
		context.Background(),
		otlptracegrpc.NewClient(
			otlptracegrpc.WithInsecure(),
			otlptracegrpc.WithEndpoint(cfg.Metrics.OTLPEndpoint),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	resources, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			attribute.String("service.name", "dvmcore"),
			attribute.String("library.language", "go"),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace resources: %w", err)
	}

	otel.SetTracerProvider(
		sdktrace.NewTracerProvider(
			sdktrace.WithSampler(sdktrace.AlwaysSample()),
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(resources),
		),
	)
	return exporter.Shutdown, nil
}

// waitForShutdown blocks until a termination signal arrives, then
// stops the scheduler and closes the KV store and tracer within
// shutdownTimeout, mirroring the teacher's setupShutdownHandlers.
func waitForShutdown(ctx context.Context, scheduler gocron.Scheduler, kvStore kv.KV, shutdownTracer func(context.Context) error, logger *slog.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP)
	sig := <-sigCh
	logger.Error("shutting down due to signal", "signal", sig.String())

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		if err := scheduler.StopJobs(); err != nil {
			logger.Error("failed to stop scheduler jobs", "error", err)
		}
		if err := scheduler.Shutdown(); err != nil {
			logger.Error("failed to shut down scheduler", "error", err)
		}
	}()
	go func() {
		defer wg.Done()
		if err := kvStore.Close(); err != nil {
			logger.Error("failed to close kv store", "error", err)
		}
	}()
	go func() {
		defer wg.Done()
		shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			logger.Error("failed to shut down tracer", "error", err)
		}
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		wg.Wait()
	}()
	select {
	case <-done:
		logger.Info("shutdown complete")
	case <-time.After(shutdownTimeout):
		logger.Error("shutdown timed out, forcing exit")
		os.Exit(1)
	}
}
