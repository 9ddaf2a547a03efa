package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/kardianos/minwinsvc"

	"github.com/launchdarkly/ld-flagsync/config"
	"github.com/launchdarkly/ld-flagsync/internal/application"
	"github.com/launchdarkly/ld-flagsync/internal/cachestore"
	"github.com/launchdarkly/ld-flagsync/internal/consulkv"
	"github.com/launchdarkly/ld-flagsync/internal/flagsync"
	"github.com/launchdarkly/ld-flagsync/internal/metrics"
	"github.com/launchdarkly/ld-flagsync/internal/status"
	"github.com/launchdarkly/ld-flagsync/internal/version"
	"github.com/launchdarkly/ld-flagsync/internal/watcher"
	"github.com/launchdarkly/ld-flagsync/logging"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

const (
	initialLoadTimeout = 30 * time.Second
	shutdownTimeout    = 5 * time.Second
)

func main() {
	loggers := logging.MakeDefaultLoggers()

	opts, err := application.ReadOptions(os.Args, os.Stderr)
	if err != nil {
		loggers.Errorf("Error: %s", err)
		os.Exit(1)
	}

	loggers.Infof(
		"Starting ld-flagsync version %s with %s",
		application.DescribeVersion(version.Version),
		opts.DescribeConfigSource(),
	)

	c := config.DefaultConfig
	if opts.ConfigFile != "" {
		if err := config.LoadConfigFile(&c, opts.ConfigFile, loggers); err != nil {
			loggers.Errorf("Error loading config file: %s", err)
			os.Exit(1)
		}
	}
	if opts.UseEnvironment {
		if err := config.LoadConfigFromEnvironment(&c, loggers); err != nil {
			loggers.Errorf("Configuration error: %s", err)
			os.Exit(1)
		}
	}
	loggers.SetMinLevel(c.Main.LogLevel.GetOrElse(ldlog.Info))

	if err := run(c, loggers); err != nil {
		loggers.Error(err)
		os.Exit(1)
	}
}

func run(c config.Config, loggers ldlog.Loggers) error {
	if err := metrics.RegisterViews(); err != nil {
		return err
	}

	consulClient, err := consulkv.NewClient(consulkv.ClientConfig{
		Address:   c.Consul.Host,
		Token:     c.Consul.Token,
		TokenFile: c.Consul.TokenFile,
	}, loggers)
	if err != nil {
		return err
	}
	prefix := consulkv.NormalizePrefix(c.Consul.Prefix)

	watchClient := consulkv.NewConsulWatchClient(consulClient)
	defer watchClient.Close()

	manager, err := flagsync.NewSyncCacheManager(
		watchClient,
		cachestore.NewFlagCacheStore(),
		prefix,
		watcher.Options{
			WaitTime:   c.Consul.WaitTime.GetOrElse(config.DefaultWaitTime),
			RetryDelay: c.Consul.RetryDelay.GetOrElse(config.DefaultRetryDelay),
		},
		loggers,
	)
	if err != nil {
		return err
	}
	defer manager.Close()

	source := consulkv.NewFlagSource(consulClient, prefix, loggers)
	ctx, cancel := context.WithTimeout(context.Background(), initialLoadTimeout)
	flags, err := source.LoadAll(ctx)
	cancel()
	if err != nil {
		return fmt.Errorf("unable to load flags from Consul: %w", err)
	}
	for _, flag := range flags {
		if err := manager.StoreFlag(flag); err != nil {
			return err
		}
	}

	router := status.NewRouter(manager, loggers)
	if c.Prometheus.Enabled {
		exporter, err := metrics.NewPrometheusExporter(c.Prometheus.Prefix, loggers)
		if err != nil {
			return err
		}
		defer exporter.Close()
		router.Handle("/metrics", exporter).Methods("GET")
		loggers.Info("Prometheus metrics are available at /metrics")
	}

	port := c.Main.Port.GetOrElse(config.DefaultPort)
	server, errs := application.StartHTTPServer(port, router, loggers)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errs:
		if err != nil {
			return fmt.Errorf("error starting HTTP listener on port %d: %w", port, err)
		}
		return nil
	case sig := <-sigCh:
		loggers.Infof("Received %s; shutting down", sig)
	}

	ctx, cancel = context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil && err != http.ErrServerClosed {
		loggers.Warnf("Error shutting down HTTP server: %s", err)
	}
	return nil
}
