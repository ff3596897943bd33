package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pyshrink/internal/app"
	"pyshrink/internal/config"
	"pyshrink/internal/history"
	"pyshrink/internal/observability"
	"pyshrink/internal/report"
)

var (
	configPath  = flag.String("config", "./pyshrink.toml", "Path to config file")
	noCache     = flag.Bool("no-cache", false, "Do not use cache (dev purposes)")
	ignorePath  = flag.String("ignore-file", "", "File with warnings that should be ignored")
	watch       = flag.Bool("watch", false, "Keep running and re-analyze files as they change")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
	metricsAddr = flag.String("metrics-addr", "", "Expose Prometheus metrics on this address")
	version     = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("pyshrink v%s\n", VERSION)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		if !os.IsNotExist(err) || *configPath != "./pyshrink.toml" {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		cfg = config.Default()
	}

	root := "."
	if flag.NArg() > 0 {
		root = flag.Arg(0)
	}

	var ignoreData *app.IgnoreData
	if *ignorePath != "" {
		ignoreData, err = app.LoadIgnoreData(*ignorePath)
		if err != nil {
			slog.Error("failed to load ignore file", "error", err)
			os.Exit(1)
		}
	}

	var store *history.Store
	if cfg.History.Path != "" {
		store, err = history.Open(cfg.History.Path)
		if err != nil {
			slog.Error("failed to open history store", "error", err)
			os.Exit(1)
		}
	}
	// Closed explicitly because os.Exit skips deferred calls and the
	// WAL needs a checkpoint.
	closeStore := func() {
		if store == nil {
			return
		}
		if err := store.Close(); err != nil {
			slog.Warn("failed to close history store", "error", err)
		}
	}

	if *metricsAddr == "" {
		*metricsAddr = cfg.Metrics.Addr
	}
	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				slog.Error("metrics server failed", "error", err)
			}
		}()
	}

	a := app.New(app.Options{
		Config:     cfg,
		NoCache:    *noCache,
		IgnoreData: ignoreData,
		History:    store,
		Printer:    report.NewPrinter(os.Stdout),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var traceShutdown func(context.Context) error
	if cfg.Tracing.OTLPEndpoint != "" {
		traceShutdown, err = observability.SetupTracing(ctx, cfg.Tracing.OTLPEndpoint)
		if err != nil {
			slog.Error("failed to set up tracing", "error", err)
			closeStore()
			os.Exit(1)
		}
	}

	if _, err := a.Run(ctx, root); err != nil {
		slog.Error("analysis failed", "error", err)
		closeStore()
		os.Exit(1)
	}

	if *watch {
		slog.Info("watching for changes", "root", root, "debounce", cfg.Watch.Debounce)
		if err := a.Watch(ctx, root); err != nil && ctx.Err() == nil {
			slog.Error("watch failed", "error", err)
			closeStore()
			os.Exit(1)
		}
	}

	if traceShutdown != nil {
		if err := traceShutdown(context.Background()); err != nil {
			slog.Error("trace shutdown failed", "error", err)
		}
	}
	closeStore()

	if a.HasErrors() {
		os.Exit(1)
	}
}
