package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/outbreaklab/epidemic-core/internal/epidemicd"
	"github.com/outbreaklab/epidemic-core/internal/storage"
	"github.com/outbreaklab/epidemic-core/pkg/logger"
)

func main() {
	var httpAddr string
	var logLevel string
	var storeKind string
	var storePath string

	flag.StringVar(&httpAddr, "http-addr", ":8080", "HTTP listen address")
	flag.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flag.StringVar(&storeKind, "store", "memory", "run archive backend (memory, sqlite)")
	flag.StringVar(&storePath, "store-path", "epidemic-runs.db", "sqlite database path for -store sqlite")
	flag.Parse()

	logger.SetDefault(logger.NewText(logLevel, os.Stdout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	archive, err := storage.NewStore(storeKind, storePath)
	if err != nil {
		logger.Error("failed to build archive store", "store", storeKind, "error", err)
		stop()
		os.Exit(1)
	}
	if err := archive.Init(ctx); err != nil {
		logger.Error("failed to initialize archive store", "store", storeKind, "error", err)
		stop()
		os.Exit(1)
	}

	store := epidemicd.NewRunStore()
	executor := epidemicd.NewRunExecutor(store, archive)

	httpSrv := &http.Server{
		Addr:              httpAddr,
		Handler:           epidemicd.NewHTTPServer(store, executor, archive).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info("HTTP server listening", "addr", httpAddr, "store", storeKind)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown requested")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown error", "error", err)
	}
	if err := storage.CloseIfSupported(archive); err != nil {
		logger.Error("archive close error", "error", err)
	}
}
