/*
Package main is the entry point for the RoomHub server.

It loads configuration, initializes logging, opens the database pool (running
migrations), wires the stores, storage, and live hub into the HTTP router,
and handles graceful shutdown on SIGINT/SIGTERM.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roomhub/internal/app/db"
	"roomhub/internal/app/live"
	"roomhub/internal/app/storage"
	"roomhub/internal/app/store/pgstore"
	"roomhub/internal/configs"
	"roomhub/internal/handler"
	"roomhub/internal/pkg/logx"
)

func main() {
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logx.Init(cfg.IsDevelopment())
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Bool("storage_enabled", cfg.StorageEnabled()).
		Msg("configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(cfg.DatabaseDSN)
	if err != nil {
		logx.Fatal(err, "failed to initialize database")
	}
	defer pool.Close()

	deps := &handler.AppDeps{
		Config: cfg,
		Stores: pgstore.New(pool),
		Hub:    live.NewHub(),
	}

	if cfg.StorageEnabled() {
		svc, err := storage.NewService(storage.ServiceConfig{
			S3BucketName:      cfg.S3BucketName,
			S3Endpoint:        cfg.S3Endpoint,
			S3AccessKeyID:     cfg.S3AccessKeyID,
			S3SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err != nil {
			logx.Fatal(err, "failed to initialize object storage")
		}
		deps.Storage = svc
	} else {
		logx.Warn("object storage not configured; avatar uploads disabled")
	}

	router := handler.Router(deps)

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("RoomHub server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "server failed to start")
		}
	}()

	<-ctx.Done()
	logx.Info("received shutdown signal, starting graceful shutdown")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "server forced to shutdown")
	}

	deps.Hub.Shutdown()

	logx.Info("server stopped")
}
