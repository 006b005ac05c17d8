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
	"time"

	"github.com/zenalyze/zenalyze/internal/config"
	"github.com/zenalyze/zenalyze/internal/iot"
	"github.com/zenalyze/zenalyze/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "", "path to config file (environment variables apply either way)")
	migrationsDir := flag.String("migrations", "migrations", "path to the migrations directory (postgres driver only)")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("Zenalyze IoT backend starting", "version", Version, "api_version", iot.Version)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	var dsn string
	switch cfg.IoT.Driver {
	case config.DriverPostgres:
		if err := cfg.Database.Validate(); err != nil {
			log.Error("invalid database config", "error", err)
			os.Exit(1)
		}
		dsn = cfg.Database.DSN()
		if err := storage.RunMigrations(dsn, *migrationsDir); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("migrations applied")
	case config.DriverSQLite:
		dsn = cfg.IoT.SQLitePath
	}

	// Test the connection before listening
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := iot.Open(ctx, cfg.IoT.Driver, dsn)
	if err == nil {
		err = store.Ping(ctx)
	}
	cancel()
	if err != nil {
		log.Error("failed to connect database", "driver", cfg.IoT.Driver, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	log.Info("database connected", "driver", cfg.IoT.Driver)

	addr := fmt.Sprintf("%s:%d", cfg.IoT.Host, cfg.IoT.Port)
	httpSrv := &http.Server{
		Addr:    addr,
		Handler: iot.NewServer(store, cfg.IoT.CORSOrigin, log),
	}

	go func() {
		log.Info("server starting", "addr", addr, "environment", cfg.Server.Environment)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
