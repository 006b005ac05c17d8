package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/zenalyze/zenalyze/internal/config"
	"github.com/zenalyze/zenalyze/internal/server"
	"github.com/zenalyze/zenalyze/internal/storage"
	"github.com/zenalyze/zenalyze/internal/synth"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

const seedInterval = 5 * time.Minute

func main() {
	configPath := flag.String("config", "", "path to config file (environment variables apply either way)")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	migrationsDir := flag.String("migrations", "migrations", "path to the migrations directory")
	seed := flag.Int("seed", 0, "insert this many synthetic readings, five minutes apart and ending now, then exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("Zenalyze starting", "version", Version)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.Development() {
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	if err := cfg.Database.Validate(); err != nil {
		log.Error("invalid database config", "error", err)
		os.Exit(1)
	}

	// Run migrations
	if err := storage.RunMigrations(cfg.Database.DSN(), *migrationsDir); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	// Connect database
	ctx := context.Background()
	db, err := storage.New(ctx, cfg.Database.PoolDSN())
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected", "database", cfg.Database.Name, "host", cfg.Database.Host)

	gen := synth.NewRandom()

	if *seed > 0 {
		if err := seedReadings(ctx, db, gen, *seed); err != nil {
			log.Error("seeding failed", "error", err)
			os.Exit(1)
		}
		log.Info("seeded readings", "count", *seed)
		return
	}

	listener, closeListener, err := listen(cfg, log)
	if err != nil {
		log.Error("listen failed", "error", err)
		os.Exit(1)
	}
	defer closeListener()

	httpSrv := &http.Server{
		Handler:           server.New(db, gen, cfg.Server.CORSOrigin, log),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}

// listen opens the tailnet listener when Tailscale is enabled and a TCP
// listener on the configured host and port otherwise. The returned func
// stops the tsnet node.
func listen(cfg *config.Config, log *slog.Logger) (net.Listener, func(), error) {
	if !cfg.Tailscale.Enabled {
		addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return nil, nil, fmt.Errorf("listening on %s: %w", addr, err)
		}
		log.Info("server starting", "addr", addr, "environment", cfg.Server.Environment)
		return ln, func() {}, nil
	}

	ts := &tsnet.Server{
		Hostname: cfg.Tailscale.Hostname,
		Dir:      cfg.Tailscale.StateDir,
	}
	if err := ts.Start(); err != nil {
		return nil, nil, fmt.Errorf("starting tsnet: %w", err)
	}
	ln, err := ts.Listen("tcp", ":80")
	if err != nil {
		ts.Close()
		return nil, nil, fmt.Errorf("tsnet listen: %w", err)
	}
	log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	return ln, func() { ts.Close() }, nil
}

// seedReadings inserts n synthetic readings ending now.
func seedReadings(ctx context.Context, db *storage.DB, gen *synth.Generator, n int) error {
	for _, r := range gen.Readings(time.Now(), n, seedInterval) {
		if err := db.InsertReading(ctx, r); err != nil {
			return err
		}
	}
	return nil
}
