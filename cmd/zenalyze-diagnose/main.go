// Command zenalyze-diagnose checks that the configured PostgreSQL database is
// reachable, works out whether it wants SSL, and summarizes its contents.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/zenalyze/zenalyze/internal/config"
	"github.com/zenalyze/zenalyze/internal/iot"
	"github.com/zenalyze/zenalyze/internal/models"
	"github.com/zenalyze/zenalyze/internal/storage"
)

var rule = strings.Repeat("━", 34)

func main() {
	configPath := flag.String("config", "", "path to config file (environment variables apply either way)")
	timeout := flag.Duration("timeout", 10*time.Second, "timeout for each connection attempt")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	d := cfg.Database

	fmt.Println("Diagnóstico de conexión PostgreSQL")
	fmt.Println()
	fmt.Println("Configuración actual:")
	fmt.Println(rule)
	fmt.Printf("Host:     %s\n", d.Host)
	fmt.Printf("Port:     %d\n", d.Port)
	fmt.Printf("User:     %s\n", d.User)
	fmt.Printf("Password: %s\n", d.MaskedPassword())
	fmt.Printf("Database: %s\n", d.Name)
	fmt.Printf("SSL:      %t\n", d.SSL)
	fmt.Println(rule)
	fmt.Println()

	if err := d.Validate(); err != nil {
		fmt.Printf("Configuración incompleta: %v\n", err)
		os.Exit(1)
	}

	attempts := []struct {
		label string
		ssl   bool
	}{
		{"SIN SSL", false},
		{"CON SSL", true},
	}

	for i, a := range attempts {
		fmt.Printf("Test %d: Intentando conectar %s...\n", i+1, a.label)
		db, err := connect(d.WithSSL(a.ssl), *timeout)
		if err != nil {
			fmt.Printf("  Falló conexión %s\n", strings.ToLower(a.label))
			fmt.Printf("  Error:  %v\n", err)
			if code := pgCode(err); code != "" {
				fmt.Printf("  Código: %s\n", code)
			}
			fmt.Println()
			continue
		}

		fmt.Printf("  Conexión exitosa %s\n", a.label)
		fmt.Printf("  DB_SSL debería ser %q\n\n", fmt.Sprint(a.ssl))
		report(db, d.WithSSL(a.ssl), *timeout)
		db.Close()
		return
	}

	fmt.Println(rule)
	fmt.Println("No se pudo conectar. Posibles causas:")
	fmt.Println("  1. Credenciales o nombre de base de datos incorrectos")
	fmt.Println("  2. Host incorrecto")
	fmt.Println("  3. Puerto bloqueado por el firewall del servidor")
	fmt.Println("  4. El servicio en ese puerto no es PostgreSQL")
	fmt.Println(rule)
	os.Exit(1)
}

func connect(d config.DatabaseConfig, timeout time.Duration) (*storage.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return storage.New(ctx, d.DSN())
}

// pgCode extracts the SQLSTATE of a server-side error.
func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func report(db *storage.DB, d config.DatabaseConfig, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if v, err := db.ServerVersion(ctx); err != nil {
		fmt.Printf("Versión de PostgreSQL: desconocida (%v)\n", err)
	} else {
		fmt.Printf("Versión de PostgreSQL: %s\n", v)
	}
	fmt.Println()

	fmt.Println("Lecturas de sensor_temp:")
	if latest, err := db.LatestReading(ctx); err == nil {
		fmt.Printf("  Última lectura: %.2f °C, %.2f %% a las %s\n",
			latest.Temperature, latest.Humidity, latest.RecordedAt.Format(time.RFC3339))
	} else if errors.Is(err, storage.ErrNoReadings) {
		fmt.Println("  La tabla está vacía")
	} else {
		fmt.Printf("  Error: %v\n", err)
	}

	if stats, err := db.GetReadingStats(ctx); err != nil {
		fmt.Printf("  Estadísticas no disponibles: %v\n", err)
	} else {
		fmt.Printf("  Total:            %d\n", stats.TotalReadings)
		fmt.Printf("  Temp. promedio:   %s\n", optFloat(stats.AvgTemp))
		fmt.Printf("  Humedad promedio: %s\n", optFloat(stats.AvgHumidity))
		fmt.Printf("  Primera lectura:  %s\n", optTime(stats.FirstReading))
		fmt.Printf("  Última lectura:   %s\n", optTime(stats.LastReading))
	}
	fmt.Println()

	fmt.Println("Tabla led_states:")
	store, err := iot.Open(ctx, config.DriverPostgres, d.DSN())
	if err != nil {
		fmt.Printf("  Error: %v\n", err)
		return
	}
	defer store.Close()

	state, err := store.LatestLEDState(ctx)
	switch {
	case errors.Is(err, iot.ErrNotFound):
		fmt.Println("  La tabla existe y está vacía")
	case errors.Is(err, iot.ErrNoTable):
		fmt.Println("  La tabla no existe todavía; ejecute zenalyze -migrate-only")
	case err != nil:
		fmt.Printf("  Error: %v\n", err)
	case state.Status == models.LEDOn:
		fmt.Println("  Estado actual del LED: ON")
	default:
		fmt.Println("  Estado actual del LED: OFF")
	}
}

func optFloat(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *v)
}

func optTime(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return t.Format(time.RFC3339)
}
