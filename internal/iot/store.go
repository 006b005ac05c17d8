// Package iot is the standalone LED and sensor backend used by the device
// side of the installation. It shares the sensor_temp table with the
// dashboard and owns led_states.
package iot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/zenalyze/zenalyze/internal/config"
	"github.com/zenalyze/zenalyze/internal/models"
)

// ErrNotFound is returned when a table holds no rows.
var ErrNotFound = errors.New("not found")

// ErrNoTable is returned when the queried table has not been created yet.
var ErrNoTable = errors.New("table does not exist")

// undefinedTable is the PostgreSQL SQLSTATE for a missing relation.
const undefinedTable = "42P01"

func isUndefinedTable(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == undefinedTable
	}
	return strings.Contains(err.Error(), "no such table")
}

// DefaultHistoryLimit is used when the caller gives no usable limit.
const DefaultHistoryLimit = 100

func init() {
	sqlx.BindDriver(config.DriverSQLite, sqlx.QUESTION)
}

// sqliteSchema mirrors the PostgreSQL migrations for file-backed installs.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS sensor_temp (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		temperature REAL NOT NULL,
		humidity    REAL NOT NULL,
		recorded_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sensor_temp_recorded_at ON sensor_temp (recorded_at)`,
	`CREATE TABLE IF NOT EXISTS led_states (
		id        TEXT PRIMARY KEY,
		status    INTEGER NOT NULL CHECK (status IN (0, 1)),
		timestamp TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_led_states_timestamp ON led_states (timestamp)`,
}

// Store reads and writes the IoT tables through sqlx.
type Store struct {
	db *sqlx.DB
}

// Open connects with the given driver ("postgres" or "sqlite"). The sqlite
// schema is created on open; PostgreSQL relies on the migrations.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", driver, err)
	}

	if driver == config.DriverSQLite {
		db.SetMaxOpenConns(1)
		for _, stmt := range sqliteSchema {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				db.Close()
				return nil, fmt.Errorf("creating sqlite schema: %w", err)
			}
		}
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// LatestReading returns the newest sensor_temp row.
func (s *Store) LatestReading(ctx context.Context) (*models.SensorRow, error) {
	var row models.SensorRow
	err := s.db.GetContext(ctx, &row,
		`SELECT temperature, humidity, recorded_at
		 FROM sensor_temp
		 ORDER BY recorded_at DESC
		 LIMIT 1`)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying latest reading: %w", err)
	}
	return &row, nil
}

// History returns up to limit rows, newest first.
func (s *Store) History(ctx context.Context, limit int) ([]models.SensorRow, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	rows := []models.SensorRow{}
	err := s.db.SelectContext(ctx, &rows, s.db.Rebind(
		`SELECT temperature, humidity, recorded_at
		 FROM sensor_temp
		 ORDER BY recorded_at DESC
		 LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("querying reading history: %w", err)
	}
	return rows, nil
}

// InsertReading stores a reading taken at the given time.
func (s *Store) InsertReading(ctx context.Context, row models.SensorRow) error {
	_, err := s.db.NamedExecContext(ctx,
		`INSERT INTO sensor_temp (temperature, humidity, recorded_at)
		 VALUES (:temperature, :humidity, :recorded_at)`, row)
	if err != nil {
		return fmt.Errorf("inserting reading: %w", err)
	}
	return nil
}

// InsertLEDState records a new LED state with a fresh id.
func (s *Store) InsertLEDState(ctx context.Context, status int, at time.Time) (*models.LEDStateRow, error) {
	row := &models.LEDStateRow{ID: uuid.New(), Status: status, Timestamp: at}
	_, err := s.db.NamedExecContext(ctx,
		`INSERT INTO led_states (id, status, timestamp)
		 VALUES (:id, :status, :timestamp)`, row)
	if err != nil {
		return nil, fmt.Errorf("inserting led state: %w", err)
	}
	return row, nil
}

// LatestLEDState returns the newest led_states row.
func (s *Store) LatestLEDState(ctx context.Context) (*models.LEDStateRow, error) {
	var row models.LEDStateRow
	err := s.db.GetContext(ctx, &row,
		`SELECT id, status, timestamp
		 FROM led_states
		 ORDER BY timestamp DESC
		 LIMIT 1`)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		if isUndefinedTable(err) {
			return nil, fmt.Errorf("querying led state: %w: %w", ErrNoTable, err)
		}
		return nil, fmt.Errorf("querying led state: %w", err)
	}
	return &row, nil
}

// LEDStateCount returns the number of recorded LED states.
func (s *Store) LEDStateCount(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM led_states`); err != nil {
		return 0, fmt.Errorf("counting led states: %w", err)
	}
	return n, nil
}
