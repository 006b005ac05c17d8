package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/zenalyze/zenalyze/internal/models"
)

// ErrNoReadings is returned when sensor_temp holds no rows.
var ErrNoReadings = errors.New("no sensor readings")

// LatestReading returns the most recent sensor_temp row.
func (db *DB) LatestReading(ctx context.Context) (*models.Reading, error) {
	var r models.Reading
	err := db.Pool.QueryRow(ctx,
		`SELECT temperature::float8, humidity::float8, recorded_at
		 FROM sensor_temp
		 ORDER BY recorded_at DESC
		 LIMIT 1`,
	).Scan(&r.Temperature, &r.Humidity, &r.RecordedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoReadings
		}
		return nil, fmt.Errorf("querying latest reading: %w", err)
	}
	return &r, nil
}

// ReadingsSince returns all rows recorded at or after since, oldest first.
func (db *DB) ReadingsSince(ctx context.Context, since time.Time) ([]models.Reading, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT temperature::float8, humidity::float8, recorded_at
		 FROM sensor_temp
		 WHERE recorded_at >= $1
		 ORDER BY recorded_at ASC`,
		since)
	if err != nil {
		return nil, fmt.Errorf("querying readings: %w", err)
	}
	defer rows.Close()

	result := []models.Reading{}
	for rows.Next() {
		var r models.Reading
		if err := rows.Scan(&r.Temperature, &r.Humidity, &r.RecordedAt); err != nil {
			return nil, fmt.Errorf("scanning reading: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// InsertReading stores a reading. A zero RecordedAt lets the database stamp it.
func (db *DB) InsertReading(ctx context.Context, r models.Reading) error {
	var err error
	if r.RecordedAt.IsZero() {
		_, err = db.Pool.Exec(ctx,
			`INSERT INTO sensor_temp (temperature, humidity) VALUES ($1, $2)`,
			r.Temperature, r.Humidity)
	} else {
		_, err = db.Pool.Exec(ctx,
			`INSERT INTO sensor_temp (temperature, humidity, recorded_at) VALUES ($1, $2, $3)`,
			r.Temperature, r.Humidity, r.RecordedAt)
	}
	if err != nil {
		return fmt.Errorf("inserting reading: %w", err)
	}
	return nil
}

// ReadingStats summarizes the whole sensor_temp table.
type ReadingStats struct {
	TotalReadings int64      `json:"total_readings"`
	AvgTemp       *float64   `json:"avg_temp"`
	AvgHumidity   *float64   `json:"avg_humidity"`
	FirstReading  *time.Time `json:"first_reading"`
	LastReading   *time.Time `json:"last_reading"`
}

// GetReadingStats returns row count, averages and the recorded_at span.
func (db *DB) GetReadingStats(ctx context.Context) (*ReadingStats, error) {
	var s ReadingStats
	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        AVG(temperature)::float8,
		        AVG(humidity)::float8,
		        MIN(recorded_at),
		        MAX(recorded_at)
		 FROM sensor_temp`,
	).Scan(&s.TotalReadings, &s.AvgTemp, &s.AvgHumidity, &s.FirstReading, &s.LastReading)
	if err != nil {
		return nil, fmt.Errorf("querying reading stats: %w", err)
	}
	return &s, nil
}
