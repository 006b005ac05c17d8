package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// TableColumn describes one column of sensor_temp.
type TableColumn struct {
	ColumnName string `json:"column_name"`
	DataType   string `json:"data_type"`
	IsNullable string `json:"is_nullable"`
}

// Diagnostics is a snapshot of what the dashboard database holds.
type Diagnostics struct {
	ServerTime      time.Time        `json:"serverTime"`
	AvailableTables []string         `json:"availableTables"`
	TableStructure  []TableColumn    `json:"tableStructure"`
	SampleData      []map[string]any `json:"sampleData"`
	TotalRecords    int64            `json:"totalRecords"`
}

const sampleSize = 10

// Diagnose inspects the public schema and the sensor_temp table.
func (db *DB) Diagnose(ctx context.Context) (*Diagnostics, error) {
	d := &Diagnostics{}

	if err := db.Pool.QueryRow(ctx, `SELECT NOW()`).Scan(&d.ServerTime); err != nil {
		return nil, fmt.Errorf("querying server time: %w", err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT table_name
		 FROM information_schema.tables
		 WHERE table_schema = 'public'
		 ORDER BY table_name`)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	d.AvailableTables, err = pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scanning tables: %w", err)
	}

	rows, err = db.Pool.Query(ctx,
		`SELECT column_name, data_type, is_nullable
		 FROM information_schema.columns
		 WHERE table_name = 'sensor_temp'
		 ORDER BY ordinal_position`)
	if err != nil {
		return nil, fmt.Errorf("describing sensor_temp: %w", err)
	}
	d.TableStructure, err = pgx.CollectRows(rows, pgx.RowToStructByPos[TableColumn])
	if err != nil {
		return nil, fmt.Errorf("scanning columns: %w", err)
	}

	rows, err = db.Pool.Query(ctx,
		`SELECT * FROM sensor_temp ORDER BY recorded_at DESC LIMIT $1`, sampleSize)
	if err != nil {
		return nil, fmt.Errorf("sampling sensor_temp: %w", err)
	}
	d.SampleData, err = pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("scanning sample: %w", err)
	}

	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM sensor_temp`).Scan(&d.TotalRecords); err != nil {
		return nil, fmt.Errorf("counting sensor_temp: %w", err)
	}

	return d, nil
}
