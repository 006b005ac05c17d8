package mcp

import (
	"context"

	"github.com/zenalyze/zenalyze/internal/client"
	"github.com/zenalyze/zenalyze/internal/models"
)

// DataSource abstracts the dashboard API for MCP tools. *client.Client
// satisfies it by calling a running dashboard over HTTP.
type DataSource interface {
	Current(ctx context.Context) (*models.SensorData, error)
	History(ctx context.Context, periodo string) ([]models.HistoricalData, error)
	Statistics(ctx context.Context, inicio, fin string) (*models.StatisticsResponse, error)
	SleepAnalysis(ctx context.Context, fecha string) (*models.SleepAnalysis, error)
	Events(ctx context.Context) ([]models.Event, error)
	Mood(ctx context.Context) (*models.MoodRecord, error)
	SetMood(ctx context.Context, mood models.Mood) (int64, error)
}

// Compile-time check: *client.Client satisfies DataSource.
var _ DataSource = (*client.Client)(nil)
