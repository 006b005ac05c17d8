package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/zenalyze/zenalyze/internal/models"
)

type fakeDataSource struct {
	current  *models.SensorData
	err      error
	periodo  string
	inicio   string
	fin      string
	setMood  models.Mood
	setCalls int
}

func (f *fakeDataSource) Current(ctx context.Context) (*models.SensorData, error) {
	return f.current, f.err
}

func (f *fakeDataSource) History(ctx context.Context, periodo string) ([]models.HistoricalData, error) {
	f.periodo = periodo
	return []models.HistoricalData{{Temperatura: 21}}, f.err
}

func (f *fakeDataSource) Statistics(ctx context.Context, inicio, fin string) (*models.StatisticsResponse, error) {
	f.inicio, f.fin = inicio, fin
	return &models.StatisticsResponse{Estadisticas: models.Statistics{PromedioCalidad: 80}}, f.err
}

func (f *fakeDataSource) SleepAnalysis(ctx context.Context, fecha string) (*models.SleepAnalysis, error) {
	return &models.SleepAnalysis{Fecha: fecha}, f.err
}

func (f *fakeDataSource) Events(ctx context.Context) ([]models.Event, error) {
	return []models.Event{{ID: 1, Tipo: models.EventMovement}}, f.err
}

func (f *fakeDataSource) Mood(ctx context.Context) (*models.MoodRecord, error) {
	return &models.MoodRecord{ID: 1, Estado: models.MoodGood}, f.err
}

func (f *fakeDataSource) SetMood(ctx context.Context, mood models.Mood) (int64, error) {
	f.setMood = mood
	f.setCalls++
	return 1710504000000, f.err
}

func newHandlers(ds DataSource) *handlers {
	return &handlers{ds: ds, log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	for _, c := range res.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	t.Fatal("result has no text content")
	return ""
}

// TestNewRegistersTools verifies the server builds without panicking.
func TestNewRegistersTools(t *testing.T) {
	if s := New(&fakeDataSource{}, "test", slog.New(slog.NewTextHandler(io.Discard, nil))); s == nil {
		t.Fatal("New returned nil")
	}
}

func TestGetCurrentReading(t *testing.T) {
	h := newHandlers(&fakeDataSource{current: &models.SensorData{Temperatura: 22}})
	res, err := h.getCurrentReading(context.Background(), callRequest(nil))
	if err != nil || res.IsError {
		t.Fatalf("result = %+v, %v", res, err)
	}
	var data models.SensorData
	if err := json.Unmarshal([]byte(resultText(t, res)), &data); err != nil {
		t.Fatal(err)
	}
	if data.Temperatura != 22 {
		t.Errorf("temperatura = %v", data.Temperatura)
	}
}

func TestGetCurrentReadingError(t *testing.T) {
	h := newHandlers(&fakeDataSource{err: errors.New("connection refused")})
	res, err := h.getCurrentReading(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !res.IsError {
		t.Error("expected tool error result")
	}
}

// TestGetHistoryDefaultPeriod verifies the periodo default.
func TestGetHistoryDefaultPeriod(t *testing.T) {
	ds := &fakeDataSource{}
	h := newHandlers(ds)
	if _, err := h.getHistory(context.Background(), callRequest(nil)); err != nil {
		t.Fatal(err)
	}
	if ds.periodo != "24h" {
		t.Errorf("periodo = %q, want 24h", ds.periodo)
	}
}

// TestGetStatisticsValidation verifies date checks before the data source is called.
func TestGetStatisticsValidation(t *testing.T) {
	tests := []struct {
		name    string
		args    map[string]any
		wantErr bool
	}{
		{"defaults", nil, false},
		{"explicit", map[string]any{"inicio": "2024-01-01", "fin": "2024-01-31"}, false},
		{"only inicio", map[string]any{"inicio": "2024-01-01"}, true},
		{"bad date", map[string]any{"inicio": "2024-13-40", "fin": "2024-12-31"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := &fakeDataSource{}
			res, err := newHandlers(ds).getStatistics(context.Background(), callRequest(tt.args))
			if err != nil {
				t.Fatal(err)
			}
			if res.IsError != tt.wantErr {
				t.Errorf("IsError = %v, want %v", res.IsError, tt.wantErr)
			}
		})
	}
}

func TestGetSleepAnalysis(t *testing.T) {
	h := newHandlers(&fakeDataSource{})

	res, err := h.getSleepAnalysis(context.Background(), callRequest(map[string]any{"fecha": "2024-01-15"}))
	if err != nil || res.IsError {
		t.Fatalf("result = %+v, %v", res, err)
	}

	res, _ = h.getSleepAnalysis(context.Background(), callRequest(nil))
	if !res.IsError {
		t.Error("missing fecha should be a tool error")
	}
	res, _ = h.getSleepAnalysis(context.Background(), callRequest(map[string]any{"fecha": "15/01/2024"}))
	if !res.IsError {
		t.Error("bad fecha should be a tool error")
	}
}

// TestSetMood verifies valid moods reach the data source and invalid ones do not.
func TestSetMood(t *testing.T) {
	ds := &fakeDataSource{}
	h := newHandlers(ds)

	res, err := h.setMood(context.Background(), callRequest(map[string]any{"estado": "regular"}))
	if err != nil || res.IsError {
		t.Fatalf("result = %+v, %v", res, err)
	}
	if ds.setMood != models.MoodFair {
		t.Errorf("mood = %q, want regular", ds.setMood)
	}

	res, _ = h.setMood(context.Background(), callRequest(map[string]any{"estado": "feliz"}))
	if !res.IsError {
		t.Error("invalid estado should be a tool error")
	}
	if ds.setCalls != 1 {
		t.Errorf("SetMood calls = %d, want 1", ds.setCalls)
	}
}

func TestResources(t *testing.T) {
	h := newHandlers(&fakeDataSource{current: &models.SensorData{Temperatura: 21, Timestamp: time.Now()}})

	var req mcp.ReadResourceRequest
	req.Params.URI = "zenalyze://current"
	contents, err := h.current(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	text := contents[0].(mcp.TextResourceContents).Text
	var body struct {
		Reading models.SensorData `json:"reading"`
		Mood    models.MoodRecord `json:"mood"`
	}
	if err := json.Unmarshal([]byte(text), &body); err != nil {
		t.Fatal(err)
	}
	if body.Reading.Temperatura != 21 || body.Mood.Estado != models.MoodGood {
		t.Errorf("body = %+v", body)
	}

	req.Params.URI = "zenalyze://recent_events"
	contents, err = h.recentEvents(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if uri := contents[0].(mcp.TextResourceContents).URI; uri != "zenalyze://recent_events" {
		t.Errorf("uri = %q", uri)
	}
}
