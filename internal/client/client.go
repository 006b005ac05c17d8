// Package client is a typed client of the dashboard REST API plus the
// polling and formatting helpers used by dashboard views.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zenalyze/zenalyze/internal/models"
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Path    string
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("client: %s returned %d: %s", e.Path, e.Code, e.Message)
}

// Client calls the dashboard REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client targeting the given base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// DBStatus is the database connectivity report.
type DBStatus struct {
	Connected bool      `json:"connected"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (c *Client) send(ctx context.Context, method, path string, params url.Values, in any) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reqBody io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("client: encode request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, fmt.Errorf("client: create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("client: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return body, &StatusError{Path: path, Code: resp.StatusCode, Message: errorMessage(body)}
	}
	return body, nil
}

// errorMessage extracts the "error" field of a JSON error body, falling back
// to the raw body.
func errorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(body))
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	body, err := c.send(ctx, http.MethodGet, path, params, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("client: decode %s: %w", path, err)
	}
	return nil
}

// Current returns the latest classified reading.
func (c *Client) Current(ctx context.Context) (*models.SensorData, error) {
	var data models.SensorData
	if err := c.get(ctx, "/api/sensores/current", nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// History returns the chart points for a periodo token (6h, 24h, 7d, 30d).
func (c *Client) History(ctx context.Context, periodo string) ([]models.HistoricalData, error) {
	params := url.Values{}
	if periodo != "" {
		params.Set("periodo", periodo)
	}
	var resp struct {
		Datos []models.HistoricalData `json:"datos"`
	}
	if err := c.get(ctx, "/api/sensores/historico", params, &resp); err != nil {
		return nil, err
	}
	return resp.Datos, nil
}

// Statistics returns the summary for inicio..fin. Empty dates request the
// server's default window.
func (c *Client) Statistics(ctx context.Context, inicio, fin string) (*models.StatisticsResponse, error) {
	params := url.Values{}
	if inicio != "" && fin != "" {
		params.Set("inicio", inicio)
		params.Set("fin", fin)
	}
	var stats models.StatisticsResponse
	if err := c.get(ctx, "/api/estadisticas", params, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// SleepAnalysis returns the report for the night of fecha (YYYY-MM-DD).
func (c *Client) SleepAnalysis(ctx context.Context, fecha string) (*models.SleepAnalysis, error) {
	var a models.SleepAnalysis
	if err := c.get(ctx, "/api/sueno/"+url.PathEscape(fecha), nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Events returns the recent-events feed.
func (c *Client) Events(ctx context.Context) ([]models.Event, error) {
	var resp struct {
		Eventos []models.Event `json:"eventos"`
	}
	if err := c.get(ctx, "/api/eventos/recientes", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Eventos, nil
}

// Mood returns the last reported mood.
func (c *Client) Mood(ctx context.Context) (*models.MoodRecord, error) {
	var m models.MoodRecord
	if err := c.get(ctx, "/api/estado", nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// SetMood reports a mood and returns the id assigned to it.
func (c *Client) SetMood(ctx context.Context, mood models.Mood) (int64, error) {
	body, err := c.send(ctx, http.MethodPost, "/api/estado", nil, map[string]string{"estado": string(mood)})
	if err != nil {
		return 0, err
	}
	var resp struct {
		Success bool  `json:"success"`
		ID      int64 `json:"id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("client: decode /api/estado: %w", err)
	}
	return resp.ID, nil
}

// DBStatus reports database connectivity. A 503 from the server is not an
// error: it is returned as a status with Connected false.
func (c *Client) DBStatus(ctx context.Context) (*DBStatus, error) {
	body, err := c.send(ctx, http.MethodGet, "/api/db-status", nil, nil)
	var se *StatusError
	if err != nil && !(errors.As(err, &se) && se.Code == http.StatusServiceUnavailable) {
		return nil, err
	}
	var st DBStatus
	if jerr := json.Unmarshal(body, &st); jerr != nil {
		return nil, fmt.Errorf("client: decode /api/db-status: %w", jerr)
	}
	if !st.Connected && st.Error == "" && se != nil {
		st.Error = se.Message
	}
	return &st, nil
}
