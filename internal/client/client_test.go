package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/zenalyze/zenalyze/internal/models"
)

// newTestServer routes requests to handler functions keyed by path.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			t.Errorf("unexpected request path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Error(err)
	}
}

func TestCurrent(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/sensores/current": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, http.StatusOK, models.SensorData{Temperatura: 22.5, Humedad: 48})
		},
	})

	data, err := New(ts.URL + "/").Current(context.Background())
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if data.Temperatura != 22.5 || data.Humedad != 48 {
		t.Errorf("data = %+v", data)
	}
}

// TestStatusError verifies that a non-2xx response surfaces the server's message.
func TestStatusError(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/sensores/current": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, http.StatusNotFound, map[string]string{"error": "No hay datos disponibles"})
		},
	})

	_, err := New(ts.URL).Current(context.Background())
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *StatusError", err)
	}
	if se.Code != http.StatusNotFound || se.Message != "No hay datos disponibles" {
		t.Errorf("StatusError = %+v", se)
	}
}

func TestHistorySendsPeriodo(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/sensores/historico": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("periodo"); got != "7d" {
				t.Errorf("periodo = %q, want 7d", got)
			}
			writeTestJSON(t, w, http.StatusOK, map[string]any{"datos": []models.HistoricalData{{Temperatura: 21}, {Temperatura: 22}}})
		},
	})

	points, err := New(ts.URL).History(context.Background(), "7d")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(points) != 2 {
		t.Errorf("len = %d, want 2", len(points))
	}
}

func TestStatisticsParams(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/estadisticas": func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("inicio") != "2024-01-01" || q.Get("fin") != "2024-01-31" {
				t.Errorf("query = %v", q)
			}
			writeTestJSON(t, w, http.StatusOK, models.StatisticsResponse{
				Estadisticas: models.Statistics{PromedioCalidad: 78},
			})
		},
	})

	stats, err := New(ts.URL).Statistics(context.Background(), "2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if stats.Estadisticas.PromedioCalidad != 78 {
		t.Errorf("promedio = %d", stats.Estadisticas.PromedioCalidad)
	}
}

func TestSleepAnalysisPath(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/sueno/2024-01-15": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, http.StatusOK, models.SleepAnalysis{Fecha: "2024-01-15", Duracion: 7.5})
		},
	})

	a, err := New(ts.URL).SleepAnalysis(context.Background(), "2024-01-15")
	if err != nil {
		t.Fatalf("SleepAnalysis: %v", err)
	}
	if a.Duracion != 7.5 {
		t.Errorf("duracion = %v", a.Duracion)
	}
}

// TestSetMood verifies the request body and the returned id.
func TestSetMood(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/estado": func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("method = %s, want POST", r.Method)
			}
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			if body["estado"] != "mal" {
				t.Errorf("estado = %q", body["estado"])
			}
			writeTestJSON(t, w, http.StatusOK, map[string]any{"success": true, "id": 1710504000000})
		},
	})

	id, err := New(ts.URL).SetMood(context.Background(), models.MoodBad)
	if err != nil {
		t.Fatalf("SetMood: %v", err)
	}
	if id != 1710504000000 {
		t.Errorf("id = %d", id)
	}
}

// TestDBStatusDown verifies a 503 is reported as a disconnected status, not an error.
func TestDBStatusDown(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/db-status": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, http.StatusServiceUnavailable, map[string]any{
				"connected": false,
				"error":     "connection refused",
				"timestamp": time.Now(),
			})
		},
	})

	st, err := New(ts.URL).DBStatus(context.Background())
	if err != nil {
		t.Fatalf("DBStatus: %v", err)
	}
	if st.Connected || st.Error != "connection refused" {
		t.Errorf("status = %+v", st)
	}
}

func TestDBStatusServerError(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/db-status": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad gateway", http.StatusBadGateway)
		},
	})

	if _, err := New(ts.URL).DBStatus(context.Background()); err == nil {
		t.Fatal("expected error for 502")
	}
}

func TestEventsAndMood(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/eventos/recientes": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, http.StatusOK, map[string]any{"eventos": []models.Event{{ID: 1, Tipo: models.EventNoise}}})
		},
		"/api/estado": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, http.StatusOK, models.MoodRecord{ID: 1, Estado: models.MoodGood})
		},
	})
	c := New(ts.URL)

	events, err := c.Events(context.Background())
	if err != nil || len(events) != 1 || events[0].Tipo != models.EventNoise {
		t.Errorf("Events = %+v, %v", events, err)
	}
	mood, err := c.Mood(context.Background())
	if err != nil || mood.Estado != models.MoodGood {
		t.Errorf("Mood = %+v, %v", mood, err)
	}
}
