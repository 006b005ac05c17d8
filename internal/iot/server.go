package iot

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zenalyze/zenalyze/internal/models"
	"github.com/zenalyze/zenalyze/internal/server"
)

// Version is reported by the root banner.
const Version = "1.0.0"

// Server is the HTTP surface of the IoT backend.
type Server struct {
	store  *Store
	log    *slog.Logger
	now    func() time.Time
	router chi.Router
}

// NewServer creates a Server with all routes configured.
func NewServer(store *Store, corsOrigin string, log *slog.Logger) *Server {
	s := &Server{
		store:  store,
		log:    log,
		now:    time.Now,
		router: chi.NewRouter(),
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(server.RequestLogging(log))
	s.router.Use(middleware.Recoverer)
	s.router.Use(server.CORS(corsOrigin))

	s.router.Get("/", s.handleRoot)
	s.router.Get("/health", s.handleHealth)
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/sensor", s.handleGetSensor)
		r.Get("/sensor/history", s.handleSensorHistory)
		r.Post("/sensor", s.handleSaveSensor)
		r.Get("/led", s.handleGetLED)
		r.Post("/led", s.handleControlLED)
	})
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type sensorJSON struct {
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	Timestamp   time.Time `json:"timestamp"`
}

func toJSON(row models.SensorRow) sensorJSON {
	return sensorJSON{Temperature: row.Temperature, Humidity: row.Humidity, Timestamp: row.RecordedAt}
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "IoT Sensor API - Server is running",
		"version": Version,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "healthy", "timestamp": s.now().UTC()})
}

func (s *Server) handleGetSensor(w http.ResponseWriter, r *http.Request) {
	row, err := s.store.LatestReading(r.Context())
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "No sensor data found")
		return
	}
	if err != nil {
		s.log.Error("fetching sensor data", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch sensor data")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"temperature": row.Temperature,
		"humidity":    row.Humidity,
		"timestamp":   row.RecordedAt,
	})
}

func (s *Server) handleSensorHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	rows, err := s.store.History(r.Context(), limit)
	if err != nil {
		s.log.Error("fetching sensor history", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch sensor history")
		return
	}
	data := make([]sensorJSON, 0, len(rows))
	for _, row := range rows {
		data = append(data, toJSON(row))
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": data})
}

func (s *Server) handleSaveSensor(w http.ResponseWriter, r *http.Request) {
	fields, err := readFields(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	tempStr, okT := fields["temperature"]
	humStr, okH := fields["humidity"]
	if !okT || !okH {
		writeError(w, http.StatusBadRequest, "Temperature and humidity are required")
		return
	}
	temp, errT := strconv.ParseFloat(tempStr, 64)
	hum, errH := strconv.ParseFloat(humStr, 64)
	if errT != nil || errH != nil {
		writeError(w, http.StatusBadRequest, "Temperature and humidity must be numbers")
		return
	}

	row := models.SensorRow{Temperature: temp, Humidity: hum, RecordedAt: s.now().UTC()}
	if err := s.store.InsertReading(r.Context(), row); err != nil {
		s.log.Error("saving sensor data", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save sensor data")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Sensor data saved successfully",
		"data":    toJSON(row),
	})
}

func (s *Server) handleControlLED(w http.ResponseWriter, r *http.Request) {
	fields, err := readFields(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	action := fields["action"]
	if action != "on" && action != "off" {
		writeError(w, http.StatusBadRequest, `Invalid action. Use "on" or "off"`)
		return
	}

	status := models.LEDOff
	if action == "on" {
		status = models.LEDOn
	}
	row, err := s.store.InsertLEDState(r.Context(), status, s.now().UTC())
	if err != nil {
		s.log.Error("controlling led", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to control LED")
		return
	}
	s.log.Info("led state changed", "status", action, "id", row.ID)

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "LED turned " + action,
		"status":    action,
		"timestamp": row.Timestamp,
	})
}

func (s *Server) handleGetLED(w http.ResponseWriter, r *http.Request) {
	row, err := s.store.LatestLEDState(r.Context())
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"status":  "off",
			"message": "No LED status found, defaulting to off",
		})
		return
	}
	if err != nil {
		s.log.Error("fetching led status", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch LED status")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"status":    ledLabel(row.Status),
		"timestamp": row.Timestamp,
	})
}

func ledLabel(status int) string {
	if status == models.LEDOn {
		return "on"
	}
	return "off"
}

// readFields accepts a JSON object or a urlencoded form. JSON numbers and
// strings are both returned in their text form.
func readFields(r *http.Request) (map[string]string, error) {
	fields := map[string]string{}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		for k, v := range body {
			switch v := v.(type) {
			case nil:
			case string:
				fields[k] = v
			case float64:
				fields[k] = strconv.FormatFloat(v, 'f', -1, 64)
			default:
				fields[k] = fmt.Sprint(v)
			}
		}
		return fields, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("invalid form: %w", err)
	}
	for k := range r.PostForm {
		fields[k] = r.PostForm.Get(k)
	}
	return fields, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}
