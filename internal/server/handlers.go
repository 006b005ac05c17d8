package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/zenalyze/zenalyze/internal/classify"
	"github.com/zenalyze/zenalyze/internal/models"
	"github.com/zenalyze/zenalyze/internal/report"
	"github.com/zenalyze/zenalyze/internal/storage"
	"github.com/zenalyze/zenalyze/internal/synth"
)

// periodHours maps the historico periodo token to its window.
var periodHours = map[string]int{
	"6h":  6,
	"24h": 24,
	"7d":  7 * 24,
	"30d": 30 * 24,
}

// periodWindow returns the window for a periodo token; unknown tokens mean 24h.
func periodWindow(periodo string) time.Duration {
	h, ok := periodHours[periodo]
	if !ok {
		h = 24
	}
	return time.Duration(h) * time.Hour
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": s.now(),
	})
}

func (s *Server) handleDBStatus(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.log.Error("database ping failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"connected": false,
			"error":     err.Error(),
			"timestamp": s.now(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"connected": true,
		"timestamp": s.now(),
	})
}

func (s *Server) handleTestDB(w http.ResponseWriter, r *http.Request) {
	d, err := s.store.Diagnose(r.Context())
	if err != nil {
		s.log.Error("database diagnostics failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
		*storage.Diagnostics
	}{true, d})
}

func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	reading, err := s.store.LatestReading(r.Context())
	if errors.Is(err, storage.ErrNoReadings) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "No hay datos disponibles"})
		return
	}
	if err != nil {
		s.log.Error("reading latest sensor data", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Error al obtener datos de sensores"})
		return
	}

	data := s.gen.Augment(*reading)
	c := classify.Reading(data)
	data.Clasificacion = &c
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	since := s.now().Add(-periodWindow(r.URL.Query().Get("periodo")))

	rows, err := s.store.ReadingsSince(r.Context(), since)
	if err != nil {
		s.log.Error("reading sensor history", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Error al obtener datos históricos"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"datos": s.gen.AugmentHistory(rows)})
}

func (s *Server) handleGetMood(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.moods.Get(s.now()))
}

func (s *Server) handleSetMood(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Estado string `json:"estado"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "JSON inválido: " + err.Error()})
		return
	}
	mood, err := models.ParseMood(body.Estado)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Estado inválido"})
		return
	}

	rec := s.moods.Set(mood, s.now())
	s.log.Info("mood reported", "estado", rec.Estado)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "id": rec.ID})
}

func (s *Server) handleRecentEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"eventos": synth.Events(s.now())})
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	stats, _, _, ok := s.statistics(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleStatisticsExport(w http.ResponseWriter, r *http.Request) {
	stats, start, end, ok := s.statistics(w, r)
	if !ok {
		return
	}

	name := report.Filename(start.Format(synth.DateLayout), end.Format(synth.DateLayout))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	if err := report.WriteDailyCSV(w, stats.ResumenDiario); err != nil {
		s.log.Error("writing csv export", "error", err)
	}
}

// statistics resolves the inicio/fin range and generates the summary. It
// writes the error response itself and reports ok=false when it did.
func (s *Server) statistics(w http.ResponseWriter, r *http.Request) (*models.StatisticsResponse, time.Time, time.Time, bool) {
	start, end, err := parseDateRange(r, s.now())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return nil, start, end, false
	}

	stats, err := s.gen.Statistics(start, end)
	if errors.Is(err, synth.ErrInvertedRange) || errors.Is(err, synth.ErrRangeTooLong) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return nil, start, end, false
	}
	if err != nil {
		s.log.Error("generating statistics", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Error al obtener estadísticas"})
		return nil, start, end, false
	}
	return stats, start, end, true
}

func (s *Server) handleSleep(w http.ResponseWriter, r *http.Request) {
	fecha := chi.URLParam(r, "fecha")
	if _, err := synth.ParseDate(fecha); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": synth.ErrInvalidDate.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.gen.SleepAnalysis(fecha))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// parseDateRange reads inicio and fin. When either is absent the trailing
// 30 days ending today are used.
func parseDateRange(r *http.Request, now time.Time) (start, end time.Time, err error) {
	inicio := r.URL.Query().Get("inicio")
	fin := r.URL.Query().Get("fin")
	if inicio == "" || fin == "" {
		start, end = synth.DefaultRange(now)
		return start, end, nil
	}

	if start, err = synth.ParseDate(inicio); err != nil {
		return start, end, synth.ErrInvalidDate
	}
	if end, err = synth.ParseDate(fin); err != nil {
		return start, end, synth.ErrInvalidDate
	}
	return start, end, nil
}
