package synth

import (
	"time"

	"github.com/zenalyze/zenalyze/internal/models"
)

// eventTemplates rotate through the recent-events feed.
var eventTemplates = []struct {
	tipo models.EventType
	desc string
}{
	{models.EventMovement, "Movimiento detectado en habitación"},
	{models.EventNoise, "Nivel de ruido elevado"},
	{models.EventThreshold, "CO2 superó umbral recomendado"},
	{models.EventThreshold, "Temperatura fuera de rango óptimo"},
	{models.EventMovement, "Actividad registrada"},
}

const (
	recentEventCount    = 10
	recentEventInterval = 30 * time.Minute
)

// Events returns the recent-events feed counting back from now.
func Events(now time.Time) []models.Event {
	events := make([]models.Event, 0, recentEventCount)
	for i := range recentEventCount {
		tpl := eventTemplates[i%len(eventTemplates)]
		events = append(events, models.Event{
			ID:          i + 1,
			Timestamp:   now.Add(-time.Duration(i) * recentEventInterval),
			Tipo:        tpl.tipo,
			Descripcion: tpl.desc,
		})
	}
	return events
}

// Augment fills the unmeasured fields of a reading with mock values.
func (g *Generator) Augment(r models.Reading) models.SensorData {
	g.mu.Lock()
	defer g.mu.Unlock()

	return models.SensorData{
		Temperatura: r.Temperature,
		Humedad:     r.Humidity,
		CO2:         g.co2(),
		Luz:         g.light(),
		Movimiento:  g.rng.Float64() > 0.7,
		Ruido:       g.rng.Float64() > 0.8,
		Timestamp:   r.RecordedAt,
	}
}

// AugmentHistory maps readings to chart points with mock co2 and light.
func (g *Generator) AugmentHistory(rows []models.Reading) []models.HistoricalData {
	g.mu.Lock()
	defer g.mu.Unlock()

	points := make([]models.HistoricalData, 0, len(rows))
	for _, r := range rows {
		points = append(points, models.HistoricalData{
			Timestamp:   r.RecordedAt,
			Temperatura: r.Temperature,
			Humedad:     r.Humidity,
			CO2:         g.co2(),
			Luz:         g.light(),
		})
	}
	return points
}

// co2 draws around 420 ppm, ±25.
func (g *Generator) co2() float64 { return g.between(395, 50) }

// light draws around 340 lux, ±50.
func (g *Generator) light() float64 { return g.between(290, 100) }

// Readings returns n temperature and humidity readings spaced step apart,
// oldest first, the last one taken at now.
func (g *Generator) Readings(now time.Time, n int, step time.Duration) []models.Reading {
	g.mu.Lock()
	defer g.mu.Unlock()

	rows := make([]models.Reading, 0, max(n, 0))
	for i := n - 1; i >= 0; i-- {
		rows = append(rows, models.Reading{
			Temperature: g.between(19, 6),
			Humidity:    g.between(40, 25),
			RecordedAt:  now.Add(-time.Duration(i) * step),
		})
	}
	return rows
}
