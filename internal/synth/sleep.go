package synth

import (
	"fmt"

	"github.com/zenalyze/zenalyze/internal/models"
)

const (
	nightStartHour = 22
	nightHours     = 11 // 22:00 through 08:00 inclusive
	sleepDuration  = 7.5
)

// factorRange bounds the independent min/max/avg draws of one factor.
type factorRange struct {
	minLo, minSpan float64
	maxLo, maxSpan float64
	avgLo, avgSpan float64
}

var (
	temperatureRange = factorRange{19, 2, 21, 2, 20, 1.5}
	humidityRange    = factorRange{50, 5, 60, 5, 55, 5}
	co2Range         = factorRange{400, 50, 600, 100, 500, 80}
)

// SleepAnalysis generates the report for the night starting on fecha.
// fecha is echoed back as given; callers validate it with ParseDate.
func (g *Generator) SleepAnalysis(fecha string) models.SleepAnalysis {
	g.mu.Lock()
	defer g.mu.Unlock()

	timeline := make([]models.TimelineSegment, 0, nightHours)
	for h := range nightHours {
		hour := (nightStartHour + h) % 24
		timeline = append(timeline, models.TimelineSegment{
			Hora:      fmt.Sprintf("%02d:00", hour),
			Condicion: conditionFor(g.rng.Float64()),
		})
	}

	return models.SleepAnalysis{
		Fecha:          fecha,
		Duracion:       sleepDuration,
		Calidad:        g.between(75, 15),
		Interrupciones: g.rng.IntN(5) + 1,
		Factores: models.Factors{
			Temperatura: g.factor(temperatureRange),
			Humedad:     g.factor(humidityRange),
			CO2:         g.factor(co2Range),
		},
		Timeline: timeline,
	}
}

// conditionFor buckets a uniform draw: ~15% poor, ~15% acceptable, ~70% optimal.
func conditionFor(draw float64) models.Condition {
	switch {
	case draw > 0.85:
		return models.ConditionPoor
	case draw > 0.70:
		return models.ConditionAcceptable
	}
	return models.ConditionOptimal
}

func (g *Generator) factor(r factorRange) models.FactorStats {
	return models.FactorStats{
		Min: g.between(r.minLo, r.minSpan),
		Max: g.between(r.maxLo, r.maxSpan),
		Avg: g.between(r.avgLo, r.avgSpan),
	}
}
