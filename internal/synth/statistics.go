package synth

import (
	"math"
	"time"

	"github.com/zenalyze/zenalyze/internal/models"
)

// moodPresence is the probability that a day carries a reported mood.
const moodPresence = 0.8

// MaxRangeDays bounds the number of days one Statistics call may cover.
const MaxRangeDays = 3660

// Statistics generates one DailySummary per calendar day in [start, end] and
// the aggregate over them. start == end yields a single day. Ranges longer
// than MaxRangeDays return ErrRangeTooLong.
func (g *Generator) Statistics(start, end time.Time) (*models.StatisticsResponse, error) {
	start, end = dateOf(start), dateOf(end)
	if end.Before(start) {
		return nil, ErrInvertedRange
	}
	days := int(dayNumber(end) - dayNumber(start))
	if days >= MaxRangeDays {
		return nil, ErrRangeTooLong
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	summaries := make([]models.DailySummary, 0, days+1)
	qualities := make([]float64, 0, days+1)

	for i := 0; i <= days; i++ {
		quality := g.between(60, 35)
		qualities = append(qualities, quality)

		mood := models.Moods[g.rng.IntN(len(models.Moods))]
		day := models.DailySummary{
			Fecha:           start.AddDate(0, 0, i).Format(DateLayout),
			Calidad:         int(math.Round(quality)),
			TempPromedio:    g.between(20, 3),
			HumedadPromedio: g.between(50, 15),
		}
		if g.rng.Float64() < moodPresence {
			day.EstadoAnimo = &mood
		}
		summaries = append(summaries, day)
	}

	return &models.StatisticsResponse{
		Estadisticas:  summarize(qualities, summaries),
		ResumenDiario: summaries,
	}, nil
}

// dayNumber counts whole days since the Unix epoch for a UTC midnight.
// time.Duration overflows past roughly 292 years, so differences are taken
// on these instead.
func dayNumber(t time.Time) int64 {
	return t.Unix() / secondsPerDay
}

const secondsPerDay = 24 * 60 * 60

// summarize computes the mean quality and the first best and worst days.
// qualities holds the unrounded values parallel to days.
func summarize(qualities []float64, days []models.DailySummary) models.Statistics {
	if len(days) == 0 {
		return models.Statistics{}
	}

	var sum float64
	best, worst := 0, 0
	for i, q := range qualities {
		sum += q
		if q > qualities[best] {
			best = i
		}
		if q < qualities[worst] {
			worst = i
		}
	}

	return models.Statistics{
		PromedioCalidad: int(math.Round(sum / float64(len(qualities)))),
		MejorDia:        models.DayValue{Fecha: days[best].Fecha, Valor: days[best].Calidad},
		PeorDia:         models.DayValue{Fecha: days[worst].Fecha, Valor: days[worst].Calidad},
	}
}
