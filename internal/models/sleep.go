package models

// Condition is the qualitative state of one hour of the night.
type Condition string

const (
	ConditionOptimal    Condition = "optimo"
	ConditionAcceptable Condition = "aceptable"
	ConditionPoor       Condition = "malo"
)

// FactorStats holds min/max/avg of one environmental factor over a night.
// The three values are not guaranteed to be ordered.
type FactorStats struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
}

// Factors groups the per-factor statistics of a night.
type Factors struct {
	Temperatura FactorStats `json:"temperatura"`
	Humedad     FactorStats `json:"humedad"`
	CO2         FactorStats `json:"co2"`
}

// TimelineSegment is one hour of the sleep timeline, e.g. "23:00".
type TimelineSegment struct {
	Hora      string    `json:"hora"`
	Condicion Condition `json:"condicion"`
}

// SleepAnalysis is the per-night sleep report.
type SleepAnalysis struct {
	Fecha          string            `json:"fecha"`
	Duracion       float64           `json:"duracion"`
	Calidad        float64           `json:"calidad"`
	Interrupciones int               `json:"interrupciones"`
	Factores       Factors           `json:"factores"`
	Timeline       []TimelineSegment `json:"timeline"`
}

// DayValue points at a day of the summary.
type DayValue struct {
	Fecha string `json:"fecha"`
	Valor int    `json:"valor"`
}

// Statistics aggregates a list of daily summaries.
type Statistics struct {
	PromedioCalidad int      `json:"promedio_calidad"`
	MejorDia        DayValue `json:"mejor_dia"`
	PeorDia         DayValue `json:"peor_dia"`
}

// DailySummary is one calendar day of the history view.
type DailySummary struct {
	Fecha           string  `json:"fecha"`
	Calidad         int     `json:"calidad"`
	TempPromedio    float64 `json:"temp_promedio"`
	HumedadPromedio float64 `json:"humedad_promedio"`
	EstadoAnimo     *Mood   `json:"estado_animo"`
}

// StatisticsResponse is the payload of the statistics endpoint.
type StatisticsResponse struct {
	Estadisticas  Statistics     `json:"estadisticas"`
	ResumenDiario []DailySummary `json:"resumenDiario"`
}
