package models

import (
	"fmt"
	"time"
)

// Reading is a row of the sensor_temp table.
type Reading struct {
	Temperature float64
	Humidity    float64
	RecordedAt  time.Time
}

// SensorData is the current-conditions payload. Only temperature and humidity
// are measured; the remaining fields are synthesized until those sensors exist.
type SensorData struct {
	Temperatura   float64         `json:"temperatura"`
	Humedad       float64         `json:"humedad"`
	CO2           float64         `json:"co2"`
	Luz           float64         `json:"luz"`
	Movimiento    bool            `json:"movimiento"`
	Ruido         bool            `json:"ruido"`
	Timestamp     time.Time       `json:"timestamp"`
	Clasificacion *Classification `json:"clasificacion,omitempty"`
}

// Classification carries the qualitative status of each reading.
type Classification struct {
	Temperatura Status `json:"temperatura"`
	Humedad     Status `json:"humedad"`
	CO2         Status `json:"co2"`
	Luz         Status `json:"luz"`
}

// Status is a qualitative bucket. Level is one of success, warning, error,
// or empty when the bucket carries no status color.
type Status struct {
	Level string `json:"status,omitempty"`
	Label string `json:"text"`
}

// HistoricalData is one point of the historical chart.
type HistoricalData struct {
	Timestamp   time.Time `json:"timestamp"`
	Temperatura float64   `json:"temperatura"`
	Humedad     float64   `json:"humedad"`
	CO2         float64   `json:"co2"`
	Luz         float64   `json:"luz"`
}

// Mood is the self-reported well-being label.
type Mood string

const (
	MoodGood Mood = "bien"
	MoodFair Mood = "regular"
	MoodBad  Mood = "mal"
)

// Moods lists the accepted mood values in display order.
var Moods = []Mood{MoodGood, MoodFair, MoodBad}

// Valid reports whether m is one of the accepted moods.
func (m Mood) Valid() bool {
	switch m {
	case MoodGood, MoodFair, MoodBad:
		return true
	}
	return false
}

// ParseMood validates s as a mood.
func ParseMood(s string) (Mood, error) {
	m := Mood(s)
	if !m.Valid() {
		return "", fmt.Errorf("invalid mood %q", s)
	}
	return m, nil
}

// MoodRecord is the last reported mood.
type MoodRecord struct {
	ID        int64     `json:"id"`
	Estado    Mood      `json:"estado"`
	Timestamp time.Time `json:"timestamp"`
}

// EventType classifies a recent event.
type EventType string

const (
	EventMovement  EventType = "movement"
	EventNoise     EventType = "noise"
	EventThreshold EventType = "threshold"
)

// Event is an entry of the recent-events feed.
type Event struct {
	ID          int       `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Tipo        EventType `json:"tipo"`
	Descripcion string    `json:"descripcion"`
}
