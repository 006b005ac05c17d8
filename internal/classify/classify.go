// Package classify maps raw environmental readings to the qualitative
// buckets shown on the dashboard cards.
package classify

import "github.com/zenalyze/zenalyze/internal/models"

// Status levels.
const (
	LevelSuccess = "success"
	LevelWarning = "warning"
	LevelError   = "error"
)

// Temperature: [20,24] °C optimal, (24,26] high, anything else out of range.
func Temperature(c float64) models.Status {
	switch {
	case c >= 20 && c <= 24:
		return models.Status{Level: LevelSuccess, Label: "Óptima"}
	case c > 24 && c <= 26:
		return models.Status{Level: LevelWarning, Label: "Alta"}
	}
	return models.Status{Level: LevelError, Label: "Fuera de rango"}
}

// Humidity: [40,60] % optimal, (60,70] high, anything else out of range.
func Humidity(pct float64) models.Status {
	switch {
	case pct >= 40 && pct <= 60:
		return models.Status{Level: LevelSuccess, Label: "Óptima"}
	case pct > 60 && pct <= 70:
		return models.Status{Level: LevelWarning, Label: "Alta"}
	}
	return models.Status{Level: LevelError, Label: "Fuera de rango"}
}

// CO2 in ppm: below 800 good, below 1200 moderate, otherwise poor.
func CO2(ppm float64) models.Status {
	switch {
	case ppm < 800:
		return models.Status{Level: LevelSuccess, Label: "Buena"}
	case ppm < 1200:
		return models.Status{Level: LevelWarning, Label: "Moderada"}
	}
	return models.Status{Level: LevelError, Label: "Mala"}
}

// Light in lux: below 100 is night and has no status level.
func Light(lux float64) models.Status {
	if lux < 100 {
		return models.Status{Label: "Noche"}
	}
	return models.Status{Level: LevelSuccess, Label: "Día"}
}

// Reading classifies every factor of d.
func Reading(d models.SensorData) models.Classification {
	return models.Classification{
		Temperatura: Temperature(d.Temperatura),
		Humedad:     Humidity(d.Humedad),
		CO2:         CO2(d.CO2),
		Luz:         Light(d.Luz),
	}
}
