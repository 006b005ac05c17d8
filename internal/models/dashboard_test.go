package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseMood(t *testing.T) {
	tests := []struct {
		in      string
		want    Mood
		wantErr bool
	}{
		{"bien", MoodGood, false},
		{"regular", MoodFair, false},
		{"mal", MoodBad, false},
		{"Bien", "", true},
		{"", "", true},
		{"feliz", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMood(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMood(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMood(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestSensorDataOmitsEmptyClassification verifies the wire shape without classification.
func TestSensorDataOmitsEmptyClassification(t *testing.T) {
	b, err := json.Marshal(SensorData{Temperatura: 21})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(b), "clasificacion") {
		t.Errorf("json = %s, want no clasificacion key", b)
	}
}

// TestDailySummaryNullMood verifies a missing mood serializes as null.
func TestDailySummaryNullMood(t *testing.T) {
	b, err := json.Marshal(DailySummary{Fecha: "2024-01-01"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"estado_animo":null`) {
		t.Errorf("json = %s", b)
	}
}
