package report

import (
	"strings"
	"testing"

	"github.com/zenalyze/zenalyze/internal/models"
)

func TestFilename(t *testing.T) {
	got := Filename("2024-01-01", "2024-01-31")
	if got != "zenalyze-historial-2024-01-01-2024-01-31.csv" {
		t.Errorf("Filename = %q", got)
	}
}

// TestWriteDailyCSV verifies number formatting and the N/A mood placeholder.
func TestWriteDailyCSV(t *testing.T) {
	mal := models.MoodBad
	days := []models.DailySummary{
		{Fecha: "2024-01-01", Calidad: 82, TempPromedio: 21.46, HumedadPromedio: 55.2, EstadoAnimo: &mal},
		{Fecha: "2024-01-02", Calidad: 61, TempPromedio: 22, HumedadPromedio: 63.7},
	}

	var b strings.Builder
	if err := WriteDailyCSV(&b, days); err != nil {
		t.Fatalf("WriteDailyCSV: %v", err)
	}

	want := "Fecha,Calidad,Temperatura Prom,Humedad Prom,Estado Ánimo\n" +
		"2024-01-01,82,21.5,55,mal\n" +
		"2024-01-02,61,22.0,64,N/A\n"
	if b.String() != want {
		t.Errorf("csv =\n%s\nwant\n%s", b.String(), want)
	}
}

func TestWriteDailyCSVEmpty(t *testing.T) {
	var b strings.Builder
	if err := WriteDailyCSV(&b, nil); err != nil {
		t.Fatalf("WriteDailyCSV: %v", err)
	}
	if strings.Count(b.String(), "\n") != 1 {
		t.Errorf("expected header only, got %q", b.String())
	}
}
