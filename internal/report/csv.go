// Package report renders the daily summary as a downloadable CSV.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/zenalyze/zenalyze/internal/models"
)

var header = []string{"Fecha", "Calidad", "Temperatura Prom", "Humedad Prom", "Estado Ánimo"}

// Filename returns the attachment name for a summary covering inicio..fin.
func Filename(inicio, fin string) string {
	return fmt.Sprintf("zenalyze-historial-%s-%s.csv", inicio, fin)
}

// WriteDailyCSV writes one row per day after a header row.
func WriteDailyCSV(w io.Writer, days []models.DailySummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, d := range days {
		mood := "N/A"
		if d.EstadoAnimo != nil {
			mood = string(*d.EstadoAnimo)
		}
		record := []string{
			d.Fecha,
			strconv.Itoa(d.Calidad),
			strconv.FormatFloat(d.TempPromedio, 'f', 1, 64),
			strconv.FormatFloat(d.HumedadPromedio, 'f', 0, 64),
			mood,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing %s: %w", d.Fecha, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
