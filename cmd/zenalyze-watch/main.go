// Command zenalyze-watch is a terminal view of the dashboard. It polls the
// REST API and redraws classified metric cards with sparklines.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	tm "github.com/buger/goterm"
	"github.com/zenalyze/zenalyze/internal/classify"
	"github.com/zenalyze/zenalyze/internal/client"
	"github.com/zenalyze/zenalyze/internal/models"
	"github.com/zenalyze/zenalyze/internal/report"
	"github.com/zenalyze/zenalyze/internal/synth"
)

const (
	readingInterval = 30 * time.Second
	statusInterval  = 30 * time.Second
	labelInterval   = 10 * time.Second
)

func main() {
	serverURL := flag.String("server", "http://localhost:3000", "dashboard URL")
	exportPath := flag.String("export", "", "write the daily summary CSV to this file and exit (\"-\" for stdout, \"auto\" for the default name)")
	inicio := flag.String("inicio", "", "first day of the export (YYYY-MM-DD)")
	fin := flag.String("fin", "", "last day of the export (YYYY-MM-DD)")
	mood := flag.String("mood", "", "report a mood (bien, regular, mal) and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	c := client.New(*serverURL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch {
	case *mood != "":
		if err := reportMood(ctx, c, *mood); err != nil {
			log.Error("reporting mood failed", "error", err)
			os.Exit(1)
		}
		return
	case *exportPath != "":
		if err := checkRange(*inicio, *fin); err != nil {
			log.Error("invalid export range", "error", err)
			os.Exit(2)
		}
		if err := export(ctx, c, *exportPath, *inicio, *fin); err != nil {
			log.Error("export failed", "error", err)
			os.Exit(1)
		}
		return
	}

	w := newWatcher(c)
	w.run(ctx)
}

func reportMood(ctx context.Context, c *client.Client, s string) error {
	m, err := models.ParseMood(s)
	if err != nil {
		return err
	}
	id, err := c.SetMood(ctx, m)
	if err != nil {
		return err
	}
	fmt.Printf("Estado registrado: %s (id %d)\n", m, id)
	return nil
}

// checkRange requires -inicio and -fin together, each a valid date.
func checkRange(inicio, fin string) error {
	if (inicio == "") != (fin == "") {
		return errors.New("-inicio and -fin must be given together")
	}
	for _, d := range []string{inicio, fin} {
		if d == "" {
			continue
		}
		if _, err := synth.ParseDate(d); err != nil {
			return err
		}
	}
	return nil
}

func export(ctx context.Context, c *client.Client, path, inicio, fin string) error {
	stats, err := c.Statistics(ctx, inicio, fin)
	if err != nil {
		return fmt.Errorf("fetching statistics: %w", err)
	}

	out := os.Stdout
	if path != "-" {
		if path == "auto" {
			first, last := "", ""
			if n := len(stats.ResumenDiario); n > 0 {
				first, last = stats.ResumenDiario[0].Fecha, stats.ResumenDiario[n-1].Fecha
			}
			path = report.Filename(first, last)
		}
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		defer f.Close()
		out = f
	}

	if err := report.WriteDailyCSV(out, stats.ResumenDiario); err != nil {
		return err
	}
	if path != "-" {
		fmt.Fprintf(os.Stderr, "%d días exportados a %s\n", len(stats.ResumenDiario), path)
	}
	return nil
}

type watcher struct {
	current *client.Poller[*models.SensorData]
	history *client.Poller[[]models.HistoricalData]
	status  *client.Poller[*client.DBStatus]
	mood    *client.Poller[*models.MoodRecord]

	mu sync.Mutex
}

func newWatcher(c *client.Client) *watcher {
	w := &watcher{
		current: client.NewPoller(readingInterval, c.Current),
		history: client.NewPoller(readingInterval, func(ctx context.Context) ([]models.HistoricalData, error) {
			return c.History(ctx, "24h")
		}),
		status: client.NewPoller(statusInterval, c.DBStatus),
		mood:   client.NewPoller(readingInterval, c.Mood),
	}
	w.current.OnUpdate(func(client.State[*models.SensorData]) { w.render() })
	w.history.OnUpdate(func(client.State[[]models.HistoricalData]) { w.render() })
	w.status.OnUpdate(func(client.State[*client.DBStatus]) { w.render() })
	w.mood.OnUpdate(func(client.State[*models.MoodRecord]) { w.render() })
	return w
}

func (w *watcher) run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, run := range []func(context.Context){w.current.Run, w.history.Run, w.status.Run, w.mood.Run} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			run(ctx)
		}()
	}

	// The relative mood time advances between polls.
	ticker := time.NewTicker(labelInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			return
		case <-ticker.C:
			w.render()
		}
	}
}

func (w *watcher) render() {
	w.mu.Lock()
	defer w.mu.Unlock()

	var b strings.Builder
	b.WriteString(tm.Bold("Zenalyze") + "\n\n")

	st := w.status.State()
	switch {
	case st.Data == nil && st.Err != nil:
		fmt.Fprintf(&b, "Base de datos: desconocido (%v)\n", st.Err)
	case st.Data == nil:
		b.WriteString("Base de datos: comprobando...\n")
	case st.Data.Connected:
		b.WriteString("Base de datos: conectada\n")
	default:
		fmt.Fprintf(&b, "Base de datos: desconectada (%s)\n", st.Data.Error)
	}

	cur := w.current.State()
	hist := w.history.State().Data
	now := time.Now()
	switch {
	case cur.Data == nil && cur.Err != nil:
		fmt.Fprintf(&b, "\nSin lecturas: %v\n", cur.Err)
	case cur.Data == nil:
		b.WriteString("\nCargando lecturas...\n")
	default:
		d := cur.Data
		c := classify.Reading(*d)
		fmt.Fprintf(&b, "Última lectura: %s\n\n", client.TimeAgo(now, d.Timestamp))
		card(&b, "Temperatura", fmt.Sprintf("%.1f °C", d.Temperatura), c.Temperatura, series(hist, func(h models.HistoricalData) float64 { return h.Temperatura }))
		card(&b, "Humedad", fmt.Sprintf("%.0f %%", d.Humedad), c.Humedad, series(hist, func(h models.HistoricalData) float64 { return h.Humedad }))
		card(&b, "CO2", fmt.Sprintf("%.0f ppm", d.CO2), c.CO2, series(hist, func(h models.HistoricalData) float64 { return h.CO2 }))
		card(&b, "Luz", fmt.Sprintf("%.0f lux", d.Luz), c.Luz, series(hist, func(h models.HistoricalData) float64 { return h.Luz }))
		fmt.Fprintf(&b, "\nMovimiento: %s   Ruido: %s\n", yesNo(d.Movimiento), yesNo(d.Ruido))
		if cur.Err != nil {
			fmt.Fprintf(&b, "(último intento falló: %v)\n", cur.Err)
		}
	}

	if m := w.mood.State().Data; m != nil {
		fmt.Fprintf(&b, "\nEstado de ánimo: %s, %s\n", m.Estado, client.TimeAgo(now, m.Timestamp))
	}

	tm.Clear()
	tm.MoveCursor(1, 1)
	tm.Print(b.String())
	tm.Flush()
}

func card(b *strings.Builder, name, value string, s models.Status, spark []float64) {
	label := fmt.Sprintf("%-15s", s.Label)
	if color, ok := levelColors[s.Level]; ok {
		label = tm.Color(label, color)
	}
	fmt.Fprintf(b, "%-12s %-10s %s %s\n", name, value, label, bars(spark))
}

var levelColors = map[string]int{
	classify.LevelSuccess: tm.GREEN,
	classify.LevelWarning: tm.YELLOW,
	classify.LevelError:   tm.RED,
}

func series(points []models.HistoricalData, pick func(models.HistoricalData) float64) []float64 {
	values := make([]float64, 0, len(points))
	for _, p := range points {
		values = append(values, pick(p))
	}
	return client.Sparkline(values, client.SparklineSize)
}

var barRunes = []rune("▁▂▃▄▅▆▇█")

// bars draws values scaled between their own min and max.
func bars(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	out := make([]rune, 0, len(values))
	for _, v := range values {
		i := 0
		if hi > lo {
			i = int((v - lo) / (hi - lo) * float64(len(barRunes)-1))
		}
		out = append(out, barRunes[i])
	}
	return string(out)
}

func yesNo(v bool) string {
	if v {
		return "sí"
	}
	return "no"
}
