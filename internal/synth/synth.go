// Package synth produces the randomized but plausibly shaped data that stands
// in for sensors and analyses the dashboard does not have yet.
package synth

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

// DateLayout is the calendar date format accepted by the API.
const DateLayout = "2006-01-02"

var (
	// ErrInvalidDate is returned for anything that is not a real YYYY-MM-DD date.
	ErrInvalidDate = errors.New("formato de fecha inválido. Use YYYY-MM-DD")
	// ErrInvertedRange is returned when the end date precedes the start date.
	ErrInvertedRange = errors.New("la fecha de fin es anterior a la de inicio")
	// ErrRangeTooLong is returned when a range spans more than MaxRangeDays.
	ErrRangeTooLong = errors.New("el rango de fechas es demasiado amplio")
)

// Generator draws mock values from a single random source.
// It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a Generator with a fixed seed. Equal seeds yield equal output.
func New(seed uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewRandom returns a Generator seeded from the runtime's random source.
func NewRandom() *Generator {
	return New(rand.Uint64())
}

// ParseDate parses a strict YYYY-MM-DD calendar date in UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// DefaultRange returns the trailing 30-day window ending on now's date.
func DefaultRange(now time.Time) (start, end time.Time) {
	end = dateOf(now)
	start = dateOf(now.Add(-30 * 24 * time.Hour))
	return start, end
}

func dateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// between returns a uniform draw in [lo, lo+span). Callers hold g.mu.
func (g *Generator) between(lo, span float64) float64 {
	return lo + g.rng.Float64()*span
}
