package client

import (
	"fmt"
	"time"
)

// TimeAgo renders the age of t relative to now in Spanish, e.g. "hace 3 min".
// Future times read as zero seconds.
func TimeAgo(now, t time.Time) string {
	sec := int64(now.Sub(t) / time.Second)
	if sec < 0 {
		sec = 0
	}
	mins := sec / 60
	hours := mins / 60

	switch {
	case sec < 60:
		return fmt.Sprintf("hace %d seg", sec)
	case mins < 60:
		return fmt.Sprintf("hace %d min", mins)
	case hours < 24:
		return fmt.Sprintf("hace %d %s", hours, plural(hours, "hora", "horas"))
	default:
		days := hours / 24
		return fmt.Sprintf("hace %d %s", days, plural(days, "día", "días"))
	}
}

func plural(n int64, one, many string) string {
	if n > 1 {
		return many
	}
	return one
}

// SparklineSize is the number of trailing points a metric card draws.
const SparklineSize = 6

// Sparkline returns the last n values, or all of them when there are fewer.
func Sparkline(values []float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}
