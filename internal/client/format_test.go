package client

import (
	"slices"
	"testing"
	"time"
)

func TestTimeAgo(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{0, "hace 0 seg"},
		{59 * time.Second, "hace 59 seg"},
		{60 * time.Second, "hace 1 min"},
		{59*time.Minute + 59*time.Second, "hace 59 min"},
		{time.Hour, "hace 1 hora"},
		{2 * time.Hour, "hace 2 horas"},
		{23 * time.Hour, "hace 23 horas"},
		{24 * time.Hour, "hace 1 día"},
		{72 * time.Hour, "hace 3 días"},
		{-5 * time.Second, "hace 0 seg"},
	}
	for _, tt := range tests {
		if got := TimeAgo(now, now.Add(-tt.ago)); got != tt.want {
			t.Errorf("TimeAgo(-%v) = %q, want %q", tt.ago, got, tt.want)
		}
	}
}

func TestSparkline(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	if got := Sparkline(values, SparklineSize); !slices.Equal(got, []float64{3, 4, 5, 6, 7, 8}) {
		t.Errorf("Sparkline = %v", got)
	}
	if got := Sparkline(values[:3], SparklineSize); !slices.Equal(got, []float64{1, 2, 3}) {
		t.Errorf("short Sparkline = %v", got)
	}
	if got := Sparkline(values, 0); got != nil {
		t.Errorf("Sparkline(n=0) = %v, want nil", got)
	}
}
