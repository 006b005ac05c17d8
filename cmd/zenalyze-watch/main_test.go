package main

import (
	"errors"
	"testing"

	"github.com/zenalyze/zenalyze/internal/synth"
)

func TestCheckRange(t *testing.T) {
	tests := []struct {
		name        string
		inicio, fin string
		wantErr     bool
	}{
		{"both empty", "", "", false},
		{"both set", "2024-01-01", "2024-01-31", false},
		{"only inicio", "2024-01-01", "", true},
		{"only fin", "", "2024-01-31", true},
		{"bad fin", "2024-01-01", "2024-13-40", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkRange(tt.inicio, tt.fin)
			if (err != nil) != tt.wantErr {
				t.Errorf("checkRange(%q, %q) = %v, wantErr %v", tt.inicio, tt.fin, err, tt.wantErr)
			}
		})
	}

	if err := checkRange("2024-01-01", "01/31/2024"); !errors.Is(err, synth.ErrInvalidDate) {
		t.Errorf("err = %v, want ErrInvalidDate", err)
	}
}

func TestBars(t *testing.T) {
	if got := bars(nil); got != "" {
		t.Errorf("bars(nil) = %q", got)
	}
	if got := bars([]float64{1, 2, 3}); got != "▁▄█" {
		t.Errorf("bars = %q, want ▁▄█", got)
	}
	if got := bars([]float64{5, 5}); got != "▁▁" {
		t.Errorf("flat bars = %q, want ▁▁", got)
	}
}
