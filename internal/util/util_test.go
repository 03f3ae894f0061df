package util

import (
	"testing"
	"time"

	"stroll/internal/domain/entity"
)

func TestDistanceKm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		from      entity.Location
		to        entity.Location
		expectKm  float64
		tolerance float64
	}{
		{
			name:      "same point",
			from:      entity.Location{Lat: 25.0330, Lng: 121.5654},
			to:        entity.Location{Lat: 25.0330, Lng: 121.5654},
			expectKm:  0,
			tolerance: 0.001,
		},
		{
			name:      "one degree of latitude",
			from:      entity.Location{Lat: 25.0, Lng: 121.5},
			to:        entity.Location{Lat: 26.0, Lng: 121.5},
			expectKm:  111.2,
			tolerance: 0.5,
		},
		{
			name:      "short city hop",
			from:      entity.Location{Lat: 25.0330, Lng: 121.5654},
			to:        entity.Location{Lat: 25.0478, Lng: 121.5170},
			expectKm:  5.15,
			tolerance: 0.2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := DistanceKm(tt.from, tt.to)
			if diff := got - tt.expectKm; diff > tt.tolerance || diff < -tt.tolerance {
				t.Fatalf("DistanceKm() = %f, want %f ± %f", got, tt.expectKm, tt.tolerance)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{name: "under one minute", duration: 45 * time.Second, expected: "45s"},
		{name: "rounded second to minute", duration: 59*time.Second + 500*time.Millisecond, expected: "1m0s"},
		{name: "minutes and seconds", duration: 2*time.Minute + 30*time.Second, expected: "2m30s"},
		{name: "hours and minutes", duration: time.Hour + 30*time.Minute, expected: "1h30m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FormatDuration(tt.duration); got != tt.expected {
				t.Fatalf("FormatDuration(%s) = %s, want %s", tt.duration, got, tt.expected)
			}
		})
	}
}
