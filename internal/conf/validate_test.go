package conf

import (
	"math"
	"testing"
)

func TestValidCoordinates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		lat  float64
		lon  float64
		want bool
	}{
		{"lima", -12.0464, -77.0428, true},
		{"equator meridian", 0, 0, true},
		{"north pole", 90, 0, true},
		{"lat too high", 90.01, 0, false},
		{"lon too low", 0, -180.5, false},
		{"nan lat", math.NaN(), 0, false},
		{"inf lon", 0, math.Inf(1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidCoordinates(tt.lat, tt.lon); got != tt.want {
				t.Errorf("ValidCoordinates(%v, %v) = %v, want %v", tt.lat, tt.lon, got, tt.want)
			}
		})
	}
}

func TestValidateSettings(t *testing.T) {
	t.Parallel()

	settings := &Settings{
		Location:  LocationSettings{Latitude: -12.05, Longitude: -77.04},
		Astronomy: AstronomySettings{Concurrency: 4},
		Advisory:  AdvisorySettings{LookaheadDays: 21},
	}
	if err := ValidateSettings(settings); err != nil {
		t.Fatalf("expected valid settings, got %v", err)
	}

	settings.Advisory.LookaheadDays = 0
	settings.Location.Latitude = 200
	err := ValidateSettings(settings)
	if err == nil {
		t.Fatal("expected validation errors")
	}
	ve, ok := err.(ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if len(ve.Errors) != 2 {
		t.Errorf("expected 2 validation errors, got %d: %v", len(ve.Errors), ve.Errors)
	}
}
