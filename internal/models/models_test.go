// ABOUTME: Unit tests for data models
// ABOUTME: Tests constructors, validators, and model methods

package models

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewGeoPoint(t *testing.T) {
	p, err := NewGeoPoint(54.2960047, -4.58877725)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Latitude != 54.2960047 {
		t.Errorf("expected lat 54.2960047, got %f", p.Latitude)
	}
	if p.Longitude != -4.58877725 {
		t.Errorf("expected lng -4.58877725, got %f", p.Longitude)
	}
}

func TestNewGeoPoint_Invalid(t *testing.T) {
	if _, err := NewGeoPoint(91, 0); err == nil {
		t.Error("expected error for latitude out of range")
	}
}

func TestGeoPoint_String(t *testing.T) {
	p := GeoPoint{Latitude: 52.606, Longitude: -1.91787}
	if got := p.String(); got != "52.60600000,-1.91787000" {
		t.Errorf("unexpected String(): %q", got)
	}
}

func TestNewTargetLine(t *testing.T) {
	start := GeoPoint{Latitude: 45, Longitude: 7}
	end := GeoPoint{Latitude: 46, Longitude: 7}

	line, err := NewTargetLine(start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !line.Start.Equal(start) || !line.End.Equal(end) {
		t.Errorf("endpoints not preserved: %+v", line)
	}
}

func TestNewTargetLine_Degenerate(t *testing.T) {
	p := GeoPoint{Latitude: 12.3, Longitude: 4.56}

	_, err := NewTargetLine(p, p)
	if !errors.Is(err, ErrDegenerateLine) {
		t.Errorf("expected ErrDegenerateLine, got %v", err)
	}
}

func TestTargetLine_ValidateEndpoints(t *testing.T) {
	line := TargetLine{
		Start: GeoPoint{Latitude: 0, Longitude: 0},
		End:   GeoPoint{Latitude: 0, Longitude: 200},
	}
	err := line.Validate()
	if err == nil || !strings.Contains(err.Error(), "end") {
		t.Errorf("expected error about end point, got %v", err)
	}
}

func TestTrack_Validate(t *testing.T) {
	var empty Track
	if err := empty.Validate(); !errors.Is(err, ErrEmptyTrack) {
		t.Errorf("expected ErrEmptyTrack, got %v", err)
	}

	bad := Track{{Latitude: 1, Longitude: 1}, {Latitude: math.NaN(), Longitude: 0}}
	err := bad.Validate()
	if err == nil || !strings.Contains(err.Error(), "point 2") {
		t.Errorf("expected error for point 2, got %v", err)
	}

	// duplicates are fine
	ok := Track{{Latitude: 1, Longitude: 1}, {Latitude: 1, Longitude: 1}}
	if err := ok.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !ok.First().Equal(ok.Last()) {
		t.Error("expected first and last to be equal")
	}
}

func TestNewAttempt(t *testing.T) {
	line := TargetLine{
		Start: GeoPoint{Latitude: 45, Longitude: 7},
		End:   GeoPoint{Latitude: 46, Longitude: 7},
	}
	before := time.Now()
	a := NewAttempt("iom", line)
	after := time.Now()

	if a.ID == uuid.Nil {
		t.Error("expected non-nil UUID")
	}
	if a.Name != "iom" {
		t.Errorf("expected name 'iom', got %q", a.Name)
	}
	if a.Scores == nil {
		t.Error("expected initialized scores map")
	}
	if a.ScoredAt.Before(before) || a.ScoredAt.After(after) {
		t.Error("ScoredAt should be between before and after test times")
	}
	if NewAttempt("iom", line).ID == a.ID {
		t.Error("expected unique IDs for different attempts")
	}
}

func TestValidateCoordinates(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64
		lng     float64
		wantErr bool
	}{
		{"valid_isle_of_man", 54.2960047, -4.58877725, false},
		{"valid_origin", 0, 0, false},
		{"valid_north_pole", 90, 0, false},
		{"valid_south_pole", -90, 0, false},
		{"valid_antimeridian_east", 0, 180, false},
		{"valid_antimeridian_west", 0, -180, false},
		{"invalid_lat_too_high", 91, 0, true},
		{"invalid_lat_too_low", -91, 0, true},
		{"invalid_lng_too_high", 0, 181, true},
		{"invalid_lng_too_low", 0, -181, true},
		{"invalid_lat_nan", math.NaN(), 0, true},
		{"invalid_lng_nan", 0, math.NaN(), true},
		{"invalid_lat_inf", math.Inf(1), 0, true},
		{"invalid_lat_neg_inf", math.Inf(-1), 0, true},
		{"invalid_lng_inf", 0, math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCoordinates(tt.lat, tt.lng)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCoordinates(%f, %f) error = %v, wantErr %v", tt.lat, tt.lng, err, tt.wantErr)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid_simple", "archie-iom", false},
		{"valid_with_spaces", "isle of man", false},
		{"invalid_empty", "", true},
		{"invalid_whitespace_only", "   ", true},
		{"valid_max_length", strings.Repeat("a", 255), false},
		{"invalid_too_long", strings.Repeat("a", 256), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateCoordinates_ErrorMessages(t *testing.T) {
	err := ValidateCoordinates(math.NaN(), 0)
	if err == nil || !strings.Contains(err.Error(), "NaN") {
		t.Errorf("expected error about NaN, got %v", err)
	}

	err = ValidateCoordinates(math.Inf(1), 0)
	if err == nil || !strings.Contains(err.Error(), "infinite") {
		t.Errorf("expected error about infinite, got %v", err)
	}

	err = ValidateCoordinates(100, 0)
	if err == nil || !strings.Contains(err.Error(), "latitude") {
		t.Errorf("expected error about latitude, got %v", err)
	}

	err = ValidateCoordinates(0, 200)
	if err == nil || !strings.Contains(err.Error(), "longitude") {
		t.Errorf("expected error about longitude, got %v", err)
	}
}

func TestParseGeoPoint(t *testing.T) {
	tests := []struct {
		in      string
		want    GeoPoint
		wantErr bool
	}{
		{"52.606,-1.91787", GeoPoint{Latitude: 52.606, Longitude: -1.91787}, false},
		{" 45 , 7 ", GeoPoint{Latitude: 45, Longitude: 7}, false},
		{"45;7", GeoPoint{}, true},
		{"north,7", GeoPoint{}, true},
		{"45,east", GeoPoint{}, true},
		{"95,7", GeoPoint{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseGeoPoint(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseGeoPoint(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseGeoPoint(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
