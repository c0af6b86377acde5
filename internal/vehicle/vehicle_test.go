package vehicle

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestCategoryIsTollFree(t *testing.T) {
	tests := []struct {
		category Category
		want     bool
	}{
		{Car, false},
		{Motorbike, true},
		{Tractor, true},
		{Emergency, true},
		{Diplomat, true},
		{Foreign, true},
		{Military, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			if got := tt.category.IsTollFree(); got != tt.want {
				t.Errorf("%s.IsTollFree() = %v, want %v", tt.category, got, tt.want)
			}
		})
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{"car", Car, false},
		{"CAR", Car, false},
		{" Motorbike ", Motorbike, false},
		{"diplomat", Diplomat, false},
		{"bus", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCategory(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownCategory) {
					t.Fatalf("ParseCategory(%q) error = %v, want ErrUnknownCategory", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCategory(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseCategory(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestCategoryUnmarshalJSON(t *testing.T) {
	var payload struct {
		Category Category `json:"category"`
	}

	if err := json.Unmarshal([]byte(`{"category":"military"}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.Category != Military {
		t.Errorf("expected Military, got %s", payload.Category)
	}

	if err := json.Unmarshal([]byte(`{"category":"spaceship"}`), &payload); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestNormalizePlate(t *testing.T) {
	if got := NormalizePlate("abc 12-3"); got != "ABC123" {
		t.Errorf("NormalizePlate() = %q, want %q", got, "ABC123")
	}
}
