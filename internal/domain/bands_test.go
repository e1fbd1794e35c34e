package domain

import (
	"math"
	"testing"
)

func TestLadderBand(t *testing.T) {
	ladder := DefaultRevenueLadder()

	tests := []struct {
		name     string
		value    float64
		expected string
	}{
		{"zero maps to lowest band", 0, "< $10M"},
		{"negative maps to lowest band", -500_000, "< $10M"},
		{"NaN maps to lowest band", math.NaN(), "< $10M"},
		{"below first threshold", 9_999_999, "< $10M"},
		{"at threshold moves up", 10_000_000, "$10M - $25M"},
		{"mid rung", 30_000_000, "$25M - $50M"},
		{"above last threshold", 80_000_000, "> $75M"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ladder.Band(tt.value); got != tt.expected {
				t.Errorf("Band(%v) = %q, want %q", tt.value, got, tt.expected)
			}
		})
	}
}

func TestRevenueBand(t *testing.T) {
	ladder := DefaultRevenueLadder()

	if got := RevenueBand(nil, ladder); got != "< $10M" {
		t.Errorf("nil input: got %q, want lowest band", got)
	}

	zero := 0.0
	if got := RevenueBand(&zero, ladder); got != "< $10M" {
		t.Errorf("zero input: got %q, want lowest band", got)
	}

	// A half-year total of $6M annualizes to $12M.
	halfYear := 6_000_000.0
	if got := RevenueBand(&halfYear, ladder); got != "$10M - $25M" {
		t.Errorf("6M half-year: got %q, want %q", got, "$10M - $25M")
	}
}

func TestRevenueBandStable(t *testing.T) {
	ladder := DefaultFeeLadder()
	v := 123_456.78
	first := RevenueBand(&v, ladder)
	for i := 0; i < 10; i++ {
		if got := RevenueBand(&v, ladder); got != first {
			t.Fatalf("classification changed between calls: %q then %q", first, got)
		}
	}
}

func TestCompanySizeBand(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"exact range", "$1B - $3B", "$1B - $3B"},
		{"lowercase", "$1b - $3b", "$1B - $3B"},
		{"under ten million", "< $10M", "< $10M"},
		{"billion spelled out", "> $10 billion", "> $10B"},
		{"embedded in sentence", "revenue is $100M - $500M annually", "$100M - $500M"},
		{"empty input", "", UnknownBand},
		{"whitespace only", "   ", UnknownBand},
		{"unrecognized", "a few dollars", UnknownBand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CompanySizeBand(tt.input); got != tt.expected {
				t.Errorf("CompanySizeBand(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
