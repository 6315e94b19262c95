package numbering

import (
	"testing"
	"time"
)

func TestDatePrefix(t *testing.T) {
	day := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		cfg  SequenceConfig
		want string
	}{
		{"full year no prefix", SequenceConfig{Digits: 3, Start: 1}, "20240315"},
		{"short year", SequenceConfig{ShortYear: true, Digits: 3, Start: 1}, "240315"},
		{"with prefix", SequenceConfig{Prefix: "SO", Digits: 3, Start: 1}, "SO20240315"},
		{"prefix and short year", SequenceConfig{Prefix: "PO", ShortYear: true, Digits: 3, Start: 1}, "PO240315"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DatePrefix(day, tt.cfg); got != tt.want {
				t.Errorf("DatePrefix() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractSequence(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		prefix     string
		digits     int
		want       int
		ok         bool
	}{
		{"plain", "20240315007", "20240315", 3, 7, true},
		{"max value", "20240315999", "20240315", 3, 999, true},
		{"legacy garbage with numeric tail", "20240315-ABC-010", "20240315", 3, 10, true},
		{"malformed tail", "20240315ABC", "20240315", 3, 0, false},
		{"too short after prefix", "2024031501", "20240315", 3, 0, false},
		{"empty identifier", "", "20240315", 3, 0, false},
		{"foreign prefix still anchored on tail", "XX240315042", "20240315", 3, 42, true},
		{"zero digits", "20240315007", "20240315", 0, 0, false},
		{"mixed tail", "202403150a1", "20240315", 3, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractSequence(tt.identifier, tt.prefix, tt.digits)
			if ok != tt.ok {
				t.Fatalf("ExtractSequence() ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("ExtractSequence() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFormatSequence(t *testing.T) {
	tests := []struct {
		n      int
		digits int
		want   string
	}{
		{1, 3, "001"},
		{42, 3, "042"},
		{999, 3, "999"},
		{1, 5, "00001"},
		{7, 1, "7"},
	}

	for _, tt := range tests {
		if got := FormatSequence(tt.n, tt.digits); got != tt.want {
			t.Errorf("FormatSequence(%d, %d) = %q, want %q", tt.n, tt.digits, got, tt.want)
		}
	}
}

func TestSequenceConfigValidate(t *testing.T) {
	if err := DefaultSequenceConfig().Validate(); err != nil {
		t.Errorf("default config should be valid, got %v", err)
	}

	bad := SequenceConfig{Digits: 0, Start: 1}
	if err := bad.Validate(); err == nil {
		t.Error("expected error for Digits = 0")
	}

	neg := SequenceConfig{Digits: 3, Start: -1}
	if err := neg.Validate(); err == nil {
		t.Error("expected error for negative Start")
	}
}
