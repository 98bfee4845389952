package util

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		bytes    int64
		expected string
	}{
		{name: "zero bytes", bytes: 0, expected: "0 B"},
		{name: "bytes under kilobyte", bytes: 512, expected: "512 B"},
		{name: "exact kilobyte", bytes: 1024, expected: "1.0 KB"},
		{name: "fractional kilobyte", bytes: 1536, expected: "1.5 KB"},
		{name: "megabyte", bytes: 1024 * 1024, expected: "1.0 MB"},
		{name: "upload limit", bytes: 16 * 1024 * 1024, expected: "16.0 MB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FormatBytes(tt.bytes); got != tt.expected {
				t.Fatalf("FormatBytes(%d) = %s, want %s", tt.bytes, got, tt.expected)
			}
		})
	}
}

func TestFormatCLP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		amount   string
		expected string
	}{
		{amount: "0", expected: "0"},
		{amount: "990", expected: "990"},
		{amount: "8990", expected: "8.990"},
		{amount: "57970.5", expected: "57.971"},
		{amount: "1234567", expected: "1.234.567"},
		{amount: "-45990", expected: "-45.990"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			t.Parallel()

			if got := FormatCLP(decimal.RequireFromString(tt.amount)); got != tt.expected {
				t.Fatalf("FormatCLP(%s) = %s, want %s", tt.amount, got, tt.expected)
			}
		})
	}
}
