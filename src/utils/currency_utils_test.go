package utils

import "testing"

func TestNormalizeCurrencyLabel(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"円", "JPY"},
		{"日本円", "JPY"},
		{"USドル", "USD"},
		{"米ドル", "USD"},
		{"ユーロ", "EUR"},
		{"香港ドル", "HKD"},
		{" 円 ", "JPY"},
		{"usd", "USD"},  // fallback: uppercased
		{"USDX", "USD"}, // fallback: truncated to 3
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeCurrencyLabel(tt.label); got != tt.want {
			t.Errorf("NormalizeCurrencyLabel(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}
}

func TestRoundFloat(t *testing.T) {
	tests := []struct {
		val       float64
		precision uint
		want      float64
	}{
		{33.33333, 2, 33.33},
		{66.666, 2, 66.67},
		{100.0, 2, 100.0},
		{-12.346, 2, -12.35},
		{0.125, 2, 0.13},
	}
	for _, tt := range tests {
		if got := RoundFloat(tt.val, tt.precision); got != tt.want {
			t.Errorf("RoundFloat(%v, %d) = %v, want %v", tt.val, tt.precision, got, tt.want)
		}
	}
}
