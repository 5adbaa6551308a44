package retailer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
	}{
		{"plain decimal", "29.99", 29.99},
		{"dollar sign", "$49.90", 49.90},
		{"euro sign", "€89.95", 89.95},
		{"pound sign", "£120.00", 120.00},
		{"thousands with comma", "$1,234.56", 1234.56},
		{"european format", "1.234,56", 1234.56},
		{"comma decimal", "19,99", 19.99},
		{"whole number", "45", 45},
		{"embedded text", "Now $35.50 only", 35.50},
		{"grouping without decimal", "1,299", 1299},
		{"empty string", "", 0},
		{"garbled", "garbled", 0},
		{"separators only", ".,.", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, ParsePrice(tt.input), 0.001)
		})
	}
}

func TestPriceFromAny(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected float64
	}{
		{"float64", 34.5, 34.5},
		{"int", 40, 40},
		{"json number", json.Number("89.99"), 89.99},
		{"string", "$12.00", 12.0},
		{"nil", nil, 0},
		{"unsupported type", []string{"x"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, PriceFromAny(tt.input), 0.001)
		})
	}
}
