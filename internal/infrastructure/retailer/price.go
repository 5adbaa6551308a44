package retailer

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ParsePrice extracts a numeric price from free-form text such as "$1,234.56"
// or "49,99 €". The last '.' or ',' followed by exactly two digits is treated
// as the decimal separator; any other '.' or ',' is a grouping separator.
// Malformed input yields 0 rather than an error.
func ParsePrice(text string) float64 {
	// Keep digits and potential separators only
	var b strings.Builder
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0
	}

	intPart := cleaned
	fracPart := ""
	if sep := strings.LastIndexAny(cleaned, ".,"); sep >= 0 && len(cleaned)-sep-1 == 2 {
		intPart = cleaned[:sep]
		fracPart = cleaned[sep+1:]
	}

	// Remaining separators are grouping characters
	intPart = strings.Map(func(r rune) rune {
		if r == '.' || r == ',' {
			return -1
		}
		return r
	}, intPart)

	if intPart == "" && fracPart == "" {
		return 0
	}
	if intPart == "" {
		intPart = "0"
	}

	value, err := strconv.ParseFloat(intPart+"."+fracPart, 64)
	if err != nil {
		return 0
	}
	return value
}

// PriceFromAny parses a price out of a decoded JSON value. Retailer payloads
// variously encode prices as numbers, numeric strings or formatted strings.
func PriceFromAny(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f
		}
	case string:
		return ParsePrice(n)
	}
	return 0
}
