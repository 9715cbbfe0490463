package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateOnly is the fixed wire format for gift and donor dates.
// Lexicographic comparison of two DateOnly strings matches chronological
// order, which the aggregation code relies on.
const DateOnly = "2006-01-02"

// CoerceAmount converts a dynamically shaped monetary value to a finite
// float64. Synced gift rows can carry amounts as numbers, strings, or null
// depending on the upstream system; anything that does not parse to a finite
// number coerces to 0 rather than failing the caller.
func CoerceAmount(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return finiteOrZero(n)
	case float32:
		return finiteOrZero(float64(n))
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return finiteOrZero(f)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return finiteOrZero(f)
	case []byte:
		return CoerceAmount(string(n))
	case *float64:
		if n == nil {
			return 0
		}
		return finiteOrZero(*n)
	default:
		return 0
	}
}

// ParseDateOnly parses a fixed-format YYYY-MM-DD string.
// Returns false for empty or malformed input instead of an error,
// since a missing gift date is a defined state, not a failure.
func ParseDateOnly(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateOnly, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDateOnly renders t in the fixed YYYY-MM-DD wire format.
func FormatDateOnly(t time.Time) string {
	return t.Format(DateOnly)
}

func finiteOrZero(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
