package service

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Helpers for extracting typed values from the heterogeneous key/value rows
// returned by aggregate queries. Drivers surface numerics variously as int64,
// float64, or raw []byte (numeric/decimal columns), so extraction degrades to
// a zero value instead of failing on anything unexpected.

// intValue extracts an integer, truncating fractional values.
// Returns 0 when the row or key is absent or the value is null.
func intValue(row map[string]interface{}, key string) int {
	if row == nil {
		return 0
	}
	value, ok := row[key]
	if !ok || value == nil {
		return 0
	}

	switch v := value.(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float32:
		return int(math.Trunc(float64(v)))
	case float64:
		return int(math.Trunc(v))
	case []byte:
		return parseNumeric(string(v))
	case string:
		return parseNumeric(v)
	}
	return 0
}

func parseNumeric(s string) int {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return int(n)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(math.Trunc(f))
	}
	return 0
}

// stringValue extracts a string, stringifying byte slices.
// Returns "" when the row or key is absent or the value is null.
func stringValue(row map[string]interface{}, key string) string {
	if row == nil {
		return ""
	}
	value, ok := row[key]
	if !ok || value == nil {
		return ""
	}

	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// timeValue extracts a timestamp only when the driver already produced one.
// No parsing or coercion is attempted; anything else yields nil.
func timeValue(row map[string]interface{}, key string) *time.Time {
	if row == nil {
		return nil
	}
	value, ok := row[key]
	if !ok || value == nil {
		return nil
	}

	if t, ok := value.(time.Time); ok {
		return &t
	}
	return nil
}
