package jsonlogic

import (
	"encoding/json"
	"math"
	"strings"
)

// Round(value, precision) rounds half away from zero.
func Round(args ...any) any {
	if len(args) == 0 {
		return 0.0
	}
	p := 0
	if len(args) > 1 {
		p = int(toFloat64(args[1]))
	}
	f := math.Pow(10, float64(p))
	return math.Round(toFloat64(args[0])*f) / f
}

// PctChange(old, new) returns the relative change in percent; 0 when old is 0.
func PctChange(args ...any) any {
	if len(args) < 2 {
		return 0.0
	}
	prev, next := toFloat64(args[0]), toFloat64(args[1])
	if prev == 0 {
		return 0.0
	}
	return (next - prev) / math.Abs(prev) * 100
}

// Lookup walks a dotted path through nested records.
func Lookup(data map[string]any, path string) (any, bool) {
	var cur any = data
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}

func toFloat64(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case int32:
		return float64(val)
	case uint:
		return float64(val)
	case uint64:
		return float64(val)
	case uint32:
		return float64(val)
	case json.Number:
		f, _ := val.Float64()
		return f
	case bool:
		if val {
			return 1
		}
		return 0
	default:
		return 0
	}
}
