package payload

import (
	"encoding/json"
	"reflect"
	"time"
)

type Kind int

const (
	KindAbsent Kind = iota
	KindBool
	KindNumber
	KindString
	KindDate
	KindArray
	KindRecord
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindDate:
		return "date"
	case KindArray:
		return "array"
	case KindRecord:
		return "record"
	}
	return "other"
}

// KindOf classifies a value found inside a record.
func KindOf(v any) Kind {
	switch t := v.(type) {
	case nil:
		return KindAbsent
	case bool:
		return KindBool
	case string:
		return KindString
	case json.Number, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return KindNumber
	case time.Time:
		return KindDate
	case *time.Time:
		if t == nil {
			return KindAbsent
		}
		return KindDate
	case []any:
		return KindArray
	case map[string]any:
		return KindRecord
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.IsNil() {
			return KindAbsent
		}
		if rv.Type().Key().Kind() == reflect.String {
			return KindRecord
		}
		return KindOther
	case reflect.Slice:
		if rv.IsNil() {
			return KindAbsent
		}
		return KindArray
	case reflect.Array:
		return KindArray
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return KindAbsent
		}
	}
	return KindOther
}

// asSlice returns the elements of any slice or array value.
func asSlice(v any) []any {
	if s, ok := v.([]any); ok {
		return s
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// asRecord returns any string-keyed map as a record. Typed maps such as
// map[string]string are copied into a new map[string]any.
func asRecord(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out
}

func asTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case *time.Time:
		return *t
	}
	return time.Time{}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
