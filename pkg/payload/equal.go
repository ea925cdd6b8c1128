package payload

import (
	"bytes"
	"encoding/json"
	"reflect"
)

// Equal reports whether a and b hold the same effective value.
//
// Numbers compare by value whatever their Go type. Two strings that differ
// but both parse as dates compare by instant, as do time.Time values.
// Arrays compare by length and serialized form; records compare key by key
// over the union of their keys, a missing key being nil.
func Equal(a, b any) bool {
	ka, kb := KindOf(a), KindOf(b)
	if ka != kb {
		return false
	}

	switch ka {
	case KindAbsent:
		return true
	case KindBool:
		return a.(bool) == b.(bool)
	case KindNumber:
		fa, okA := asFloat(a)
		fb, okB := asFloat(b)
		if !okA || !okB {
			return reflect.DeepEqual(a, b)
		}
		return fa == fb
	case KindString:
		sa, sb := a.(string), b.(string)
		if sa == sb {
			return true
		}
		ta, okA := parseDate(sa)
		tb, okB := parseDate(sb)
		return okA && okB && sameInstant(ta, tb)
	case KindDate:
		return sameInstant(asTime(a), asTime(b))
	case KindArray:
		return equalArrays(asSlice(a), asSlice(b))
	case KindRecord:
		return equalRecords(asRecord(a), asRecord(b))
	}
	return reflect.DeepEqual(a, b)
}

func equalArrays(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	ja, errA := json.Marshal(a)
	jb, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return reflect.DeepEqual(a, b)
	}
	return bytes.Equal(ja, jb)
}

func equalRecords(a, b map[string]any) bool {
	for k, va := range a {
		if !Equal(va, b[k]) {
			return false
		}
	}
	for k, vb := range b {
		if _, seen := a[k]; seen {
			continue
		}
		if !Equal(nil, vb) {
			return false
		}
	}
	return true
}
