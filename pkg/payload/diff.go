package payload

import "github.com/mitchellh/copystructure"

// ChangedFields returns the keys of updated whose value differs from
// original. Nested records are diffed recursively and kept only when
// something inside them changed; arrays and every other changed value are
// copied whole. Keys that exist only in original are not reported.
// The result is never nil.
func ChangedFields(original, updated map[string]any) map[string]any {
	delta := map[string]any{}
	for k, next := range updated {
		prev := original[k]
		if Equal(prev, next) {
			continue
		}

		if KindOf(prev) == KindRecord && KindOf(next) == KindRecord {
			nested := ChangedFields(asRecord(prev), asRecord(next))
			if len(nested) > 0 {
				delta[k] = nested
			}
			continue
		}

		delta[k] = deepCopy(next)
	}
	return delta
}

func deepCopy(v any) any {
	switch KindOf(v) {
	case KindRecord:
		v = asRecord(v)
		fallthrough
	case KindArray:
		c, err := copystructure.Copy(v)
		if err != nil {
			return v
		}
		return c
	}
	return v
}
