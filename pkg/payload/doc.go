// Package payload sanitizes and diffs untyped nested records so that
// partial updates carry only the fields that actually changed.
//
// A record is a map[string]any as produced by encoding/json. Values are
// classified with KindOf; dates (time.Time) are opaque scalars and arrays
// are always replaced wholesale. Other maps with string keys are treated as
// records and copied into map[string]any.
//
//	delta := payload.ChangedFields(original, updated)
//	if len(delta) == 0 {
//		return // nothing to send
//	}
//	body := payload.Sanitize(delta)
package payload
