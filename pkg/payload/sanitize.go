package payload

// DefaultDeniedKeys are dropped by Sanitize at every depth.
var DefaultDeniedKeys = []string{"__v"}

// Sanitizer removes denied keys and empty values from nested records.
// The zero value denies nothing.
type Sanitizer struct {
	denied map[string]struct{}
}

func NewSanitizer(deniedKeys ...string) *Sanitizer {
	s := &Sanitizer{denied: make(map[string]struct{}, len(deniedKeys))}
	for _, k := range deniedKeys {
		s.denied[k] = struct{}{}
	}
	return s
}

// DeniedKeys returns the keys this sanitizer drops, in no particular order.
func (s *Sanitizer) DeniedKeys() []string {
	keys := make([]string, 0, len(s.denied))
	for k := range s.denied {
		keys = append(keys, k)
	}
	return keys
}

var defaultSanitizer = NewSanitizer(DefaultDeniedKeys...)

// Sanitize cleans record with DefaultDeniedKeys.
func Sanitize(record map[string]any) map[string]any {
	return defaultSanitizer.Sanitize(record)
}

// Sanitize returns a cleaned copy of record: denied keys, nil values, and
// arrays or records left empty after cleaning are removed. The result is
// never nil and shares no containers with record.
func (s *Sanitizer) Sanitize(record map[string]any) map[string]any {
	out, ok := s.record(record)
	if !ok {
		return map[string]any{}
	}
	return out
}

// value reports false when v is absent after cleaning.
func (s *Sanitizer) value(v any) (any, bool) {
	switch KindOf(v) {
	case KindAbsent:
		return nil, false
	case KindDate:
		return asTime(v), true
	case KindArray:
		return s.array(asSlice(v))
	case KindRecord:
		return s.record(asRecord(v))
	}
	return v, true
}

func (s *Sanitizer) array(in []any) (any, bool) {
	out := make([]any, 0, len(in))
	for _, el := range in {
		if clean, ok := s.value(el); ok {
			out = append(out, clean)
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

func (s *Sanitizer) record(in map[string]any) (map[string]any, bool) {
	out := make(map[string]any, len(in))
	for k, v := range in {
		if _, denied := s.denied[k]; denied {
			continue
		}
		if clean, ok := s.value(v); ok {
			out[k] = clean
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}
