package guard

// Facts is the data a guard rule can reference, e.g. {"var": "delta.pricing.listPrice"}.
type Facts struct {
	Original map[string]any
	Updated  map[string]any
	Delta    map[string]any
}

func (f Facts) ToMap() map[string]any {
	return map[string]any{
		"original": orEmpty(f.Original),
		"updated":  orEmpty(f.Updated),
		"delta":    orEmpty(f.Delta),
	}
}

func orEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
