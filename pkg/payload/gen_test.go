package payload

import "pgregory.net/rapid"

var sampleKeys = []string{"make", "model", "pricing", "internal", "features", "__v"}

func recordGen(depth int) *rapid.Generator[map[string]any] {
	return rapid.Custom(func(t *rapid.T) map[string]any {
		n := rapid.IntRange(0, 4).Draw(t, "size")
		m := make(map[string]any, n)
		for i := 0; i < n; i++ {
			k := rapid.SampledFrom(sampleKeys).Draw(t, "key")
			m[k] = valueGen(depth).Draw(t, "value")
		}
		return m
	})
}

func valueGen(depth int) *rapid.Generator[any] {
	gens := []*rapid.Generator[any]{
		rapid.Just[any](nil),
		rapid.Map(rapid.Bool(), func(b bool) any { return b }),
		rapid.Map(rapid.IntRange(-3, 3), func(i int) any { return float64(i) }),
		rapid.Map(rapid.SampledFrom([]string{"STK-1", "STK-2", "Toyota", "2025-01-01T00:00:00Z"}), func(s string) any { return s }),
	}
	if depth > 0 {
		gens = append(gens,
			rapid.Map(recordGen(depth-1), func(m map[string]any) any { return m }),
			rapid.Map(rapid.SliceOfN(valueGen(depth-1), 0, 3), func(s []any) any { return s }),
		)
	}
	return rapid.OneOf(gens...)
}
