package payload

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestChangedFields(t *testing.T) {
	cases := []struct {
		name     string
		original map[string]any
		updated  map[string]any
		want     map[string]any
	}{
		{
			name:     "identical records",
			original: map[string]any{"a": 1, "b": map[string]any{"c": []any{1, 2}}},
			updated:  map[string]any{"a": 1, "b": map[string]any{"c": []any{1, 2}}},
			want:     map[string]any{},
		},
		{
			name:     "added key",
			original: map[string]any{"a": 1},
			updated:  map[string]any{"a": 1, "b": 2},
			want:     map[string]any{"b": 2},
		},
		{
			name:     "changed scalar",
			original: map[string]any{"a": 1},
			updated:  map[string]any{"a": 2},
			want:     map[string]any{"a": 2},
		},
		{
			name:     "changed array is sent whole",
			original: map[string]any{"a": []any{1, 2}},
			updated:  map[string]any{"a": []any{1, 2, 3}},
			want:     map[string]any{"a": []any{1, 2, 3}},
		},
		{
			name:     "nested partial diff",
			original: map[string]any{"a": map[string]any{"x": 1, "y": 2}},
			updated:  map[string]any{"a": map[string]any{"x": 1, "y": 3}},
			want:     map[string]any{"a": map[string]any{"y": 3}},
		},
		{
			name:     "date strings compare by instant",
			original: map[string]any{"d": "2025-01-01T00:00:00.000Z"},
			updated:  map[string]any{"d": "2025-01-01T00:00:00Z"},
			want:     map[string]any{},
		},
		{
			name:     "nested no-op is omitted",
			original: map[string]any{"a": map[string]any{"x": 1}},
			updated:  map[string]any{"a": map[string]any{"x": 1}},
			want:     map[string]any{},
		},
		{
			name:     "deleted keys are not reported",
			original: map[string]any{"a": 1, "b": 2},
			updated:  map[string]any{"a": 1},
			want:     map[string]any{},
		},
		{
			name:     "nested removal only is omitted",
			original: map[string]any{"a": map[string]any{"x": 1, "y": 2}},
			updated:  map[string]any{"a": map[string]any{"x": 1}},
			want:     map[string]any{},
		},
		{
			name:     "type change is sent verbatim",
			original: map[string]any{"a": map[string]any{"x": 1}},
			updated:  map[string]any{"a": "x"},
			want:     map[string]any{"a": "x"},
		},
		{
			name:     "record replacing an array is sent whole",
			original: map[string]any{"a": []any{1}},
			updated:  map[string]any{"a": map[string]any{"x": 1}},
			want:     map[string]any{"a": map[string]any{"x": 1}},
		},
		{
			name:     "value set to nil is reported",
			original: map[string]any{"a": 1},
			updated:  map[string]any{"a": nil},
			want:     map[string]any{"a": nil},
		},
		{
			name:     "numbers compare across go types",
			original: map[string]any{"year": 2019},
			updated:  map[string]any{"year": float64(2019)},
			want:     map[string]any{},
		},
		{
			name:     "different instants are reported",
			original: map[string]any{"d": "2025-01-01T00:00:00Z"},
			updated:  map[string]any{"d": "2025-01-02T00:00:00Z"},
			want:     map[string]any{"d": "2025-01-02T00:00:00Z"},
		},
		{
			name: "time values compare at millisecond precision",
			original: map[string]any{
				"d": time.Date(2025, 1, 1, 0, 0, 0, 100, time.UTC),
			},
			updated: map[string]any{
				"d": time.Date(2025, 1, 1, 1, 0, 0, 0, time.FixedZone("WAT", 3600)),
			},
			want: map[string]any{},
		},
		{
			name:     "nil original",
			original: nil,
			updated:  map[string]any{"a": 1},
			want:     map[string]any{"a": 1},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ChangedFields(tc.original, tc.updated)
			require.NotNil(t, got)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestChangedFields_CopiesValues(t *testing.T) {
	updated := map[string]any{"features": []any{"sunroof"}, "make": map[string]any{"id": 1}}
	delta := ChangedFields(map[string]any{}, updated)

	delta["features"].([]any)[0] = "tow bar"
	delta["make"].(map[string]any)["id"] = 2

	assert.Equal(t, []any{"sunroof"}, updated["features"])
	assert.Equal(t, 1, updated["make"].(map[string]any)["id"])
}

func TestChangedFields_VehicleScenario(t *testing.T) {
	original := map[string]any{
		"pricing":  map[string]any{"listPrice": 17999},
		"internal": map[string]any{"stockNumber": "STK-1", "acquisitionCost": 30000},
	}
	updated := map[string]any{
		"pricing":  map[string]any{"listPrice": 18999},
		"internal": map[string]any{"stockNumber": "STK-1", "acquisitionCost": 30000},
	}

	delta := ChangedFields(original, updated)
	assert.Equal(t, map[string]any{"pricing": map[string]any{"listPrice": 18999}}, delta)
	assert.Equal(t, delta, NewSanitizer("legacyKey").Sanitize(delta))
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(nil, nil))
	assert.True(t, Equal([]string{"a"}, []any{"a"}))
	assert.True(t, Equal(map[string]any{"a": nil}, map[string]any{}))
	assert.False(t, Equal([]any{1, 2}, []any{2, 1}))
	assert.False(t, Equal("1", 1))
	assert.False(t, Equal("STK-1", "STK-2"))
	assert.False(t, Equal(time.Now(), time.Now().Format(time.RFC3339)))
	assert.True(t, Equal(map[string]string{"badge": "new"}, map[string]any{"badge": "new"}))
	assert.True(t, Equal(map[string]int{"views": 3}, map[string]any{"views": 3.0, "likes": nil}))
	assert.False(t, Equal(map[string]string{"badge": "new"}, map[string]any{"badge": "sold"}))
	assert.Equal(t, KindRecord, KindOf(map[string]string{}))
	assert.Equal(t, KindAbsent, KindOf(map[string]int(nil)))
	assert.Equal(t, KindOther, KindOf(map[int]string{}))
	assert.Equal(t,
		map[string]any{"labels": map[string]any{"badge": "sold"}},
		ChangedFields(
			map[string]any{"labels": map[string]string{"badge": "new", "trim": "GT"}},
			map[string]any{"labels": map[string]string{"badge": "sold", "trim": "GT"}},
		),
	)
	assert.True(t, Equal(
		[]any{map[string]any{"url": "a.jpg", "position": 1}},
		[]any{map[string]any{"position": 1, "url": "a.jpg"}},
	))
}

func TestChangedFieldsProperties(t *testing.T) {
	t.Run("self diff is empty", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			r := recordGen(3).Draw(t, "record")
			if d := ChangedFields(r, r); len(d) != 0 {
				t.Fatalf("self diff not empty: %#v", d)
			}
		})
	})

	t.Run("delta only carries changed keys of updated", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			original := recordGen(2).Draw(t, "original")
			updated := recordGen(2).Draw(t, "updated")

			for k, v := range ChangedFields(original, updated) {
				next, ok := updated[k]
				if !ok {
					t.Fatalf("key %q not in updated", k)
				}
				if Equal(original[k], next) {
					t.Fatalf("key %q reported but unchanged", k)
				}
				if KindOf(v) != KindRecord && !Equal(v, next) {
					t.Fatalf("key %q carries %#v, want %#v", k, v, next)
				}
			}
		})
	})
}

func TestReconciler(t *testing.T) {
	r := NewReconciler(NewSanitizer("legacyKey"))

	t.Run("unchanged", func(t *testing.T) {
		delta, changed := r.Reconcile(map[string]any{"a": 1}, map[string]any{"a": 1})
		assert.False(t, changed)
		assert.Empty(t, delta)
	})

	t.Run("sanitizes the diff", func(t *testing.T) {
		delta, changed := r.Reconcile(
			map[string]any{"a": 1},
			map[string]any{"a": 2, "legacyKey": "x", "b": map[string]any{"c": nil}},
		)
		assert.True(t, changed)
		assert.Equal(t, map[string]any{"a": 2}, delta)
	})

	t.Run("cleared field is a change with an empty body", func(t *testing.T) {
		delta, changed := r.Reconcile(map[string]any{"a": 1}, map[string]any{"a": nil})
		assert.True(t, changed)
		assert.NotNil(t, delta)
		assert.Empty(t, delta)
	})

	t.Run("only denied keys changed", func(t *testing.T) {
		delta, changed := r.Reconcile(map[string]any{"legacyKey": 1}, map[string]any{"legacyKey": 2})
		assert.True(t, changed)
		assert.Empty(t, delta)
	})
}
