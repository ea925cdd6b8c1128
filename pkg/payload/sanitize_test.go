package payload

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestSanitize(t *testing.T) {
	s := NewSanitizer("legacyKey")

	t.Run("drops denied keys", func(t *testing.T) {
		got := s.Sanitize(map[string]any{"legacyKey": "x", "a": 1})
		assert.Equal(t, map[string]any{"a": 1}, got)
	})

	t.Run("drops denied keys at every depth", func(t *testing.T) {
		got := s.Sanitize(map[string]any{
			"pricing": map[string]any{"legacyKey": 1, "listPrice": 17999},
			"images":  []any{map[string]any{"legacyKey": 2, "url": "a.jpg"}, map[string]any{"legacyKey": 3}},
		})
		assert.Equal(t, map[string]any{
			"pricing": map[string]any{"listPrice": 17999},
			"images":  []any{map[string]any{"url": "a.jpg"}},
		}, got)
	})

	t.Run("drops nil values", func(t *testing.T) {
		var missing *time.Time
		got := s.Sanitize(map[string]any{"a": nil, "b": missing, "c": 1})
		assert.Equal(t, map[string]any{"c": 1}, got)
	})

	t.Run("removes records left empty", func(t *testing.T) {
		assert.Equal(t, map[string]any{}, s.Sanitize(map[string]any{"a": map[string]any{"b": nil}}))
	})

	t.Run("removes arrays left empty", func(t *testing.T) {
		assert.Equal(t, map[string]any{}, s.Sanitize(map[string]any{"a": []any{nil, nil}}))
	})

	t.Run("compacts arrays", func(t *testing.T) {
		assert.Equal(t, map[string]any{"a": []any{1, 2}}, s.Sanitize(map[string]any{"a": []any{1, nil, 2}}))
	})

	t.Run("converts typed slices", func(t *testing.T) {
		got := s.Sanitize(map[string]any{"features": []string{"sunroof", "tow bar"}})
		assert.Equal(t, map[string]any{"features": []any{"sunroof", "tow bar"}}, got)
	})

	t.Run("converts typed maps", func(t *testing.T) {
		got := s.Sanitize(map[string]any{
			"labels":    map[string]string{"legacyKey": "x", "badge": "new"},
			"counts":    map[string]int{"views": 3},
			"emptied":   map[string]*time.Time{"soldAt": nil},
			"intKeyed":  map[int]string{1: "a"},
			"nilLabels": map[string]string(nil),
		})
		assert.Equal(t, map[string]any{
			"labels":   map[string]any{"badge": "new"},
			"counts":   map[string]any{"views": 3},
			"intKeyed": map[int]string{1: "a"},
		}, got)
	})

	t.Run("keeps dates opaque", func(t *testing.T) {
		at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		got := s.Sanitize(map[string]any{"internal": map[string]any{"acquiredAt": &at}})
		assert.Equal(t, map[string]any{"internal": map[string]any{"acquiredAt": at}}, got)
	})

	t.Run("keeps falsy scalars", func(t *testing.T) {
		in := map[string]any{"mileage": 0, "colour": "", "featured": false}
		assert.Equal(t, in, s.Sanitize(in))
	})

	t.Run("nil and empty input give an empty record", func(t *testing.T) {
		got := s.Sanitize(nil)
		require.NotNil(t, got)
		assert.Empty(t, got)
		assert.Equal(t, map[string]any{}, s.Sanitize(map[string]any{}))
	})

	t.Run("does not mutate input", func(t *testing.T) {
		in := map[string]any{"a": map[string]any{"b": nil, "c": 1}, "legacyKey": 1}
		_ = s.Sanitize(in)
		assert.Equal(t, map[string]any{"a": map[string]any{"b": nil, "c": 1}, "legacyKey": 1}, in)
	})
}

func TestSanitize_DefaultDenylist(t *testing.T) {
	got := Sanitize(map[string]any{"__v": 3, "vin": "JTD123"})
	assert.Equal(t, map[string]any{"vin": "JTD123"}, got)
}

func TestSanitize_ZeroValueDeniesNothing(t *testing.T) {
	var s Sanitizer
	assert.Equal(t, map[string]any{"__v": 3}, s.Sanitize(map[string]any{"__v": 3}))
}

func TestSanitizeProperties(t *testing.T) {
	s := NewSanitizer("__v")
	rapid.Check(t, func(t *rapid.T) {
		r := recordGen(3).Draw(t, "record")

		once := s.Sanitize(r)
		twice := s.Sanitize(once)
		if !assert.ObjectsAreEqual(once, twice) {
			t.Fatalf("sanitize is not idempotent:\n once: %#v\ntwice: %#v", once, twice)
		}
		if _, ok := once["__v"]; ok {
			t.Fatalf("denied key survived: %#v", once)
		}
	})
}
