package guard

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Victor-armando18/vehicle-admin/internal/domain"
)

type fakeExecutor struct {
	results map[string]any
	seen    []map[string]any
}

func (f *fakeExecutor) Execute(_ context.Context, rule map[string]any, vars map[string]any) (any, error) {
	f.seen = append(f.seen, vars)
	id, _ := rule["id"].(string)
	if err, ok := f.results[id].(error); ok {
		return nil, err
	}
	return f.results[id], nil
}

func pack(ids ...string) *domain.RulePackDefinition {
	p := &domain.RulePackDefinition{Version: "v1"}
	for _, id := range ids {
		p.Guards = append(p.Guards, domain.RuleConfig{ID: id, Logic: map[string]any{"id": id}, ErrorMessage: id + " hit"})
	}
	return p
}

func TestEngine_Check(t *testing.T) {
	exec := &fakeExecutor{results: map[string]any{
		"price-floor": true,
		"no-cost":     false,
		"broken":      errors.New("boom"),
		"not-bool":    "yes",
	}}
	e := NewEngine(exec, pack("price-floor", "no-cost", "broken", "not-bool"))

	got := e.Check(context.Background(), Facts{Delta: map[string]any{"a": 1}})

	require.Len(t, got, 1)
	assert.Equal(t, domain.GuardViolation{RuleID: "price-floor", Reason: "Violation Detected", Context: "price-floor hit"}, got[0])
	require.NotEmpty(t, exec.seen)
	assert.Equal(t, map[string]any{"a": 1}, exec.seen[0]["delta"])
	assert.Equal(t, map[string]any{}, exec.seen[0]["original"])
}

func TestEngine_DefaultMessage(t *testing.T) {
	exec := &fakeExecutor{results: map[string]any{"x": true}}
	p := &domain.RulePackDefinition{Guards: []domain.RuleConfig{{ID: "x", Logic: map[string]any{"id": "x"}}}}

	got := NewEngine(exec, p).Check(context.Background(), Facts{})
	require.Len(t, got, 1)
	assert.Equal(t, defaultViolationMessage, got[0].Context)
}

func TestEngine_LoadWhileChecking(t *testing.T) {
	e := NewEngine(&syncExecutor{}, pack("a"))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			e.Check(context.Background(), Facts{})
		}()
		go func() {
			defer wg.Done()
			e.Load(*pack("a", "b"))
		}()
	}
	wg.Wait()
	assert.Equal(t, "v1", e.Version())
}

type syncExecutor struct{}

func (syncExecutor) Execute(context.Context, map[string]any, map[string]any) (any, error) {
	return false, nil
}
