package guard

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Victor-armando18/vehicle-admin/internal/domain"
)

const defaultViolationMessage = "Restrictive condition hit"

// Engine evaluates the guards of the current rule pack. The pack can be
// swapped while checks are running.
type Engine struct {
	executor RuleExecutor

	mu   sync.RWMutex
	pack domain.RulePackDefinition
}

func NewEngine(executor RuleExecutor, pack *domain.RulePackDefinition) *Engine {
	e := &Engine{executor: executor}
	if pack != nil {
		e.pack = *pack
	}
	return e
}

func (e *Engine) Load(pack domain.RulePackDefinition) {
	e.mu.Lock()
	e.pack = pack
	e.mu.Unlock()
}

func (e *Engine) Version() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.pack.Version
}

// Check returns one violation per guard whose logic evaluates to true.
// Guards that fail to execute are logged and skipped.
func (e *Engine) Check(ctx context.Context, facts Facts) []domain.GuardViolation {
	e.mu.RLock()
	guards := e.pack.Guards
	version := e.pack.Version
	e.mu.RUnlock()

	vars := facts.ToMap()
	violations := []domain.GuardViolation{}
	for _, rule := range guards {
		out, err := e.executor.Execute(ctx, rule.Logic, vars)
		if err != nil {
			log.Warn().Err(err).Str("rule", rule.ID).Str("rules_version", version).Msg("guard skipped")
			continue
		}
		if hit, ok := out.(bool); !ok || !hit {
			continue
		}

		msg := rule.ErrorMessage
		if msg == "" {
			msg = defaultViolationMessage
		}
		violations = append(violations, domain.GuardViolation{
			RuleID:  rule.ID,
			Reason:  "Violation Detected",
			Context: msg,
		})
	}
	return violations
}
