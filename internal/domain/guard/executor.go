package guard

import "context"

type RuleExecutor interface {
	Execute(ctx context.Context, ruleData map[string]any, contextVars map[string]any) (any, error)
}
