package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/diegoholiveira/jsonlogic/v3"

	"github.com/Victor-armando18/vehicle-admin/internal/domain"
	ops "github.com/Victor-armando18/vehicle-admin/internal/infrastructure/jsonlogic"
)

// changedOp is true when its dotted path is present in the delta.
const changedOp = "changed"

type JsonLogicExecutor struct {
	customOps map[string]func(args ...any) any
}

func NewJsonLogicExecutor() *JsonLogicExecutor {
	j := &JsonLogicExecutor{
		customOps: make(map[string]func(args ...any) any),
	}
	j.RegisterCustomOperator("round", ops.Round)
	j.RegisterCustomOperator("pct_change", ops.PctChange)
	return j
}

func (j *JsonLogicExecutor) RegisterCustomOperator(name string, logic func(args ...any) any) {
	j.customOps[name] = logic
}

// Execute evaluates ruleData against contextVars. Custom operators are
// resolved first and replaced by their result, the remaining expression
// goes through the standard JsonLogic evaluator.
func (j *JsonLogicExecutor) Execute(ctx context.Context, ruleData map[string]any, contextVars map[string]any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	expanded, err := j.expand(ctx, ruleData, contextVars)
	if err != nil {
		return nil, err
	}
	rule, ok := expanded.(map[string]any)
	if !ok {
		return expanded, nil
	}

	ruleJSON, err := json.Marshal(rule)
	if err != nil {
		return nil, fmt.Errorf("%w: encode rule: %v", domain.ErrRuleExecutionFailed, err)
	}
	dataJSON, err := json.Marshal(contextVars)
	if err != nil {
		return nil, fmt.Errorf("%w: encode data: %v", domain.ErrRuleExecutionFailed, err)
	}

	var resultBuffer bytes.Buffer
	if err := jsonlogic.Apply(bytes.NewReader(ruleJSON), bytes.NewReader(dataJSON), &resultBuffer); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRuleExecutionFailed, err)
	}

	resultStr := bytes.TrimSpace(resultBuffer.Bytes())
	if len(resultStr) == 0 || string(resultStr) == "null" {
		return nil, nil
	}

	var res any
	decoder := json.NewDecoder(bytes.NewReader(resultStr))
	decoder.UseNumber()
	if err := decoder.Decode(&res); err != nil {
		return nil, fmt.Errorf("%w: decode result: %v", domain.ErrRuleExecutionFailed, err)
	}
	return finalizeValue(res), nil
}

// expand replaces every custom operator node in the expression tree by its
// computed value.
func (j *JsonLogicExecutor) expand(ctx context.Context, node any, data map[string]any) (any, error) {
	switch v := node.(type) {
	case map[string]any:
		if len(v) == 1 {
			for op, args := range v {
				if op == changedOp {
					params, err := j.evalArgs(ctx, args, data)
					if err != nil {
						return nil, err
					}
					var path string
					if len(params) > 0 {
						path, _ = params[0].(string)
					}
					delta, _ := data["delta"].(map[string]any)
					_, ok := ops.Lookup(delta, path)
					return ok, nil
				}
				if fn, ok := j.customOps[op]; ok {
					params, err := j.evalArgs(ctx, args, data)
					if err != nil {
						return nil, err
					}
					return fn(params...), nil
				}
			}
		}
		out := make(map[string]any, len(v))
		for k, sub := range v {
			res, err := j.expand(ctx, sub, data)
			if err != nil {
				return nil, err
			}
			out[k] = res
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, sub := range v {
			res, err := j.expand(ctx, sub, data)
			if err != nil {
				return nil, err
			}
			out[i] = res
		}
		return out, nil
	}
	return node, nil
}

// evalArgs resolves the arguments of a custom operator. A sub-rule that
// fails to evaluate yields nil, except when ctx is done.
func (j *JsonLogicExecutor) evalArgs(ctx context.Context, args any, data map[string]any) ([]any, error) {
	list, ok := args.([]any)
	if !ok {
		list = []any{args}
	}
	params := make([]any, 0, len(list))
	for _, item := range list {
		sub, isRule := item.(map[string]any)
		if !isRule {
			params = append(params, item)
			continue
		}
		if _, isVar := sub["var"]; isVar {
			params = append(params, j.resolveVar(sub, data))
			continue
		}
		res, err := j.Execute(ctx, sub, data)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			res = nil
		}
		params = append(params, res)
	}
	return params, nil
}

func (j *JsonLogicExecutor) resolveVar(arg any, data map[string]any) any {
	m, ok := arg.(map[string]any)
	if !ok {
		return arg
	}
	path, ok := m["var"].(string)
	if !ok {
		return arg
	}
	val, _ := ops.Lookup(data, path)
	return finalizeValue(val)
}

func finalizeValue(val any) any {
	if n, ok := val.(json.Number); ok {
		if f, err := n.Float64(); err == nil {
			return f
		}
	}
	return val
}
