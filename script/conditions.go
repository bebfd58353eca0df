package script

import (
	"fmt"
	"maps"
	"slices"

	"github.com/google/cel-go/cel"
)

// Conditions evaluates "//! if" expressions against build defines.
type Conditions struct {
	env    *cel.Env
	values map[string]any
}

// NewConditions declares every define as a CEL variable.
func NewConditions(defines map[string]any) (*Conditions, error) {
	envOptions := []cel.EnvOption{
		cel.HomogeneousAggregateLiterals(),
		cel.EagerlyValidateDeclarations(true),
	}

	values := make(map[string]any, len(defines))
	for _, key := range slices.Sorted(maps.Keys(defines)) {
		envOptions = append(envOptions, cel.Variable(key, cel.DynType))
		values[key] = normalize(defines[key])
	}

	env, err := cel.NewEnv(envOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create condition environment: %w", err)
	}

	return &Conditions{env: env, values: values}, nil
}

// Eval compiles and runs expression. Non-boolean results are errors.
func (c *Conditions) Eval(expression string) (bool, error) {
	ast, issues := c.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return false, fmt.Errorf("%w: %s: %w", ErrInvalidCondition, expression, issues.Err())
	}

	program, err := c.env.Program(ast)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %w", ErrInvalidCondition, expression, err)
	}

	result, _, err := program.Eval(c.values)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %w", ErrInvalidCondition, expression, err)
	}

	value, ok := result.Value().(bool)
	if !ok {
		return false, fmt.Errorf("%w: %s yields %s", ErrConditionNotBool, expression, result.Type().TypeName())
	}

	return value, nil
}

// normalize maps YAML numbers onto the int and double types CEL compares.
func normalize(v any) any {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case uint:
		return int64(n)
	case uint8:
		return int64(n)
	case uint16:
		return int64(n)
	case uint32:
		return int64(n)
	case uint64:
		return int64(n)
	case float32:
		return float64(n)
	case []any:
		out := make([]any, len(n))
		for i, e := range n {
			out[i] = normalize(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(n))
		for k, e := range n {
			out[k] = normalize(e)
		}
		return out
	}
	return v
}
