package engine

import "github.com/oarkflow/expr"

// seedExprBuiltins registers the "expr" coercer and default-setter, evaluating a
// string schema value as an oarkflow/expr expression (SPEC_FULL.md §B), the same
// library and Parse/Eval shape jsonschema/v2/expression.go uses for its
// `{{ ... }}` default templates, generalized here into an ordinary registry entry
// instead of a hardcoded string-prefix special case.
func seedExprBuiltins(c *Context) {
	c.coerces["expr"] = coerceExpr
	c.defaults["expr"] = defaultExpr
}

func coerceExpr(value any, _ *Context) (any, error) {
	src, ok := value.(string)
	if !ok {
		return nil, NewSimpleSchemaError("expr coerce: expected a string expression, got %s", describeGoType(value))
	}
	return evalExprString(src, map[string]any{"value": value})
}

func defaultExpr(container any, ctx *Context) (any, error) {
	m, ok := asMap(container)
	if !ok {
		return nil, NewSimpleSchemaError("expr default_setter: expected the enclosing dict, got %s", describeGoType(container))
	}
	expression, ok := ctx.Tag("expr")
	if !ok {
		return nil, NewSimpleSchemaError("expr default_setter: no \"expr\" tag bound (set one via set_tag with a \"value\" entry before this field)")
	}
	src, ok := expression.(string)
	if !ok {
		return nil, NewSimpleSchemaError("expr default_setter: \"expr\" tag must be a string expression")
	}
	return evalExprString(src, map[string]any{"self": m})
}

func evalExprString(src string, env map[string]any) (any, error) {
	program, err := expr.Parse(src)
	if err != nil {
		return nil, NewSimpleSchemaError("expr: %v", err)
	}
	out, err := program.Eval(env)
	if err != nil {
		return nil, err
	}
	return normalizeExprResult(out), nil
}

// normalizeExprResult maps whatever numeric Go type the expr library's evaluator
// returns (int, int32, float32, ...) onto the engine's own closed numeric
// representation (int64/float64, spec.md §3), so a value computed by "expr" passes
// a downstream `type: integer`/`type: number` check exactly like a JSON literal
// would.
func normalizeExprResult(v any) any {
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
	default:
		return v
	}
}
