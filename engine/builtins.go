package engine

import (
	"strconv"

	"github.com/oarkflow/schemaflow/jsonmap"
)

// seedBuiltinRegistries installs the engine's built-in default-setters and coercers
// into a fresh root Context (spec.md §4.4's registries are "pre-populated with a
// small built-in set, then extended by registry/default_registry directives").
// Extra domain builtins (expr/date/fake) live in their own builtin_*.go files and are
// merged in here so NewRootContext always returns a fully-seeded Context.
func seedBuiltinRegistries(c *Context) {
	c.defaults = map[string]DefaultSetterFunc{
		"list": func(any, *Context) (any, error) { return []any{}, nil },
		"dict": func(any, *Context) (any, error) { return jsonmap.New(), nil },
		"set":  func(any, *Context) (any, error) { return NewSet(), nil },
	}
	c.coerces = map[string]CoerceFunc{
		"to_list":  coerceToList,
		"to_set":   coerceToSet,
		"to_str":   coerceToStr,
		"to_int":   coerceToInt,
		"to_float": coerceToFloat,
		"to_bool":  coerceToBool,
	}
	c.validators = map[string]ValidatorFunc{}
	c.modifyContexts = map[string]ModifyContextFunc{}

	seedExprBuiltins(c)
	seedDateBuiltins(c)
	seedFakeBuiltins(c)
}

// coerceToList turns a Set (or an already-list value) into a []any, in whatever
// order the source iterates — Sets in insertion order, lists unchanged.
func coerceToList(value any, _ *Context) (any, error) {
	switch v := value.(type) {
	case []any:
		return v, nil
	case *Set:
		return append([]any(nil), v.Items()...), nil
	default:
		return nil, NewSimpleSchemaError("to_list: cannot coerce %s", describeGoType(value))
	}
}

// coerceToSet turns a []any (or an already-Set value) into a *Set, deduplicating by
// canonical key.
func coerceToSet(value any, _ *Context) (any, error) {
	switch v := value.(type) {
	case *Set:
		return v, nil
	case []any:
		return NewSet(v...), nil
	default:
		return nil, NewSimpleSchemaError("to_set: cannot coerce %s", describeGoType(value))
	}
}

// coerceToStr stringifies a scalar, the common "rename + coerce" idiom for fields
// whose wire type is numeric but whose normalized type must be a string.
func coerceToStr(value any, _ *Context) (any, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	case nil:
		return "", nil
	default:
		return nil, NewSimpleSchemaError("to_str: cannot coerce %s", describeGoType(value))
	}
}

func coerceToInt(value any, _ *Context) (any, error) {
	switch v := value.(type) {
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, NewSimpleSchemaError("to_int: %v", err)
		}
		return n, nil
	default:
		return nil, NewSimpleSchemaError("to_int: cannot coerce %s", describeGoType(value))
	}
}

func coerceToFloat(value any, _ *Context) (any, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, NewSimpleSchemaError("to_float: %v", err)
		}
		return f, nil
	default:
		return nil, NewSimpleSchemaError("to_float: cannot coerce %s", describeGoType(value))
	}
}

func coerceToBool(value any, _ *Context) (any, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, NewSimpleSchemaError("to_bool: %v", err)
		}
		return b, nil
	default:
		return nil, NewSimpleSchemaError("to_bool: cannot coerce %s", describeGoType(value))
	}
}
