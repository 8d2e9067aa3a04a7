package engine

import "github.com/oarkflow/schemaflow/jsonmap"

func asMap(v any) (*jsonmap.OrderedMap, bool) {
	m, ok := v.(*jsonmap.OrderedMap)
	return m, ok
}

func asSeq(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

// resolveCoerce looks up a CoerceFunc from a FnOrName, either by direct cast (a
// literal callback embedded in the schema) or by registry lookup.
func resolveCoerce(ref FnOrName, ctx *Context) (CoerceFunc, error) {
	if ref.HasName {
		f, ok := ctx.Coercer(ref.Name)
		if !ok {
			return nil, &RegisteredFunctionNotFoundError{Name: ref.Name, Kind: "coercer"}
		}
		return f, nil
	}
	return adaptCoerceFunc(ref.Fn)
}

func resolveValidator(ref FnOrName, ctx *Context) (ValidatorFunc, error) {
	if ref.HasName {
		f, ok := ctx.Validator(ref.Name)
		if !ok {
			return nil, &RegisteredFunctionNotFoundError{Name: ref.Name, Kind: "validator"}
		}
		return f, nil
	}
	return adaptValidatorFunc(ref.Fn)
}

func resolveDefaultSetter(ref FnOrName, ctx *Context) (DefaultSetterFunc, error) {
	if ref.HasName {
		f, ok := ctx.DefaultSetter(ref.Name)
		if !ok {
			return nil, &RegisteredFunctionNotFoundError{Name: ref.Name, Kind: "default_setter"}
		}
		return f, nil
	}
	return adaptDefaultSetterFunc(ref.Fn)
}

func resolveModifyContext(ref FnOrName, ctx *Context, _ string) (ModifyContextFunc, error) {
	if ref.HasName {
		f, ok := ctx.ModifyContextFn(ref.Name)
		if !ok {
			return nil, &RegisteredFunctionNotFoundError{Name: ref.Name, Kind: "modify_context"}
		}
		return f, nil
	}
	return adaptModifyContextFunc(ref.Fn)
}

// adapt*Func normalize the various literal Go callback shapes a schema author may
// supply (a bare func(value) any, a func(value) error, ...) into the engine's
// canonical Func types. Shared by resolve* above (a `fn|name` directive value) and
// by the compiler's *_registry directives (whose entries are always literal
// callables, never names).
func adaptCoerceFunc(v any) (CoerceFunc, error) {
	switch f := v.(type) {
	case CoerceFunc:
		return f, nil
	case func(any, *Context) (any, error):
		return f, nil
	case func(any) (any, error):
		return func(v any, _ *Context) (any, error) { return f(v) }, nil
	case func(any) any:
		return func(v any, _ *Context) (any, error) { return f(v), nil }, nil
	default:
		return nil, NewSimpleSchemaError("coerce value is neither a registry name nor a compatible function: %T", v)
	}
}

func adaptValidatorFunc(v any) (ValidatorFunc, error) {
	switch f := v.(type) {
	case ValidatorFunc:
		return f, nil
	case func(any, *Context) error:
		return f, nil
	case func(any) error:
		return func(v any, _ *Context) error { return f(v) }, nil
	default:
		return nil, NewSimpleSchemaError("validator value is neither a registry name nor a compatible function: %T", v)
	}
}

func adaptDefaultSetterFunc(v any) (DefaultSetterFunc, error) {
	switch f := v.(type) {
	case DefaultSetterFunc:
		return f, nil
	case func(any, *Context) (any, error):
		return f, nil
	case func() any:
		return func(any, *Context) (any, error) { return f(), nil }, nil
	default:
		return nil, NewSimpleSchemaError("default_setter value is neither a registry name nor a compatible function: %T", v)
	}
}

func adaptModifyContextFunc(v any) (ModifyContextFunc, error) {
	switch f := v.(type) {
	case ModifyContextFunc:
		return f, nil
	case func(any, *Context) (*Context, error):
		return f, nil
	default:
		return nil, NewSimpleSchemaError("modify_context value is neither a registry name nor a compatible function: %T", v)
	}
}

func adaptDynamicSchemaFunc(v any) (dynamicSchemaFunc, error) {
	switch f := v.(type) {
	case dynamicSchemaFunc:
		return f, nil
	case func(any, *Context) (*Program, error):
		return f, nil
	case func(any, *Context) (any, error):
		return func(value any, ctx *Context) (*Program, error) {
			raw, err := f(value, ctx)
			if err != nil {
				return nil, err
			}
			if p, ok := raw.(*Program); ok {
				return p, nil
			}
			return Compile(raw)
		}, nil
	default:
		return nil, NewSimpleSchemaError("choose_schema function is not a compatible callback: %T", v)
	}
}

// dynamicSchemaFunc picks a *Program based on the runtime value and context, for
// ApplyDynamicSchema.
type dynamicSchemaFunc func(value any, ctx *Context) (*Program, error)
