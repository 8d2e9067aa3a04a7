package engine

// registerSchemasInstr implements RegisterSchemas (spec.md §4.1).
type registerSchemasInstr struct{ entries map[string]*Program }

func (r *registerSchemasInstr) Perform(value any, ctx *Context) (Step, error) {
	return continueWith(value, ctx.RegisterSchemas(r.entries))
}

type registerDefaultsInstr struct{ entries map[string]DefaultSetterFunc }

func (r *registerDefaultsInstr) Perform(value any, ctx *Context) (Step, error) {
	return continueWith(value, ctx.RegisterDefaults(r.entries))
}

type registerCoercesInstr struct{ entries map[string]CoerceFunc }

func (r *registerCoercesInstr) Perform(value any, ctx *Context) (Step, error) {
	return continueWith(value, ctx.RegisterCoerces(r.entries))
}

type registerValidatorsInstr struct{ entries map[string]ValidatorFunc }

func (r *registerValidatorsInstr) Perform(value any, ctx *Context) (Step, error) {
	return continueWith(value, ctx.RegisterValidators(r.entries))
}

type registerModifyContextsInstr struct{ entries map[string]ModifyContextFunc }

func (r *registerModifyContextsInstr) Perform(value any, ctx *Context) (Step, error) {
	return continueWith(value, ctx.RegisterModifyContexts(r.entries))
}

// setAllowUnknownInstr implements SetAllowUnknown(bool).
type setAllowUnknownInstr struct{ allow bool }

func (s *setAllowUnknownInstr) Perform(value any, ctx *Context) (Step, error) {
	return continueWith(value, ctx.WithAllowUnknown(s.allow))
}

// setTagFromKeyInstr implements SetTagFromKey(tag, key): reads `key` out of the
// current value (which must be a Map) and binds `tag` to it.
type setTagFromKeyInstr struct {
	tag string
	key string
}

func (s *setTagFromKeyInstr) Perform(value any, ctx *Context) (Step, error) {
	m, ok := asMap(value)
	if !ok {
		return Step{}, &BadTypeError{valueErrBase: valueErrBase{Stack: ctx.Stack(), Value: value}, TypeName: string(TypeDict)}
	}
	v, _ := m.Get(s.key)
	return continueWith(value, ctx.SetTag(s.tag, v))
}

// setTagFromValueInstr implements SetTagFromValue(tag, literal).
type setTagFromValueInstr struct {
	tag     string
	literal any
}

func (s *setTagFromValueInstr) Perform(value any, ctx *Context) (Step, error) {
	return continueWith(value, ctx.SetTag(s.tag, s.literal))
}

// modifyContextInstr implements ModifyContext(fn|name).
type modifyContextInstr struct{ ref FnOrName }

func (m *modifyContextInstr) Perform(value any, ctx *Context) (Step, error) {
	fn, err := resolveModifyContext(m.ref, ctx, "modify_context")
	if err != nil {
		return Step{}, withStack(err, ctx, value)
	}
	newCtx, cerr := fn(value, ctx)
	if cerr != nil {
		return Step{}, &CustomValidatorErrorErr{valueErrBase: valueErrBase{Stack: ctx.Stack(), Value: value}, Message: cerr.Error()}
	}
	return continueWith(value, newCtx)
}

// skipIfNullInstr implements SkipIfNull: short-circuits with the input when Null.
type skipIfNullInstr struct{}

func (skipIfNullInstr) Perform(value any, ctx *Context) (Step, error) {
	if value == nil {
		return shortCircuit(nil)
	}
	return continueWith(value, ctx)
}

func withStack(err error, ctx *Context, value any) error {
	if rf, ok := err.(*RegisteredFunctionNotFoundError); ok {
		rf.Stack = ctx.Stack()
		rf.Value = value
		return rf
	}
	if tf, ok := err.(*TagNotFoundError); ok {
		tf.Stack = ctx.Stack()
		tf.Value = value
		return tf
	}
	return err
}
