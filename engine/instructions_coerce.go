package engine

// coerceInstr implements Coerce(fn|name) — the pre-type-check `coerce` directive.
type coerceInstr struct{ ref FnOrName }

func (c *coerceInstr) Perform(value any, ctx *Context) (Step, error) {
	fn, err := resolveCoerce(c.ref, ctx)
	if err != nil {
		return Step{}, withStack(err, ctx, value)
	}
	out, cerr := runCoerce(fn, value, ctx)
	if cerr != nil {
		return Step{}, cerr
	}
	return continueWith(out, ctx)
}

// coercePostInstr implements CoercePost(fn|name) — runs after structural checks.
type coercePostInstr struct{ ref FnOrName }

func (c *coercePostInstr) Perform(value any, ctx *Context) (Step, error) {
	fn, err := resolveCoerce(c.ref, ctx)
	if err != nil {
		return Step{}, withStack(err, ctx, value)
	}
	out, cerr := runCoerce(fn, value, ctx)
	if cerr != nil {
		return Step{}, cerr
	}
	return continueWith(out, ctx)
}

func runCoerce(fn CoerceFunc, value any, ctx *Context) (any, error) {
	out, err := safeCallCoerce(fn, value, ctx)
	if err != nil {
		return nil, &CoerceUnexpectedError{valueErrBase: valueErrBase{Stack: ctx.Stack(), Value: value}, Cause: err}
	}
	return out, nil
}

func safeCallCoerce(fn CoerceFunc, value any, ctx *Context) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicToError(r)
		}
	}()
	return fn(value, ctx)
}

// customValidatorInstr implements CustomValidator(fn|name) — the `validator`
// directive.
type customValidatorInstr struct{ ref FnOrName }

func (c *customValidatorInstr) Perform(value any, ctx *Context) (Step, error) {
	fn, err := resolveValidator(c.ref, ctx)
	if err != nil {
		return Step{}, withStack(err, ctx, value)
	}
	verr := safeCallValidator(fn, value, ctx)
	if verr != nil {
		if _, isExpected := verr.(expectedValidationFailure); isExpected {
			return Step{}, &CustomValidatorErrorErr{valueErrBase: valueErrBase{Stack: ctx.Stack(), Value: value}, Message: verr.Error()}
		}
		return Step{}, &ValidatorUnexpectedError{valueErrBase: valueErrBase{Stack: ctx.Stack(), Value: value}, Cause: verr}
	}
	return continueWith(value, ctx)
}

// expectedValidationFailure marks an error returned intentionally by a validator
// callback (as opposed to an unexpected panic/exception), so CustomValidator can
// tell CustomValidatorError apart from ValidatorUnexpectedError.
type expectedValidationFailure struct{ error }

// Invalid wraps msg as an expected validation failure for use inside a registered
// ValidatorFunc, e.g. `return engine.Invalid("must be even")`.
func Invalid(format string, args ...any) error {
	return expectedValidationFailure{NewSimpleSchemaError(format, args...)}
}

func safeCallValidator(fn ValidatorFunc, value any, ctx *Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicToError(r)
		}
	}()
	verr := fn(value, ctx)
	if verr == nil {
		return nil
	}
	if _, ok := verr.(expectedValidationFailure); ok {
		return verr
	}
	return expectedValidationFailure{verr}
}

func panicToError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return NewSimpleSchemaError("panic: %v (%s)", r, describeGoType(r))
}
