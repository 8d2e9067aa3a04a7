package engine

// Interpret runs program against (value, ctx) and returns the transformed value or
// the first error encountered (spec.md §4.3). Structured the way
// jsonschema.Schema.Validate is — a single pass over a precompiled instruction list —
// generalized from "accumulate errors into a ValidateCtx" to "fail fast, threading an
// immutable Context".
func Interpret(program *Program, value any, ctx *Context) (any, error) {
	for _, instr := range program.Instructions {
		step, err := instr.Perform(value, ctx)
		if err != nil {
			return nil, err
		}
		switch step.Kind {
		case StepShortCircuit:
			return step.Value, nil

		case StepSubProgram:
			subCtx, derr := step.SubContext.enterSubProgram()
			if derr != nil {
				return nil, derr
			}
			subOut, serr := Interpret(step.Sub, step.SubValue, subCtx)
			if serr != nil {
				return nil, serr
			}
			if step.Merge != nil {
				merged, merr := step.Merge(subOut)
				if merr != nil {
					return nil, merr
				}
				value = merged
			} else {
				value = subOut
			}

		default: // StepContinue
			value = step.Value
			ctx = step.Context
		}
	}
	return value, nil
}

// interpretCatchingErrors runs program against (value, ctx) for use by anyof/oneof
// candidates, where a failing branch must not abort the whole interpretation (spec.md
// §4.3 "anyof semantics", §7 "Inside anyof/oneof... captured per branch"). It returns
// a ValueError (including the RegisteredFunctionNotFoundError of an unresolved
// schema_ref) as a candidate failure for the caller to collect, but a SchemaError
// (e.g. MaxRecursionDepthExceededError) escaping a candidate is a hard stop, not a candidate failure, and is returned as-is in the
// plain error slot for the caller to re-raise immediately instead of absorbing it into
// NoneMatched/MoreThanOneMatched bookkeeping (spec.md §5 resource-limit semantics).
func interpretCatchingErrors(program *Program, value any, ctx *Context) (any, ValueError, error) {
	out, err := Interpret(program, value, ctx)
	if err == nil {
		return out, nil, nil
	}
	if ve, ok := err.(ValueError); ok {
		return nil, ve, nil
	}
	return nil, nil, err
}
