package engine

import (
	"github.com/oarkflow/schemaflow/jsonmap"
)

// fieldEntry is one compiled (source key, subprogram) pair of a `fields` directive.
// Kept as an ordered slice (not a bare map) so CheckFields processes and emits
// fields in schema-declaration order, preserving spec.md §3's "Maps preserve
// insertion order" for the engine's own output.
type fieldEntry struct {
	Key     string
	Program *Program
}

// checkFieldsInstr implements CheckFields (spec.md §4.1): requires a Map, applies
// allow_unknown, per-field defaults/default-setters, renames, required/excludes, and
// recursively interprets each field's subprogram with the stack extended by its key.
type checkFieldsInstr struct {
	fields []fieldEntry
}

func (c *checkFieldsInstr) Perform(value any, ctx *Context) (Step, error) {
	m, ok := asMap(value)
	if !ok {
		return Step{}, &BadTypeError{valueErrBase: valueErrBase{Stack: ctx.Stack(), Value: value}, TypeName: string(TypeDict)}
	}

	out := jsonmap.New()
	consumed := make(map[string]struct{}, len(c.fields))
	renameTargets := make(map[string]string, len(c.fields))
	for _, fe := range c.fields {
		if fe.Program.Field.Rename != "" {
			renameTargets[fe.Program.Field.Rename] = fe.Key
		}
	}

	for _, fe := range c.fields {
		meta := fe.Program.Field
		consumed[fe.Key] = struct{}{}

		present := m.Has(fe.Key)
		if present && len(meta.Excludes) > 0 {
			for _, ex := range meta.Excludes {
				if m.Has(ex) {
					return Step{}, &DisallowedFieldError{
						valueErrBase: valueErrBase{Stack: ctx.Stack(), Value: value},
						Field:        fe.Key,
						Because:      "excludes field " + ex + ", which is also present",
					}
				}
			}
		}

		var fieldValue any
		if present {
			fieldValue, _ = m.Get(fe.Key)
		} else {
			computed, has, err := computeFieldDefault(out, fe.Key, meta, ctx, value)
			if err != nil {
				return Step{}, err
			}
			if !has {
				continue
			}
			fieldValue = computed
		}

		childCtx := ctx.Push(fe.Key)
		childOut, err := Interpret(fe.Program, fieldValue, childCtx)
		if err != nil {
			return Step{}, err
		}

		outKey := fe.Key
		if meta.Rename != "" {
			outKey = meta.Rename
		}
		if out.Has(outKey) {
			return Step{}, &DisallowedFieldError{
				valueErrBase: valueErrBase{Stack: ctx.Stack(), Value: value},
				Field:        fe.Key,
				Because:      "its output key " + outKey + " is already written by another field",
			}
		}
		out = out.Set(outKey, childOut)
	}

	if !ctx.AllowUnknown() {
		var unknown []string
		for _, k := range m.Keys() {
			if _, ok := consumed[k]; ok {
				continue
			}
			unknown = append(unknown, k)
		}
		if len(unknown) > 0 {
			return Step{}, &UnknownFieldsError{valueErrBase: valueErrBase{Stack: ctx.Stack(), Value: value}, Fields: unknown}
		}
	} else {
		for _, k := range m.Keys() {
			if _, ok := consumed[k]; ok {
				continue
			}
			if owner, collides := renameTargets[k]; collides {
				return Step{}, &DisallowedFieldError{
					valueErrBase: valueErrBase{Stack: ctx.Stack(), Value: value},
					Field:        k,
					Because:      "collides with field " + owner + "'s rename target",
				}
			}
			v, _ := m.Get(k)
			out = out.Set(k, v)
		}
	}

	return continueWith(out, ctx)
}

// computeFieldDefault resolves a missing field's value via default_setter (first)
// or the literal default (second); the bool return reports whether a value was
// produced at all (false for "not required, no default → omit").
func computeFieldDefault(container any, key string, meta FieldMeta, ctx *Context, docValue any) (any, bool, error) {
	if meta.HasSetter {
		fn, err := resolveDefaultSetter(meta.DefaultSetter, ctx)
		if err != nil {
			return nil, false, withStack(err, ctx, docValue)
		}
		v, derr := safeCallDefaultSetter(fn, container, ctx)
		if derr != nil {
			return nil, false, &DefaultSetterUnexpectedError{valueErrBase: valueErrBase{Stack: ctx.Stack(), Value: docValue}, Field: key, Cause: derr}
		}
		return v, true, nil
	}
	if meta.Default.Present {
		return meta.Default.Value, true, nil
	}
	if meta.Required {
		return nil, false, &DictFieldNotFoundError{valueErrBase: valueErrBase{Stack: ctx.Stack(), Value: docValue}, Field: key}
	}
	return nil, false, nil
}

func safeCallDefaultSetter(fn DefaultSetterFunc, container any, ctx *Context) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicToError(r)
		}
	}()
	return fn(container, ctx)
}
