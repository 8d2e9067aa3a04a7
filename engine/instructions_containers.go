package engine

import "github.com/oarkflow/schemaflow/jsonmap"

// checkMapSchemaInstr implements CheckKeys/CheckValues together — the `keyschema`/
// `valueschema` directives applied to a Map. Either may be nil, meaning that side is
// passed through unchanged. Keys are interpreted first (in input order); if a
// keyschema transforms a key it must still yield a string, or the key cannot be
// placed back into the output Map.
type checkMapSchemaInstr struct {
	keySchema   *Program
	valueSchema *Program
}

func (c *checkMapSchemaInstr) Perform(value any, ctx *Context) (Step, error) {
	m, ok := asMap(value)
	if !ok {
		return Step{}, &BadTypeError{valueErrBase: valueErrBase{Stack: ctx.Stack(), Value: value}, TypeName: string(TypeDict)}
	}

	out := jsonmap.New()
	for _, k := range m.Keys() {
		v, _ := m.Get(k)

		outKey := k
		if c.keySchema != nil {
			childCtx := ctx.Push(k)
			newKey, err := Interpret(c.keySchema, k, childCtx)
			if err != nil {
				return Step{}, err
			}
			s, ok := newKey.(string)
			if !ok {
				return Step{}, &BadTypeError{valueErrBase: valueErrBase{Stack: childCtx.Stack(), Value: newKey}, TypeName: string(TypeString)}
			}
			outKey = s
		}

		outVal := v
		if c.valueSchema != nil {
			childCtx := ctx.Push(k)
			newVal, err := Interpret(c.valueSchema, v, childCtx)
			if err != nil {
				return Step{}, err
			}
			outVal = newVal
		}

		out = out.Set(outKey, outVal)
	}
	return continueWith(out, ctx)
}
