package engine

// elementsInstr implements CheckElements(subprogram) — the `elements` directive (and
// the list/set branch of the legacy `schema` directive): every element of a list, or
// every member of a set, is interpreted against the same subprogram and recollected,
// with its index pushed onto the stack.
type elementsInstr struct {
	elem *Program
}

func (c *elementsInstr) Perform(value any, ctx *Context) (Step, error) {
	if seq, ok := asSeq(value); ok {
		out := make([]any, len(seq))
		for i, item := range seq {
			childOut, err := Interpret(c.elem, item, ctx.Push(i))
			if err != nil {
				return Step{}, err
			}
			out[i] = childOut
		}
		return continueWith(out, ctx)
	}
	if s, ok := value.(*Set); ok {
		out := NewSet()
		for i, item := range s.Items() {
			childOut, err := Interpret(c.elem, item, ctx.Push(i))
			if err != nil {
				return Step{}, err
			}
			out = out.Add(childOut)
		}
		return continueWith(out, ctx)
	}
	return Step{}, &BadTypeError{valueErrBase: valueErrBase{Stack: ctx.Stack(), Value: value}, TypeName: string(TypeList)}
}
