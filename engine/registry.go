package engine

// schemaReferenceInstr implements SchemaReference(name) — a forward or recursive
// reference to a named schema that could not be resolved to a direct *Program
// pointer at compile time (spec.md §4.2 "recursion via named schema refs"). It is
// resolved lazily, each time the reference is reached, against whatever registry is
// active in ctx at that point — which is always after the `registry`
// directive that defines it has run, since RegisterSchemas precedes every other
// directive in compiled-instruction order (spec.md §4.2 directive precedence).
type schemaReferenceInstr struct {
	name string
}

func (s *schemaReferenceInstr) Perform(value any, ctx *Context) (Step, error) {
	target, ok := ctx.Schema(s.name)
	if !ok {
		return Step{}, withStack(&RegisteredFunctionNotFoundError{Name: s.name, Kind: "schema"}, ctx, value)
	}
	return subProgram(target, value, ctx, nil)
}
