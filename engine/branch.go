package engine

// caseEntry is one (match key, subprogram) pair of a branch instruction. Match keys
// are compared by canonicalKey so string/int/bool literals all work uniformly.
type caseEntry struct {
	key     any
	program *Program
}

func lookupCase(cases []caseEntry, matchValue any) (*Program, bool) {
	target := canonicalKey(matchValue)
	for _, c := range cases {
		if canonicalKey(c.key) == target {
			return c.program, true
		}
	}
	return nil, false
}

// branchWhenTagIsInstr implements WhenTagIs(tag, cases, default?) — dispatches on a
// previously-bound tag (spec.md §4.4's SetTagFromKey/SetTagFromValue pair this with).
type branchWhenTagIsInstr struct {
	tag     string
	cases   []caseEntry
	dfltKey any
	hasDflt bool
}

func (b *branchWhenTagIsInstr) Perform(value any, ctx *Context) (Step, error) {
	tagValue, ok := ctx.Tag(b.tag)
	if !ok {
		if !b.hasDflt {
			return Step{}, &TagNotFoundError{valueErrBase: valueErrBase{Stack: ctx.Stack(), Value: value}, Tag: b.tag}
		}
		tagValue = b.dfltKey
	}
	chosen, ok := lookupCase(b.cases, tagValue)
	if !ok {
		return Step{}, &DisallowedValueError{valueErrBase: valueErrBase{Stack: ctx.Stack(), Value: tagValue}, Allowed: caseKeys(b.cases)}
	}
	return subProgram(chosen, value, ctx, nil)
}

func caseKeys(cases []caseEntry) []any {
	out := make([]any, len(cases))
	for i, c := range cases {
		out[i] = c.key
	}
	return out
}

// branchWhenKeyIsInstr implements WhenKeyIs(key, cases, default?) — dispatches on the
// literal value of a field in the current Map (spec.md §4.4, the legacy
// `when_key_is` top-level directive).
type branchWhenKeyIsInstr struct {
	key     string
	cases   []caseEntry
	dfltKey any
	hasDflt bool
}

func (b *branchWhenKeyIsInstr) Perform(value any, ctx *Context) (Step, error) {
	m, ok := asMap(value)
	if !ok {
		return Step{}, &BadTypeError{valueErrBase: valueErrBase{Stack: ctx.Stack(), Value: value}, TypeName: string(TypeDict)}
	}
	keyValue, present := m.Get(b.key)
	if !present {
		if !b.hasDflt {
			return Step{}, &DisallowedValueError{valueErrBase: valueErrBase{Stack: ctx.Stack(), Value: nil}, Allowed: caseKeys(b.cases)}
		}
		keyValue = b.dfltKey
	}
	chosen, ok := lookupCase(b.cases, keyValue)
	if !ok {
		return Step{}, &DisallowedValueError{valueErrBase: valueErrBase{Stack: ctx.Stack().Push(b.key), Value: keyValue}, Allowed: caseKeys(b.cases)}
	}
	return subProgram(chosen, value, ctx, nil)
}

// whenKeyExistsBranch is one (candidate key, subprogram) pair of a `when_key_exists`
// directive: the candidate key names a field whose mere presence selects this branch.
type whenKeyExistsBranch struct {
	key     string
	program *Program
}

// branchWhenKeyExistsInstr implements WhenKeyExists(branches) (spec.md §4.2): exactly
// one of the candidate keys must be present in the current Map; zero is
// ExpectedOneField, two or more is DisallowedField.
type branchWhenKeyExistsInstr struct {
	branches []whenKeyExistsBranch
}

func (b *branchWhenKeyExistsInstr) Perform(value any, ctx *Context) (Step, error) {
	m, ok := asMap(value)
	if !ok {
		return Step{}, &BadTypeError{valueErrBase: valueErrBase{Stack: ctx.Stack(), Value: value}, TypeName: string(TypeDict)}
	}

	var present []whenKeyExistsBranch
	for _, br := range b.branches {
		if m.Has(br.key) {
			present = append(present, br)
		}
	}

	switch len(present) {
	case 0:
		candidates := make([]string, len(b.branches))
		for i, br := range b.branches {
			candidates[i] = br.key
		}
		return Step{}, &ExpectedOneFieldError{valueErrBase: valueErrBase{Stack: ctx.Stack(), Value: value}, Candidates: candidates}
	case 1:
		return subProgram(present[0].program, value, ctx, nil)
	default:
		return Step{}, &DisallowedFieldError{
			valueErrBase: valueErrBase{Stack: ctx.Stack(), Value: value},
			Field:        present[1].key,
			Because:      "only one of the when_key_exists candidates may be present; " + present[0].key + " is already present",
		}
	}
}

// branchWhenTypeIsInstr implements WhenTypeIs(cases) — dispatches on the
// value's own runtime type, in the fixed typePrecedence order (spec.md §4.2, §9).
type branchWhenTypeIsInstr struct {
	cases map[TypeName]*Program
}

func (b *branchWhenTypeIsInstr) Perform(value any, ctx *Context) (Step, error) {
	for _, t := range typePrecedence {
		if !MatchesType(value, t) {
			continue
		}
		if p, ok := b.cases[t]; ok {
			return subProgram(p, value, ctx, nil)
		}
	}
	return Step{}, &NoTypeMatchError{valueErrBase: valueErrBase{Stack: ctx.Stack(), Value: value}}
}

// applyDynamicSchemaInstr implements ApplyDynamicSchema(fn) — a schema chosen by an
// arbitrary Go callback instead of a static case table, for schemas that need logic
// choose_schema's declarative cases can't express.
type applyDynamicSchemaInstr struct {
	fn dynamicSchemaFunc
}

func (a *applyDynamicSchemaInstr) Perform(value any, ctx *Context) (Step, error) {
	chosen, err := a.fn(value, ctx)
	if err != nil {
		return Step{}, withStack(err, ctx, value)
	}
	return subProgram(chosen, value, ctx, nil)
}

// anyOfInstr implements AnyOf(candidates) (spec.md §4.3 "anyof semantics"): the first
// candidate that interprets without error wins; if none do, NoneMatchedError
// aggregates every candidate's failure (SPEC_FULL.md §C.5).
type anyOfInstr struct {
	candidates []*Program
}

func (a *anyOfInstr) Perform(value any, ctx *Context) (Step, error) {
	var failures []ValueError
	for _, cand := range a.candidates {
		subCtx, derr := ctx.enterSubProgram()
		if derr != nil {
			return Step{}, derr
		}
		out, verr, herr := interpretCatchingErrors(cand, value, subCtx)
		if herr != nil {
			return Step{}, herr
		}
		if verr == nil {
			return continueWith(out, ctx)
		}
		failures = append(failures, verr)
	}
	return Step{}, &NoneMatchedError{valueErrBase: valueErrBase{Stack: ctx.Stack(), Value: value}, Candidates: failures}
}

// oneOfInstr implements OneOf(candidates): exactly one candidate must succeed, or the
// value is rejected either as unmatched or ambiguous.
type oneOfInstr struct {
	candidates []*Program
}

func (o *oneOfInstr) Perform(value any, ctx *Context) (Step, error) {
	var failures []ValueError
	var matchedIdx []int
	var matchedOut any

	for i, cand := range o.candidates {
		subCtx, derr := ctx.enterSubProgram()
		if derr != nil {
			return Step{}, derr
		}
		out, verr, herr := interpretCatchingErrors(cand, value, subCtx)
		if herr != nil {
			return Step{}, herr
		}
		if verr != nil {
			failures = append(failures, verr)
			continue
		}
		matchedIdx = append(matchedIdx, i)
		matchedOut = out
	}

	switch len(matchedIdx) {
	case 0:
		return Step{}, &NoneMatchedError{valueErrBase: valueErrBase{Stack: ctx.Stack(), Value: value}, Candidates: failures}
	case 1:
		return continueWith(matchedOut, ctx)
	default:
		return Step{}, &MoreThanOneMatchedError{valueErrBase: valueErrBase{Stack: ctx.Stack(), Value: value}, MatchedIndexes: matchedIdx}
	}
}
