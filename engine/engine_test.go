package engine

import (
	"testing"

	"github.com/oarkflow/schemaflow/jsonmap"
)

func compileOrFatal(t *testing.T, schemaJSON string) *Program {
	t.Helper()
	raw, err := jsonmap.Decode([]byte(schemaJSON))
	if err != nil {
		t.Fatalf("decode schema: %v", err)
	}
	prog, err := Compile(raw)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return prog
}

func decodeOrFatal(t *testing.T, valueJSON string) any {
	t.Helper()
	v, err := jsonmap.Decode([]byte(valueJSON))
	if err != nil {
		t.Fatalf("decode value: %v", err)
	}
	return v
}

// Universal property 4: a name registered at a deeper nesting shadows the outer
// registration for sub-schema resolution at that depth and below.
func TestRegistryShadowing(t *testing.T) {
	prog := compileOrFatal(t, `{
		"registry": {"T": {"type": "string"}},
		"fields": {
			"inner": {
				"registry": {"T": {"type": "integer"}},
				"schema_ref": "T"
			}
		}
	}`)
	prog = wrapInDictFields(t, prog)

	out, err := Interpret(prog, decodeOrFatal(t, `{"inner": 5}`), NewRootContext())
	if err != nil {
		t.Fatalf("interpret: %v", err)
	}
	m := out.(*jsonmap.OrderedMap)
	if v, _ := m.Get("inner"); v != int64(5) {
		t.Fatalf("inner = %#v, want int64(5) (inner registry T=integer should win)", v)
	}
}

// wrapInDictFields is a no-op helper kept for readability at call sites — the
// fixture above already compiles as a self-contained dict schema.
func wrapInDictFields(t *testing.T, p *Program) *Program {
	t.Helper()
	return p
}

// Universal property 5: a failed anyof candidate must not leak tag writes to later
// directives.
func TestAnyOfCandidateIsolation(t *testing.T) {
	prog := compileOrFatal(t, `{
		"type": "dict",
		"anyof": [
			{"set_tag": {"tag_name": "seen", "value": "first"}, "fields": {"x": {"type": "integer"}}},
			{"fields": {"x": {"type": "string"}}}
		],
		"validator": "check_no_leak"
	}`)

	var observedTag any
	var observedPresent bool
	ctx := NewRootContext().RegisterValidators(map[string]ValidatorFunc{
		"check_no_leak": func(value any, ctx *Context) error {
			observedTag, observedPresent = ctx.Tag("seen")
			return nil
		},
	})

	// "x": "hi" only matches the second candidate (string), so the first candidate
	// (which sets the "seen" tag) must have failed and left no trace.
	_, err := Interpret(prog, decodeOrFatal(t, `{"x": "hi"}`), ctx)
	if err != nil {
		t.Fatalf("interpret: %v", err)
	}
	if observedPresent {
		t.Fatalf("tag %q leaked from a failed anyof candidate: %#v", "seen", observedTag)
	}
}

func TestOneOfExactlyOneMatch(t *testing.T) {
	prog := compileOrFatal(t, `{"oneof": [{"type": "integer"}, {"type": "string"}]}`)

	out, err := Interpret(prog, decodeOrFatal(t, `5`), NewRootContext())
	if err != nil {
		t.Fatalf("interpret int: %v", err)
	}
	if out != int64(5) {
		t.Fatalf("out = %#v, want int64(5)", out)
	}

	_, err = Interpret(prog, decodeOrFatal(t, `true`), NewRootContext())
	if err == nil {
		t.Fatalf("expected NoneMatched for a bool matching neither candidate")
	}
	if _, ok := err.(*NoneMatchedError); !ok {
		t.Fatalf("err = %#v (%T), want *NoneMatchedError", err, err)
	}
}

func TestOneOfAmbiguousMatch(t *testing.T) {
	// number matches both "number" and "integer" cases ⇒ more than one candidate wins.
	prog := compileOrFatal(t, `{"oneof": [{"type": "number"}, {"type": "integer"}]}`)
	_, err := Interpret(prog, decodeOrFatal(t, `5`), NewRootContext())
	if _, ok := err.(*MoreThanOneMatchedError); !ok {
		t.Fatalf("err = %#v (%T), want *MoreThanOneMatchedError", err, err)
	}
}

func TestWhenKeyExistsArity(t *testing.T) {
	prog := compileOrFatal(t, `{
		"type": "dict",
		"when_key_exists": {"a": {"type": "dict", "fields": {"a": {"type": "string"}}}, "b": {"type": "dict", "fields": {"b": {"type": "string"}}}}
	}`)

	if _, err := Interpret(prog, decodeOrFatal(t, `{}`), NewRootContext()); err == nil {
		t.Fatalf("expected ExpectedOneField for zero candidates present")
	} else if _, ok := err.(*ExpectedOneFieldError); !ok {
		t.Fatalf("err = %#v (%T), want *ExpectedOneFieldError", err, err)
	}

	if _, err := Interpret(prog, decodeOrFatal(t, `{"a": "x", "b": "y"}`), NewRootContext()); err == nil {
		t.Fatalf("expected DisallowedField for two candidates present")
	} else if _, ok := err.(*DisallowedFieldError); !ok {
		t.Fatalf("err = %#v (%T), want *DisallowedFieldError", err, err)
	}

	out, err := Interpret(prog, decodeOrFatal(t, `{"a": "x"}`), NewRootContext())
	if err != nil {
		t.Fatalf("interpret single candidate: %v", err)
	}
	m := out.(*jsonmap.OrderedMap)
	if v, _ := m.Get("a"); v != "x" {
		t.Fatalf("a = %#v", v)
	}
}

func TestCheckBoundsAndLengthAndRegex(t *testing.T) {
	prog := compileOrFatal(t, `{"type": "integer", "min": 1, "max": 10}`)
	if _, err := Interpret(prog, decodeOrFatal(t, `11`), NewRootContext()); err == nil {
		t.Fatalf("expected OutOfBounds for 11 > max 10")
	}
	if out, err := Interpret(prog, decodeOrFatal(t, `5`), NewRootContext()); err != nil || out != int64(5) {
		t.Fatalf("out=%#v err=%v, want 5/nil", out, err)
	}

	lenProg := compileOrFatal(t, `{"type": "string", "minlength": 2, "maxlength": 4}`)
	if _, err := Interpret(lenProg, decodeOrFatal(t, `"a"`), NewRootContext()); err == nil {
		t.Fatalf("expected MinLengthNotReached")
	}
	if _, err := Interpret(lenProg, decodeOrFatal(t, `"abcde"`), NewRootContext()); err == nil {
		t.Fatalf("expected MaxLengthExceeded")
	}

	regexProg := compileOrFatal(t, `{"type": "string", "regex": "^[a-z]+$"}`)
	if _, err := Interpret(regexProg, decodeOrFatal(t, `"ABC"`), NewRootContext()); err == nil {
		t.Fatalf("expected RegexMismatch")
	}
	if out, err := Interpret(regexProg, decodeOrFatal(t, `"abc"`), NewRootContext()); err != nil || out != "abc" {
		t.Fatalf("out=%#v err=%v, want abc/nil", out, err)
	}
}

func TestAllowedDirective(t *testing.T) {
	prog := compileOrFatal(t, `{"type": "string", "allowed": ["a", "b", "c"]}`)
	if _, err := Interpret(prog, decodeOrFatal(t, `"z"`), NewRootContext()); err == nil {
		t.Fatalf("expected DisallowedValue")
	}
	if out, err := Interpret(prog, decodeOrFatal(t, `"b"`), NewRootContext()); err != nil || out != "b" {
		t.Fatalf("out=%#v err=%v, want b/nil", out, err)
	}
}

func TestCustomValidatorInvalid(t *testing.T) {
	prog := compileOrFatal(t, `{"type": "integer", "validator": "even"}`)
	ctx := NewRootContext().RegisterValidators(map[string]ValidatorFunc{
		"even": func(value any, _ *Context) error {
			if value.(int64)%2 != 0 {
				return Invalid("must be even, got %d", value)
			}
			return nil
		},
	})
	if _, err := Interpret(prog, decodeOrFatal(t, `3`), ctx); err == nil {
		t.Fatalf("expected CustomValidatorError for odd value")
	}
	if out, err := Interpret(prog, decodeOrFatal(t, `4`), ctx); err != nil || out != int64(4) {
		t.Fatalf("out=%#v err=%v, want 4/nil", out, err)
	}
}

func TestCustomValidatorPanicIsWrapped(t *testing.T) {
	prog := compileOrFatal(t, `{"type": "integer", "validator": "boom"}`)
	ctx := NewRootContext().RegisterValidators(map[string]ValidatorFunc{
		"boom": func(any, *Context) error { panic("kaboom") },
	})
	_, err := Interpret(prog, decodeOrFatal(t, `1`), ctx)
	if _, ok := err.(*ValidatorUnexpectedError); !ok {
		t.Fatalf("err = %#v (%T), want *ValidatorUnexpectedError", err, err)
	}
}

func TestNullableSkipsRemainingChecks(t *testing.T) {
	prog := compileOrFatal(t, `{"type": "integer", "nullable": true, "min": 10}`)
	out, err := Interpret(prog, nil, NewRootContext())
	if err != nil {
		t.Fatalf("interpret null: %v", err)
	}
	if out != nil {
		t.Fatalf("out = %#v, want nil", out)
	}
}

func TestElementsOnSet(t *testing.T) {
	prog := compileOrFatal(t, `{"type": "set", "elements": {"type": "integer", "coerce": "to_int"}}`)
	input := NewSet(int64(1), "2", int64(3))
	out, err := Interpret(prog, input, NewRootContext())
	if err != nil {
		t.Fatalf("interpret: %v", err)
	}
	s, ok := out.(*Set)
	if !ok || s.Len() != 3 {
		t.Fatalf("out = %#v, want a 3-member set", out)
	}
}

func TestKeySchemaAndValueSchema(t *testing.T) {
	prog := compileOrFatal(t, `{"type": "dict", "keyschema": {"type": "string"}, "valueschema": {"type": "integer", "coerce": "to_int"}}`)
	out, err := Interpret(prog, decodeOrFatal(t, `{"a": "1", "b": "2"}`), NewRootContext())
	if err != nil {
		t.Fatalf("interpret: %v", err)
	}
	m := out.(*jsonmap.OrderedMap)
	if v, _ := m.Get("a"); v != int64(1) {
		t.Fatalf("a = %#v, want int64(1)", v)
	}
}

func TestUnknownDirectiveFailsCompile(t *testing.T) {
	raw, err := jsonmap.Decode([]byte(`{"type": "string", "bogus_directive": true}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	_, err = Compile(raw)
	if err == nil {
		t.Fatalf("expected UnknownSchemaDirectives error")
	}
	if _, ok := err.(*UnknownSchemaDirectivesError); !ok {
		t.Fatalf("err = %#v (%T), want *UnknownSchemaDirectivesError", err, err)
	}
}

func TestStackFidelityOnNestedFailure(t *testing.T) {
	prog := compileOrFatal(t, `{"type": "dict", "fields": {"a": {"type": "dict", "fields": {"b": {"type": "integer"}}}}}`)
	_, err := Interpret(prog, decodeOrFatal(t, `{"a": {"b": "not an int"}}`), NewRootContext())
	if err == nil {
		t.Fatalf("expected BadType error")
	}
	ve, ok := err.(ValueError)
	if !ok {
		t.Fatalf("err = %#v (%T), want ValueError", err, err)
	}
	if got, want := ve.ErrStack().String(), "root[a][b]"; got != want {
		t.Fatalf("stack = %q, want %q", got, want)
	}
	if ve.ErrValue() != "not an int" {
		t.Fatalf("value = %#v, want %q", ve.ErrValue(), "not an int")
	}
}

func TestMaxRecursionDepthExceeded(t *testing.T) {
	prog := compileOrFatal(t, `{"registry": {"Loop": {"schema_ref": "Loop"}}, "schema_ref": "Loop"}`)
	ctx := NewRootContext().WithMaxRecursionDepth(5)
	_, err := Interpret(prog, decodeOrFatal(t, `1`), ctx)
	if err == nil {
		t.Fatalf("expected MaxRecursionDepthExceededError")
	}
	if _, ok := err.(*MaxRecursionDepthExceededError); !ok {
		t.Fatalf("err = %#v (%T), want *MaxRecursionDepthExceededError", err, err)
	}
}

// An unresolved schema_ref inside an anyof/oneof candidate raises a
// RegisteredFunctionNotFoundError, which is a ValueError: it is captured as that
// candidate's failure like any other value error, and the remaining candidates are
// still tried.
func TestUnresolvedSchemaRefInsideAnyOfIsCandidateFailure(t *testing.T) {
	prog := compileOrFatal(t, `{
		"anyof": [
			{"schema_ref": "DoesNotExist"},
			{"type": "integer"}
		]
	}`)
	out, err := Interpret(prog, decodeOrFatal(t, `5`), NewRootContext())
	if err != nil {
		t.Fatalf("interpret: %v (the integer candidate should match)", err)
	}
	if out != int64(5) {
		t.Fatalf("out = %#v, want int64(5)", out)
	}
	_, err = Interpret(prog, decodeOrFatal(t, `"x"`), NewRootContext())
	nm, ok := err.(*NoneMatchedError)
	if !ok {
		t.Fatalf("err = %#v (%T), want *NoneMatchedError", err, err)
	}
	if len(nm.Candidates) != 2 {
		t.Fatalf("candidate failures = %d, want 2", len(nm.Candidates))
	}
	rf, ok := nm.Candidates[0].(*RegisteredFunctionNotFoundError)
	if !ok {
		t.Fatalf("candidate 0 error = %#v (%T), want *RegisteredFunctionNotFoundError", nm.Candidates[0], nm.Candidates[0])
	}
	if rf.Kind != "schema" || rf.Name != "DoesNotExist" {
		t.Fatalf("rf = %#v, want Kind=schema Name=DoesNotExist", rf)
	}
}

func TestUnresolvedSchemaRefInsideOneOfIsCandidateFailure(t *testing.T) {
	prog := compileOrFatal(t, `{
		"oneof": [
			{"schema_ref": "DoesNotExist"},
			{"type": "integer"}
		]
	}`)
	out, err := Interpret(prog, decodeOrFatal(t, `5`), NewRootContext())
	if err != nil {
		t.Fatalf("interpret: %v (exactly the integer candidate should match)", err)
	}
	if out != int64(5) {
		t.Fatalf("out = %#v, want int64(5)", out)
	}
	_, err = Interpret(prog, decodeOrFatal(t, `"x"`), NewRootContext())
	if _, ok := err.(*NoneMatchedError); !ok {
		t.Fatalf("err = %#v (%T), want *NoneMatchedError", err, err)
	}
}

// An unresolved schema_ref carries the stack at the point of failure (spec.md §7, §8
// property 3), not a bare, pathless SchemaError.
func TestUnresolvedSchemaRefCarriesStack(t *testing.T) {
	prog := compileOrFatal(t, `{"type": "dict", "fields": {"inner": {"schema_ref": "Missing"}}}`)
	_, err := Interpret(prog, decodeOrFatal(t, `{"inner": 1}`), NewRootContext())
	if err == nil {
		t.Fatalf("expected an error")
	}
	rf, ok := err.(*RegisteredFunctionNotFoundError)
	if !ok {
		t.Fatalf("err = %#v (%T), want *RegisteredFunctionNotFoundError", err, err)
	}
	if got := rf.ErrStack().String(); got != "root[inner]" {
		t.Fatalf("stack = %q, want root[inner]", got)
	}
}

func TestRequiredFieldMissing(t *testing.T) {
	prog := compileOrFatal(t, `{"type": "dict", "fields": {"a": {"type": "string", "required": true}}}`)
	_, err := Interpret(prog, decodeOrFatal(t, `{}`), NewRootContext())
	if _, ok := err.(*DictFieldNotFoundError); !ok {
		t.Fatalf("err = %#v (%T), want *DictFieldNotFoundError", err, err)
	}
}

func TestExcludesDirective(t *testing.T) {
	prog := compileOrFatal(t, `{
		"type": "dict",
		"fields": {
			"a": {"type": "string", "excludes": ["b"]},
			"b": {"type": "string"}
		}
	}`)
	_, err := Interpret(prog, decodeOrFatal(t, `{"a": "x", "b": "y"}`), NewRootContext())
	if _, ok := err.(*DisallowedFieldError); !ok {
		t.Fatalf("err = %#v (%T), want *DisallowedFieldError", err, err)
	}
}

func TestDefaultSetterReceivesPartialOutput(t *testing.T) {
	prog := compileOrFatal(t, `{
		"type": "dict",
		"fields": {
			"first": {"type": "string", "default": "x"},
			"second": {"type": "string", "default_setter": "mirror_first"}
		}
	}`)
	ctx := NewRootContext().RegisterDefaults(map[string]DefaultSetterFunc{
		"mirror_first": func(container any, _ *Context) (any, error) {
			m := container.(*jsonmap.OrderedMap)
			v, _ := m.Get("first")
			return v, nil
		},
	})
	out, err := Interpret(prog, decodeOrFatal(t, `{}`), ctx)
	if err != nil {
		t.Fatalf("interpret: %v", err)
	}
	m := out.(*jsonmap.OrderedMap)
	if v, _ := m.Get("second"); v != "x" {
		t.Fatalf("second = %#v, want mirrored \"x\"", v)
	}
}

// when_type_is dispatches on the value's own runtime type, in typePrecedence order
// (spec.md §4.2, §9 "Int before Float, Bool last").
func TestWhenTypeIsDispatch(t *testing.T) {
	prog := compileOrFatal(t, `{
		"choose_schema": {
			"when_type_is": {
				"integer": {"type": "integer", "min": 0},
				"string": {"type": "string", "minlength": 1}
			}
		}
	}`)

	if out, err := Interpret(prog, decodeOrFatal(t, `5`), NewRootContext()); err != nil || out != int64(5) {
		t.Fatalf("out=%#v err=%v, want 5/nil", out, err)
	}
	if out, err := Interpret(prog, decodeOrFatal(t, `"hi"`), NewRootContext()); err != nil || out != "hi" {
		t.Fatalf("out=%#v err=%v, want hi/nil", out, err)
	}
	if _, err := Interpret(prog, decodeOrFatal(t, `true`), NewRootContext()); err == nil {
		t.Fatalf("expected NoTypeMatch for a bool with no matching case")
	} else if _, ok := err.(*NoTypeMatchError); !ok {
		t.Fatalf("err = %#v (%T), want *NoTypeMatchError", err, err)
	}
}

// Every *_registry directive installs its entries into the Context for sub-schemas
// to resolve by name (spec.md §4.1 "Registry/meta" instructions).
func TestRegistryDirectives(t *testing.T) {
	// The *_registry directives' entries are always literal Go callables, never
	// registry names (a name would be circular) — so this program is built by hand
	// rather than decoded from JSON, mirroring how a Go caller would actually supply
	// default_registry/coerce_registry/validator_registry/modify_context_registry
	// entries (spec.md §4.1 "Registry/meta").
	program := &Program{Instructions: []Instruction{
		&registerDefaultsInstr{entries: map[string]DefaultSetterFunc{
			"zero": func(any, *Context) (any, error) { return int64(0), nil },
		}},
		&registerCoercesInstr{entries: map[string]CoerceFunc{
			"double": func(v any, _ *Context) (any, error) { return v.(int64) * 2, nil },
		}},
		&registerValidatorsInstr{entries: map[string]ValidatorFunc{
			"nonneg": func(v any, _ *Context) error {
				if v.(int64) < 0 {
					return Invalid("must be non-negative")
				}
				return nil
			},
		}},
		&checkFieldsInstr{fields: []fieldEntry{
			{Key: "a", Program: &Program{
				Instructions: []Instruction{
					&coerceInstr{ref: FnOrName{Name: "double", HasName: true}},
					&checkTypeInstr{name: TypeInteger},
					&customValidatorInstr{ref: FnOrName{Name: "nonneg", HasName: true}},
				},
				Field: FieldMeta{DefaultSetter: FnOrName{Name: "zero", HasName: true}, HasSetter: true},
			}},
		}},
	}}

	out, err := Interpret(program, decodeOrFatal(t, `{"a": 5}`), NewRootContext())
	if err != nil {
		t.Fatalf("interpret: %v", err)
	}
	m := out.(*jsonmap.OrderedMap)
	if v, _ := m.Get("a"); v != int64(10) {
		t.Fatalf("a = %#v, want int64(10) (coerced via \"double\")", v)
	}

	out, err = Interpret(program, decodeOrFatal(t, `{}`), NewRootContext())
	if err != nil {
		t.Fatalf("interpret missing field: %v", err)
	}
	m = out.(*jsonmap.OrderedMap)
	if v, _ := m.Get("a"); v != int64(0) {
		t.Fatalf("a = %#v, want default_setter result int64(0)", v)
	}
}

// modify_context replaces the context for every downstream instruction in the same
// program (spec.md §4.4).
func TestModifyContextReplacesDownstreamContext(t *testing.T) {
	program := &Program{Instructions: []Instruction{
		&modifyContextInstr{ref: FnOrName{Fn: func(value any, ctx *Context) (*Context, error) {
			return ctx.SetTag("widened", true), nil
		}}},
		&customValidatorInstr{ref: FnOrName{Fn: func(value any, ctx *Context) error {
			if _, ok := ctx.Tag("widened"); !ok {
				return Invalid("modify_context did not apply to downstream instructions")
			}
			return nil
		}}},
	}}
	if _, err := Interpret(program, decodeOrFatal(t, `1`), NewRootContext()); err != nil {
		t.Fatalf("interpret: %v", err)
	}
}

// choose_schema's "function" branch picks a sub-schema via an arbitrary callback
// (spec.md §4.2 choose_schema inner selectors).
func TestChooseSchemaFunction(t *testing.T) {
	intProg := compileOrFatal(t, `{"type": "integer"}`)
	strProg := compileOrFatal(t, `{"type": "string"}`)
	program := &Program{Instructions: []Instruction{
		&applyDynamicSchemaInstr{fn: func(value any, _ *Context) (*Program, error) {
			if _, ok := value.(string); ok {
				return strProg, nil
			}
			return intProg, nil
		}},
	}}
	if out, err := Interpret(program, decodeOrFatal(t, `"hi"`), NewRootContext()); err != nil || out != "hi" {
		t.Fatalf("out=%#v err=%v, want hi/nil", out, err)
	}
	if out, err := Interpret(program, decodeOrFatal(t, `5`), NewRootContext()); err != nil || out != int64(5) {
		t.Fatalf("out=%#v err=%v, want 5/nil", out, err)
	}
}
