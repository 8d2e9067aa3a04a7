package engine

import (
	"strings"
	"testing"

	"github.com/oarkflow/schemaflow/jsonmap"
)

// Exercises the "to_date"/"date" builtins (github.com/oarkflow/date, SPEC_FULL.md §B).
func TestBuiltinDateCoerceAndValidate(t *testing.T) {
	prog := compileOrFatal(t, `{"type": "string", "coerce": "to_date", "validator": "date"}`)
	out, err := Interpret(prog, decodeOrFatal(t, `"2024-01-15"`), NewRootContext())
	if err != nil {
		t.Fatalf("interpret: %v", err)
	}
	s, ok := out.(string)
	if !ok || !strings.HasPrefix(s, "2024-01-15") {
		t.Fatalf("out = %#v, want a normalized 2024-01-15 timestamp string", out)
	}

	if _, err := Interpret(prog, decodeOrFatal(t, `"not a date"`), NewRootContext()); err == nil {
		t.Fatalf("expected a failure for an unparseable date string")
	}
}

// Exercises the "expr" coerce/default_setter builtins (github.com/oarkflow/expr,
// SPEC_FULL.md §B).
func TestBuiltinExprCoerce(t *testing.T) {
	prog := compileOrFatal(t, `{"type": "integer", "coerce": "expr"}`)
	out, err := Interpret(prog, decodeOrFatal(t, `"21 * 2"`), NewRootContext())
	if err != nil {
		t.Fatalf("interpret: %v", err)
	}
	if out != int64(42) && out != float64(42) {
		t.Fatalf("out = %#v, want 42", out)
	}
}

func TestBuiltinExprDefaultSetter(t *testing.T) {
	prog := compileOrFatal(t, `{
		"type": "dict",
		"set_tag": {"tag_name": "expr", "value": "1 + 1"},
		"fields": {
			"computed": {"type": "integer", "default_setter": "expr"}
		}
	}`)
	out, err := Interpret(prog, decodeOrFatal(t, `{}`), NewRootContext())
	if err != nil {
		t.Fatalf("interpret: %v", err)
	}
	m := out.(*jsonmap.OrderedMap)
	v, _ := m.Get("computed")
	if v != int64(2) && v != float64(2) {
		t.Fatalf("computed = %#v, want 2", v)
	}
}

// Exercises the "fake_*" default-setters (github.com/brianvoe/gofakeit/v6,
// SPEC_FULL.md §B).
func TestBuiltinFakeDefaultSetters(t *testing.T) {
	prog := compileOrFatal(t, `{
		"type": "dict",
		"fields": {
			"name": {"type": "string", "default_setter": "fake_name"},
			"email": {"type": "string", "default_setter": "fake_email"},
			"id": {"type": "string", "default_setter": "fake_uuid"}
		}
	}`)
	out, err := Interpret(prog, decodeOrFatal(t, `{}`), NewRootContext())
	if err != nil {
		t.Fatalf("interpret: %v", err)
	}
	m := out.(*jsonmap.OrderedMap)
	for _, k := range []string{"name", "email", "id"} {
		v, ok := m.Get(k)
		if !ok {
			t.Fatalf("missing field %q", k)
		}
		if s, ok := v.(string); !ok || s == "" {
			t.Fatalf("%s = %#v, want a non-empty generated string", k, v)
		}
	}
}
