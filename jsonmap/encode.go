package jsonmap

import (
	"fmt"
	"sort"
	"strconv"
)

// Encode serializes v back to JSON bytes. *OrderedMap values are written with their
// keys in insertion order; nested []any and *OrderedMap values recurse.
func Encode(v any) ([]byte, error) {
	e := &encoder{buf: make([]byte, 0, 256)}
	if err := e.encode(v); err != nil {
		return nil, err
	}
	return e.buf, nil
}

type encoder struct {
	buf []byte
}

func (e *encoder) encode(v any) error {
	switch vv := v.(type) {
	case nil:
		e.buf = append(e.buf, "null"...)
		return nil
	case bool:
		if vv {
			e.buf = append(e.buf, "true"...)
		} else {
			e.buf = append(e.buf, "false"...)
		}
		return nil
	case string:
		e.encodeString(vv)
		return nil
	case float64:
		e.buf = strconv.AppendFloat(e.buf, vv, 'f', -1, 64)
		return nil
	case int:
		e.buf = strconv.AppendInt(e.buf, int64(vv), 10)
		return nil
	case int64:
		e.buf = strconv.AppendInt(e.buf, vv, 10)
		return nil
	case []any:
		return e.encodeSlice(vv)
	case *OrderedMap:
		return e.encodeOrderedMap(vv)
	case map[string]any:
		return e.encodeOrderedMap(FromPairs(sortedKeys(vv), vv))
	default:
		if it, ok := v.(itemser); ok {
			return e.encodeSlice(it.Items())
		}
		return fmt.Errorf("jsonmap: unsupported type for encode: %T", v)
	}
}

// itemser is satisfied by engine.Set (Items() []any) without jsonmap importing the
// engine package (which itself imports jsonmap) — a Set has no native JSON
// representation, so it round-trips as a JSON array of its members in insertion
// order, the same way the engine's own "to_list" coercer already treats a Set.
type itemser interface {
	Items() []any
}

func (e *encoder) encodeSlice(s []any) error {
	e.buf = append(e.buf, '[')
	for i, elem := range s {
		if i > 0 {
			e.buf = append(e.buf, ',')
		}
		if err := e.encode(elem); err != nil {
			return err
		}
	}
	e.buf = append(e.buf, ']')
	return nil
}

func (e *encoder) encodeOrderedMap(m *OrderedMap) error {
	e.buf = append(e.buf, '{')
	first := true
	var encErr error
	m.Range(func(k string, val any) bool {
		if !first {
			e.buf = append(e.buf, ',')
		}
		first = false
		e.encodeString(k)
		e.buf = append(e.buf, ':')
		if err := e.encode(val); err != nil {
			encErr = err
			return false
		}
		return true
	})
	if encErr != nil {
		return encErr
	}
	e.buf = append(e.buf, '}')
	return nil
}

func (e *encoder) encodeString(s string) {
	e.buf = append(e.buf, '"')
	for _, r := range s {
		switch r {
		case '"':
			e.buf = append(e.buf, '\\', '"')
		case '\\':
			e.buf = append(e.buf, '\\', '\\')
		case '\n':
			e.buf = append(e.buf, '\\', 'n')
		case '\r':
			e.buf = append(e.buf, '\\', 'r')
		case '\t':
			e.buf = append(e.buf, '\\', 't')
		default:
			if r < 0x20 {
				e.buf = append(e.buf, fmt.Sprintf("\\u%04x", r)...)
				continue
			}
			e.buf = append(e.buf, string(r)...)
		}
	}
	e.buf = append(e.buf, '"')
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
