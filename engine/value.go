// Package engine is the schema compiler and interpreter: the core described in
// spec.md §4. It compiles a schema (a *jsonmap.OrderedMap of directives, or a string
// reference to a named schema) into a Program, and interprets a Program against a
// value and an immutable Context to produce a normalized value or a typed error.
package engine

import (
	"strconv"

	"github.com/oarkflow/schemaflow/jsonmap"
)

// Value is any document node the engine understands: nil, bool, int64, float64,
// string, []any (Seq), *jsonmap.OrderedMap (Map), *Set, or *Opaque. Go's own type
// switch is the tag dispatch mechanism (spec.md §9: "dynamic typing → tagged
// variant") — CheckType and WhenTypeIs below are the only places that need to know
// the full case list.
type Value = any

// Set is the unordered-collection case of Value. Membership is by canonical string
// key (see canonicalKey in setvalue.go) so that structurally equal maps/sequences
// collapse to one member, matching the value model's "key equality is by string"
// rule for maps extended to set elements.
type Set struct {
	order []any
	keys  map[string]struct{}
}

// NewSet builds a Set from items, in order, de-duplicating by canonical key.
func NewSet(items ...any) *Set {
	s := &Set{keys: map[string]struct{}{}}
	for _, it := range items {
		s = s.Add(it)
	}
	return s
}

// Add returns a new Set with item inserted if not already present.
func (s *Set) Add(item any) *Set {
	key := canonicalKey(item)
	if _, ok := s.keys[key]; ok {
		return s
	}
	next := &Set{
		order: append(append([]any(nil), s.order...), item),
		keys:  make(map[string]struct{}, len(s.keys)+1),
	}
	for k := range s.keys {
		next.keys[k] = struct{}{}
	}
	next.keys[key] = struct{}{}
	return next
}

// Items returns the set's members in insertion order. Must not be mutated.
func (s *Set) Items() []any {
	if s == nil {
		return nil
	}
	return s.order
}

// Len returns the number of members.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Opaque wraps an application-defined passthrough value the engine neither inspects
// nor transforms, per spec.md §3.
type Opaque struct {
	Inner any
}

// TypeName is the closed set CheckType recognizes (spec.md §4.5).
type TypeName string

const (
	TypeNone    TypeName = "none"
	TypeInteger TypeName = "integer"
	TypeFloat   TypeName = "float"
	TypeNumber  TypeName = "number"
	TypeString  TypeName = "string"
	TypeBoolean TypeName = "boolean"
	TypeDict    TypeName = "dict"
	TypeList    TypeName = "list"
	TypeSet     TypeName = "set"
)

// MatchesType reports whether value satisfies the named type, including the
// documented exception that integers also satisfy float and number (spec.md §4.5).
func MatchesType(value any, name TypeName) bool {
	switch name {
	case TypeNone:
		return value == nil
	case TypeInteger:
		_, ok := value.(int64)
		return ok
	case TypeFloat, TypeNumber:
		if _, ok := value.(int64); ok {
			return true
		}
		_, ok := value.(float64)
		return ok
	case TypeString:
		_, ok := value.(string)
		return ok
	case TypeBoolean:
		_, ok := value.(bool)
		return ok
	case TypeDict:
		_, ok := value.(*jsonmap.OrderedMap)
		return ok
	case TypeList:
		_, ok := value.([]any)
		return ok
	case TypeSet:
		_, ok := value.(*Set)
		return ok
	default:
		return false
	}
}

// typePrecedence is the fixed dispatch order for WhenTypeIs (spec.md §4.2, §9 Open
// Questions: "the existing ordering places Int before Float and places Bool last;
// preserve this order exactly").
var typePrecedence = []TypeName{
	TypeNone,
	TypeInteger,
	TypeFloat,
	TypeNumber,
	TypeDict,
	TypeList,
	TypeString,
	TypeBoolean,
}

// RuntimeTypeName returns the first entry of typePrecedence that value matches, or
// "" if none match (a *Set or *Opaque, which typePrecedence does not list).
func RuntimeTypeName(value any) TypeName {
	for _, t := range typePrecedence {
		if MatchesType(value, t) {
			return t
		}
	}
	return ""
}

// describeGoType names the Go type of an arbitrary value for error messages
// (BadType, *UnexpectedError), using github.com/goccy/go-reflect the same way
// jsonschema/common.go's desc() helper does.
func describeGoType(v any) string {
	if v == nil {
		return "null"
	}
	return reflectTypeName(v)
}

// Stringify renders a Value as a short human string for error messages, without
// attempting a full JSON encoding (kept cheap and alloc-light on purpose).
func Stringify(v any) string {
	switch vv := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(vv)
	case bool:
		if vv {
			return "true"
		}
		return "false"
	case int64:
		return strconv.FormatInt(vv, 10)
	case float64:
		return strconv.FormatFloat(vv, 'g', -1, 64)
	case []any:
		return "[...]" + strconv.Itoa(len(vv)) + " elements"
	case *jsonmap.OrderedMap:
		return "{...}" + strconv.Itoa(vv.Len()) + " fields"
	case *Set:
		return "set(" + strconv.Itoa(vv.Len()) + ")"
	case *Opaque:
		return "opaque<" + describeGoType(vv.Inner) + ">"
	default:
		return describeGoType(v)
	}
}
