package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// Stack is the path from the document root to the node a value error concerns —
// string segments for map keys, int segments for sequence indices. Its String form
// is the "root[k1][k2]…" prefix spec.md §7 requires every error to carry.
type Stack []any

func (s Stack) String() string {
	var sb strings.Builder
	sb.WriteString("root")
	for _, seg := range s {
		sb.WriteString("[")
		switch v := seg.(type) {
		case string:
			sb.WriteString(v)
		case int:
			sb.WriteString(strconv.Itoa(v))
		default:
			sb.WriteString(fmt.Sprint(v))
		}
		sb.WriteString("]")
	}
	return sb.String()
}

// Push returns a new Stack with seg appended; Stack is never mutated in place so a
// Context can extend its path without affecting sibling branches (spec.md §3).
func (s Stack) Push(seg any) Stack {
	next := make(Stack, len(s), len(s)+1)
	copy(next, s)
	return append(next, seg)
}

// SchemaError is raised by the compiler against a malformed schema (spec.md §7).
type SchemaError interface {
	error
	schemaError()
}

type schemaErrBase struct{ msg string }

func (e schemaErrBase) Error() string { return e.msg }
func (e schemaErrBase) schemaError()  {}

// UnknownSchemaDirectivesError is raised when a schema mapping contains a key
// outside the recognized directive set (spec.md §6).
type UnknownSchemaDirectivesError struct {
	schemaErrBase
	Directives []string
}

func NewUnknownSchemaDirectivesError(directives []string) *UnknownSchemaDirectivesError {
	return &UnknownSchemaDirectivesError{
		schemaErrBase: schemaErrBase{msg: "unknown schema directives: " + strings.Join(directives, ", ")},
		Directives:    directives,
	}
}

// SimpleSchemaErrorErr covers every other compile-time malformation (a directive's
// value has the wrong shape, a branch has no choices, etc).
type SimpleSchemaErrorErr struct {
	schemaErrBase
}

func NewSimpleSchemaError(format string, args ...any) *SimpleSchemaErrorErr {
	return &SimpleSchemaErrorErr{schemaErrBase{msg: fmt.Sprintf(format, args...)}}
}

// ValueError is raised by the interpreter against a malformed input document. Every
// ValueError carries the exact path to the offending node (spec.md §7, §8 property 3).
type ValueError interface {
	error
	ErrStack() Stack
	ErrValue() any
	valueError()
}

type valueErrBase struct {
	Stack Stack
	Value any
}

func (e valueErrBase) ErrStack() Stack { return e.Stack }
func (e valueErrBase) ErrValue() any   { return e.Value }
func (e valueErrBase) valueError()     {}

func (e valueErrBase) prefix() string { return e.Stack.String() }

type DictFieldNotFoundError struct {
	valueErrBase
	Field string
}

func (e *DictFieldNotFoundError) Error() string {
	return fmt.Sprintf("%s required field %q not found", e.prefix(), e.Field)
}

type ExpectedOneFieldError struct {
	valueErrBase
	Candidates []string
}

func (e *ExpectedOneFieldError) Error() string {
	return fmt.Sprintf("%s expected exactly one of %s to be present", e.prefix(), strings.Join(e.Candidates, ", "))
}

type BadTypeError struct {
	valueErrBase
	TypeName string
}

func (e *BadTypeError) Error() string {
	return fmt.Sprintf("%s expected type %s, got %s", e.prefix(), e.TypeName, Stringify(e.Value))
}

type NoneMatchedError struct {
	valueErrBase
	Candidates []ValueError
}

func (e *NoneMatchedError) Error() string {
	parts := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		parts[i] = c.Error()
	}
	return fmt.Sprintf("%s no candidate matched: [%s]", e.prefix(), strings.Join(parts, "; "))
}

type MoreThanOneMatchedError struct {
	valueErrBase
	MatchedIndexes []int
}

func (e *MoreThanOneMatchedError) Error() string {
	return fmt.Sprintf("%s more than one candidate matched: %v", e.prefix(), e.MatchedIndexes)
}

type NoTypeMatchError struct {
	valueErrBase
}

func (e *NoTypeMatchError) Error() string {
	return fmt.Sprintf("%s no type choice matched value of runtime type %s", e.prefix(), RuntimeTypeName(e.Value))
}

type RegexMismatchError struct {
	valueErrBase
	Pattern string
}

func (e *RegexMismatchError) Error() string {
	return fmt.Sprintf("%s value %s does not match pattern %q", e.prefix(), Stringify(e.Value), e.Pattern)
}

type UnknownFieldsError struct {
	valueErrBase
	Fields []string
}

func (e *UnknownFieldsError) Error() string {
	return fmt.Sprintf("%s unknown fields: %s", e.prefix(), strings.Join(e.Fields, ", "))
}

type DisallowedValueError struct {
	valueErrBase
	Allowed []any
}

func (e *DisallowedValueError) Error() string {
	return fmt.Sprintf("%s value %s is not one of the allowed values", e.prefix(), Stringify(e.Value))
}

type MaxLengthExceededError struct {
	valueErrBase
	Max int
}

func (e *MaxLengthExceededError) Error() string {
	return fmt.Sprintf("%s length exceeds maximum of %d", e.prefix(), e.Max)
}

type MinLengthNotReachedError struct {
	valueErrBase
	Min int
}

func (e *MinLengthNotReachedError) Error() string {
	return fmt.Sprintf("%s length is below minimum of %d", e.prefix(), e.Min)
}

type DisallowedFieldError struct {
	valueErrBase
	Field   string
	Because string
}

func (e *DisallowedFieldError) Error() string {
	return fmt.Sprintf("%s field %q is disallowed: %s", e.prefix(), e.Field, e.Because)
}

type CustomValidatorErrorErr struct {
	valueErrBase
	Message string
}

func (e *CustomValidatorErrorErr) Error() string {
	return fmt.Sprintf("%s %s", e.prefix(), e.Message)
}

type OutOfBoundsError struct {
	valueErrBase
	Min, Max any
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("%s value %s is out of bounds [%v, %v]", e.prefix(), Stringify(e.Value), e.Min, e.Max)
}

type DefaultSetterUnexpectedError struct {
	valueErrBase
	Field string
	Cause error
}

func (e *DefaultSetterUnexpectedError) Error() string {
	return fmt.Sprintf("%s default_setter for %q raised: %v", e.prefix(), e.Field, e.Cause)
}

func (e *DefaultSetterUnexpectedError) Unwrap() error { return e.Cause }

type ValidatorUnexpectedError struct {
	valueErrBase
	Cause error
}

func (e *ValidatorUnexpectedError) Error() string {
	return fmt.Sprintf("%s validator raised: %v", e.prefix(), e.Cause)
}

func (e *ValidatorUnexpectedError) Unwrap() error { return e.Cause }

type CoerceUnexpectedError struct {
	valueErrBase
	Cause error
}

func (e *CoerceUnexpectedError) Error() string {
	return fmt.Sprintf("%s coerce raised: %v", e.prefix(), e.Cause)
}

func (e *CoerceUnexpectedError) Unwrap() error { return e.Cause }

type TagNotFoundError struct {
	valueErrBase
	Tag string
}

func (e *TagNotFoundError) Error() string {
	return fmt.Sprintf("%s tag %q was never set", e.prefix(), e.Tag)
}

type RegisteredFunctionNotFoundError struct {
	valueErrBase
	Name string
	Kind string
}

func (e *RegisteredFunctionNotFoundError) Error() string {
	return fmt.Sprintf("%s no %s registered under name %q", e.prefix(), e.Kind, e.Name)
}
