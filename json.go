// Package json is the public facade: a drop-in, pluggable JSON codec (the same
// Marshal/Unmarshal/SetMarshaler/SetUnmarshaler surface as encoding/json) fronting a
// declarative schema engine used to validate and normalize decoded documents before
// they reach application types.
package json

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"

	"github.com/oarkflow/schemaflow/engine"
	"github.com/oarkflow/schemaflow/jsonmap"
)

type Marshaler func(any) ([]byte, error)
type Unmarshaler func([]byte, any) error

var (
	marshaler   Marshaler
	unmarshaler Unmarshaler
)

func init() {
	marshaler = json.Marshal
	unmarshaler = json.Unmarshal
	DefaultDecoder()
	DefaultEncoder()
}

func SetMarshaler(m Marshaler) {
	marshaler = m
}

func SetUnmarshaler(m Unmarshaler) {
	unmarshaler = m
}

func Marshal(data any) ([]byte, error) {
	return marshaler(data)
}

// Unmarshal decodes data into dst using the active Unmarshaler. If scheme is given,
// its first element is a schema document (compiled and interpreted against data
// before dst is populated): the decoded value is normalized — required fields
// checked, defaults applied, coercions run — and the normalized form, re-encoded, is
// what actually reaches dst. A normalization failure is returned as-is (an
// engine.ValueError or engine.SchemaError) without ever calling the Unmarshaler.
func Unmarshal(data []byte, dst any, scheme ...[]byte) error {
	if reflect.ValueOf(dst).Kind() != reflect.Ptr {
		return errors.New("dst is not pointer type")
	}
	if len(scheme) == 0 {
		return unmarshaler(data, dst)
	}

	schemaValue, err := jsonmap.Decode(scheme[0])
	if err != nil {
		return err
	}
	program, err := engine.Compile(schemaValue)
	if err != nil {
		return err
	}
	docValue, err := jsonmap.Decode(data)
	if err != nil {
		return err
	}
	normalized, err := engine.Interpret(program, docValue, engine.NewRootContext())
	if err != nil {
		return err
	}
	normalizedBytes, err := jsonmap.Encode(normalized)
	if err != nil {
		return err
	}
	return unmarshaler(normalizedBytes, dst)
}

// MarshalStream encodes data straight onto w using the active encoder factory
// (SetEncoder), instead of buffering through Marshal — the streaming counterpart for
// callers writing directly to a socket or file rather than building a []byte first.
func MarshalStream(w io.Writer, data any) error {
	return NewEncoder(w).Encode(data)
}

// UnmarshalStream decodes the next JSON value from r into dst using the active decoder
// factory (SetDecoder). If scheme is given, the decoded document is read fully,
// normalized against it the same way Unmarshal does, and dst is populated from the
// normalized form instead of the raw stream.
func UnmarshalStream(r io.Reader, dst any, scheme ...[]byte) error {
	if len(scheme) == 0 {
		return NewDecoder(r).Decode(dst)
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return Unmarshal(raw, dst, scheme...)
}

// NormalizeOption configures the root Context a Normalize/NormalizeDict call
// interprets against, for the handful of settings meant to be set once per call
// rather than baked into the schema itself.
type NormalizeOption func(*engine.Context) *engine.Context

// AllowUnknown sets the root allow_unknown flag (schemas may still narrow or widen
// it locally via their own `allow_unknown` directive).
func AllowUnknown(v bool) NormalizeOption {
	return func(c *engine.Context) *engine.Context { return c.WithAllowUnknown(v) }
}

// MaxRecursionDepth overrides the default sub-program nesting limit.
func MaxRecursionDepth(n int) NormalizeOption {
	return func(c *engine.Context) *engine.Context { return c.WithMaxRecursionDepth(n) }
}

// Compile compiles a raw schema — typically the output of jsonmap.Decode, a
// *jsonmap.OrderedMap built by hand, or a bare string reference — into a reusable
// Program. A Program compiles once and may be interpreted concurrently many times.
func Compile(schema any) (*engine.Program, error) {
	return engine.Compile(schema)
}

// Normalize validates and transforms value against schema, which may be a raw schema
// document (compiled on the spot) or an already-compiled *engine.Program (the
// common case for a schema reused across many calls).
func Normalize(schema any, value any, opts ...NormalizeOption) (any, error) {
	program, ok := schema.(*engine.Program)
	if !ok {
		var err error
		program, err = engine.Compile(schema)
		if err != nil {
			return nil, err
		}
	}
	ctx := engine.NewRootContext()
	for _, opt := range opts {
		ctx = opt(ctx)
	}
	return engine.Interpret(program, value, ctx)
}

// NormalizeDict is shorthand for Normalize against an implicit
// {type: dict, fields: fields} schema — the common case of validating a whole
// document's field set without writing the wrapping map out by hand.
func NormalizeDict(fields *jsonmap.OrderedMap, value any, opts ...NormalizeOption) (any, error) {
	schema := jsonmap.New().Set("type", "dict").Set("fields", fields)
	return Normalize(schema, value, opts...)
}

// CompileJSON is Compile for a schema that only ever arrives as raw JSON bytes: it
// decodes schemaDoc through jsonmap (preserving int/float and field order, unlike
// encoding/json's map[string]any) before compiling it.
func CompileJSON(schemaDoc []byte) (*engine.Program, error) {
	schemaValue, err := jsonmap.Decode(schemaDoc)
	if err != nil {
		return nil, err
	}
	return engine.Compile(schemaValue)
}

// NormalizeJSON is Normalize for raw JSON bytes in, raw JSON bytes out: the same
// decode/interpret/encode pipeline Unmarshal runs internally when given a scheme,
// exposed directly for callers that want the normalized document without also
// decoding it into a Go type.
func NormalizeJSON(schema any, data []byte, opts ...NormalizeOption) ([]byte, error) {
	docValue, err := jsonmap.Decode(data)
	if err != nil {
		return nil, err
	}
	out, err := Normalize(schema, docValue, opts...)
	if err != nil {
		return nil, err
	}
	return jsonmap.Encode(out)
}
