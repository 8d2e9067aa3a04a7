package engine

import (
	"github.com/goccy/go-reflect"
)

// reflectTypeName names the Go type behind an Opaque value or an unexpected
// user-callback panic payload, the same github.com/goccy/go-reflect usage
// jsonschema/common.go's desc() applies to reflecting on values the engine receives
// from a host but does not itself own.
func reflectTypeName(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return "null"
	}
	return t.String()
}
