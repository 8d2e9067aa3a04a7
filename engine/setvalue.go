package engine

import (
	"sort"
	"strconv"
	"strings"

	"github.com/oarkflow/schemaflow/jsonmap"
)

// canonicalKey produces a stable string key for Set membership and for the built-in
// "to_set" coercer's de-duplication. The same sort-then-serialize approach
// jsonschema/v2/cache.go's canonicalize/computeCacheKey use to sort map keys before
// hashing a schema for its compile cache, applied here to de-duplicate arbitrary
// Values instead of caching compiled schemas.
func canonicalKey(v any) string {
	var sb strings.Builder
	writeCanonical(&sb, v)
	return sb.String()
}

func writeCanonical(sb *strings.Builder, v any) {
	switch vv := v.(type) {
	case nil:
		sb.WriteString("n:")
	case bool:
		sb.WriteString("b:")
		if vv {
			sb.WriteString("1")
		} else {
			sb.WriteString("0")
		}
	case int64:
		sb.WriteString("i:")
		sb.WriteString(strconv.FormatInt(vv, 10))
	case float64:
		sb.WriteString("f:")
		sb.WriteString(strconv.FormatFloat(vv, 'g', -1, 64))
	case string:
		sb.WriteString("s:")
		sb.WriteString(strconv.Quote(vv))
	case []any:
		sb.WriteString("[")
		for i, elem := range vv {
			if i > 0 {
				sb.WriteString(",")
			}
			writeCanonical(sb, elem)
		}
		sb.WriteString("]")
	case *jsonmap.OrderedMap:
		keys := append([]string(nil), vv.Keys()...)
		sort.Strings(keys)
		sb.WriteString("{")
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(",")
			}
			sb.WriteString(strconv.Quote(k))
			sb.WriteString(":")
			val, _ := vv.Get(k)
			writeCanonical(sb, val)
		}
		sb.WriteString("}")
	case *Set:
		items := append([]any(nil), vv.Items()...)
		keys := make([]string, len(items))
		for i, it := range items {
			keys[i] = canonicalKey(it)
		}
		sort.Strings(keys)
		sb.WriteString("set(")
		sb.WriteString(strings.Join(keys, ","))
		sb.WriteString(")")
	case *Opaque:
		sb.WriteString("opaque:")
		sb.WriteString(describeGoType(vv.Inner))
	default:
		sb.WriteString("go:")
		sb.WriteString(describeGoType(v))
	}
}
