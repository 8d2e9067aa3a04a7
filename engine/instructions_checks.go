package engine

import (
	"regexp"
	"unicode/utf8"
)

// checkTypeInstr implements CheckType(name) (spec.md §4.1, §4.5).
type checkTypeInstr struct{ name TypeName }

func (c *checkTypeInstr) Perform(value any, ctx *Context) (Step, error) {
	if !MatchesType(value, c.name) {
		return Step{}, &BadTypeError{valueErrBase: valueErrBase{Stack: ctx.Stack(), Value: value}, TypeName: string(c.name)}
	}
	return continueWith(value, ctx)
}

// checkAllowListInstr implements CheckAllowList(values) — the `allowed` directive.
type checkAllowListInstr struct {
	allowed []any
	keys    map[string]struct{}
}

func newCheckAllowList(values []any) *checkAllowListInstr {
	keys := make(map[string]struct{}, len(values))
	for _, v := range values {
		keys[canonicalKey(v)] = struct{}{}
	}
	return &checkAllowListInstr{allowed: values, keys: keys}
}

func (c *checkAllowListInstr) Perform(value any, ctx *Context) (Step, error) {
	if _, ok := c.keys[canonicalKey(value)]; !ok {
		return Step{}, &DisallowedValueError{valueErrBase: valueErrBase{Stack: ctx.Stack(), Value: value}, Allowed: c.allowed}
	}
	return continueWith(value, ctx)
}

// checkBoundsInstr implements CheckBounds(min?, max?) — the `min`/`max` directives.
type checkBoundsInstr struct {
	min, max *float64
}

func (c *checkBoundsInstr) Perform(value any, ctx *Context) (Step, error) {
	n, ok := numericOf(value)
	if !ok {
		return Step{}, &BadTypeError{valueErrBase: valueErrBase{Stack: ctx.Stack(), Value: value}, TypeName: string(TypeNumber)}
	}
	if c.min != nil && n < *c.min {
		return Step{}, &OutOfBoundsError{valueErrBase: valueErrBase{Stack: ctx.Stack(), Value: value}, Min: boundOrNil(c.min), Max: boundOrNil(c.max)}
	}
	if c.max != nil && n > *c.max {
		return Step{}, &OutOfBoundsError{valueErrBase: valueErrBase{Stack: ctx.Stack(), Value: value}, Min: boundOrNil(c.min), Max: boundOrNil(c.max)}
	}
	return continueWith(value, ctx)
}

func boundOrNil(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func numericOf(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// checkLengthInstr implements CheckLength(min?, max?) — `minlength`/`maxlength`.
type checkLengthInstr struct {
	min, max *int
}

func lengthOf(v any) (int, bool) {
	switch vv := v.(type) {
	case string:
		return utf8.RuneCountInString(vv), true
	case []any:
		return len(vv), true
	case *Set:
		return vv.Len(), true
	default:
		if m, ok := asMap(vv); ok {
			return m.Len(), true
		}
		return 0, false
	}
}

func (c *checkLengthInstr) Perform(value any, ctx *Context) (Step, error) {
	n, ok := lengthOf(value)
	if !ok {
		return Step{}, &BadTypeError{valueErrBase: valueErrBase{Stack: ctx.Stack(), Value: value}, TypeName: "string, list, set, or dict"}
	}
	if c.max != nil && n > *c.max {
		return Step{}, &MaxLengthExceededError{valueErrBase: valueErrBase{Stack: ctx.Stack(), Value: value}, Max: *c.max}
	}
	if c.min != nil && n < *c.min {
		return Step{}, &MinLengthNotReachedError{valueErrBase: valueErrBase{Stack: ctx.Stack(), Value: value}, Min: *c.min}
	}
	return continueWith(value, ctx)
}

// checkRegexInstr implements CheckRegex(pattern).
type checkRegexInstr struct {
	pattern string
	re      *regexp.Regexp
}

func (c *checkRegexInstr) Perform(value any, ctx *Context) (Step, error) {
	s, ok := value.(string)
	if !ok {
		return Step{}, &BadTypeError{valueErrBase: valueErrBase{Stack: ctx.Stack(), Value: value}, TypeName: string(TypeString)}
	}
	if !c.re.MatchString(s) {
		return Step{}, &RegexMismatchError{valueErrBase: valueErrBase{Stack: ctx.Stack(), Value: value}, Pattern: c.pattern}
	}
	return continueWith(value, ctx)
}
