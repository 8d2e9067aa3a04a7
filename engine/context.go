package engine

import "fmt"

// DefaultSetterFunc computes a default value for a missing field. It receives the
// partially-built container value (the dict being assembled, with fields processed
// so far) and the current Context — a two-argument shape generalized from
// sureberus's one-argument default_setter (SPEC_FULL.md §C.3) so a default-setter
// can be tag/context-aware, not just a bare constant.
type DefaultSetterFunc func(container any, ctx *Context) (any, error)

// CoerceFunc transforms a value before (coerce) or after (coerce_post) structural
// checks run.
type CoerceFunc func(value any, ctx *Context) (any, error)

// ValidatorFunc inspects a value and returns a descriptive error if it is invalid;
// a nil return means the value passed.
type ValidatorFunc func(value any, ctx *Context) error

// ModifyContextFunc computes a replacement Context from the current value and
// Context; its result fully replaces the context for downstream instructions in the
// same program (spec.md §4.4).
type ModifyContextFunc func(value any, ctx *Context) (*Context, error)

// Context is the immutable, functionally-updated execution environment threaded
// through interpretation (spec.md §3, §4.4). Every With*/Set*/Register* method
// returns a new Context; the receiver is never mutated, which is what makes anyof/
// oneof backtracking and concurrent reuse of a compiled Program safe (spec.md §5,
// §9 "Mutable per-call state → immutable Context").
type Context struct {
	stack       Stack
	allowUnknown bool
	depth       int
	maxDepth    int

	schemas        map[string]*Program
	defaults       map[string]DefaultSetterFunc
	coerces        map[string]CoerceFunc
	validators     map[string]ValidatorFunc
	modifyContexts map[string]ModifyContextFunc

	tags map[string]any
}

// MaxRecursionDepthExceededError is raised when a Program's sub-program nesting
// exceeds the Context's configured limit (spec.md §5).
type MaxRecursionDepthExceededError struct {
	schemaErrBase
	Limit int
}

const defaultMaxRecursionDepth = 500

// NewRootContext builds the root Context for a fresh interpretation, seeded with the
// engine's built-in registries (spec.md §4.4).
func NewRootContext() *Context {
	c := &Context{
		maxDepth:       defaultMaxRecursionDepth,
		schemas:        map[string]*Program{},
		defaults:       map[string]DefaultSetterFunc{},
		coerces:        map[string]CoerceFunc{},
		validators:     map[string]ValidatorFunc{},
		modifyContexts: map[string]ModifyContextFunc{},
		tags:           map[string]any{},
	}
	seedBuiltinRegistries(c)
	return c
}

func (c *Context) clone() *Context {
	next := *c
	return &next
}

// WithMaxRecursionDepth returns a Context with a different recursion limit.
func (c *Context) WithMaxRecursionDepth(n int) *Context {
	next := c.clone()
	next.maxDepth = n
	return next
}

// Push returns a Context whose path stack has seg appended.
func (c *Context) Push(seg any) *Context {
	next := c.clone()
	next.stack = c.stack.Push(seg)
	return next
}

// Stack returns the current path.
func (c *Context) Stack() Stack { return c.stack }

// AllowUnknown reports whether unrecognized map fields are currently tolerated.
func (c *Context) AllowUnknown() bool { return c.allowUnknown }

// WithAllowUnknown returns a Context with allow_unknown set to v.
func (c *Context) WithAllowUnknown(v bool) *Context {
	next := c.clone()
	next.allowUnknown = v
	return next
}

// enterSubProgram returns a Context one level deeper, or a MaxRecursionDepthExceededError
// if the configured limit would be exceeded.
func (c *Context) enterSubProgram() (*Context, error) {
	if c.maxDepth > 0 && c.depth >= c.maxDepth {
		return nil, &MaxRecursionDepthExceededError{
			schemaErrBase: schemaErrBase{msg: fmt.Sprintf("%s: max recursion depth %d exceeded", c.stack, c.maxDepth)},
			Limit:         c.maxDepth,
		}
	}
	next := c.clone()
	next.depth = c.depth + 1
	return next, nil
}

// SetTag returns a Context with tag bound to value.
func (c *Context) SetTag(tag string, value any) *Context {
	next := c.clone()
	next.tags = make(map[string]any, len(c.tags)+1)
	for k, v := range c.tags {
		next.tags[k] = v
	}
	next.tags[tag] = value
	return next
}

// Tag looks up a previously-set tag.
func (c *Context) Tag(name string) (any, bool) {
	v, ok := c.tags[name]
	return v, ok
}

// RegisterSchemas merges names into the schema registry, shadowing any existing
// entries with the same name (spec.md §3 invariant: "later registrations shadow
// earlier ones by name").
func (c *Context) RegisterSchemas(entries map[string]*Program) *Context {
	next := c.clone()
	next.schemas = mergePrograms(c.schemas, entries)
	return next
}

func mergePrograms(base, entries map[string]*Program) map[string]*Program {
	merged := make(map[string]*Program, len(base)+len(entries))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range entries {
		merged[k] = v
	}
	return merged
}

// Schema resolves a named schema registered via a `registry` directive.
func (c *Context) Schema(name string) (*Program, bool) {
	p, ok := c.schemas[name]
	return p, ok
}

func (c *Context) RegisterDefaults(entries map[string]DefaultSetterFunc) *Context {
	next := c.clone()
	next.defaults = make(map[string]DefaultSetterFunc, len(c.defaults)+len(entries))
	for k, v := range c.defaults {
		next.defaults[k] = v
	}
	for k, v := range entries {
		next.defaults[k] = v
	}
	return next
}

func (c *Context) DefaultSetter(name string) (DefaultSetterFunc, bool) {
	f, ok := c.defaults[name]
	return f, ok
}

func (c *Context) RegisterCoerces(entries map[string]CoerceFunc) *Context {
	next := c.clone()
	next.coerces = make(map[string]CoerceFunc, len(c.coerces)+len(entries))
	for k, v := range c.coerces {
		next.coerces[k] = v
	}
	for k, v := range entries {
		next.coerces[k] = v
	}
	return next
}

func (c *Context) Coercer(name string) (CoerceFunc, bool) {
	f, ok := c.coerces[name]
	return f, ok
}

func (c *Context) RegisterValidators(entries map[string]ValidatorFunc) *Context {
	next := c.clone()
	next.validators = make(map[string]ValidatorFunc, len(c.validators)+len(entries))
	for k, v := range c.validators {
		next.validators[k] = v
	}
	for k, v := range entries {
		next.validators[k] = v
	}
	return next
}

func (c *Context) Validator(name string) (ValidatorFunc, bool) {
	f, ok := c.validators[name]
	return f, ok
}

func (c *Context) RegisterModifyContexts(entries map[string]ModifyContextFunc) *Context {
	next := c.clone()
	next.modifyContexts = make(map[string]ModifyContextFunc, len(c.modifyContexts)+len(entries))
	for k, v := range c.modifyContexts {
		next.modifyContexts[k] = v
	}
	for k, v := range entries {
		next.modifyContexts[k] = v
	}
	return next
}

func (c *Context) ModifyContextFn(name string) (ModifyContextFunc, bool) {
	f, ok := c.modifyContexts[name]
	return f, ok
}
