package engine

import "github.com/brianvoe/gofakeit/v6"

// seedFakeBuiltins registers default-setters that fabricate plausible placeholder
// data with github.com/brianvoe/gofakeit/v6 (SPEC_FULL.md §B), useful for fields a
// schema marks required but whose value a caller doesn't actually have yet (seed
// data, fixtures, demo payloads).
func seedFakeBuiltins(c *Context) {
	c.defaults["fake_name"] = func(any, *Context) (any, error) { return gofakeit.Name(), nil }
	c.defaults["fake_email"] = func(any, *Context) (any, error) { return gofakeit.Email(), nil }
	c.defaults["fake_uuid"] = func(any, *Context) (any, error) { return gofakeit.UUID(), nil }
}
