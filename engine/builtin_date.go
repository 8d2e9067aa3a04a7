package engine

import "github.com/oarkflow/date"

// seedDateBuiltins registers the "to_date" coercer and "date" validator, both backed
// by github.com/oarkflow/date's free-format parser (SPEC_FULL.md §B).
func seedDateBuiltins(c *Context) {
	c.coerces["to_date"] = coerceToDate
	c.validators["date"] = validateDate
}

func coerceToDate(value any, _ *Context) (any, error) {
	s, ok := value.(string)
	if !ok {
		return value, nil
	}
	t, err := date.Parse(s)
	if err != nil {
		return nil, NewSimpleSchemaError("to_date: %v", err)
	}
	return t.Format("2006-01-02T15:04:05Z07:00"), nil
}

func validateDate(value any, _ *Context) error {
	s, ok := value.(string)
	if !ok {
		return Invalid("date: expected a string, got %s", describeGoType(value))
	}
	if _, err := date.Parse(s); err != nil {
		return Invalid("date: %v", err)
	}
	return nil
}
