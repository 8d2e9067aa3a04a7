package jsonmap

import (
	"fmt"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"
)

// Decode parses JSON bytes into a value tree using OrderedMap for objects instead of
// a plain map[string]any, so object key order survives the round trip.
//
// The produced scalars are nil, bool, string, int64 (for literals with no '.', 'e',
// or 'E' that fit in an int64), and float64 (everything else) — the engine's type system distinguishes
// Integer from Float, so the decoder must preserve that distinction rather than
// collapsing every number to float64 the way encoding/json's `any` target does.
func Decode(data []byte) (any, error) {
	d := &decoder{data: data, len: len(data)}
	d.skipWhitespace()
	v, err := d.decodeValue()
	if err != nil {
		return nil, err
	}
	d.skipWhitespace()
	if d.pos != d.len {
		return nil, fmt.Errorf("jsonmap: trailing data at byte %d", d.pos)
	}
	return v, nil
}

type decoder struct {
	data []byte
	pos  int
	len  int
}

func (d *decoder) errorf(format string, args ...any) error {
	return fmt.Errorf("jsonmap: "+format+" at byte %d", append(args, d.pos)...)
}

func (d *decoder) skipWhitespace() {
	for d.pos < d.len {
		switch d.data[d.pos] {
		case ' ', '\n', '\r', '\t':
			d.pos++
		default:
			return
		}
	}
}

func (d *decoder) decodeValue() (any, error) {
	d.skipWhitespace()
	if d.pos >= d.len {
		return nil, d.errorf("unexpected end of input")
	}
	switch d.data[d.pos] {
	case '"':
		return d.decodeString()
	case '{':
		return d.decodeObject()
	case '[':
		return d.decodeArray()
	case 't', 'f':
		return d.decodeBool()
	case 'n':
		return d.decodeNull()
	default:
		return d.decodeNumber()
	}
}

func (d *decoder) decodeObject() (*OrderedMap, error) {
	m := New()
	d.pos++
	d.skipWhitespace()
	if d.pos < d.len && d.data[d.pos] == '}' {
		d.pos++
		return m, nil
	}
	for {
		d.skipWhitespace()
		if d.pos >= d.len || d.data[d.pos] != '"' {
			return nil, d.errorf("expected string key")
		}
		key, err := d.decodeString()
		if err != nil {
			return nil, err
		}
		d.skipWhitespace()
		if d.pos >= d.len || d.data[d.pos] != ':' {
			return nil, d.errorf("expected ':' after key")
		}
		d.pos++
		val, err := d.decodeValue()
		if err != nil {
			return nil, err
		}
		m = m.Set(key, val)
		d.skipWhitespace()
		if d.pos >= d.len {
			return nil, d.errorf("unexpected end of object")
		}
		switch d.data[d.pos] {
		case ',':
			d.pos++
		case '}':
			d.pos++
			return m, nil
		default:
			return nil, d.errorf("expected ',' or '}'")
		}
	}
}

func (d *decoder) decodeArray() ([]any, error) {
	arr := make([]any, 0, 4)
	d.pos++
	d.skipWhitespace()
	if d.pos < d.len && d.data[d.pos] == ']' {
		d.pos++
		return arr, nil
	}
	for {
		val, err := d.decodeValue()
		if err != nil {
			return nil, err
		}
		arr = append(arr, val)
		d.skipWhitespace()
		if d.pos >= d.len {
			return nil, d.errorf("unexpected end of array")
		}
		switch d.data[d.pos] {
		case ',':
			d.pos++
		case ']':
			d.pos++
			return arr, nil
		default:
			return nil, d.errorf("expected ',' or ']'")
		}
	}
}

func (d *decoder) decodeString() (string, error) {
	d.pos++
	start := d.pos
	for d.pos < d.len {
		switch d.data[d.pos] {
		case '"':
			s := string(d.data[start:d.pos])
			d.pos++
			return s, nil
		case '\\':
			return d.decodeEscapedString(start)
		default:
			d.pos++
		}
	}
	return "", d.errorf("unterminated string")
}

func (d *decoder) decodeEscapedString(start int) (string, error) {
	var sb []byte
	sb = append(sb, d.data[start:d.pos]...)
	for d.pos < d.len {
		c := d.data[d.pos]
		if c == '"' {
			d.pos++
			return string(sb), nil
		}
		if c != '\\' {
			sb = append(sb, c)
			d.pos++
			continue
		}
		d.pos++
		if d.pos >= d.len {
			return "", d.errorf("unterminated escape")
		}
		switch d.data[d.pos] {
		case '"':
			sb = append(sb, '"')
		case '\\':
			sb = append(sb, '\\')
		case '/':
			sb = append(sb, '/')
		case 'b':
			sb = append(sb, '\b')
		case 'f':
			sb = append(sb, '\f')
		case 'n':
			sb = append(sb, '\n')
		case 'r':
			sb = append(sb, '\r')
		case 't':
			sb = append(sb, '\t')
		case 'u':
			r, err := d.decodeUnicodeEscape()
			if err != nil {
				return "", err
			}
			var buf [utf8.UTFMax]byte
			n := utf8.EncodeRune(buf[:], r)
			sb = append(sb, buf[:n]...)
			continue
		default:
			return "", d.errorf("invalid escape '\\%c'", d.data[d.pos])
		}
		d.pos++
	}
	return "", d.errorf("unterminated string")
}

func (d *decoder) decodeUnicodeEscape() (rune, error) {
	if d.pos+5 > d.len {
		return 0, d.errorf("invalid unicode escape")
	}
	hex := string(d.data[d.pos+1 : d.pos+5])
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, d.errorf("invalid unicode escape %q", hex)
	}
	r := rune(v)
	d.pos += 5
	if utf16.IsSurrogate(r) && d.pos+6 <= d.len && d.data[d.pos] == '\\' && d.data[d.pos+1] == 'u' {
		hex2 := string(d.data[d.pos+2 : d.pos+6])
		v2, err := strconv.ParseUint(hex2, 16, 32)
		if err == nil {
			if dec := utf16.DecodeRune(r, rune(v2)); dec != utf8.RuneError {
				d.pos += 6
				return dec, nil
			}
		}
	}
	return r, nil
}

func (d *decoder) decodeBool() (bool, error) {
	if d.matchLiteral("true") {
		return true, nil
	}
	if d.matchLiteral("false") {
		return false, nil
	}
	return false, d.errorf("invalid literal")
}

func (d *decoder) decodeNull() (any, error) {
	if d.matchLiteral("null") {
		return nil, nil
	}
	return nil, d.errorf("invalid literal")
}

func (d *decoder) matchLiteral(lit string) bool {
	end := d.pos + len(lit)
	if end > d.len || string(d.data[d.pos:end]) != lit {
		return false
	}
	d.pos = end
	return true
}

func (d *decoder) decodeNumber() (any, error) {
	start := d.pos
	isFloat := false
	if d.pos < d.len && d.data[d.pos] == '-' {
		d.pos++
	}
	for d.pos < d.len && isDigit(d.data[d.pos]) {
		d.pos++
	}
	if d.pos < d.len && d.data[d.pos] == '.' {
		isFloat = true
		d.pos++
		for d.pos < d.len && isDigit(d.data[d.pos]) {
			d.pos++
		}
	}
	if d.pos < d.len && (d.data[d.pos] == 'e' || d.data[d.pos] == 'E') {
		isFloat = true
		d.pos++
		if d.pos < d.len && (d.data[d.pos] == '+' || d.data[d.pos] == '-') {
			d.pos++
		}
		for d.pos < d.len && isDigit(d.data[d.pos]) {
			d.pos++
		}
	}
	if d.pos == start {
		return nil, d.errorf("invalid number")
	}
	lit := string(d.data[start:d.pos])
	if !isFloat {
		if n, err := strconv.ParseInt(lit, 10, 64); err == nil {
			return n, nil
		}
		// overflows int64 (e.g. a huge literal) — fall through to float64.
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return nil, d.errorf("invalid number %q", lit)
	}
	return f, nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
