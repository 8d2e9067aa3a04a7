package jsonmap

import (
	"encoding/json"
	"testing"

	goccy "github.com/goccy/go-json"
)

var complexJSON = []byte(`{
	"key1": "value1",
	"key2": 123.45,
	"key3": true,
	"key4": null,
	"nested": {"arr": ["a", "b", "c"], "obj": {"inner": "value"}}
}`)

func BenchmarkStandardUnmarshal(b *testing.B) {
	for i := 0; i < b.N; i++ {
		var result any
		if err := json.Unmarshal(complexJSON, &result); err != nil {
			b.Fatalf("standard json.Unmarshal error: %v", err)
		}
	}
}

func BenchmarkGoccyUnmarshal(b *testing.B) {
	for i := 0; i < b.N; i++ {
		var result any
		if err := goccy.Unmarshal(complexJSON, &result); err != nil {
			b.Fatalf("goccy Unmarshal error: %v", err)
		}
	}
}

func BenchmarkJSONMapDecode(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := Decode(complexJSON); err != nil {
			b.Fatalf("jsonmap Decode error: %v", err)
		}
	}
}

func TestDecodePreservesKeyOrder(t *testing.T) {
	v, err := Decode([]byte(`{"z": 1, "a": 2, "m": {"y": 3, "x": 4}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	m, ok := v.(*OrderedMap)
	if !ok {
		t.Fatalf("expected *OrderedMap, got %T", v)
	}
	if got, want := m.Keys(), []string{"z", "a", "m"}; !equalStrings(got, want) {
		t.Fatalf("keys = %v, want %v", got, want)
	}
	inner, _ := m.Get("m")
	innerMap := inner.(*OrderedMap)
	if got, want := innerMap.Keys(), []string{"y", "x"}; !equalStrings(got, want) {
		t.Fatalf("inner keys = %v, want %v", got, want)
	}
}

func TestDecodeScalarsAndArray(t *testing.T) {
	v, err := Decode([]byte(`[1, "two", true, null, 3.5]`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	arr, ok := v.([]any)
	if !ok || len(arr) != 5 {
		t.Fatalf("got %#v", v)
	}
	if arr[0].(int64) != 1 || arr[1].(string) != "two" || arr[2].(bool) != true || arr[3] != nil || arr[4].(float64) != 3.5 {
		t.Fatalf("unexpected values: %#v", arr)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	orig := []byte(`{"a":1,"b":[1,2,3],"c":{"d":"e"}}`)
	v, err := Decode(orig)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	out, err := Encode(v)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	v2, err := Decode(out)
	if err != nil {
		t.Fatalf("re-decode: %v", err)
	}
	out2, err := Encode(v2)
	if err != nil {
		t.Fatalf("re-encode: %v", err)
	}
	if string(out) != string(out2) {
		t.Fatalf("round trip mismatch: %s vs %s", out, out2)
	}
}

func TestOrderedMapImmutability(t *testing.T) {
	m := New().Set("a", 1).Set("b", 2)
	m2 := m.Set("c", 3)
	if m.Has("c") {
		t.Fatalf("original map mutated by Set")
	}
	if !m2.Has("c") {
		t.Fatalf("new map missing set key")
	}
	if got, want := m.Keys(), []string{"a", "b"}; !equalStrings(got, want) {
		t.Fatalf("original keys changed: %v", got)
	}
}

func TestOrderedMapRename(t *testing.T) {
	m := New().Set("foo", 2)
	renamed := m.Rename("foo", "moo")
	if renamed.Has("foo") {
		t.Fatalf("old key still present after rename")
	}
	v, ok := renamed.Get("moo")
	if !ok || v != 2 {
		t.Fatalf("renamed value missing or wrong: %#v", v)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
