// jsonvalue_test.go

package jsonvalue

import (
	"bytes"
	"errors"
	"testing"

	"github.com/Gilnaa/sbson"
)

func TestFromJSON(t *testing.T) {
	doc := []byte(`{
		"name": "widget",
		"count": 17,
		"big": 18446744073709551615,
		"neg": -3,
		"ok": true,
		"gone": null,
		"tags": ["a", "b"],
		"nested": {"x": 0}
	}`)

	v, err := FromJSON(doc)
	if err != nil {
		t.Fatalf("parse: %s", err)
	}
	if v.Kind() != sbson.KindMap {
		t.Fatalf("root kind %d", v.Kind())
	}

	m := v.AsMap()
	if m["name"].AsString() != "widget" {
		t.Fatalf("name: %q", m["name"].AsString())
	}
	if m["count"].AsInt() != 17 {
		t.Fatalf("count: %d", m["count"].AsInt())
	}
	if m["big"].Kind() != sbson.KindUint || m["big"].AsUint() != 1<<64-1 {
		t.Fatalf("big: kind %d value %d", m["big"].Kind(), m["big"].AsUint())
	}
	if m["neg"].AsInt() != -3 {
		t.Fatalf("neg: %d", m["neg"].AsInt())
	}
	if !m["gone"].Equal(sbson.Null()) {
		t.Fatalf("gone is not null")
	}
	if len(m["tags"].AsArray()) != 2 {
		t.Fatalf("tags: %d entries", len(m["tags"].AsArray()))
	}
}

func TestFromJSONRejectsFloats(t *testing.T) {
	for _, doc := range []string{`1.5`, `[1e10]`, `{"x": 0.25}`} {
		_, err := FromJSON([]byte(doc))
		if !errors.Is(err, sbson.ErrUnsupportedType) {
			t.Fatalf("%s: want unsupported-type error, have %v", doc, err)
		}
	}
}

func TestToJSONDeterministic(t *testing.T) {
	v := sbson.Map(map[string]sbson.Value{
		"b": sbson.Int(2),
		"a": sbson.Int(1),
		"c": sbson.Arr([]sbson.Value{sbson.Str("x"), sbson.Null()}),
	})

	a, err := ToJSON(v)
	if err != nil {
		t.Fatalf("render: %s", err)
	}
	b, err := ToJSON(v)
	if err != nil {
		t.Fatalf("render: %s", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("output not deterministic:\n%s\n%s", a, b)
	}
	if !bytes.Contains(a, []byte(`"a":1`)) {
		t.Fatalf("unexpected shape: %s", a)
	}
}

func TestJSONRoundTripThroughCodec(t *testing.T) {
	doc := []byte(`{"top": {"items": [1, 2, 3], "label": "x"}}`)

	v, err := FromJSON(doc)
	if err != nil {
		t.Fatalf("parse: %s", err)
	}
	b, err := sbson.Encode(v, nil)
	if err != nil {
		t.Fatalf("encode: %s", err)
	}
	got, err := sbson.Decode(b)
	if err != nil {
		t.Fatalf("decode: %s", err)
	}
	if !got.Equal(v) {
		t.Fatalf("round trip mismatch")
	}
}
