package sbson

import "bytes"

// Tag identifies the wire representation of an element. It is always the
// first byte of an element's byte range.
type Tag byte

const (
	TagDouble Tag = 0x01 // reserved, never produced by Encode
	TagString Tag = 0x02
	TagMap    Tag = 0x03
	TagArray  Tag = 0x04
	TagBinary Tag = 0x05
	TagFalse  Tag = 0x08
	TagTrue   Tag = 0x09
	TagNull   Tag = 0x0A
	TagInt32  Tag = 0x10
	TagUint32 Tag = 0x11
	TagInt64  Tag = 0x12
	TagUint64 Tag = 0x13
	TagMapCHD Tag = 0x20
)

func (t Tag) String() string {
	switch t {
	case TagDouble:
		return "double"
	case TagString:
		return "string"
	case TagMap:
		return "map"
	case TagArray:
		return "array"
	case TagBinary:
		return "binary"
	case TagFalse:
		return "false"
	case TagTrue:
		return "true"
	case TagNull:
		return "null"
	case TagInt32:
		return "int32"
	case TagUint32:
		return "uint32"
	case TagInt64:
		return "int64"
	case TagUint64:
		return "uint64"
	case TagMapCHD:
		return "map_phf_chd"
	default:
		return "unknown"
	}
}

// Kind is the logical type of a materialized Value. Kind collapses the
// wire's two map tags into KindMap and its four integer tags into KindInt
// and KindUint; the wire tag actually used for a given Value is chosen at
// encode time.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindUint
	KindString
	KindBinary
	KindArray
	KindMap
)

// Value is the abstract document tree that Encode consumes and Decode
// produces. It is a closed sum type: construct one with Null, Bool, Int,
// Uint, Str, Bin, Arr or Map, and inspect it with Kind and the matching
// accessor.
type Value struct {
	kind Kind
	b    bool
	i    int64
	u    uint64
	s    string
	bin  []byte
	arr  []Value
	m    map[string]Value
}

func Null() Value         { return Value{kind: KindNull} }
func Bool(b bool) Value   { return Value{kind: KindBool, b: b} }
func Int(i int64) Value   { return Value{kind: KindInt, i: i} }
func Uint(u uint64) Value { return Value{kind: KindUint, u: u} }
func Str(s string) Value  { return Value{kind: KindString, s: s} }
func Bin(b []byte) Value  { return Value{kind: KindBinary, bin: b} }
func Arr(v []Value) Value { return Value{kind: KindArray, arr: v} }
func Map(m map[string]Value) Value {
	return Value{kind: KindMap, m: m}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) AsBool() bool            { return v.b }
func (v Value) AsInt() int64            { return v.i }
func (v Value) AsUint() uint64          { return v.u }
func (v Value) AsString() string        { return v.s }
func (v Value) AsBinary() []byte        { return v.bin }
func (v Value) AsArray() []Value        { return v.arr }
func (v Value) AsMap() map[string]Value { return v.m }

// Equal reports whether v and o describe the same logical document.
//
// Int and Uint values compare equal across kinds when non-negative, since
// a non-negative integer has exactly one wire encoding regardless of which
// constructor produced it. This deliberately does NOT special-case the
// signed-encode/unsigned-decode asymmetry of INT32/INT64 (see
// TypedView.Uint for that quirk): a Value built from a negative Int
// will not compare equal to what Decode returns for it, because the wire
// format itself does not preserve that value.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		switch {
		case v.kind == KindInt && o.kind == KindUint:
			return v.i >= 0 && uint64(v.i) == o.u
		case v.kind == KindUint && o.kind == KindInt:
			return o.i >= 0 && uint64(o.i) == v.u
		default:
			return false
		}
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindUint:
		return v.u == o.u
	case KindString:
		return v.s == o.s
	case KindBinary:
		return bytes.Equal(v.bin, o.bin)
	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.m) != len(o.m) {
			return false
		}
		for k, vv := range v.m {
			ov, ok := o.m[k]
			if !ok || !vv.Equal(ov) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
