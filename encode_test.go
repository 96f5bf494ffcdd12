// encode_test.go - byte-layout tests for the encoder

package sbson

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"testing"
)

func le32(vs ...uint32) []byte {
	var b []byte
	for _, v := range vs {
		b = binary.LittleEndian.AppendUint32(b, v)
	}
	return b
}

func TestEncodeSmallMapLayout(t *testing.T) {
	assert := newAsserter(t)

	v := Map(map[string]Value{
		"A": Bool(true),
		"B": Bool(false),
		"C": Null(),
	})
	b, err := Encode(v, &EncodeOptions{PHFThreshold: 100})
	assert(err == nil, "encode: %s", err)
	assert(len(b) == 38, "want 38 bytes, have %d", len(b))

	// Eytzinger order of the sorted keys [A B C] is [B A C]:
	// descriptors, keys and values all follow that order.
	exp := []byte{byte(TagMap)}
	exp = append(exp, le32(3)...)
	exp = append(exp, le32(1<<24|29, 35)...) // B -> false
	exp = append(exp, le32(1<<24|31, 36)...) // A -> true
	exp = append(exp, le32(1<<24|33, 37)...) // C -> null
	exp = append(exp, 'B', 0, 'A', 0, 'C', 0)
	exp = append(exp, byte(TagFalse), byte(TagTrue), byte(TagNull))

	assert(bytes.Equal(b, exp), "layout mismatch:\nhave %x\nwant %x", b, exp)
}

func TestEncodeEmptyMap(t *testing.T) {
	assert := newAsserter(t)

	b, err := Encode(Map(nil), nil)
	assert(err == nil, "encode: %s", err)
	assert(bytes.Equal(b, []byte{0x03, 0, 0, 0, 0}), "empty map: %x", b)
}

func TestEncodeEmptyMapCHD(t *testing.T) {
	assert := newAsserter(t)

	// threshold 0 routes even the empty map through the perfect hash
	b, err := Encode(Map(nil), &EncodeOptions{PHFThreshold: 0})
	assert(err == nil, "encode: %s", err)

	exp := []byte{byte(TagMapCHD)}
	exp = append(exp, le32(0, _FirstSeed)...)
	assert(bytes.Equal(b, exp), "empty chd map: %x", b)

	tv, err := View(b)
	assert(err == nil, "view: %s", err)
	_, found, err := tv.Lookup("anything")
	assert(err == nil && !found, "lookup on empty map: found=%v err=%s", found, err)
}

func TestEncodeArrayLayout(t *testing.T) {
	assert := newAsserter(t)

	b, err := Encode(Arr([]Value{Int(1), Int(2), Bool(true)}), nil)
	assert(err == nil, "encode: %s", err)
	assert(len(b) == 36, "want 36 bytes, have %d", len(b))

	exp := []byte{byte(TagArray)}
	exp = append(exp, le32(3, 17, 26, 35)...)
	exp = append(exp, byte(TagInt64), 1, 0, 0, 0, 0, 0, 0, 0)
	exp = append(exp, byte(TagInt64), 2, 0, 0, 0, 0, 0, 0, 0)
	exp = append(exp, byte(TagTrue))

	assert(bytes.Equal(b, exp), "layout mismatch:\nhave %x\nwant %x", b, exp)
}

func TestEncodeEmptyArray(t *testing.T) {
	assert := newAsserter(t)

	b, err := Encode(Arr(nil), nil)
	assert(err == nil, "encode: %s", err)
	assert(bytes.Equal(b, []byte{0x04, 0, 0, 0, 0}), "empty array: %x", b)
}

func TestEncodeString(t *testing.T) {
	assert := newAsserter(t)

	b, err := Encode(Str("hi"), nil)
	assert(err == nil, "encode: %s", err)
	assert(bytes.Equal(b, []byte{0x02, 'h', 'i', 0}), "string: %x", b)
}

func TestEncodeBinary(t *testing.T) {
	assert := newAsserter(t)

	b, err := Encode(Bin([]byte{0xde, 0xad, 0xbe, 0xef}), nil)
	assert(err == nil, "encode: %s", err)
	assert(bytes.Equal(b, []byte{0x05, 0xde, 0xad, 0xbe, 0xef}), "binary: %x", b)

	b, err = Encode(Map(map[string]Value{"x": Bin([]byte{0xde, 0xad, 0xbe, 0xef})}), nil)
	assert(err == nil, "encode: %s", err)

	tv, err := View(b)
	assert(err == nil, "view: %s", err)
	v, found, err := tv.Lookup("x")
	assert(err == nil && found, "lookup x: found=%v err=%s", found, err)
	assert(v.Size() == 5, "binary element size %d", v.Size())

	p, err := v.Bytes()
	assert(err == nil, "bytes: %s", err)
	assert(bytes.Equal(p, []byte{0xde, 0xad, 0xbe, 0xef}), "payload: %x", p)
}

func TestEncodeIntWidths(t *testing.T) {
	assert := newAsserter(t)

	b, err := Encode(Int(5), nil)
	assert(err == nil && b[0] == byte(TagInt64), "small int: tag %#02x err %s", b[0], err)

	b, err = Encode(Int(-1), nil)
	assert(err == nil && b[0] == byte(TagInt64), "negative int: tag %#02x err %s", b[0], err)
	assert(binary.LittleEndian.Uint64(b[1:]) == math.MaxUint64, "two's complement bits: %x", b[1:])

	b, err = Encode(Int(-(1<<32 - 1)), nil)
	assert(err == nil && b[0] == byte(TagInt64), "boundary negative: tag %#02x err %s", b[0], err)

	b, err = Encode(Uint(math.MaxUint32), nil)
	assert(err == nil && b[0] == byte(TagInt64), "max u32: tag %#02x err %s", b[0], err)

	b, err = Encode(Uint(1<<63), nil)
	assert(err == nil && b[0] == byte(TagUint64), "big uint: tag %#02x err %s", b[0], err)

	// the uint32 and int32 branches select 4-byte payloads that cannot
	// hold the values that reach them
	for _, v := range []Value{Int(1 << 32), Int(-(1 << 32)), Uint(1 << 40), Int(math.MaxInt64)} {
		_, err = Encode(v, nil)
		assert(errors.Is(err, ErrUnsupportedType), "width quirk: %s", err)
	}
}

func TestEncodeKeyValidation(t *testing.T) {
	assert := newAsserter(t)

	_, err := Encode(Map(map[string]Value{"a\x00b": Null()}), nil)
	assert(errors.Is(err, ErrInvalidMapKey), "NUL key: %s", err)

	_, err = Encode(Map(map[string]Value{"\xff\xfe": Null()}), nil)
	assert(errors.Is(err, ErrInvalidMapKey), "non-UTF-8 key: %s", err)

	long := make([]byte, 256)
	for i := range long {
		long[i] = 'k'
	}
	_, err = Encode(Map(map[string]Value{string(long): Null()}), nil)
	assert(errors.Is(err, ErrKeyTooLong), "long key: %s", err)
}

func TestEncodeDeterministic(t *testing.T) {
	assert := newAsserter(t)

	v := Map(map[string]Value{
		"3":     Bin([]byte("beep boop")),
		"BLARG": Arr([]Value{Int(1), Int(2), Bool(true), Bool(false), Null()}),
		"FLORP": Map(map[string]Value{"X": Int(0xFF)}),
		"help me i'm trapped in a format factory help me before they": Str("..."),
	})

	for _, opt := range []*EncodeOptions{nil, {PHFThreshold: 0}, {PHFThreshold: 2}} {
		a, err := Encode(v, opt)
		assert(err == nil, "encode a: %s", err)
		b, err := Encode(v, opt)
		assert(err == nil, "encode b: %s", err)
		assert(bytes.Equal(a, b), "opt %+v: encode is not deterministic", opt)
	}
}

func TestEncodeLargeCHDMap(t *testing.T) {
	assert := newAsserter(t)

	m := make(map[string]Value, 20000)
	for i := 0; i < 20000; i++ {
		m[fmt.Sprintf("a%d", i)] = Int(0)
	}

	// 20000 keys crosses the default threshold
	b, err := Encode(Map(m), nil)
	assert(err == nil, "encode: %s", err)
	assert(b[0] == byte(TagMapCHD), "tag %#02x", b[0])
	assert(binary.LittleEndian.Uint32(b[1:5]) == 20000, "count %d", binary.LittleEndian.Uint32(b[1:5]))
	assert(binary.LittleEndian.Uint32(b[5:9]) >= _FirstSeed, "seed %#x", binary.LittleEndian.Uint32(b[5:9]))

	tv, err := View(b)
	assert(err == nil, "view: %s", err)
	for i := 0; i < 20000; i++ {
		k := fmt.Sprintf("a%d", i)
		v, found, err := tv.Lookup(k)
		assert(err == nil && found, "key %s: found=%v err=%s", k, found, err)
		u, err := v.Uint()
		assert(err == nil && u == 0, "key %s: value %d err %s", k, u, err)
	}

	for _, k := range []string{"missing", "florp", "blarg", "a20000"} {
		_, found, err := tv.Lookup(k)
		assert(err == nil && !found, "phantom key %s: found=%v err=%s", k, found, err)
	}
}

func TestEncodeTo(t *testing.T) {
	assert := newAsserter(t)

	var w bytes.Buffer
	n, err := EncodeTo(&w, Str("hi"), nil)
	assert(err == nil, "encode to: %s", err)
	assert(n == 4 && w.Len() == 4, "wrote %d bytes, buffered %d", n, w.Len())
}
