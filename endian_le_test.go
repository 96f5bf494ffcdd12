// endian_le_test.go - endian conversion sanity checks for LE hosts

//go:build 386 || amd64 || arm || arm64 || ppc64le || mipsle || mips64le
// +build 386 amd64 arm arm64 ppc64le mipsle mips64le

package sbson

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestToLEIdentity(t *testing.T) {
	assert := newAsserter(t)

	for _, v := range []uint32{0, 1, 0xDEADBEEF, 0xFFFFFFFF} {
		assert(toLEUint32(v) == v, "%#x changed on a little-endian host", v)
	}
}

func TestU32SliceBytes(t *testing.T) {
	assert := newAsserter(t)

	vs := []uint32{toLEUint32(0x04030201), toLEUint32(0x08070605)}
	bs := u32sToByteSlice(vs)
	assert(bytes.Equal(bs, []byte{1, 2, 3, 4, 5, 6, 7, 8}), "reinterpreted bytes: %x", bs)

	// the header writer depends on this agreeing with encoding/binary
	var exp []byte
	exp = binary.LittleEndian.AppendUint32(exp, 0x04030201)
	exp = binary.LittleEndian.AppendUint32(exp, 0x08070605)
	assert(bytes.Equal(bs, exp), "disagrees with encoding/binary: %x vs %x", bs, exp)

	assert(u32sToByteSlice(nil) == nil, "nil slice not preserved")
}
