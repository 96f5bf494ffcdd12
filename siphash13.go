package sbson

import (
	"encoding/binary"
	"math/bits"
)

// siphash13 computes the 128-bit SipHash-1-3 digest (one compression
// round, three finalization rounds) of msg keyed with (k0, k1), and
// returns it as the pair (low, high) = (first 64 bits, second 64 bits).
//
// The CHD builder keys with (k0=0, k1=seed) per bucket-building attempt;
// see chd.go.
func siphash13(k0, k1 uint64, msg []byte) (low, high uint64) {
	v0 := uint64(0x736f6d6570736575) ^ k0
	v1 := uint64(0x646f72616e646f6d) ^ k1
	v2 := uint64(0x6c7967656e657261) ^ k0
	v3 := uint64(0x7465646279746573) ^ k1

	// 128-bit output variant.
	v1 ^= 0xee

	inlen := len(msg)
	end := inlen - inlen%8

	for i := 0; i < end; i += 8 {
		m := binary.LittleEndian.Uint64(msg[i : i+8])
		v3 ^= m
		sipRound(&v0, &v1, &v2, &v3)
		v0 ^= m
	}

	var tail [8]byte
	copy(tail[:], msg[end:])
	tail[7] = byte(inlen)
	b := binary.LittleEndian.Uint64(tail[:])

	v3 ^= b
	sipRound(&v0, &v1, &v2, &v3)
	v0 ^= b

	v2 ^= 0xee
	sipRound(&v0, &v1, &v2, &v3)
	sipRound(&v0, &v1, &v2, &v3)
	sipRound(&v0, &v1, &v2, &v3)
	low = v0 ^ v1 ^ v2 ^ v3

	v1 ^= 0xdd
	sipRound(&v0, &v1, &v2, &v3)
	sipRound(&v0, &v1, &v2, &v3)
	sipRound(&v0, &v1, &v2, &v3)
	high = v0 ^ v1 ^ v2 ^ v3

	return low, high
}

func sipRound(v0, v1, v2, v3 *uint64) {
	*v0 += *v1
	*v1 = bits.RotateLeft64(*v1, 13)
	*v1 ^= *v0
	*v0 = bits.RotateLeft64(*v0, 32)

	*v2 += *v3
	*v3 = bits.RotateLeft64(*v3, 16)
	*v3 ^= *v2

	*v0 += *v3
	*v3 = bits.RotateLeft64(*v3, 21)
	*v3 ^= *v0

	*v2 += *v1
	*v1 = bits.RotateLeft64(*v1, 17)
	*v1 ^= *v2
	*v2 = bits.RotateLeft64(*v2, 32)
}

// chdHash derives the three values the CHD construction needs from a key
// hashed under a given seed: the bucket selector g and the two
// displacement inputs f1, f2.
func chdHash(seed uint32, key []byte) (g, f1, f2 uint32) {
	low, high := siphash13(0, uint64(seed), key)
	g = uint32(low >> 32)
	f1 = uint32(low)
	f2 = uint32(high)
	return g, f1, f2
}
