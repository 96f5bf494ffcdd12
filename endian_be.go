// endian_be.go -- endian conversion routines for big-endian archs.
// This file is for big-endian systems; the wire format is always
// little-endian, so conversion _to_ little-endian swaps bytes here.

//go:build ppc64 || mips || mips64
// +build ppc64 mips mips64

package sbson

func toLEUint32(v uint32) uint32 {
	return ((v & 0x000000ff) << 24) |
		((v & 0x0000ff00) << 8) |
		((v & 0x00ff0000) >> 8) |
		((v & 0xff000000) >> 24)
}
