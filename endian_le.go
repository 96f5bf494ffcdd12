// endian_le.go -- endian conversion routines for little-endian arch.
// This file is for little endian systems; thus conversion _to_ little-endian
// format is idempotent. We build this file into all arch's that are LE;
// they are listed in the build constraints below.

//go:build 386 || amd64 || arm || arm64 || ppc64le || mipsle || mips64le
// +build 386 amd64 arm arm64 ppc64le mipsle mips64le

package sbson

func toLEUint32(v uint32) uint32 {
	return v
}
