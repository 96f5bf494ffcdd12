// utils.go -- utility functions

package sbson

import (
	"crypto/rand"
	"io"
	"unsafe"
)

// uint32 slice to byte-slice; the result aliases the input's backing
// array, so the input must not be modified while the bytes are live.
func u32sToByteSlice(b []uint32) []byte {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&b[0])), len(b)*4)
}

func randbytes(n int) []byte {
	b := make([]byte, n)

	_, err := io.ReadFull(rand.Reader, b)
	if err != nil {
		panic("can't read crypto/rand")
	}
	return b
}
