// bitvector_test.go - tests for the builder's occupancy bitvector

package sbson

import (
	"testing"
)

func TestBitVector(t *testing.T) {
	assert := newAsserter(t)

	bv := newBitVector(100)
	assert(bv.Size() == 128, "size %d, want 128", bv.Size())

	for i := uint64(0); i < 100; i += 3 {
		bv.Set(i)
	}
	for i := uint64(0); i < 100; i++ {
		want := i%3 == 0
		assert(bv.IsSet(i) == want, "bit %d: set=%v want %v", i, bv.IsSet(i), want)
	}

	bv.Reset()
	for i := uint64(0); i < 100; i++ {
		assert(!bv.IsSet(i), "bit %d survived reset", i)
	}
}

func TestBitVectorWordBoundary(t *testing.T) {
	assert := newAsserter(t)

	bv := newBitVector(64)
	bv.Set(63)
	assert(bv.IsSet(63), "bit 63 not set")
	assert(!bv.IsSet(62), "bit 62 set")

	bv = newBitVector(65)
	assert(bv.Size() == 128, "size %d, want 128", bv.Size())
	bv.Set(64)
	assert(bv.IsSet(64), "bit 64 not set")
}
