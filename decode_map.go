// decode_map.go - ordered and perfect-hash map navigation

package sbson

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"
)

// Lookup finds key in a map element and returns a view of its value.
// found is false when the key is absent; the error is non-nil only when
// the element itself is malformed. Ordered maps are searched in
// O(log n) via the Eytzinger-ordered descriptors; perfect-hash maps in
// O(1) expected via one CHD probe.
func (tv TypedView) Lookup(key string) (v TypedView, found bool, err error) {
	switch tv.Tag() {
	case TagMap:
		return tv.lookupOrdered(key)
	case TagMapCHD:
		return tv.lookupCHD(key)
	}
	return TypedView{}, false, tv.wrongType("map")
}

func (tv TypedView) lookupOrdered(key string) (TypedView, bool, error) {
	b := tv.b
	n := int(binary.LittleEndian.Uint32(b[1:5]))
	hdrEnd := 5 + 8*n

	// Descriptors are stored in Eytzinger order, so the search visits
	// node 1, then 2k or 2k+1: sequential prefixes of the descriptor
	// array rather than bisection jumps.
	k := 1
	for k <= n {
		kb, err := mapKeyAt(b, 5+8*(k-1))
		if err != nil {
			return TypedView{}, false, err
		}
		c := cmpKey(key, kb)
		if c == 0 {
			return tv.mapChildAt(k-1, n, hdrEnd, 5)
		}
		if c < 0 {
			k = 2 * k
		} else {
			k = 2*k + 1
		}
	}
	return TypedView{}, false, nil
}

func (tv TypedView) lookupCHD(key string) (TypedView, bool, error) {
	b := tv.b
	n := int(binary.LittleEndian.Uint32(b[1:5]))
	if n == 0 {
		return TypedView{}, false, nil
	}

	seed := binary.LittleEndian.Uint32(b[5:9])
	nb := bucketCount(n)
	g, f1, f2 := chdHash(seed, []byte(key))

	pair := 9 + 8*int(g%uint32(nb))
	d1 := binary.LittleEndian.Uint32(b[pair:])
	d2 := binary.LittleEndian.Uint32(b[pair+4:])
	slot := int(displace(f1, f2, d1, d2) % uint32(n))

	// The hash places out-of-set keys in arbitrary slots; only the key
	// compare decides presence.
	descStart := 9 + 8*nb
	kb, err := mapKeyAt(b, descStart+8*slot)
	if err != nil {
		return TypedView{}, false, err
	}
	if cmpKey(key, kb) != 0 {
		return TypedView{}, false, nil
	}
	return tv.mapChildAt(slot, n, descStart+8*n, descStart)
}

// IterFunc calls fn for every (key, value) pair of a map element in
// stored descriptor order, which is Eytzinger order for ordered maps
// and slot order for perfect-hash maps. A non-nil return from fn stops
// the iteration and is propagated.
func (tv TypedView) IterFunc(fn func(key string, v TypedView) error) error {
	b := tv.b
	var descStart int
	switch tv.Tag() {
	case TagMap:
		descStart = 5
	case TagMapCHD:
		descStart = 9 + 8*bucketCount(int(binary.LittleEndian.Uint32(b[1:5])))
	default:
		return tv.wrongType("map")
	}

	n := int(binary.LittleEndian.Uint32(b[1:5]))
	hdrEnd := descStart + 8*n
	for pos := 0; pos < n; pos++ {
		kb, err := mapKeyAt(b, descStart+8*pos)
		if err != nil {
			return err
		}
		if !utf8.Valid(kb) {
			return fmt.Errorf("key at descriptor %d: %w", pos, ErrInvalidUTF8)
		}
		v, _, err := tv.mapChildAt(pos, n, hdrEnd, descStart)
		if err != nil {
			return err
		}
		if err = fn(string(kb), v); err != nil {
			return err
		}
	}
	return nil
}

// mapChildAt resolves the value range of the descriptor at position
// pos: its own value_offset up to the next descriptor's value_offset,
// or the element's end for the last descriptor.
func (tv TypedView) mapChildAt(pos, n, hdrEnd, descStart int) (TypedView, bool, error) {
	b := tv.b
	start := int(binary.LittleEndian.Uint32(b[descStart+8*pos+4:]))
	end := len(b)
	if pos+1 < n {
		end = int(binary.LittleEndian.Uint32(b[descStart+8*(pos+1)+4:]))
	}

	v, err := childView(b, hdrEnd, start, end)
	if err != nil {
		return TypedView{}, false, err
	}
	return v, true, nil
}

// mapKeyAt unpacks the key_desc at byte offset descOff and returns the
// stored key bytes without the NUL terminator.
func mapKeyAt(b []byte, descOff int) ([]byte, error) {
	desc := binary.LittleEndian.Uint32(b[descOff:])
	koff := int(desc & 0xFFFFFF)
	klen := int(desc >> 24)

	if koff+klen+1 > len(b) {
		return nil, fmt.Errorf("key at [%d,%d) of %d byte element: %w", koff, koff+klen+1, len(b), ErrTruncatedElement)
	}
	if b[koff+klen] != 0 {
		return nil, fmt.Errorf("key at offset %d: %w", koff, ErrUnterminatedKey)
	}
	return b[koff : koff+klen], nil
}

// cmpKey compares a query key against stored key bytes, byte-wise
// lexicographic, without allocating.
func cmpKey(q string, k []byte) int {
	n := len(q)
	if len(k) < n {
		n = len(k)
	}
	for i := 0; i < n; i++ {
		if q[i] != k[i] {
			if q[i] < k[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(q) < len(k):
		return -1
	case len(q) > len(k):
		return 1
	}
	return 0
}
