// encode_map.go - ordered and perfect-hash map layout

package sbson

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"
)

// Descriptor packing limits: key_desc packs (length << 24) | offset, so
// a key offset is 24 bits and a key length 8.
const (
	_MaxKeyLen    = 255
	_MaxKeyRegion = 1 << 24
)

func encodeMap(m map[string]Value, threshold uint32) ([]byte, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if strings.IndexByte(k, 0) >= 0 || !utf8.ValidString(k) {
			return nil, fmt.Errorf("key %q: %w", k, ErrInvalidMapKey)
		}
		if len(k) > _MaxKeyLen {
			return nil, fmt.Errorf("%d byte key: %w", len(k), ErrKeyTooLong)
		}
	}

	if uint64(len(keys)) >= uint64(threshold) {
		return encodeMapCHD(keys, m, threshold)
	}
	return encodeMapOrdered(keys, m, threshold)
}

func encodeMapOrdered(keys []string, m map[string]Value, threshold uint32) ([]byte, error) {
	if len(keys) == 0 {
		b := make([]byte, 5)
		b[0] = byte(TagMap)
		return b, nil
	}

	// Descriptors, keys and values are all laid out in Eytzinger order
	// of the sorted key list, so the binary search in decode_map.go
	// walks positions 1, 2k, 2k+1, ...
	return packMap(TagMap, nil, keys, eytzingerOrder(len(keys)), m, threshold)
}

func encodeMapCHD(keys []string, m map[string]Value, threshold uint32) ([]byte, error) {
	idx, err := buildCHD(keys)
	if err != nil {
		return nil, err
	}

	// Descriptors in slot order: descriptor i belongs to the key the
	// perfect hash maps to slot i, so a lookup is one hash, one
	// displacement read and one key compare.
	return packMap(TagMapCHD, idx, keys, idx.slotOf, m, threshold)
}

// packMap lays out a map element: the fixed header (plus the CHD seed
// and displacement table when idx is non-nil), one descriptor per key
// in the given order, then the keys region and the values region in
// that same order. order[p] is an index into keys.
func packMap(tag Tag, idx *chdIndex, keys []string, order []uint32, m map[string]Value, threshold uint32) ([]byte, error) {
	n := len(keys)

	hdrSize := 1 + 4
	if idx != nil {
		hdrSize += 4 + 8*len(idx.disps)
	}
	hdrSize += 8 * n

	keyOffs := make([]uint32, n)
	off := uint64(hdrSize)
	for p, ki := range order {
		if off >= _MaxKeyRegion {
			return nil, fmt.Errorf("%d keys: %w", n, ErrKeyRegionOverflow)
		}
		keyOffs[p] = uint32(off)
		off += uint64(len(keys[ki])) + 1
	}
	if off > _MaxKeyRegion {
		return nil, fmt.Errorf("%d keys: %w", n, ErrKeyRegionOverflow)
	}

	valuesStart := off
	children := make([][]byte, n)
	size := off
	for p, ki := range order {
		c, err := encodeValue(m[keys[ki]], threshold)
		if err != nil {
			return nil, err
		}
		children[p] = c
		size += uint64(len(c))
	}
	if size > math.MaxUint32 {
		return nil, fmt.Errorf("map of %d bytes: %w", size, ErrElementTooLarge)
	}

	b := make([]byte, 0, size)
	b = append(b, byte(tag))
	b = binary.LittleEndian.AppendUint32(b, uint32(n))
	if idx != nil {
		b = appendCHDHeader(b, idx)
	}

	voff := uint32(valuesStart)
	for p, ki := range order {
		desc := uint32(len(keys[ki]))<<24 | keyOffs[p]
		b = binary.LittleEndian.AppendUint32(b, desc)
		b = binary.LittleEndian.AppendUint32(b, voff)
		voff += uint32(len(children[p]))
	}
	for _, ki := range order {
		b = append(b, keys[ki]...)
		b = append(b, 0)
	}
	for _, c := range children {
		b = append(b, c...)
	}
	return b, nil
}
