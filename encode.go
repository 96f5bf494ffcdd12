// encode.go - recursive value encoder

package sbson

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"unicode/utf8"
)

// DefaultPHFThreshold is the map size at which Encode switches from the
// ordered Eytzinger index to the CHD perfect hash when no options are
// given.
const DefaultPHFThreshold uint32 = 10_000

// EncodeOptions controls how Encode lays out map elements.
type EncodeOptions struct {
	// PHFThreshold is the minimum number of keys at which a map is
	// indexed with the CHD perfect hash instead of the ordered
	// Eytzinger index. Zero means every map takes the perfect-hash
	// path, empty maps included.
	PHFThreshold uint32
}

// Encode serializes v into a self-contained SBSON document. A nil opt
// uses DefaultPHFThreshold. Encode is deterministic: the same value and
// options always produce the same bytes.
func Encode(v Value, opt *EncodeOptions) ([]byte, error) {
	threshold := DefaultPHFThreshold
	if opt != nil {
		threshold = opt.PHFThreshold
	}
	return encodeValue(v, threshold)
}

// EncodeTo encodes v and writes the document to w. Nothing is written
// when encoding fails.
func EncodeTo(w io.Writer, v Value, opt *EncodeOptions) (int, error) {
	b, err := Encode(v, opt)
	if err != nil {
		return 0, err
	}

	ew := newErrWriter(w)
	n, _ := ew.Write(b)
	return n, ew.Error()
}

// encodeValue returns the complete byte range of one element, children
// included. Parents compose children by concatenation, so every subtree
// is self-contained and offsets inside it never need rewriting.
func encodeValue(v Value, threshold uint32) ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte{byte(TagNull)}, nil

	case KindBool:
		if v.b {
			return []byte{byte(TagTrue)}, nil
		}
		return []byte{byte(TagFalse)}, nil

	case KindInt:
		return encodeInt(v.i)

	case KindUint:
		return encodeUint(v.u)

	case KindString:
		if !utf8.ValidString(v.s) {
			return nil, fmt.Errorf("string value: %w", ErrInvalidUTF8)
		}
		b := make([]byte, 0, len(v.s)+2)
		b = append(b, byte(TagString))
		b = append(b, v.s...)
		return append(b, 0), nil

	case KindBinary:
		b := make([]byte, 0, len(v.bin)+1)
		b = append(b, byte(TagBinary))
		return append(b, v.bin...), nil

	case KindArray:
		return encodeArray(v.arr, threshold)

	case KindMap:
		return encodeMap(v.m, threshold)
	}

	return nil, fmt.Errorf("kind %d: %w", v.kind, ErrUnsupportedType)
}

// encodeInt picks the wire width for a signed integer. The selection
// boundaries are part of the format: values in (2^32-1, 2^63-1] select
// the 4-byte uint32 payload and values below -(2^32-1) the 4-byte
// int32 payload, neither of which can hold them, so integers in those
// ranges are not encodable.
func encodeInt(i int64) ([]byte, error) {
	if i > math.MaxUint32 || i < -math.MaxUint32 {
		return nil, fmt.Errorf("integer %d has no representable width: %w", i, ErrUnsupportedType)
	}

	var b [9]byte
	b[0] = byte(TagInt64)
	binary.LittleEndian.PutUint64(b[1:], uint64(i))
	return b[:], nil
}

// encodeUint is encodeInt's unsigned twin; see there for the width
// selection quirks.
func encodeUint(u uint64) ([]byte, error) {
	var b [9]byte

	switch {
	case u > math.MaxInt64:
		b[0] = byte(TagUint64)

	case u > math.MaxUint32:
		return nil, fmt.Errorf("integer %d has no representable width: %w", u, ErrUnsupportedType)

	default:
		b[0] = byte(TagInt64)
	}

	binary.LittleEndian.PutUint64(b[1:], u)
	return b[:], nil
}

func encodeArray(vals []Value, threshold uint32) ([]byte, error) {
	n := len(vals)
	if n == 0 {
		b := make([]byte, 5)
		b[0] = byte(TagArray)
		return b, nil
	}

	hdrSize := 5 + 4*n
	children := make([][]byte, n)
	size := uint64(hdrSize)
	for i := range vals {
		c, err := encodeValue(vals[i], threshold)
		if err != nil {
			return nil, err
		}
		children[i] = c
		size += uint64(len(c))
	}
	if size > math.MaxUint32 {
		return nil, fmt.Errorf("array of %d bytes: %w", size, ErrElementTooLarge)
	}

	b := make([]byte, 0, size)
	b = append(b, byte(TagArray))
	b = binary.LittleEndian.AppendUint32(b, uint32(n))

	off := uint32(hdrSize)
	for _, c := range children {
		b = binary.LittleEndian.AppendUint32(b, off)
		off += uint32(len(c))
	}
	for _, c := range children {
		b = append(b, c...)
	}
	return b, nil
}
