// decode.go - element views and the materializing decoder

package sbson

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"
)

// TypedView is a zero-copy view of one element: a read-only borrow of
// exactly the element's byte range inside a larger document. Navigating
// into children returns further views of the same backing slice; the
// view must not outlive the buffer it was created from.
type TypedView struct {
	b []byte
}

// View parses the element header at the start of buf and returns a
// navigable view. Only the header is validated here; children are
// checked lazily as they are reached.
func View(buf []byte) (TypedView, error) {
	return newView(buf)
}

func newView(b []byte) (TypedView, error) {
	if len(b) == 0 {
		return TypedView{}, fmt.Errorf("empty element: %w", ErrTruncatedElement)
	}

	need := 1
	switch Tag(b[0]) {
	case TagTrue, TagFalse, TagNull, TagBinary:

	case TagString:
		need = 2

	case TagInt32, TagUint32:
		need = 5

	case TagInt64, TagUint64:
		need = 9

	case TagArray:
		return newContainerView(b, 4)

	case TagMap:
		return newContainerView(b, 8)

	case TagMapCHD:
		return newCHDView(b)

	default:
		return TypedView{}, fmt.Errorf("tag %#02x: %w", b[0], ErrUnknownTag)
	}

	if len(b) < need {
		return TypedView{}, fmt.Errorf("%s element of %d bytes: %w", Tag(b[0]), len(b), ErrTruncatedElement)
	}
	return TypedView{b: b}, nil
}

// newContainerView checks that the declared descriptor table of an
// array (4-byte entries) or ordered map (8-byte entries) fits inside
// the element.
func newContainerView(b []byte, stride int) (TypedView, error) {
	if len(b) < 5 {
		return TypedView{}, fmt.Errorf("%d byte container header: %w", len(b), ErrTruncatedElement)
	}
	n := binary.LittleEndian.Uint32(b[1:5])
	if 5+uint64(stride)*uint64(n) > uint64(len(b)) {
		return TypedView{}, fmt.Errorf("%s of %d entries in %d bytes: %w", Tag(b[0]), n, len(b), ErrTruncatedElement)
	}
	return TypedView{b: b}, nil
}

func newCHDView(b []byte) (TypedView, error) {
	if len(b) < 5 {
		return TypedView{}, fmt.Errorf("%d byte container header: %w", len(b), ErrTruncatedElement)
	}
	n := binary.LittleEndian.Uint32(b[1:5])
	need := 9 + 8*uint64(bucketCount(int(n))) + 8*uint64(n)
	if need > uint64(len(b)) {
		return TypedView{}, fmt.Errorf("chd map of %d entries in %d bytes: %w", n, len(b), ErrTruncatedElement)
	}
	return TypedView{b: b}, nil
}

// Size returns the length in bytes of the element's range.
func (tv TypedView) Size() int {
	return len(tv.b)
}

// Tag returns the element's type tag.
func (tv TypedView) Tag() Tag {
	if len(tv.b) == 0 {
		return 0
	}
	return Tag(tv.b[0])
}

// IsNull reports whether the element is the null element.
func (tv TypedView) IsNull() bool {
	return tv.Tag() == TagNull
}

func (tv TypedView) wrongType(want string) error {
	return fmt.Errorf("%s element, want %s: %w", tv.Tag(), want, ErrWrongType)
}

func (tv TypedView) Bool() (bool, error) {
	switch tv.Tag() {
	case TagTrue:
		return true, nil
	case TagFalse:
		return false, nil
	}
	return false, tv.wrongType("bool")
}

// Uint returns the integer payload read the way the format specifies:
// as an unsigned value, even for elements written through the signed
// int32/int64 tags. A negative value round-trips to its two's
// complement counterpart.
func (tv TypedView) Uint() (uint64, error) {
	switch tv.Tag() {
	case TagInt32, TagUint32:
		return uint64(binary.LittleEndian.Uint32(tv.b[1:5])), nil
	case TagInt64, TagUint64:
		return binary.LittleEndian.Uint64(tv.b[1:9]), nil
	}
	return 0, tv.wrongType("integer")
}

// Int returns the signed reinterpretation of the payload bits, for
// callers that know the element was written from a negative value.
func (tv TypedView) Int() (int64, error) {
	switch tv.Tag() {
	case TagInt32, TagUint32:
		return int64(int32(binary.LittleEndian.Uint32(tv.b[1:5]))), nil
	case TagInt64, TagUint64:
		return int64(binary.LittleEndian.Uint64(tv.b[1:9])), nil
	}
	return 0, tv.wrongType("integer")
}

// Str returns the string payload with its NUL terminator stripped.
func (tv TypedView) Str() (string, error) {
	if tv.Tag() != TagString {
		return "", tv.wrongType("string")
	}
	b := tv.b
	if b[len(b)-1] != 0 {
		return "", fmt.Errorf("string element: %w", ErrUnterminatedKey)
	}
	s := b[1 : len(b)-1]
	if !utf8.Valid(s) {
		return "", fmt.Errorf("string element: %w", ErrInvalidUTF8)
	}
	return string(s), nil
}

// Bytes returns the binary payload. The slice borrows the underlying
// buffer; callers that need to keep it must copy.
func (tv TypedView) Bytes() ([]byte, error) {
	if tv.Tag() != TagBinary {
		return nil, tv.wrongType("binary")
	}
	return tv.b[1:], nil
}

// Len returns the entry count of an array or map element.
func (tv TypedView) Len() (int, error) {
	switch tv.Tag() {
	case TagArray, TagMap, TagMapCHD:
		return int(binary.LittleEndian.Uint32(tv.b[1:5])), nil
	}
	return 0, tv.wrongType("array or map")
}

// At returns a view of the i-th array element.
func (tv TypedView) At(i int) (TypedView, error) {
	if tv.Tag() != TagArray {
		return TypedView{}, tv.wrongType("array")
	}
	b := tv.b
	n := int(binary.LittleEndian.Uint32(b[1:5]))
	if i < 0 || i >= n {
		return TypedView{}, fmt.Errorf("sbson: array index %d out of range [0,%d)", i, n)
	}

	hdrEnd := 5 + 4*n
	start := int(binary.LittleEndian.Uint32(b[5+4*i:]))
	end := len(b)
	if i+1 < n {
		end = int(binary.LittleEndian.Uint32(b[5+4*(i+1):]))
	}
	return childView(b, hdrEnd, start, end)
}

// childView validates a child's byte range against its parent before
// descending. A child must start past the parent's descriptor table and
// end within the parent, which also guarantees recursion terminates on
// corrupt offsets: every child slice is strictly shorter than its
// parent.
func childView(b []byte, hdrEnd, start, end int) (TypedView, error) {
	if start < hdrEnd || end > len(b) || start > end {
		return TypedView{}, fmt.Errorf("child at [%d,%d) of %d byte element: %w", start, end, len(b), ErrTruncatedElement)
	}
	return newView(b[start:end])
}

// Decode parses an entire document and materializes it as a Value,
// visiting every child exactly once. Integer elements of all four
// widths materialize as unsigned values; see Uint.
func Decode(buf []byte) (Value, error) {
	tv, err := newView(buf)
	if err != nil {
		return Value{}, err
	}
	return tv.materialize()
}

// Materialize rebuilds the subtree rooted at this view as a Value,
// without touching any sibling elements.
func (tv TypedView) Materialize() (Value, error) {
	return tv.materialize()
}

func (tv TypedView) materialize() (Value, error) {
	switch tv.Tag() {
	case TagNull:
		return Null(), nil

	case TagTrue:
		return Bool(true), nil

	case TagFalse:
		return Bool(false), nil

	case TagInt32, TagUint32, TagInt64, TagUint64:
		u, err := tv.Uint()
		return Uint(u), err

	case TagString:
		s, err := tv.Str()
		return Str(s), err

	case TagBinary:
		p, err := tv.Bytes()
		if err != nil {
			return Value{}, err
		}
		return Bin(append([]byte(nil), p...)), nil

	case TagArray:
		n, _ := tv.Len()
		vals := make([]Value, n)
		for i := 0; i < n; i++ {
			c, err := tv.At(i)
			if err != nil {
				return Value{}, err
			}
			if vals[i], err = c.materialize(); err != nil {
				return Value{}, err
			}
		}
		return Arr(vals), nil

	case TagMap, TagMapCHD:
		n, _ := tv.Len()
		m := make(map[string]Value, n)
		err := tv.IterFunc(func(k string, c TypedView) error {
			v, err := c.materialize()
			if err != nil {
				return err
			}
			m[k] = v
			return nil
		})
		if err != nil {
			return Value{}, err
		}
		return Map(m), nil
	}

	return Value{}, fmt.Errorf("tag %#02x: %w", byte(tv.Tag()), ErrUnknownTag)
}
