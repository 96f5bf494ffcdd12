// chd_marshal.go - wire form of the CHD map header

package sbson

import "encoding/binary"

// appendCHDHeader appends the perfect-hash portion of a CHD map header:
// the 32-bit seed followed by one (d1, d2) displacement pair per
// bucket, eight bytes per bucket, all little-endian.
func appendCHDHeader(b []byte, idx *chdIndex) []byte {
	b = binary.LittleEndian.AppendUint32(b, idx.seed)
	if len(idx.disps) == 0 {
		return b
	}

	w := make([]uint32, 0, 2*len(idx.disps))
	for _, d := range idx.disps {
		w = append(w, toLEUint32(d[0]), toLEUint32(d[1]))
	}
	return append(b, u32sToByteSlice(w)...)
}
