// Package sbson implements a self-describing binary document codec for
// JSON-shaped data, optimized for random access into maps without
// materializing the full tree.
//
// A document is a tree of tagged elements. Every element occupies a
// contiguous byte range whose first byte is a one-byte type tag; offsets
// recorded inside a parent element are absolute within that parent
// element's own byte range, so a decoder can jump straight to any
// descendant without walking its siblings.
//
//	element ::= tag payload
//	tag     ::= "\x01"                 reserved (double, unimplemented)
//	          | "\x02" cstring         string
//	          | "\x03" map             ordered map
//	          | "\x04" array           array
//	          | "\x05" byte*           binary
//	          | "\x08"                 false
//	          | "\x09"                 true
//	          | "\x0A"                 null
//	          | "\x10" int32           int32 (written signed, read unsigned)
//	          | "\x11" uint32          uint32
//	          | "\x12" int64           int64 (written signed, read unsigned)
//	          | "\x13" uint64          uint64
//	          | "\x20" chdmap          perfect-hash map
//	cstring ::= byte* "\x00"
//
// Maps are indexed one of two ways, chosen at encode time by comparing the
// key count against EncodeOptions.PHFThreshold:
//
//   - Below the threshold, keys are laid out in Eytzinger order (the
//     level-order traversal of an implicit binary search tree) so that
//     binary search over the descriptor array is branch-predictor and
//     cache friendly.
//   - At or above the threshold, keys are indexed with a minimal perfect
//     hash built by the Compress-Hash-Displace (CHD) construction, keyed
//     with SipHash-1-3. Lookup costs one hash, one indirection through a
//     displacement table, and one confirmatory key compare.
//
// Encode is a pure, deterministic function of its input: the same value
// and options always produce the same bytes. Decode has two forms: View
// parses only the element header at the start of a byte slice and returns a TypedView
// that borrows the source slice without copying it; Decode walks the full
// tree and rebuilds it as a Value.
package sbson
