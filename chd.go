// chd.go - minimal perfect hashing via Compress-Hash-Displace
//
// This is the CHD construction from http://cmph.sourceforge.net/papers/esa09.pdf
// specialized for the perfect-hash map element: the first-level hash 'g'
// picks a bucket, and a per-bucket displacement pair (d1, d2) perturbs
// the second-level hashes (f1, f2) until every key in the bucket lands
// in a free slot. The table is minimal: exactly n slots for n keys.

package sbson

import (
	"sort"
)

const (
	// average bucket size (the paper's lambda)
	_Lambda = 5

	// first seed tried when building a perfect-hash map; the builder
	// increments from here on every failed construction attempt
	_FirstSeed uint32 = 0x500

	// number of seeds tried before the encoder gives up
	_MaxSeedAttempts = 1000

	// displacement search space per component; d1 and d2 each range
	// over [0, min(_MaxDisp, n))
	_MaxDisp uint32 = 65535
)

// chdIndex is a frozen minimal perfect hash over a map's key set. It is
// exactly what the CHD map element records on the wire: the seed that
// keyed the hashes, one displacement pair per bucket, and the slot
// assignment connecting hash output back to the sorted key list.
type chdIndex struct {
	seed uint32

	// displacement pair (d1, d2) per bucket, indexed by the bucket's
	// original number (g mod bucketCount), not its placement order
	disps [][2]uint32

	// slotOf[s] is the index into the sorted key list of the key that
	// hashes to slot s
	slotOf []uint32
}

type chdBucket struct {
	index uint32
	keys  []uint32 // indices into the sorted key list
}

// buildCHD constructs a minimal perfect hash over keys, retrying with
// incremented seeds until a construction succeeds or the seed budget is
// exhausted. The search is deterministic: the same key list always
// yields the same index, and therefore the same bytes on the wire.
func buildCHD(keys []string) (*chdIndex, error) {
	seed := _FirstSeed
	for i := 0; i < _MaxSeedAttempts; i++ {
		if idx := tryBuildCHD(keys, seed); idx != nil {
			return idx, nil
		}
		seed++
	}
	return nil, ErrPHFBuildExhausted
}

// tryBuildCHD attempts one CHD construction under a single seed.
// Returns nil if some bucket could not be placed within the
// displacement search space.
func tryBuildCHD(keys []string, seed uint32) *chdIndex {
	n := len(keys)
	nbuckets := (n + _Lambda - 1) / _Lambda
	if n == 0 {
		return &chdIndex{seed: seed}
	}

	type keyHash struct {
		g, f1, f2 uint32
	}
	hs := make([]keyHash, n)
	for i, k := range keys {
		g, f1, f2 := chdHash(seed, []byte(k))
		hs[i] = keyHash{g, f1, f2}
	}

	buckets := make([]chdBucket, nbuckets)
	for i := range buckets {
		buckets[i].index = uint32(i)
	}
	for i := range hs {
		b := &buckets[hs[i].g%uint32(nbuckets)]
		b.keys = append(b.keys, uint32(i))
	}

	// Place the most constrained (largest) buckets first. The sort must
	// be stable: equal-sized buckets keep their bucket-number order so
	// construction stays deterministic for a given key set.
	sort.SliceStable(buckets, func(i, j int) bool {
		return len(buckets[i].keys) > len(buckets[j].keys)
	})

	dmax := _MaxDisp
	if uint32(n) < dmax {
		dmax = uint32(n)
	}

	var (
		occ    = newBitVector(uint64(n))      // slots committed by prior buckets
		tryMap = make([]uint64, n)            // generation stamps, never cleared
		slots  = make([]uint32, 0, 2*_Lambda) // slots claimed by the current attempt
		slotOf = make([]uint32, n)
		disps  = make([][2]uint32, nbuckets)
		gen    uint64
	)

	for bi := range buckets {
		b := &buckets[bi]
		placed := false

	search:
		for d1 := uint32(0); d1 < dmax; d1++ {
			for d2 := uint32(0); d2 < dmax; d2++ {
				// A fresh generation stamp makes tryMap empty again
				// without clearing it; this loop is the hot path of
				// the whole encoder.
				gen++
				slots = slots[:0]
				ok := true
				for _, ki := range b.keys {
					h := &hs[ki]
					slot := displace(h.f1, h.f2, d1, d2) % uint32(n)
					if occ.IsSet(uint64(slot)) || tryMap[slot] == gen {
						ok = false
						break
					}
					tryMap[slot] = gen
					slots = append(slots, slot)
				}
				if !ok {
					continue
				}

				disps[b.index] = [2]uint32{d1, d2}
				for j, slot := range slots {
					occ.Set(uint64(slot))
					slotOf[slot] = b.keys[j]
				}
				placed = true
				break search
			}
		}
		if !placed {
			return nil
		}
	}

	return &chdIndex{seed: seed, disps: disps, slotOf: slotOf}
}

// displace maps a key's second-level hashes through a bucket's
// displacement pair: (f1*d1 + d2 + f2) mod 2^32. uint32 arithmetic
// gives the wrap-around at every step; the caller reduces the result
// modulo the table length.
func displace(f1, f2, d1, d2 uint32) uint32 {
	return f1*d1 + d2 + f2
}

// bucketCount returns the number of CHD buckets for an n-key map.
func bucketCount(n int) int {
	return (n + _Lambda - 1) / _Lambda
}
