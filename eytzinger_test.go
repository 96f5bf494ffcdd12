// eytzinger_test.go - tests for the implicit-binary-tree layout

package sbson

import (
	"sort"
	"testing"
)

func TestEytzingerInOrder(t *testing.T) {
	assert := newAsserter(t)

	for n := 0; n <= 64; n++ {
		e := eytzingerOrder(n)
		assert(len(e) == n, "n %d: len %d", n, len(e))

		// in-order traversal of the implicit tree must visit the
		// sorted indices in ascending order
		var seen []uint32
		var visit func(k int)
		visit = func(k int) {
			if k > n {
				return
			}
			visit(2 * k)
			seen = append(seen, e[k-1])
			visit(2*k + 1)
		}
		visit(1)

		for i, v := range seen {
			assert(int(v) == i, "n %d: in-order position %d holds %d", n, i, v)
		}
	}
}

func TestEytzingerSearch(t *testing.T) {
	assert := newAsserter(t)

	words := append([]string{}, keyw...)
	sort.Strings(words)

	n := len(words)
	laid := make([]string, n)
	for pos, si := range eytzingerOrder(n) {
		laid[pos] = words[si]
	}

	search := func(q string) bool {
		k := 1
		for k <= n {
			c := cmpKey(q, []byte(laid[k-1]))
			if c == 0 {
				return true
			}
			if c < 0 {
				k = 2 * k
			} else {
				k = 2*k + 1
			}
		}
		return false
	}

	for _, w := range words {
		assert(search(w), "key %s not found", w)
	}
	for _, w := range []string{"", "aardvark", "zzz", "expectoratio", "expectorations"} {
		assert(!search(w), "phantom key %s found", w)
	}
}
