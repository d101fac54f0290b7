package nasbench

import (
	"crypto/md5"
	"fmt"
	"sort"
	"strings"
)

// Labels used in place of interior op indices when hashing.
const (
	inputLabel  = -1
	outputLabel = -2
)

// Hash computes an isomorphism-invariant fingerprint of the pruned graph,
// used as the lookup key into the tabular dataset. Two specs that differ only
// by a permutation of their interior vertices hash identically.
//
// The fingerprint is an iterative neighborhood hash: every vertex starts from
// (out-degree, in-degree, op label) and is re-hashed for |V| rounds together
// with the sorted hashes of its in- and out-neighbors, then the sorted final
// hashes are hashed once more.
func (s *ModelSpec) Hash() string {
	if !s.valid {
		return ""
	}

	n := len(s.Matrix)
	labeling := make([]int, n)
	for i, op := range s.Ops {
		switch op {
		case OpInput:
			labeling[i] = inputLabel
		case OpOutput:
			labeling[i] = outputLabel
		default:
			labeling[i] = opIndex(op)
		}
	}

	hashes := make([]string, n)
	for v := 0; v < n; v++ {
		inDeg, outDeg := 0, 0
		for u := 0; u < n; u++ {
			inDeg += s.Matrix[u][v]
			outDeg += s.Matrix[v][u]
		}
		hashes[v] = md5hex(fmt.Sprintf("(%d,%d,%d)", outDeg, inDeg, labeling[v]))
	}

	for round := 0; round < n; round++ {
		next := make([]string, n)
		for v := 0; v < n; v++ {
			var in, out []string
			for u := 0; u < n; u++ {
				if s.Matrix[u][v] == 1 {
					in = append(in, hashes[u])
				}
				if s.Matrix[v][u] == 1 {
					out = append(out, hashes[u])
				}
			}
			sort.Strings(in)
			sort.Strings(out)
			next[v] = md5hex(fmt.Sprintf("(%s|%s|%s)",
				strings.Join(in, ","), strings.Join(out, ","), hashes[v]))
		}
		hashes = next
	}

	sort.Strings(hashes)
	return md5hex(strings.Join(hashes, "|"))
}

func opIndex(op string) int {
	for i, o := range AllowedOps {
		if o == op {
			return i
		}
	}
	return len(AllowedOps) // unknown op, still hashes deterministically
}

func md5hex(s string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(s)))
}
