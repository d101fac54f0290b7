package nasbench

import (
	"fmt"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
)

// Operation labels used by the NAS-Bench-101 search space
const (
	OpInput      = "input"
	OpOutput     = "output"
	OpConv3x3    = "conv3x3-bn-relu"
	OpConv1x1    = "conv1x1-bn-relu"
	OpMaxPool3x3 = "maxpool3x3"
)

// Search space limits
const (
	NumVertices = 7               // vertices per cell
	MaxEdges    = 9               // max edges per cell
	OpSpots     = NumVertices - 2 // interior vertices (input/output are fixed)
)

// AllowedOps lists the operations an interior vertex may take.
var AllowedOps = []string{OpConv3x3, OpConv1x1, OpMaxPool3x3}

// ModelSpec represents one architecture cell: an upper-triangular binary
// adjacency matrix over the cell's vertices plus a per-vertex operation label.
// The original matrix/ops are kept as supplied; the pruned form has every
// vertex removed that does not lie on a path from the input vertex to the
// output vertex. A spec whose pruning disconnects input from output is
// marked invalid and has no pruned form.
type ModelSpec struct {
	OriginalMatrix [][]int  `json:"original_matrix"`
	OriginalOps    []string `json:"original_ops"`
	Matrix         [][]int  `json:"matrix"` // pruned
	Ops            []string `json:"ops"`    // pruned

	valid bool
}

// NewModelSpec validates the raw matrix/ops pair and computes the pruned form.
// An error is returned only for malformed input (non-square matrix, non-binary
// entries, lower-triangular edges, mismatched ops length); a well-formed but
// disconnected spec is returned with Valid() == false.
func NewModelSpec(matrix [][]int, ops []string) (*ModelSpec, error) {
	n := len(matrix)
	if n == 0 {
		return nil, fmt.Errorf("empty adjacency matrix")
	}
	for i, row := range matrix {
		if len(row) != n {
			return nil, fmt.Errorf("matrix must be square: row %d has %d entries, want %d", i, len(row), n)
		}
		for j, v := range row {
			if v != 0 && v != 1 {
				return nil, fmt.Errorf("matrix entries must be binary: matrix[%d][%d] = %d", i, j, v)
			}
			if v == 1 && j <= i {
				return nil, fmt.Errorf("matrix must be strictly upper-triangular: edge %d->%d", i, j)
			}
		}
	}
	if len(ops) != n {
		return nil, fmt.Errorf("ops length %d does not match %d vertices", len(ops), n)
	}

	spec := &ModelSpec{
		OriginalMatrix: copyMatrix(matrix),
		OriginalOps:    copyOps(ops),
	}
	spec.prune()
	return spec, nil
}

// Valid reports whether pruning kept a path from input to output.
func (s *ModelSpec) Valid() bool { return s.valid }

// NumEdges returns the edge count of the pruned matrix.
func (s *ModelSpec) NumEdges() int {
	count := 0
	for _, row := range s.Matrix {
		for _, v := range row {
			count += v
		}
	}
	return count
}

// Copy creates a deep copy of the spec.
func (s *ModelSpec) Copy() *ModelSpec {
	clone := &ModelSpec{
		OriginalMatrix: copyMatrix(s.OriginalMatrix),
		OriginalOps:    copyOps(s.OriginalOps),
		valid:          s.valid,
	}
	if s.Matrix != nil {
		clone.Matrix = copyMatrix(s.Matrix)
		clone.Ops = copyOps(s.Ops)
	}
	return clone
}

// prune removes vertices unreachable from the input vertex or unable to reach
// the output vertex. Reachability runs over a gonum directed graph in both
// directions; the intersection of the two visited sets survives.
func (s *ModelSpec) prune() {
	n := len(s.OriginalMatrix)

	forward := simple.NewDirectedGraph()
	backward := simple.NewDirectedGraph()
	for i := 0; i < n; i++ {
		forward.AddNode(simple.Node(i))
		backward.AddNode(simple.Node(i))
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if s.OriginalMatrix[i][j] == 1 {
				forward.SetEdge(forward.NewEdge(simple.Node(i), simple.Node(j)))
				backward.SetEdge(backward.NewEdge(simple.Node(j), simple.Node(i)))
			}
		}
	}

	fromInput := reachable(forward, 0)
	fromOutput := reachable(backward, int64(n-1))

	if !fromInput[int64(n-1)] {
		// No path from input to output: nothing meaningful survives pruning.
		s.Matrix = nil
		s.Ops = nil
		s.valid = false
		return
	}

	keep := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if fromInput[int64(i)] && fromOutput[int64(i)] {
			keep = append(keep, i)
		}
	}

	pruned := make([][]int, len(keep))
	ops := make([]string, len(keep))
	for pi, i := range keep {
		pruned[pi] = make([]int, len(keep))
		ops[pi] = s.OriginalOps[i]
		for pj, j := range keep {
			pruned[pi][pj] = s.OriginalMatrix[i][j]
		}
	}

	s.Matrix = pruned
	s.Ops = ops
	s.valid = true
}

func reachable(g graph.Directed, from int64) map[int64]bool {
	visited := make(map[int64]bool)
	bf := traverse.BreadthFirst{}
	bf.Walk(g, g.Node(from), func(node graph.Node, _ int) bool {
		visited[node.ID()] = true
		return false
	})
	return visited
}

func copyMatrix(m [][]int) [][]int {
	out := make([][]int, len(m))
	for i, row := range m {
		out[i] = make([]int, len(row))
		copy(out[i], row)
	}
	return out
}

func copyOps(ops []string) []string {
	out := make([]string, len(ops))
	copy(out, ops)
	return out
}
