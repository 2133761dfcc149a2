package cluster

import "sort"

// KDTree is a 2D KD-tree neighbor index stored in flat slices. It answers
// the same closed-boundary radius queries as GridIndex without tying the
// structure to a particular radius, at the cost of a heavier build.
type KDTree struct {
	xs, ys []float64
	nodes  []kdNode
	root   int32
}

type kdNode struct {
	point       int32
	left, right int32 // -1 when absent
	axis        uint8 // 0 = x, 1 = y
}

// NewKDTree builds a balanced KD-tree over the given coordinates by
// recursive median split.
func NewKDTree(xs, ys []float64) *KDTree {
	t := &KDTree{
		xs:    xs,
		ys:    ys,
		nodes: make([]kdNode, 0, len(xs)),
		root:  -1,
	}
	idxs := make([]int32, len(xs))
	for i := range idxs {
		idxs[i] = int32(i)
	}
	t.root = t.build(idxs, 0)
	return t
}

func (t *KDTree) coord(i int32, axis uint8) float64 {
	if axis == 0 {
		return t.xs[i]
	}
	return t.ys[i]
}

func (t *KDTree) build(idxs []int32, depth int) int32 {
	if len(idxs) == 0 {
		return -1
	}
	axis := uint8(depth % 2)
	// Ties broken by point index so the tree shape is reproducible.
	sort.Slice(idxs, func(a, b int) bool {
		ca, cb := t.coord(idxs[a], axis), t.coord(idxs[b], axis)
		if ca != cb {
			return ca < cb
		}
		return idxs[a] < idxs[b]
	})
	median := len(idxs) / 2

	node := int32(len(t.nodes))
	t.nodes = append(t.nodes, kdNode{point: idxs[median], axis: axis, left: -1, right: -1})

	left := t.build(idxs[:median], depth+1)
	right := t.build(idxs[median+1:], depth+1)
	t.nodes[node].left = left
	t.nodes[node].right = right
	return node
}

// Neighbors implements NeighborIndex.
func (t *KDTree) Neighbors(i int, eps float64) []int {
	return t.NeighborsOf(t.xs[i], t.ys[i], eps)
}

// NeighborsOf returns the indices of every indexed point within eps of
// (x, y), boundary included, in ascending order.
func (t *KDTree) NeighborsOf(x, y float64, eps float64) []int {
	var neighbors []int
	t.search(t.root, x, y, eps, eps*eps, &neighbors)
	sort.Ints(neighbors)
	return neighbors
}

func (t *KDTree) search(node int32, x, y, eps, eps2 float64, out *[]int) {
	if node < 0 {
		return
	}
	n := t.nodes[node]
	px := t.xs[n.point]
	py := t.ys[n.point]

	dx := px - x
	dy := py - y
	if dx*dx+dy*dy <= eps2 {
		*out = append(*out, int(n.point))
	}

	var qc, pc float64
	if n.axis == 0 {
		qc, pc = x, px
	} else {
		qc, pc = y, py
	}
	if qc-eps <= pc {
		t.search(n.left, x, y, eps, eps2, out)
	}
	if qc+eps >= pc {
		t.search(n.right, x, y, eps, eps2, out)
	}
}

// Len returns the number of indexed points.
func (t *KDTree) Len() int { return len(t.xs) }

var _ NeighborIndex = (*KDTree)(nil)
