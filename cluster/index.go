package cluster

import (
	"math"
	"sort"
)

// EstimatedPointsPerCell is used for initial grid capacity estimation.
const EstimatedPointsPerCell = 4

// NeighborIndex answers fixed-radius neighbor queries over a point set that
// does not change after the index is built. Implementations are read-only
// after construction and safe for concurrent queries.
type NeighborIndex interface {
	// Neighbors returns the indices of every point within eps of point i,
	// measured by Euclidean distance with the boundary included. The result
	// is in ascending index order and always contains i itself.
	Neighbors(i int, eps float64) []int
}

// GridIndex is a uniform-grid spatial index. Cell size should match the
// query radius so that a query only has to visit the 3x3 block of cells
// around the query point.
type GridIndex struct {
	xs, ys   []float64
	cellSize float64
	grid     map[int64][]int
}

// NewGridIndex builds a grid index over the given coordinates with the
// specified cell size. Point indices within a cell are stored in ascending
// order.
func NewGridIndex(xs, ys []float64, cellSize float64) *GridIndex {
	gi := &GridIndex{
		xs:       xs,
		ys:       ys,
		cellSize: cellSize,
		grid:     make(map[int64][]int, len(xs)/EstimatedPointsPerCell+1),
	}
	for i := range xs {
		id := pairCell(gi.cellOf(xs[i]), gi.cellOf(ys[i]))
		gi.grid[id] = append(gi.grid[id], i)
	}
	return gi
}

func (gi *GridIndex) cellOf(v float64) int64 {
	return int64(math.Floor(v / gi.cellSize))
}

// pairCell maps a signed cell coordinate pair to a unique map key using
// zigzag encoding followed by Szudzik's pairing function.
func pairCell(cellX, cellY int64) int64 {
	var a, b int64
	if cellX >= 0 {
		a = 2 * cellX
	} else {
		a = -2*cellX - 1
	}
	if cellY >= 0 {
		b = 2 * cellY
	} else {
		b = -2*cellY - 1
	}
	if a >= b {
		return a*a + a + b
	}
	return a + b*b
}

// Neighbors implements NeighborIndex.
func (gi *GridIndex) Neighbors(i int, eps float64) []int {
	return gi.NeighborsOf(gi.xs[i], gi.ys[i], eps)
}

// NeighborsOf returns the indices of every indexed point within eps of the
// arbitrary query position (x, y), boundary included, in ascending order.
// The query position does not need to be one of the indexed points.
func (gi *GridIndex) NeighborsOf(x, y float64, eps float64) []int {
	eps2 := eps * eps
	cellX := gi.cellOf(x)
	cellY := gi.cellOf(y)

	var neighbors []int
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for _, cand := range gi.grid[pairCell(cellX+dx, cellY+dy)] {
				ddx := gi.xs[cand] - x
				ddy := gi.ys[cand] - y
				if ddx*ddx+ddy*ddy <= eps2 {
					neighbors = append(neighbors, cand)
				}
			}
		}
	}
	// Cells are visited in grid order, not point order; restore the
	// ascending-index ordering the expansion loop depends on.
	sort.Ints(neighbors)
	return neighbors
}

// Len returns the number of indexed points.
func (gi *GridIndex) Len() int { return len(gi.xs) }

// Verify at compile time that *GridIndex implements NeighborIndex.
var _ NeighborIndex = (*GridIndex)(nil)
