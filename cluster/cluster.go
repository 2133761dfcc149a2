package cluster

import (
	"fmt"
	"math"
)

// Algorithm selects the clustering strategy.
type Algorithm int

const (
	// DBSCAN is density-reachability expansion over the uniform-grid index.
	// This is the default and the reference semantics for the package.
	DBSCAN Algorithm = iota
	// DBSCANKDTree runs the same expansion over a KD-tree index. Output is
	// identical to DBSCAN; the build/query cost profile differs.
	DBSCANKDTree
	// Hotspot2D is the quantized-histogram approximation. Cheaper, but only
	// finds clusters that fit within one (shifted) grid cell.
	Hotspot2D
)

// String returns the flag-style name of the algorithm.
func (a Algorithm) String() string {
	switch a {
	case DBSCAN:
		return "dbscan"
	case DBSCANKDTree:
		return "dbscan-kdtree"
	case Hotspot2D:
		return "hotspot2d"
	default:
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
}

// ParseAlgorithm converts a flag-style name into an Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch name {
	case "dbscan":
		return DBSCAN, nil
	case "dbscan-kdtree":
		return DBSCANKDTree, nil
	case "hotspot2d":
		return Hotspot2D, nil
	default:
		return 0, fmt.Errorf("unknown clustering algorithm %q", name)
	}
}

// Params contains the clustering parameters.
type Params struct {
	// Eps is the neighborhood radius. Two points at distance exactly Eps
	// are neighbors (closed boundary).
	Eps float64
	// MinClusterSize is the minimum number of points, including the seed,
	// required to form a cluster.
	MinClusterSize int
	// Algorithm selects the strategy; the zero value is DBSCAN.
	Algorithm Algorithm
}

// DefaultParams returns the parameters the pipeline tooling starts from:
// DBSCAN over the grid index, eps 0.02, clusters of at least 4 points.
func DefaultParams() Params {
	return Params{Eps: 0.02, MinClusterSize: 4, Algorithm: DBSCAN}
}

// Validate reports the first configuration problem, or nil.
func (p Params) Validate() error {
	if !(p.Eps > 0) || math.IsInf(p.Eps, 0) {
		return fmt.Errorf("eps=%v: %w", p.Eps, ErrInvalidEps)
	}
	if p.MinClusterSize < 1 {
		return fmt.Errorf("min cluster size=%d: %w", p.MinClusterSize, ErrInvalidMinClusterSize)
	}
	return nil
}

// Result holds the cluster assignment for one FindClusters call. The same
// internal state backs both public views: the dense label array and the
// nested member-index lists.
type Result struct {
	labels      []int
	numClusters int
}

// Len returns the number of input points.
func (r *Result) Len() int { return len(r.labels) }

// NumClusters returns the number of clusters found.
func (r *Result) NumClusters() int { return r.numClusters }

// Labels returns the per-point label array: members carry their cluster ID
// (dense, 0-based, in discovery order) and noise points carry Noise. The
// returned slice is owned by the Result; callers must not modify it.
func (r *Result) Labels() []int { return r.labels }

// Label returns the cluster ID of point i, or Noise.
func (r *Result) Label(i int) int { return r.labels[i] }

// Clusters returns the alternate view: one ascending list of member point
// indices per cluster, ordered by cluster ID. Noise points appear in no
// list. The lists are built fresh on each call.
func (r *Result) Clusters() [][]int {
	clusters := make([][]int, r.numClusters)
	for i, l := range r.labels {
		if l != Noise {
			clusters[l] = append(clusters[l], i)
		}
	}
	return clusters
}

// Noise is the label carried by points that belong to no cluster.
const Noise = -1

// FindClusters groups points by spatial proximity using DBSCAN and returns
// the assignment. xs and ys are parallel coordinate slices; eps is the
// neighborhood radius and minClusterSize the density threshold.
func FindClusters(xs, ys []float64, eps float64, minClusterSize int) (*Result, error) {
	return FindClustersWith(xs, ys, Params{Eps: eps, MinClusterSize: minClusterSize})
}

// FindClustersWith is FindClusters with full parameter control.
func FindClustersWith(xs, ys []float64, p Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("len(xs)=%d len(ys)=%d: %w", len(xs), len(ys), ErrLengthMismatch)
	}
	if err := checkFinite(xs, ys); err != nil {
		return nil, err
	}
	if len(xs) == 0 {
		return &Result{labels: []int{}}, nil
	}

	var labels []int
	switch p.Algorithm {
	case Hotspot2D:
		labels = hotspot2DLabels(xs, ys, p.Eps, p.MinClusterSize)
	case DBSCANKDTree:
		labels, _ = dbscanLabels(len(xs), NewKDTree(xs, ys), p.Eps, p.MinClusterSize)
	default:
		labels, _ = dbscanLabels(len(xs), NewGridIndex(xs, ys, p.Eps), p.Eps, p.MinClusterSize)
	}

	numClusters := normalizeLabels(labels, p.MinClusterSize)
	return &Result{labels: labels, numClusters: numClusters}, nil
}

func checkFinite(xs, ys []float64) error {
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsInf(xs[i], 0) {
			return fmt.Errorf("xs[%d]=%v: %w", i, xs[i], ErrNonFiniteCoordinate)
		}
		if math.IsNaN(ys[i]) || math.IsInf(ys[i], 0) {
			return fmt.Errorf("ys[%d]=%v: %w", i, ys[i], ErrNonFiniteCoordinate)
		}
	}
	return nil
}
