package cluster

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/banshee-data/tracklet/internal/pointgen"
)

// The six-point arrangement from the astrometry regression suite: four
// points near (1, 4) form one cluster, the two outliers stay noise.
var (
	sixXs = []float64{1, 2, 3, 1, 1, 1}
	sixYs = []float64{4, 5, 6, 4.1, 3.9, 3.8}
)

func TestFindClusters_SingleCluster(t *testing.T) {
	result, err := FindClusters(sixXs, sixYs, 1.0, 4)
	if err != nil {
		t.Fatalf("FindClusters: %v", err)
	}

	want := [][]int{{0, 3, 4, 5}}
	if diff := cmp.Diff(want, result.Clusters()); diff != "" {
		t.Errorf("clusters mismatch (-want +got):\n%s", diff)
	}
}

func TestFindClusters_LabelArray(t *testing.T) {
	result, err := FindClusters(sixXs, sixYs, 1.0, 4)
	if err != nil {
		t.Fatalf("FindClusters: %v", err)
	}

	want := []int{0, -1, -1, 0, 0, 0}
	if diff := cmp.Diff(want, result.Labels()); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	if result.NumClusters() != 1 {
		t.Errorf("NumClusters() = %d, want 1", result.NumClusters())
	}
}

func TestFindClusters_TwoClusters(t *testing.T) {
	// Two tight groups separated by more than eps.
	xs := []float64{1, 1, 1, 1, 2.5, 2.5, 2.5, 2.5}
	ys := []float64{0, 0, 0, 0, 0, 0, 0, 0}

	for _, minSize := range []int{2, 4} {
		result, err := FindClusters(xs, ys, 1.0, minSize)
		if err != nil {
			t.Fatalf("FindClusters(minSize=%d): %v", minSize, err)
		}
		want := []int{0, 0, 0, 0, 1, 1, 1, 1}
		if diff := cmp.Diff(want, result.Labels()); diff != "" {
			t.Errorf("minSize=%d labels mismatch (-want +got):\n%s", minSize, diff)
		}
	}
}

func TestFindClusters_MinSizeLargerThanInput(t *testing.T) {
	result, err := FindClusters(sixXs, sixYs, 1.0, len(sixXs)+1)
	if err != nil {
		t.Fatalf("FindClusters: %v", err)
	}
	if result.NumClusters() != 0 {
		t.Errorf("NumClusters() = %d, want 0", result.NumClusters())
	}
	for i, l := range result.Labels() {
		if l != Noise {
			t.Errorf("label[%d] = %d, want noise", i, l)
		}
	}
}

func TestFindClusters_AllWithinEps(t *testing.T) {
	xs := []float64{0, 0.01, 0.02, 0.03, 0.04}
	ys := []float64{0, 0.01, 0, 0.01, 0}

	result, err := FindClusters(xs, ys, 1.0, 1)
	if err != nil {
		t.Fatalf("FindClusters: %v", err)
	}
	want := [][]int{{0, 1, 2, 3, 4}}
	if diff := cmp.Diff(want, result.Clusters()); diff != "" {
		t.Errorf("clusters mismatch (-want +got):\n%s", diff)
	}
}

func TestFindClusters_BoundaryDistanceIncluded(t *testing.T) {
	// Exactly eps apart: the neighborhood is a closed interval, so these
	// two points must see each other.
	xs := []float64{0, 1}
	ys := []float64{0, 0}

	result, err := FindClusters(xs, ys, 1.0, 2)
	if err != nil {
		t.Fatalf("FindClusters: %v", err)
	}
	want := []int{0, 0}
	if diff := cmp.Diff(want, result.Labels()); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestFindClusters_EmptyInput(t *testing.T) {
	result, err := FindClusters(nil, nil, 1.0, 4)
	if err != nil {
		t.Fatalf("FindClusters: %v", err)
	}
	if result.Len() != 0 || result.NumClusters() != 0 {
		t.Errorf("Len()=%d NumClusters()=%d, want 0, 0", result.Len(), result.NumClusters())
	}
	if len(result.Clusters()) != 0 {
		t.Errorf("Clusters() = %v, want empty", result.Clusters())
	}
}

func TestFindClusters_ConfigurationErrors(t *testing.T) {
	xs := []float64{0, 1}
	ys := []float64{0, 1}

	tests := []struct {
		name string
		run  func() (*Result, error)
		want error
	}{
		{"zero eps", func() (*Result, error) { return FindClusters(xs, ys, 0, 2) }, ErrInvalidEps},
		{"negative eps", func() (*Result, error) { return FindClusters(xs, ys, -1, 2) }, ErrInvalidEps},
		{"NaN eps", func() (*Result, error) { return FindClusters(xs, ys, math.NaN(), 2) }, ErrInvalidEps},
		{"infinite eps", func() (*Result, error) { return FindClusters(xs, ys, math.Inf(1), 2) }, ErrInvalidEps},
		{"zero min size", func() (*Result, error) { return FindClusters(xs, ys, 1, 0) }, ErrInvalidMinClusterSize},
		{"length mismatch", func() (*Result, error) { return FindClusters(xs, ys[:1], 1, 2) }, ErrLengthMismatch},
		{"NaN coordinate", func() (*Result, error) { return FindClusters([]float64{0, math.NaN()}, ys, 1, 2) }, ErrNonFiniteCoordinate},
		{"infinite coordinate", func() (*Result, error) { return FindClusters(xs, []float64{0, math.Inf(-1)}, 1, 2) }, ErrNonFiniteCoordinate},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := tc.run()
			if !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
			if result != nil {
				t.Errorf("result = %v, want nil on configuration error", result)
			}
		})
	}
}

func TestFindClusters_Deterministic(t *testing.T) {
	xs, ys := pointgen.Cloud(7, []pointgen.Blob{
		{X: 0, Y: 0, Sigma: 0.05, N: 50},
		{X: 3, Y: 3, Sigma: 0.05, N: 50},
	}, 100, 10)

	first, err := FindClusters(xs, ys, 0.2, 5)
	if err != nil {
		t.Fatalf("FindClusters: %v", err)
	}
	for run := 0; run < 3; run++ {
		again, err := FindClusters(xs, ys, 0.2, 5)
		if err != nil {
			t.Fatalf("FindClusters: %v", err)
		}
		if diff := cmp.Diff(first.Labels(), again.Labels()); diff != "" {
			t.Fatalf("run %d labels differ (-first +again):\n%s", run, diff)
		}
	}
}

func TestFindClusters_GridAndKDTreeAgree(t *testing.T) {
	// Both index backends feed the same expansion in the same order, so
	// the labels must be identical, not merely equivalent.
	xs, ys := pointgen.Cloud(11, []pointgen.Blob{
		{X: -2, Y: 1, Sigma: 0.1, N: 80},
		{X: 2, Y: -1, Sigma: 0.1, N: 60},
		{X: 0, Y: 4, Sigma: 0.3, N: 40},
	}, 150, 8)

	grid, err := FindClustersWith(xs, ys, Params{Eps: 0.25, MinClusterSize: 5, Algorithm: DBSCAN})
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	tree, err := FindClustersWith(xs, ys, Params{Eps: 0.25, MinClusterSize: 5, Algorithm: DBSCANKDTree})
	if err != nil {
		t.Fatalf("kdtree: %v", err)
	}
	if diff := cmp.Diff(grid.Labels(), tree.Labels()); diff != "" {
		t.Errorf("backends disagree (-grid +kdtree):\n%s", diff)
	}
}

func TestFindClusters_PartitionProperties(t *testing.T) {
	xs, ys := pointgen.Cloud(23, []pointgen.Blob{
		{X: 0, Y: 0, Sigma: 0.1, N: 40},
		{X: 5, Y: 5, Sigma: 0.1, N: 30},
		{X: -5, Y: 2, Sigma: 0.2, N: 20},
	}, 200, 10)
	const minSize = 6

	result, err := FindClusters(xs, ys, 0.3, minSize)
	if err != nil {
		t.Fatalf("FindClusters: %v", err)
	}

	labels := result.Labels()
	k := result.NumClusters()
	for i, l := range labels {
		if l != Noise && (l < 0 || l >= k) {
			t.Fatalf("label[%d] = %d outside [0, %d)", i, l, k)
		}
	}

	seen := make(map[int]bool)
	clusters := result.Clusters()
	if len(clusters) != k {
		t.Fatalf("len(Clusters()) = %d, want %d", len(clusters), k)
	}
	for id, members := range clusters {
		if len(members) < minSize {
			t.Errorf("cluster %d has %d members, below minimum %d", id, len(members), minSize)
		}
		for j, m := range members {
			if j > 0 && members[j-1] >= m {
				t.Errorf("cluster %d members not strictly ascending at %d", id, j)
			}
			if seen[m] {
				t.Errorf("point %d appears in more than one cluster", m)
			}
			seen[m] = true
			if labels[m] != id {
				t.Errorf("point %d: label %d but listed in cluster %d", m, labels[m], id)
			}
		}
	}
	for i, l := range labels {
		if l != Noise && !seen[i] {
			t.Errorf("point %d labeled %d but missing from Clusters()", i, l)
		}
	}
}

func TestFindClusters_EpsMonotonicity(t *testing.T) {
	xs, ys := pointgen.Cloud(5, []pointgen.Blob{
		{X: 0, Y: 0, Sigma: 0.2, N: 30},
		{X: 1.5, Y: 0, Sigma: 0.2, N: 30},
	}, 20, 5)

	epsValues := []float64{0.2, 0.4, 0.8}
	var prev *Result
	for _, eps := range epsValues {
		result, err := FindClusters(xs, ys, eps, 4)
		if err != nil {
			t.Fatalf("FindClusters(eps=%g): %v", eps, err)
		}
		if prev != nil {
			// Growing eps may merge clusters or absorb noise, but never
			// split: any pair sharing a cluster keeps sharing one.
			for i := 0; i < len(xs); i++ {
				for j := i + 1; j < len(xs); j++ {
					if prev.Label(i) != Noise && prev.Label(i) == prev.Label(j) {
						if result.Label(i) == Noise || result.Label(i) != result.Label(j) {
							t.Fatalf("eps=%g split pair (%d, %d) that shared a cluster at smaller eps", eps, i, j)
						}
					}
				}
			}
			prevNoise := countNoise(prev.Labels())
			currNoise := countNoise(result.Labels())
			if currNoise > prevNoise {
				t.Errorf("eps=%g increased noise count %d -> %d", eps, prevNoise, currNoise)
			}
		}
		prev = result
	}
}

func countNoise(labels []int) int {
	n := 0
	for _, l := range labels {
		if l == Noise {
			n++
		}
	}
	return n
}

func TestHotspot2D_NearMissStaysNoise(t *testing.T) {
	// Three points in one cell plus a straggler never reach the density
	// threshold; the four-point cell does.
	xs := []float64{1, 1, 1, 1, 2, 2, 2, 2}
	ys := []float64{0, 0, 0, 1, 0, 0, 0, 0}

	result, err := FindClustersWith(xs, ys, Params{Eps: 1.0, MinClusterSize: 4, Algorithm: Hotspot2D})
	if err != nil {
		t.Fatalf("FindClustersWith: %v", err)
	}
	want := []int{-1, -1, -1, -1, 0, 0, 0, 0}
	if diff := cmp.Diff(want, result.Labels()); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestHotspot2D_OffsetPassCatchesBoundaryCluster(t *testing.T) {
	// A dense group straddling a cell boundary is invisible to the
	// unshifted pass but caught by a half-cell offset.
	xs := []float64{0.48, 0.49, 0.51, 0.52}
	ys := []float64{0, 0, 0, 0}

	result, err := FindClustersWith(xs, ys, Params{Eps: 1.0, MinClusterSize: 4, Algorithm: Hotspot2D})
	if err != nil {
		t.Fatalf("FindClustersWith: %v", err)
	}
	want := [][]int{{0, 1, 2, 3}}
	if diff := cmp.Diff(want, result.Clusters()); diff != "" {
		t.Errorf("clusters mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultParams_Valid(t *testing.T) {
	if err := DefaultParams().Validate(); err != nil {
		t.Errorf("DefaultParams().Validate() = %v", err)
	}
}

func TestParseAlgorithm(t *testing.T) {
	for _, alg := range []Algorithm{DBSCAN, DBSCANKDTree, Hotspot2D} {
		got, err := ParseAlgorithm(alg.String())
		if err != nil {
			t.Errorf("ParseAlgorithm(%q): %v", alg.String(), err)
		}
		if got != alg {
			t.Errorf("ParseAlgorithm(%q) = %v, want %v", alg.String(), got, alg)
		}
	}
	if _, err := ParseAlgorithm("kmeans"); err == nil {
		t.Error("ParseAlgorithm(kmeans) succeeded, want error")
	}
}
