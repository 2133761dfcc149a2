// Package gridsearch clusters timed points under a grid of velocity
// hypotheses. For each (vx, vy) pair, every point is shifted back along
// the hypothesis (x - vx*dt, y - vy*dt) and the shifted cloud is
// clustered; a moving object whose true motion matches the hypothesis
// collapses into a dense cluster in the shifted frame.
package gridsearch

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"

	"github.com/banshee-data/tracklet/cluster"
	"github.com/banshee-data/tracklet/points"
)

// Options configures a velocity grid search.
type Options struct {
	// Eps and MinClusterSize are the clustering parameters applied in the
	// shifted frame of every hypothesis.
	Eps            float64
	MinClusterSize int
	// Algorithm selects the clustering strategy; zero value is DBSCAN.
	Algorithm cluster.Algorithm
	// Workers bounds the number of hypotheses clustered concurrently.
	// Zero or negative means GOMAXPROCS. The output is identical for any
	// worker count: hypotheses never share state and results are stored by
	// hypothesis position.
	Workers int
}

// Hypothesis is the clustering outcome for one (vx, vy) pair.
type Hypothesis struct {
	VX, VY float64
	Result *cluster.Result
}

// ClusterSummary describes one surviving cluster across the whole search.
// ClusterID is dense over the search, in hypothesis order then discovery
// order. ArcLength is the dt span covered by the cluster's members.
type ClusterSummary struct {
	ClusterID int
	VX, VY    float64
	ArcLength float64
	Size      int
}

// SearchResult holds every hypothesis outcome in vx-major order, one entry
// per (vx, vy) pair, plus per-cluster summaries. SearchID is a fresh
// identifier for correlating downstream records with this run.
type SearchResult struct {
	SearchID   string
	Hypotheses []Hypothesis
	Summaries  []ClusterSummary
}

// Search clusters pts under every velocity hypothesis in vxs x vys.
func Search(pts []points.TimedPoint, vxs, vys []float64, opts Options) (*SearchResult, error) {
	params := cluster.Params{
		Eps:            opts.Eps,
		MinClusterSize: opts.MinClusterSize,
		Algorithm:      opts.Algorithm,
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	for i, p := range pts {
		if !isFinite(p.X) || !isFinite(p.Y) || !isFinite(p.DT) {
			return nil, fmt.Errorf("points[%d]: %w", i, cluster.ErrNonFiniteCoordinate)
		}
	}
	for i, v := range vxs {
		if !isFinite(v) {
			return nil, fmt.Errorf("vxs[%d]: %w", i, cluster.ErrNonFiniteCoordinate)
		}
	}
	for i, v := range vys {
		if !isFinite(v) {
			return nil, fmt.Errorf("vys[%d]: %w", i, cluster.ErrNonFiniteCoordinate)
		}
	}

	n := len(vxs) * len(vys)
	hypotheses := make([]Hypothesis, n)
	errs := make([]error, n)

	runOne := func(k int) {
		vx := vxs[k/len(vys)]
		vy := vys[k%len(vys)]
		xs, ys := shift(pts, vx, vy)
		res, err := cluster.FindClustersWith(xs, ys, params)
		hypotheses[k] = Hypothesis{VX: vx, VY: vy, Result: res}
		errs[k] = err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}

	if workers <= 1 {
		for k := 0; k < n; k++ {
			runOne(k)
		}
	} else {
		jobs := make(chan int)
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for k := range jobs {
					runOne(k)
				}
			}()
		}
		for k := 0; k < n; k++ {
			jobs <- k
		}
		close(jobs)
		wg.Wait()
	}

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return &SearchResult{
		SearchID:   uuid.NewString(),
		Hypotheses: hypotheses,
		Summaries:  summarize(pts, hypotheses),
	}, nil
}

// shift maps pts into the frame co-moving with the hypothesis (vx, vy).
func shift(pts []points.TimedPoint, vx, vy float64) (xs, ys []float64) {
	xs = make([]float64, len(pts))
	ys = make([]float64, len(pts))
	for i, p := range pts {
		s := p.Shift(vx, vy)
		xs[i] = s.X
		ys[i] = s.Y
	}
	return xs, ys
}

// summarize flattens per-hypothesis clusters into search-wide summaries
// with dense IDs and dt arc lengths.
func summarize(pts []points.TimedPoint, hypotheses []Hypothesis) []ClusterSummary {
	var summaries []ClusterSummary
	next := 0
	for _, h := range hypotheses {
		for _, members := range h.Result.Clusters() {
			dts := make([]float64, len(members))
			for i, m := range members {
				dts[i] = pts[m].DT
			}
			summaries = append(summaries, ClusterSummary{
				ClusterID: next,
				VX:        h.VX,
				VY:        h.VY,
				ArcLength: floats.Max(dts) - floats.Min(dts),
				Size:      len(members),
			})
			next++
		}
	}
	return summaries
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
