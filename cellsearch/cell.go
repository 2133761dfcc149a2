// Package cellsearch clusters observations that are bucketed by exposure
// epoch. A Cell accumulates points per epoch (dt); FindClusters then links
// detections across epochs under a velocity hypothesis, matching each
// probe against every epoch after sliding it by (vx*dt, vy*dt).
//
// This is the per-sky-cell counterpart to the whole-frame velocity grid
// search: the epoch buckets are built once and queried for many
// hypotheses.
package cellsearch

import (
	"fmt"
	"math"
	"sort"

	"github.com/banshee-data/tracklet/cluster"
	"github.com/banshee-data/tracklet/points"
)

// Cell holds observations bucketed by exposure epoch.
type Cell struct {
	epochs []epoch
	byDT   map[float64]int
}

type epoch struct {
	dt     float64
	xs, ys []float64
}

// pointRef addresses one observation as (epoch storage slot, index within
// the epoch).
type pointRef struct {
	epoch int
	idx   int
}

// NewCell returns an empty cell.
func NewCell() *Cell {
	return &Cell{byDT: make(map[float64]int)}
}

// AddPoint records an observation at epoch dt.
func (c *Cell) AddPoint(dt, x, y float64) {
	slot, ok := c.byDT[dt]
	if !ok {
		slot = len(c.epochs)
		c.byDT[dt] = slot
		c.epochs = append(c.epochs, epoch{dt: dt})
	}
	e := &c.epochs[slot]
	e.xs = append(e.xs, x)
	e.ys = append(e.ys, y)
}

// Len returns the total number of observations across all epochs.
func (c *Cell) Len() int {
	n := 0
	for _, e := range c.epochs {
		n += len(e.xs)
	}
	return n
}

// Epochs returns the distinct epoch dts in ascending order.
func (c *Cell) Epochs() []float64 {
	dts := make([]float64, 0, len(c.epochs))
	for _, e := range c.epochs {
		dts = append(dts, e.dt)
	}
	sort.Float64s(dts)
	return dts
}

// sortedSlots returns epoch storage slots in ascending dt order.
func (c *Cell) sortedSlots() []int {
	slots := make([]int, len(c.epochs))
	for i := range slots {
		slots[i] = i
	}
	sort.Slice(slots, func(a, b int) bool {
		return c.epochs[slots[a]].dt < c.epochs[slots[b]].dt
	})
	return slots
}

// FindClusters links observations across epochs under the velocity
// hypothesis (vx, vy), using the same core/border/noise discipline as
// cluster.FindClusters. Each returned cluster lists its members in
// ascending epoch order; clusters smaller than minClusterSize are dropped.
func (c *Cell) FindClusters(eps float64, minClusterSize int, vx, vy float64) ([][]points.TimedPoint, error) {
	p := cluster.Params{Eps: eps, MinClusterSize: minClusterSize}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(c.epochs) == 0 {
		return nil, nil
	}

	// One grid index per epoch over the raw coordinates; the velocity
	// shift is applied to the probe, not the stored points, so the indices
	// survive across hypotheses.
	indexes := make([]*cluster.GridIndex, len(c.epochs))
	labels := make([][]int, len(c.epochs))
	for slot, e := range c.epochs {
		if err := checkFinite(e); err != nil {
			return nil, err
		}
		indexes[slot] = cluster.NewGridIndex(e.xs, e.ys, eps)
		labels[slot] = make([]int, len(e.xs))
	}

	slots := c.sortedSlots()
	clusterID := 0

	for _, slot := range slots {
		e := &c.epochs[slot]
		for j := range e.xs {
			if labels[slot][j] != 0 {
				continue
			}

			neighbors := c.neighbors(indexes, slots, e.xs[j], e.ys[j], e.dt, eps, vx, vy)
			if len(neighbors) < minClusterSize {
				labels[slot][j] = -1
				continue
			}

			clusterID++
			labels[slot][j] = clusterID
			for k := 0; k < len(neighbors); k++ {
				ref := neighbors[k]
				l := labels[ref.epoch][ref.idx]
				if l == -1 {
					// Noise reached from a core point joins as border.
					labels[ref.epoch][ref.idx] = clusterID
					continue
				}
				if l != 0 {
					continue
				}
				labels[ref.epoch][ref.idx] = clusterID

				re := &c.epochs[ref.epoch]
				next := c.neighbors(indexes, slots, re.xs[ref.idx], re.ys[ref.idx], re.dt, eps, vx, vy)
				if len(next) >= minClusterSize {
					neighbors = append(neighbors, next...)
				}
			}
		}
	}

	// Collect members in ascending epoch order, dropping undersized
	// clusters and re-densifying IDs in discovery order.
	members := make([][]points.TimedPoint, clusterID)
	for _, slot := range slots {
		e := &c.epochs[slot]
		for j := range e.xs {
			if id := labels[slot][j]; id > 0 {
				members[id-1] = append(members[id-1], points.TimedPoint{X: e.xs[j], Y: e.ys[j], DT: e.dt})
			}
		}
	}
	var clusters [][]points.TimedPoint
	for _, m := range members {
		if len(m) >= minClusterSize {
			clusters = append(clusters, m)
		}
	}
	return clusters, nil
}

// neighbors gathers matches for a probe across every epoch, propagating
// the probe along the hypothesis velocity from its own epoch to each
// target epoch. An observation of a co-moving object at another epoch
// lands exactly on the propagated probe.
func (c *Cell) neighbors(indexes []*cluster.GridIndex, slots []int, x, y, dt, eps, vx, vy float64) []pointRef {
	var refs []pointRef
	for _, slot := range slots {
		e := &c.epochs[slot]
		px := x + vx*(e.dt-dt)
		py := y + vy*(e.dt-dt)
		for _, idx := range indexes[slot].NeighborsOf(px, py, eps) {
			refs = append(refs, pointRef{epoch: slot, idx: idx})
		}
	}
	return refs
}

func checkFinite(e epoch) error {
	for i := range e.xs {
		if !finite(e.xs[i]) || !finite(e.ys[i]) || !finite(e.dt) {
			return fmt.Errorf("epoch dt=%v point %d: %w", e.dt, i, cluster.ErrNonFiniteCoordinate)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
