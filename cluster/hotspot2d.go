package cluster

import "math"

// hotspot2DLabels clusters by quantizing points onto an eps-sized grid and
// keeping cells that collect at least minClusterSize points. Four passes
// are run with the grid shifted by half a cell in x, y, and both, so that
// a dense group straddling a cell boundary is not missed; each point takes
// the first pass that claims it.
//
// This is a histogram approximation of density clustering: it never chains
// cells together, so it is much cheaper than DBSCAN but splits clusters
// wider than one cell.
func hotspot2DLabels(xs, ys []float64, eps float64, minClusterSize int) []int {
	n := len(xs)
	half := eps / 2

	offsets := [4][2]float64{
		{0, 0},
		{half, 0},
		{0, half},
		{half, half},
	}

	labels := make([]int, n)
	for i := range labels {
		labels[i] = labelNoise
	}

	for pass, off := range offsets {
		// Keep the label spaces of the passes disjoint so merged labels
		// stay distinguishable until normalization.
		base := pass * (n + 1)
		passLabels := quantizedCellLabels(xs, ys, off[0], off[1], eps, minClusterSize, base)
		for i, l := range passLabels {
			if labels[i] == labelNoise && l != labelNoise {
				labels[i] = l
			}
		}
	}

	return labels
}

// quantizedCellLabels assigns one label per sufficiently populated grid
// cell. Labels are allocated in order of first point occurrence so the
// result does not depend on map iteration order.
func quantizedCellLabels(xs, ys []float64, offX, offY, quantum float64, minClusterSize, base int) []int {
	n := len(xs)

	cellKeys := make([]int64, n)
	counts := make(map[int64]int, n/EstimatedPointsPerCell+1)
	for i := 0; i < n; i++ {
		qx := int64(math.Round((xs[i] + offX) / quantum))
		qy := int64(math.Round((ys[i] + offY) / quantum))
		key := pairCell(qx, qy)
		cellKeys[i] = key
		counts[key]++
	}

	cellLabel := make(map[int64]int, len(counts))
	labels := make([]int, n)
	next := base
	for i, key := range cellKeys {
		if counts[key] < minClusterSize {
			labels[i] = labelNoise
			continue
		}
		l, ok := cellLabel[key]
		if !ok {
			l = next
			next++
			cellLabel[key] = l
		}
		labels[i] = l
	}
	return labels
}
