package cluster

// Internal label scheme during expansion, following the usual DBSCAN
// bookkeeping: 0 = unvisited, -1 = noise, >0 = cluster ID.
const (
	labelUnvisited = 0
	labelNoise     = -1
)

// dbscanLabels runs density-reachability expansion over the index and
// returns raw labels plus the number of clusters seeded. Seeds are taken
// in ascending point-index order; the first cluster to claim a point wins.
func dbscanLabels(n int, index NeighborIndex, eps float64, minClusterSize int) ([]int, int) {
	labels := make([]int, n)
	clusterID := 0

	for i := 0; i < n; i++ {
		if labels[i] != labelUnvisited {
			continue
		}

		neighbors := index.Neighbors(i, eps)
		if len(neighbors) < minClusterSize {
			// Provisionally noise; a later expansion may still reclaim
			// this point as a border member.
			labels[i] = labelNoise
			continue
		}

		clusterID++
		expandCluster(index, labels, i, neighbors, clusterID, eps, minClusterSize)
	}

	return labels, clusterID
}

// expandCluster grows cluster clusterID outward from the core point at
// seedIdx, processing the work queue breadth-first.
func expandCluster(index NeighborIndex, labels []int, seedIdx int, neighbors []int, clusterID int, eps float64, minClusterSize int) {
	labels[seedIdx] = clusterID

	// The queue is the neighbors slice itself; core points append their
	// own neighborhoods to the tail as they are discovered.
	for j := 0; j < len(neighbors); j++ {
		idx := neighbors[j]

		if labels[idx] == labelNoise {
			// Noise reached from a core point becomes a border member.
			labels[idx] = clusterID
			continue
		}
		if labels[idx] != labelUnvisited {
			continue
		}

		labels[idx] = clusterID
		next := index.Neighbors(idx, eps)
		if len(next) >= minClusterSize {
			// idx is itself core; its neighborhood is reachable too.
			neighbors = append(neighbors, next...)
		}
	}
}

// normalizeLabels demotes clusters smaller than minClusterSize to noise and
// compacts the surviving cluster IDs to dense 0-based IDs in discovery
// order (order of first appearance by ascending point index). labels is
// rewritten in place; the cluster count after filtering is returned.
//
// Raw labels may use any integers, with labelNoise marking noise; this lets
// every algorithm in the package share one output shape.
func normalizeLabels(labels []int, minClusterSize int) int {
	sizes := make(map[int]int)
	for _, l := range labels {
		if l != labelNoise {
			sizes[l]++
		}
	}

	dense := make(map[int]int, len(sizes))
	next := 0
	for i, l := range labels {
		if l == labelNoise {
			continue
		}
		if sizes[l] < minClusterSize {
			labels[i] = labelNoise
			continue
		}
		id, ok := dense[l]
		if !ok {
			id = next
			next++
			dense[l] = id
		}
		labels[i] = id
	}
	return next
}
