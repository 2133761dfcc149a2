// Package cluster groups two-dimensional points by spatial proximity.
//
// The core algorithm is DBSCAN over a uniform-grid spatial index: points
// whose eps-neighborhood holds at least MinClusterSize points seed a
// cluster, which grows by density reachability. Points reachable from no
// core point are noise. A KD-tree index and a quantized-histogram
// approximation (Hotspot2D) are available as alternates.
//
// Output is deterministic: seeds are taken in ascending point-index order,
// neighborhood queries return ascending indices, and the first cluster to
// claim a point wins. Repeated calls with identical input produce
// identical labels on every platform.
//
// The engine is a pure function of its inputs. It keeps no state between
// calls and is safe to call from multiple goroutines.
package cluster
