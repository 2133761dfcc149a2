// Package pointgen builds deterministic synthetic point clouds for tests
// and benchmarks: gaussian blobs over a uniform background. Identical
// seeds produce identical clouds.
package pointgen

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/banshee-data/tracklet/points"
)

// Blob describes one gaussian group of points.
type Blob struct {
	X, Y  float64 // center
	Sigma float64 // standard deviation per axis
	N     int     // number of points
}

// Cloud returns coordinate slices holding every blob's points followed by
// noise points drawn uniformly from [-extent, extent] on both axes.
func Cloud(seed uint64, blobs []Blob, noise int, extent float64) (xs, ys []float64) {
	rnd := rand.New(rand.NewSource(seed))

	total := noise
	for _, b := range blobs {
		total += b.N
	}
	xs = make([]float64, 0, total)
	ys = make([]float64, 0, total)

	for _, b := range blobs {
		dx := distuv.Normal{Mu: b.X, Sigma: b.Sigma, Src: rnd}
		dy := distuv.Normal{Mu: b.Y, Sigma: b.Sigma, Src: rnd}
		for i := 0; i < b.N; i++ {
			xs = append(xs, dx.Rand())
			ys = append(ys, dy.Rand())
		}
	}
	for i := 0; i < noise; i++ {
		xs = append(xs, (rnd.Float64()*2-1)*extent)
		ys = append(ys, (rnd.Float64()*2-1)*extent)
	}
	return xs, ys
}

// TimedCloud generates a cloud of timed points: each blob moves along
// (vx, vy), observed once per epoch in dts, with gaussian scatter around
// the propagated center. Noise points get a random epoch from dts.
func TimedCloud(seed uint64, blobs []Blob, vx, vy float64, dts []float64, noise int, extent float64) []points.TimedPoint {
	rnd := rand.New(rand.NewSource(seed))

	var out []points.TimedPoint
	for _, b := range blobs {
		scatter := distuv.Normal{Mu: 0, Sigma: b.Sigma, Src: rnd}
		for i := 0; i < b.N; i++ {
			dt := dts[i%len(dts)]
			out = append(out, points.TimedPoint{
				X:  b.X + vx*dt + scatter.Rand(),
				Y:  b.Y + vy*dt + scatter.Rand(),
				DT: dt,
			})
		}
	}
	for i := 0; i < noise; i++ {
		out = append(out, points.TimedPoint{
			X:  (rnd.Float64()*2 - 1) * extent,
			Y:  (rnd.Float64()*2 - 1) * extent,
			DT: dts[rnd.Intn(len(dts))],
		})
	}
	return out
}
