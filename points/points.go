// Package points holds the coordinate types shared by the clustering
// packages. Points are plain value types; a point's identity is its index
// in whatever sequence it arrived in.
package points

// Point is a position in 2D space.
type Point struct {
	X, Y float64
}

// TimedPoint is a position in 2D space observed at a time offset DT from
// the start of the observation window (days, in MJD for astrometry use).
type TimedPoint struct {
	X, Y float64
	DT   float64
}

// Shift returns the point translated back along the velocity hypothesis
// (vx, vy), mapping it into the frame where a co-moving object is
// stationary.
func (p TimedPoint) Shift(vx, vy float64) Point {
	return Point{
		X: p.X - vx*p.DT,
		Y: p.Y - vy*p.DT,
	}
}
