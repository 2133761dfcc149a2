package pointgen

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCloud_CountsAndLayout(t *testing.T) {
	blobs := []Blob{
		{X: 0, Y: 0, Sigma: 0.1, N: 30},
		{X: 5, Y: 5, Sigma: 0.1, N: 20},
	}
	xs, ys := Cloud(1, blobs, 15, 10)

	if len(xs) != 65 || len(ys) != 65 {
		t.Fatalf("got %d/%d points, want 65/65", len(xs), len(ys))
	}

	// Blob points come first and stay near their centers; 0.1 sigma keeps
	// essentially everything within 1.0.
	for i := 0; i < 30; i++ {
		if math.Hypot(xs[i], ys[i]) > 1.0 {
			t.Errorf("blob 0 point %d at (%g, %g), too far from center", i, xs[i], ys[i])
		}
	}
	for i := 30; i < 50; i++ {
		if math.Hypot(xs[i]-5, ys[i]-5) > 1.0 {
			t.Errorf("blob 1 point %d at (%g, %g), too far from center", i, xs[i], ys[i])
		}
	}
	for i := 50; i < 65; i++ {
		if math.Abs(xs[i]) > 10 || math.Abs(ys[i]) > 10 {
			t.Errorf("noise point %d at (%g, %g), outside extent", i, xs[i], ys[i])
		}
	}
}

func TestCloud_SameSeedSameCloud(t *testing.T) {
	blobs := []Blob{{X: 1, Y: -1, Sigma: 0.5, N: 25}}

	xs1, ys1 := Cloud(7, blobs, 40, 3)
	xs2, ys2 := Cloud(7, blobs, 40, 3)
	if diff := cmp.Diff(xs1, xs2); diff != "" {
		t.Errorf("xs differ across runs with same seed:\n%s", diff)
	}
	if diff := cmp.Diff(ys1, ys2); diff != "" {
		t.Errorf("ys differ across runs with same seed:\n%s", diff)
	}

	xs3, _ := Cloud(8, blobs, 40, 3)
	if cmp.Equal(xs1, xs3) {
		t.Error("different seeds produced identical clouds")
	}
}

func TestTimedCloud_PropagatesAlongVelocity(t *testing.T) {
	blobs := []Blob{{X: 2, Y: 0, Sigma: 0.01, N: 8}}
	dts := []float64{0, 1, 2, 3}

	pts := TimedCloud(3, blobs, 1.5, -0.5, dts, 5, 10)
	if len(pts) != 13 {
		t.Fatalf("got %d points, want 13", len(pts))
	}

	// Blob observations scatter tightly around the propagated center.
	for i := 0; i < 8; i++ {
		p := pts[i]
		cx := 2 + 1.5*p.DT
		cy := 0 - 0.5*p.DT
		if math.Hypot(p.X-cx, p.Y-cy) > 0.1 {
			t.Errorf("point %d at (%g, %g) dt=%g, far from propagated center (%g, %g)",
				i, p.X, p.Y, p.DT, cx, cy)
		}
	}

	pts2 := TimedCloud(3, blobs, 1.5, -0.5, dts, 5, 10)
	if diff := cmp.Diff(pts, pts2); diff != "" {
		t.Errorf("timed clouds differ across runs with same seed:\n%s", diff)
	}
}
