package geometry

import (
	"math"
	"testing"

	"github.com/framewright/go-leveler/pkg/vision"
)

// rotatedRect builds the corners of a w×h rectangle centered at (cx, cy),
// rotated clockwise by deg in image coordinates (y down).
func rotatedRect(cx, cy, w, h, deg float64) []vision.Point {
	rad := deg * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)

	base := []vision.Point{
		{X: -w / 2, Y: -h / 2},
		{X: w / 2, Y: -h / 2},
		{X: w / 2, Y: h / 2},
		{X: -w / 2, Y: h / 2},
	}
	out := make([]vision.Point, len(base))
	for i, p := range base {
		out[i] = vision.Point{
			X: cx + p.X*cos - p.Y*sin,
			Y: cy + p.X*sin + p.Y*cos,
		}
	}
	return out
}

func TestEstimateTilt_LevelRectangle(t *testing.T) {
	got, err := EstimateTilt(rotatedRect(320, 240, 100, 150, 0))
	if err != nil {
		t.Fatalf("EstimateTilt: %v", err)
	}
	if math.Abs(got) > 1e-9 {
		t.Errorf("level rectangle: got %v, want 0", got)
	}
}

func TestEstimateTilt_RotatedRectangle(t *testing.T) {
	for _, deg := range []float64{-40, -15, -5, -1, 1, 5, 15, 40} {
		got, err := EstimateTilt(rotatedRect(320, 240, 100, 150, deg))
		if err != nil {
			t.Fatalf("EstimateTilt(%v°): %v", deg, err)
		}
		if math.Abs(got-deg) > 1.0 {
			t.Errorf("rotation %v°: got %v, want within 1°", deg, got)
		}
	}
}

func TestEstimateTilt_UnorderedCorners(t *testing.T) {
	pts := rotatedRect(100, 100, 80, 120, 10)
	shuffled := []vision.Point{pts[2], pts[0], pts[3], pts[1]}
	got, err := EstimateTilt(shuffled)
	if err != nil {
		t.Fatalf("EstimateTilt: %v", err)
	}
	if math.Abs(got-10) > 1.0 {
		t.Errorf("shuffled corners: got %v, want ~10", got)
	}
}

func TestEstimateTilt_PerspectiveSkew(t *testing.T) {
	// Left edge vertical, right edge leaning 12°: divergent edges mean a
	// skewed view, so the vertical edge should win outright.
	pts := []vision.Point{
		{X: 0, Y: 0},    // top-left
		{X: 100, Y: 0},  // top-right
		{X: 0, Y: 150},  // bottom-left
		{X: 132, Y: 150}, // bottom-right, leaning
	}
	got, err := EstimateTilt(pts)
	if err != nil {
		t.Fatalf("EstimateTilt: %v", err)
	}
	if math.Abs(got) > 1e-9 {
		t.Errorf("skewed view: got %v, want 0 (trust vertical edge)", got)
	}
}

func TestEstimateTilt_FivePointContour(t *testing.T) {
	// A loose contour approximation can emit an extra point on one edge.
	pts := rotatedRect(200, 200, 100, 150, 8)
	pts = append(pts, vision.Point{X: 200, Y: 200.1}) // near-centroid noise point
	got, err := EstimateTilt(pts)
	if err != nil {
		t.Fatalf("EstimateTilt: %v", err)
	}
	if math.Abs(got-8) > 1.0 {
		t.Errorf("five-point contour: got %v, want ~8", got)
	}
}

func TestEstimateTilt_TooFewCorners(t *testing.T) {
	_, err := EstimateTilt([]vision.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}})
	if err == nil {
		t.Error("expected error for 3 corners")
	}
}

func TestAngleFromVertical_Normalization(t *testing.T) {
	// An edge given bottom-to-top still normalizes into [-90, 90].
	a := angleFromVertical(vision.Point{X: 0, Y: 150}, vision.Point{X: 0, Y: 0})
	if math.Abs(a) > 1e-9 {
		t.Errorf("inverted vertical edge: got %v, want 0", a)
	}
}
