package vision

import (
	"math"
	"testing"
)

const floatTolerance = 1e-9

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) < floatTolerance
}

func TestLineSegment_Length(t *testing.T) {
	s := LineSegment{P1: Point{X: 0, Y: 0}, P2: Point{X: 3, Y: 4}}
	if !floatEquals(s.Length(), 5) {
		t.Errorf("Length: got %v, want 5", s.Length())
	}
}

func TestLineSegment_AngleFromVertical(t *testing.T) {
	tests := []struct {
		name string
		seg  LineSegment
		want float64
	}{
		{"vertical", LineSegment{P1: Point{X: 10, Y: 0}, P2: Point{X: 10, Y: 100}}, 0},
		{"horizontal", LineSegment{P1: Point{X: 0, Y: 10}, P2: Point{X: 100, Y: 10}}, 90},
		{"diagonal", LineSegment{P1: Point{X: 0, Y: 0}, P2: Point{X: 100, Y: 100}}, 45},
		{"reversed endpoints", LineSegment{P1: Point{X: 10, Y: 100}, P2: Point{X: 10, Y: 0}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.seg.AngleFromVertical()
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("AngleFromVertical: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQuadrilateral_Bounds(t *testing.T) {
	q := Quadrilateral{Corners: []Point{
		{X: 10, Y: 20}, {X: 110, Y: 22}, {X: 108, Y: 170}, {X: 12, Y: 168},
	}}
	b := q.Bounds()
	if b.X != 10 || b.Y != 20 {
		t.Errorf("Bounds origin: got (%v, %v), want (10, 20)", b.X, b.Y)
	}
	if b.W != 100 || b.H != 150 {
		t.Errorf("Bounds size: got (%v, %v), want (100, 150)", b.W, b.H)
	}
	if !floatEquals(b.Area(), 15000) {
		t.Errorf("Area: got %v, want 15000", b.Area())
	}
}

func TestQuadrilateral_Bounds_Empty(t *testing.T) {
	var q Quadrilateral
	b := q.Bounds()
	if b.W != 0 || b.H != 0 {
		t.Errorf("Empty quad bounds: got %+v, want zero rect", b)
	}
}

func TestSelectLargest(t *testing.T) {
	if SelectLargest(nil) != nil {
		t.Error("SelectLargest(nil) should return nil")
	}

	small := Quadrilateral{Corners: []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}}
	big := Quadrilateral{Corners: []Point{{0, 0}, {100, 0}, {100, 100}, {0, 100}}}

	got := SelectLargest([]Quadrilateral{small, big, small})
	if got == nil || !floatEquals(got.Area(), big.Area()) {
		t.Errorf("SelectLargest picked area %v, want %v", got.Area(), big.Area())
	}
}
