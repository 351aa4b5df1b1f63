// Package vision provides the frame-analysis primitives for go-leveler:
// quadrilateral candidates for picture frames and line segments for
// architectural verticals.
package vision

import "math"

// Point is a pixel coordinate. Y grows downward, matching image space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LineSegment is a detected straight edge in a frame.
type LineSegment struct {
	P1 Point `json:"p1"`
	P2 Point `json:"p2"`
}

// Length returns the segment length in pixels.
func (s LineSegment) Length() float64 {
	return math.Hypot(s.P2.X-s.P1.X, s.P2.Y-s.P1.Y)
}

// AngleFromVertical returns the unsigned angle between the segment and the
// vertical axis, in degrees, in [0, 90].
func (s LineSegment) AngleFromVertical() float64 {
	dx := math.Abs(s.P2.X - s.P1.X)
	dy := math.Abs(s.P2.Y - s.P1.Y)
	return math.Atan2(dx, dy) * 180 / math.Pi
}

// Rect is an axis-aligned bounding box.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Area returns the box area in square pixels.
func (r Rect) Area() float64 {
	return r.W * r.H
}

// Quadrilateral is a detected four-or-more-sided convex polygon, the raw
// shape candidate for a picture frame.
type Quadrilateral struct {
	Corners []Point `json:"corners"`
}

// Bounds returns the axis-aligned bounding box of the corners.
func (q Quadrilateral) Bounds() Rect {
	if len(q.Corners) == 0 {
		return Rect{}
	}
	minX, minY := q.Corners[0].X, q.Corners[0].Y
	maxX, maxY := minX, minY
	for _, c := range q.Corners[1:] {
		minX = math.Min(minX, c.X)
		minY = math.Min(minY, c.Y)
		maxX = math.Max(maxX, c.X)
		maxY = math.Max(maxY, c.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Area returns the bounding-box area. Frame candidates are close enough to
// rectangular that the bounding box is a usable size proxy.
func (q Quadrilateral) Area() float64 {
	return q.Bounds().Area()
}

// Detector is the interface for vision backends. Implementations take an
// encoded frame and return shape primitives; both calls may return empty
// results on frames with nothing usable in them.
type Detector interface {
	// FindQuadrilaterals returns frame-like convex quads in the image.
	FindQuadrilaterals(jpeg []byte) ([]Quadrilateral, error)

	// FindLineSegments returns straight edges in the image.
	FindLineSegments(jpeg []byte) ([]LineSegment, error)

	// Close releases resources.
	Close() error
}

// Config holds detector tuning for the OpenCV backend.
type Config struct {
	CannyLow        float64 // Lower Canny hysteresis threshold
	CannyHigh       float64 // Upper Canny hysteresis threshold
	MinQuadArea     float64 // Reject contours smaller than this (px²)
	ApproxEpsilon   float64 // Polygon approximation as a fraction of perimeter
	HoughThreshold  int     // Minimum votes for a Hough line
	HoughMinLength  float64 // Minimum Hough segment length (px)
	HoughMaxLineGap float64 // Maximum gap bridged within one segment (px)
}

// DefaultConfig returns detector defaults tuned for indoor scenes at 720p+.
func DefaultConfig() Config {
	return Config{
		CannyLow:        50,
		CannyHigh:       150,
		MinQuadArea:     2000,
		ApproxEpsilon:   0.02,
		HoughThreshold:  80,
		HoughMinLength:  60,
		HoughMaxLineGap: 10,
	}
}

// SelectLargest picks the biggest quad from a detection set, or nil if empty.
// Useful for single-frame callers that only care about the dominant object.
func SelectLargest(quads []Quadrilateral) *Quadrilateral {
	if len(quads) == 0 {
		return nil
	}
	best := &quads[0]
	for i := range quads[1:] {
		if quads[i+1].Area() > best.Area() {
			best = &quads[i+1]
		}
	}
	return best
}
