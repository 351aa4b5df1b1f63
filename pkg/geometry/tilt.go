// Package geometry derives the rotation of a detected quadrilateral from
// true vertical using only its corner points. It is pure math with no vision
// dependencies so the estimators can be tested against synthetic shapes.
package geometry

import (
	"fmt"
	"math"
	"sort"

	"github.com/framewright/go-leveler/pkg/vision"
)

// edgeAgreementDeg is the maximum divergence between the left and right edge
// angles before the view is treated as perspective-skewed and only the more
// vertical edge is trusted.
const edgeAgreementDeg = 5.0

// corners groups the four classified corner points of a quadrilateral.
type corners struct {
	topLeft, topRight       vision.Point
	bottomLeft, bottomRight vision.Point
}

// EstimateTilt returns the signed rotation of a quadrilateral from vertical,
// in degrees. 0 means perfectly level, positive means clockwise. At least
// four corner points are required; extra points from loose contour
// approximation are tolerated.
func EstimateTilt(pts []vision.Point) (float64, error) {
	if len(pts) < 4 {
		return 0, fmt.Errorf("need at least 4 corners, got %d", len(pts))
	}

	c, ok := classifyByCentroid(pts)
	if !ok {
		c = classifyBySort(pts)
	}

	left := angleFromVertical(c.topLeft, c.bottomLeft)
	right := angleFromVertical(c.topRight, c.bottomRight)

	// Parallel edges mean a flat, unskewed view: average them. Under
	// perspective skew one edge's projection is unreliable, so keep
	// whichever reads closer to vertical.
	if math.Abs(left-right) <= edgeAgreementDeg {
		return (left + right) / 2, nil
	}
	if math.Abs(left) <= math.Abs(right) {
		return left, nil
	}
	return right, nil
}

// angleFromVertical returns the signed angle of the edge from top to bottom,
// measured against the vertical axis. Positive is clockwise in image
// coordinates (y down). Normalized into [-90, 90].
func angleFromVertical(top, bottom vision.Point) float64 {
	dx := bottom.X - top.X
	dy := bottom.Y - top.Y
	a := -math.Atan2(dx, dy) * 180 / math.Pi
	for a > 90 {
		a -= 180
	}
	for a < -90 {
		a += 180
	}
	return a
}

// classifyByCentroid assigns corners to quadrants relative to the centroid.
// When approximation yields more than four points, the farthest point in
// each quadrant wins. Fails (ok=false) if any quadrant ends up empty, which
// happens on heavily rotated or degenerate shapes.
func classifyByCentroid(pts []vision.Point) (corners, bool) {
	var cx, cy float64
	for _, p := range pts {
		cx += p.X
		cy += p.Y
	}
	cx /= float64(len(pts))
	cy /= float64(len(pts))

	var c corners
	var haveTL, haveTR, haveBL, haveBR bool
	dist := func(p vision.Point) float64 {
		return math.Hypot(p.X-cx, p.Y-cy)
	}

	for _, p := range pts {
		switch {
		case p.X < cx && p.Y < cy:
			if !haveTL || dist(p) > dist(c.topLeft) {
				c.topLeft, haveTL = p, true
			}
		case p.X >= cx && p.Y < cy:
			if !haveTR || dist(p) > dist(c.topRight) {
				c.topRight, haveTR = p, true
			}
		case p.X < cx && p.Y >= cy:
			if !haveBL || dist(p) > dist(c.bottomLeft) {
				c.bottomLeft, haveBL = p, true
			}
		default:
			if !haveBR || dist(p) > dist(c.bottomRight) {
				c.bottomRight, haveBR = p, true
			}
		}
	}

	return c, haveTL && haveTR && haveBL && haveBR
}

// classifyBySort is the fallback: order by y, split the top and bottom pairs
// by x. Always produces a usable classification for >=4 points.
func classifyBySort(pts []vision.Point) corners {
	sorted := make([]vision.Point, len(pts))
	copy(sorted, pts)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Y < sorted[j].Y })

	top := sorted[:2]
	bottom := sorted[len(sorted)-2:]

	c := corners{topLeft: top[0], topRight: top[1]}
	if c.topRight.X < c.topLeft.X {
		c.topLeft, c.topRight = c.topRight, c.topLeft
	}
	c.bottomLeft, c.bottomRight = bottom[0], bottom[1]
	if c.bottomRight.X < c.bottomLeft.X {
		c.bottomLeft, c.bottomRight = c.bottomRight, c.bottomLeft
	}
	return c
}
