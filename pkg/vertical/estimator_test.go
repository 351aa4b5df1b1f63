package vertical

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framewright/go-leveler/pkg/vision"
)

const frameHeight = 480.0

// tiltedSegment builds a segment of the given length leaning deg clockwise
// from vertical, starting at (x, y).
func tiltedSegment(x, y, length, deg float64) vision.LineSegment {
	rad := deg * math.Pi / 180
	return vision.LineSegment{
		P1: vision.Point{X: x, Y: y},
		P2: vision.Point{X: x - length*math.Sin(rad), Y: y + length*math.Cos(rad)},
	}
}

func TestEstimator_SingleVertical(t *testing.T) {
	e := NewEstimator()
	seg := tiltedSegment(100, 0, 400, 3)

	// One long vertical leaning 3°: the EMA walks toward 3 from zero.
	got := e.Update([]vision.LineSegment{seg}, frameHeight)
	assert.InDelta(t, 0.3*3.0, got, 1e-9)

	for i := 0; i < 60; i++ {
		got = e.Update([]vision.LineSegment{seg}, frameHeight)
	}
	assert.InDelta(t, 3.0, got, 0.01, "EMA should converge to the measured angle")
}

func TestEstimator_FiltersShortAndSlanted(t *testing.T) {
	e := NewEstimator()
	segments := []vision.LineSegment{
		tiltedSegment(10, 0, 50, 2),   // too short: 50 < 0.2*480
		tiltedSegment(20, 0, 400, 50), // too far from vertical
	}
	got := e.Update(segments, frameHeight)
	assert.Zero(t, got, "no qualifying verticals from a zero prior stays zero")
}

func TestEstimator_LongestSegmentsDominate(t *testing.T) {
	e := NewEstimator()

	// Six qualifying segments; the shortest one carries an extreme angle
	// and must be dropped from the top-5 vote.
	segments := []vision.LineSegment{
		tiltedSegment(0, 0, 460, 2),
		tiltedSegment(10, 0, 450, 2),
		tiltedSegment(20, 0, 440, 2),
		tiltedSegment(30, 0, 430, 2),
		tiltedSegment(40, 0, 420, 2),
		tiltedSegment(50, 0, 100, 28), // outlier, shortest
	}
	got := e.Update(segments, frameHeight)
	assert.InDelta(t, 0.3*2.0, got, 1e-6, "outlier outside the top 5 must not vote")
}

func TestEstimator_DecayTowardZero(t *testing.T) {
	e := NewEstimator()
	seg := tiltedSegment(100, 0, 400, 10)
	for i := 0; i < 100; i++ {
		e.Update([]vision.LineSegment{seg}, frameHeight)
	}
	start := e.Tilt()
	require.Greater(t, start, 9.0)

	// No evidence: the estimate fades monotonically and never crosses zero.
	prev := start
	for i := 0; i < 50; i++ {
		got := e.Update(nil, frameHeight)
		require.Less(t, got, prev, "decay must be monotonic")
		require.GreaterOrEqual(t, got, 0.0, "decay must not overshoot zero")
		prev = got
	}
	assert.Less(t, prev, 0.1)
}

func TestEstimator_WeightedMean(t *testing.T) {
	e := NewEstimator()
	segments := []vision.LineSegment{
		tiltedSegment(0, 0, 400, 4),  // weight 400/480
		tiltedSegment(50, 0, 100, 0), // weight 100/480
	}
	got := e.Update(segments, frameHeight)

	want := 0.3 * (400.0*4 + 100.0*0) / 500.0
	assert.InDelta(t, want, got, 1e-9)
}

func TestEstimator_Reset(t *testing.T) {
	e := NewEstimator()
	e.Update([]vision.LineSegment{tiltedSegment(0, 0, 400, 5)}, frameHeight)
	e.Reset()
	assert.Zero(t, e.Tilt())
}

func TestSignedAngleFromVertical_Convention(t *testing.T) {
	// Clockwise lean is positive regardless of endpoint order.
	cw := tiltedSegment(100, 0, 300, 6)
	assert.InDelta(t, 6.0, signedAngleFromVertical(cw), 1e-9)

	flipped := vision.LineSegment{P1: cw.P2, P2: cw.P1}
	assert.InDelta(t, 6.0, signedAngleFromVertical(flipped), 1e-9)

	ccw := tiltedSegment(100, 0, 300, -6)
	assert.InDelta(t, -6.0, signedAngleFromVertical(ccw), 1e-9)
}
