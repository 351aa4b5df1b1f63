// Package vertical estimates camera roll from architectural verticals in the
// scene: long near-vertical line segments such as door and wall edges.
package vertical

import (
	"math"
	"sort"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/framewright/go-leveler/pkg/vision"
)

const (
	// maxAngleDeg filters out segments too far from vertical to be
	// architectural.
	maxAngleDeg = 30.0

	// minLengthFrac is the minimum segment length as a fraction of frame
	// height. Longer segments are more likely real structure than contour
	// noise.
	minLengthFrac = 0.2

	// topSegments caps how many of the longest candidates vote.
	topSegments = 5

	// decayFactor fades the previous estimate toward zero when a frame has
	// no usable verticals. Absence of evidence fades, it does not snap.
	decayFactor = 0.9

	// EMA blend against the previous frame's estimate.
	previousWeight = 0.7
	currentWeight  = 0.3
)

// Estimator holds one scalar of camera-tilt state across frames.
type Estimator struct {
	mu   sync.RWMutex
	tilt float64
	prev float64
}

// NewEstimator creates an estimator with zero prior tilt.
func NewEstimator() *Estimator {
	return &Estimator{}
}

// Update consumes one frame's line segments and returns the new camera tilt
// estimate in degrees. frameHeight is the frame height in pixels.
func (e *Estimator) Update(segments []vision.LineSegment, frameHeight float64) float64 {
	candidates := filterVerticals(segments, frameHeight)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.prev = e.tilt

	if len(candidates) == 0 {
		e.tilt *= decayFactor
		return e.tilt
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Length() > candidates[j].Length()
	})
	if len(candidates) > topSegments {
		candidates = candidates[:topSegments]
	}

	angles := make([]float64, len(candidates))
	weights := make([]float64, len(candidates))
	for i, s := range candidates {
		angles[i] = signedAngleFromVertical(s)
		weights[i] = s.Length() / frameHeight
	}
	measured := stat.Mean(angles, weights)

	e.tilt = previousWeight*e.tilt + currentWeight*measured
	return e.tilt
}

// Tilt returns the current camera tilt estimate in degrees.
func (e *Estimator) Tilt() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tilt
}

// Previous returns the estimate from before the last Update, for
// diagnosing frame-to-frame jitter.
func (e *Estimator) Previous() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.prev
}

// Reset clears the estimate.
func (e *Estimator) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tilt = 0
	e.prev = 0
}

// filterVerticals keeps segments close enough to vertical and long enough to
// be structural.
func filterVerticals(segments []vision.LineSegment, frameHeight float64) []vision.LineSegment {
	if frameHeight <= 0 {
		return nil
	}
	minLength := minLengthFrac * frameHeight

	var out []vision.LineSegment
	for _, s := range segments {
		if s.AngleFromVertical() <= maxAngleDeg && s.Length() >= minLength {
			out = append(out, s)
		}
	}
	return out
}

// signedAngleFromVertical returns the segment's tilt from vertical with the
// same sign convention as object tilt: positive when the scene's verticals
// lean clockwise in the image.
func signedAngleFromVertical(s vision.LineSegment) float64 {
	top, bottom := s.P1, s.P2
	if bottom.Y < top.Y {
		top, bottom = bottom, top
	}
	return -math.Atan2(bottom.X-top.X, bottom.Y-top.Y) * 180 / math.Pi
}
