// Package orientation turns raw device-orientation samples into a stable
// single-scalar device tilt. Samples arrive from the sensor stream at device
// rate, independently of the frame loop, so the smoother is internally
// locked.
package orientation

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"
)

// Sample is one raw device-orientation reading in degrees. Pitch is the
// forward/back axis, roll the left/right axis. Ranges are whatever the
// sensor source reports.
type Sample struct {
	Pitch float64 `json:"pitch"`
	Roll  float64 `json:"roll"`
}

// Valid reports whether both axes carry real numbers.
func (s *Sample) Valid() bool {
	return s != nil && !math.IsNaN(s.Pitch) && !math.IsNaN(s.Roll) &&
		!math.IsInf(s.Pitch, 0) && !math.IsInf(s.Roll, 0)
}

// Defaults for the three filter stages.
const (
	DefaultBufferSize = 10
	DefaultFactor     = 0.15
	DefaultDeadband   = 0.5 // degrees
)

// uprightPitchDeg bounds the zone where roll maps directly to tilt without
// the cos(pitch) correction.
const uprightPitchDeg = 45.0

// Smoother runs the 3-stage filter: bounded rolling average, then EMA, then
// a deadband gate onto the externally visible stable pair.
type Smoother struct {
	mu sync.RWMutex

	// Stage parameters, driven together by SetLevel.
	bufferSize int
	factor     float64
	deadband   float64

	// Rolling buffer, oldest first.
	pitches []float64
	rolls   []float64

	// EMA state. Zero with hasEMA=false is the uninitialized sentinel; the
	// first sample seeds the EMA directly instead of blending with zero.
	emaPitch, emaRoll float64
	hasEMA            bool

	// Deadband-gated output.
	stablePitch, stableRoll float64
}

// NewSmoother creates a smoother with default filter parameters.
func NewSmoother() *Smoother {
	return &Smoother{
		bufferSize: DefaultBufferSize,
		factor:     DefaultFactor,
		deadband:   DefaultDeadband,
	}
}

// Ingest runs all filter stages on one sample. Invalid or nil samples are
// ignored; the sensor stream must never be able to fault the pipeline.
func (s *Smoother) Ingest(sample *Sample) {
	if !sample.Valid() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pitches = appendBounded(s.pitches, sample.Pitch, s.bufferSize)
	s.rolls = appendBounded(s.rolls, sample.Roll, s.bufferSize)

	avgPitch := stat.Mean(s.pitches, nil)
	avgRoll := stat.Mean(s.rolls, nil)

	if !s.hasEMA {
		s.emaPitch, s.emaRoll = avgPitch, avgRoll
		s.hasEMA = true
	} else {
		s.emaPitch = s.factor*avgPitch + (1-s.factor)*s.emaPitch
		s.emaRoll = s.factor*avgRoll + (1-s.factor)*s.emaRoll
	}

	// Deadband: hold the published value until the EMA moves far enough,
	// so micro-oscillation never propagates downstream.
	if math.Abs(s.emaPitch-s.stablePitch) > s.deadband {
		s.stablePitch = s.emaPitch
	}
	if math.Abs(s.emaRoll-s.stableRoll) > s.deadband {
		s.stableRoll = s.emaRoll
	}
}

// Tilt returns the current device tilt estimate in degrees. Within 45° of
// upright the roll axis is the tilt directly; beyond that the roll reading
// loses sensitivity and is scaled by |cos(pitch)|. This is a heuristic
// projection, not a full 3-D rotation.
func (s *Smoother) Tilt() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if math.Abs(s.stablePitch) < uprightPitchDeg {
		return s.stableRoll
	}
	return s.stableRoll * math.Abs(math.Cos(s.stablePitch*math.Pi/180))
}

// Stable returns the deadband-gated (pitch, roll) pair.
func (s *Smoother) Stable() (pitch, roll float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stablePitch, s.stableRoll
}

// Reset clears all filter state.
func (s *Smoother) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pitches = nil
	s.rolls = nil
	s.emaPitch, s.emaRoll = 0, 0
	s.hasEMA = false
	s.stablePitch, s.stableRoll = 0, 0
}

// SetLevel maps one usability dial (1-10) onto all three stage parameters.
// Level 1 is maximum stability and latency, level 10 maximum
// responsiveness: factor 0.05-0.4, buffer 20-5 samples, deadband 1.2-0.2°.
func (s *Smoother) SetLevel(level int) {
	t := levelFraction(level)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.factor = 0.05 + t*0.35
	s.bufferSize = int(math.Round(20 - t*15))
	s.deadband = 1.2 - t*1.0

	// Shrink in-place so the invariant holds immediately.
	if len(s.pitches) > s.bufferSize {
		s.pitches = s.pitches[len(s.pitches)-s.bufferSize:]
		s.rolls = s.rolls[len(s.rolls)-s.bufferSize:]
	}
}

// levelFraction clamps a dial position into [1, 10] and maps it onto [0, 1].
func levelFraction(level int) float64 {
	if level < 1 {
		level = 1
	}
	if level > 10 {
		level = 10
	}
	return float64(level-1) / 9.0
}

// appendBounded appends to a FIFO slice, dropping the oldest entries beyond
// the limit.
func appendBounded(buf []float64, v float64, limit int) []float64 {
	buf = append(buf, v)
	if len(buf) > limit {
		buf = buf[len(buf)-limit:]
	}
	return buf
}
