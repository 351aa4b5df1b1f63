// Package pipeline wires the tilt estimators into one frame-synchronous
// pass: line segments feed the camera-tilt estimate, quadrilaterals feed
// per-object tilt, and the fused compensation plus per-identity history
// yields the stabilized angle shown to the user.
package pipeline

import (
	"sync"
	"sync/atomic"

	"github.com/framewright/go-leveler/internal/log"
	"github.com/framewright/go-leveler/pkg/fusion"
	"github.com/framewright/go-leveler/pkg/geometry"
	"github.com/framewright/go-leveler/pkg/orientation"
	"github.com/framewright/go-leveler/pkg/stabilize"
	"github.com/framewright/go-leveler/pkg/vertical"
	"github.com/framewright/go-leveler/pkg/vision"
)

// SensorStatus answers whether a device-orientation source exists and is
// currently delivering samples.
type SensorStatus interface {
	Supported() bool
	ActiveAndReady() bool
}

// DetectedObject is one frame's snapshot of a detected picture frame.
type DetectedObject struct {
	Bounds          vision.Rect        `json:"bounds"`
	Corners         []vision.Point     `json:"corners"`
	Area            float64            `json:"area"`
	RawTilt         float64            `json:"raw_tilt"`
	CompensatedTilt float64            `json:"compensated_tilt"`
	StabilizedTilt  float64            `json:"stabilized_tilt"`
	Identity        stabilize.Identity `json:"identity"`
}

// Pipeline owns one instance of every estimator. Multiple cameras mean
// multiple pipelines; no state is shared between instances.
type Pipeline struct {
	config   Config
	detector vision.Detector
	sensors  SensorStatus

	smoother   *orientation.Smoother
	verticals  *vertical.Estimator
	stabilizer *stabilize.Stabilizer

	// inFlight serializes frame passes: a pass arriving while one is
	// running is answered from the previous results instead of queueing.
	inFlight atomic.Bool

	mu          sync.RWMutex
	lastObjects []DetectedObject
	lastFused   float64
}

// New creates a pipeline around a vision detector and an optional sensor
// status source (nil means camera-only compensation).
func New(cfg Config, detector vision.Detector, sensors SensorStatus) *Pipeline {
	p := &Pipeline{
		config:     cfg,
		detector:   detector,
		sensors:    sensors,
		smoother:   orientation.NewSmoother(),
		verticals:  vertical.NewEstimator(),
		stabilizer: stabilize.NewStabilizer(),
	}
	p.smoother.SetLevel(cfg.SmoothingLevel)
	p.stabilizer.SetLevel(cfg.Sensitivity)
	return p
}

// IngestOrientation feeds one raw sample into the smoothing chain. Safe to
// call from the sensor goroutine while a frame pass runs.
func (p *Pipeline) IngestOrientation(s *orientation.Sample) {
	p.smoother.Ingest(s)
}

// DetectFrames runs one full pipeline pass on an encoded frame and returns
// the detected objects with raw, compensated and stabilized tilt. If a pass
// is already in flight the previous results are returned unchanged.
func (p *Pipeline) DetectFrames(frame []byte) []DetectedObject {
	if !p.inFlight.CompareAndSwap(false, true) {
		return p.Objects()
	}
	defer p.inFlight.Store(false)

	p.mu.RLock()
	cfg := p.config
	p.mu.RUnlock()

	segments, err := p.detector.FindLineSegments(frame)
	if err != nil {
		// NoEvidence path: the estimator decays rather than resets.
		log.Debug("line segment detection failed", "err", err)
		segments = nil
	}
	cameraTilt := p.verticals.Update(segments, cfg.FrameHeight)

	deviceTilt := p.smoother.Tilt()
	active := p.sensorFusionActive()
	compensation := fusion.Fuse(deviceTilt, cameraTilt, active)

	quads, err := p.detector.FindQuadrilaterals(frame)
	if err != nil {
		log.Debug("quadrilateral detection failed", "err", err)
		quads = nil
	}

	objects := make([]DetectedObject, 0, len(quads))
	for _, q := range quads {
		bounds := q.Bounds()
		if bounds.Area() < cfg.MinObjectArea {
			continue
		}
		raw, err := geometry.EstimateTilt(q.Corners)
		if err != nil {
			continue
		}

		id := stabilize.BucketSized(bounds.X, bounds.Y, cfg.BucketSize)
		compensated := fusion.Compensate(raw, compensation)

		objects = append(objects, DetectedObject{
			Bounds:          bounds,
			Corners:         q.Corners,
			Area:            bounds.Area(),
			RawTilt:         raw,
			CompensatedTilt: compensated,
			StabilizedTilt:  p.stabilizer.Stabilize(id, compensated),
			Identity:        id,
		})
	}

	p.mu.Lock()
	p.lastObjects = objects
	p.lastFused = compensation
	p.mu.Unlock()

	return objects
}

// Objects returns the results of the most recent completed pass.
func (p *Pipeline) Objects() []DetectedObject {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]DetectedObject, len(p.lastObjects))
	copy(out, p.lastObjects)
	return out
}

// CameraTilt returns the current camera-tilt estimate in degrees.
func (p *Pipeline) CameraTilt() float64 {
	return p.verticals.Tilt()
}

// DeviceTilt returns the current smoothed device tilt in degrees.
func (p *Pipeline) DeviceTilt() float64 {
	return p.smoother.Tilt()
}

// FusedTilt returns the compensation angle used by the last pass.
func (p *Pipeline) FusedTilt() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastFused
}

// SensorFusionActive reports whether the device-tilt term currently
// participates in compensation.
func (p *Pipeline) SensorFusionActive() bool {
	return p.sensorFusionActive()
}

func (p *Pipeline) sensorFusionActive() bool {
	return p.sensors != nil && p.sensors.Supported() && p.sensors.ActiveAndReady()
}

// SetSmoothingLevel adjusts the orientation smoother dial (1-10).
func (p *Pipeline) SetSmoothingLevel(level int) {
	p.mu.Lock()
	p.config.SmoothingLevel = level
	p.mu.Unlock()
	p.smoother.SetLevel(level)
}

// SetSensitivity adjusts the temporal stabilizer dial (1-10).
func (p *Pipeline) SetSensitivity(level int) {
	p.mu.Lock()
	p.config.Sensitivity = level
	p.mu.Unlock()
	p.stabilizer.SetLevel(level)
}

// Reset clears every estimator, as when the camera is repointed at a new
// scene.
func (p *Pipeline) Reset() {
	p.smoother.Reset()
	p.verticals.Reset()
	p.stabilizer.Reset()

	p.mu.Lock()
	p.lastObjects = nil
	p.lastFused = 0
	p.mu.Unlock()
}
