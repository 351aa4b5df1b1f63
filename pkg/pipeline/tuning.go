package pipeline

// TuningParams is the JSON surface for the runtime-adjustable dials,
// modified through the dashboard API without restarting the leveler.
type TuningParams struct {
	SmoothingLevel int     `json:"smoothing_level"` // Orientation smoother dial (1-10)
	Sensitivity    int     `json:"sensitivity"`     // Temporal stabilizer dial (1-10)
	FrameHeight    float64 `json:"frame_height"`    // Expected frame height (px)
	MinObjectArea  float64 `json:"min_object_area"` // Detection size gate (px²)
	BucketSize     float64 `json:"bucket_size"`     // Identity bucket size (px)
}

// GetTuningParams returns the current dial positions.
func (p *Pipeline) GetTuningParams() TuningParams {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return TuningParams{
		SmoothingLevel: p.config.SmoothingLevel,
		Sensitivity:    p.config.Sensitivity,
		FrameHeight:    p.config.FrameHeight,
		MinObjectArea:  p.config.MinObjectArea,
		BucketSize:     p.config.BucketSize,
	}
}

// SetTuningParams applies non-zero dial values at runtime.
func (p *Pipeline) SetTuningParams(params TuningParams) {
	if params.SmoothingLevel > 0 {
		p.SetSmoothingLevel(params.SmoothingLevel)
	}
	if params.Sensitivity > 0 {
		p.SetSensitivity(params.Sensitivity)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if params.FrameHeight > 0 {
		p.config.FrameHeight = params.FrameHeight
	}
	if params.MinObjectArea > 0 {
		p.config.MinObjectArea = params.MinObjectArea
	}
	if params.BucketSize > 0 {
		p.config.BucketSize = params.BucketSize
	}
}
