package pipeline

// Config holds the tunable parameters of a pipeline instance.
type Config struct {
	// FrameHeight is the expected frame height in pixels, used to scale
	// the minimum-length gate for architectural verticals.
	FrameHeight float64

	// BucketSize quantizes object positions into stability identities, in
	// pixels.
	BucketSize float64

	// MinObjectArea drops detections too small to be a usable frame
	// candidate (px² of bounding box).
	MinObjectArea float64

	// SmoothingLevel (1-10) drives the orientation smoother dial.
	SmoothingLevel int

	// Sensitivity (1-10) drives the temporal stabilizer dial. The two
	// dials are deliberately independent: one smooths the sensor stream,
	// the other the per-object output.
	Sensitivity int
}

// DefaultConfig returns the recommended configuration for handheld use.
func DefaultConfig() Config {
	return Config{
		FrameHeight:    720,
		BucketSize:     50,
		MinObjectArea:  2000,
		SmoothingLevel: 5,
		Sensitivity:    5,
	}
}

// SteadyConfig favors stability over latency, for tripod-like setups or
// very shaky hands.
func SteadyConfig() Config {
	cfg := DefaultConfig()
	cfg.SmoothingLevel = 2
	cfg.Sensitivity = 2
	return cfg
}

// ResponsiveConfig favors latency over stability, for quick repositioning.
func ResponsiveConfig() Config {
	cfg := DefaultConfig()
	cfg.SmoothingLevel = 9
	cfg.Sensitivity = 8
	return cfg
}
