// Package camera provides runtime-configurable frame acquisition for
// go-leveler. This follows the same pattern as pkg/pipeline for tunable
// parameters.
package camera

import "fmt"

// Config holds the acquisition parameters. These can be modified via the
// camera API at runtime.
type Config struct {
	DeviceID  int `json:"device_id"` // Capture device index
	Width     int `json:"width"`     // Frame width in pixels
	Height    int `json:"height"`    // Frame height in pixels
	Framerate int `json:"framerate"` // Target FPS for the pipeline loop
	Quality   int `json:"quality"`   // JPEG quality 1-100
}

// DefaultConfig returns the recommended configuration: 720p keeps corner
// geometry accurate without starving the Hough transform of pixels.
func DefaultConfig() Config {
	return Config{
		DeviceID:  0,
		Width:     1280,
		Height:    720,
		Framerate: 15,
		Quality:   85,
	}
}

// LowLatencyConfig trades resolution for frame rate.
func LowLatencyConfig() Config {
	cfg := DefaultConfig()
	cfg.Width = 640
	cfg.Height = 480
	cfg.Framerate = 30
	return cfg
}

// HighDetailConfig trades frame rate for resolution, useful when frames
// hang far from the camera.
func HighDetailConfig() Config {
	cfg := DefaultConfig()
	cfg.Width = 1920
	cfg.Height = 1080
	cfg.Framerate = 10
	return cfg
}

// Validate returns the list of problems with the config, empty when valid.
func (c Config) Validate() []string {
	var errs []string
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Sprintf("invalid resolution %dx%d", c.Width, c.Height))
	}
	if c.Framerate <= 0 || c.Framerate > 60 {
		errs = append(errs, fmt.Sprintf("framerate %d out of range 1-60", c.Framerate))
	}
	if c.Quality < 1 || c.Quality > 100 {
		errs = append(errs, fmt.Sprintf("quality %d out of range 1-100", c.Quality))
	}
	return errs
}
