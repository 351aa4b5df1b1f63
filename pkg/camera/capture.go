package camera

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// Capture wraps a gocv VideoCapture as a JPEG frame source for the
// pipeline loop.
type Capture struct {
	config Config
	cap    *gocv.VideoCapture
	frame  gocv.Mat
	mu     sync.Mutex
}

// Open opens the configured capture device and applies the resolution.
func Open(cfg Config) (*Capture, error) {
	vc, err := gocv.OpenVideoCapture(cfg.DeviceID)
	if err != nil {
		return nil, fmt.Errorf("open camera %d: %w", cfg.DeviceID, err)
	}

	vc.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	vc.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	vc.Set(gocv.VideoCaptureFPS, float64(cfg.Framerate))

	return &Capture{
		config: cfg,
		cap:    vc,
		frame:  gocv.NewMat(),
	}, nil
}

// CaptureJPEG grabs one frame and returns it JPEG-encoded.
func (c *Capture) CaptureJPEG() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.cap.Read(&c.frame) || c.frame.Empty() {
		return nil, fmt.Errorf("camera %d: no frame", c.config.DeviceID)
	}

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, c.frame,
		[]int{gocv.IMWriteJpegQuality, c.config.Quality})
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	out := make([]byte, len(buf.GetBytes()))
	copy(out, buf.GetBytes())
	return out, nil
}

// Config returns the capture configuration.
func (c *Capture) Config() Config {
	return c.config
}

// Close releases the capture device.
func (c *Capture) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frame.Close()
	return c.cap.Close()
}
