package vision

import (
	"fmt"
	"image"
	"math"
	"sync"

	"gocv.io/x/gocv"
)

// OpenCVDetector implements Detector using classical OpenCV primitives:
// Canny edges and contour approximation for quads, probabilistic Hough for
// line segments. No model files required.
type OpenCVDetector struct {
	config Config
	mu     sync.Mutex // Protects Mat pipelines
}

// NewOpenCV creates an OpenCV-backed detector.
func NewOpenCV(cfg Config) *OpenCVDetector {
	return &OpenCVDetector{config: cfg}
}

// FindQuadrilaterals finds convex four-cornered contours in the JPEG image.
func (d *OpenCVDetector) FindQuadrilaterals(jpeg []byte) ([]Quadrilateral, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	edges, err := d.edgeMap(jpeg)
	if err != nil {
		return nil, err
	}
	defer edges.Close()

	contours := gocv.FindContours(edges, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var quads []Quadrilateral
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)

		perimeter := gocv.ArcLength(contour, true)
		if perimeter <= 0 {
			continue
		}
		approx := gocv.ApproxPolyDP(contour, d.config.ApproxEpsilon*perimeter, true)

		// Picture frames read as convex quads. Slightly over-approximated
		// contours (5 vertices) still carry usable corners, so accept 4-5.
		if approx.Size() < 4 || approx.Size() > 5 ||
			gocv.ContourArea(approx) < d.config.MinQuadArea ||
			!gocv.IsContourConvex(approx) {
			approx.Close()
			continue
		}

		corners := make([]Point, 0, approx.Size())
		for _, p := range approx.ToPoints() {
			corners = append(corners, Point{X: float64(p.X), Y: float64(p.Y)})
		}
		approx.Close()

		quads = append(quads, Quadrilateral{Corners: corners})
	}

	return quads, nil
}

// FindLineSegments finds straight edges in the JPEG image via probabilistic
// Hough transform on the Canny edge map.
func (d *OpenCVDetector) FindLineSegments(jpeg []byte) ([]LineSegment, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	edges, err := d.edgeMap(jpeg)
	if err != nil {
		return nil, err
	}
	defer edges.Close()

	lines := gocv.NewMat()
	defer lines.Close()
	gocv.HoughLinesPWithParams(edges, &lines,
		1, math.Pi/180,
		d.config.HoughThreshold,
		float32(d.config.HoughMinLength),
		float32(d.config.HoughMaxLineGap))

	segments := make([]LineSegment, 0, lines.Rows())
	for r := 0; r < lines.Rows(); r++ {
		v := lines.GetVeciAt(r, 0)
		if len(v) < 4 {
			continue
		}
		segments = append(segments, LineSegment{
			P1: Point{X: float64(v[0]), Y: float64(v[1])},
			P2: Point{X: float64(v[2]), Y: float64(v[3])},
		})
	}

	return segments, nil
}

// edgeMap decodes the JPEG and runs grayscale → blur → Canny.
// Caller owns the returned Mat.
func (d *OpenCVDetector) edgeMap(jpeg []byte) (gocv.Mat, error) {
	img, err := gocv.IMDecode(jpeg, gocv.IMReadColor)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("decode image: %w", err)
	}
	defer img.Close()

	if img.Empty() {
		return gocv.Mat{}, fmt.Errorf("empty image")
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	blur := gocv.NewMat()
	defer blur.Close()
	gocv.GaussianBlur(gray, &blur, image.Pt(5, 5), 0, 0, gocv.BorderDefault)

	edges := gocv.NewMat()
	gocv.Canny(blur, &edges, float32(d.config.CannyLow), float32(d.config.CannyHigh))

	return edges, nil
}

// Close releases detector resources. The OpenCV backend holds no persistent
// Mats, so this is a no-op kept for Detector symmetry.
func (d *OpenCVDetector) Close() error {
	return nil
}
