// Package fusion combines device-sensor tilt with camera-derived tilt into
// the single compensation angle subtracted from every object's raw tilt.
package fusion

// Fixed design weights: the sensor is trusted more for absolute device
// orientation, the camera for the scene-relative vertical reference.
// Tunable only here, not from the UI.
const (
	DeviceWeight = 0.7
	CameraWeight = 0.3
)

// Fuse returns the compensation angle in degrees. When the sensor source is
// active and ready the two estimates blend; otherwise the camera estimate
// stands alone.
func Fuse(deviceTilt, cameraTilt float64, sensorActive bool) float64 {
	if sensorActive {
		return DeviceWeight*deviceTilt + CameraWeight*cameraTilt
	}
	return cameraTilt
}

// Compensate applies a compensation angle to an object's raw tilt.
func Compensate(rawTilt, compensation float64) float64 {
	return rawTilt - compensation
}
