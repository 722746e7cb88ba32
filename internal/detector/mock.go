package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results, including swapping
// them while a pipeline is running.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandLandmarks
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// PinchHandLandmarks returns a preset hand with the thumb and index tips
// level with each other and separated horizontally by spread (normalized
// units, so the pixel distance is spread times the frame width). The middle
// finger is folded, so the toggle gesture is inactive.
func PinchHandLandmarks(handedness string, spread float64) HandLandmarks {
	h := baseHandLandmarks(handedness)

	h.Points[ThumbTip] = Point3D{X: 0.5 - spread/2, Y: 0.5, Z: 0.0}
	h.Points[IndexTip] = Point3D{X: 0.5 + spread/2, Y: 0.5, Z: 0.0}

	// Folded middle finger: tip sits below its base joint.
	h.Points[MiddleMCP] = Point3D{X: 0.5, Y: 0.62, Z: 0.0}
	h.Points[MiddlePIP] = Point3D{X: 0.5, Y: 0.64, Z: -0.02}
	h.Points[MiddleDIP] = Point3D{X: 0.5, Y: 0.65, Z: -0.03}
	h.Points[MiddleTip] = Point3D{X: 0.5, Y: 0.66, Z: -0.03}

	return h
}

// RaisedMiddleHandLandmarks returns a preset hand like PinchHandLandmarks
// but with the middle finger extended well above its base joint, so the
// toggle gesture reads active at any reasonable frame size.
func RaisedMiddleHandLandmarks(handedness string, spread float64) HandLandmarks {
	h := PinchHandLandmarks(handedness, spread)

	h.Points[MiddleMCP] = Point3D{X: 0.5, Y: 0.62, Z: 0.0}
	h.Points[MiddlePIP] = Point3D{X: 0.5, Y: 0.50, Z: 0.0}
	h.Points[MiddleDIP] = Point3D{X: 0.5, Y: 0.40, Z: 0.0}
	h.Points[MiddleTip] = Point3D{X: 0.5, Y: 0.30, Z: 0.0}

	return h
}

// baseHandLandmarks fills a complete 21-point hand with a neutral pose;
// preset builders overwrite the joints they care about.
func baseHandLandmarks(handedness string) HandLandmarks {
	h := HandLandmarks{
		Points:     make([]Point3D, NumLandmarks),
		Handedness: handedness,
		Score:      0.95,
	}

	h.Points[Wrist] = Point3D{X: 0.5, Y: 0.85, Z: 0.0}

	h.Points[ThumbCMC] = Point3D{X: 0.44, Y: 0.78, Z: 0.0}
	h.Points[ThumbMCP] = Point3D{X: 0.40, Y: 0.70, Z: 0.0}
	h.Points[ThumbIP] = Point3D{X: 0.38, Y: 0.62, Z: 0.0}
	h.Points[ThumbTip] = Point3D{X: 0.37, Y: 0.55, Z: 0.0}

	h.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.64, Z: 0.0}
	h.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.54, Z: 0.0}
	h.Points[IndexDIP] = Point3D{X: 0.58, Y: 0.48, Z: 0.0}
	h.Points[IndexTip] = Point3D{X: 0.58, Y: 0.42, Z: 0.0}

	h.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.62, Z: 0.0}
	h.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.52, Z: 0.0}
	h.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.44, Z: 0.0}
	h.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.38, Z: 0.0}

	h.Points[RingMCP] = Point3D{X: 0.45, Y: 0.64, Z: 0.0}
	h.Points[RingPIP] = Point3D{X: 0.44, Y: 0.55, Z: 0.0}
	h.Points[RingDIP] = Point3D{X: 0.43, Y: 0.48, Z: 0.0}
	h.Points[RingTip] = Point3D{X: 0.43, Y: 0.43, Z: 0.0}

	h.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.67, Z: 0.0}
	h.Points[PinkyPIP] = Point3D{X: 0.38, Y: 0.60, Z: 0.0}
	h.Points[PinkyDIP] = Point3D{X: 0.37, Y: 0.55, Z: 0.0}
	h.Points[PinkyTip] = Point3D{X: 0.36, Y: 0.51, Z: 0.0}

	return h
}
