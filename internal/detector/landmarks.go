// Package detector provides hand-skeleton detection interfaces and types.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Hand side labels as reported by the landmark service.
const (
	HandLeft  = "Left"
	HandRight = "Right"
)

// Point3D is a single landmark position in normalized image coordinates:
// x and y in [0,1] relative to frame width and height, z is the relative
// depth estimate (unused by the control logic, carried from the wire).
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks is one detected hand for one frame. Points holds up to
// NumLandmarks entries in MediaPipe index order; a shorter slice means the
// trailing landmarks were not observed this frame. Instances are built
// fresh per frame and never reused across frames.
type HandLandmarks struct {
	Points     []Point3D `json:"points"`
	Handedness string    `json:"handedness"` // HandLeft or HandRight
	Score      float64   `json:"score"`
}

// Point returns the landmark at index i and whether it was observed.
func (h *HandLandmarks) Point(i int) (Point3D, bool) {
	if h == nil || i < 0 || i >= len(h.Points) {
		return Point3D{}, false
	}
	return h.Points[i], true
}

// Complete reports whether all NumLandmarks landmarks were observed.
func (h *HandLandmarks) Complete() bool {
	return h != nil && len(h.Points) >= NumLandmarks
}
