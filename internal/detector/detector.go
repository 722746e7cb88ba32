package detector

import "gocv.io/x/gocv"

// Detector defines the interface for hand detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns detected hand landmarks,
	// at most one entry per hand side. Returns an empty slice if no hands
	// are visible.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect (default: 2).
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64

	// Mirrored tells the service the frames were flipped horizontally, so
	// that reported handedness matches the user's perspective.
	Mirrored bool

	// ScriptPath overrides the landmark service script location. Empty
	// means auto-discovery.
	ScriptPath string

	// PythonPath overrides the interpreter used to run the service. Empty
	// means auto-discovery with a python3 fallback.
	PythonPath string
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxHands:        2,
		MinConfidence:   0.7,
		MinTrackingConf: 0.5,
		Mirrored:        true,
	}
}
