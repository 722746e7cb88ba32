// Package gesture reduces detected hand skeletons to pixel-space
// observations and derives control signals from them.
package gesture

import (
	"image"
	"math"

	"github.com/MoHaMmeDsafwaN451/Hand-gestures-control/internal/detector"
)

// Landmark is a single skeleton point in frame pixel coordinates.
type Landmark struct {
	Index int         // MediaPipe landmark index
	At    image.Point // Position in pixels
}

// Observation is one detected hand reduced to the points the control
// pipeline consumes. ControlPoints feed the value mapper, the named
// joints feed the toggle classifier and the overlay. Joints the detector
// did not report are nil, and ControlPoints holds only the tips it did.
type Observation struct {
	Side          string     // detector.HandLeft or detector.HandRight
	ControlPoints []Landmark // Thumb tip then index tip, when seen
	MiddleTip     *image.Point
	MiddleBase    *image.Point
	Wrist         *image.Point
}

// FromLandmarks projects a detected hand onto frame pixel coordinates.
func FromLandmarks(hand detector.HandLandmarks, width, height int) Observation {
	obs := Observation{Side: hand.Handedness}

	for _, idx := range []int{detector.ThumbTip, detector.IndexTip} {
		if p, ok := hand.Point(idx); ok {
			obs.ControlPoints = append(obs.ControlPoints, Landmark{
				Index: idx,
				At:    toPixels(p, width, height),
			})
		}
	}

	obs.MiddleTip = jointPixels(hand, detector.MiddleTip, width, height)
	obs.MiddleBase = jointPixels(hand, detector.MiddleMCP, width, height)
	obs.Wrist = jointPixels(hand, detector.Wrist, width, height)

	return obs
}

// jointPixels returns the pixel position of one landmark, or nil when the
// detector did not report it.
func jointPixels(hand detector.HandLandmarks, idx, width, height int) *image.Point {
	p, ok := hand.Point(idx)
	if !ok {
		return nil
	}
	px := toPixels(p, width, height)
	return &px
}

// toPixels converts a normalized landmark to frame pixel coordinates,
// rounding to the nearest pixel.
func toPixels(p detector.Point3D, width, height int) image.Point {
	return image.Point{
		X: int(math.Round(p.X * float64(width))),
		Y: int(math.Round(p.Y * float64(height))),
	}
}
