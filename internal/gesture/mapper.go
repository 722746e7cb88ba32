package gesture

import (
	"image"
	"math"
)

// Pinch spread bounds in pixels. Spreads at or below the minimum map to
// the bottom of the target domain, spreads at or above the maximum to
// the top.
const (
	MinPinchDistance = 50.0
	MaxPinchDistance = 220.0
)

// PinchValue maps the spread between the observation's two control points
// onto [domainMin, domainMax]. The second return is false when the
// observation does not carry both control points.
func PinchValue(obs Observation, domainMin, domainMax float64) (float64, bool) {
	if len(obs.ControlPoints) < 2 {
		return 0, false
	}
	spread := PinchDistance(obs)
	return Interpolate(spread, MinPinchDistance, MaxPinchDistance, domainMin, domainMax), true
}

// PinchDistance returns the Euclidean distance in pixels between the first
// two control points, or 0 when fewer than two are present.
func PinchDistance(obs Observation) float64 {
	if len(obs.ControlPoints) < 2 {
		return 0
	}
	return pointDistance(obs.ControlPoints[0].At, obs.ControlPoints[1].At)
}

// Interpolate maps x from [x0, x1] onto [y0, y1] linearly, clamping x to
// the source interval first.
func Interpolate(x, x0, x1, y0, y1 float64) float64 {
	if x <= x0 {
		return y0
	}
	if x >= x1 {
		return y1
	}
	return y0 + (x-x0)*(y1-y0)/(x1-x0)
}

func pointDistance(a, b image.Point) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}
