package gesture

// DefaultToggleThreshold is the vertical margin, in pixels, by which the
// middle fingertip must clear its base joint before the toggle gesture
// reads active.
const DefaultToggleThreshold = 50

// ToggleActive reports whether the observation shows the lock toggle
// gesture: a middle finger raised more than threshold pixels above its
// base joint. Image y grows downward, so a raised tip has the smaller y.
// An observation missing either joint never reads active.
func ToggleActive(obs Observation, threshold int) bool {
	if obs.MiddleTip == nil || obs.MiddleBase == nil {
		return false
	}
	return obs.MiddleBase.Y-obs.MiddleTip.Y > threshold
}
