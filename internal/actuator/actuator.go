// Package actuator wraps the OS-level setters for display brightness and
// audio output volume behind narrow interfaces, one implementation per
// platform.
package actuator

// Brightness sets the display backlight level.
type Brightness interface {
	// Set applies a brightness percentage. Values outside [0, 100] are
	// clamped.
	Set(percent int) error
	Close() error
}

// Volume sets the audio output level in the device's native scale.
type Volume interface {
	// Range reports the device's level bounds, queried once at
	// initialization. The scale is platform specific and not
	// necessarily 0-100.
	Range() (min, max float64)
	// SetLevel applies a level in the device's native scale. Values
	// outside Range are clamped.
	SetLevel(level float64) error
	Close() error
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
