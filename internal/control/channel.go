// Package control holds the per-hand control channels and the dispatcher
// that forwards their output to the system actuators.
package control

import (
	"image"
	"math"

	"github.com/MoHaMmeDsafwaN451/Hand-gestures-control/internal/detector"
	"github.com/MoHaMmeDsafwaN451/Hand-gestures-control/internal/gesture"
)

// Kind identifies a control channel.
type Kind string

const (
	// Brightness is the display backlight channel, bound to the left hand.
	Brightness Kind = "brightness"
	// Volume is the audio output channel, bound to the right hand.
	Volume Kind = "volume"
)

// Output is one frame's decision for a channel.
type Output struct {
	Value  float64 // Value to apply, in the channel's domain
	Locked bool    // Whether the value is held rather than live
}

// Status is a point-in-time view of a channel for reporting surfaces
// (overlay, tray, status endpoint). It never exposes internal state that
// the frame loop could mutate mid-read.
type Status struct {
	Kind     Kind
	Side     string
	Locked   bool
	HasValue bool
	Value    float64
	Percent  int // Value's position inside the domain, 0-100
}

// Channel debounces one hand's observations into values for a single
// system setting. It is created once at startup and stepped exactly once
// per frame by the frame loop; it is not safe for concurrent use.
type Channel struct {
	kind      Kind
	side      string
	domainMin float64
	domainMax float64
	threshold int

	locked           bool
	heldValue        float64
	hasHeld          bool
	gestureWasActive bool
	lockAnchor       *image.Point
}

// NewChannel creates a channel bound to one hand side with the given
// domain range and toggle threshold in pixels.
func NewChannel(kind Kind, side string, domainMin, domainMax float64, threshold int) *Channel {
	return &Channel{
		kind:      kind,
		side:      side,
		domainMin: domainMin,
		domainMax: domainMax,
		threshold: threshold,
	}
}

// NewBrightnessChannel returns the display brightness channel, bound to
// the left hand with a fixed 0-100 percent domain.
func NewBrightnessChannel(threshold int) *Channel {
	return NewChannel(Brightness, detector.HandLeft, 0, 100, threshold)
}

// NewVolumeChannel returns the audio volume channel, bound to the right
// hand with the device-reported level range.
func NewVolumeChannel(threshold int, deviceMin, deviceMax float64) *Channel {
	return NewChannel(Volume, detector.HandRight, deviceMin, deviceMax, threshold)
}

// Kind returns the channel's identity.
func (c *Channel) Kind() Kind { return c.kind }

// Side returns the hand side the channel listens to.
func (c *Channel) Side() string { return c.side }

// Domain returns the channel's value range.
func (c *Channel) Domain() (min, max float64) { return c.domainMin, c.domainMax }

// Observe runs the toggle classifier and the value mapper on one frame's
// observation, then advances the state machine. Pass nil when the hand
// was not seen this frame.
func (c *Channel) Observe(obs *gesture.Observation) (Output, bool) {
	if obs == nil || len(obs.ControlPoints) == 0 {
		return Output{}, false
	}
	active := gesture.ToggleActive(*obs, c.threshold)
	mapped, mappedOK := gesture.PinchValue(*obs, c.domainMin, c.domainMax)
	return c.Step(obs, active, mapped, mappedOK)
}

// Step advances the state machine by one frame. A frame with no control
// points is a skipped frame: no toggle, no value emission, no edge
// tracking. The boolean return reports whether Output carries a value
// the dispatcher should apply.
func (c *Channel) Step(obs *gesture.Observation, gestureActive bool, mapped float64, mappedOK bool) (Output, bool) {
	if obs == nil || len(obs.ControlPoints) == 0 {
		return Output{}, false
	}

	// Toggle only on the rising edge of the gesture signal. Holding the
	// gesture does not re-toggle and releasing it does not revert.
	if gestureActive && !c.gestureWasActive {
		c.locked = !c.locked
		if c.locked {
			// Freeze the value seen at the toggle instant. When the
			// mapper has nothing this frame the last live value stands.
			if mappedOK {
				c.heldValue = mapped
				c.hasHeld = true
			}
			if obs.MiddleTip != nil {
				anchor := *obs.MiddleTip
				c.lockAnchor = &anchor
			}
		} else {
			c.lockAnchor = nil
		}
	}
	c.gestureWasActive = gestureActive

	if c.locked {
		if !c.hasHeld {
			return Output{Locked: true}, false
		}
		return Output{Value: c.heldValue, Locked: true}, true
	}

	if !mappedOK {
		return Output{}, false
	}
	c.heldValue = mapped
	c.hasHeld = true
	return Output{Value: mapped}, true
}

// LockAnchor returns the pixel position captured at the last lock
// transition, or nil while unlocked. Overlay use only.
func (c *Channel) LockAnchor() *image.Point {
	if c.lockAnchor == nil {
		return nil
	}
	anchor := *c.lockAnchor
	return &anchor
}

// Snapshot reports the channel's current state.
func (c *Channel) Snapshot() Status {
	s := Status{
		Kind:     c.kind,
		Side:     c.side,
		Locked:   c.locked,
		HasValue: c.hasHeld,
	}
	if c.hasHeld {
		s.Value = c.heldValue
		s.Percent = int(math.Round(gesture.Interpolate(c.heldValue, c.domainMin, c.domainMax, 0, 100)))
	}
	return s
}
