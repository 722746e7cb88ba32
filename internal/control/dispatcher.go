package control

import (
	"fmt"
	"math"

	"github.com/MoHaMmeDsafwaN451/Hand-gestures-control/internal/actuator"
)

// ActuatorError reports a failed attempt to apply a channel value. The
// frame loop logs it and carries on; channel state is untouched.
type ActuatorError struct {
	Channel Kind
	Value   float64
	Err     error
}

func (e *ActuatorError) Error() string {
	return fmt.Sprintf("apply %s=%.2f: %v", e.Channel, e.Value, e.Err)
}

func (e *ActuatorError) Unwrap() error {
	return e.Err
}

// Dispatcher forwards channel outputs to the bound system actuators.
// Dispatch is sequential; the underlying actuator APIs are not assumed
// reentrant.
type Dispatcher struct {
	brightness actuator.Brightness
	volume     actuator.Volume
}

// NewDispatcher creates a dispatcher over the two system actuators.
func NewDispatcher(brightness actuator.Brightness, volume actuator.Volume) *Dispatcher {
	return &Dispatcher{
		brightness: brightness,
		volume:     volume,
	}
}

// Apply forwards one value to the actuator behind kind. Brightness values
// are rounded to a whole percentage, volume values pass through in the
// device's native scale. Failures come back as *ActuatorError.
func (d *Dispatcher) Apply(kind Kind, value float64) error {
	switch kind {
	case Brightness:
		if err := d.brightness.Set(int(math.Round(value))); err != nil {
			return &ActuatorError{Channel: kind, Value: value, Err: err}
		}
	case Volume:
		if err := d.volume.SetLevel(value); err != nil {
			return &ActuatorError{Channel: kind, Value: value, Err: err}
		}
	default:
		return &ActuatorError{Channel: kind, Value: value, Err: fmt.Errorf("unknown channel kind %q", kind)}
	}
	return nil
}
