package control

import (
	"errors"
	"testing"

	"github.com/MoHaMmeDsafwaN451/Hand-gestures-control/internal/actuator"
)

func TestDispatcherApply(t *testing.T) {
	brightness := actuator.NewMockBrightness()
	volume := actuator.NewMockVolume(-65.25, 0)
	d := NewDispatcher(brightness, volume)

	if err := d.Apply(Brightness, 49.6); err != nil {
		t.Fatalf("Apply(brightness) error = %v", err)
	}
	if got, _ := brightness.Last(); got != 50 {
		t.Errorf("brightness percent = %d, want 50 (rounded)", got)
	}

	if err := d.Apply(Volume, -12.75); err != nil {
		t.Fatalf("Apply(volume) error = %v", err)
	}
	if got, _ := volume.Last(); got != -12.75 {
		t.Errorf("volume level = %v, want -12.75 unrounded", got)
	}
}

func TestDispatcherActuatorError(t *testing.T) {
	sentinel := errors.New("backlight missing")
	brightness := actuator.NewMockBrightness()
	brightness.Err = sentinel
	d := NewDispatcher(brightness, actuator.NewMockVolume(0, 100))

	err := d.Apply(Brightness, 30)
	if err == nil {
		t.Fatalf("Apply() error = nil, want *ActuatorError")
	}

	var actErr *ActuatorError
	if !errors.As(err, &actErr) {
		t.Fatalf("error %v is not an *ActuatorError", err)
	}
	if actErr.Channel != Brightness {
		t.Errorf("ActuatorError.Channel = %s, want %s", actErr.Channel, Brightness)
	}
	if actErr.Value != 30 {
		t.Errorf("ActuatorError.Value = %v, want 30", actErr.Value)
	}
	if !errors.Is(err, sentinel) {
		t.Errorf("errors.Is() = false, want the wrapped cause to match")
	}
}

func TestDispatcherUnknownKind(t *testing.T) {
	d := NewDispatcher(actuator.NewMockBrightness(), actuator.NewMockVolume(0, 100))

	err := d.Apply(Kind("contrast"), 10)
	var actErr *ActuatorError
	if !errors.As(err, &actErr) {
		t.Fatalf("Apply(unknown kind) error = %v, want *ActuatorError", err)
	}
}
