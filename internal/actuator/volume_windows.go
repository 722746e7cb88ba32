package actuator

import (
	"errors"
	"fmt"

	ole "github.com/go-ole/go-ole"
	wca "github.com/moutend/go-wca"
)

// wcaVolume drives the default render endpoint's master volume through
// Windows Core Audio. The native scale is decibels, as reported by the
// endpoint itself.
type wcaVolume struct {
	enumerator *wca.IMMDeviceEnumerator
	endpoint   *wca.IAudioEndpointVolume
	min        float64
	max        float64
}

// NewVolume opens the default audio output endpoint and queries its
// level range.
func NewVolume() (Volume, error) {
	if err := coInitialize(); err != nil {
		return nil, err
	}

	v := &wcaVolume{}

	if err := wca.CoCreateInstance(
		wca.CLSID_MMDeviceEnumerator,
		0,
		wca.CLSCTX_ALL,
		wca.IID_IMMDeviceEnumerator,
		&v.enumerator,
	); err != nil {
		ole.CoUninitialize()
		return nil, fmt.Errorf("create device enumerator: %w", err)
	}

	var device *wca.IMMDevice
	if err := v.enumerator.GetDefaultAudioEndpoint(wca.ERender, wca.EConsole, &device); err != nil {
		v.enumerator.Release()
		ole.CoUninitialize()
		return nil, fmt.Errorf("get default audio endpoint: %w", err)
	}
	defer device.Release()

	if err := device.Activate(wca.IID_IAudioEndpointVolume, wca.CLSCTX_ALL, nil, &v.endpoint); err != nil {
		v.enumerator.Release()
		ole.CoUninitialize()
		return nil, fmt.Errorf("activate endpoint volume: %w", err)
	}

	var minDB, maxDB, stepDB float32
	if err := v.endpoint.GetVolumeRange(&minDB, &maxDB, &stepDB); err != nil {
		v.Close()
		return nil, fmt.Errorf("get volume range: %w", err)
	}
	v.min = float64(minDB)
	v.max = float64(maxDB)

	return v, nil
}

// coInitialize enters an apartment threaded COM context, tolerating the
// E_FALSE that signals the thread already has one.
func coInitialize() error {
	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		const eFalse = 1
		oleError := &ole.OleError{}
		if !errors.As(err, &oleError) || oleError.Code() != eFalse {
			return fmt.Errorf("call CoInitializeEx: %w", err)
		}
	}
	return nil
}

// Range reports the endpoint's decibel bounds.
func (v *wcaVolume) Range() (min, max float64) {
	return v.min, v.max
}

// SetLevel applies a master volume level in decibels.
func (v *wcaVolume) SetLevel(level float64) error {
	level = clampFloat(level, v.min, v.max)
	if err := v.endpoint.SetMasterVolumeLevel(float32(level), nil); err != nil {
		return fmt.Errorf("set master volume level: %w", err)
	}
	return nil
}

// Close releases the COM objects.
func (v *wcaVolume) Close() error {
	if v.endpoint != nil {
		v.endpoint.Release()
		v.endpoint = nil
	}
	if v.enumerator != nil {
		v.enumerator.Release()
		v.enumerator = nil
	}
	ole.CoUninitialize()
	return nil
}
