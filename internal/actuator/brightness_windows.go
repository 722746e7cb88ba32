package actuator

import (
	"fmt"

	ole "github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
)

// wmiBrightness drives the panel backlight through the WMI monitor
// brightness methods. This covers laptop-class internal displays;
// external monitors do not expose the interface.
type wmiBrightness struct {
	locator  *ole.IUnknown
	dispatch *ole.IDispatch
	service  *ole.IDispatch
}

// NewBrightness connects to the root\wmi namespace.
func NewBrightness() (Brightness, error) {
	if err := coInitialize(); err != nil {
		return nil, err
	}

	locator, err := oleutil.CreateObject("WbemScripting.SWbemLocator")
	if err != nil {
		ole.CoUninitialize()
		return nil, fmt.Errorf("create WMI locator: %w", err)
	}

	dispatch, err := locator.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		locator.Release()
		ole.CoUninitialize()
		return nil, fmt.Errorf("query WMI locator dispatch: %w", err)
	}

	serviceRaw, err := oleutil.CallMethod(dispatch, "ConnectServer", nil, `root\wmi`)
	if err != nil {
		dispatch.Release()
		locator.Release()
		ole.CoUninitialize()
		return nil, fmt.Errorf(`connect to root\wmi: %w`, err)
	}

	return &wmiBrightness{
		locator:  locator,
		dispatch: dispatch,
		service:  serviceRaw.ToIDispatch(),
	}, nil
}

// Set applies the percentage to every monitor exposing the WMI
// brightness methods.
func (b *wmiBrightness) Set(percent int) error {
	percent = clampPercent(percent)

	result, err := oleutil.CallMethod(b.service, "ExecQuery", "SELECT * FROM WmiMonitorBrightnessMethods")
	if err != nil {
		return fmt.Errorf("query brightness methods: %w", err)
	}
	methods := result.ToIDispatch()
	defer methods.Release()

	countVar, err := oleutil.GetProperty(methods, "Count")
	if err != nil {
		return fmt.Errorf("count brightness methods: %w", err)
	}
	count := int(countVar.Val)
	if count == 0 {
		return fmt.Errorf("no WMI brightness capable monitor")
	}

	for i := 0; i < count; i++ {
		itemRaw, err := oleutil.CallMethod(methods, "ItemIndex", i)
		if err != nil {
			return fmt.Errorf("get brightness method %d: %w", i, err)
		}
		item := itemRaw.ToIDispatch()
		// WmiSetBrightness takes a timeout in seconds, then the level.
		if _, err := oleutil.CallMethod(item, "WmiSetBrightness", 1, percent); err != nil {
			item.Release()
			return fmt.Errorf("set brightness: %w", err)
		}
		item.Release()
	}

	return nil
}

// Close releases the COM objects.
func (b *wmiBrightness) Close() error {
	if b.service != nil {
		b.service.Release()
		b.service = nil
	}
	if b.dispatch != nil {
		b.dispatch.Release()
		b.dispatch = nil
	}
	if b.locator != nil {
		b.locator.Release()
		b.locator = nil
	}
	ole.CoUninitialize()
	return nil
}
