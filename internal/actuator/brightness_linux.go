package actuator

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const backlightRoot = "/sys/class/backlight"

// sysfsBrightness writes the kernel backlight interface directly. It
// binds to the first device under /sys/class/backlight and scales
// percentages to the device's max_brightness.
type sysfsBrightness struct {
	devicePath string
	max        int
}

// NewBrightness locates a backlight device and reads its maximum level.
func NewBrightness() (Brightness, error) {
	entries, err := os.ReadDir(backlightRoot)
	if err != nil {
		return nil, fmt.Errorf("list backlight devices: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no backlight device under %s", backlightRoot)
	}

	devicePath := filepath.Join(backlightRoot, entries[0].Name())
	raw, err := os.ReadFile(filepath.Join(devicePath, "max_brightness"))
	if err != nil {
		return nil, fmt.Errorf("read max_brightness: %w", err)
	}
	max, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return nil, fmt.Errorf("parse max_brightness: %w", err)
	}
	if max <= 0 {
		return nil, fmt.Errorf("invalid max_brightness %d", max)
	}

	return &sysfsBrightness{devicePath: devicePath, max: max}, nil
}

// Set scales the percentage to the device's level range and writes it.
func (b *sysfsBrightness) Set(percent int) error {
	percent = clampPercent(percent)
	level := int(math.Round(float64(percent) / 100 * float64(b.max)))
	value := strconv.Itoa(level)
	if err := os.WriteFile(filepath.Join(b.devicePath, "brightness"), []byte(value), 0644); err != nil {
		return fmt.Errorf("write brightness: %w", err)
	}
	return nil
}

// Close is a no-op; sysfs needs no teardown.
func (b *sysfsBrightness) Close() error {
	return nil
}
