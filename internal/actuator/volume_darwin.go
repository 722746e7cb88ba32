package actuator

import (
	"fmt"
	"math"
	"os/exec"
)

// osaVolume drives the system output volume through AppleScript. The
// native scale is the 0-100 output volume of the sound settings.
type osaVolume struct{}

// NewVolume verifies osascript is available.
func NewVolume() (Volume, error) {
	if _, err := exec.LookPath("osascript"); err != nil {
		return nil, fmt.Errorf("osascript not found: %w", err)
	}
	return &osaVolume{}, nil
}

// Range reports the AppleScript output volume bounds.
func (v *osaVolume) Range() (min, max float64) {
	return 0, 100
}

// SetLevel applies the output volume as a whole number.
func (v *osaVolume) SetLevel(level float64) error {
	level = clampFloat(level, 0, 100)
	script := fmt.Sprintf("set volume output volume %d", int(math.Round(level)))
	return runAppleScript(script)
}

// Close is a no-op; each set is a standalone osascript invocation.
func (v *osaVolume) Close() error {
	return nil
}

// runAppleScript executes one AppleScript statement.
func runAppleScript(script string) error {
	cmd := exec.Command("osascript", "-e", script)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}
