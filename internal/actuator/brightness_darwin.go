package actuator

import (
	"fmt"
	"os/exec"
	"strconv"
)

// cliBrightness shells out to the brightness utility, which talks to the
// display services directly.
type cliBrightness struct {
	path string
}

// NewBrightness locates the brightness utility on PATH.
func NewBrightness() (Brightness, error) {
	path, err := exec.LookPath("brightness")
	if err != nil {
		return nil, fmt.Errorf("brightness utility not found (brew install brightness): %w", err)
	}
	return &cliBrightness{path: path}, nil
}

// Set passes the percentage as a 0-1 fraction.
func (b *cliBrightness) Set(percent int) error {
	percent = clampPercent(percent)
	arg := strconv.FormatFloat(float64(percent)/100, 'f', 2, 64)
	cmd := exec.Command(b.path, arg)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}

// Close is a no-op; each set is a standalone invocation.
func (b *cliBrightness) Close() error {
	return nil
}
