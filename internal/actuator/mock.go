package actuator

import "sync"

// MockBrightness is a test implementation of the Brightness interface
// that records every applied percentage. Set and Last are safe to call
// from different goroutines; the recording fields may only be read
// directly while nothing is applying.
type MockBrightness struct {
	mu       sync.Mutex
	Percents []int
	Err      error
}

// NewMockBrightness creates a new MockBrightness instance.
func NewMockBrightness() *MockBrightness {
	return &MockBrightness{}
}

// Set records the percentage or returns the configured error.
func (m *MockBrightness) Set(percent int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	m.Percents = append(m.Percents, percent)
	return nil
}

// Close is a no-op for the mock.
func (m *MockBrightness) Close() error {
	return nil
}

// Last returns the most recently applied percentage.
func (m *MockBrightness) Last() (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.Percents) == 0 {
		return 0, false
	}
	return m.Percents[len(m.Percents)-1], true
}

// MockVolume is a test implementation of the Volume interface with a
// configurable device range. SetLevel and Last are safe to call from
// different goroutines.
type MockVolume struct {
	mu     sync.Mutex
	Min    float64
	Max    float64
	Levels []float64
	Err    error
}

// NewMockVolume creates a MockVolume reporting the given device range.
func NewMockVolume(min, max float64) *MockVolume {
	return &MockVolume{Min: min, Max: max}
}

// Range reports the configured device range.
func (m *MockVolume) Range() (min, max float64) {
	return m.Min, m.Max
}

// SetLevel records the level or returns the configured error.
func (m *MockVolume) SetLevel(level float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	m.Levels = append(m.Levels, level)
	return nil
}

// Close is a no-op for the mock.
func (m *MockVolume) Close() error {
	return nil
}

// Last returns the most recently applied level.
func (m *MockVolume) Last() (float64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.Levels) == 0 {
		return 0, false
	}
	return m.Levels[len(m.Levels)-1], true
}
