// Package tray provides the system tray interface for the hand gesture
// controller.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray is the system tray menu: a processing toggle, one status line per
// control channel and a quit item.
type Tray struct {
	onToggle func(enabled bool)
	onQuit   func()
	enabled  bool
	ready    func()
	version  string
	mu       sync.RWMutex

	// Menu items stored for later updates
	menuToggle     *systray.MenuItem
	menuBrightness *systray.MenuItem
	menuVolume     *systray.MenuItem
}

// New creates a new Tray instance with processing enabled by default.
func New() *Tray {
	return &Tray{
		enabled: true,
	}
}

// OnToggle sets the callback invoked when the enabled state is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnQuit sets the callback invoked when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// SetVersion adds a version line to the menu if called before Run.
func (t *Tray) SetVersion(version string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.version = version
}

// Run starts the system tray and blocks until Quit is called. The ready
// callback runs once the menu is built.
func (t *Tray) Run(ready func()) {
	t.ready = ready
	systray.Run(t.onReady, t.onExit)
}

// Quit closes the tray menu and unblocks Run.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady sets up the menu structure. The frame loop may already be
// calling SetStatus, so the item fields are published under the lock.
func (t *Tray) onReady() {
	systray.SetTitle("handctl")
	systray.SetTooltip("Hand gesture control")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem("● Enabled", "Pause or resume gesture control")
	systray.AddSeparator()

	t.menuBrightness = systray.AddMenuItem("Brightness: --", "Left hand channel")
	t.menuBrightness.Disable()
	t.menuVolume = systray.AddMenuItem("Volume: --", "Right hand channel")
	t.menuVolume.Disable()

	if t.version != "" {
		systray.AddSeparator()
		versionInfo := systray.AddMenuItem(t.version, "")
		versionInfo.Disable()
	}

	menuToggle := t.menuToggle
	t.mu.Unlock()

	systray.AddSeparator()
	menuQuit := systray.AddMenuItem("Quit", "Stop handctl")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()

	if t.ready != nil {
		t.ready()
	}
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {
}

// handleToggle flips the enabled state and notifies the callback.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	if enabled {
		t.menuToggle.SetTitle("● Enabled")
	} else {
		t.menuToggle.SetTitle("○ Paused")
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

// handleQuit notifies the callback, which owns the shutdown sequence and
// closes the tray once the pipeline has drained. Without a callback the
// tray quits directly.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
		return
	}

	systray.Quit()
}

// SetStatus updates the per-channel status lines in the menu.
func (t *Tray) SetStatus(brightness, volume string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuBrightness != nil {
		if brightness == "" {
			brightness = "--"
		}
		t.menuBrightness.SetTitle("Brightness: " + brightness)
	}
	if t.menuVolume != nil {
		if volume == "" {
			volume = "--"
		}
		t.menuVolume.SetTitle("Volume: " + volume)
	}
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}
