// Package app wires the camera, hand detector, control channels,
// actuators and reporting surfaces together and runs the frame loop.
package app

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"github.com/MoHaMmeDsafwaN451/Hand-gestures-control/internal/actuator"
	"github.com/MoHaMmeDsafwaN451/Hand-gestures-control/internal/capture"
	"github.com/MoHaMmeDsafwaN451/Hand-gestures-control/internal/config"
	"github.com/MoHaMmeDsafwaN451/Hand-gestures-control/internal/control"
	"github.com/MoHaMmeDsafwaN451/Hand-gestures-control/internal/detector"
	"github.com/MoHaMmeDsafwaN451/Hand-gestures-control/internal/gesture"
	"github.com/MoHaMmeDsafwaN451/Hand-gestures-control/internal/server"
	"github.com/MoHaMmeDsafwaN451/Hand-gestures-control/internal/tray"
)

const (

	// when this is set to anything, handctl won't use a tray icon
	envNoTray = "HANDCTL_NO_TRAY_ICON"
)

// App is the main entity managing access to all sub-components. It runs
// once: Start, then Stop or Run-to-exit.
type App struct {
	logger   *zap.SugaredLogger
	notifier *DesktopNotifier
	config   *config.Config

	camera     capture.Camera
	detector   detector.Detector
	brightness actuator.Brightness
	volume     actuator.Volume

	channels   []*control.Channel
	dispatcher *control.Dispatcher
	server     *server.Server
	tray       *tray.Tray

	// Loop settings fixed at Start; only the frame rate can change on a
	// config reload.
	previewEnabled bool
	showWindow     bool
	frameRate      int

	enabled bool
	verbose bool
	mu      sync.RWMutex

	stopCh         chan struct{}
	loopDone       chan struct{}
	stopped        bool
	shutdownOnce   sync.Once
	watchingConfig bool

	reloadCh chan bool
}

// New creates an App instance, loading configuration in the process.
// Hardware components are initialized lazily in Start so that tests can
// inject replacements first.
func New(logger *zap.SugaredLogger, verbose bool) (*App, error) {
	logger = logger.Named("app")

	notifier, err := NewDesktopNotifier(logger)
	if err != nil {
		logger.Errorw("Failed to create desktop notifier", "error", err)
		return nil, fmt.Errorf("create desktop notifier: %w", err)
	}

	cfg := config.New(logger, notifier)
	if err := cfg.Load(); err != nil {
		logger.Errorw("Failed to load config", "error", err)
		return nil, fmt.Errorf("load config: %w", err)
	}

	notifier.SetEnabled(cfg.Notifications)

	a := &App{
		logger:   logger,
		notifier: notifier,
		config:   cfg,
		server:   server.New(logger),
		tray:     tray.New(),
		enabled:  true,
		verbose:  verbose,
		reloadCh: cfg.SubscribeToChanges(),
	}

	logger.Debug("Created app instance")

	return a, nil
}

// SetEnabled enables or disables gesture processing. While disabled,
// frames are still captured and shown but hands are not processed, so
// channel state (including locks) persists untouched.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether gesture processing is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetCamera replaces the camera before Start. Intended for tests.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// SetDetector replaces the hand detector before Start. Intended for
// tests.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetOutputs replaces both actuators before Start. Intended for tests.
func (a *App) SetOutputs(b actuator.Brightness, v actuator.Volume) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.brightness = b
	a.volume = v
}

// Server returns the reporting surface, usable as an http.Handler.
func (a *App) Server() *server.Server {
	return a.server
}

// SetVersion adds a version string to the tray menu if called before Run.
func (a *App) SetVersion(version string) {
	a.tray.SetVersion(version)
}

// Start initializes any components not injected beforehand, opens the
// camera and begins the frame loop. Initialization failures are fatal:
// the user is notified and the error is returned with everything already
// started torn down again.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running or already stopped
	if a.stopCh != nil || a.stopped {
		return nil
	}

	if a.camera == nil {
		a.camera = capture.NewCamera(capture.Options{
			DeviceID: a.config.Camera.DeviceID,
			Width:    a.config.Camera.Width,
			Height:   a.config.Camera.Height,
			FPS:      a.config.Camera.FPS,
			Mirror:   a.config.Camera.Mirror,
		})
	}
	if err := a.camera.Open(); err != nil {
		a.notifier.Notify("Can't start handctl!",
			"Couldn't open the camera. Make sure it isn't in use by another application.")
		return fmt.Errorf("open camera: %w", err)
	}

	if a.detector == nil {
		dc := detector.DefaultConfig()
		dc.MinConfidence = a.config.Detector.MinConfidence
		dc.ScriptPath = a.config.Detector.ScriptPath
		dc.PythonPath = a.config.Detector.PythonPath
		dc.Mirrored = a.config.Camera.Mirror

		d, err := detector.NewMediaPipeDetector(dc)
		if err != nil {
			a.camera.Close()
			a.notifier.Notify("Can't start handctl!",
				"Couldn't start the hand landmark service. Check that Python and mediapipe are installed.")
			return fmt.Errorf("start hand detector: %w", err)
		}
		a.detector = d
	}

	if a.brightness == nil {
		b, err := actuator.NewBrightness()
		if err != nil {
			a.detector.Close()
			a.camera.Close()
			a.notifier.Notify("Can't start handctl!",
				"Couldn't attach to the display brightness control.")
			return fmt.Errorf("initialize brightness control: %w", err)
		}
		a.brightness = b
	}

	if a.volume == nil {
		v, err := actuator.NewVolume()
		if err != nil {
			a.brightness.Close()
			a.detector.Close()
			a.camera.Close()
			a.notifier.Notify("Can't start handctl!",
				"Couldn't attach to the audio output device.")
			return fmt.Errorf("initialize volume control: %w", err)
		}
		a.volume = v
	}

	// The volume channel works in the device's native level range.
	deviceMin, deviceMax := a.volume.Range()
	a.channels = []*control.Channel{
		control.NewBrightnessChannel(gesture.DefaultToggleThreshold),
		control.NewVolumeChannel(gesture.DefaultToggleThreshold, deviceMin, deviceMax),
	}
	a.dispatcher = control.NewDispatcher(a.brightness, a.volume)

	a.previewEnabled = a.config.PreviewAddress != ""
	a.showWindow = a.config.ShowWindow
	a.frameRate = a.config.Camera.FPS

	if a.previewEnabled {
		a.server.Start(a.config.PreviewAddress)
	}

	a.stopCh = make(chan struct{})
	a.loopDone = make(chan struct{})
	go a.runLoop(a.stopCh)

	a.logger.Infow("Control pipeline started",
		"brightnessSide", detector.HandLeft,
		"volumeSide", detector.HandRight,
		"volumeRange", fmt.Sprintf("[%.2f, %.2f]", deviceMin, deviceMax))

	return nil
}

// Run starts the pipeline and blocks until the app is stopped by a
// signal, the tray, the preview window or a capture failure.
func (a *App) Run() error {
	if err := a.Start(); err != nil {
		return err
	}

	// watch the config file for changes
	a.mu.Lock()
	a.watchingConfig = true
	a.mu.Unlock()
	go a.config.WatchConfigFileChanges()

	a.setupInterruptHandler()

	// decide whether to run with/without tray
	if _, noTraySet := os.LookupEnv(envNoTray); noTraySet {
		a.logger.Debugw("Running without tray icon", "reason", "envvar set")

		<-a.loopDone
		a.shutdown()
		return nil
	}

	a.tray.OnToggle(a.SetEnabled)
	a.tray.OnQuit(a.signalStop)

	// Run blocks on the tray's event loop; the ready callback waits out
	// the frame loop and then dismisses the tray.
	a.tray.Run(func() {
		<-a.loopDone
		a.shutdown()
		a.tray.Quit()
	})

	return nil
}

// Stop halts the frame loop and releases all resources.
func (a *App) Stop() {
	a.mu.RLock()
	done := a.loopDone
	a.mu.RUnlock()

	a.signalStop()
	if done != nil {
		<-done
	}
	a.shutdown()
}

func (a *App) setupInterruptHandler() {
	interruptChannel := make(chan os.Signal, 2)
	signal.Notify(interruptChannel, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-interruptChannel
		a.logger.Debugw("Interrupted", "signal", sig)
		a.signalStop()
	}()
}

// signalStop asks the frame loop to exit. Safe to call more than once.
func (a *App) signalStop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}
}

// shutdown releases everything exactly once, after the frame loop has
// drained.
func (a *App) shutdown() {
	a.shutdownOnce.Do(func() {
		a.logger.Info("Stopping")

		a.mu.Lock()
		a.stopped = true
		watching := a.watchingConfig
		a.mu.Unlock()
		if watching {
			a.config.StopWatchingConfigFile()
		}

		a.server.Stop()

		if a.camera != nil {
			if err := a.camera.Close(); err != nil {
				a.logger.Warnw("Failed to close camera", "error", err)
			}
		}
		if a.detector != nil {
			if err := a.detector.Close(); err != nil {
				a.logger.Warnw("Failed to close hand detector", "error", err)
			}
		}
		if a.brightness != nil {
			if err := a.brightness.Close(); err != nil {
				a.logger.Warnw("Failed to close brightness control", "error", err)
			}
		}
		if a.volume != nil {
			if err := a.volume.Close(); err != nil {
				a.logger.Warnw("Failed to close volume control", "error", err)
			}
		}

		// attempt to sync on exit - this won't necessarily work but can't harm
		a.logger.Sync()
	})
}
