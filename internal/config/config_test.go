package config

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

type mockNotifier struct {
	titles []string
}

func (n *mockNotifier) Notify(title, message string) {
	n.titles = append(n.titles, title)
}

func newTestConfig() (*Config, *mockNotifier) {
	notifier := &mockNotifier{}
	return New(zap.NewNop().Sugar(), notifier), notifier
}

func TestLoadDefaults(t *testing.T) {
	cfg, _ := newTestConfig()

	if err := cfg.Load(); err != nil {
		t.Fatalf("Load() with no config file: error = %v", err)
	}

	if cfg.Camera.DeviceID != defaultCameraDevice {
		t.Errorf("Camera.DeviceID = %d, want %d", cfg.Camera.DeviceID, defaultCameraDevice)
	}
	if cfg.Camera.Width != defaultCameraWidth || cfg.Camera.Height != defaultCameraHeight {
		t.Errorf("Camera size = %dx%d, want %dx%d",
			cfg.Camera.Width, cfg.Camera.Height, defaultCameraWidth, defaultCameraHeight)
	}
	if cfg.Camera.FPS != defaultCameraFPS {
		t.Errorf("Camera.FPS = %d, want %d", cfg.Camera.FPS, defaultCameraFPS)
	}
	if !cfg.Camera.Mirror {
		t.Errorf("Camera.Mirror = false, want true")
	}
	if cfg.Detector.MinConfidence != defaultDetectorConfidence {
		t.Errorf("Detector.MinConfidence = %v, want %v", cfg.Detector.MinConfidence, defaultDetectorConfidence)
	}
	if cfg.PreviewAddress != defaultPreviewAddress {
		t.Errorf("PreviewAddress = %q, want %q", cfg.PreviewAddress, defaultPreviewAddress)
	}
	if !cfg.ShowWindow || !cfg.Notifications {
		t.Errorf("ShowWindow = %v, Notifications = %v, want both true", cfg.ShowWindow, cfg.Notifications)
	}
}

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "handctl.yaml")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestLoadFromFile(t *testing.T) {
	cfg, _ := newTestConfig()
	cfg.viper.SetConfigFile(writeConfigFile(t, `
camera_device: 2
camera_width: 1280
camera_height: 720
camera_fps: 30
camera_mirror: false
detector_confidence: 0.5
preview_address: ":9000"
show_window: false
`))

	if err := cfg.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Camera.DeviceID != 2 {
		t.Errorf("Camera.DeviceID = %d, want 2", cfg.Camera.DeviceID)
	}
	if cfg.Camera.Width != 1280 || cfg.Camera.Height != 720 {
		t.Errorf("Camera size = %dx%d, want 1280x720", cfg.Camera.Width, cfg.Camera.Height)
	}
	if cfg.Camera.FPS != 30 {
		t.Errorf("Camera.FPS = %d, want 30", cfg.Camera.FPS)
	}
	if cfg.Camera.Mirror {
		t.Errorf("Camera.Mirror = true, want false")
	}
	if cfg.Detector.MinConfidence != 0.5 {
		t.Errorf("Detector.MinConfidence = %v, want 0.5", cfg.Detector.MinConfidence)
	}
	if cfg.PreviewAddress != ":9000" {
		t.Errorf("PreviewAddress = %q, want :9000", cfg.PreviewAddress)
	}
	if cfg.ShowWindow {
		t.Errorf("ShowWindow = true, want false")
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	cfg, _ := newTestConfig()
	cfg.viper.SetConfigFile(writeConfigFile(t, `
camera_fps: -3
detector_confidence: 7
`))

	if err := cfg.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Camera.FPS != defaultCameraFPS {
		t.Errorf("Camera.FPS = %d, want default %d", cfg.Camera.FPS, defaultCameraFPS)
	}
	if cfg.Detector.MinConfidence != defaultDetectorConfidence {
		t.Errorf("Detector.MinConfidence = %v, want default %v",
			cfg.Detector.MinConfidence, defaultDetectorConfidence)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	cfg, notifier := newTestConfig()
	cfg.viper.SetConfigFile(writeConfigFile(t, "camera_fps: [not: valid"))

	if err := cfg.Load(); err == nil {
		t.Fatalf("Load() on malformed YAML: error = nil, want non-nil")
	}
	if len(notifier.titles) == 0 {
		t.Errorf("malformed config did not notify the user")
	}
}

func TestSubscribeToChanges(t *testing.T) {
	cfg, _ := newTestConfig()

	consumer := cfg.SubscribeToChanges()

	// Repeated reload notifications collapse into one pending signal and
	// never block the watcher.
	cfg.onConfigReloaded()
	cfg.onConfigReloaded()

	select {
	case <-consumer:
	default:
		t.Fatalf("no reload signal pending")
	}

	select {
	case <-consumer:
		t.Fatalf("more than one signal pending")
	default:
	}
}
