// Package config loads and watches the handctl configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Notifier delivers human-facing messages about configuration events.
type Notifier interface {
	Notify(title, message string)
}

// Config provides application-wide access to configuration fields, as
// well as loading and file watching logic for the configuration file.
// The control constants (toggle threshold, pinch source range) are
// compile-time tunables, not configuration keys.
type Config struct {
	Camera struct {
		DeviceID int
		Width    int
		Height   int
		FPS      int
		Mirror   bool
	}

	Detector struct {
		MinConfidence float64
		ScriptPath    string
		PythonPath    string
	}

	PreviewAddress string
	ShowWindow     bool
	Notifications  bool

	logger             *zap.SugaredLogger
	notifier           Notifier
	stopWatcherChannel chan bool

	reloadConsumers []chan bool

	viper *viper.Viper
}

const (
	configName     = "handctl"
	configType     = "yaml"
	configFilepath = "handctl.yaml"

	envPrefix = "handctl"

	configKeyCameraDevice       = "camera_device"
	configKeyCameraWidth        = "camera_width"
	configKeyCameraHeight       = "camera_height"
	configKeyCameraFPS          = "camera_fps"
	configKeyCameraMirror       = "camera_mirror"
	configKeyDetectorScript     = "detector_script"
	configKeyDetectorPython     = "detector_python"
	configKeyDetectorConfidence = "detector_confidence"
	configKeyPreviewAddress     = "preview_address"
	configKeyShowWindow         = "show_window"
	configKeyNotifications      = "notifications"

	defaultCameraDevice       = 0
	defaultCameraWidth        = 640
	defaultCameraHeight       = 480
	defaultCameraFPS          = 15
	defaultDetectorConfidence = 0.7
	defaultPreviewAddress     = ":8080"
)

// New creates a config instance and sets up the viper instance backing
// it. The file is searched in the working directory and ~/.handctl.
func New(logger *zap.SugaredLogger, notifier Notifier) *Config {
	logger = logger.Named("config")

	cfg := &Config{
		logger:             logger,
		notifier:           notifier,
		reloadConsumers:    []chan bool{},
		stopWatcherChannel: make(chan bool),
	}

	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".handctl"))
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault(configKeyCameraDevice, defaultCameraDevice)
	v.SetDefault(configKeyCameraWidth, defaultCameraWidth)
	v.SetDefault(configKeyCameraHeight, defaultCameraHeight)
	v.SetDefault(configKeyCameraFPS, defaultCameraFPS)
	v.SetDefault(configKeyCameraMirror, true)
	v.SetDefault(configKeyDetectorScript, "")
	v.SetDefault(configKeyDetectorPython, "")
	v.SetDefault(configKeyDetectorConfidence, defaultDetectorConfidence)
	v.SetDefault(configKeyPreviewAddress, defaultPreviewAddress)
	v.SetDefault(configKeyShowWindow, true)
	v.SetDefault(configKeyNotifications, true)

	cfg.viper = v

	logger.Debug("Created config instance")

	return cfg
}

// Load reads the config file from disk. A missing file is fine, the
// defaults stand; a malformed one is an error.
func (cfg *Config) Load() error {
	cfg.logger.Debugw("Loading config", "path", configFilepath)

	if err := cfg.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			cfg.logger.Debug("No config file found, using defaults")
		} else {
			cfg.logger.Warnw("Failed to read config", "error", err)

			if strings.Contains(err.Error(), "yaml:") {
				cfg.notifier.Notify("Invalid configuration!",
					fmt.Sprintf("Please make sure %s is in a valid YAML format.", configFilepath))
			} else {
				cfg.notifier.Notify("Error loading configuration!", "Please check the logs for more details.")
			}

			return fmt.Errorf("read config: %w", err)
		}
	}

	cfg.populateFromViper()

	cfg.logger.Info("Loaded config successfully")
	cfg.logger.Infow("Config values",
		"camera", cfg.Camera,
		"detector", cfg.Detector,
		"previewAddress", cfg.PreviewAddress,
		"showWindow", cfg.ShowWindow)

	return nil
}

// SubscribeToChanges allows external components to receive updates when
// the config is reloaded. The channel carries at most one pending signal;
// consumers poll it at a point where reconfiguring is safe.
func (cfg *Config) SubscribeToChanges() chan bool {
	c := make(chan bool, 1)
	cfg.reloadConsumers = append(cfg.reloadConsumers, c)

	return c
}

// WatchConfigFileChanges starts watching for configuration file changes
// and attempts reloading the config when they happen. It blocks until
// StopWatchingConfigFile is called.
func (cfg *Config) WatchConfigFileChanges() {
	cfg.logger.Debugw("Starting to watch config file for changes", "path", configFilepath)

	const (
		minTimeBetweenReloadAttempts = time.Millisecond * 500
		delayBetweenEventAndReload   = time.Millisecond * 50
	)

	lastAttemptedReload := time.Now()

	cfg.viper.WatchConfig()
	cfg.viper.OnConfigChange(func(event fsnotify.Event) {
		if event.Op&fsnotify.Write == fsnotify.Write {
			now := time.Now()

			// Many editors write a file twice; ignore the echo.
			if lastAttemptedReload.Add(minTimeBetweenReloadAttempts).Before(now) {
				cfg.logger.Debugw("Config file modified, attempting reload", "event", event)

				// Let the editor finish flushing to disk.
				<-time.After(delayBetweenEventAndReload)

				if err := cfg.Load(); err != nil {
					cfg.logger.Warnw("Failed to reload config file", "error", err)
				} else {
					cfg.logger.Info("Reloaded config successfully")
					cfg.notifier.Notify("Configuration reloaded!", "Your changes have been applied.")

					cfg.onConfigReloaded()
				}

				lastAttemptedReload = now
			}
		}
	})

	<-cfg.stopWatcherChannel
	cfg.logger.Debug("Stopping config file watcher")
	cfg.viper.OnConfigChange(nil)
}

// StopWatchingConfigFile signals the filesystem watcher to stop.
func (cfg *Config) StopWatchingConfigFile() {
	cfg.stopWatcherChannel <- true
}

func (cfg *Config) populateFromViper() {
	cfg.Camera.DeviceID = cfg.viper.GetInt(configKeyCameraDevice)
	cfg.Camera.Width = cfg.viper.GetInt(configKeyCameraWidth)
	cfg.Camera.Height = cfg.viper.GetInt(configKeyCameraHeight)
	cfg.Camera.Mirror = cfg.viper.GetBool(configKeyCameraMirror)

	cfg.Camera.FPS = cfg.viper.GetInt(configKeyCameraFPS)
	if cfg.Camera.FPS <= 0 {
		cfg.logger.Warnw("Invalid FPS specified, using default value",
			"key", configKeyCameraFPS,
			"invalidValue", cfg.Camera.FPS,
			"defaultValue", defaultCameraFPS)

		cfg.Camera.FPS = defaultCameraFPS
	}

	cfg.Detector.ScriptPath = cfg.viper.GetString(configKeyDetectorScript)
	cfg.Detector.PythonPath = cfg.viper.GetString(configKeyDetectorPython)

	cfg.Detector.MinConfidence = cfg.viper.GetFloat64(configKeyDetectorConfidence)
	if cfg.Detector.MinConfidence <= 0 || cfg.Detector.MinConfidence > 1 {
		cfg.logger.Warnw("Invalid detector confidence, using default value",
			"key", configKeyDetectorConfidence,
			"invalidValue", cfg.Detector.MinConfidence,
			"defaultValue", defaultDetectorConfidence)

		cfg.Detector.MinConfidence = defaultDetectorConfidence
	}

	cfg.PreviewAddress = cfg.viper.GetString(configKeyPreviewAddress)
	cfg.ShowWindow = cfg.viper.GetBool(configKeyShowWindow)
	cfg.Notifications = cfg.viper.GetBool(configKeyNotifications)

	cfg.logger.Debug("Populated config fields from viper")
}

func (cfg *Config) onConfigReloaded() {
	cfg.logger.Debug("Notifying consumers about configuration reload")

	for _, consumer := range cfg.reloadConsumers {
		select {
		case consumer <- true:
		default:
		}
	}
}
