package app

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"github.com/MoHaMmeDsafwaN451/Hand-gestures-control/internal/control"
	"github.com/MoHaMmeDsafwaN451/Hand-gestures-control/internal/gesture"
	"github.com/MoHaMmeDsafwaN451/Hand-gestures-control/internal/overlay"
	"github.com/MoHaMmeDsafwaN451/Hand-gestures-control/internal/server"
)

// runLoop is the main control loop. One tick processes one frame:
// reload check, capture, detection, classify/map/step per channel,
// dispatch, overlay draw, preview publish, window key poll.
//
// The loop owns the camera and the preview window; nothing else touches
// them while it runs. A capture failure ends the loop, which ends the
// app.
func (a *App) runLoop(stop chan struct{}) {
	defer close(a.loopDone)

	logger := a.logger.Named("loop")

	fps := a.frameRate
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	var window *overlay.Window
	if a.showWindow {
		window = overlay.NewWindow("handctl")
		defer window.Close()
	}

	// Tray lines are only rewritten when they change.
	lastBrightnessLine, lastVolumeLine := "", ""

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			// Config reloads land between frames.
			select {
			case <-a.reloadCh:
				logger.Info("Applying reloaded configuration")
				if n := a.config.Camera.FPS; n > 0 && n != fps {
					fps = n
					a.camera.SetFPS(fps)
					ticker.Reset(time.Second / time.Duration(fps))
					logger.Infow("Frame rate updated", "fps", fps)
				}
				a.notifier.SetEnabled(a.config.Notifications)
			default:
			}

			frame, err := a.camera.ReadFrame()
			if err != nil {
				logger.Errorw("Failed to read camera frame, stopping", "error", err)
				a.signalStop()
				return
			}

			statuses := a.processFrame(frame, logger)

			brightnessLine := formatStatusLine(statuses[0])
			volumeLine := formatStatusLine(statuses[1])
			if brightnessLine != lastBrightnessLine || volumeLine != lastVolumeLine {
				a.tray.SetStatus(brightnessLine, volumeLine)
				lastBrightnessLine, lastVolumeLine = brightnessLine, volumeLine
			}

			quit := false
			if window != nil {
				quit = window.Show(frame)
			}
			frame.Close()

			if quit {
				logger.Info("Preview window closed, stopping")
				a.signalStop()
				return
			}
		}
	}
}

// processFrame runs detection and the control sequence on one frame,
// draws the overlay onto it and publishes the preview and status
// snapshots. The returned statuses follow the channel order: brightness
// first, volume second.
func (a *App) processFrame(frame *gocv.Mat, logger *zap.SugaredLogger) []server.ChannelStatus {
	width, height := frame.Cols(), frame.Rows()
	enabled := a.IsEnabled()

	// At most one observation per hand side.
	observed := make(map[string]*gesture.Observation, 2)
	if enabled {
		hands, err := a.detector.Detect(frame)
		if err != nil {
			logger.Warnw("Hand detection failed", "error", err)
		}
		for i := range hands {
			obs := gesture.FromLandmarks(hands[i], width, height)
			observed[obs.Side] = &obs
		}
	}

	infos := make([]overlay.Info, 0, len(a.channels))
	statuses := make([]server.ChannelStatus, 0, len(a.channels))

	for _, ch := range a.channels {
		obs := observed[ch.Side()]

		var active bool
		if obs != nil {
			active = gesture.ToggleActive(*obs, gesture.DefaultToggleThreshold)
			lo, hi := ch.Domain()
			mapped, mappedOK := gesture.PinchValue(*obs, lo, hi)

			out, apply := ch.Step(obs, active, mapped, mappedOK)
			if apply {
				a.dispatch(ch.Kind(), out, logger)
			}
		}

		st := ch.Snapshot()
		infos = append(infos, overlay.Info{Obs: obs, Status: st, Active: active, Anchor: ch.LockAnchor()})
		statuses = append(statuses, server.ChannelStatus{
			Channel:  string(st.Kind),
			Side:     st.Side,
			Locked:   st.Locked,
			HasValue: st.HasValue,
			Value:    st.Value,
			Percent:  st.Percent,
			Seen:     obs != nil,
		})
	}

	overlay.Draw(frame, infos)
	a.publish(frame, statuses)

	return statuses
}

// dispatch applies one channel output. Actuator failures are logged and
// the frame goes on; channel state is already advanced and stays valid.
func (a *App) dispatch(kind control.Kind, out control.Output, logger *zap.SugaredLogger) {
	if err := a.dispatcher.Apply(kind, out.Value); err != nil {
		var actErr *control.ActuatorError
		if errors.As(err, &actErr) {
			logger.Warnw("Failed to apply control value",
				"channel", actErr.Channel,
				"value", actErr.Value,
				"error", actErr.Unwrap())
		} else {
			logger.Warnw("Failed to apply control value", "channel", kind, "error", err)
		}
		return
	}

	if a.verbose {
		logger.Debugw("Applied control value",
			"channel", kind,
			"value", out.Value,
			"locked", out.Locked)
	}
}

// publish pushes the annotated frame and the channel snapshots to the
// reporting server.
func (a *App) publish(frame *gocv.Mat, statuses []server.ChannelStatus) {
	a.server.PublishStatus(statuses)

	if !a.previewEnabled {
		return
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		a.logger.Warnw("Failed to encode preview frame", "error", err)
		return
	}
	data := make([]byte, len(buf.GetBytes()))
	copy(data, buf.GetBytes())
	buf.Close()

	a.server.PublishFrame(data)
}

// formatStatusLine renders a channel status for the tray menu.
func formatStatusLine(st server.ChannelStatus) string {
	if !st.HasValue {
		return "--"
	}
	line := fmt.Sprintf("%d%%", st.Percent)
	if st.Locked {
		line += " (locked)"
	}
	return line
}
