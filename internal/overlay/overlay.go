// Package overlay draws control feedback onto captured frames and owns
// the preview window.
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"gocv.io/x/gocv"

	"github.com/MoHaMmeDsafwaN451/Hand-gestures-control/internal/control"
	"github.com/MoHaMmeDsafwaN451/Hand-gestures-control/internal/gesture"
)

// Drawing palette. gocv maps RGBA to OpenCV's channel order itself.
var (
	liveColor   = color.RGBA{G: 255}         // green
	lockedColor = color.RGBA{R: 255}         // red
	pointColor  = color.RGBA{R: 255, G: 255} // yellow tips
	lineColor   = color.RGBA{R: 255, G: 255, B: 255}
)

const (
	controlPointRadius = 8
	midpointRadius     = 5
	lockBoxHalf        = 20
)

// Info carries one channel's drawable state for a single frame.
type Info struct {
	Obs    *gesture.Observation // nil when the hand was not seen
	Status control.Status
	Active bool         // toggle gesture read active this frame
	Anchor *image.Point // lock position, nil while unlocked
}

// Draw renders the control feedback for every channel onto the frame:
// circles and a connecting line at the control points, a box at the
// middle fingertip while the toggle is active or the channel is locked,
// and the channel's name and status text.
func Draw(frame *gocv.Mat, infos []Info) {
	for _, info := range infos {
		drawChannel(frame, info)
	}
}

func drawChannel(frame *gocv.Mat, info Info) {
	mode := liveColor
	if info.Status.Locked {
		mode = lockedColor
	}

	if info.Obs != nil {
		points := info.Obs.ControlPoints
		for _, lm := range points {
			gocv.Circle(frame, lm.At, controlPointRadius, pointColor, -1)
		}
		if len(points) == 2 {
			gocv.Line(frame, points[0].At, points[1].At, lineColor, 2)
			mid := image.Pt(
				(points[0].At.X+points[1].At.X)/2,
				(points[0].At.Y+points[1].At.Y)/2,
			)
			gocv.Circle(frame, mid, midpointRadius, mode, -1)
		}
	}

	if at := lockMarkerAt(info); at != nil {
		box := image.Rect(at.X-lockBoxHalf, at.Y-lockBoxHalf, at.X+lockBoxHalf, at.Y+lockBoxHalf)
		gocv.Rectangle(frame, box, mode, 2)
	}

	nameAt, statusAt := labelOrigins(frame, info.Status.Kind)
	gocv.PutText(frame, strings.ToUpper(string(info.Status.Kind)), nameAt,
		gocv.FontHersheySimplex, 0.7, lineColor, 2)
	gocv.PutText(frame, statusText(info.Status), statusAt,
		gocv.FontHersheySimplex, 0.6, mode, 2)
}

// lockMarkerAt picks where the toggle box is drawn: at the middle
// fingertip while it is visible, else at the position captured when the
// lock engaged, so the marker survives the hand leaving the frame.
func lockMarkerAt(info Info) *image.Point {
	if !info.Active && !info.Status.Locked {
		return nil
	}
	if info.Obs != nil && info.Obs.MiddleTip != nil {
		return info.Obs.MiddleTip
	}
	if info.Status.Locked {
		return info.Anchor
	}
	return nil
}

// labelOrigins places the brightness labels on the left edge and the
// volume labels on the right edge of the frame.
func labelOrigins(frame *gocv.Mat, kind control.Kind) (name, status image.Point) {
	if kind == control.Volume {
		x := frame.Cols() - 220
		return image.Pt(x, 30), image.Pt(x, 60)
	}
	return image.Pt(10, 30), image.Pt(10, 60)
}

func statusText(s control.Status) string {
	word := "LIVE"
	if s.Locked {
		word = "LOCKED"
	}
	if !s.HasValue {
		return word + " --"
	}
	return fmt.Sprintf("%s %d%%", word, s.Percent)
}

// Window wraps the preview window and its quit-key polling.
type Window struct {
	win *gocv.Window
}

// NewWindow opens a named preview window.
func NewWindow(title string) *Window {
	return &Window{win: gocv.NewWindow(title)}
}

// Show displays the frame and polls input for one millisecond. It
// reports whether the user asked to quit with 'q' or escape.
func (w *Window) Show(frame *gocv.Mat) bool {
	w.win.IMShow(*frame)
	key := w.win.WaitKey(1)
	return key == 'q' || key == 27
}

// Close destroys the preview window.
func (w *Window) Close() error {
	return w.win.Close()
}
