package control

import (
	"image"
	"testing"

	"github.com/MoHaMmeDsafwaN451/Hand-gestures-control/internal/detector"
	"github.com/MoHaMmeDsafwaN451/Hand-gestures-control/internal/gesture"
)

// spreadObs builds an observation whose control points sit spread pixels
// apart, with the middle finger raised or folded to drive the toggle.
func spreadObs(side string, spread int, toggleUp bool) *gesture.Observation {
	obs := &gesture.Observation{
		Side: side,
		ControlPoints: []gesture.Landmark{
			{Index: detector.ThumbTip, At: image.Pt(100, 200)},
			{Index: detector.IndexTip, At: image.Pt(100+spread, 200)},
		},
	}

	base := image.Pt(160, 300)
	obs.MiddleBase = &base

	tip := image.Pt(160, 320)
	if toggleUp {
		tip = image.Pt(160, 180)
	}
	obs.MiddleTip = &tip

	return obs
}

// minimalObs builds an observation that carries control points but no
// middle finger joints, for driving Step directly.
func minimalObs() *gesture.Observation {
	return &gesture.Observation{
		ControlPoints: []gesture.Landmark{
			{Index: detector.ThumbTip, At: image.Pt(0, 0)},
			{Index: detector.IndexTip, At: image.Pt(135, 0)},
		},
	}
}

func TestRisingEdgeToggle(t *testing.T) {
	ch := NewBrightnessChannel(gesture.DefaultToggleThreshold)
	obs := minimalObs()

	signals := []bool{false, false, true, true, false, true}
	wantLocked := []bool{false, false, true, true, true, false}

	for i, active := range signals {
		out, ok := ch.Step(obs, active, 50, true)
		if !ok {
			t.Fatalf("frame %d: ok = false, want true", i)
		}
		if out.Locked != wantLocked[i] {
			t.Errorf("frame %d: Locked = %v, want %v", i, out.Locked, wantLocked[i])
		}
	}
}

func TestLockFreezesValue(t *testing.T) {
	ch := NewBrightnessChannel(gesture.DefaultToggleThreshold)
	obs := minimalObs()

	// Track live at 30, then lock at 70.
	if out, ok := ch.Step(obs, false, 30, true); !ok || out.Value != 30 {
		t.Fatalf("live frame: got (%+v, %v), want value 30", out, ok)
	}
	out, ok := ch.Step(obs, true, 70, true)
	if !ok || !out.Locked || out.Value != 70 {
		t.Fatalf("lock frame: got (%+v, %v), want locked at 70", out, ok)
	}

	// Varying mapped values must not move the held value.
	for _, mapped := range []float64{0, 25, 99, 100} {
		out, ok := ch.Step(obs, true, mapped, true)
		if !ok {
			t.Fatalf("locked frame with mapped=%v: ok = false", mapped)
		}
		if out.Value != 70 || !out.Locked {
			t.Errorf("locked frame with mapped=%v: got %+v, want locked at 70", mapped, out)
		}
	}

	// Unlock on the next rising edge resumes live tracking.
	ch.Step(obs, false, 10, true)
	out, ok = ch.Step(obs, true, 10, true)
	if !ok || out.Locked || out.Value != 10 {
		t.Errorf("after unlock: got (%+v, %v), want live at 10", out, ok)
	}
}

func TestMissingObservationSkipsFrame(t *testing.T) {
	ch := NewBrightnessChannel(gesture.DefaultToggleThreshold)
	obs := minimalObs()

	// Lock at 60 with the gesture held.
	if out, _ := ch.Step(obs, true, 60, true); !out.Locked {
		t.Fatalf("setup: channel did not lock")
	}
	before := ch.Snapshot()

	// The hand disappears: nil and empty observations change nothing.
	if _, ok := ch.Step(nil, true, 99, true); ok {
		t.Errorf("nil observation: ok = true, want false")
	}
	if _, ok := ch.Step(&gesture.Observation{}, true, 99, true); ok {
		t.Errorf("empty observation: ok = true, want false")
	}
	if _, ok := ch.Observe(nil); ok {
		t.Errorf("Observe(nil): ok = true, want false")
	}

	after := ch.Snapshot()
	if after != before {
		t.Errorf("state changed across skipped frames: before %+v, after %+v", before, after)
	}

	// The gesture was still up when the hand was lost, so its
	// reappearance with the gesture up is not a rising edge.
	out, ok := ch.Step(obs, true, 99, true)
	if !ok || !out.Locked || out.Value != 60 {
		t.Errorf("reappearance: got (%+v, %v), want still locked at 60", out, ok)
	}
}

func TestChannelIndependence(t *testing.T) {
	left := NewBrightnessChannel(gesture.DefaultToggleThreshold)
	right := NewVolumeChannel(gesture.DefaultToggleThreshold, -65.25, 0)

	rightBefore := right.Snapshot()

	obs := minimalObs()
	left.Step(obs, true, 80, true)
	left.Step(obs, false, 20, true)
	left.Step(obs, true, 55, true)

	if got := right.Snapshot(); got != rightBefore {
		t.Errorf("driving the left channel moved the right channel: %+v", got)
	}
	if !left.Snapshot().HasValue {
		t.Errorf("left channel recorded no value")
	}
}

func TestObserveTracksPinchLive(t *testing.T) {
	ch := NewBrightnessChannel(gesture.DefaultToggleThreshold)

	tests := []struct {
		spread int
		want   float64
	}{
		{50, 0},
		{135, 50},
		{220, 100},
		{10, 0},
		{400, 100},
	}

	for _, tt := range tests {
		out, ok := ch.Observe(spreadObs(detector.HandLeft, tt.spread, false))
		if !ok {
			t.Fatalf("Observe(spread=%d): ok = false, want true", tt.spread)
		}
		if out.Locked {
			t.Fatalf("Observe(spread=%d): locked without a toggle", tt.spread)
		}
		if out.Value != tt.want {
			t.Errorf("Observe(spread=%d) = %v, want %v", tt.spread, out.Value, tt.want)
		}
	}
}

func TestLockAtMaxSpreadHolds(t *testing.T) {
	ch := NewBrightnessChannel(gesture.DefaultToggleThreshold)

	if _, ok := ch.Observe(spreadObs(detector.HandLeft, 135, false)); !ok {
		t.Fatalf("setup frame failed")
	}

	out, ok := ch.Observe(spreadObs(detector.HandLeft, 220, true))
	if !ok || !out.Locked || out.Value != 100 {
		t.Fatalf("lock frame: got (%+v, %v), want locked at 100", out, ok)
	}

	for _, spread := range []int{50, 135, 300} {
		out, ok := ch.Observe(spreadObs(detector.HandLeft, spread, true))
		if !ok || out.Value != 100 {
			t.Errorf("locked frame spread=%d: got (%+v, %v), want held 100", spread, out, ok)
		}
	}
}

func TestLockWithoutMappedValueKeepsLast(t *testing.T) {
	ch := NewBrightnessChannel(gesture.DefaultToggleThreshold)
	obs := minimalObs()

	ch.Step(obs, false, 45, true)

	// Rising edge on a frame where the mapper produced nothing: the last
	// live value becomes the held value.
	out, ok := ch.Step(obs, true, 0, false)
	if !ok || !out.Locked || out.Value != 45 {
		t.Errorf("lock without mapped value: got (%+v, %v), want locked at 45", out, ok)
	}
}

func TestLockBeforeAnyValue(t *testing.T) {
	ch := NewBrightnessChannel(gesture.DefaultToggleThreshold)
	obs := minimalObs()

	// Locking before any mapped value leaves nothing to apply.
	out, ok := ch.Step(obs, true, 0, false)
	if ok {
		t.Errorf("lock with no value history: ok = true, want false")
	}
	if !out.Locked {
		t.Errorf("lock with no value history: Locked = false, want true")
	}

	s := ch.Snapshot()
	if !s.Locked || s.HasValue {
		t.Errorf("Snapshot() = %+v, want locked with no value", s)
	}
}

func TestLockAnchorTracksToggle(t *testing.T) {
	ch := NewBrightnessChannel(gesture.DefaultToggleThreshold)

	if got := ch.LockAnchor(); got != nil {
		t.Fatalf("LockAnchor() before lock = %v, want nil", got)
	}

	obs := spreadObs(detector.HandLeft, 135, true)
	ch.Observe(obs)

	anchor := ch.LockAnchor()
	if anchor == nil {
		t.Fatalf("LockAnchor() after lock = nil, want the middle tip position")
	}
	if *anchor != *obs.MiddleTip {
		t.Errorf("LockAnchor() = %v, want %v", *anchor, *obs.MiddleTip)
	}

	ch.Observe(spreadObs(detector.HandLeft, 135, false))
	ch.Observe(spreadObs(detector.HandLeft, 135, true))
	if got := ch.LockAnchor(); got != nil {
		t.Errorf("LockAnchor() after unlock = %v, want nil", got)
	}
}

func TestSnapshotPercent(t *testing.T) {
	ch := NewVolumeChannel(gesture.DefaultToggleThreshold, -65.25, 0)

	out, ok := ch.Observe(spreadObs(detector.HandRight, 135, false))
	if !ok {
		t.Fatalf("Observe() ok = false, want true")
	}
	if out.Value != -32.625 {
		t.Fatalf("Observe() value = %v, want -32.625", out.Value)
	}

	s := ch.Snapshot()
	if s.Kind != Volume || s.Side != detector.HandRight {
		t.Errorf("Snapshot identity = %s/%s, want volume/Right", s.Kind, s.Side)
	}
	if s.Percent != 50 {
		t.Errorf("Snapshot percent = %d, want 50", s.Percent)
	}
}
