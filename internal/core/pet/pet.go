// Package pet holds the pose state machine: the single owner of "what the
// pet is doing right now" and of the side effects a pose transition carries
// (animation switch, walk kinematics, rescaling).
package pet

import (
	"fmt"
	"time"

	"doei/internal/core/geom"
	"doei/internal/core/model"
)

// Surface is the opaque animation surface rendered for one pose.
type Surface interface {
	Start()
	Stop()
	FrameSize() geom.Size
	SetSpeedPercent(percent int)
	SetRenderedSize(size geom.Size)
}

// Walker is the kinematics switched on and off by walking poses.
type Walker interface {
	Start(direction int)
	Stop()
	Active() bool
}

const (
	minScale         = 0.3
	maxScale         = 2.0
	announceDuration = 2400 * time.Millisecond
)

// StateMachine owns the current pose and performs transitions.
type StateMachine struct {
	window   model.WindowPort
	screens  model.ScreenGeometry
	walker   Walker
	notifier model.Notifier
	surfaces map[model.Pose]Surface

	pose     model.Pose
	baseSize geom.Size
	rendered geom.Size
	scale    float64

	onMoved        func()
	onScaleChanged func(scale float64)
}

// New builds the state machine. Every pose needs a surface; a missing one is
// a startup failure, the process must not proceed to showing the pet.
func New(window model.WindowPort, screens model.ScreenGeometry, walker Walker, notifier model.Notifier, surfaces map[model.Pose]Surface) (*StateMachine, error) {
	required := []model.Pose{model.PoseSitting, model.PoseLyingDown, model.PoseWalkingLeft, model.PoseWalkingRight}
	base := geom.Size{}
	for _, pose := range required {
		surface := surfaces[pose]
		if surface == nil {
			return nil, fmt.Errorf("missing animation surface for pose %q", pose)
		}
		frame := surface.FrameSize()
		if frame.W > base.W {
			base.W = frame.W
		}
		if frame.H > base.H {
			base.H = frame.H
		}
	}

	return &StateMachine{
		window:   window,
		screens:  screens,
		walker:   walker,
		notifier: notifier,
		surfaces: surfaces,
		pose:     model.PoseSitting,
		baseSize: base,
		scale:    1.0,
	}, nil
}

// SetOnMoved installs the position-change hook (bubble re-anchoring).
func (machine *StateMachine) SetOnMoved(onMoved func()) {
	machine.onMoved = onMoved
}

// SetOnScaleChanged installs the scale persistence hook.
func (machine *StateMachine) SetOnScaleChanged(onScaleChanged func(scale float64)) {
	machine.onScaleChanged = onScaleChanged
}

// Pose returns the current pose.
func (machine *StateMachine) Pose() model.Pose {
	return machine.pose
}

// Scale returns the current render scale.
func (machine *StateMachine) Scale() float64 {
	return machine.scale
}

// SetState transitions to the target pose: stops the running animation,
// starts the target's, switches the walk kinematics on or off, and re-runs
// the scale pass. An unknown pose is silently ignored. When announce is set
// and a non-empty title or text is given, a transient bubble is requested.
func (machine *StateMachine) SetState(target model.Pose, announce bool, title, text string) {
	surface, known := machine.surfaces[target]
	if !known {
		return
	}

	for _, other := range machine.surfaces {
		other.Stop()
	}
	machine.pose = target
	surface.Start()

	if direction := target.WalkDirection(); direction != 0 {
		machine.walker.Start(direction)
	} else {
		machine.walker.Stop()
	}

	machine.applyScale()

	if announce && (title != "" || text != "") {
		machine.notifier.Notify(model.Notice{
			Title:    title,
			Message:  text,
			Duration: announceDuration,
		})
	}
}

// SetScale changes the render scale, clamped to [0.3, 2.0], and persists it
// through the scale hook.
func (machine *StateMachine) SetScale(scale float64) {
	if scale < minScale {
		scale = minScale
	}
	if scale > maxScale {
		scale = maxScale
	}
	machine.scale = scale
	machine.applyScale()
	if machine.onScaleChanged != nil {
		machine.onScaleChanged(scale)
	}
}

// EnsureOnScreen clamps the window into the available geometry of the
// monitor under its center point.
func (machine *StateMachine) EnsureOnScreen() {
	pos := machine.window.Position()
	size := machine.window.Size()
	center := geom.Point{X: pos.X + size.W/2, Y: pos.Y + size.H/2}
	bounds := machine.screens.AvailableRect(center)
	clamped := geom.ClampInto(pos, size, bounds)
	if clamped != pos {
		machine.window.Move(clamped)
	}
	machine.notifyMoved()
}

// AnchorPoint returns the screen point the speech bubble tracks, the pet's
// top-center.
func (machine *StateMachine) AnchorPoint() geom.Point {
	pos := machine.window.Position()
	size := machine.window.Size()
	return geom.Point{X: pos.X + size.W/2, Y: pos.Y}
}

// applyScale sizes the window from the uniform base size shared by all
// poses, so switching pose never changes window dimensions.
func (machine *StateMachine) applyScale() {
	if machine.baseSize.W == 0 || machine.baseSize.H == 0 {
		return
	}
	scaled := geom.Size{
		W: int(float64(machine.baseSize.W) * machine.scale),
		H: int(float64(machine.baseSize.H) * machine.scale),
	}
	if machine.window.Size() != scaled {
		machine.window.Resize(scaled)
	}
	// Re-rendering frames is comparatively expensive, skip when unchanged.
	if machine.rendered != scaled {
		for _, surface := range machine.surfaces {
			surface.SetRenderedSize(scaled)
		}
		machine.rendered = scaled
	}
	machine.EnsureOnScreen()
}

func (machine *StateMachine) notifyMoved() {
	if machine.onMoved != nil {
		machine.onMoved()
	}
}
