// Package drag interprets raw pointer press/move/release sequences into
// click, drag or locked-click, and live-updates the window position while a
// drag is in progress.
package drag

import (
	"time"

	"doei/internal/core/geom"
	"doei/internal/core/model"
	"doei/internal/core/schedule"
)

// Config holds the classification thresholds.
type Config struct {
	// ThresholdPx is the cumulative manhattan displacement beyond which the
	// interaction counts as moved, disqualifying it as a click.
	ThresholdPx int
	// SnapMargin pulls the window onto a screen edge this close on release.
	SnapMargin int
	// ClickMax is the longest press-to-release span still counted as a click.
	ClickMax time.Duration
}

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{
		ThresholdPx: 6,
		SnapMargin:  18,
		ClickMax:    350 * time.Millisecond,
	}
}

// Controller tracks one pointer interaction at a time.
type Controller struct {
	config  Config
	window  model.WindowPort
	screens model.ScreenGeometry
	clock   schedule.Clock

	locked func() bool

	dragging   bool
	moved      bool
	pressAt    time.Time
	pressPoint geom.Point
	offset     geom.Point

	onMoved       func()
	onClick       func()
	onLockedClick func()
	onDropped     func(pos geom.Point)
}

// New creates an idle controller.
func New(config Config, window model.WindowPort, screens model.ScreenGeometry, clock schedule.Clock) *Controller {
	return &Controller{
		config:  config,
		window:  window,
		screens: screens,
		clock:   clock,
	}
}

// SetLocked installs the lock flag read at press time.
func (controller *Controller) SetLocked(locked func() bool) {
	controller.locked = locked
}

// SetOnMoved installs the position-change hook (bubble re-anchoring).
func (controller *Controller) SetOnMoved(onMoved func()) {
	controller.onMoved = onMoved
}

// SetOnClick installs the short-click handler.
func (controller *Controller) SetOnClick(onClick func()) {
	controller.onClick = onClick
}

// SetOnLockedClick installs the handler for clicks while locked.
func (controller *Controller) SetOnLockedClick(onLockedClick func()) {
	controller.onLockedClick = onLockedClick
}

// SetOnDropped installs the position persistence hook, called with the final
// position after a drag settles.
func (controller *Controller) SetOnDropped(onDropped func(pos geom.Point)) {
	controller.onDropped = onDropped
}

// Dragging reports whether a drag is in progress. Scheduled behaviors read
// this as their guard.
func (controller *Controller) Dragging() bool {
	return controller.dragging
}

// Press records a left-button press. When locked, no drag begins but the
// interaction may still qualify as a (locked) click on release.
func (controller *Controller) Press(global geom.Point) {
	controller.moved = false
	controller.pressAt = controller.clock.Now()
	controller.pressPoint = global

	if controller.locked != nil && controller.locked() {
		controller.dragging = false
		return
	}

	controller.dragging = true
	pos := controller.window.Position()
	controller.offset = geom.Point{X: global.X - pos.X, Y: global.Y - pos.Y}
}

// Move live-updates the window while a drag is active. The position is not
// clamped here; clamping happens once on release.
func (controller *Controller) Move(global geom.Point) {
	if !controller.dragging {
		return
	}
	if geom.ManhattanDistance(global, controller.pressPoint) > controller.config.ThresholdPx {
		controller.moved = true
	}
	controller.window.Move(geom.Point{
		X: global.X - controller.offset.X,
		Y: global.Y - controller.offset.Y,
	})
	if controller.onMoved != nil {
		controller.onMoved()
	}
}

// Release ends the interaction: a finished drag settles the window on-screen
// and persists its position; a short, unmoved press is surfaced as a click,
// or as a locked click when dragging was refused by the lock.
func (controller *Controller) Release(global geom.Point) {
	isClick := controller.clock.Now().Sub(controller.pressAt) < controller.config.ClickMax

	if controller.dragging {
		controller.dragging = false
		controller.settle()
		if !controller.moved && isClick && controller.onClick != nil {
			controller.onClick()
		}
		return
	}

	if controller.locked != nil && controller.locked() && isClick && controller.onLockedClick != nil {
		controller.onLockedClick()
	}
}

func (controller *Controller) settle() {
	pos := controller.window.Position()
	size := controller.window.Size()
	center := geom.Point{X: pos.X + size.W/2, Y: pos.Y + size.H/2}
	bounds := controller.screens.AvailableRect(center)

	settled := geom.ClampInto(pos, size, bounds)
	settled = geom.SnapToEdges(settled, size, bounds, controller.config.SnapMargin)
	if settled != pos {
		controller.window.Move(settled)
	}
	if controller.onMoved != nil {
		controller.onMoved()
	}
	if controller.onDropped != nil {
		controller.onDropped(settled)
	}
}
