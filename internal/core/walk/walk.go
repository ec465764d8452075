// Package walk implements the pet's walking kinematics: fixed-period ticks
// that advance the window horizontally with a fractional step accumulator,
// apply a sinusoidal vertical bob, and report screen-edge contact.
package walk

import (
	"math"
	"time"

	"doei/internal/core/geom"
	"doei/internal/core/model"
	"doei/internal/core/schedule"
)

// Config holds the kinematics tuning values.
type Config struct {
	SpeedPxPerSec float64
	TickInterval  time.Duration
	BobAmplitude  int
	BobPeriod     time.Duration
}

// DefaultConfig returns the stock walking feel.
func DefaultConfig() Config {
	return Config{
		SpeedPxPerSec: 90,
		TickInterval:  55 * time.Millisecond,
		BobAmplitude:  2,
		BobPeriod:     420 * time.Millisecond,
	}
}

// Controller moves the pet window while a walking pose is active. It owns no
// pose state of its own; the state machine starts and stops it.
type Controller struct {
	config    Config
	window    model.WindowPort
	screens   model.ScreenGeometry
	scheduler *schedule.Scheduler

	direction int
	stepAcc   float64
	baseY     int
	hasBase   bool
	startedAt time.Time
	task      *schedule.Task

	suspended func() bool
	onEdge    func()
	onMoved   func()
}

// New creates a stopped controller.
func New(config Config, window model.WindowPort, screens model.ScreenGeometry, scheduler *schedule.Scheduler) *Controller {
	if config.TickInterval <= 0 {
		config.TickInterval = DefaultConfig().TickInterval
	}
	return &Controller{
		config:    config,
		window:    window,
		screens:   screens,
		scheduler: scheduler,
	}
}

// SetSuspended installs the gate that holds walk ticks while a drag is in
// progress. A suspended tick is a silent no-op; the timer keeps running.
func (controller *Controller) SetSuspended(suspended func() bool) {
	controller.suspended = suspended
}

// SetOnEdge installs the edge-event handler (the roundtrip tracker).
func (controller *Controller) SetOnEdge(onEdge func()) {
	controller.onEdge = onEdge
}

// SetOnMoved installs the position-change hook (bubble re-anchoring).
func (controller *Controller) SetOnMoved(onMoved func()) {
	controller.onMoved = onMoved
}

// Active reports whether a walk is in progress.
func (controller *Controller) Active() bool {
	return controller.direction != 0
}

// Direction returns -1, +1 or 0 when stopped.
func (controller *Controller) Direction() int {
	return controller.direction
}

// Start begins walking in the given direction (-1 left, +1 right). If a walk
// is already active only the direction flips; the vertical baseline and bob
// phase carry over so reversals leave no drift.
func (controller *Controller) Start(direction int) {
	if direction < 0 {
		direction = -1
	} else {
		direction = +1
	}
	if controller.direction != 0 {
		controller.direction = direction
		return
	}

	controller.direction = direction
	controller.stepAcc = 0
	controller.baseY = controller.window.Position().Y
	controller.hasBase = true
	controller.startedAt = controller.scheduler.Clock().Now()
	controller.task = controller.scheduler.Every(controller.config.TickInterval, controller.tick)
}

// Stop halts the kinematics and restores the pre-walk vertical offset
// exactly, removing any residual bob.
func (controller *Controller) Stop() {
	if controller.task != nil {
		controller.task.Stop()
		controller.task = nil
	}
	if controller.direction == 0 {
		return
	}
	controller.direction = 0
	controller.stepAcc = 0
	if controller.hasBase {
		pos := controller.window.Position()
		controller.window.Move(geom.Point{X: pos.X, Y: controller.baseY})
		controller.hasBase = false
	}
	controller.notifyMoved()
}

func (controller *Controller) tick() {
	if controller.direction == 0 {
		return
	}
	if controller.suspended != nil && controller.suspended() {
		return
	}

	// Integer deltas come out of a fractional accumulator so no distance is
	// lost at low speeds or short ticks.
	controller.stepAcc += controller.config.SpeedPxPerSec * controller.config.TickInterval.Seconds()
	delta := int(controller.stepAcc)
	if delta <= 0 {
		return
	}
	controller.stepAcc -= float64(delta)
	delta *= controller.direction

	pos := controller.window.Position()
	size := controller.window.Size()
	center := geom.Point{X: pos.X + size.W/2, Y: pos.Y + size.H/2}
	// Re-resolve every tick: the window may have crossed a monitor boundary.
	bounds := controller.screens.AvailableRect(center)

	minX := bounds.X
	maxX := bounds.Right() - size.W

	newX := pos.X + delta
	newY := controller.bobY(pos.Y)
	if newY < bounds.Y {
		newY = bounds.Y
	}
	if newY > bounds.Bottom()-size.H {
		newY = bounds.Bottom() - size.H
	}

	hitEdge := false
	if newX <= minX {
		newX = minX
		hitEdge = true
	} else if newX >= maxX {
		newX = maxX
		hitEdge = true
	}

	controller.window.Move(geom.Point{X: newX, Y: newY})
	controller.notifyMoved()

	if hitEdge && controller.onEdge != nil {
		controller.onEdge()
	}
}

func (controller *Controller) bobY(currentY int) int {
	if controller.config.BobAmplitude <= 0 || controller.config.BobPeriod <= 0 || !controller.hasBase {
		return currentY
	}
	elapsed := controller.scheduler.Clock().Now().Sub(controller.startedAt)
	phase := 2 * math.Pi * float64(elapsed%controller.config.BobPeriod) / float64(controller.config.BobPeriod)
	return controller.baseY + int(math.Round(math.Sin(phase)*float64(controller.config.BobAmplitude)))
}

func (controller *Controller) notifyMoved() {
	if controller.onMoved != nil {
		controller.onMoved()
	}
}
