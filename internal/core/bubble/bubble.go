// Package bubble owns the speech-bubble overlay: content-driven sizing,
// anchored placement clamped into the monitor, and the show / auto-hide /
// periodic-refresh lifecycle.
package bubble

import (
	"time"

	"doei/internal/core/geom"
	"doei/internal/core/model"
	"doei/internal/core/schedule"
)

// Metrics are the fixed layout constants of the bubble.
type Metrics struct {
	MinWidth   int
	MaxWidth   int
	PadX       int
	PadY       int
	TailHeight int
	GapY       int
}

// DefaultMetrics returns the stock bubble geometry.
func DefaultMetrics() Metrics {
	return Metrics{
		MinWidth:   160,
		MaxWidth:   360,
		PadX:       12,
		PadY:       10,
		TailHeight: 10,
		GapY:       18,
	}
}

// View is the toolkit widget the positioner drives. It lays text out at the
// widths the positioner chooses and reports natural text widths and total
// content height so the sizing pass stays toolkit-independent.
type View interface {
	SetContent(title, message string)
	SetDynamic(text string, visible bool)
	SetButtons(buttons []model.Action)
	SetCloseHandler(close func())
	NaturalWidths(maxContentWidth int) (title, message, dynamic int)
	ContentHeight(contentWidth int) int
	Apply(frame geom.Rect)
	Hide()
}

const (
	defaultRefresh = time.Second
	minRefresh     = 250 * time.Millisecond
)

// Positioner owns the single bubble overlay and its timers. The anchor is a
// weak reference: it tracks a point on the pet but never owns it.
type Positioner struct {
	view      View
	screens   model.ScreenGeometry
	scheduler *schedule.Scheduler
	metrics   Metrics

	anchor         geom.Point
	visible        bool
	dynamic        func() (string, error)
	dynamicText    string
	dynamicVisible bool

	hideTask    *schedule.Task
	refreshTask *schedule.Task
	onClosed    func()
}

// New wires the positioner to its view.
func New(view View, screens model.ScreenGeometry, scheduler *schedule.Scheduler, metrics Metrics) *Positioner {
	positioner := &Positioner{
		view:      view,
		screens:   screens,
		scheduler: scheduler,
		metrics:   metrics,
	}
	view.SetCloseHandler(positioner.Close)
	return positioner
}

// SetOnClosed installs the closed notification.
func (positioner *Positioner) SetOnClosed(onClosed func()) {
	positioner.onClosed = onClosed
}

// Visible reports whether a bubble is currently shown.
func (positioner *Positioner) Visible() bool {
	return positioner.visible
}

// Show replaces any currently shown bubble with the notice, anchored above
// the given point. Duration 0 keeps the bubble up until closed explicitly.
func (positioner *Positioner) Show(notice model.Notice, anchor geom.Point) {
	positioner.stopTimers()
	positioner.anchor = anchor

	positioner.view.SetContent(notice.Title, notice.Message)
	positioner.view.SetButtons(notice.Buttons)

	if notice.Dynamic != nil {
		positioner.dynamic = notice.Dynamic
		positioner.dynamicVisible = true
		if text, err := notice.Dynamic(); err == nil {
			positioner.dynamicText = text
		} else {
			positioner.dynamicText = ""
		}
		positioner.view.SetDynamic(positioner.dynamicText, true)

		refresh := notice.Refresh
		if refresh <= 0 {
			refresh = defaultRefresh
		}
		if refresh < minRefresh {
			refresh = minRefresh
		}
		positioner.refreshTask = positioner.scheduler.Every(refresh, positioner.refreshDynamic)
	} else {
		positioner.dynamic = nil
		positioner.dynamicVisible = false
		positioner.dynamicText = ""
		positioner.view.SetDynamic("", false)
	}

	positioner.visible = true
	positioner.place()

	if notice.Duration > 0 {
		positioner.hideTask = positioner.scheduler.After(notice.Duration, positioner.Close)
	}
}

// UpdateAnchor moves the bubble to track a new anchor position without
// restarting any timers. Called on every drag and walk tick.
func (positioner *Positioner) UpdateAnchor(anchor geom.Point) {
	positioner.anchor = anchor
	if positioner.visible {
		positioner.place()
	}
}

// Close hides the bubble, stops both timers and emits the closed
// notification.
func (positioner *Positioner) Close() {
	positioner.stopTimers()
	if !positioner.visible {
		return
	}
	positioner.visible = false
	positioner.view.Hide()
	if positioner.onClosed != nil {
		positioner.onClosed()
	}
}

// refreshDynamic polls the dynamic source. A failed poll leaves the previous
// text in place and keeps the poll loop alive.
func (positioner *Positioner) refreshDynamic() {
	if positioner.dynamic == nil {
		return
	}
	text, err := positioner.dynamic()
	if err != nil {
		return
	}
	positioner.dynamicText = text
	positioner.view.SetDynamic(text, true)
	positioner.place()
}

// place runs the sizing pass and moves the bubble: content width is the
// larger of the title and message widths, floored at the configured minimum
// and capped at the maximum, with the dynamic line re-measured against the
// same width; the frame centers on the anchor X with its bottom a fixed gap
// above the anchor Y, then clamps into the monitor under the anchor.
func (positioner *Positioner) place() {
	metrics := positioner.metrics
	maxContent := metrics.MaxWidth - 2*metrics.PadX

	titleWidth, messageWidth, dynamicWidth := positioner.view.NaturalWidths(maxContent)
	content := titleWidth
	if messageWidth > content {
		content = messageWidth
	}
	if floor := metrics.MinWidth - 2*metrics.PadX; content < floor {
		content = floor
	}
	if positioner.dynamicVisible && dynamicWidth > content {
		content = dynamicWidth
	}
	if content > maxContent {
		content = maxContent
	}

	width := content + 2*metrics.PadX
	height := positioner.view.ContentHeight(content) + 2*metrics.PadY + metrics.TailHeight

	pos := geom.Point{
		X: positioner.anchor.X - width/2,
		Y: positioner.anchor.Y - height - metrics.GapY,
	}
	bounds := positioner.screens.AvailableRect(positioner.anchor)
	pos = geom.ClampInto(pos, geom.Size{W: width, H: height}, bounds)

	positioner.view.Apply(geom.Rect{X: pos.X, Y: pos.Y, W: width, H: height})
}

func (positioner *Positioner) stopTimers() {
	if positioner.hideTask != nil {
		positioner.hideTask.Stop()
		positioner.hideTask = nil
	}
	if positioner.refreshTask != nil {
		positioner.refreshTask.Stop()
		positioner.refreshTask = nil
	}
}
