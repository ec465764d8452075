package model

import "doei/internal/core/geom"

// WindowPort is the placement surface the core components move around.
// The pet window owns its position; every mutator must leave it inside the
// available geometry of the monitor under its center point.
type WindowPort interface {
	Position() geom.Point
	Move(pos geom.Point)
	Size() geom.Size
	Resize(size geom.Size)
	Visible() bool
	Show()
	Hide()
}

// ScreenGeometry resolves the usable bounds of the monitor nearest a point.
// Implementations must be multi-monitor aware; callers re-resolve on every
// move because the window may have crossed a monitor boundary.
type ScreenGeometry interface {
	AvailableRect(near geom.Point) geom.Rect
}
