// Package petwindow hosts the pet sprite in an undecorated window and
// translates raw pointer events into the callbacks the interaction layer
// consumes. It also backs the window placement port: the window position is
// tracked here because the toolkit cannot be queried for it.
package petwindow

import (
	"doei/internal/core/geom"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

type positionedWindow interface {
	SetPosition(pos fyne.Position)
}

// Callbacks are the pointer hooks wired by the composition root. Coordinates
// are global screen points.
type Callbacks struct {
	Press     func(global geom.Point)
	Drag      func(global geom.Point)
	Release   func(global geom.Point)
	DoubleTap func()
	Scroll    func(steps int)
	MenuItems func() []*fyne.MenuItem
}

// Window is the pet's on-screen surface.
type Window struct {
	window    fyne.Window
	image     *canvas.Image
	area      *petArea
	callbacks Callbacks

	pos     geom.Point
	size    geom.Size
	visible bool
}

// New builds the pet window, hidden and sized to zero until the state
// machine applies the first scale pass.
func New(app fyne.App) *Window {
	fyneWindow := app.NewWindow("doei")
	if driver, ok := app.Driver().(splashWindowDriver); ok {
		// Splash window is undecorated (no native frame/buttons).
		fyneWindow = driver.CreateSplashWindow()
	}
	fyneWindow.SetPadded(false)

	petWindow := &Window{window: fyneWindow}

	petWindow.image = canvas.NewImageFromResource(nil)
	petWindow.image.FillMode = canvas.ImageFillContain
	petWindow.image.ScaleMode = canvas.ImageScaleFastest

	petWindow.area = newPetArea(petWindow)
	fyneWindow.SetContent(container.NewStack(petWindow.image, petWindow.area))

	return petWindow
}

// SetCallbacks installs the pointer hooks.
func (petWindow *Window) SetCallbacks(callbacks Callbacks) {
	petWindow.callbacks = callbacks
}

// UpdateSprite swaps the displayed frame. Safe to call from any goroutine.
func (petWindow *Window) UpdateSprite(resource fyne.Resource) {
	fyne.Do(func() {
		petWindow.image.Resource = resource
		petWindow.image.Refresh()
	})
}

// Position returns the tracked window position.
func (petWindow *Window) Position() geom.Point {
	return petWindow.pos
}

// Move places the window at a global position.
func (petWindow *Window) Move(pos geom.Point) {
	petWindow.pos = pos
	if mover, ok := petWindow.window.(positionedWindow); ok {
		mover.SetPosition(fyne.NewPos(float32(pos.X), float32(pos.Y)))
	}
}

// Size returns the tracked window size.
func (petWindow *Window) Size() geom.Size {
	return petWindow.size
}

// Resize changes the window size.
func (petWindow *Window) Resize(size geom.Size) {
	petWindow.size = size
	petWindow.window.Resize(fyne.NewSize(float32(size.W), float32(size.H)))
}

// Visible reports whether the pet is on screen.
func (petWindow *Window) Visible() bool {
	return petWindow.visible
}

// Show puts the pet on screen and re-asserts its position; some window
// managers reset undecorated windows to the origin on show.
func (petWindow *Window) Show() {
	petWindow.visible = true
	petWindow.window.Show()
	petWindow.Move(petWindow.pos)
}

// Hide takes the pet off screen.
func (petWindow *Window) Hide() {
	petWindow.visible = false
	petWindow.window.Hide()
}

// Close destroys the window.
func (petWindow *Window) Close() {
	petWindow.window.Close()
}

func (petWindow *Window) globalPoint(local fyne.Position) geom.Point {
	return geom.Point{
		X: petWindow.pos.X + int(local.X),
		Y: petWindow.pos.Y + int(local.Y),
	}
}

func (petWindow *Window) showMenu(local fyne.Position) {
	if petWindow.callbacks.MenuItems == nil {
		return
	}
	items := petWindow.callbacks.MenuItems()
	if len(items) == 0 {
		return
	}
	menu := fyne.NewMenu("", items...)
	widget.ShowPopUpMenuAtPosition(menu, petWindow.window.Canvas(), local)
}

// petArea is the transparent interaction surface covering the sprite.
type petArea struct {
	widget.BaseWidget
	owner *Window
}

func newPetArea(owner *Window) *petArea {
	area := &petArea{owner: owner}
	area.ExtendBaseWidget(area)
	return area
}

func (area *petArea) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewWithoutLayout())
}

func (area *petArea) MouseDown(event *desktop.MouseEvent) {
	if event.Button != desktop.MouseButtonPrimary {
		return
	}
	if press := area.owner.callbacks.Press; press != nil {
		press(area.owner.globalPoint(event.Position))
	}
}

func (area *petArea) MouseUp(event *desktop.MouseEvent) {
	if event.Button == desktop.MouseButtonSecondary {
		area.owner.showMenu(event.Position)
		return
	}
	if event.Button != desktop.MouseButtonPrimary {
		return
	}
	if release := area.owner.callbacks.Release; release != nil {
		release(area.owner.globalPoint(event.Position))
	}
}

func (area *petArea) Dragged(event *fyne.DragEvent) {
	if drag := area.owner.callbacks.Drag; drag != nil {
		drag(area.owner.globalPoint(event.Position))
	}
}

func (area *petArea) DragEnd() {}

func (area *petArea) DoubleTapped(*fyne.PointEvent) {
	if doubleTap := area.owner.callbacks.DoubleTap; doubleTap != nil {
		doubleTap()
	}
}

func (area *petArea) TappedSecondary(event *fyne.PointEvent) {
	area.owner.showMenu(event.Position)
}

func (area *petArea) Scrolled(event *fyne.ScrollEvent) {
	scroll := area.owner.callbacks.Scroll
	if scroll == nil || event.Scrolled.DY == 0 {
		return
	}
	if event.Scrolled.DY > 0 {
		scroll(1)
	} else {
		scroll(-1)
	}
}
