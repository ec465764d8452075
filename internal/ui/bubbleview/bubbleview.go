// Package bubbleview renders the speech bubble as an undecorated toolkit
// window. All methods must be called on the UI thread.
package bubbleview

import (
	"image/color"
	"strings"

	"doei/internal/core/bubble"
	"doei/internal/core/geom"
	"doei/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	titleTextSize = float32(13)
	bodyTextSize  = float32(12)
	lineGap       = 4
	closeSide     = float32(20)
)

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

type positionedWindow interface {
	SetPosition(pos fyne.Position)
}

// View is the fyne-backed bubble surface driven by the positioner.
type View struct {
	window  fyne.Window
	metrics bubble.Metrics

	background  *canvas.Rectangle
	tail        *canvas.Rectangle
	title       *canvas.Text
	message     *widget.Label
	dynamic     *widget.Label
	buttonRow   *fyne.Container
	closeButton *widget.Button

	onClose func()
	shown   bool
}

// New builds the bubble window. The window stays hidden until the first Apply.
func New(app fyne.App, metrics bubble.Metrics) *View {
	window := app.NewWindow("doei")
	if driver, ok := app.Driver().(splashWindowDriver); ok {
		// Splash window is undecorated (no native frame/buttons).
		window = driver.CreateSplashWindow()
	}
	window.SetPadded(false)

	view := &View{
		window:  window,
		metrics: metrics,
	}

	view.background = canvas.NewRectangle(color.NRGBA{R: 252, G: 250, B: 244, A: 245})
	view.background.CornerRadius = 10
	view.background.StrokeColor = color.NRGBA{R: 180, G: 172, B: 150, A: 255}
	view.background.StrokeWidth = 1

	view.tail = canvas.NewRectangle(color.NRGBA{R: 252, G: 250, B: 244, A: 245})

	view.title = canvas.NewText("", color.NRGBA{R: 40, G: 36, B: 24, A: 255})
	view.title.TextStyle = fyne.TextStyle{Bold: true}
	view.title.TextSize = titleTextSize

	view.message = widget.NewLabel("")
	view.message.Wrapping = fyne.TextWrapWord

	view.dynamic = widget.NewLabel("")
	view.dynamic.TextStyle = fyne.TextStyle{Monospace: true}
	view.dynamic.Hide()

	view.buttonRow = container.NewHBox()

	view.closeButton = widget.NewButton("✕", func() {
		if view.onClose != nil {
			view.onClose()
		}
	})
	view.closeButton.Importance = widget.LowImportance

	root := container.New(&bubbleLayout{view: view},
		view.background, view.tail, view.title, view.message, view.dynamic, view.buttonRow, view.closeButton)
	window.SetContent(root)

	return view
}

// SetContent replaces the title and message lines.
func (view *View) SetContent(title, message string) {
	view.title.Text = title
	view.title.Refresh()
	view.message.SetText(message)
}

// SetDynamic updates the live line under the message.
func (view *View) SetDynamic(text string, visible bool) {
	view.dynamic.SetText(text)
	if visible {
		view.dynamic.Show()
	} else {
		view.dynamic.Hide()
	}
}

// SetButtons rebuilds the action row.
func (view *View) SetButtons(buttons []model.Action) {
	view.buttonRow.RemoveAll()
	for _, action := range buttons {
		invoke := action.Invoke
		view.buttonRow.Add(widget.NewButton(action.Label, func() {
			if invoke != nil {
				invoke()
			}
		}))
	}
	if len(buttons) == 0 {
		view.buttonRow.Hide()
	} else {
		view.buttonRow.Show()
	}
	view.buttonRow.Refresh()
}

// SetCloseHandler installs the close-pill handler.
func (view *View) SetCloseHandler(close func()) {
	view.onClose = close
}

// NaturalWidths measures the unwrapped widths of the three text blocks,
// each capped at the given content width.
func (view *View) NaturalWidths(maxContentWidth int) (title, message, dynamic int) {
	title = capWidth(naturalTextWidth(view.title.Text, titleTextSize, fyne.TextStyle{Bold: true}), maxContentWidth)
	message = capWidth(naturalTextWidth(view.message.Text, bodyTextSize, fyne.TextStyle{}), maxContentWidth)
	if view.dynamic.Visible() {
		dynamic = capWidth(naturalTextWidth(view.dynamic.Text, bodyTextSize, fyne.TextStyle{Monospace: true}), maxContentWidth)
	}
	return title, message, dynamic
}

// ContentHeight computes the stacked height of all visible blocks when the
// text wraps at the given content width.
func (view *View) ContentHeight(contentWidth int) int {
	height := 0
	if view.title.Text != "" {
		height += textLineHeight(titleTextSize, fyne.TextStyle{Bold: true})
	}
	if view.message.Text != "" {
		if height > 0 {
			height += lineGap
		}
		height += wrappedTextHeight(view.message.Text, contentWidth, bodyTextSize, fyne.TextStyle{})
	}
	if view.dynamic.Visible() {
		if height > 0 {
			height += lineGap
		}
		height += textLineHeight(bodyTextSize, fyne.TextStyle{Monospace: true})
	}
	if view.buttonRow.Visible() && len(view.buttonRow.Objects) > 0 {
		if height > 0 {
			height += lineGap
		}
		height += int(view.buttonRow.MinSize().Height)
	}
	return height
}

// Apply moves and sizes the bubble window to the chosen frame and shows it.
func (view *View) Apply(frame geom.Rect) {
	view.window.Resize(fyne.NewSize(float32(frame.W), float32(frame.H)))
	if mover, ok := view.window.(positionedWindow); ok {
		mover.SetPosition(fyne.NewPos(float32(frame.X), float32(frame.Y)))
	}
	if !view.shown {
		view.window.Show()
		view.shown = true
	}
	view.window.Content().Refresh()
}

// Hide takes the bubble off screen.
func (view *View) Hide() {
	if view.shown {
		view.window.Hide()
		view.shown = false
	}
}

// bubbleLayout stacks title, message, dynamic line and the button row inside
// the padded body, keeps the close pill in the top-right corner, and leaves
// the tail strip at the bottom.
type bubbleLayout struct {
	view *View
}

func (layout *bubbleLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) < 7 {
		return
	}
	view := layout.view
	metrics := view.metrics

	padX := float32(metrics.PadX)
	padY := float32(metrics.PadY)
	tailHeight := float32(metrics.TailHeight)

	bodyHeight := size.Height - tailHeight
	if bodyHeight < 0 {
		bodyHeight = 0
	}

	background := objects[0]
	background.Move(fyne.NewPos(0, 0))
	background.Resize(fyne.NewSize(size.Width, bodyHeight))

	tail := objects[1]
	tailWidth := float32(16)
	tail.Move(fyne.NewPos(size.Width/2-tailWidth/2, bodyHeight-1))
	tail.Resize(fyne.NewSize(tailWidth, tailHeight))

	contentWidth := size.Width - padX*2
	if contentWidth < 0 {
		contentWidth = 0
	}
	y := padY

	title := objects[2]
	if view.title.Text != "" {
		titleHeight := float32(textLineHeight(titleTextSize, fyne.TextStyle{Bold: true}))
		title.Move(fyne.NewPos(padX, y))
		title.Resize(fyne.NewSize(contentWidth, titleHeight))
		title.Show()
		y += titleHeight + lineGap
	} else {
		title.Hide()
	}

	message := objects[3]
	if view.message.Text != "" {
		messageHeight := float32(wrappedTextHeight(view.message.Text, int(contentWidth), bodyTextSize, fyne.TextStyle{}))
		message.Move(fyne.NewPos(padX, y))
		message.Resize(fyne.NewSize(contentWidth, messageHeight))
		message.Show()
		y += messageHeight + lineGap
	} else {
		message.Hide()
	}

	dynamic := objects[4]
	if view.dynamic.Visible() {
		dynamicHeight := float32(textLineHeight(bodyTextSize, fyne.TextStyle{Monospace: true}))
		dynamic.Move(fyne.NewPos(padX, y))
		dynamic.Resize(fyne.NewSize(contentWidth, dynamicHeight))
		y += dynamicHeight + lineGap
	}

	buttons := objects[5]
	if view.buttonRow.Visible() && len(view.buttonRow.Objects) > 0 {
		buttonsHeight := buttons.MinSize().Height
		buttons.Move(fyne.NewPos(padX, y))
		buttons.Resize(fyne.NewSize(contentWidth, buttonsHeight))
	}

	closeButton := objects[6]
	closeButton.Move(fyne.NewPos(size.Width-closeSide-4, 4))
	closeButton.Resize(fyne.NewSize(closeSide, closeSide))
}

func (layout *bubbleLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	metrics := layout.view.metrics
	return fyne.NewSize(float32(metrics.MinWidth), float32(2*metrics.PadY+metrics.TailHeight))
}

func naturalTextWidth(text string, size float32, style fyne.TextStyle) int {
	widest := float32(0)
	for _, line := range strings.Split(text, "\n") {
		measured := fyne.MeasureText(line, size, style)
		if measured.Width > widest {
			widest = measured.Width
		}
	}
	return int(widest + 0.5)
}

func textLineHeight(size float32, style fyne.TextStyle) int {
	return int(fyne.MeasureText("Mg", size, style).Height + 0.5)
}

// wrappedTextHeight estimates the height of word-wrapped text by greedily
// packing words into lines of the given width. The measure and the layout
// pass share this estimate, and both space lines by the same lineGap the
// block layout uses.
func wrappedTextHeight(text string, width int, size float32, style fyne.TextStyle) int {
	lines := wrapLineCount(text, width, func(line string) int {
		return int(fyne.MeasureText(line, size, style).Width)
	})
	return wrappedHeight(lines, textLineHeight(size, style))
}

// wrapLineCount counts the lines produced by greedy word packing at the
// given width; width <= 0 means no wrapping.
func wrapLineCount(text string, width int, measure func(string) int) int {
	if width <= 0 {
		return 1
	}

	lines := 0
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines++
			continue
		}
		current := ""
		for _, word := range words {
			candidate := word
			if current != "" {
				candidate = current + " " + word
			}
			if measure(candidate) <= width {
				current = candidate
				continue
			}
			if current != "" {
				lines++
			}
			current = word
		}
		if current != "" {
			lines++
		}
	}
	if lines == 0 {
		lines = 1
	}
	return lines
}

func wrappedHeight(lines, lineHeight int) int {
	if lines < 1 {
		lines = 1
	}
	return lines*lineHeight + (lines-1)*lineGap
}

func capWidth(width, maxWidth int) int {
	if width > maxWidth {
		return maxWidth
	}
	return width
}
