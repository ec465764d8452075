package bubble

import (
	"errors"
	"testing"
	"time"

	"doei/internal/core/geom"
	"doei/internal/core/model"
	"doei/internal/core/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeView struct {
	title   string
	message string

	dynamicText    string
	dynamicVisible bool
	buttons        []model.Action
	closeHandler   func()

	titleWidth    int
	messageWidth  int
	dynamicWidth  int
	contentHeight int

	frames []geom.Rect
	hides  int
}

func (view *fakeView) SetContent(title, message string) {
	view.title = title
	view.message = message
}

func (view *fakeView) SetDynamic(text string, visible bool) {
	view.dynamicText = text
	view.dynamicVisible = visible
}

func (view *fakeView) SetButtons(buttons []model.Action) { view.buttons = buttons }

func (view *fakeView) SetCloseHandler(close func()) { view.closeHandler = close }

func (view *fakeView) NaturalWidths(maxContentWidth int) (int, int, int) {
	return view.titleWidth, view.messageWidth, view.dynamicWidth
}

func (view *fakeView) ContentHeight(contentWidth int) int { return view.contentHeight }

func (view *fakeView) Apply(frame geom.Rect) { view.frames = append(view.frames, frame) }

func (view *fakeView) Hide() { view.hides++ }

func (view *fakeView) lastFrame() geom.Rect { return view.frames[len(view.frames)-1] }

type fakeScreens struct{ bounds geom.Rect }

func (screens fakeScreens) AvailableRect(geom.Point) geom.Rect { return screens.bounds }

func newTestPositioner(view *fakeView) (*Positioner, *schedule.Scheduler, *schedule.ManualClock) {
	clock := schedule.NewManualClock(time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC))
	scheduler := schedule.New(clock)
	positioner := New(view, fakeScreens{bounds: geom.Rect{W: 1920, H: 1080}}, scheduler, DefaultMetrics())
	return positioner, scheduler, clock
}

func TestShowPlacesAboveAnchor(t *testing.T) {
	view := &fakeView{titleWidth: 100, messageWidth: 200, contentHeight: 60}
	positioner, _, _ := newTestPositioner(view)

	anchor := geom.Point{X: 800, Y: 500}
	positioner.Show(model.Notice{Title: "Hi", Message: "hello", Duration: time.Second}, anchor)

	require.True(t, positioner.Visible())
	frame := view.lastFrame()

	// Width: content 200 + 2*12 padding. Height: 60 + 2*10 + 10 tail.
	assert.Equal(t, 224, frame.W)
	assert.Equal(t, 90, frame.H)
	assert.Equal(t, anchor.X-frame.W/2, frame.X, "centered on the anchor")
	assert.Equal(t, anchor.Y-frame.H-18, frame.Y, "bottom sits a gap above the anchor")
}

func TestShowFloorsAndCapsWidth(t *testing.T) {
	view := &fakeView{titleWidth: 10, messageWidth: 20, contentHeight: 40}
	positioner, _, _ := newTestPositioner(view)

	positioner.Show(model.Notice{Message: "hm", Duration: time.Second}, geom.Point{X: 800, Y: 500})
	assert.Equal(t, 160, view.lastFrame().W, "narrow content floors at the minimum width")

	view.messageWidth = 900
	positioner.Show(model.Notice{Message: "long", Duration: time.Second}, geom.Point{X: 800, Y: 500})
	assert.Equal(t, 360, view.lastFrame().W, "wide content caps at the maximum width")
}

func TestShowClampsNearScreenEdge(t *testing.T) {
	view := &fakeView{titleWidth: 100, messageWidth: 200, contentHeight: 60}
	positioner, _, _ := newTestPositioner(view)

	positioner.Show(model.Notice{Message: "hi", Duration: time.Second}, geom.Point{X: 30, Y: 40})
	frame := view.lastFrame()

	assert.Equal(t, 0, frame.X, "clamped to the left edge")
	assert.Equal(t, 0, frame.Y, "clamped to the top edge")
}

func TestAutoHideAfterDuration(t *testing.T) {
	view := &fakeView{titleWidth: 50, messageWidth: 50, contentHeight: 40}
	positioner, scheduler, clock := newTestPositioner(view)

	closed := 0
	positioner.SetOnClosed(func() { closed++ })

	positioner.Show(model.Notice{Message: "hi", Duration: 2400 * time.Millisecond}, geom.Point{X: 800, Y: 500})

	clock.Advance(2 * time.Second)
	scheduler.RunDue()
	assert.True(t, positioner.Visible())

	clock.Advance(time.Second)
	scheduler.RunDue()
	assert.False(t, positioner.Visible())
	assert.Equal(t, 1, view.hides)
	assert.Equal(t, 1, closed)
}

func TestPersistentBubbleStaysUp(t *testing.T) {
	view := &fakeView{titleWidth: 50, messageWidth: 50, contentHeight: 40}
	positioner, scheduler, clock := newTestPositioner(view)

	positioner.Show(model.Notice{Message: "countdown", Duration: 0}, geom.Point{X: 800, Y: 500})

	clock.Advance(time.Hour)
	scheduler.RunDue()
	assert.True(t, positioner.Visible(), "duration zero never auto-hides")

	positioner.Close()
	assert.False(t, positioner.Visible())
}

func TestShowReplacesPreviousBubble(t *testing.T) {
	view := &fakeView{titleWidth: 50, messageWidth: 50, contentHeight: 40}
	positioner, scheduler, clock := newTestPositioner(view)

	positioner.Show(model.Notice{Message: "first", Duration: time.Second}, geom.Point{X: 800, Y: 500})
	positioner.Show(model.Notice{Message: "second", Duration: 10 * time.Second}, geom.Point{X: 800, Y: 500})

	// The first bubble's expiry must not take the replacement down.
	clock.Advance(2 * time.Second)
	scheduler.RunDue()
	assert.True(t, positioner.Visible())
	assert.Equal(t, "second", view.message)
}

func TestDynamicLinePollsAndKeepsLastTextOnError(t *testing.T) {
	view := &fakeView{titleWidth: 50, messageWidth: 50, dynamicWidth: 80, contentHeight: 40}
	positioner, scheduler, clock := newTestPositioner(view)

	text := "25:00"
	var pollErr error
	polls := 0
	dynamic := func() (string, error) {
		polls++
		return text, pollErr
	}

	positioner.Show(model.Notice{Message: "focus", Duration: 0, Dynamic: dynamic, Refresh: time.Second}, geom.Point{X: 800, Y: 500})
	assert.Equal(t, 1, polls, "initial poll happens at show time")
	assert.Equal(t, "25:00", view.dynamicText)

	text = "24:59"
	clock.Advance(time.Second)
	scheduler.RunDue()
	assert.Equal(t, "24:59", view.dynamicText)

	pollErr = errors.New("not running")
	text = "xx:xx"
	clock.Advance(time.Second)
	scheduler.RunDue()
	assert.Equal(t, "24:59", view.dynamicText, "failed poll keeps the last text")

	pollErr = nil
	text = "24:57"
	clock.Advance(time.Second)
	scheduler.RunDue()
	assert.Equal(t, "24:57", view.dynamicText, "polling continues after a failure")
}

func TestDynamicWidthRaisesContent(t *testing.T) {
	view := &fakeView{titleWidth: 20, messageWidth: 30, dynamicWidth: 250, contentHeight: 40}
	positioner, _, _ := newTestPositioner(view)

	positioner.Show(model.Notice{Message: "m", Duration: 0, Dynamic: func() (string, error) { return "x", nil }}, geom.Point{X: 800, Y: 500})
	assert.Equal(t, 250+24, view.lastFrame().W, "dynamic line may widen the bubble past the floor")
}

func TestUpdateAnchorTracksWithoutTimerReset(t *testing.T) {
	view := &fakeView{titleWidth: 50, messageWidth: 50, contentHeight: 40}
	positioner, scheduler, clock := newTestPositioner(view)

	positioner.Show(model.Notice{Message: "hi", Duration: 2 * time.Second}, geom.Point{X: 800, Y: 500})
	firstX := view.lastFrame().X

	clock.Advance(1500 * time.Millisecond)
	scheduler.RunDue()
	positioner.UpdateAnchor(geom.Point{X: 900, Y: 500})
	assert.Equal(t, firstX+100, view.lastFrame().X)

	// Anchor updates must not extend the bubble's lifetime.
	clock.Advance(time.Second)
	scheduler.RunDue()
	assert.False(t, positioner.Visible())
}

func TestUpdateAnchorWhileHiddenDoesNothing(t *testing.T) {
	view := &fakeView{titleWidth: 50, messageWidth: 50, contentHeight: 40}
	positioner, _, _ := newTestPositioner(view)

	positioner.UpdateAnchor(geom.Point{X: 900, Y: 500})
	assert.Empty(t, view.frames)
}

func TestCloseHandlerWiredToView(t *testing.T) {
	view := &fakeView{titleWidth: 50, messageWidth: 50, contentHeight: 40}
	positioner, _, _ := newTestPositioner(view)

	positioner.Show(model.Notice{Message: "hi", Duration: 0}, geom.Point{X: 800, Y: 500})
	require.NotNil(t, view.closeHandler)

	view.closeHandler()
	assert.False(t, positioner.Visible(), "the view close pill closes through the positioner")
}
