package drag

import (
	"testing"
	"time"

	"doei/internal/core/geom"
	"doei/internal/core/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWindow struct {
	pos  geom.Point
	size geom.Size
}

func (window *fakeWindow) Position() geom.Point  { return window.pos }
func (window *fakeWindow) Move(pos geom.Point)   { window.pos = pos }
func (window *fakeWindow) Size() geom.Size       { return window.size }
func (window *fakeWindow) Resize(size geom.Size) { window.size = size }
func (window *fakeWindow) Visible() bool         { return true }
func (window *fakeWindow) Show()                 {}
func (window *fakeWindow) Hide()                 {}

type fakeScreens struct{ bounds geom.Rect }

func (screens fakeScreens) AvailableRect(geom.Point) geom.Rect { return screens.bounds }

type dragHarness struct {
	controller *Controller
	window     *fakeWindow
	clock      *schedule.ManualClock

	clicks       int
	lockedClicks int
	dropped      []geom.Point
}

func newHarness(locked bool) *dragHarness {
	window := &fakeWindow{pos: geom.Point{X: 400, Y: 400}, size: geom.Size{W: 100, H: 100}}
	clock := schedule.NewManualClock(time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC))
	controller := New(DefaultConfig(), window, fakeScreens{bounds: geom.Rect{W: 1920, H: 1080}}, clock)

	harness := &dragHarness{controller: controller, window: window, clock: clock}
	controller.SetLocked(func() bool { return locked })
	controller.SetOnClick(func() { harness.clicks++ })
	controller.SetOnLockedClick(func() { harness.lockedClicks++ })
	controller.SetOnDropped(func(pos geom.Point) { harness.dropped = append(harness.dropped, pos) })
	return harness
}

func TestShortStillPressIsClick(t *testing.T) {
	harness := newHarness(false)

	harness.controller.Press(geom.Point{X: 450, Y: 450})
	harness.clock.Advance(100 * time.Millisecond)
	harness.controller.Release(geom.Point{X: 450, Y: 450})

	assert.Equal(t, 1, harness.clicks)
	assert.Equal(t, 0, harness.lockedClicks)
	assert.False(t, harness.controller.Dragging())
}

func TestLongPressIsNotClick(t *testing.T) {
	harness := newHarness(false)

	harness.controller.Press(geom.Point{X: 450, Y: 450})
	harness.clock.Advance(400 * time.Millisecond)
	harness.controller.Release(geom.Point{X: 450, Y: 450})

	assert.Equal(t, 0, harness.clicks)
}

func TestJitterBelowThresholdStillClicks(t *testing.T) {
	harness := newHarness(false)

	harness.controller.Press(geom.Point{X: 450, Y: 450})
	harness.controller.Move(geom.Point{X: 452, Y: 451})
	harness.clock.Advance(100 * time.Millisecond)
	harness.controller.Release(geom.Point{X: 452, Y: 451})

	assert.Equal(t, 1, harness.clicks, "3px of jitter stays a click")
}

func TestDragBeyondThresholdSuppressesClick(t *testing.T) {
	harness := newHarness(false)

	harness.controller.Press(geom.Point{X: 450, Y: 450})
	harness.controller.Move(geom.Point{X: 470, Y: 450})
	harness.clock.Advance(100 * time.Millisecond)
	harness.controller.Release(geom.Point{X: 470, Y: 450})

	assert.Equal(t, 0, harness.clicks, "a real drag never doubles as a click")
	require.Len(t, harness.dropped, 1)
	assert.Equal(t, 420, harness.window.pos.X, "window followed the pointer")
}

func TestDragFollowsPointerWithOffset(t *testing.T) {
	harness := newHarness(false)

	// Grab 50px into the window; the grab point stays under the pointer.
	harness.controller.Press(geom.Point{X: 450, Y: 430})
	harness.controller.Move(geom.Point{X: 700, Y: 600})

	assert.Equal(t, geom.Point{X: 650, Y: 570}, harness.window.pos)
	assert.True(t, harness.controller.Dragging())
}

func TestLiveDragIsNotClamped(t *testing.T) {
	harness := newHarness(false)

	harness.controller.Press(geom.Point{X: 450, Y: 450})
	harness.controller.Move(geom.Point{X: -200, Y: 450})

	assert.Less(t, harness.window.pos.X, 0, "mid-drag the window may leave the screen")

	harness.clock.Advance(500 * time.Millisecond)
	harness.controller.Release(geom.Point{X: -200, Y: 450})
	assert.Equal(t, 0, harness.window.pos.X, "release clamps back inside")
}

func TestReleaseSnapsToNearbyEdge(t *testing.T) {
	harness := newHarness(false)

	harness.controller.Press(geom.Point{X: 450, Y: 450})
	// Drop with the left edge 10px from the screen edge, inside the 18px
	// snap margin.
	harness.controller.Move(geom.Point{X: 60, Y: 450})
	harness.clock.Advance(500 * time.Millisecond)
	harness.controller.Release(geom.Point{X: 60, Y: 450})

	assert.Equal(t, 0, harness.window.pos.X)
	require.Len(t, harness.dropped, 1)
	assert.Equal(t, 0, harness.dropped[0].X, "persisted position is the snapped one")
}

func TestLockedPressRefusesDrag(t *testing.T) {
	harness := newHarness(true)
	start := harness.window.pos

	harness.controller.Press(geom.Point{X: 450, Y: 450})
	assert.False(t, harness.controller.Dragging())

	harness.controller.Move(geom.Point{X: 700, Y: 700})
	assert.Equal(t, start, harness.window.pos, "locked window never moves")

	harness.clock.Advance(100 * time.Millisecond)
	harness.controller.Release(geom.Point{X: 700, Y: 700})
	assert.Equal(t, 1, harness.lockedClicks)
	assert.Equal(t, 0, harness.clicks)
}

func TestLockedLongPressIsSilent(t *testing.T) {
	harness := newHarness(true)

	harness.controller.Press(geom.Point{X: 450, Y: 450})
	harness.clock.Advance(time.Second)
	harness.controller.Release(geom.Point{X: 450, Y: 450})

	assert.Equal(t, 0, harness.lockedClicks)
}
