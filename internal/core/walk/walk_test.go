package walk

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

func (window *fakeWindow) Position() geom.Point   { return window.pos }
func (window *fakeWindow) Move(pos geom.Point)    { window.pos = pos }
func (window *fakeWindow) Size() geom.Size        { return window.size }
func (window *fakeWindow) Resize(size geom.Size)  { window.size = size }
func (window *fakeWindow) Visible() bool          { return true }
func (window *fakeWindow) Show()                  {}
func (window *fakeWindow) Hide()                  {}

type fakeScreens struct {
	bounds geom.Rect
}

func (screens fakeScreens) AvailableRect(geom.Point) geom.Rect { return screens.bounds }

func newTestWalker(config Config, window *fakeWindow) (*Controller, *schedule.Scheduler, *schedule.ManualClock) {
	clock := schedule.NewManualClock(time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC))
	scheduler := schedule.New(clock)
	screens := fakeScreens{bounds: geom.Rect{X: 0, Y: 0, W: 1920, H: 1080}}
	return New(config, window, screens, scheduler), scheduler, clock
}

func tickN(scheduler *schedule.Scheduler, clock *schedule.ManualClock, interval time.Duration, n int) {
	for i := 0; i < n; i++ {
		clock.Advance(interval)
		scheduler.RunDue()
	}
}

func TestWalkDistanceAccumulates(t *testing.T) {
	config := Config{SpeedPxPerSec: 90, TickInterval: 55 * time.Millisecond, BobAmplitude: 0}
	window := &fakeWindow{pos: geom.Point{X: 400, Y: 500}, size: geom.Size{W: 100, H: 100}}
	walker, scheduler, clock := newTestWalker(config, window)

	walker.Start(+1)
	const ticks = 100
	tickN(scheduler, clock, config.TickInterval, ticks)

	// 90 px/s * 55 ms * 100 ticks = 495 px; integer steps may trail the
	// ideal distance by strictly less than one pixel.
	moved := window.pos.X - 400
	expected := config.SpeedPxPerSec * config.TickInterval.Seconds() * ticks
	assert.InDelta(t, expected, float64(moved), 1.0)
}

func TestWalkSlowSpeedLosesNoDistance(t *testing.T) {
	// 5 px/s at 55 ms is 0.275 px per tick; only the accumulator makes the
	// window move at all.
	config := Config{SpeedPxPerSec: 5, TickInterval: 55 * time.Millisecond, BobAmplitude: 0}
	window := &fakeWindow{pos: geom.Point{X: 400, Y: 500}, size: geom.Size{W: 100, H: 100}}
	walker, scheduler, clock := newTestWalker(config, window)

	walker.Start(+1)
	const ticks = 200
	tickN(scheduler, clock, config.TickInterval, ticks)

	moved := window.pos.X - 400
	expected := config.SpeedPxPerSec * config.TickInterval.Seconds() * ticks
	assert.InDelta(t, expected, float64(moved), 1.0)
}

func TestWalkStaysInsideBounds(t *testing.T) {
	config := DefaultConfig()
	window := &fakeWindow{pos: geom.Point{X: 1700, Y: 500}, size: geom.Size{W: 100, H: 100}}
	walker, scheduler, clock := newTestWalker(config, window)

	edges := 0
	walker.SetOnEdge(func() { edges++ })
	walker.Start(+1)

	for i := 0; i < 200; i++ {
		clock.Advance(config.TickInterval)
		scheduler.RunDue()
		assert.GreaterOrEqual(t, window.pos.X, 0)
		assert.LessOrEqual(t, window.pos.X, 1920-window.size.W)
	}
	assert.Greater(t, edges, 0, "walking into the edge must report contact")
}

func TestWalkEdgeReversal(t *testing.T) {
	config := Config{SpeedPxPerSec: 90, TickInterval: 55 * time.Millisecond, BobAmplitude: 0}
	window := &fakeWindow{pos: geom.Point{X: 1790, Y: 500}, size: geom.Size{W: 100, H: 100}}
	walker, scheduler, clock := newTestWalker(config, window)

	edges := 0
	walker.SetOnEdge(func() {
		edges++
		walker.Start(-walker.Direction())
	})
	walker.Start(+1)

	tickN(scheduler, clock, config.TickInterval, 20)
	require.Equal(t, 1, edges, "one contact at the right edge")
	assert.Equal(t, -1, walker.Direction())
	assert.Less(t, window.pos.X, 1820, "window walked away from the edge")
}

func TestWalkBobStaysWithinAmplitude(t *testing.T) {
	config := DefaultConfig()
	window := &fakeWindow{pos: geom.Point{X: 400, Y: 500}, size: geom.Size{W: 100, H: 100}}
	walker, scheduler, clock := newTestWalker(config, window)

	walker.Start(+1)
	for i := 0; i < 50; i++ {
		clock.Advance(config.TickInterval)
		scheduler.RunDue()
		assert.GreaterOrEqual(t, window.pos.Y, 500-config.BobAmplitude)
		assert.LessOrEqual(t, window.pos.Y, 500+config.BobAmplitude)
	}
}

func TestStopRestoresBaseline(t *testing.T) {
	config := DefaultConfig()
	window := &fakeWindow{pos: geom.Point{X: 400, Y: 500}, size: geom.Size{W: 100, H: 100}}
	walker, scheduler, clock := newTestWalker(config, window)

	walker.Start(+1)
	tickN(scheduler, clock, config.TickInterval, 13)
	walker.Stop()

	assert.Equal(t, 500, window.pos.Y, "vertical offset restored exactly")
	assert.False(t, walker.Active())

	// A stopped walker's pending tick must not move the window.
	x := window.pos.X
	tickN(scheduler, clock, config.TickInterval, 5)
	assert.Equal(t, x, window.pos.X)
}

func TestReversalKeepsBaseline(t *testing.T) {
	config := DefaultConfig()
	window := &fakeWindow{pos: geom.Point{X: 400, Y: 500}, size: geom.Size{W: 100, H: 100}}
	walker, scheduler, clock := newTestWalker(config, window)

	walker.Start(+1)
	tickN(scheduler, clock, config.TickInterval, 7)
	walker.Start(-1)
	tickN(scheduler, clock, config.TickInterval, 7)
	walker.Stop()

	assert.Equal(t, 500, window.pos.Y, "reversals leave no vertical drift")
}

func TestSuspendedTickHolds(t *testing.T) {
	config := DefaultConfig()
	window := &fakeWindow{pos: geom.Point{X: 400, Y: 500}, size: geom.Size{W: 100, H: 100}}
	walker, scheduler, clock := newTestWalker(config, window)

	suspended := true
	walker.SetSuspended(func() bool { return suspended })
	walker.Start(+1)

	tickN(scheduler, clock, config.TickInterval, 10)
	assert.Equal(t, geom.Point{X: 400, Y: 500}, window.pos, "suspended ticks are no-ops")

	suspended = false
	tickN(scheduler, clock, config.TickInterval, 10)
	assert.Greater(t, window.pos.X, 400, "movement resumes when the gate opens")
}
