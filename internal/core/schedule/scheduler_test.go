package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler() (*Scheduler, *ManualClock) {
	clock := NewManualClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	return New(clock), clock
}

func TestAfterFiresOnce(t *testing.T) {
	scheduler, clock := newTestScheduler()

	fired := 0
	scheduler.After(time.Second, func() { fired++ })

	scheduler.RunDue()
	assert.Equal(t, 0, fired, "must not fire before its time")

	clock.Advance(time.Second)
	scheduler.RunDue()
	assert.Equal(t, 1, fired)

	clock.Advance(10 * time.Second)
	scheduler.RunDue()
	assert.Equal(t, 1, fired, "one-shot must not fire again")
}

func TestEveryReschedules(t *testing.T) {
	scheduler, clock := newTestScheduler()

	fired := 0
	scheduler.Every(time.Second, func() { fired++ })

	for i := 0; i < 5; i++ {
		clock.Advance(time.Second)
		scheduler.RunDue()
	}
	assert.Equal(t, 5, fired)
}

func TestEveryNoCatchUpBurst(t *testing.T) {
	scheduler, clock := newTestScheduler()

	fired := 0
	scheduler.Every(time.Second, func() { fired++ })

	// A long stall produces exactly one fire; the next is measured from the
	// moment it ran.
	clock.Advance(10 * time.Second)
	scheduler.RunDue()
	assert.Equal(t, 1, fired)

	clock.Advance(time.Second)
	scheduler.RunDue()
	assert.Equal(t, 2, fired)
}

func TestRunDueFiresInOrder(t *testing.T) {
	scheduler, clock := newTestScheduler()

	var order []string
	scheduler.After(3*time.Second, func() { order = append(order, "c") })
	scheduler.After(time.Second, func() { order = append(order, "a") })
	scheduler.After(2*time.Second, func() { order = append(order, "b") })

	clock.Advance(5 * time.Second)
	scheduler.RunDue()
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestStopPreventsPendingFire(t *testing.T) {
	scheduler, clock := newTestScheduler()

	fired := false
	task := scheduler.After(time.Second, func() { fired = true })

	clock.Advance(2 * time.Second)
	task.Stop()
	scheduler.RunDue()

	assert.False(t, fired, "stopped task must not fire even when already due")
	assert.False(t, task.Active())
}

func TestStopRecurring(t *testing.T) {
	scheduler, clock := newTestScheduler()

	fired := 0
	task := scheduler.Every(time.Second, func() { fired++ })

	clock.Advance(time.Second)
	scheduler.RunDue()
	require.Equal(t, 1, fired)

	task.Stop()
	clock.Advance(5 * time.Second)
	scheduler.RunDue()
	assert.Equal(t, 1, fired)
}

func TestCallbackMaySchedule(t *testing.T) {
	scheduler, clock := newTestScheduler()

	var chained bool
	scheduler.After(time.Second, func() {
		scheduler.After(time.Second, func() { chained = true })
	})

	clock.Advance(time.Second)
	scheduler.RunDue()
	assert.False(t, chained, "chained task fires at its own time, not in the same batch")

	clock.Advance(time.Second)
	scheduler.RunDue()
	assert.True(t, chained)
}

func TestCallbackMayStopSibling(t *testing.T) {
	scheduler, clock := newTestScheduler()

	var secondFired bool
	var second *Task
	scheduler.After(time.Second, func() { second.Stop() })
	second = scheduler.After(2*time.Second, func() { secondFired = true })

	clock.Advance(3 * time.Second)
	scheduler.RunDue()
	assert.False(t, secondFired)
}

func TestNextFire(t *testing.T) {
	scheduler, clock := newTestScheduler()

	_, ok := scheduler.NextFire()
	assert.False(t, ok, "empty scheduler has no next fire")

	scheduler.After(3*time.Second, func() {})
	task := scheduler.After(time.Second, func() {})

	next, ok := scheduler.NextFire()
	require.True(t, ok)
	assert.Equal(t, clock.Now().Add(time.Second), next)

	task.Stop()
	next, ok = scheduler.NextFire()
	require.True(t, ok)
	assert.Equal(t, clock.Now().Add(3*time.Second), next)
}

func TestManualClockAdvance(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewManualClock(start)

	assert.Equal(t, start, clock.Now())
	after := clock.Advance(90 * time.Second)
	assert.Equal(t, start.Add(90*time.Second), after)
	assert.Equal(t, after, clock.Now())
}
