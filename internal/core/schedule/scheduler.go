// Package schedule implements the unified timer scheduler behind every
// periodic and one-shot behavior: an ordered queue of (fire time, recurring,
// callback) tasks polled by one driver loop. All callbacks run to completion
// one at a time, so the components they mutate need no locking of their own.
package schedule

import (
	"container/heap"
	"context"
	"sync"
	"time"
)

// Task is a single scheduled callback. Stopping a task guarantees it will
// not fire again, even if it was already due when Stop was called.
type Task struct {
	scheduler *Scheduler
	fire      func()
	when      time.Time
	every     time.Duration // 0 for one-shot
	index     int           // heap position, -1 once popped
	stopped   bool
}

// Stop cancels the task.
func (task *Task) Stop() {
	if task == nil {
		return
	}
	task.scheduler.mu.Lock()
	task.stopped = true
	task.scheduler.mu.Unlock()
}

// Active reports whether the task is still scheduled to fire.
func (task *Task) Active() bool {
	if task == nil {
		return false
	}
	task.scheduler.mu.Lock()
	defer task.scheduler.mu.Unlock()
	return !task.stopped
}

// Scheduler owns the task queue. Tasks are created with After and Every and
// fired either by the real-time Run driver or, in tests, by advancing a
// ManualClock and calling RunDue.
type Scheduler struct {
	mu    sync.Mutex
	clock Clock
	queue taskQueue
	wake  chan struct{}
}

// New creates a scheduler on the given clock.
func New(clock Clock) *Scheduler {
	if clock == nil {
		clock = SystemClock()
	}
	return &Scheduler{
		clock: clock,
		wake:  make(chan struct{}, 1),
	}
}

// Clock returns the scheduler's clock.
func (scheduler *Scheduler) Clock() Clock {
	return scheduler.clock
}

// After schedules fire to run once after delay.
func (scheduler *Scheduler) After(delay time.Duration, fire func()) *Task {
	return scheduler.add(delay, 0, fire)
}

// Every schedules fire to run repeatedly at the given interval. The next
// fire time is computed from the moment the previous one ran, so a stalled
// driver does not cause a burst of catch-up fires.
func (scheduler *Scheduler) Every(interval time.Duration, fire func()) *Task {
	return scheduler.add(interval, interval, fire)
}

// RunDue fires every task whose time has come, in fire-time order. Each
// callback finishes before the next starts; callbacks may schedule or stop
// tasks freely.
func (scheduler *Scheduler) RunDue() {
	for {
		task := scheduler.popDue()
		if task == nil {
			return
		}
		task.fire()
	}
}

// NextFire returns the earliest pending fire time.
func (scheduler *Scheduler) NextFire() (time.Time, bool) {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	for len(scheduler.queue) > 0 {
		head := scheduler.queue[0]
		if head.stopped {
			heap.Pop(&scheduler.queue)
			continue
		}
		return head.when, true
	}
	return time.Time{}, false
}

// Run drives the scheduler against real time until ctx is cancelled. Due
// tasks are handed to dispatch as one batch so the embedding toolkit can
// funnel them onto its event thread; dispatch must run the batch before
// returning to preserve the run-to-completion model.
func (scheduler *Scheduler) Run(ctx context.Context, dispatch func(func())) {
	if dispatch == nil {
		dispatch = func(batch func()) { batch() }
	}
	for {
		next, ok := scheduler.NextFire()
		if !ok {
			select {
			case <-ctx.Done():
				return
			case <-scheduler.wake:
			}
			continue
		}

		wait := next.Sub(scheduler.clock.Now())
		if wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-scheduler.wake:
				timer.Stop()
				continue
			case <-timer.C:
			}
		}
		dispatch(scheduler.RunDue)
	}
}

func (scheduler *Scheduler) add(delay, every time.Duration, fire func()) *Task {
	task := &Task{
		scheduler: scheduler,
		fire:      fire,
		when:      scheduler.clock.Now().Add(delay),
		every:     every,
	}
	scheduler.mu.Lock()
	heap.Push(&scheduler.queue, task)
	scheduler.mu.Unlock()
	scheduler.signal()
	return task
}

// popDue removes and returns the next due runnable task. Recurring tasks are
// rescheduled before they run; stopped tasks are discarded.
func (scheduler *Scheduler) popDue() *Task {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	now := scheduler.clock.Now()
	for len(scheduler.queue) > 0 {
		head := scheduler.queue[0]
		if head.stopped {
			heap.Pop(&scheduler.queue)
			continue
		}
		if head.when.After(now) {
			return nil
		}
		heap.Pop(&scheduler.queue)
		if head.every > 0 {
			head.when = now.Add(head.every)
			heap.Push(&scheduler.queue, head)
		}
		return head
	}
	return nil
}

func (scheduler *Scheduler) signal() {
	select {
	case scheduler.wake <- struct{}{}:
	default:
	}
}

type taskQueue []*Task

func (queue taskQueue) Len() int { return len(queue) }

func (queue taskQueue) Less(i, j int) bool { return queue[i].when.Before(queue[j].when) }

func (queue taskQueue) Swap(i, j int) {
	queue[i], queue[j] = queue[j], queue[i]
	queue[i].index = i
	queue[j].index = j
}

func (queue *taskQueue) Push(item interface{}) {
	task := item.(*Task)
	task.index = len(*queue)
	*queue = append(*queue, task)
}

func (queue *taskQueue) Pop() interface{} {
	old := *queue
	last := len(old) - 1
	task := old[last]
	old[last] = nil
	task.index = -1
	*queue = old[:last]
	return task
}
