// Package pomodoro implements the work/break countdown driven by the
// scheduler's one-second tick.
package pomodoro

import (
	"errors"
	"fmt"
	"time"

	"doei/internal/core/model"
	"doei/internal/core/schedule"
)

// Phase is the current countdown mode.
type Phase int

const (
	PhaseWork Phase = iota
	PhaseBreak
)

// String names the phase.
func (phase Phase) String() string {
	if phase == PhaseBreak {
		return "break"
	}
	return "work"
}

// Config holds the phase durations.
type Config struct {
	Work  time.Duration
	Break time.Duration
}

// DefaultConfig returns the classic 25/5 split.
func DefaultConfig() Config {
	return Config{Work: 25 * time.Minute, Break: 5 * time.Minute}
}

// Pet is the pose surface the countdown drives.
type Pet interface {
	SetState(target model.Pose, announce bool, title, text string)
}

// ErrNotRunning is returned by the countdown line once the timer stops; the
// bubble keeps its last rendered text.
var ErrNotRunning = errors.New("pomodoro not running")

// Timer is the work/break state machine.
type Timer struct {
	config    Config
	scheduler *schedule.Scheduler
	pet       Pet
	notifier  model.Notifier

	running   bool
	phase     Phase
	remaining int
	task      *schedule.Task

	onSnooze     func(minutes int)
	onPoseForced func()
}

// New creates a stopped timer.
func New(config Config, scheduler *schedule.Scheduler, pet Pet, notifier model.Notifier) *Timer {
	if config.Work <= 0 {
		config.Work = DefaultConfig().Work
	}
	if config.Break <= 0 {
		config.Break = DefaultConfig().Break
	}
	return &Timer{
		config:    config,
		scheduler: scheduler,
		pet:       pet,
		notifier:  notifier,
	}
}

// SetOnSnooze installs the rest-snooze hook used by the bubble buttons.
func (timer *Timer) SetOnSnooze(onSnooze func(minutes int)) {
	timer.onSnooze = onSnooze
}

// SetOnPoseForced installs the hook fired whenever the countdown takes over
// the pose, so an in-progress roundtrip can be cancelled before the pet
// stops walking.
func (timer *Timer) SetOnPoseForced(onPoseForced func()) {
	timer.onPoseForced = onPoseForced
}

func (timer *Timer) forcePose(target model.Pose) {
	if timer.onPoseForced != nil {
		timer.onPoseForced()
	}
	timer.pet.SetState(target, false, "", "")
}

// SetConfig updates the phase durations; the running phase keeps its
// remaining time, the new durations apply from the next transition.
func (timer *Timer) SetConfig(config Config) {
	if config.Work > 0 {
		timer.config.Work = config.Work
	}
	if config.Break > 0 {
		timer.config.Break = config.Break
	}
}

// Running reports whether the countdown is active.
func (timer *Timer) Running() bool { return timer.running }

// Phase returns the current mode.
func (timer *Timer) Phase() Phase { return timer.phase }

// RemainingSeconds returns the seconds left in the current phase.
func (timer *Timer) RemainingSeconds() int { return timer.remaining }

// Start begins a work phase, forces the sitting pose and shows the
// persistent countdown bubble. Starting twice is a no-op with a notice.
func (timer *Timer) Start() {
	if timer.running {
		timer.notifier.Notify(model.Notice{Title: "Pomodoro", Message: "Already running.", Duration: 1800 * time.Millisecond})
		return
	}
	timer.running = true
	timer.phase = PhaseWork
	timer.remaining = int(timer.config.Work.Seconds())
	timer.forcePose(model.PoseSitting)
	timer.task = timer.scheduler.Every(time.Second, timer.tick)
	timer.showBubble()
}

// Stop halts the tick and clears the running flag.
func (timer *Timer) Stop() {
	if timer.task != nil {
		timer.task.Stop()
		timer.task = nil
	}
	timer.running = false
	timer.notifier.Notify(model.Notice{Title: "Pomodoro", Message: "Stopped.", Duration: 2 * time.Second})
}

// ForceBreak jumps straight into a break phase, bypassing the countdown.
func (timer *Timer) ForceBreak() {
	if !timer.running {
		timer.notifier.Notify(model.Notice{Title: "Pomodoro", Message: "Start it first.", Duration: 1800 * time.Millisecond})
		return
	}
	timer.phase = PhaseBreak
	timer.remaining = int(timer.config.Break.Seconds())
	timer.forcePose(model.PoseLyingDown)
	timer.notifier.Notify(model.Notice{Title: "Break", Message: "Starting break now.", Duration: 1800 * time.Millisecond})
	timer.showBubble()
}

// ForceWork jumps straight back into a work phase.
func (timer *Timer) ForceWork() {
	if !timer.running {
		timer.notifier.Notify(model.Notice{Title: "Pomodoro", Message: "Start it first.", Duration: 1800 * time.Millisecond})
		return
	}
	timer.phase = PhaseWork
	timer.remaining = int(timer.config.Work.Seconds())
	timer.forcePose(model.PoseSitting)
	timer.notifier.Notify(model.Notice{Title: "Focus", Message: "Back to work.", Duration: 1800 * time.Millisecond})
	timer.showBubble()
}

// CountdownLine renders the dynamic bubble line.
func (timer *Timer) CountdownLine() (string, error) {
	if !timer.running {
		return "", ErrNotRunning
	}
	label := "Focus"
	if timer.phase == PhaseBreak {
		label = "Break"
	}
	return fmt.Sprintf("%s: %s remaining", label, formatMMSS(timer.remaining)), nil
}

func (timer *Timer) tick() {
	if !timer.running {
		return
	}
	timer.remaining--
	if timer.remaining > 0 {
		return
	}
	if timer.phase == PhaseWork {
		timer.phase = PhaseBreak
		timer.remaining = int(timer.config.Break.Seconds())
		timer.forcePose(model.PoseLyingDown)
		timer.notifier.Notify(model.Notice{Title: "Time's up", Message: "Nice work. Break time starts now.", Duration: 2600 * time.Millisecond})
	} else {
		timer.phase = PhaseWork
		timer.remaining = int(timer.config.Work.Seconds())
		timer.forcePose(model.PoseSitting)
		timer.notifier.Notify(model.Notice{Title: "Time's up", Message: "Break over. Back to focus.", Duration: 2600 * time.Millisecond})
	}
	timer.showBubble()
}

// showBubble raises the persistent countdown bubble with the phase actions.
func (timer *Timer) showBubble() {
	if !timer.running {
		return
	}

	var title, message string
	var buttons []model.Action
	if timer.phase == PhaseWork {
		title = "Focus time"
		message = "Write one small piece: one sentence or one citation."
		buttons = []model.Action{{Label: "Start break", Invoke: timer.ForceBreak}}
	} else {
		title = "Break time"
		message = "Stand up. Stretch your neck & shoulders."
		buttons = []model.Action{{Label: "Back to focus", Invoke: timer.ForceWork}}
	}
	if timer.onSnooze != nil {
		buttons = append(buttons, model.Action{Label: "Snooze 10 min", Invoke: func() { timer.onSnooze(10) }})
	}

	timer.notifier.Notify(model.Notice{
		Title:    title,
		Message:  message,
		Duration: 0,
		Buttons:  buttons,
		Dynamic:  timer.CountdownLine,
		Refresh:  time.Second,
	})
}

func formatMMSS(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
