// Package behavior orchestrates the independent timer-driven behaviors that
// compete for the pet's pose: rest reminders, snooze, random chatter and
// automatic roundtrip walks. Each behavior carries an idle predicate checked
// at fire time; a failed predicate is a silent no-op. Conflicts are resolved
// by explicit preemption: the rest reminder overrides an active roundtrip
// unconditionally, and nothing starts while a drag or a pomodoro is running.
package behavior

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"doei/internal/core/model"
	"doei/internal/core/schedule"
)

// Config holds the scheduling intervals and probabilities.
type Config struct {
	// RestPoseDuration is how long the pet stays lying down after a rest
	// prompt before auto-returning to sitting.
	RestPoseDuration time.Duration
	// Chatter delays are resampled uniformly from [Min, Max] after every fire.
	ChatterMinDelay time.Duration
	ChatterMaxDelay time.Duration
	ChatterChance   float64
	// AutoRoundtripInterval is the period of the unattended walk.
	AutoRoundtripInterval time.Duration
	// MaxIdleForChatter skips chatter when the user has been away longer
	// than this; zero disables the check.
	MaxIdleForChatter time.Duration
}

// DefaultConfig returns the stock behavior timings.
func DefaultConfig() Config {
	return Config{
		RestPoseDuration:      15 * time.Second,
		ChatterMinDelay:       45 * time.Second,
		ChatterMaxDelay:       140 * time.Second,
		ChatterChance:         0.6,
		AutoRoundtripInterval: 30 * time.Minute,
		MaxIdleForChatter:     10 * time.Minute,
	}
}

// Pet is the state machine surface the behaviors drive.
type Pet interface {
	SetState(target model.Pose, announce bool, title, text string)
	Pose() model.Pose
}

// Walker is the roundtrip kinematics surface.
type Walker interface {
	Stop()
}

// Pomodoro gates behaviors that must not interrupt a running countdown.
type Pomodoro interface {
	Running() bool
}

// IdleChecker reports the duration of user inactivity.
type IdleChecker interface {
	IdleDuration() (time.Duration, error)
}

// Settings persists flag toggles.
type Settings interface {
	Set(key string, value interface{}) error
}

// Deps collects the collaborators of the orchestrator.
type Deps struct {
	Scheduler *schedule.Scheduler
	Pet       Pet
	Walker    Walker
	Notifier  model.Notifier
	Settings  Settings
	Flags     *model.Flags
	Pomodoro  Pomodoro
	Dragging  func() bool
	Visible   func() bool
	Idle      IdleChecker
	Rand      *rand.Rand
}

// Orchestrator owns the behavior timers, the idle predicates gating them and
// the roundtrip tracker.
type Orchestrator struct {
	config    Config
	scheduler *schedule.Scheduler
	rng       *rand.Rand
	pet       Pet
	walker    Walker
	notifier  model.Notifier
	settings  Settings
	flags     *model.Flags
	pomodoro  Pomodoro
	dragging  func() bool
	visible   func() bool
	idle      IdleChecker

	trip model.RoundtripWalk

	restTask     *schedule.Task
	snoozeTask   *schedule.Task
	restPoseTask *schedule.Task
	chatterTask  *schedule.Task
	autoTask     *schedule.Task

	onFlagsChanged func()
}

// New builds the orchestrator; timers stay unarmed until Start.
func New(config Config, deps Deps) *Orchestrator {
	rng := deps.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Orchestrator{
		config:    config,
		scheduler: deps.Scheduler,
		rng:       rng,
		pet:       deps.Pet,
		walker:    deps.Walker,
		notifier:  deps.Notifier,
		settings:  deps.Settings,
		flags:     deps.Flags,
		pomodoro:  deps.Pomodoro,
		dragging:  deps.Dragging,
		visible:   deps.Visible,
		idle:      deps.Idle,
	}
}

// SetOnFlagsChanged installs the toggle-change hook (tray label refresh).
func (orchestrator *Orchestrator) SetOnFlagsChanged(onFlagsChanged func()) {
	orchestrator.onFlagsChanged = onFlagsChanged
}

// Start arms every enabled behavior timer.
func (orchestrator *Orchestrator) Start() {
	orchestrator.applyRestState()
	orchestrator.applyChatterState()
	orchestrator.applyAutoRoundtripState()
}

// Flags returns the live toggle set.
func (orchestrator *Orchestrator) Flags() *model.Flags {
	return orchestrator.flags
}

// Trip returns a copy of the roundtrip tracker.
func (orchestrator *Orchestrator) Trip() model.RoundtripWalk {
	return orchestrator.trip
}

// CancelRoundtrip destroys the tracker. Every behavior that forces a
// non-walking pose over an in-progress roundtrip must call it, or the
// tracker would report a live walk for a stationary pet.
func (orchestrator *Orchestrator) CancelRoundtrip() {
	orchestrator.trip.Clear()
}

// --- roundtrip walking ---

// RoundtripCommand starts a user-requested roundtrip in the given direction
// (0 picks one at random). Invalid states refuse with a short notice instead
// of failing silently.
func (orchestrator *Orchestrator) RoundtripCommand(direction int) {
	switch {
	case orchestrator.dragging():
		orchestrator.notify("Walk", "Not while you're holding me.", 2200*time.Millisecond)
	case orchestrator.pet.Pose() == model.PoseLyingDown:
		orchestrator.notify("Walk", "Resting right now. Ask me later.", 2200*time.Millisecond)
	case orchestrator.pomodoro != nil && orchestrator.pomodoro.Running():
		orchestrator.notify("Walk", "Not during a pomodoro.", 2200*time.Millisecond)
	case orchestrator.pet.Pose().Walking():
		orchestrator.notify("Walk", "Already on my way.", 2200*time.Millisecond)
	default:
		orchestrator.startRoundtrip(direction, true)
	}
}

// startRoundtrip re-checks the guards silently and, when they pass, creates
// the tracker and switches to the walking pose.
func (orchestrator *Orchestrator) startRoundtrip(direction int, announce bool) bool {
	if orchestrator.dragging() {
		return false
	}
	if orchestrator.pet.Pose() == model.PoseLyingDown {
		return false
	}
	if orchestrator.pomodoro != nil && orchestrator.pomodoro.Running() {
		return false
	}
	if orchestrator.pet.Pose().Walking() {
		return false
	}

	if direction == 0 {
		direction = orchestrator.randomDirection()
	}
	orchestrator.trip = model.NewRoundtrip(direction)
	orchestrator.pet.SetState(model.WalkingPose(direction), false, "", "")

	if announce {
		orchestrator.notify("Walk", "I'm going all the way to the side", 2600*time.Millisecond)
	}
	return true
}

// HandleEdge is the walk tick's edge event. The hit counter changes only
// here, on verified edge contact: the first hit reverses the walk, the
// second finishes the roundtrip.
func (orchestrator *Orchestrator) HandleEdge() {
	if !orchestrator.trip.Active {
		return
	}
	orchestrator.trip.EdgeHitsRemaining--
	if orchestrator.trip.EdgeHitsRemaining <= 0 {
		orchestrator.finishRoundtrip()
		return
	}
	orchestrator.trip.Direction = -orchestrator.trip.Direction
	orchestrator.pet.SetState(model.WalkingPose(orchestrator.trip.Direction), false, "", "")
}

func (orchestrator *Orchestrator) finishRoundtrip() {
	orchestrator.trip.Clear()
	orchestrator.walker.Stop()
	orchestrator.pet.SetState(model.PoseSitting, false, "", "")
	orchestrator.notify("Walk finished", "back to study~", 2200*time.Millisecond)
}

// --- rest reminder + snooze ---

// applyRestState re-arms the periodic reminder from the current flags,
// dropping any pending snooze.
func (orchestrator *Orchestrator) applyRestState() {
	if orchestrator.snoozeTask != nil {
		orchestrator.snoozeTask.Stop()
		orchestrator.snoozeTask = nil
	}
	if orchestrator.restTask != nil {
		orchestrator.restTask.Stop()
		orchestrator.restTask = nil
	}
	if orchestrator.flags.RestEnabled {
		orchestrator.restTask = orchestrator.scheduler.Every(orchestrator.restInterval(), orchestrator.restFire)
	}
}

// restInterval floors the configured period at one minute; a zero or
// negative persisted value would otherwise degenerate the recurring timer
// into an immediate one-shot.
func (orchestrator *Orchestrator) restInterval() time.Duration {
	if orchestrator.flags.RestInterval < time.Minute {
		return time.Minute
	}
	return orchestrator.flags.RestInterval
}

// restFire is the privileged behavior: it cancels an in-progress roundtrip
// unconditionally, forces the lying-down pose and schedules the
// auto-return to sitting.
func (orchestrator *Orchestrator) restFire() {
	orchestrator.trip.Clear()
	orchestrator.pet.SetState(model.PoseLyingDown, false, "", "")

	if orchestrator.restPoseTask != nil {
		orchestrator.restPoseTask.Stop()
	}
	orchestrator.restPoseTask = orchestrator.scheduler.After(orchestrator.config.RestPoseDuration, func() {
		orchestrator.pet.SetState(model.PoseSitting, false, "", "")
	})

	orchestrator.notifier.Notify(model.Notice{
		Title:    "Rest time",
		Message:  pick(orchestrator.rng, restTips),
		Duration: 0,
		Buttons: []model.Action{
			{Label: "Snooze 10 min", Invoke: func() { orchestrator.SnoozeRest(10) }},
		},
	})
}

// SnoozeRest replaces the periodic reminder with a one-shot resume timer.
func (orchestrator *Orchestrator) SnoozeRest(minutes int) {
	if minutes <= 0 {
		return
	}
	if orchestrator.restTask != nil {
		orchestrator.restTask.Stop()
		orchestrator.restTask = nil
	}
	if orchestrator.snoozeTask != nil {
		orchestrator.snoozeTask.Stop()
	}
	orchestrator.snoozeTask = orchestrator.scheduler.After(time.Duration(minutes)*time.Minute, orchestrator.resumeRest)
	orchestrator.notify("Snoozed", fmt.Sprintf("Rest reminder paused for %d min.", minutes), 2400*time.Millisecond)
}

// resumeRest restarts the periodic reminder if it is still enabled.
func (orchestrator *Orchestrator) resumeRest() {
	orchestrator.snoozeTask = nil
	if orchestrator.flags.RestEnabled {
		if orchestrator.restTask != nil {
			orchestrator.restTask.Stop()
		}
		orchestrator.restTask = orchestrator.scheduler.Every(orchestrator.restInterval(), orchestrator.restFire)
	}
}

// --- random chatter ---

func (orchestrator *Orchestrator) applyChatterState() {
	if orchestrator.chatterTask != nil {
		orchestrator.chatterTask.Stop()
		orchestrator.chatterTask = nil
	}
	if orchestrator.flags.ChatterEnabled {
		orchestrator.scheduleChatter()
	}
}

// scheduleChatter arms the one-shot with a fresh random delay.
func (orchestrator *Orchestrator) scheduleChatter() {
	min := orchestrator.config.ChatterMinDelay
	max := orchestrator.config.ChatterMaxDelay
	delay := min
	if max > min {
		delay += time.Duration(orchestrator.rng.Int63n(int64(max - min)))
	}
	orchestrator.chatterTask = orchestrator.scheduler.After(delay, orchestrator.chatterFire)
}

// chatterFire rolls the chatter chance when its guard passes and always
// re-arms itself while the toggle stays on.
func (orchestrator *Orchestrator) chatterFire() {
	if !orchestrator.flags.ChatterEnabled {
		orchestrator.chatterTask = nil
		return
	}
	if orchestrator.chatterAllowed() && orchestrator.rng.Float64() < orchestrator.config.ChatterChance {
		orchestrator.notify("Keep going", pick(orchestrator.rng, encourageLines), 2600*time.Millisecond)
	}
	orchestrator.scheduleChatter()
}

// chatterAllowed is the chatter idle predicate: visible, not mid-drag, and
// someone recently at the keyboard to read it.
func (orchestrator *Orchestrator) chatterAllowed() bool {
	if orchestrator.dragging() {
		return false
	}
	if orchestrator.visible != nil && !orchestrator.visible() {
		return false
	}
	if orchestrator.idle != nil && orchestrator.config.MaxIdleForChatter > 0 {
		if idleFor, err := orchestrator.idle.IdleDuration(); err == nil && idleFor > orchestrator.config.MaxIdleForChatter {
			return false
		}
	}
	return true
}

// --- auto roundtrip ---

func (orchestrator *Orchestrator) applyAutoRoundtripState() {
	if orchestrator.autoTask != nil {
		orchestrator.autoTask.Stop()
		orchestrator.autoTask = nil
	}
	if orchestrator.flags.AutoRoundtripEnabled {
		orchestrator.autoTask = orchestrator.scheduler.Every(orchestrator.config.AutoRoundtripInterval, orchestrator.autoRoundtripFire)
	}
}

// autoRoundtripFire starts an unattended walk when the pet is idle: enabled,
// not dragged, no pomodoro, and currently in a stationary sitting pose.
func (orchestrator *Orchestrator) autoRoundtripFire() {
	if !orchestrator.flags.AutoRoundtripEnabled || orchestrator.dragging() {
		return
	}
	if orchestrator.pomodoro != nil && orchestrator.pomodoro.Running() {
		return
	}
	pose := orchestrator.pet.Pose()
	if pose == model.PoseLyingDown || pose.Walking() {
		return
	}
	if orchestrator.startRoundtrip(0, false) {
		orchestrator.notify("Auto walk", "30 minutes passed, let's take a walk~", 2400*time.Millisecond)
	}
}

// --- toggles ---

// ToggleChatter flips and persists the chatter flag.
func (orchestrator *Orchestrator) ToggleChatter() {
	orchestrator.flags.ChatterEnabled = !orchestrator.flags.ChatterEnabled
	orchestrator.persist("chatter_enabled", orchestrator.flags.ChatterEnabled)
	orchestrator.applyChatterState()
	orchestrator.notify("Random chatter", onOff(orchestrator.flags.ChatterEnabled), 2200*time.Millisecond)
	orchestrator.flagsChanged()
}

// ToggleRest flips and persists the rest reminder flag.
func (orchestrator *Orchestrator) ToggleRest() {
	orchestrator.flags.RestEnabled = !orchestrator.flags.RestEnabled
	orchestrator.persist("rest_enabled", orchestrator.flags.RestEnabled)
	orchestrator.applyRestState()
	orchestrator.notify("Rest reminder", onOff(orchestrator.flags.RestEnabled), 2200*time.Millisecond)
	orchestrator.flagsChanged()
}

// ToggleAutoRoundtrip flips and persists the auto walk flag.
func (orchestrator *Orchestrator) ToggleAutoRoundtrip() {
	orchestrator.flags.AutoRoundtripEnabled = !orchestrator.flags.AutoRoundtripEnabled
	orchestrator.persist("auto_roundtrip_enabled", orchestrator.flags.AutoRoundtripEnabled)
	orchestrator.applyAutoRoundtripState()
	orchestrator.notify("Auto walk", onOff(orchestrator.flags.AutoRoundtripEnabled), 2200*time.Millisecond)
	orchestrator.flagsChanged()
}

// ToggleLock flips and persists the drag lock.
func (orchestrator *Orchestrator) ToggleLock() {
	orchestrator.flags.Locked = !orchestrator.flags.Locked
	orchestrator.persist("locked", orchestrator.flags.Locked)
	if orchestrator.flags.Locked {
		orchestrator.notify("Lock", "Locked (no dragging)", 2400*time.Millisecond)
	} else {
		orchestrator.notify("Lock", "Unlocked (dragging enabled)", 2400*time.Millisecond)
	}
	orchestrator.flagsChanged()
}

// SetRestInterval persists a new reminder period and re-arms the timer.
func (orchestrator *Orchestrator) SetRestInterval(interval time.Duration) {
	if interval <= 0 {
		return
	}
	orchestrator.flags.RestInterval = interval
	orchestrator.persist("rest_interval_minutes", int(interval.Minutes()))
	orchestrator.applyRestState()
}

// --- direct commands ---

// Greet shows the startup hello.
func (orchestrator *Orchestrator) Greet() {
	orchestrator.notify("Hi", "I'm doei, your desk dog.", 3200*time.Millisecond)
}

// Motivate shows a random encouragement line.
func (orchestrator *Orchestrator) Motivate() {
	orchestrator.notify("Keep going", pick(orchestrator.rng, encourageLines), 2400*time.Millisecond)
}

// FocusCommand sits the pet down with an encouragement.
func (orchestrator *Orchestrator) FocusCommand() {
	orchestrator.CancelRoundtrip()
	orchestrator.pet.SetState(model.PoseSitting, true, "Focus", pick(orchestrator.rng, encourageLines))
}

// BreakCommand lies the pet down with a stretch prompt.
func (orchestrator *Orchestrator) BreakCommand() {
	orchestrator.CancelRoundtrip()
	orchestrator.pet.SetState(model.PoseLyingDown, true, "Break", "Take 60 seconds. Roll your shoulders.")
}

// TogglePoseCommand flips sitting and lying down (double-click).
func (orchestrator *Orchestrator) TogglePoseCommand() {
	orchestrator.CancelRoundtrip()
	if orchestrator.pet.Pose() == model.PoseSitting {
		orchestrator.pet.SetState(model.PoseLyingDown, true, "Break", "Quick break. Breathe in, breathe out.")
	} else {
		orchestrator.pet.SetState(model.PoseSitting, true, "Focus", "Back to it. One small step.")
	}
}

// ClickNotice is the short-click response.
func (orchestrator *Orchestrator) ClickNotice() {
	orchestrator.notify("Focus", pick(orchestrator.rng, encourageLines), 2400*time.Millisecond)
}

// LockedClickNotice hints how to unlock.
func (orchestrator *Orchestrator) LockedClickNotice() {
	orchestrator.notify("Locked", "Right click to unlock.", 2200*time.Millisecond)
}

// --- helpers ---

func (orchestrator *Orchestrator) randomDirection() int {
	if orchestrator.rng.Intn(2) == 0 {
		return -1
	}
	return +1
}

func (orchestrator *Orchestrator) notify(title, message string, duration time.Duration) {
	orchestrator.notifier.Notify(model.Notice{Title: title, Message: message, Duration: duration})
}

func (orchestrator *Orchestrator) persist(key string, value interface{}) {
	if orchestrator.settings == nil {
		return
	}
	if err := orchestrator.settings.Set(key, value); err != nil {
		log.Printf("persist %s: %v", key, err)
	}
}

func (orchestrator *Orchestrator) flagsChanged() {
	if orchestrator.onFlagsChanged != nil {
		orchestrator.onFlagsChanged()
	}
}

func onOff(enabled bool) string {
	if enabled {
		return "ON"
	}
	return "OFF"
}
