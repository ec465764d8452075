package tray

import (
	"fmt"

	"doei/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShowPet        func()
	OnHidePet        func()
	OnSit            func()
	OnLieDown        func()
	OnWalk           func(direction int)
	OnStartPomodoro  func()
	OnStopPomodoro   func()
	OnFocusNow       func()
	OnBreakNow       func()
	OnSnooze         func()
	OnToggleChatter  func()
	OnToggleRest     func()
	OnToggleAuto     func()
	OnToggleLock     func()
	OnToggleStartup  func()
	OnSetScale       func(scale float64)
	OnPreferences    func()
	OnQuit           func()
}

// Manager handles system tray state.
type Manager struct {
	app       desktop.App
	callbacks Callbacks

	statusItem  *fyne.MenuItem
	startItem   *fyne.MenuItem
	stopItem    *fyne.MenuItem
	chatterItem *fyne.MenuItem
	restItem    *fyne.MenuItem
	autoItem    *fyne.MenuItem
	lockItem    *fyne.MenuItem
	startupItem *fyne.MenuItem

	statusLabel     string
	pomodoroRunning bool
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("doei is here", nil)
	manager.statusItem.Disabled = true

	manager.startItem = fyne.NewMenuItem("Start pomodoro", func() {
		manager.invoke(manager.callbacks.OnStartPomodoro)
	})
	manager.stopItem = fyne.NewMenuItem("Stop pomodoro", func() {
		manager.invoke(manager.callbacks.OnStopPomodoro)
	})
	manager.stopItem.Disabled = true

	manager.chatterItem = fyne.NewMenuItem("", func() {
		manager.invoke(manager.callbacks.OnToggleChatter)
	})
	manager.restItem = fyne.NewMenuItem("", func() {
		manager.invoke(manager.callbacks.OnToggleRest)
	})
	manager.autoItem = fyne.NewMenuItem("", func() {
		manager.invoke(manager.callbacks.OnToggleAuto)
	})
	manager.lockItem = fyne.NewMenuItem("", func() {
		manager.invoke(manager.callbacks.OnToggleLock)
	})
	manager.startupItem = fyne.NewMenuItem("", func() {
		manager.invoke(manager.callbacks.OnToggleStartup)
	})
	manager.SetFlags(model.DefaultFlags())

	manager.refreshMenu()
	return manager
}

// SetStatus mirrors the last bubble notification into the tray.
func (manager *Manager) SetStatus(status string) {
	manager.statusLabel = status
	if status == "" {
		manager.statusItem.Label = "doei is here"
	} else {
		manager.statusItem.Label = status
	}
	manager.refreshMenu()
}

// SetFlags relabels the toggle items from the current flag values.
func (manager *Manager) SetFlags(flags model.Flags) {
	manager.chatterItem.Label = toggleLabel("Chatter", flags.ChatterEnabled)
	manager.restItem.Label = toggleLabel("Rest reminders", flags.RestEnabled)
	manager.autoItem.Label = toggleLabel("Auto walk", flags.AutoRoundtripEnabled)
	manager.lockItem.Label = toggleLabel("Lock position", flags.Locked)
	manager.startupItem.Label = toggleLabel("Start at login", flags.AutostartEnabled)
	manager.refreshMenu()
}

// SetPomodoroRunning flips the start/stop availability.
func (manager *Manager) SetPomodoroRunning(running bool) {
	manager.pomodoroRunning = running
	manager.startItem.Disabled = running
	manager.stopItem.Disabled = !running
	manager.refreshMenu()
}

func (manager *Manager) invoke(callback func()) {
	if callback != nil {
		callback()
	}
}

// The systray backend renders from a snapshot, so any label change needs a
// full menu rebuild.
func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}

	walkMenu := fyne.NewMenuItem("Go for a walk", nil)
	walkMenu.ChildMenu = fyne.NewMenu("",
		fyne.NewMenuItem("Walk left first", func() {
			if manager.callbacks.OnWalk != nil {
				manager.callbacks.OnWalk(-1)
			}
		}),
		fyne.NewMenuItem("Walk right first", func() {
			if manager.callbacks.OnWalk != nil {
				manager.callbacks.OnWalk(1)
			}
		}),
	)

	sizeMenu := fyne.NewMenuItem("Size", nil)
	sizeMenu.ChildMenu = fyne.NewMenu("",
		manager.sizeItem("Small (50%)", 0.5),
		manager.sizeItem("Compact (75%)", 0.75),
		manager.sizeItem("Normal (100%)", 1.0),
		manager.sizeItem("Large (125%)", 1.25),
	)

	pomodoroExtras := fyne.NewMenuItem("Pomodoro", nil)
	pomodoroExtras.ChildMenu = fyne.NewMenu("",
		fyne.NewMenuItem("Focus now", func() { manager.invoke(manager.callbacks.OnFocusNow) }),
		fyne.NewMenuItem("Break now", func() { manager.invoke(manager.callbacks.OnBreakNow) }),
		fyne.NewMenuItem("Snooze rest 10 min", func() { manager.invoke(manager.callbacks.OnSnooze) }),
	)

	manager.app.SetSystemTrayMenu(fyne.NewMenu("doei",
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Show pet", func() { manager.invoke(manager.callbacks.OnShowPet) }),
		fyne.NewMenuItem("Hide pet", func() { manager.invoke(manager.callbacks.OnHidePet) }),
		fyne.NewMenuItem("Sit", func() { manager.invoke(manager.callbacks.OnSit) }),
		fyne.NewMenuItem("Lie down", func() { manager.invoke(manager.callbacks.OnLieDown) }),
		walkMenu,
		fyne.NewMenuItemSeparator(),
		manager.startItem,
		manager.stopItem,
		pomodoroExtras,
		fyne.NewMenuItemSeparator(),
		manager.chatterItem,
		manager.restItem,
		manager.autoItem,
		manager.lockItem,
		manager.startupItem,
		sizeMenu,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Preferences", func() { manager.invoke(manager.callbacks.OnPreferences) }),
		fyne.NewMenuItem("Quit", func() { manager.invoke(manager.callbacks.OnQuit) }),
	))
}

func (manager *Manager) sizeItem(label string, scale float64) *fyne.MenuItem {
	return fyne.NewMenuItem(label, func() {
		if manager.callbacks.OnSetScale != nil {
			manager.callbacks.OnSetScale(scale)
		}
	})
}

func toggleLabel(name string, enabled bool) string {
	if enabled {
		return fmt.Sprintf("%s: ON", name)
	}
	return fmt.Sprintf("%s: OFF", name)
}
