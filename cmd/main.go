package main

import (
	"context"
	"log"
	"time"

	"doei/internal/assets"
	"doei/internal/core/behavior"
	"doei/internal/core/bubble"
	"doei/internal/core/drag"
	"doei/internal/core/geom"
	"doei/internal/core/model"
	"doei/internal/core/pet"
	"doei/internal/core/pomodoro"
	"doei/internal/core/schedule"
	"doei/internal/core/walk"
	"doei/internal/platform"
	"doei/internal/storage"
	"doei/internal/ui/bubbleview"
	"doei/internal/ui/petwindow"
	"doei/internal/ui/prefs"
	"doei/internal/ui/screen"
	"doei/internal/ui/sprite"
	"doei/internal/ui/tray"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
)

const (
	appName = "doei"
	appID   = "com.doei.app"

	idleSpeedPercent = 20
	walkSpeedPercent = 115

	defaultPosX = 80
	defaultPosY = 80
)

func main() {
	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		log.Printf("single instance: %v", err)
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	fyneApp := app.NewWithID(appID)
	if iconData, iconErr := assets.ReadFile(assets.TrayIcon); iconErr == nil {
		fyneApp.SetIcon(fyne.NewStaticResource(assets.TrayIcon, iconData))
	} else {
		log.Printf("tray icon: %v", iconErr)
	}

	store, err := storage.Open(appName)
	if err != nil {
		log.Printf("settings: %v (continuing with defaults)", err)
	}

	flags := model.DefaultFlags()
	flags.Locked = store.GetBool("locked", flags.Locked)
	flags.ChatterEnabled = store.GetBool("chatter_enabled", flags.ChatterEnabled)
	flags.RestEnabled = store.GetBool("rest_enabled", flags.RestEnabled)
	flags.AutoRoundtripEnabled = store.GetBool("auto_roundtrip_enabled", flags.AutoRoundtripEnabled)
	flags.AutostartEnabled = store.GetBool("autostart_enabled", flags.AutostartEnabled)
	restMinutes := store.GetInt("rest_interval_minutes", int(flags.RestInterval.Minutes()))
	if restMinutes < 1 {
		restMinutes = 1
	}
	flags.RestInterval = time.Duration(restMinutes) * time.Minute

	scheduler := schedule.New(nil)
	screens := screen.Detect()
	petWin := petwindow.New(fyneApp)

	surfaces, err := loadSurfaces(petWin)
	if err != nil {
		log.Printf("load sprites: %v", err)
		return
	}

	walker := walk.New(walk.DefaultConfig(), petWin, screens, scheduler)

	metrics := bubble.DefaultMetrics()
	bubbleView := bubbleview.New(fyneApp, metrics)
	positioner := bubble.New(bubbleView, screens, scheduler, metrics)

	var trayManager *tray.Manager
	var machine *pet.StateMachine
	notifier := model.NotifierFunc(func(notice model.Notice) {
		positioner.Show(notice, machine.AnchorPoint())
		if trayManager != nil {
			trayManager.SetStatus(notice.Message)
		}
	})

	machine, err = pet.New(petWin, screens, walker, notifier, surfaces)
	if err != nil {
		log.Printf("pet state machine: %v", err)
		return
	}

	dragger := drag.New(drag.DefaultConfig(), petWin, screens, scheduler.Clock())
	dragger.SetLocked(func() bool { return flags.Locked })

	pomodoroConfig := pomodoro.Config{
		Work:  time.Duration(store.GetInt("pomodoro_work_minutes", 25)) * time.Minute,
		Break: time.Duration(store.GetInt("pomodoro_break_minutes", 5)) * time.Minute,
	}
	pomodoroTimer := pomodoro.New(pomodoroConfig, scheduler, machine, notifier)

	behaviors := behavior.New(behavior.DefaultConfig(), behavior.Deps{
		Scheduler: scheduler,
		Pet:       machine,
		Walker:    walker,
		Notifier:  notifier,
		Settings:  store,
		Flags:     &flags,
		Pomodoro:  pomodoroTimer,
		Dragging:  dragger.Dragging,
		Visible:   petWin.Visible,
		Idle:      platform.NewIdleChecker(),
	})
	pomodoroTimer.SetOnSnooze(behaviors.SnoozeRest)
	pomodoroTimer.SetOnPoseForced(behaviors.CancelRoundtrip)

	updateAnchor := func() { positioner.UpdateAnchor(machine.AnchorPoint()) }
	walker.SetOnEdge(behaviors.HandleEdge)
	walker.SetOnMoved(updateAnchor)
	walker.SetSuspended(dragger.Dragging)
	machine.SetOnMoved(updateAnchor)
	machine.SetOnScaleChanged(func(scale float64) {
		if saveErr := store.Set("scale", scale); saveErr != nil {
			log.Printf("persist scale: %v", saveErr)
		}
	})
	dragger.SetOnMoved(updateAnchor)
	dragger.SetOnClick(behaviors.ClickNotice)
	dragger.SetOnLockedClick(behaviors.LockedClickNotice)
	dragger.SetOnDropped(func(pos geom.Point) {
		if saveErr := store.Set("pos_x", pos.X); saveErr != nil {
			log.Printf("persist position: %v", saveErr)
			return
		}
		if saveErr := store.Set("pos_y", pos.Y); saveErr != nil {
			log.Printf("persist position: %v", saveErr)
		}
	})

	prefsWindow := prefs.New(fyneApp, prefs.Settings{
		RestInterval:  flags.RestInterval,
		PomodoroWork:  pomodoroConfig.Work,
		PomodoroBreak: pomodoroConfig.Break,
		Scale:         store.GetFloat("scale", 1.0),
	}, func(updated prefs.Settings) {
		behaviors.SetRestInterval(updated.RestInterval)
		pomodoroTimer.SetConfig(pomodoro.Config{Work: updated.PomodoroWork, Break: updated.PomodoroBreak})
		if saveErr := store.Set("pomodoro_work_minutes", int(updated.PomodoroWork.Minutes())); saveErr != nil {
			log.Printf("persist pomodoro: %v", saveErr)
		}
		if saveErr := store.Set("pomodoro_break_minutes", int(updated.PomodoroBreak.Minutes())); saveErr != nil {
			log.Printf("persist pomodoro: %v", saveErr)
		}
		machine.SetScale(updated.Scale)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	desktopApp, isDesktop := fyneApp.(desktop.App)
	if !isDesktop {
		log.Printf("system tray unsupported on this platform")
		return
	}
	trayManager = tray.New(desktopApp, tray.Callbacks{
		OnShowPet: func() {
			petWin.Show()
			machine.EnsureOnScreen()
		},
		OnHidePet: func() {
			positioner.Close()
			petWin.Hide()
		},
		OnSit:     behaviors.FocusCommand,
		OnLieDown: behaviors.BreakCommand,
		OnWalk:    behaviors.RoundtripCommand,
		OnStartPomodoro: func() {
			pomodoroTimer.Start()
			trayManager.SetPomodoroRunning(pomodoroTimer.Running())
		},
		OnStopPomodoro: func() {
			pomodoroTimer.Stop()
			trayManager.SetPomodoroRunning(pomodoroTimer.Running())
		},
		OnFocusNow:      pomodoroTimer.ForceWork,
		OnBreakNow:      pomodoroTimer.ForceBreak,
		OnSnooze:        func() { behaviors.SnoozeRest(10) },
		OnToggleChatter: behaviors.ToggleChatter,
		OnToggleRest:    behaviors.ToggleRest,
		OnToggleAuto:    behaviors.ToggleAutoRoundtrip,
		OnToggleLock:    behaviors.ToggleLock,
		OnToggleStartup: func() {
			flags.AutostartEnabled = !flags.AutostartEnabled
			if saveErr := store.Set("autostart_enabled", flags.AutostartEnabled); saveErr != nil {
				log.Printf("persist autostart: %v", saveErr)
			}
			if applyErr := platform.ApplyAutostart(appName, flags.AutostartEnabled); applyErr != nil {
				log.Printf("autostart: %v", applyErr)
			}
			trayManager.SetFlags(flags)
		},
		OnSetScale:    machine.SetScale,
		OnPreferences: prefsWindow.Show,
		OnQuit: func() {
			cancel()
			fyneApp.Quit()
		},
	})
	trayManager.SetFlags(flags)
	behaviors.SetOnFlagsChanged(func() { trayManager.SetFlags(flags) })

	petWin.SetCallbacks(petwindow.Callbacks{
		Press:     dragger.Press,
		Drag:      dragger.Move,
		Release:   dragger.Release,
		DoubleTap: behaviors.TogglePoseCommand,
		Scroll: func(steps int) {
			scale := machine.Scale()
			if steps > 0 {
				scale *= 1.1
			} else {
				scale /= 1.1
			}
			machine.SetScale(scale)
		},
		MenuItems: func() []*fyne.MenuItem {
			return contextMenuItems(behaviors, pomodoroTimer, trayManager, prefsWindow, fyneApp, cancel)
		},
	})

	petWin.Move(geom.Point{
		X: store.GetInt("pos_x", defaultPosX),
		Y: store.GetInt("pos_y", defaultPosY),
	})
	machine.SetScale(store.GetFloat("scale", 1.0))
	machine.SetState(model.PoseSitting, false, "", "")
	petWin.Show()

	// The window manager may adjust the position shortly after the first
	// show; re-clamp once it settles, then greet.
	scheduler.After(180*time.Millisecond, machine.EnsureOnScreen)
	scheduler.After(650*time.Millisecond, behaviors.Greet)
	behaviors.Start()

	go scheduler.Run(ctx, fyne.DoAndWait)

	fyneApp.Run()
}

// loadSurfaces decodes the four pose GIFs and wires their frames into the
// pet window. Any missing or undecodable sprite aborts startup.
func loadSurfaces(petWin *petwindow.Window) (map[model.Pose]pet.Surface, error) {
	poseAssets := map[model.Pose]string{
		model.PoseSitting:      assets.SpriteSit,
		model.PoseLyingDown:    assets.SpriteLyingDown,
		model.PoseWalkingLeft:  assets.SpriteWalkingLeft,
		model.PoseWalkingRight: assets.SpriteWalkingRight,
	}

	surfaces := make(map[model.Pose]pet.Surface, len(poseAssets))
	for pose, assetName := range poseAssets {
		animation, err := sprite.Load(assetName)
		if err != nil {
			return nil, err
		}
		animation.SetUpdateHandler(petWin.UpdateSprite)
		if pose.Walking() {
			animation.SetSpeedPercent(walkSpeedPercent)
		} else {
			animation.SetSpeedPercent(idleSpeedPercent)
		}
		surfaces[pose] = animation
	}
	return surfaces, nil
}

func contextMenuItems(behaviors *behavior.Orchestrator, pomodoroTimer *pomodoro.Timer, trayManager *tray.Manager, prefsWindow *prefs.Window, fyneApp fyne.App, cancel context.CancelFunc) []*fyne.MenuItem {
	items := []*fyne.MenuItem{
		fyne.NewMenuItem("Focus (sit)", behaviors.FocusCommand),
		fyne.NewMenuItem("Break (lie down)", behaviors.BreakCommand),
		fyne.NewMenuItem("Go for a walk", func() { behaviors.RoundtripCommand(0) }),
		fyne.NewMenuItem("Motivate me", behaviors.Motivate),
		fyne.NewMenuItemSeparator(),
	}
	if pomodoroTimer.Running() {
		items = append(items, fyne.NewMenuItem("Stop pomodoro", func() {
			pomodoroTimer.Stop()
			trayManager.SetPomodoroRunning(false)
		}))
	} else {
		items = append(items, fyne.NewMenuItem("Start pomodoro", func() {
			pomodoroTimer.Start()
			trayManager.SetPomodoroRunning(pomodoroTimer.Running())
		}))
	}
	items = append(items,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Lock / unlock position", behaviors.ToggleLock),
		fyne.NewMenuItem("Preferences", prefsWindow.Show),
		fyne.NewMenuItem("Quit", func() {
			cancel()
			fyneApp.Quit()
		}),
	)
	return items
}
