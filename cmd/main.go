package main

import (
	"context"
	"log"
	"time"

	"sitter/internal/core/busevent"
	"sitter/internal/core/reminder"
	"sitter/internal/metrics"
	"sitter/internal/platform"
	"sitter/internal/storage"
	"sitter/internal/ui/host"
	"sitter/internal/ui/tray"
	"sitter/internal/watcher"
	"sitter/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

const (
	appName      = "sitter"
	tickInterval = time.Second
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

	settings, err := storage.EnsureSettings(appName)
	if err != nil {
		log.Printf("settings: %v (using defaults)", err)
	}
	if err := platform.SyncAutostart(platform.NewService(), appName, settings.Autostart); err != nil {
		log.Printf("autostart: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reminderOptions := reminder.Options{}
	watcherOptions := watcher.Options{}
	if settings.MetricsAddress != "" {
		collectors := metrics.New()
		collectors.Serve(ctx, settings.MetricsAddress)
		reminderOptions.Observer = collectors
		watcherOptions.Recorder = collectors
		log.Printf("metrics: serving on %s", settings.MetricsAddress)
	}

	source, err := watcher.Open(ctx, settings.MonitorConfig())
	if err != nil {
		log.Fatalf("start signal watcher: %v", err)
	}
	queue := busevent.NewQueue()
	watcherDone := watcher.New(source, queue, watcherOptions).Start(ctx)

	keeper := reminder.New(settings.ReminderConfig(), queue, reminderOptions)

	fyneApp := app.NewWithID("io.sitter.app")
	fyneApp.SetIcon(resources.MustIcon(resources.IconActive))
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		log.Printf("system tray unsupported on this platform")
		return
	}

	trayWindow := fyneApp.NewWindow("Sitter")
	trayWindow.SetContent(widget.NewLabel("Sitter is running in the system tray."))
	trayWindow.SetCloseIntercept(func() {
		trayWindow.Hide()
	})
	trayWindow.Hide()
	desktopApp.SetSystemTrayWindow(trayWindow)

	var driver *host.Host
	trayManager := tray.New(desktopApp, settings.SnoozeDuration, tray.Callbacks{
		OnSnooze: func() {
			driver.Snooze()
		},
		OnQuit: func() {
			fyneApp.Quit()
		},
	})
	driver = host.New(keeper, trayManager, desktopApp, fyneApp)
	driver.Render()

	go func() {
		ticker := time.NewTicker(tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fyne.Do(driver.Tick)
			}
		}
	}()

	fyneApp.Run()

	cancel()
	keeper.Close()
	if err := source.Close(); err != nil {
		log.Printf("close signal source: %v", err)
	}
	select {
	case <-watcherDone:
	case <-time.After(2 * time.Second):
		log.Printf("watcher: still blocked on read at exit")
	}
}
