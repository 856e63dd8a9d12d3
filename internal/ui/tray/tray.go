package tray

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"sitter/internal/core/reminder"
)

const menuTitle = "Sitter"

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnSnooze func()
	OnQuit   func()
}

// Manager handles system tray state.
type Manager struct {
	app        desktop.App
	statusItem *fyne.MenuItem
	satItem    *fyne.MenuItem
	snoozeItem *fyne.MenuItem
	quitItem   *fyne.MenuItem
	callbacks  Callbacks
	pastDue    bool
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, snooze time.Duration, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("Status: starting...", nil)
	manager.statusItem.Disabled = true

	manager.satItem = fyne.NewMenuItem("", nil)
	manager.satItem.Disabled = true

	manager.snoozeItem = fyne.NewMenuItem(SnoozeLabel(snooze), func() {
		if manager.callbacks.OnSnooze != nil {
			manager.callbacks.OnSnooze()
		}
	})
	manager.snoozeItem.Disabled = true

	manager.quitItem = fyne.NewMenuItem("Quit", func() {
		if manager.callbacks.OnQuit != nil {
			manager.callbacks.OnQuit()
		}
	})
	manager.quitItem.IsQuit = true

	manager.refreshMenu()
	return manager
}

// Update refreshes labels from a reminder snapshot. Snoozing is offered only
// while the reminder is past due.
func (manager *Manager) Update(status reminder.Status) {
	manager.statusItem.Label = StatusLabel(status)
	manager.satItem.Label = SatDownLabel(status)
	manager.pastDue = status.PastDue
	manager.snoozeItem.Disabled = !status.PastDue
	manager.refreshMenu()
}

// PastDue reports the past-due flag of the last Update.
func (manager *Manager) PastDue() bool {
	return manager.pastDue
}

// Menu builds the current tray menu.
func (manager *Manager) Menu() *fyne.Menu {
	return fyne.NewMenu(menuTitle,
		manager.statusItem,
		manager.satItem,
		fyne.NewMenuItemSeparator(),
		manager.snoozeItem,
		manager.quitItem,
	)
}

func (manager *Manager) refreshMenu() {
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(manager.Menu())
	}
}
