package host

import (
	"fmt"

	"fyne.io/fyne/v2"

	"sitter/internal/core/reminder"
	"sitter/internal/ui/tray"
	"sitter/resources"
)

// Notifier sends desktop notifications; fyne.App satisfies it.
type Notifier interface {
	SendNotification(notification *fyne.Notification)
}

// TrayIconSetter swaps the tray icon; desktop.App satisfies it.
type TrayIconSetter interface {
	SetSystemTrayIcon(icon fyne.Resource)
}

// StatusView renders a reminder snapshot.
type StatusView interface {
	Update(status reminder.Status)
}

// Host drives the reminder from the UI goroutine and mirrors its state into
// the tray. All methods must run on the fyne main goroutine.
type Host struct {
	keeper   *reminder.Reminder
	view     StatusView
	icons    TrayIconSetter
	notifier Notifier
	pastDue  bool
	iconName string
	notified int
}

// New creates a Host. icons and notifier may be nil.
func New(keeper *reminder.Reminder, view StatusView, icons TrayIconSetter, notifier Notifier) *Host {
	return &Host{
		keeper:   keeper,
		view:     view,
		icons:    icons,
		notifier: notifier,
	}
}

// Notified returns the number of past-due notifications sent.
func (host *Host) Notified() int {
	return host.notified
}

// Tick advances the reminder by one tick and re-renders.
func (host *Host) Tick() {
	host.keeper.Tick()
	host.Render()
}

// Snooze snoozes the reminder and re-renders.
func (host *Host) Snooze() {
	host.keeper.Snooze()
	host.Render()
}

// Render mirrors the current reminder state into the tray and raises one
// notification per transition into past due.
func (host *Host) Render() {
	status := host.keeper.Status()
	host.view.Update(status)

	if name := iconFor(status.Phase); name != host.iconName && host.icons != nil {
		host.icons.SetSystemTrayIcon(resources.MustIcon(name))
		host.iconName = name
	}

	if status.PastDue && !host.pastDue && host.notifier != nil {
		host.notifier.SendNotification(fyne.NewNotification(
			"Time to stand up!",
			fmt.Sprintf("You have been sitting for %s.", tray.FormatDuration(status.Elapsed)),
		))
		host.notified++
	}
	host.pastDue = status.PastDue
}

func iconFor(phase reminder.Phase) string {
	switch phase {
	case reminder.PhasePastDue:
		return resources.IconDue
	case reminder.PhaseSnoozed:
		return resources.IconSnoozed
	default:
		return resources.IconActive
	}
}
