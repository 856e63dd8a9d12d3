package model

import "time"

const (
	// DefaultResetMember is the bus member that signals the screen woke up.
	DefaultResetMember = "WakeUpScreen"
	// DefaultBusInterface is the interface the watcher monitors.
	DefaultBusInterface = "org.gnome.ScreenSaver"
)

// EventSource selects how bus signals are observed.
type EventSource string

const (
	EventSourceMonitor EventSource = "monitor"
	EventSourceNative  EventSource = "native"
)

// ReminderConfig contains runtime settings for the reminder state machine.
type ReminderConfig struct {
	TimerDuration  time.Duration
	SnoozeDuration time.Duration
	ResetMember    string
}

// MonitorConfig describes which bus signals the watcher observes.
type MonitorConfig struct {
	Source    EventSource
	Interface string
	// Command overrides the monitor executable; empty means dbus-monitor.
	Command string
}
