package model

import (
	"math"
	"time"
)

// Settings defines editable user preferences.
type Settings struct {
	TimerDuration  time.Duration
	SnoozeDuration time.Duration
	ResetMember    string
	BusInterface   string
	EventSource    EventSource

	MetricsAddress string
	Autostart      bool
}

// DefaultSettings returns default settings for sitter.
func DefaultSettings() Settings {
	return Settings{
		TimerDuration:  30 * time.Minute,
		SnoozeDuration: 5 * time.Minute,
		ResetMember:    DefaultResetMember,
		BusInterface:   DefaultBusInterface,
		EventSource:    EventSourceMonitor,
	}
}

// ReminderConfig converts settings to ReminderConfig.
func (settings Settings) ReminderConfig() ReminderConfig {
	return ReminderConfig{
		TimerDuration:  settings.TimerDuration,
		SnoozeDuration: settings.SnoozeDuration,
		ResetMember:    settings.ResetMember,
	}
}

// MonitorConfig converts settings to MonitorConfig.
func (settings Settings) MonitorConfig() MonitorConfig {
	return MonitorConfig{
		Source:    settings.EventSource,
		Interface: settings.BusInterface,
	}
}

const maxWholeSeconds = float64(math.MaxInt64 / int64(time.Second))

// MinutesToDuration converts fractional minutes to a duration rounded to whole seconds.
// ok is false for NaN, infinities and values a time.Duration cannot hold.
func MinutesToDuration(minutes float64) (duration time.Duration, ok bool) {
	seconds := math.Round(minutes * 60)
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || math.Abs(seconds) > maxWholeSeconds {
		return 0, false
	}
	return time.Duration(seconds) * time.Second, true
}

// DurationToMinutes is the inverse of MinutesToDuration.
func DurationToMinutes(duration time.Duration) float64 {
	return duration.Minutes()
}
