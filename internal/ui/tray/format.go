package tray

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"sitter/internal/core/reminder"
)

// FormatDuration renders a duration as "N seconds" below a minute and
// "M:SS minutes" otherwise.
func FormatDuration(duration time.Duration) string {
	if duration < 0 {
		duration = 0
	}
	seconds := int64(duration / time.Second)
	if seconds < 60 {
		return fmt.Sprintf("%d seconds", seconds)
	}
	return fmt.Sprintf("%d:%02d minutes", seconds/60, seconds%60)
}

// StatusLabel is the headline shown in the tray menu.
func StatusLabel(status reminder.Status) string {
	switch status.Phase {
	case reminder.PhasePastDue:
		return "Time to stand up!"
	case reminder.PhaseSnoozed:
		return fmt.Sprintf("Snoozed: %s left", FormatDuration(status.Remaining))
	default:
		return fmt.Sprintf("Remaining: %s", FormatDuration(status.Remaining))
	}
}

// SatDownLabel describes how long ago the countdown was last reset.
func SatDownLabel(status reminder.Status) string {
	satDown := status.At.Add(-status.Elapsed)
	return fmt.Sprintf("Sat down %s (%s)", humanize.RelTime(satDown, status.At, "ago", "from now"), FormatDuration(status.Elapsed))
}

// SnoozeLabel names the snooze action.
func SnoozeLabel(snooze time.Duration) string {
	return fmt.Sprintf("Snooze %s", FormatDuration(snooze))
}
