package watcher

import (
	"strings"
	"time"

	"sitter/internal/core/busevent"
)

const (
	signalKeyword = "signal"
	memberKey     = "member"
)

// ParseLine extracts a SignalEvent from a monitor header line.
// Lines that are not signal headers, or headers without a member, yield no event.
func ParseLine(line string, now time.Time) (busevent.SignalEvent, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 || fields[0] != signalKeyword {
		return busevent.SignalEvent{}, false
	}

	member := ""
	found := false
	for _, field := range fields[1:] {
		parts := strings.SplitN(field, "=", 3)
		if len(parts) < 2 || parts[0] != memberKey {
			continue
		}
		member = parts[1]
		found = true
	}
	if !found {
		return busevent.SignalEvent{}, false
	}
	return busevent.New(member, now), true
}
