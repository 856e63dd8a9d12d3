package busevent

import "time"

// SignalEvent is one observed bus signal of interest.
type SignalEvent struct {
	At     time.Time
	Member string
}

// New creates a SignalEvent observed at the given time.
func New(member string, at time.Time) SignalEvent {
	return SignalEvent{At: at, Member: member}
}
