package reminder

import "time"

// Phase is the derived reminder mode. It is recomputed on every query.
type Phase string

const (
	PhaseCountdown Phase = "countdown"
	PhaseSnoozed   Phase = "snoozed"
	PhasePastDue   Phase = "past_due"
)

// Status is a point-in-time snapshot for display.
type Status struct {
	Phase     Phase
	Elapsed   time.Duration
	Remaining time.Duration
	PastDue   bool
	TickCount uint64
	At        time.Time
}

// Observer is notified about state changes, typically for metrics.
type Observer interface {
	ObserveTick(status Status)
	ObserveReset(member string)
	ObserveDiscarded(member string)
	ObserveSnooze()
}

type nopObserver struct{}

func (nopObserver) ObserveTick(Status) {}
func (nopObserver) ObserveReset(string) {}
func (nopObserver) ObserveDiscarded(string) {}
func (nopObserver) ObserveSnooze() {}
