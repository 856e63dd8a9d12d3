package reminder

import (
	"time"

	"sitter/internal/core/busevent"
	"sitter/internal/core/model"
)

// Options contains runtime hooks for Reminder.
type Options struct {
	Now      func() time.Time
	Observer Observer
}

// Reminder is the countdown/snooze state machine.
//
// A Reminder is owned by a single goroutine; only the event queue it reads
// from crosses goroutine boundaries.
type Reminder struct {
	config          model.ReminderConfig
	events          busevent.Receiver
	now             func() time.Time
	observer        Observer
	lastReset       time.Time
	snoozeStartedAt time.Time
	snoozing        bool
	tickCount       uint64
}

// New creates a Reminder whose countdown starts now.
func New(config model.ReminderConfig, events busevent.Receiver, options Options) *Reminder {
	if options.Now == nil {
		options.Now = time.Now
	}
	if options.Observer == nil {
		options.Observer = nopObserver{}
	}
	if config.TimerDuration < 0 {
		config.TimerDuration = 0
	}
	if config.SnoozeDuration < 0 {
		config.SnoozeDuration = 0
	}
	if config.ResetMember == "" {
		config.ResetMember = model.DefaultResetMember
	}

	return &Reminder{
		config:    config,
		events:    events,
		now:       options.Now,
		observer:  options.Observer,
		lastReset: options.Now(),
	}
}

// Config returns the configuration the reminder was built with.
func (reminder *Reminder) Config() model.ReminderConfig {
	return reminder.config
}

// Tick folds at most one pending event into the state. It never blocks.
func (reminder *Reminder) Tick() {
	reminder.tickCount++

	if reminder.events != nil {
		if event, ok := reminder.events.TryReceive(); ok {
			reminder.apply(event)
		}
	}

	reminder.observer.ObserveTick(reminder.Status())
}

// Snooze (re)starts the snooze window from now.
func (reminder *Reminder) Snooze() {
	reminder.snoozeStartedAt = reminder.now()
	reminder.snoozing = true
	reminder.observer.ObserveSnooze()
}

// Elapsed returns the time since the last accepted reset.
func (reminder *Reminder) Elapsed() time.Duration {
	return since(reminder.lastReset, reminder.now())
}

// Remaining returns the time left before the reminder is past due.
func (reminder *Reminder) Remaining() time.Duration {
	return reminder.remainingAt(reminder.now())
}

// IsPastDue reports whether no time remains.
func (reminder *Reminder) IsPastDue() bool {
	return reminder.Remaining() == 0
}

// IsSnoozing reports whether a snooze has been requested since the last reset.
func (reminder *Reminder) IsSnoozing() bool {
	return reminder.snoozing
}

// TickCount returns the number of ticks processed.
func (reminder *Reminder) TickCount() uint64 {
	return reminder.tickCount
}

// LastReset returns the time of the most recent accepted reset.
func (reminder *Reminder) LastReset() time.Time {
	return reminder.lastReset
}

// Status returns a snapshot of the derived values at a single instant.
func (reminder *Reminder) Status() Status {
	now := reminder.now()
	remaining := reminder.remainingAt(now)

	phase := PhaseCountdown
	switch {
	case remaining == 0:
		phase = PhasePastDue
	case reminder.snoozing:
		phase = PhaseSnoozed
	}

	return Status{
		Phase:     phase,
		Elapsed:   since(reminder.lastReset, now),
		Remaining: remaining,
		PastDue:   remaining == 0,
		TickCount: reminder.tickCount,
		At:        now,
	}
}

// Close releases the receiving end of the event queue.
func (reminder *Reminder) Close() {
	if reminder.events != nil {
		reminder.events.Close()
	}
}

func (reminder *Reminder) apply(event busevent.SignalEvent) {
	if event.Member != reminder.config.ResetMember {
		reminder.observer.ObserveDiscarded(event.Member)
		return
	}
	reminder.lastReset = event.At
	reminder.snoozing = false
	reminder.snoozeStartedAt = time.Time{}
	reminder.observer.ObserveReset(event.Member)
}

func (reminder *Reminder) remainingAt(now time.Time) time.Duration {
	if reminder.snoozing {
		return saturatingSub(reminder.config.SnoozeDuration, since(reminder.snoozeStartedAt, now))
	}
	return saturatingSub(reminder.config.TimerDuration, since(reminder.lastReset, now))
}

// since clamps backward clock jumps to zero.
func since(start, now time.Time) time.Duration {
	elapsed := now.Sub(start)
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

func saturatingSub(total, used time.Duration) time.Duration {
	if used >= total {
		return 0
	}
	return total - used
}
