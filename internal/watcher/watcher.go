package watcher

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"sitter/internal/core/busevent"
	"sitter/internal/core/model"
)

// Recorder is notified about watcher activity.
type Recorder interface {
	ObserveLine()
	ObserveEvent(member string)
}

// Options contains optional collaborators for Watcher.
type Options struct {
	Logger   *log.Logger
	Recorder Recorder
	Now      func() time.Time
}

// Watcher relays parsed signal events from a LineSource into a queue.
type Watcher struct {
	source   LineSource
	sink     busevent.Sender
	logger   *log.Logger
	recorder Recorder
	now      func() time.Time
}

// New creates a Watcher reading from source and publishing to sink.
func New(source LineSource, sink busevent.Sender, options Options) *Watcher {
	if options.Logger == nil {
		options.Logger = log.Default()
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	return &Watcher{
		source:   source,
		sink:     sink,
		logger:   options.Logger,
		recorder: options.Recorder,
		now:      options.Now,
	}
}

// Open starts the event source selected by config.
func Open(ctx context.Context, config model.MonitorConfig) (LineSource, error) {
	switch config.Source {
	case model.EventSourceNative:
		return ConnectNative(ctx, config)
	case model.EventSourceMonitor, "":
		return StartMonitor(ctx, config)
	default:
		return nil, fmt.Errorf("unknown event source %q", config.Source)
	}
}

// Run reads lines until the source fails, the queue is closed or ctx is done.
// A closed queue or cancelled context is a normal shutdown and returns nil.
func (watcher *Watcher) Run(ctx context.Context) error {
	for {
		line, err := watcher.source.NextLine()
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read line: %w", err)
		}
		if watcher.recorder != nil {
			watcher.recorder.ObserveLine()
		}

		event, ok := ParseLine(line, watcher.now())
		if !ok {
			continue
		}
		if watcher.recorder != nil {
			watcher.recorder.ObserveEvent(event.Member)
		}
		if err := watcher.sink.Send(event); err != nil {
			if errors.Is(err, busevent.ErrQueueClosed) {
				return nil
			}
			return fmt.Errorf("publish event: %w", err)
		}
	}
}

// Start runs the watcher on its own goroutine and logs how it ended.
// The returned channel is closed once Run returns.
func (watcher *Watcher) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := watcher.Run(ctx); err != nil {
			watcher.logger.Printf("watcher: stopped: %v", err)
			return
		}
		watcher.logger.Printf("watcher: stopped")
	}()
	return done
}
