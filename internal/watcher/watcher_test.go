package watcher

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"sitter/internal/core/busevent"
	"sitter/internal/core/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceSource struct {
	lines  []string
	err    error
	closed bool
}

func (source *sliceSource) NextLine() (string, error) {
	if len(source.lines) == 0 {
		if source.err != nil {
			return "", source.err
		}
		return "", io.EOF
	}
	line := source.lines[0]
	source.lines = source.lines[1:]
	return line, nil
}

func (source *sliceSource) Close() error {
	source.closed = true
	return nil
}

type countingRecorder struct {
	lines   int
	members []string
}

func (recorder *countingRecorder) ObserveLine() { recorder.lines++ }
func (recorder *countingRecorder) ObserveEvent(member string) {
	recorder.members = append(recorder.members, member)
}

type failingSink struct{ err error }

func (sink failingSink) Send(busevent.SignalEvent) error { return sink.err }

var fixedNow = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

const monitorTranscript = `signal time=1709283600.000000 sender=org.freedesktop.DBus -> destination=:1.80 serial=2 path=/org/freedesktop/DBus; interface=org.freedesktop.DBus; member=NameAcquired
   string ":1.80"
signal time=1709283612.120000 sender=:1.23 -> destination=(null destination) serial=31 path=/org/gnome/ScreenSaver; interface=org.gnome.ScreenSaver; member=ActiveChanged
   boolean true
signal time=1709283650.500000 sender=:1.23 -> destination=(null destination) serial=32 path=/org/gnome/ScreenSaver; interface=org.gnome.ScreenSaver; member=WakeUpScreen
`

func TestParseLine(t *testing.T) {
	event, ok := ParseLine("signal sender=:1.23 -> dest=(null destination) signature= member=WakeUpScreen", fixedNow)
	require.True(t, ok)
	assert.Equal(t, "WakeUpScreen", event.Member)
	assert.Equal(t, fixedNow, event.At)

	_, ok = ParseLine(`string "some detail"`, fixedNow)
	assert.False(t, ok)

	_, ok = ParseLine("signal sender=:1.23 -> path=/org/foo; interface=org.gnome.ScreenSaver", fixedNow)
	assert.False(t, ok)
}

func TestParseLineEdgeCases(t *testing.T) {
	cases := []struct {
		name   string
		line   string
		member string
		ok     bool
	}{
		{name: "empty", line: "", ok: false},
		{name: "whitespace", line: "   \t ", ok: false},
		{name: "method call header", line: "method call sender=:1.1 member=Hello", ok: false},
		{name: "keyword prefix only", line: "signals member=WakeUpScreen", ok: false},
		{name: "leading indentation", line: "   signal member=WakeUpScreen", member: "WakeUpScreen", ok: true},
		{name: "trailing newline", line: "signal member=WakeUpScreen\n", member: "WakeUpScreen", ok: true},
		{name: "last member wins", line: "signal member=First member=Second", member: "Second", ok: true},
		{name: "bare member token", line: "signal member", ok: false},
		{name: "empty member value", line: "signal member=", member: "", ok: true},
		{name: "value stops at second equals", line: "signal member=a=b", member: "a", ok: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			event, ok := ParseLine(tc.line, fixedNow)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.member, event.Member)
			}
		})
	}
}

func TestWatcherPublishesInOrder(t *testing.T) {
	source := NewReaderSource(strings.NewReader(monitorTranscript))
	queue := busevent.NewQueue()
	recorder := &countingRecorder{}
	watcher := New(source, queue, Options{
		Recorder: recorder,
		Now:      func() time.Time { return fixedNow },
	})

	err := watcher.Run(context.Background())
	require.ErrorIs(t, err, io.EOF)

	var members []string
	for {
		event, ok := queue.TryReceive()
		if !ok {
			break
		}
		members = append(members, event.Member)
		assert.Equal(t, fixedNow, event.At)
	}
	assert.Equal(t, []string{"NameAcquired", "ActiveChanged", "WakeUpScreen"}, members)
	assert.Equal(t, 5, recorder.lines)
	assert.Equal(t, members, recorder.members)
}

func TestWatcherStopsWhenQueueClosed(t *testing.T) {
	source := &sliceSource{lines: []string{
		"signal member=WakeUpScreen",
		"signal member=WakeUpScreen",
	}}
	queue := busevent.NewQueue()
	queue.Close()

	err := New(source, queue, Options{}).Run(context.Background())
	assert.NoError(t, err)
	assert.Len(t, source.lines, 1)
}

func TestWatcherReadFailureIsFatal(t *testing.T) {
	readErr := errors.New("broken pipe")
	source := &sliceSource{
		lines: []string{"signal member=WakeUpScreen"},
		err:   readErr,
	}
	queue := busevent.NewQueue()

	err := New(source, queue, Options{}).Run(context.Background())
	require.ErrorIs(t, err, readErr)
	assert.Equal(t, 1, queue.Len())
}

func TestWatcherPublishFailure(t *testing.T) {
	sinkErr := errors.New("sink unavailable")
	source := &sliceSource{lines: []string{"signal member=WakeUpScreen"}}

	err := New(source, failingSink{err: sinkErr}, Options{}).Run(context.Background())
	assert.ErrorIs(t, err, sinkErr)
}

func TestWatcherCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	source := &sliceSource{err: errors.New("read on closed pipe")}

	err := New(source, busevent.NewQueue(), Options{}).Run(ctx)
	assert.NoError(t, err)
}

func TestWatcherStartLogsExit(t *testing.T) {
	var output bytes.Buffer
	logger := log.New(&output, "", 0)
	source := &sliceSource{lines: []string{"signal member=WakeUpScreen"}}
	queue := busevent.NewQueue()

	done := New(source, queue, Options{Logger: logger}).Start(context.Background())
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}

	assert.Contains(t, output.String(), "watcher: stopped: read line: EOF")
	assert.Equal(t, 1, queue.Len())
}

func TestReaderSourceTrimsLineEndings(t *testing.T) {
	source := NewReaderSource(strings.NewReader("first\r\nsecond\nthird"))

	for _, want := range []string{"first", "second", "third"} {
		line, err := source.NextLine()
		require.NoError(t, err)
		assert.Equal(t, want, line)
	}
	_, err := source.NextLine()
	assert.ErrorIs(t, err, io.EOF)
	assert.NoError(t, source.Close())
}

func TestFormatSignalRoundTripsThroughParser(t *testing.T) {
	line := FormatSignal(":1.23", "/org/gnome/ScreenSaver", "org.gnome.ScreenSaver.WakeUpScreen")
	assert.Contains(t, line, "interface=org.gnome.ScreenSaver;")

	event, ok := ParseLine(line, fixedNow)
	require.True(t, ok)
	assert.Equal(t, "WakeUpScreen", event.Member)
}

func TestMonitorArgs(t *testing.T) {
	assert.Equal(t, []string{
		"--session",
		"type='signal',interface='org.gnome.ScreenSaver'",
	}, MonitorArgs(model.DefaultBusInterface))
}

func TestStartMonitorMissingExecutable(t *testing.T) {
	_, err := StartMonitor(context.Background(), model.MonitorConfig{
		Command: "sitter-test-monitor-that-does-not-exist",
	})
	assert.Error(t, err)
}

func TestMonitorSourceCloseTwice(t *testing.T) {
	source, err := StartMonitor(context.Background(), model.MonitorConfig{
		Command: os.Args[0],
	})
	require.NoError(t, err)

	assert.NoError(t, source.Close())
	assert.NoError(t, source.Close())
}

func TestOpenUnknownSource(t *testing.T) {
	_, err := Open(context.Background(), model.MonitorConfig{Source: "carrier-pigeon"})
	assert.Error(t, err)
}
