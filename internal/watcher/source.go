package watcher

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"sitter/internal/core/model"
)

const defaultMonitorCommand = "dbus-monitor"

// LineSource yields raw text lines from an event source.
// NextLine returns io.EOF once the source is exhausted.
type LineSource interface {
	NextLine() (string, error)
	Close() error
}

// MonitorSource reads lines from a dbus-monitor child process.
type MonitorSource struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	reader *bufio.Reader

	closeOnce sync.Once
	closeErr  error
}

// MonitorArgs returns the arguments used to watch signals on the given interface.
func MonitorArgs(iface string) []string {
	return []string{
		"--session",
		fmt.Sprintf("type='signal',interface='%s'", iface),
	}
}

// StartMonitor spawns the monitor process. The process is killed when ctx is done.
func StartMonitor(ctx context.Context, config model.MonitorConfig) (*MonitorSource, error) {
	if config.Interface == "" {
		config.Interface = model.DefaultBusInterface
	}
	command := config.Command
	if command == "" {
		command = defaultMonitorCommand
	}

	cmd := exec.CommandContext(ctx, command, MonitorArgs(config.Interface)...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("start %s: stdout pipe: %w", command, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", command, err)
	}

	return &MonitorSource{
		cmd:    cmd,
		stdout: stdout,
		reader: bufio.NewReader(stdout),
	}, nil
}

// NextLine blocks until the monitor writes a full line.
func (source *MonitorSource) NextLine() (string, error) {
	return readLine(source.reader)
}

// Close kills the monitor process and reaps it. Later calls return the first result.
func (source *MonitorSource) Close() error {
	source.closeOnce.Do(func() {
		if source.cmd.Process != nil {
			_ = source.cmd.Process.Kill()
		}
		err := source.cmd.Wait()
		var exitErr *exec.ExitError
		if err != nil && !errors.As(err, &exitErr) {
			source.closeErr = fmt.Errorf("wait monitor: %w", err)
		}
	})
	return source.closeErr
}

// ReaderSource adapts any io.Reader into a LineSource.
type ReaderSource struct {
	reader *bufio.Reader
	closer io.Closer
}

// NewReaderSource wraps reader. If reader is an io.Closer it is closed by Close.
func NewReaderSource(reader io.Reader) *ReaderSource {
	source := &ReaderSource{reader: bufio.NewReader(reader)}
	if closer, ok := reader.(io.Closer); ok {
		source.closer = closer
	}
	return source
}

// NextLine returns the next line without its trailing newline.
func (source *ReaderSource) NextLine() (string, error) {
	return readLine(source.reader)
}

// Close closes the underlying reader when possible.
func (source *ReaderSource) Close() error {
	if source.closer == nil {
		return nil
	}
	return source.closer.Close()
}

func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return trimNewline(line), nil
		}
		return "", err
	}
	return trimNewline(line), nil
}

func trimNewline(line string) string {
	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
	}
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	return line
}

var (
	_ LineSource = (*MonitorSource)(nil)
	_ LineSource = (*ReaderSource)(nil)
)
