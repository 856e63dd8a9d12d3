package watcher

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"

	"sitter/internal/core/model"
)

const nativeSignalBuffer = 16

// NativeSource subscribes to the session bus directly and renders every
// received signal as a dbus-monitor style header line, so the same parser
// serves both sources.
type NativeSource struct {
	conn      *dbus.Conn
	iface     string
	signals   chan *dbus.Signal
	done      <-chan struct{}
	closeOnce sync.Once
}

// ConnectNative opens a private session bus connection and adds a signal match
// for the configured interface.
func ConnectNative(ctx context.Context, config model.MonitorConfig) (*NativeSource, error) {
	if config.Interface == "" {
		config.Interface = model.DefaultBusInterface
	}

	conn, err := dbus.ConnectSessionBus(dbus.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}
	if err := conn.AddMatchSignal(dbus.WithMatchInterface(config.Interface)); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("add signal match for %s: %w", config.Interface, err)
	}

	signals := make(chan *dbus.Signal, nativeSignalBuffer)
	conn.Signal(signals)

	return &NativeSource{
		conn:    conn,
		iface:   config.Interface,
		signals: signals,
		done:    ctx.Done(),
	}, nil
}

// NextLine blocks until a signal arrives on the subscribed interface.
func (source *NativeSource) NextLine() (string, error) {
	select {
	case <-source.done:
		return "", io.EOF
	case signal, ok := <-source.signals:
		if !ok || signal == nil {
			return "", io.EOF
		}
		return FormatSignal(signal.Sender, string(signal.Path), signal.Name), nil
	}
}

// Close removes the signal channel and closes the bus connection.
func (source *NativeSource) Close() error {
	var err error
	source.closeOnce.Do(func() {
		source.conn.RemoveSignal(source.signals)
		err = source.conn.Close()
	})
	return err
}

// FormatSignal renders a signal as a monitor header line. name is the fully
// qualified "interface.member" form used by the bus library.
func FormatSignal(sender, path, name string) string {
	iface, member := name, ""
	if index := strings.LastIndex(name, "."); index >= 0 {
		iface, member = name[:index], name[index+1:]
	}
	return fmt.Sprintf("signal sender=%s -> destination=(null destination) path=%s; interface=%s; member=%s",
		sender, path, iface, member)
}

var _ LineSource = (*NativeSource)(nil)
