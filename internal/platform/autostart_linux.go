//go:build linux

package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// The session bus must be up before the monitor is spawned.
const autostartDelaySeconds = 5

// desktopEntry is the subset of the XDG desktop entry format sitter writes.
type desktopEntry struct {
	Name    string
	Comment string
	Exec    string
	Delay   int
}

func (entry desktopEntry) String() string {
	var builder strings.Builder
	builder.WriteString("[Desktop Entry]\n")
	builder.WriteString("Type=Application\n")
	fmt.Fprintf(&builder, "Name=%s\n", entry.Name)
	if entry.Comment != "" {
		fmt.Fprintf(&builder, "Comment=%s\n", entry.Comment)
	}
	fmt.Fprintf(&builder, "Exec=%s\n", quoteExec(entry.Exec))
	builder.WriteString("X-GNOME-Autostart-enabled=true\n")
	if entry.Delay > 0 {
		fmt.Fprintf(&builder, "X-GNOME-Autostart-Delay=%d\n", entry.Delay)
	}
	builder.WriteString("Terminal=false\n")
	return builder.String()
}

func (service *platformService) EnableAutostart(appName, execPath string) error {
	if appName == "" {
		return fmt.Errorf("enable autostart: app name is empty")
	}
	if execPath == "" {
		return fmt.Errorf("enable autostart: exec path is empty")
	}

	entryPath, err := service.autostartEntryPath(appName)
	if err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(entryPath), 0o755); err != nil {
		return fmt.Errorf("enable autostart: create autostart dir: %w", err)
	}

	entry := desktopEntry{
		Name:    appName,
		Comment: "Reminds you to stand up after sitting too long",
		Exec:    execPath,
		Delay:   autostartDelaySeconds,
	}
	tempPath := entryPath + ".tmp"
	if err := os.WriteFile(tempPath, []byte(entry.String()), 0o644); err != nil {
		return fmt.Errorf("enable autostart: write desktop entry: %w", err)
	}
	if err := os.Rename(tempPath, entryPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("enable autostart: install desktop entry: %w", err)
	}

	return nil
}

func (service *platformService) DisableAutostart(appName string) error {
	if appName == "" {
		return fmt.Errorf("disable autostart: app name is empty")
	}

	entryPath, err := service.autostartEntryPath(appName)
	if err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	if err := os.Remove(entryPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("disable autostart: remove desktop entry: %w", err)
	}

	return nil
}

func (service *platformService) autostartEntryPath(appName string) (string, error) {
	configDir, err := service.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "autostart", desktopFileName(appName)), nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config")
}

func desktopFileName(appName string) string {
	name := strings.ToLower(strings.TrimSpace(appName))
	if name == "" {
		name = "sitter"
	}
	return strings.ReplaceAll(name, " ", "-") + ".desktop"
}

func quoteExec(execPath string) string {
	if strings.Contains(execPath, " ") && !strings.HasPrefix(execPath, `"`) {
		return `"` + execPath + `"`
	}
	return execPath
}
