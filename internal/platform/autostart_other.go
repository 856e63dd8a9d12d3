//go:build !linux

package platform

import (
	"errors"
	"path/filepath"
)

// ErrAutostartUnsupported is returned where no session autostart mechanism is wired.
var ErrAutostartUnsupported = errors.New("autostart unsupported on this platform")

func (service *platformService) EnableAutostart(appName, execPath string) error {
	return ErrAutostartUnsupported
}

func (service *platformService) DisableAutostart(appName string) error {
	return nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config")
}
