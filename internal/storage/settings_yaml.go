package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"sitter/internal/core/model"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	TimerMinutes   float64 `yaml:"timer_minutes"`
	SnoozeMinutes  float64 `yaml:"snooze_minutes"`
	ResetMember    string  `yaml:"reset_member"`
	BusInterface   string  `yaml:"bus_interface"`
	EventSource    string  `yaml:"event_source"`
	MetricsAddress string  `yaml:"metrics_address,omitempty"`
	Autostart      bool    `yaml:"autostart"`
}

// LoadSettings reads user preferences from YAML.
// If the config file does not exist, default settings are returned.
func LoadSettings(appName string) (model.Settings, error) {
	configPath, err := ResolveConfigPath(appName)
	if err != nil {
		return model.DefaultSettings(), err
	}
	settings, _, err := LoadSettingsFile(configPath)
	return settings, err
}

// EnsureSettings loads user preferences and writes the defaults when no
// settings file exists yet, so the user has a file to edit.
func EnsureSettings(appName string) (model.Settings, error) {
	configPath, err := ResolveConfigPath(appName)
	if err != nil {
		return model.DefaultSettings(), err
	}

	settings, found, err := LoadSettingsFile(configPath)
	if err != nil || found {
		return settings, err
	}
	if err := SaveSettingsFile(configPath, settings); err != nil {
		return settings, err
	}
	return settings, nil
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(appName string, settings model.Settings) error {
	configPath, err := ResolveConfigPath(appName)
	if err != nil {
		return err
	}
	return SaveSettingsFile(configPath, settings)
}

// LoadSettingsFile reads settings from configPath. found is false when the
// file does not exist.
func LoadSettingsFile(configPath string) (settings model.Settings, found bool, err error) {
	settings = model.DefaultSettings()

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, false, nil
		}
		return settings, false, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, true, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, true, nil
}

// SaveSettingsFile writes settings to configPath, creating its directory.
func SaveSettingsFile(configPath string, settings model.Settings) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlSettings{
		TimerMinutes:   model.DurationToMinutes(settings.TimerDuration),
		SnoozeMinutes:  model.DurationToMinutes(settings.SnoozeDuration),
		ResetMember:    settings.ResetMember,
		BusInterface:   settings.BusInterface,
		EventSource:    string(settings.EventSource),
		MetricsAddress: settings.MetricsAddress,
		Autostart:      settings.Autostart,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

// ResolveConfigPath returns the settings file location for appName.
func ResolveConfigPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

func applyYamlSettings(settings *model.Settings, fileData yamlSettings) {
	if duration, ok := model.MinutesToDuration(fileData.TimerMinutes); ok && duration > 0 {
		settings.TimerDuration = duration
	}
	if duration, ok := model.MinutesToDuration(fileData.SnoozeMinutes); ok && duration > 0 {
		settings.SnoozeDuration = duration
	}
	if member := strings.TrimSpace(fileData.ResetMember); member != "" {
		settings.ResetMember = member
	}
	if iface := strings.TrimSpace(fileData.BusInterface); iface != "" {
		settings.BusInterface = iface
	}

	switch source := model.EventSource(strings.ToLower(strings.TrimSpace(fileData.EventSource))); source {
	case model.EventSourceMonitor, model.EventSourceNative:
		settings.EventSource = source
	}

	settings.MetricsAddress = strings.TrimSpace(fileData.MetricsAddress)
	settings.Autostart = fileData.Autostart
}
