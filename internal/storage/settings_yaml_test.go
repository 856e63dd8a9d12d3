package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitter/internal/core/model"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	settings, found, err := LoadSettingsFile(filepath.Join(t.TempDir(), "settings.yaml"))
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, model.DefaultSettings(), settings)
}

func TestSaveAndLoadSettings(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "settings.yaml")
	settings := model.DefaultSettings()
	settings.TimerDuration = 45 * time.Minute
	settings.SnoozeDuration = 90 * time.Second
	settings.EventSource = model.EventSourceNative
	settings.MetricsAddress = "127.0.0.1:9464"
	settings.Autostart = true

	require.NoError(t, SaveSettingsFile(configPath, settings))

	loaded, found, err := LoadSettingsFile(configPath)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, settings, loaded)
}

func TestLoadFractionalMinutes(t *testing.T) {
	configPath := writeSettings(t, "timer_minutes: 0.5\nsnooze_minutes: 0.25\n")

	settings, _, err := LoadSettingsFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, settings.TimerDuration)
	assert.Equal(t, 15*time.Second, settings.SnoozeDuration)
}

func TestLoadIgnoresInvalidValues(t *testing.T) {
	configPath := writeSettings(t, `timer_minutes: -3
snooze_minutes: 0
reset_member: "  "
event_source: telepathy
`)

	settings, _, err := LoadSettingsFile(configPath)
	require.NoError(t, err)
	defaults := model.DefaultSettings()
	assert.Equal(t, defaults.TimerDuration, settings.TimerDuration)
	assert.Equal(t, defaults.SnoozeDuration, settings.SnoozeDuration)
	assert.Equal(t, defaults.ResetMember, settings.ResetMember)
	assert.Equal(t, defaults.EventSource, settings.EventSource)
}

func TestLoadRejectsOverflowingMinutes(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{name: "huge", content: "timer_minutes: 400000000\nsnooze_minutes: 1e300\n"},
		{name: "nan", content: "timer_minutes: .nan\nsnooze_minutes: .nan\n"},
		{name: "inf", content: "timer_minutes: .inf\nsnooze_minutes: -.inf\n"},
	}

	defaults := model.DefaultSettings()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			settings, found, err := LoadSettingsFile(writeSettings(t, tc.content))
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, defaults.TimerDuration, settings.TimerDuration)
			assert.Equal(t, defaults.SnoozeDuration, settings.SnoozeDuration)
		})
	}
}

func TestLoadMalformedYaml(t *testing.T) {
	configPath := writeSettings(t, "timer_minutes: [oops\n")

	settings, found, err := LoadSettingsFile(configPath)
	assert.Error(t, err)
	assert.True(t, found)
	assert.Equal(t, model.DefaultSettings(), settings)
}

func TestEnsureSettingsWritesDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	settings, err := EnsureSettings("sitter-test")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(), settings)

	configPath, err := ResolveConfigPath("sitter-test")
	require.NoError(t, err)
	_, err = os.Stat(configPath)
	require.NoError(t, err)

	settings.TimerDuration = 20 * time.Minute
	require.NoError(t, SaveSettings("sitter-test", settings))

	loaded, err := LoadSettings("sitter-test")
	require.NoError(t, err)
	assert.Equal(t, 20*time.Minute, loaded.TimerDuration)
}

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))
	return configPath
}
