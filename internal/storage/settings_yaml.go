package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"tempo/internal/ui/preferences"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	PresetMinutes    []int `yaml:"preset_minutes"`
	NotifyOnComplete *bool `yaml:"notify_on_complete"`
	KeepOnTop        *bool `yaml:"keep_on_top"`
}

// LoadSettings reads user preferences from YAML.
// If the config file does not exist, default settings are returned.
func LoadSettings(appName string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()
	configPath, err := resolveConfigPath(appName)
	if err != nil {
		return settings, err
	}
	return readSettingsFile(configPath)
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(appName string, settings preferences.Settings) error {
	configPath, err := resolveConfigPath(appName)
	if err != nil {
		return err
	}
	return writeSettingsFile(configPath, settings)
}

func readSettingsFile(configPath string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

func writeSettingsFile(configPath string, settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlSettings{
		NotifyOnComplete: &settings.NotifyOnComplete,
		KeepOnTop:        &settings.KeepOnTop,
	}
	for _, preset := range settings.Presets {
		fileData.PresetMinutes = append(fileData.PresetMinutes, int(preset/time.Minute))
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

func resolveConfigPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	var presets []time.Duration
	for _, minutes := range fileData.PresetMinutes {
		if minutes > 0 {
			presets = append(presets, time.Duration(minutes)*time.Minute)
		}
	}
	if len(presets) > 0 {
		settings.Presets = presets
	}

	if fileData.NotifyOnComplete != nil {
		settings.NotifyOnComplete = *fileData.NotifyOnComplete
	}
	if fileData.KeepOnTop != nil {
		settings.KeepOnTop = *fileData.KeepOnTop
	}
}
