package preferences

import "time"

// Settings defines editable user preferences.
type Settings struct {
	// Presets are the countdown durations offered in the tray menu.
	Presets []time.Duration

	NotifyOnComplete bool
	KeepOnTop        bool
}

// DefaultSettings returns default settings for Tempo.
func DefaultSettings() Settings {
	return Settings{
		Presets: []time.Duration{
			5 * time.Minute,
			10 * time.Minute,
			25 * time.Minute,
		},
		NotifyOnComplete: true,
		KeepOnTop:        true,
	}
}
