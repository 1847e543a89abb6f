package display

import (
	"fmt"
	"time"

	"tempo/internal/core/model"
)

// FormatCountdown renders remaining time as mm:ss, or h:mm:ss from one
// hour up. The value is rounded up to the next whole second so a fresh
// one-minute countdown reads 01:00, not 00:59.
func FormatCountdown(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	seconds := int((remaining + time.Second - 1) / time.Second)
	if seconds >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", seconds/3600, seconds%3600/60, seconds%60)
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// FormatStopwatch renders elapsed time as mm:ss.t with tenths, growing to
// h:mm:ss.t from one hour up.
func FormatStopwatch(elapsed time.Duration) string {
	if elapsed < 0 {
		elapsed = 0
	}
	tenths := int(elapsed / (100 * time.Millisecond))
	seconds := tenths / 10
	if seconds >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d.%d", seconds/3600, seconds%3600/60, seconds%60, tenths%10)
	}
	return fmt.Sprintf("%02d:%02d.%d", seconds/60, seconds%60, tenths%10)
}

// FormatState renders the display string for any timer state.
func FormatState(state model.State) string {
	switch state.Phase {
	case model.PhaseRunning, model.PhasePaused:
		return FormatCountdown(state.Remaining)
	case model.PhaseStopwatchRunning, model.PhaseStopwatchPaused:
		return FormatStopwatch(state.Elapsed)
	case model.PhaseCompleted:
		return "00:00"
	default:
		return "--:--"
	}
}
