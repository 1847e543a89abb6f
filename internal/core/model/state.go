package model

import "time"

// Phase identifies the timer mode.
type Phase string

const (
	PhaseIdle             Phase = "idle"
	PhaseRunning          Phase = "running"
	PhasePaused           Phase = "paused"
	PhaseCompleted        Phase = "completed"
	PhaseStopwatchRunning Phase = "stopwatch_running"
	PhaseStopwatchPaused  Phase = "stopwatch_paused"
)

// State is an immutable snapshot of the timer. It is a plain comparable
// value: two states are equal exactly when their phase and time fields
// match, which lets consumers detect transitions by comparing consecutive
// snapshots with ==.
//
// Remaining and Total are set only in the countdown phases, Elapsed only in
// the stopwatch phases; the constructors keep the unused fields zero.
type State struct {
	Phase     Phase
	Remaining time.Duration
	Total     time.Duration
	Elapsed   time.Duration
}

// Idle returns the state with no timer or stopwatch active.
func Idle() State {
	return State{Phase: PhaseIdle}
}

// Running returns the state of an active countdown.
func Running(remaining, total time.Duration) State {
	return State{Phase: PhaseRunning, Remaining: remaining, Total: total}
}

// Paused returns the state of a suspended countdown, frozen at the instant
// the pause was processed.
func Paused(remaining, total time.Duration) State {
	return State{Phase: PhasePaused, Remaining: remaining, Total: total}
}

// Completed returns the terminal state of a finished countdown.
func Completed() State {
	return State{Phase: PhaseCompleted}
}

// StopwatchRunning returns the state of an active stopwatch.
func StopwatchRunning(elapsed time.Duration) State {
	return State{Phase: PhaseStopwatchRunning, Elapsed: elapsed}
}

// StopwatchPaused returns the state of a suspended stopwatch.
func StopwatchPaused(elapsed time.Duration) State {
	return State{Phase: PhaseStopwatchPaused, Elapsed: elapsed}
}

// RemainingTime reports the remaining countdown time. ok is false outside
// the Running and Paused phases.
func (state State) RemainingTime() (remaining time.Duration, ok bool) {
	if state.Phase == PhaseRunning || state.Phase == PhasePaused {
		return state.Remaining, true
	}
	return 0, false
}

// ElapsedTime reports the stopwatch elapsed time. ok is false outside the
// stopwatch phases.
func (state State) ElapsedTime() (elapsed time.Duration, ok bool) {
	if state.IsStopwatch() {
		return state.Elapsed, true
	}
	return 0, false
}

// TotalTime reports the countdown total. ok is false outside the Running
// and Paused phases.
func (state State) TotalTime() (total time.Duration, ok bool) {
	if state.Phase == PhaseRunning || state.Phase == PhasePaused {
		return state.Total, true
	}
	return 0, false
}

// Progress reports how far a countdown has advanced, from 0 to 1. It is 0
// for Idle and the stopwatch phases (a stopwatch has no fixed end) and 1
// for Completed.
func (state State) Progress() float64 {
	switch state.Phase {
	case PhaseCompleted:
		return 1
	case PhaseRunning, PhasePaused:
		if state.Total <= 0 {
			return 0
		}
		progress := 1 - float64(state.Remaining)/float64(state.Total)
		if progress < 0 {
			return 0
		}
		if progress > 1 {
			return 1
		}
		return progress
	default:
		return 0
	}
}

// IsRunning reports whether a countdown is ticking.
func (state State) IsRunning() bool {
	return state.Phase == PhaseRunning
}

// IsPaused reports whether a countdown is suspended.
func (state State) IsPaused() bool {
	return state.Phase == PhasePaused
}

// IsCompleted reports whether a countdown has finished.
func (state State) IsCompleted() bool {
	return state.Phase == PhaseCompleted
}

// IsStopwatch reports whether the timer is in either stopwatch phase.
func (state State) IsStopwatch() bool {
	return state.Phase == PhaseStopwatchRunning || state.Phase == PhaseStopwatchPaused
}

// IsActive reports whether any countdown or stopwatch is in progress,
// running or suspended.
func (state State) IsActive() bool {
	switch state.Phase {
	case PhaseRunning, PhasePaused, PhaseStopwatchRunning, PhaseStopwatchPaused:
		return true
	}
	return false
}
