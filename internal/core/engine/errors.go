package engine

import "errors"

// Control operation failures. Every failed operation leaves the engine
// state untouched.
var (
	// ErrInvalidDuration indicates a non-positive countdown duration.
	ErrInvalidDuration = errors.New("countdown duration must be positive")
	// ErrAlreadyRunning indicates a start attempt while a timer or
	// stopwatch is active.
	ErrAlreadyRunning = errors.New("timer already active")
	// ErrNotRunning indicates a pause attempt with no countdown running.
	ErrNotRunning = errors.New("no countdown running")
	// ErrNotPaused indicates a resume attempt with no countdown paused.
	ErrNotPaused = errors.New("no countdown paused")
	// ErrNoActiveTimer indicates a cancel attempt with nothing to cancel.
	ErrNoActiveTimer = errors.New("no active timer")
	// ErrNotInStopwatchMode indicates a stopwatch operation outside the
	// stopwatch phases.
	ErrNotInStopwatchMode = errors.New("not in stopwatch mode")
)
