package engine

import (
	"sync"
	"time"

	"tempo/internal/core/model"
)

// Config contains runtime options for the Engine.
type Config struct {
	// StopwatchInterval is the publish cadence while a stopwatch runs.
	// Defaults to 100ms, enough for a tenths-of-a-second display.
	StopwatchInterval time.Duration
}

// Engine is the single authoritative owner of the timer state. One mutex
// serializes every control operation and every loop publication; at most
// one timing loop exists at any instant, and replacing the loop handle
// detaches the old loop before the new state is written, so a cancelled
// loop can never overwrite a newer state.
type Engine struct {
	mu          sync.Mutex
	options     Config
	state       model.State
	loop        *loopHandle
	broadcaster *Broadcaster
}

// loopHandle anchors one timing loop to the wall clock. The loop never
// accumulates ticks; each iteration recomputes its value from the anchor,
// so scheduler jitter cannot drift the result.
type loopHandle struct {
	stop      chan struct{}
	anchor    time.Time
	initial   time.Duration
	total     time.Duration
	stopwatch bool
}

// New creates an idle Engine.
func New(options Config) *Engine {
	if options.StopwatchInterval <= 0 {
		options.StopwatchInterval = 100 * time.Millisecond
	}
	return &Engine{
		options:     options,
		state:       model.Idle(),
		broadcaster: NewBroadcaster(model.Idle()),
	}
}

// Subscribe registers an observer of state transitions. The current state
// is delivered as the first value. See Broadcaster for delivery semantics.
func (eng *Engine) Subscribe(buffer int) <-chan model.State {
	return eng.broadcaster.Subscribe(buffer)
}

// Unsubscribe removes an observer and closes its channel.
func (eng *Engine) Unsubscribe(ch <-chan model.State) {
	eng.broadcaster.Unsubscribe(ch)
}

// State returns the current state.
func (eng *Engine) State() model.State {
	eng.mu.Lock()
	defer eng.mu.Unlock()
	return eng.state
}

// StartCountdown begins a countdown of the given duration.
func (eng *Engine) StartCountdown(duration time.Duration) error {
	if duration <= 0 {
		return ErrInvalidDuration
	}

	eng.mu.Lock()
	defer eng.mu.Unlock()
	if eng.state.IsActive() {
		return ErrAlreadyRunning
	}
	eng.stopLoopLocked()
	eng.setStateLocked(model.Running(duration, duration))
	eng.startLoopLocked(&loopHandle{initial: duration, total: duration})
	return nil
}

// PauseCountdown suspends a running countdown, freezing the remaining time
// computed at the instant the pause is processed.
func (eng *Engine) PauseCountdown() error {
	eng.mu.Lock()
	defer eng.mu.Unlock()
	if !eng.state.IsRunning() {
		return ErrNotRunning
	}

	handle := eng.loop
	eng.stopLoopLocked()
	remaining := handle.initial - time.Since(handle.anchor)
	if remaining < 0 {
		remaining = 0
	}
	eng.setStateLocked(model.Paused(remaining, handle.total))
	return nil
}

// ResumeCountdown continues a paused countdown from its frozen remaining
// time, anchored freshly at now.
func (eng *Engine) ResumeCountdown() error {
	eng.mu.Lock()
	defer eng.mu.Unlock()
	if !eng.state.IsPaused() {
		return ErrNotPaused
	}

	remaining, total := eng.state.Remaining, eng.state.Total
	eng.setStateLocked(model.Running(remaining, total))
	eng.startLoopLocked(&loopHandle{initial: remaining, total: total})
	return nil
}

// Cancel aborts the active countdown or stopwatch and returns to Idle.
func (eng *Engine) Cancel() error {
	eng.mu.Lock()
	defer eng.mu.Unlock()
	if !eng.state.IsActive() {
		return ErrNoActiveTimer
	}
	eng.stopLoopLocked()
	eng.setStateLocked(model.Idle())
	return nil
}

// Reset returns to Idle from any state. It never fails and is the
// universal recovery path for callers.
func (eng *Engine) Reset() {
	eng.mu.Lock()
	defer eng.mu.Unlock()
	eng.stopLoopLocked()
	eng.setStateLocked(model.Idle())
}

// StartStopwatch begins counting up from zero.
func (eng *Engine) StartStopwatch() error {
	eng.mu.Lock()
	defer eng.mu.Unlock()
	if eng.state.IsActive() {
		return ErrAlreadyRunning
	}
	eng.stopLoopLocked()
	eng.setStateLocked(model.StopwatchRunning(0))
	eng.startLoopLocked(&loopHandle{stopwatch: true})
	return nil
}

// PauseStopwatch suspends a running stopwatch at its current elapsed time.
func (eng *Engine) PauseStopwatch() error {
	eng.mu.Lock()
	defer eng.mu.Unlock()
	if eng.state.Phase != model.PhaseStopwatchRunning {
		return ErrNotInStopwatchMode
	}

	handle := eng.loop
	eng.stopLoopLocked()
	elapsed := handle.initial + time.Since(handle.anchor)
	eng.setStateLocked(model.StopwatchPaused(elapsed))
	return nil
}

// ResumeStopwatch continues a paused stopwatch from its frozen elapsed
// time.
func (eng *Engine) ResumeStopwatch() error {
	eng.mu.Lock()
	defer eng.mu.Unlock()
	if eng.state.Phase != model.PhaseStopwatchPaused {
		return ErrNotInStopwatchMode
	}

	elapsed := eng.state.Elapsed
	eng.setStateLocked(model.StopwatchRunning(elapsed))
	eng.startLoopLocked(&loopHandle{initial: elapsed, stopwatch: true})
	return nil
}

// StopStopwatch ends the stopwatch and returns to Idle. It is a no-op
// outside the stopwatch phases.
func (eng *Engine) StopStopwatch() error {
	eng.mu.Lock()
	defer eng.mu.Unlock()
	if !eng.state.IsStopwatch() {
		return nil
	}
	eng.stopLoopLocked()
	eng.setStateLocked(model.Idle())
	return nil
}

// Close stops any loop and closes all subscriber channels. The engine
// must not be used afterwards.
func (eng *Engine) Close() {
	eng.mu.Lock()
	eng.stopLoopLocked()
	eng.state = model.Idle()
	eng.mu.Unlock()

	eng.broadcaster.Close()
}

// setStateLocked replaces the state wholesale and publishes it.
func (eng *Engine) setStateLocked(state model.State) {
	eng.state = state
	eng.broadcaster.Publish(state)
}

// stopLoopLocked detaches and cancels the current loop, if any. The handle
// is cleared before the caller writes new state, so the outgoing loop
// observes that it is no longer current and publishes nothing further.
func (eng *Engine) stopLoopLocked() {
	if eng.loop == nil {
		return
	}
	close(eng.loop.stop)
	eng.loop = nil
}

// startLoopLocked anchors the handle at now, installs it as the single
// current loop and spawns its goroutine.
func (eng *Engine) startLoopLocked(handle *loopHandle) {
	handle.stop = make(chan struct{})
	handle.anchor = time.Now()
	eng.loop = handle
	if handle.stopwatch {
		go eng.runStopwatch(handle)
	} else {
		go eng.runCountdown(handle)
	}
}

// runCountdown recomputes the remaining time from the wall clock each
// iteration and republishes it, sleeping to the next whole-second boundary
// of the remaining value so observers see once-per-second updates. When
// the remaining time reaches zero it publishes Completed exactly once and
// exits.
func (eng *Engine) runCountdown(handle *loopHandle) {
	for {
		remaining := handle.initial - time.Since(handle.anchor)
		if remaining <= 0 {
			eng.finishCountdown(handle)
			return
		}
		if !eng.publishFromLoop(handle, model.Running(remaining, handle.total)) {
			return
		}

		sleep := remaining % time.Second
		if sleep < 5*time.Millisecond {
			sleep = time.Second
		}
		timer := time.NewTimer(sleep)
		select {
		case <-handle.stop:
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// runStopwatch republishes the recomputed elapsed time at a fixed short
// cadence. A stopwatch has no natural end; the loop runs until detached.
func (eng *Engine) runStopwatch(handle *loopHandle) {
	ticker := time.NewTicker(eng.options.StopwatchInterval)
	defer ticker.Stop()

	for {
		elapsed := handle.initial + time.Since(handle.anchor)
		if !eng.publishFromLoop(handle, model.StopwatchRunning(elapsed)) {
			return
		}
		select {
		case <-handle.stop:
			return
		case <-ticker.C:
		}
	}
}

// publishFromLoop installs a state computed by a loop iteration, unless
// that loop has been detached in the meantime. Reports whether the loop is
// still current.
func (eng *Engine) publishFromLoop(handle *loopHandle, state model.State) bool {
	eng.mu.Lock()
	defer eng.mu.Unlock()
	if eng.loop != handle {
		return false
	}
	eng.setStateLocked(state)
	return true
}

// finishCountdown moves a countdown that ran to zero into Completed and
// releases the loop handle.
func (eng *Engine) finishCountdown(handle *loopHandle) {
	eng.mu.Lock()
	defer eng.mu.Unlock()
	if eng.loop != handle {
		return
	}
	eng.loop = nil
	eng.setStateLocked(model.Completed())
}
