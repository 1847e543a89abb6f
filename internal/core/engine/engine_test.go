package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tempo/internal/core/model"
)

func newTestEngine() *Engine {
	return New(Config{StopwatchInterval: 20 * time.Millisecond})
}

func waitForPhase(t *testing.T, eng *Engine, phase model.Phase, timeout time.Duration) model.State {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if state := eng.State(); state.Phase == phase {
			return state
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for phase %q, current state %+v", phase, eng.State())
	return model.State{}
}

func TestEngine_StartCountdown(t *testing.T) {
	eng := newTestEngine()
	defer eng.Close()

	require.NoError(t, eng.StartCountdown(time.Minute))

	state := eng.State()
	assert.Equal(t, model.PhaseRunning, state.Phase)
	assert.Equal(t, time.Minute, state.Total)
	assert.LessOrEqual(t, state.Remaining, time.Minute)
	assert.GreaterOrEqual(t, state.Remaining, time.Minute-100*time.Millisecond)
}

func TestEngine_StartCountdownInvalidDuration(t *testing.T) {
	eng := newTestEngine()
	defer eng.Close()

	assert.ErrorIs(t, eng.StartCountdown(0), ErrInvalidDuration)
	assert.ErrorIs(t, eng.StartCountdown(-10*time.Second), ErrInvalidDuration)
	assert.Equal(t, model.Idle(), eng.State())
}

func TestEngine_DoubleStartRejected(t *testing.T) {
	eng := newTestEngine()
	defer eng.Close()

	require.NoError(t, eng.StartCountdown(time.Minute))
	assert.ErrorIs(t, eng.StartCountdown(30*time.Second), ErrAlreadyRunning)

	state := eng.State()
	assert.Equal(t, model.PhaseRunning, state.Phase)
	assert.Equal(t, time.Minute, state.Total)
	assert.GreaterOrEqual(t, state.Remaining, 59*time.Second)
}

func TestEngine_PausePreservesRemaining(t *testing.T) {
	eng := newTestEngine()
	defer eng.Close()

	require.NoError(t, eng.StartCountdown(time.Minute))
	time.Sleep(500 * time.Millisecond)
	require.NoError(t, eng.PauseCountdown())

	state := eng.State()
	assert.Equal(t, model.PhasePaused, state.Phase)
	assert.Equal(t, time.Minute, state.Total)
	assert.GreaterOrEqual(t, state.Remaining, 59*time.Second)
	assert.Less(t, state.Remaining, time.Minute)

	// Frozen: the value must not move while paused.
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, state, eng.State())
}

func TestEngine_ResumeContinuesWithoutLoss(t *testing.T) {
	eng := newTestEngine()
	defer eng.Close()

	require.NoError(t, eng.StartCountdown(time.Minute))
	time.Sleep(300 * time.Millisecond)
	require.NoError(t, eng.PauseCountdown())
	frozen := eng.State().Remaining

	require.NoError(t, eng.ResumeCountdown())
	state := eng.State()
	assert.Equal(t, model.PhaseRunning, state.Phase)
	assert.InDelta(t, float64(frozen), float64(state.Remaining), float64(500*time.Millisecond))

	time.Sleep(200 * time.Millisecond)
	require.NoError(t, eng.PauseCountdown())
	again := eng.State().Remaining
	assert.Less(t, again, frozen)
	assert.GreaterOrEqual(t, again, frozen-time.Second)
}

func TestEngine_ResetAlwaysReturnsToIdle(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, eng *Engine)
	}{
		{name: "idle", setup: func(t *testing.T, eng *Engine) {}},
		{name: "running", setup: func(t *testing.T, eng *Engine) {
			require.NoError(t, eng.StartCountdown(time.Minute))
		}},
		{name: "paused", setup: func(t *testing.T, eng *Engine) {
			require.NoError(t, eng.StartCountdown(time.Minute))
			require.NoError(t, eng.PauseCountdown())
		}},
		{name: "completed", setup: func(t *testing.T, eng *Engine) {
			require.NoError(t, eng.StartCountdown(50 * time.Millisecond))
			waitForPhase(t, eng, model.PhaseCompleted, time.Second)
		}},
		{name: "stopwatch running", setup: func(t *testing.T, eng *Engine) {
			require.NoError(t, eng.StartStopwatch())
		}},
		{name: "stopwatch paused", setup: func(t *testing.T, eng *Engine) {
			require.NoError(t, eng.StartStopwatch())
			require.NoError(t, eng.PauseStopwatch())
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := newTestEngine()
			defer eng.Close()
			tt.setup(t, eng)

			eng.Reset()
			assert.Equal(t, model.Idle(), eng.State())

			// The state must stay Idle: no zombie loop may keep
			// publishing after the reset.
			time.Sleep(150 * time.Millisecond)
			assert.Equal(t, model.Idle(), eng.State())
		})
	}
}

func TestEngine_CountdownCompletes(t *testing.T) {
	eng := newTestEngine()
	defer eng.Close()

	require.NoError(t, eng.StartCountdown(500*time.Millisecond))
	time.Sleep(time.Second)
	assert.Equal(t, model.Completed(), eng.State())
}

func TestEngine_ExactlyOneCompletedEmission(t *testing.T) {
	eng := newTestEngine()
	defer eng.Close()

	events := eng.Subscribe(32)
	require.NoError(t, eng.StartCountdown(200*time.Millisecond))
	waitForPhase(t, eng, model.PhaseCompleted, time.Second)
	time.Sleep(200 * time.Millisecond)
	eng.Unsubscribe(events)

	completions := 0
	for state := range events {
		if state.IsCompleted() {
			completions++
		}
	}
	assert.Equal(t, 1, completions)
}

func TestEngine_CancelReturnsToIdle(t *testing.T) {
	eng := newTestEngine()
	defer eng.Close()

	require.NoError(t, eng.StartCountdown(time.Minute))
	require.NoError(t, eng.Cancel())
	assert.Equal(t, model.Idle(), eng.State())

	assert.ErrorIs(t, eng.Cancel(), ErrNoActiveTimer)
}

func TestEngine_CancelFromCompletedFails(t *testing.T) {
	eng := newTestEngine()
	defer eng.Close()

	require.NoError(t, eng.StartCountdown(50*time.Millisecond))
	waitForPhase(t, eng, model.PhaseCompleted, time.Second)

	assert.ErrorIs(t, eng.Cancel(), ErrNoActiveTimer)
	assert.Equal(t, model.Completed(), eng.State())
}

func TestEngine_PauseResumePreconditions(t *testing.T) {
	eng := newTestEngine()
	defer eng.Close()

	assert.ErrorIs(t, eng.PauseCountdown(), ErrNotRunning)
	assert.ErrorIs(t, eng.ResumeCountdown(), ErrNotPaused)
	assert.ErrorIs(t, eng.PauseStopwatch(), ErrNotInStopwatchMode)
	assert.ErrorIs(t, eng.ResumeStopwatch(), ErrNotInStopwatchMode)
	assert.Equal(t, model.Idle(), eng.State())

	require.NoError(t, eng.StartCountdown(time.Minute))
	assert.ErrorIs(t, eng.ResumeCountdown(), ErrNotPaused)
	assert.ErrorIs(t, eng.PauseStopwatch(), ErrNotInStopwatchMode)
}

func TestEngine_StopwatchMonotonicity(t *testing.T) {
	eng := newTestEngine()
	defer eng.Close()

	events := eng.Subscribe(64)
	require.NoError(t, eng.StartStopwatch())
	time.Sleep(300 * time.Millisecond)
	require.NoError(t, eng.StopStopwatch())
	eng.Unsubscribe(events)

	var previous time.Duration
	samples := 0
	for state := range events {
		if state.Phase != model.PhaseStopwatchRunning {
			continue
		}
		assert.GreaterOrEqual(t, state.Elapsed, previous)
		previous = state.Elapsed
		samples++
	}
	assert.Greater(t, samples, 2)
}

func TestEngine_StopwatchPauseResume(t *testing.T) {
	eng := newTestEngine()
	defer eng.Close()

	require.NoError(t, eng.StartStopwatch())
	time.Sleep(250 * time.Millisecond)
	require.NoError(t, eng.PauseStopwatch())

	state := eng.State()
	assert.Equal(t, model.PhaseStopwatchPaused, state.Phase)
	assert.GreaterOrEqual(t, state.Elapsed, 200*time.Millisecond)
	assert.Less(t, state.Elapsed, time.Second)

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, state, eng.State())

	require.NoError(t, eng.ResumeStopwatch())
	time.Sleep(100 * time.Millisecond)
	resumed := eng.State()
	assert.Equal(t, model.PhaseStopwatchRunning, resumed.Phase)
	assert.GreaterOrEqual(t, resumed.Elapsed, state.Elapsed)
}

func TestEngine_StartStopwatchWhileActive(t *testing.T) {
	eng := newTestEngine()
	defer eng.Close()

	require.NoError(t, eng.StartCountdown(time.Minute))
	assert.ErrorIs(t, eng.StartStopwatch(), ErrAlreadyRunning)
	assert.Equal(t, model.PhaseRunning, eng.State().Phase)
}

func TestEngine_StopStopwatchOutsideStopwatchIsNoop(t *testing.T) {
	eng := newTestEngine()
	defer eng.Close()

	require.NoError(t, eng.StopStopwatch())
	assert.Equal(t, model.Idle(), eng.State())

	require.NoError(t, eng.StartCountdown(time.Minute))
	require.NoError(t, eng.StopStopwatch())
	assert.Equal(t, model.PhaseRunning, eng.State().Phase)
}

func TestEngine_LateSubscriberReceivesCurrentState(t *testing.T) {
	eng := newTestEngine()
	defer eng.Close()

	require.NoError(t, eng.StartCountdown(time.Minute))
	time.Sleep(50 * time.Millisecond)

	events := eng.Subscribe(1)
	state := <-events
	assert.Equal(t, model.PhaseRunning, state.Phase)
	assert.Equal(t, time.Minute, state.Total)
}

func TestEngine_CountdownLifecycleScenario(t *testing.T) {
	eng := newTestEngine()
	defer eng.Close()

	require.NoError(t, eng.StartCountdown(time.Minute))
	state := eng.State()
	require.Equal(t, model.PhaseRunning, state.Phase)
	require.Equal(t, time.Minute, state.Total)

	time.Sleep(500 * time.Millisecond)
	require.NoError(t, eng.PauseCountdown())
	state = eng.State()
	require.Equal(t, model.PhasePaused, state.Phase)
	assert.GreaterOrEqual(t, state.Remaining, 59*time.Second+300*time.Millisecond)
	assert.LessOrEqual(t, state.Remaining, time.Minute)

	frozen := state.Remaining
	require.NoError(t, eng.ResumeCountdown())
	state = eng.State()
	require.Equal(t, model.PhaseRunning, state.Phase)
	assert.InDelta(t, float64(frozen), float64(state.Remaining), float64(500*time.Millisecond))

	require.NoError(t, eng.Cancel())
	assert.Equal(t, model.Idle(), eng.State())
}

func TestEngine_CompletionScenario(t *testing.T) {
	eng := newTestEngine()
	defer eng.Close()

	require.NoError(t, eng.StartCountdown(500*time.Millisecond))
	time.Sleep(time.Second)
	require.Equal(t, model.Completed(), eng.State())

	eng.Reset()
	assert.Equal(t, model.Idle(), eng.State())
}

func TestEngine_ConcurrentControlCalls(t *testing.T) {
	eng := newTestEngine()
	defer eng.Close()

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 50; j++ {
				_ = eng.StartCountdown(time.Minute)
				_ = eng.PauseCountdown()
				_ = eng.ResumeCountdown()
				_ = eng.Cancel()
				_ = eng.StartStopwatch()
				_ = eng.PauseStopwatch()
				_ = eng.ResumeStopwatch()
				_ = eng.StopStopwatch()
				eng.Reset()
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	eng.Reset()
	assert.Equal(t, model.Idle(), eng.State())
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, model.Idle(), eng.State())
}

func TestEngine_CloseClosesSubscribers(t *testing.T) {
	eng := newTestEngine()

	events := eng.Subscribe(4)
	require.NoError(t, eng.StartCountdown(time.Minute))
	eng.Close()

	for range events {
	}
	// Channel drained and closed without deadlock.
}
