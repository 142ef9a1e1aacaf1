package track

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t *testing.T) {
	t.Helper()
	orig := timeNow
	tick := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	timeNow = func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	}
	t.Cleanup(func() { timeNow = orig })
}

func started(t *testing.T) DecisionTrack {
	t.Helper()
	tr := Transition(New("u1", "m1"), ActionStart)
	require.Equal(t, StateIntro, tr.State, "start state")
	require.Equal(t, 1, tr.Day, "start day")
	return tr
}

func TestNewTrack(t *testing.T) {
	fixedClock(t)
	tr := New("u1", "m1")
	require.NotEmpty(t, tr.ID)
	assert.Equal(t, StateNotStarted, tr.State)
	assert.Equal(t, 0, tr.Day)
	assert.True(t, tr.CreatedAt.Equal(tr.UpdatedAt), "created and updated should match on a new track")
}

func TestStart(t *testing.T) {
	tr := started(t)
	assert.Equal(t, StateIntro, tr.PreviousState)

	again := Transition(tr, ActionStart)
	assert.False(t, Changed(tr, again), "start on a started track should be a no-op")
}

func TestAdvanceDayPhaseBoundaries(t *testing.T) {
	tr := started(t)
	want := map[int]State{
		2: StateIntro, 3: StateIntro,
		4: StateValues, 7: StateValues,
		8: StateStressTest, 11: StateStressTest,
		12: StateDecision, 14: StateDecision,
	}
	for day := 2; day <= TotalDays; day++ {
		tr = Transition(tr, ActionAdvanceDay)
		require.Equal(t, day, tr.Day)
		if s, ok := want[day]; ok {
			require.Equal(t, s, tr.State, "day %d", day)
		}
	}

	for i := 0; i < 3; i++ {
		tr = Transition(tr, ActionAdvanceDay)
	}
	assert.Equal(t, TotalDays, tr.Day, "day must stop at the last day")
	assert.Equal(t, StateDecision, tr.State)
}

func TestPhaseFirstReachedOnExactDay(t *testing.T) {
	tr := started(t)
	firstSeen := map[State]int{tr.State: tr.Day}
	for tr.Day < TotalDays {
		tr = Transition(tr, ActionAdvanceDay)
		if _, ok := firstSeen[tr.State]; !ok {
			firstSeen[tr.State] = tr.Day
		}
	}
	assert.Equal(t, 4, firstSeen[StateValues])
	assert.Equal(t, 8, firstSeen[StateStressTest])
	assert.Equal(t, 12, firstSeen[StateDecision])
}

func TestPauseResumeRestoresState(t *testing.T) {
	tr := started(t)
	for i := 0; i < 4; i++ {
		tr = Transition(tr, ActionAdvanceDay)
	}
	tr = Transition(tr, ActionCompleteReflection)
	before := tr

	paused := Transition(tr, ActionPause)
	require.Equal(t, StatePaused, paused.State)
	assert.Equal(t, StateValues, paused.PreviousState)

	resumed := Transition(paused, ActionResume)
	assert.Equal(t, before.State, resumed.State)
	assert.Equal(t, before.Day, resumed.Day)
	assert.Equal(t, before.ReflectionCount, resumed.ReflectionCount)
}

func TestActionsWhilePausedAreDropped(t *testing.T) {
	tr := Transition(started(t), ActionPause)
	for _, a := range []Action{ActionStart, ActionPause, ActionCompleteReflection, ActionAdvanceDay, ActionFinish} {
		next := Transition(tr, a)
		assert.False(t, Changed(tr, next), "%s while paused changed the track", a)
	}
}

func TestPauseBeforeStart(t *testing.T) {
	tr := Transition(New("u1", "m1"), ActionPause)
	assert.Equal(t, StatePaused, tr.State)
	assert.Equal(t, StateIntro, tr.PreviousState)

	tr = Transition(tr, ActionResume)
	assert.Equal(t, StateIntro, tr.State)
}

func TestResumeWithoutPreviousStateUsesDay(t *testing.T) {
	tr := DecisionTrack{State: StatePaused, Day: 9}
	tr = Transition(tr, ActionResume)
	assert.Equal(t, StateStressTest, tr.State)
}

func TestNotStartedIgnoresActiveActions(t *testing.T) {
	tr := New("u1", "m1")
	for _, a := range []Action{ActionResume, ActionCompleteReflection, ActionAdvanceDay, ActionFinish} {
		next := Transition(tr, a)
		assert.False(t, Changed(tr, next), "%s on not_started changed the track", a)
	}
}

func TestFinish(t *testing.T) {
	tr := started(t)
	early := Transition(tr, ActionFinish)
	assert.False(t, Changed(tr, early), "finish before day 14 should be a no-op")

	for tr.Day < TotalDays {
		tr = Transition(tr, ActionAdvanceDay)
	}
	tr = Transition(tr, ActionFinish)
	require.Equal(t, StateCompleted, tr.State)

	for _, a := range []Action{ActionStart, ActionPause, ActionResume, ActionCompleteReflection, ActionAdvanceDay, ActionFinish} {
		next := Transition(tr, a)
		assert.False(t, Changed(tr, next), "%s after completion changed the track", a)
	}
}

func TestCompleteReflection(t *testing.T) {
	tr := started(t)
	tr = Transition(tr, ActionCompleteReflection)
	tr = Transition(tr, ActionCompleteReflection)
	assert.Equal(t, 2, tr.ReflectionCount)
	assert.Equal(t, StateIntro, tr.State, "reflection must not change phase")
	assert.Equal(t, 1, tr.Day)
}

func TestTransitionBumpsUpdatedAt(t *testing.T) {
	fixedClock(t)
	tr := New("u1", "m1")
	next := Transition(tr, ActionFinish)
	assert.True(t, next.UpdatedAt.After(tr.UpdatedAt), "expected updatedAt bump on no-op")
	assert.True(t, next.CreatedAt.Equal(tr.CreatedAt), "createdAt must not change")
}

func TestPromptForDay(t *testing.T) {
	assert.Equal(t, PromptForDay(1), PromptForDay(0), "day 0 clamps to day 1")
	assert.Equal(t, PromptForDay(14), PromptForDay(99), "day 99 clamps to day 14")
	assert.Equal(t, dailyPrompts[0], PromptForDay(-5), "negative day clamps to day 1")

	seen := make(map[string]bool)
	for d := 1; d <= TotalDays; d++ {
		p := PromptForDay(d)
		require.NotEmpty(t, p, "day %d", d)
		require.False(t, seen[p], "day %d prompt duplicated", d)
		seen[p] = true
	}
}

func TestParseAction(t *testing.T) {
	a, ok := ParseAction("advance_day")
	require.True(t, ok)
	assert.Equal(t, ActionAdvanceDay, a)

	_, ok = ParseAction("skip_ahead")
	assert.False(t, ok, "unknown action should not parse")
}
