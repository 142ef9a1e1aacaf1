package track

import "time"

// timeNow is a package-level variable for testability.
var timeNow = time.Now

// #region transition

// Transition applies action to t and returns the new record. Guards are
// checked in order and the first match wins. Anything that matches no guard
// only bumps UpdatedAt; callers can detect that with Changed.
func Transition(t DecisionTrack, action Action) DecisionTrack {
	next := t
	next.UpdatedAt = timeNow().UTC()

	switch {
	case action == ActionStart && t.State == StateNotStarted:
		next.Day = 1
		next.State = StateIntro
		next.PreviousState = StateIntro

	case action == ActionPause && t.State != StatePaused && t.State != StateCompleted:
		if t.State == StateNotStarted {
			next.PreviousState = StateIntro
		} else {
			next.PreviousState = t.State
		}
		next.State = StatePaused

	case action == ActionResume && t.State == StatePaused:
		if t.PreviousState != "" {
			next.State = t.PreviousState
		} else {
			next.State = PhaseByDay(t.Day)
		}

	// Everything below needs an active phase; a paused pair must resume first.
	case t.State == StateCompleted, t.State == StateNotStarted, t.State == StatePaused:

	case action == ActionCompleteReflection:
		next.ReflectionCount++

	case action == ActionAdvanceDay:
		if t.Day < TotalDays {
			next.Day++
		}
		next.State = PhaseByDay(next.Day)

	case action == ActionFinish && t.Day >= TotalDays:
		next.State = StateCompleted
	}

	return next
}

// Changed reports whether a transition did anything besides bump UpdatedAt.
func Changed(before, after DecisionTrack) bool {
	return before.State != after.State ||
		before.Day != after.Day ||
		before.ReflectionCount != after.ReflectionCount ||
		before.PreviousState != after.PreviousState
}

// #endregion transition

// #region phase

// PhaseByDay maps a day number to its active phase.
func PhaseByDay(day int) State {
	switch {
	case day <= 3:
		return StateIntro
	case day <= 7:
		return StateValues
	case day <= 11:
		return StateStressTest
	default:
		return StateDecision
	}
}

// #endregion phase
