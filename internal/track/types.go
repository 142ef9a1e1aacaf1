// Package track paces a matched pair through the 14-day decision track.
//
// Transition is a pure function over DecisionTrack values. Persisting the
// result, and making sure two transitions on the same track cannot race, is
// the caller's job (see store.SaveTrack).
package track

import (
	"time"

	"github.com/google/uuid"
)

// #region state

// State is the phase a track is in.
type State string

const (
	StateNotStarted State = "not_started"
	StateIntro      State = "active_intro"       // days 1-3
	StateValues     State = "active_values"      // days 4-7
	StateStressTest State = "active_stress_test" // days 8-11
	StateDecision   State = "active_decision"    // days 12-14
	StatePaused     State = "paused"
	StateCompleted  State = "completed"
)

// IsActive reports whether s is one of the four day-driven phases.
func (s State) IsActive() bool {
	switch s {
	case StateIntro, StateValues, StateStressTest, StateDecision:
		return true
	}
	return false
}

// #endregion state

// #region action

// Action is an event applied to a track.
type Action string

const (
	ActionStart              Action = "start"
	ActionPause              Action = "pause"
	ActionResume             Action = "resume"
	ActionCompleteReflection Action = "complete_reflection"
	ActionAdvanceDay         Action = "advance_day"
	ActionFinish             Action = "finish"
)

// ParseAction validates an action name.
func ParseAction(s string) (Action, bool) {
	switch a := Action(s); a {
	case ActionStart, ActionPause, ActionResume, ActionCompleteReflection, ActionAdvanceDay, ActionFinish:
		return a, true
	}
	return "", false
}

// #endregion action

// #region decision-track

// TotalDays is the length of the track.
const TotalDays = 14

// DecisionTrack is the persisted record for one user's track with a match.
// PreviousState is the active phase to resume into after a pause. Version is
// bumped by the store on every save.
type DecisionTrack struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	MatchID         string    `json:"match_id"`
	State           State     `json:"state"`
	Day             int       `json:"day"`
	ReflectionCount int       `json:"reflection_count"`
	PreviousState   State     `json:"previous_state,omitempty"`
	Version         int       `json:"version"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// New creates a not-started track at day 0.
func New(userID, matchID string) DecisionTrack {
	now := timeNow().UTC()
	return DecisionTrack{
		ID:        uuid.New().String(),
		UserID:    userID,
		MatchID:   matchID,
		State:     StateNotStarted,
		Day:       0,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// #endregion decision-track
