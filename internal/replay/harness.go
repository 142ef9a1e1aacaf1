package replay

import (
	"fmt"

	"github.com/danielpatrickdp/pairing-engine/internal/logging"
	"github.com/danielpatrickdp/pairing-engine/internal/track"
)

// #region types
// ReplayResult captures the track after one replayed action.
type ReplayResult struct {
	Step            int
	Action          track.Action
	State           track.State
	Day             int
	ReflectionCount int
	Applied         bool
}

// ReplaySummary provides aggregate stats from a replay run.
type ReplaySummary struct {
	TotalSteps  int
	Applied     int
	NoOps       int
	FinalState  track.State
	FinalDay    int
	Reflections int
}

// Divergence is a logged transition the state machine no longer reproduces.
type Divergence struct {
	Step     int
	Action   string
	Expected string
	Replayed string
}

// #endregion types

// #region replay
// Replay applies actions to start in order. It operates entirely in memory.
func Replay(start track.DecisionTrack, actions []track.Action) []ReplayResult {
	current := start
	results := make([]ReplayResult, 0, len(actions))
	for i, a := range actions {
		next := track.Transition(current, a)
		results = append(results, ReplayResult{
			Step:            i + 1,
			Action:          a,
			State:           next.State,
			Day:             next.Day,
			ReflectionCount: next.ReflectionCount,
			Applied:         track.Changed(current, next),
		})
		current = next
	}
	return results
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []ReplayResult) ReplaySummary {
	s := ReplaySummary{
		TotalSteps: len(results),
		FinalState: track.StateNotStarted,
	}
	for _, r := range results {
		if r.Applied {
			s.Applied++
		} else {
			s.NoOps++
		}
	}
	if n := len(results); n > 0 {
		last := results[n-1]
		s.FinalState, s.FinalDay, s.Reflections = last.State, last.Day, last.ReflectionCount
	}
	return s
}

// #endregion replay

// #region verify-log
// ActionsFromLog extracts the action sequence from a track's transition log.
func ActionsFromLog(entries []logging.TransitionEntry) ([]track.Action, error) {
	actions := make([]track.Action, 0, len(entries))
	for i, e := range entries {
		a, ok := track.ParseAction(e.Action)
		if !ok {
			return nil, fmt.Errorf("entry %d: unknown action %q", i+1, e.Action)
		}
		actions = append(actions, a)
	}
	return actions, nil
}

// VerifyLog replays a track's log from a fresh not-started track and reports
// every entry whose recorded outcome differs from the replayed one.
func VerifyLog(entries []logging.TransitionEntry) ([]Divergence, error) {
	actions, err := ActionsFromLog(entries)
	if err != nil {
		return nil, err
	}
	results := Replay(track.DecisionTrack{State: track.StateNotStarted}, actions)

	var out []Divergence
	for i, e := range entries {
		r := results[i]
		exp := describe(track.State(e.ToState), e.ToDay, e.Applied)
		got := describe(r.State, r.Day, r.Applied)
		if exp != got {
			out = append(out, Divergence{Step: i + 1, Action: e.Action, Expected: exp, Replayed: got})
		}
	}
	return out, nil
}

func describe(s track.State, day int, applied bool) string {
	if applied {
		return fmt.Sprintf("%s/d%d", s, day)
	}
	return fmt.Sprintf("%s/d%d (no-op)", s, day)
}

// #endregion verify-log
