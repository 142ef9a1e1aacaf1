package logging

import "time"

// #region transition-entry
// TransitionEntry is a single row in the track_log table. Every action sent
// to a track is logged, including ones the state machine dropped.
type TransitionEntry struct {
	ID        int64     `json:"id"`
	TrackID   string    `json:"track_id"`
	Action    string    `json:"action"`
	FromState string    `json:"from_state"`
	ToState   string    `json:"to_state"`
	FromDay   int       `json:"from_day"`
	ToDay     int       `json:"to_day"`
	Applied   bool      `json:"applied"` // false when the action was a no-op
	CreatedAt time.Time `json:"created_at"`
}
// #endregion transition-entry
