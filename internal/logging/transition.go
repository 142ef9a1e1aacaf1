package logging

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/danielpatrickdp/pairing-engine/internal/track"
)

// #region entry-for
// EntryFor builds the log entry for applying action to before, producing after.
func EntryFor(action track.Action, before, after track.DecisionTrack) TransitionEntry {
	return TransitionEntry{
		TrackID:   before.ID,
		Action:    string(action),
		FromState: string(before.State),
		ToState:   string(after.State),
		FromDay:   before.Day,
		ToDay:     after.Day,
		Applied:   track.Changed(before, after),
		CreatedAt: after.UpdatedAt,
	}
}
// #endregion entry-for

// #region log-transition
// LogTransition writes a transition entry to the track_log table.
func LogTransition(db *sql.DB, entry TransitionEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if entry.TrackID == "" || entry.Action == "" {
		return fmt.Errorf("log transition: track id and action are required")
	}

	_, err := db.Exec(
		`INSERT INTO track_log (track_id, action, from_state, to_state, from_day, to_day, applied, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.TrackID,
		entry.Action,
		entry.FromState,
		entry.ToState,
		entry.FromDay,
		entry.ToDay,
		boolToInt(entry.Applied),
		entry.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log transition: %w", err)
	}
	return nil
}
// #endregion log-transition

// #region list-transitions
// ListTransitions returns a track's log in the order it was written.
func ListTransitions(db *sql.DB, trackID string) ([]TransitionEntry, error) {
	rows, err := db.Query(
		`SELECT id, track_id, action, from_state, to_state, from_day, to_day, applied, created_at
		 FROM track_log WHERE track_id = ? ORDER BY id`, trackID)
	if err != nil {
		return nil, fmt.Errorf("list transitions: %w", err)
	}
	defer rows.Close()

	var out []TransitionEntry
	for rows.Next() {
		var e TransitionEntry
		var applied int
		var createdStr string
		if err := rows.Scan(&e.ID, &e.TrackID, &e.Action, &e.FromState, &e.ToState, &e.FromDay, &e.ToDay, &applied, &createdStr); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		e.Applied = applied != 0
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		out = append(out, e)
	}
	return out, rows.Err()
}
// #endregion list-transitions

// #region helpers
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
// #endregion helpers

// #region db-logger
// DBLogger writes transition entries to a database holding the track_log table.
type DBLogger struct {
	db *sql.DB
}

// NewDBLogger wraps db.
func NewDBLogger(db *sql.DB) *DBLogger {
	return &DBLogger{db: db}
}

// LogTransition implements the service's transition logger.
func (l *DBLogger) LogTransition(entry TransitionEntry) error {
	return LogTransition(l.db, entry)
}
// #endregion db-logger
