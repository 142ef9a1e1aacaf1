package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/danielpatrickdp/pairing-engine/internal/learning"
	"github.com/danielpatrickdp/pairing-engine/internal/profile"
	"github.com/danielpatrickdp/pairing-engine/internal/ranking"
	"github.com/danielpatrickdp/pairing-engine/internal/track"
	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS decision_tracks (
	id               TEXT PRIMARY KEY,
	user_id          TEXT NOT NULL,
	match_id         TEXT NOT NULL,
	state            TEXT NOT NULL,
	day              INTEGER NOT NULL,
	reflection_count INTEGER NOT NULL DEFAULT 0,
	previous_state   TEXT,
	version          INTEGER NOT NULL DEFAULT 1,
	created_at       TEXT NOT NULL,
	updated_at       TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tracks_user ON decision_tracks(user_id);

CREATE TABLE IF NOT EXISTS track_log (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	track_id    TEXT NOT NULL,
	action      TEXT NOT NULL,
	from_state  TEXT NOT NULL,
	to_state    TEXT NOT NULL,
	from_day    INTEGER NOT NULL,
	to_day      INTEGER NOT NULL,
	applied     INTEGER NOT NULL,
	created_at  TEXT NOT NULL,
	FOREIGN KEY (track_id) REFERENCES decision_tracks(id)
);

CREATE TABLE IF NOT EXISTS match_weights (
	user_id     TEXT PRIMARY KEY,
	weights     TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revealed_preferences (
	user_id      TEXT PRIMARY KEY,
	record       TEXT NOT NULL,
	sample_size  INTEGER NOT NULL,
	updated_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS match_outcomes (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id        TEXT NOT NULL,
	candidate_id   TEXT NOT NULL,
	candidate      TEXT NOT NULL,
	messaged       INTEGER NOT NULL,
	score_forward  INTEGER NOT NULL,
	score_reverse  INTEGER NOT NULL,
	created_at     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_outcomes_user ON match_outcomes(user_id);

CREATE TABLE IF NOT EXISTS ranking_snapshots (
	id          TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL,
	results     TEXT NOT NULL,
	created_at  TEXT NOT NULL
);
`

// #endregion schema

// #region store-struct

// Store implements Repository on SQLite.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor

// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := initDB(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func initDB(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		return fmt.Errorf("pragma busy: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by other packages (e.g. logging).
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion constructor

// #region tracks

// CreateTrack inserts a new track at version 1.
func (s *Store) CreateTrack(ctx context.Context, t track.DecisionTrack) (track.DecisionTrack, error) {
	t.Version = 1
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO decision_tracks (id, user_id, match_id, state, day, reflection_count, previous_state, version, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.MatchID, string(t.State), t.Day, t.ReflectionCount,
		nullIfEmpty(string(t.PreviousState)), t.Version,
		formatTime(t.CreatedAt), formatTime(t.UpdatedAt),
	)
	if err != nil {
		return track.DecisionTrack{}, fmt.Errorf("insert track: %w", err)
	}
	return t, nil
}

// GetTrack loads a track by id.
func (s *Store) GetTrack(ctx context.Context, id string) (track.DecisionTrack, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, match_id, state, day, reflection_count, previous_state, version, created_at, updated_at
		 FROM decision_tracks WHERE id = ?`, id)
	t, err := scanTrack(row)
	if errors.Is(err, sql.ErrNoRows) {
		return track.DecisionTrack{}, fmt.Errorf("track %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return track.DecisionTrack{}, fmt.Errorf("get track %s: %w", id, err)
	}
	return t, nil
}

// SaveTrack writes t if nobody else has saved since t was loaded.
func (s *Store) SaveTrack(ctx context.Context, t track.DecisionTrack) (track.DecisionTrack, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return track.DecisionTrack{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE decision_tracks
		 SET state = ?, day = ?, reflection_count = ?, previous_state = ?, version = version + 1, updated_at = ?
		 WHERE id = ? AND version = ?`,
		string(t.State), t.Day, t.ReflectionCount, nullIfEmpty(string(t.PreviousState)),
		formatTime(t.UpdatedAt), t.ID, t.Version,
	)
	if err != nil {
		return track.DecisionTrack{}, fmt.Errorf("update track: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return track.DecisionTrack{}, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM decision_tracks WHERE id = ?`, t.ID).Scan(&exists); err != nil {
			return track.DecisionTrack{}, fmt.Errorf("check track: %w", err)
		}
		if exists == 0 {
			return track.DecisionTrack{}, fmt.Errorf("track %s: %w", t.ID, ErrNotFound)
		}
		return track.DecisionTrack{}, fmt.Errorf("track %s at version %d: %w", t.ID, t.Version, ErrVersionConflict)
	}
	if err := tx.Commit(); err != nil {
		return track.DecisionTrack{}, fmt.Errorf("commit: %w", err)
	}
	t.Version++
	return t, nil
}

// ListTracks returns a user's tracks, newest first. An empty userID lists all.
func (s *Store) ListTracks(ctx context.Context, userID string) ([]track.DecisionTrack, error) {
	query := `SELECT id, user_id, match_id, state, day, reflection_count, previous_state, version, created_at, updated_at
		 FROM decision_tracks`
	var args []any
	if userID != "" {
		query += ` WHERE user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tracks: %w", err)
	}
	defer rows.Close()

	var out []track.DecisionTrack
	for rows.Next() {
		t, err := scanTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrack(r rowScanner) (track.DecisionTrack, error) {
	var t track.DecisionTrack
	var state, createdStr, updatedStr string
	var prev sql.NullString
	if err := r.Scan(&t.ID, &t.UserID, &t.MatchID, &state, &t.Day, &t.ReflectionCount, &prev, &t.Version, &createdStr, &updatedStr); err != nil {
		return track.DecisionTrack{}, err
	}
	t.State = track.State(state)
	if prev.Valid {
		t.PreviousState = track.State(prev.String)
	}
	t.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	t.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedStr)
	return t, nil
}

// #endregion tracks

// #region weights

// GetWeights returns the stored weights, or the defaults if none are stored.
func (s *Store) GetWeights(ctx context.Context, userID string) (learning.UserMatchWeights, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT weights FROM match_weights WHERE user_id = ?`, userID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return learning.DefaultWeights(), nil
	}
	if err != nil {
		return learning.UserMatchWeights{}, fmt.Errorf("get weights: %w", err)
	}
	var w learning.UserMatchWeights
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return learning.UserMatchWeights{}, fmt.Errorf("unmarshal weights: %w", err)
	}
	return w, nil
}

// PutWeights upserts a user's weights.
func (s *Store) PutWeights(ctx context.Context, userID string, w learning.UserMatchWeights) error {
	raw, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("marshal weights: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO match_weights (user_id, weights, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET weights = excluded.weights, updated_at = excluded.updated_at`,
		userID, string(raw), formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("put weights: %w", err)
	}
	return nil
}

// #endregion weights

// #region preferences

// GetPreferences loads a user's revealed preferences.
func (s *Store) GetPreferences(ctx context.Context, userID string) (learning.RevealedPreferences, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT record FROM revealed_preferences WHERE user_id = ?`, userID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return learning.RevealedPreferences{}, fmt.Errorf("preferences for %s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return learning.RevealedPreferences{}, fmt.Errorf("get preferences: %w", err)
	}
	var p learning.RevealedPreferences
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return learning.RevealedPreferences{}, fmt.Errorf("unmarshal preferences: %w", err)
	}
	return p, nil
}

// PutPreferences upserts a user's revealed preferences.
func (s *Store) PutPreferences(ctx context.Context, p learning.RevealedPreferences) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO revealed_preferences (user_id, record, sample_size, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET record = excluded.record, sample_size = excluded.sample_size, updated_at = excluded.updated_at`,
		p.UserID, string(raw), p.SampleSize, formatTime(p.LastUpdated),
	)
	if err != nil {
		return fmt.Errorf("put preferences: %w", err)
	}
	return nil
}

// #endregion preferences

// #region outcomes

// RecordOutcome appends an outcome row.
func (s *Store) RecordOutcome(ctx context.Context, o Outcome) error {
	raw, err := json.Marshal(o.Candidate)
	if err != nil {
		return fmt.Errorf("marshal candidate: %w", err)
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO match_outcomes (user_id, candidate_id, candidate, messaged, score_forward, score_reverse, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		o.UserID, o.Candidate.UserID, string(raw), boolToInt(o.Messaged), o.ScoreForward, o.ScoreReverse,
		formatTime(o.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("record outcome: %w", err)
	}
	return nil
}

// ListOutcomes returns a user's outcome rows in insertion order.
func (s *Store) ListOutcomes(ctx context.Context, userID string) ([]learning.OutcomeRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT candidate, messaged FROM match_outcomes WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list outcomes: %w", err)
	}
	defer rows.Close()

	var out []learning.OutcomeRow
	for rows.Next() {
		var raw string
		var messaged int
		if err := rows.Scan(&raw, &messaged); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		cand, ok := profile.ParseJSON([]byte(raw))
		if !ok {
			continue
		}
		out = append(out, learning.OutcomeRow{Candidate: cand, Messaged: messaged != 0})
	}
	return out, rows.Err()
}

// #endregion outcomes

// #region snapshots

// SaveSnapshot inserts a ranking snapshot.
func (s *Store) SaveSnapshot(ctx context.Context, snap RankingSnapshot) error {
	raw, err := json.Marshal(snap.Results)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO ranking_snapshots (id, user_id, results, created_at) VALUES (?, ?, ?, ?)`,
		snap.ID, snap.UserID, string(raw), formatTime(snap.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// GetSnapshot loads one ranking snapshot.
func (s *Store) GetSnapshot(ctx context.Context, id string) (RankingSnapshot, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, user_id, results, created_at FROM ranking_snapshots WHERE id = ?`, id)
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RankingSnapshot{}, fmt.Errorf("snapshot %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return RankingSnapshot{}, fmt.Errorf("get snapshot %s: %w", id, err)
	}
	return snap, nil
}

// ListSnapshots returns a user's most recent snapshots.
func (s *Store) ListSnapshots(ctx context.Context, userID string, limit int) ([]RankingSnapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, results, created_at FROM ranking_snapshots
		 WHERE user_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []RankingSnapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

func scanSnapshot(r rowScanner) (RankingSnapshot, error) {
	var snap RankingSnapshot
	var raw, createdStr string
	if err := r.Scan(&snap.ID, &snap.UserID, &raw, &createdStr); err != nil {
		return RankingSnapshot{}, err
	}
	var results []ranking.MatchResult
	if err := json.Unmarshal([]byte(raw), &results); err != nil {
		return RankingSnapshot{}, fmt.Errorf("unmarshal results: %w", err)
	}
	snap.Results = results
	snap.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	return snap, nil
}

// #endregion snapshots

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// timeLayout is fixed width so stored text sorts in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// #endregion helpers
