// Package store persists decision tracks, per-user weights, revealed
// preferences, match outcomes and ranking snapshots.
//
// The scoring packages are pure; this package is the collaborator that loads
// their inputs and stores their outputs. Repositories are interfaces so the
// service can run against SQLite or the in-memory implementation.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/danielpatrickdp/pairing-engine/internal/learning"
	"github.com/danielpatrickdp/pairing-engine/internal/profile"
	"github.com/danielpatrickdp/pairing-engine/internal/ranking"
	"github.com/danielpatrickdp/pairing-engine/internal/track"
)

// #region errors

var (
	// ErrNotFound is returned when a keyed record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrVersionConflict is returned when a track was modified since it was loaded.
	ErrVersionConflict = errors.New("version conflict")
)

// #endregion errors

// #region records

// Outcome is one shown candidate and whether the user messaged them. Both
// score directions are kept since pairwise scoring is directional.
type Outcome struct {
	UserID       string
	Candidate    profile.CompatibilityProfile
	Messaged     bool
	ScoreForward int // user -> candidate
	ScoreReverse int // candidate -> user
	CreatedAt    time.Time
}

// RankingSnapshot is a persisted ranking run.
type RankingSnapshot struct {
	ID        string
	UserID    string
	Results   []ranking.MatchResult
	CreatedAt time.Time
}

// #endregion records

// #region repositories

// TrackRepository stores decision tracks. SaveTrack succeeds only when the
// stored version equals t.Version, and returns the record with the bumped version.
type TrackRepository interface {
	CreateTrack(ctx context.Context, t track.DecisionTrack) (track.DecisionTrack, error)
	GetTrack(ctx context.Context, id string) (track.DecisionTrack, error)
	SaveTrack(ctx context.Context, t track.DecisionTrack) (track.DecisionTrack, error)
	ListTracks(ctx context.Context, userID string) ([]track.DecisionTrack, error)
}

// WeightsRepository stores UserMatchWeights keyed by user. GetWeights returns
// the defaults when the user has none.
type WeightsRepository interface {
	GetWeights(ctx context.Context, userID string) (learning.UserMatchWeights, error)
	PutWeights(ctx context.Context, userID string, w learning.UserMatchWeights) error
}

// PreferencesRepository stores revealed preferences keyed by user.
type PreferencesRepository interface {
	GetPreferences(ctx context.Context, userID string) (learning.RevealedPreferences, error)
	PutPreferences(ctx context.Context, p learning.RevealedPreferences) error
}

// OutcomeRepository stores outcome history. ListOutcomes skips rows whose
// candidate profile no longer parses.
type OutcomeRepository interface {
	RecordOutcome(ctx context.Context, o Outcome) error
	ListOutcomes(ctx context.Context, userID string) ([]learning.OutcomeRow, error)
}

// SnapshotRepository stores ranking snapshots.
type SnapshotRepository interface {
	SaveSnapshot(ctx context.Context, s RankingSnapshot) error
	GetSnapshot(ctx context.Context, id string) (RankingSnapshot, error)
	ListSnapshots(ctx context.Context, userID string, limit int) ([]RankingSnapshot, error)
}

// Repository bundles every repository.
type Repository interface {
	TrackRepository
	WeightsRepository
	PreferencesRepository
	OutcomeRepository
	SnapshotRepository
}

// #endregion repositories
