// Package service composes the repositories with the scoring engines and the
// decision-track state machine.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/danielpatrickdp/pairing-engine/internal/compat"
	"github.com/danielpatrickdp/pairing-engine/internal/config"
	"github.com/danielpatrickdp/pairing-engine/internal/learning"
	"github.com/danielpatrickdp/pairing-engine/internal/logging"
	"github.com/danielpatrickdp/pairing-engine/internal/profile"
	"github.com/danielpatrickdp/pairing-engine/internal/ranking"
	"github.com/danielpatrickdp/pairing-engine/internal/report"
	"github.com/danielpatrickdp/pairing-engine/internal/store"
	"github.com/danielpatrickdp/pairing-engine/internal/track"
)

// timeNow is a package-level variable for testability.
var timeNow = time.Now

// #region service-struct

// Service is the entry point for callers that hold user ids rather than
// loaded records.
type Service struct {
	repo        store.Repository
	transitions TransitionLogger
	scorer      *ranking.Scorer
	learner     *learning.Learner
	parallelism int
	logger      *slog.Logger
}

// #endregion service-struct

// #region constructor

// New wires a service. transitions may be nil, in which case track actions are
// not audited. A nil logger falls back to slog.Default().
func New(cfg config.Config, repo store.Repository, transitions TransitionLogger, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:        repo,
		transitions: transitions,
		scorer:      ranking.NewScorer(cfg.FilterConfig(), cfg.Ranking.Weights),
		learner:     learning.NewLearner(cfg.Learning),
		parallelism: cfg.Ranking.Parallelism,
		logger:      logger,
	}
}

// #endregion constructor

// #region tracks

// StartTrack creates a track for a matched pair and starts it at day 1.
func (s *Service) StartTrack(ctx context.Context, userID, matchID string) (ActionResult, error) {
	if userID == "" || matchID == "" {
		return ActionResult{}, errors.New("start track: user id and match id are required")
	}
	created, err := s.repo.CreateTrack(ctx, track.New(userID, matchID))
	if err != nil {
		return ActionResult{}, fmt.Errorf("start track: %w", err)
	}
	s.logger.Info("track created", "track_id", created.ID, "user_id", userID, "match_id", matchID)
	return s.ApplyAction(ctx, created.ID, track.ActionStart)
}

// ApplyAction loads a track, applies action and saves the result. No-op
// actions are still saved so UpdatedAt moves. A concurrent writer surfaces as
// store.ErrVersionConflict and nothing is written.
func (s *Service) ApplyAction(ctx context.Context, trackID string, action track.Action) (ActionResult, error) {
	if _, ok := track.ParseAction(string(action)); !ok {
		return ActionResult{}, fmt.Errorf("apply action: unknown action %q", action)
	}

	before, err := s.repo.GetTrack(ctx, trackID)
	if err != nil {
		return ActionResult{}, fmt.Errorf("apply action: %w", err)
	}

	next := track.Transition(before, action)
	saved, err := s.repo.SaveTrack(ctx, next)
	if err != nil {
		if errors.Is(err, store.ErrVersionConflict) {
			s.logger.Warn("track version conflict", "track_id", trackID, "action", action, "version", before.Version)
		}
		return ActionResult{}, fmt.Errorf("apply action: %w", err)
	}

	entry := logging.EntryFor(action, before, saved)
	if s.transitions != nil {
		if err := s.transitions.LogTransition(entry); err != nil {
			// the save already landed; a missing audit row is not fatal
			s.logger.Error("transition log failed", "track_id", trackID, "error", err)
		}
	}

	s.logger.Debug("track action",
		"track_id", trackID,
		"action", action,
		"applied", entry.Applied,
		"from", before.State,
		"to", saved.State,
		"day", saved.Day,
	)

	return ActionResult{
		Track:   saved,
		Applied: entry.Applied,
		Prompt:  track.PromptForDay(saved.Day),
	}, nil
}

// TodayPrompt returns the prompt for the track's current day.
func (s *Service) TodayPrompt(ctx context.Context, trackID string) (string, error) {
	t, err := s.repo.GetTrack(ctx, trackID)
	if err != nil {
		return "", fmt.Errorf("today prompt: %w", err)
	}
	return track.PromptForDay(t.Day), nil
}

// #endregion tracks

// #region learning

// RecordOutcome stores that user was shown candidate and whether they
// messaged them. Both score directions are stored with the row.
func (s *Service) RecordOutcome(ctx context.Context, user, candidate profile.CompatibilityProfile, messaged bool) error {
	if err := profile.Validate(candidate); err != nil {
		return fmt.Errorf("record outcome: candidate %s: %w", candidate.UserID, err)
	}
	user, candidate = profile.Derive(user), profile.Derive(candidate)
	forward, reverse := compat.ComputeBoth(user, candidate)

	err := s.repo.RecordOutcome(ctx, store.Outcome{
		UserID:       user.UserID,
		Candidate:    candidate,
		Messaged:     messaged,
		ScoreForward: forward.Score,
		ScoreReverse: reverse.Score,
		CreatedAt:    timeNow().UTC(),
	})
	if err != nil {
		return fmt.Errorf("record outcome: %w", err)
	}
	return nil
}

// RefreshPreferences recomputes revealed preferences from the user's full
// outcome history and stores them.
func (s *Service) RefreshPreferences(ctx context.Context, stated profile.CompatibilityProfile) (learning.RevealedPreferences, error) {
	rows, err := s.repo.ListOutcomes(ctx, stated.UserID)
	if err != nil {
		return learning.RevealedPreferences{}, fmt.Errorf("refresh preferences: %w", err)
	}
	prefs := s.learner.ComputeRevealedPreferences(stated, rows, timeNow())
	if err := s.repo.PutPreferences(ctx, prefs); err != nil {
		return learning.RevealedPreferences{}, fmt.Errorf("refresh preferences: %w", err)
	}
	s.logger.Info("preferences refreshed",
		"user_id", stated.UserID,
		"sample_size", prefs.SampleSize,
		"ignored", prefs.IgnoredCount,
		"insights", len(prefs.StatedVsRevealed),
	)
	return prefs, nil
}

// UpdateWeights validates and stores a user's match weights.
func (s *Service) UpdateWeights(ctx context.Context, userID string, w learning.UserMatchWeights) error {
	if userID == "" {
		return errors.New("update weights: user id is required")
	}
	if err := w.Validate(); err != nil {
		return fmt.Errorf("update weights: %w", err)
	}
	if err := s.repo.PutWeights(ctx, userID, w); err != nil {
		return fmt.Errorf("update weights: %w", err)
	}
	return nil
}

// #endregion learning

// #region scoring

// ScoreCandidates scores each candidate for current using the user's weights
// and revealed preferences, best first. Candidates that fail validation are
// skipped.
func (s *Service) ScoreCandidates(ctx context.Context, current profile.CompatibilityProfile, candidates []profile.CompatibilityProfile) ([]ScoredCandidate, error) {
	weights, err := s.repo.GetWeights(ctx, current.UserID)
	if err != nil {
		return nil, fmt.Errorf("score candidates: %w", err)
	}
	prefs, err := s.repo.GetPreferences(ctx, current.UserID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("score candidates: %w", err)
	}

	current = profile.Derive(current)
	out := make([]ScoredCandidate, 0, len(candidates))
	skipped := 0
	for _, c := range candidates {
		if err := profile.Validate(c); err != nil {
			skipped++
			continue
		}
		c = profile.Derive(c)
		score := s.learner.ScoreWithLearning(current, c, prefs, weights)
		base := compat.Compute(current, c)
		out = append(out, ScoredCandidate{
			CandidateID: c.UserID,
			Score:       score,
			Tier:        compat.TierFor(score),
			Notes:       base.Notes,
			Warnings:    base.Warnings,
			Report:      report.Generate(&current, &c, c.UserID, score),
		})
	}
	if skipped > 0 {
		s.logger.Warn("skipped invalid candidates", "user_id", current.UserID, "count", skipped)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].CandidateID < out[j].CandidateID
	})
	return out, nil
}

// RankCandidates ranks an onboarding pool and stores the run as a snapshot.
func (s *Service) RankCandidates(ctx context.Context, current ranking.OnboardingProfile, candidates []ranking.OnboardingProfile, cal *ranking.Calibration) (store.RankingSnapshot, error) {
	results, err := s.scorer.Rank(ctx, current, candidates, cal, s.parallelism)
	if err != nil {
		return store.RankingSnapshot{}, fmt.Errorf("rank candidates: %w", err)
	}

	snap := store.RankingSnapshot{
		ID:        uuid.New().String(),
		UserID:    current.UserID,
		Results:   results,
		CreatedAt: timeNow().UTC(),
	}
	if err := s.repo.SaveSnapshot(ctx, snap); err != nil {
		return store.RankingSnapshot{}, fmt.Errorf("rank candidates: %w", err)
	}

	passed := 0
	for _, r := range results {
		if r.HardFilterPass {
			passed++
		}
	}
	s.logger.Info("pool ranked", "user_id", current.UserID, "snapshot_id", snap.ID, "candidates", len(results), "passed", passed)
	return snap, nil
}

// #endregion scoring
