package ranking

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"
)

// #region rank

// Rank scores every candidate against current, at most parallelism at a
// time, and orders the results: passing candidates by total descending, then
// filtered candidates. Ties keep candidate id order.
func (s *Scorer) Rank(ctx context.Context, current OnboardingProfile, candidates []OnboardingProfile, cal *Calibration, parallelism int) ([]MatchResult, error) {
	results := make([]MatchResult, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	if parallelism > 0 {
		g.SetLimit(parallelism)
	}
	for i, cand := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.Score(current, cand, cal)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.HardFilterPass != b.HardFilterPass {
			return a.HardFilterPass
		}
		if a.TotalScore != b.TotalScore {
			return a.TotalScore > b.TotalScore
		}
		return a.CandidateID < b.CandidateID
	})
	return results, nil
}

// RankPool ranks with the stock scorer.
func RankPool(ctx context.Context, current OnboardingProfile, candidates []OnboardingProfile, cal *Calibration, parallelism int) ([]MatchResult, error) {
	return defaultScorer.Rank(ctx, current, candidates, cal, parallelism)
}

// #endregion rank
