// Package learning infers revealed preferences from who a user actually
// messages and folds them, together with the user's own weights, back into
// pairwise scores.
package learning

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/danielpatrickdp/pairing-engine/internal/compat"
	"github.com/danielpatrickdp/pairing-engine/internal/profile"
)

// #region learner

// Learner computes revealed preferences and learning-adjusted scores.
type Learner struct {
	config Config
}

// NewLearner creates a learner with the given thresholds.
func NewLearner(config Config) *Learner {
	return &Learner{config: config}
}

var defaultLearner = NewLearner(DefaultConfig())

// ComputeRevealedPreferences uses the stock thresholds.
func ComputeRevealedPreferences(stated profile.CompatibilityProfile, rows []OutcomeRow, now time.Time) RevealedPreferences {
	return defaultLearner.ComputeRevealedPreferences(stated, rows, now)
}

// ScoreWithLearning uses the stock thresholds.
func ScoreWithLearning(current, candidate profile.CompatibilityProfile, revealed RevealedPreferences, weights UserMatchWeights) int {
	return defaultLearner.ScoreWithLearning(current, candidate, revealed, weights)
}

// #endregion learner

// #region compute-revealed

// ComputeRevealedPreferences compares the stated profile with the candidates
// the user messaged. Insights are only emitted once enough messaged samples
// exist; the numeric deltas are always reported.
func (l *Learner) ComputeRevealedPreferences(stated profile.CompatibilityProfile, rows []OutcomeRow, now time.Time) RevealedPreferences {
	var messaged []profile.CompatibilityProfile
	ignored := 0
	for _, r := range rows {
		if r.Messaged {
			messaged = append(messaged, r.Candidate)
		} else {
			ignored++
		}
	}
	n := len(messaged)

	var opennessDelta, conflictDelta, meanOpenness, meanConflict float64
	visions := make([]profile.Vision, 0, n)
	energies := make([]profile.LifestyleEnergy, 0, n)
	if n > 0 {
		for _, c := range messaged {
			meanOpenness += float64(c.EmotionalOpenness)
			meanConflict += float64(c.ConflictSpeed)
			visions = append(visions, c.RelationshipVision)
			if c.LifestyleEnergy != "" {
				energies = append(energies, c.LifestyleEnergy)
			}
		}
		meanOpenness /= float64(n)
		meanConflict /= float64(n)
		opennessDelta = meanOpenness - float64(stated.EmotionalOpenness)
		conflictDelta = meanConflict - float64(stated.ConflictSpeed)
	}

	rankedVisions := rankByFrequency(visions)
	rankedEnergies := rankByFrequency(energies)

	numericConf := math.Min(float64(n)/l.config.NumericConfidenceSamples, 1)
	categoricalConf := math.Min(float64(n)/l.config.CategoricalConfidenceSamples, 1)

	insights := []Insight{}
	if n >= l.config.MinNumericSamples {
		if math.Abs(opennessDelta) > l.config.NumericDivergence {
			insights = append(insights, Insight{
				Axis:          AxisEmotionalOpenness,
				StatedValue:   float64(stated.EmotionalOpenness),
				RevealedValue: meanOpenness,
				Confidence:    numericConf,
				Message:       fmt.Sprintf("You said %d for emotional openness, but the people you message average %.1f.", stated.EmotionalOpenness, meanOpenness),
			})
		}
		if math.Abs(conflictDelta) > l.config.NumericDivergence {
			insights = append(insights, Insight{
				Axis:          AxisConflictSpeed,
				StatedValue:   float64(stated.ConflictSpeed),
				RevealedValue: meanConflict,
				Confidence:    numericConf,
				Message:       fmt.Sprintf("You said %d for conflict pace, but the people you message average %.1f.", stated.ConflictSpeed, meanConflict),
			})
		}
	}
	if n >= l.config.MinCategoricalSamples {
		if len(rankedVisions) > 0 && rankedVisions[0] != stated.RelationshipVision {
			insights = append(insights, Insight{
				Axis:       AxisRelationshipVision,
				Stated:     string(stated.RelationshipVision),
				Revealed:   string(rankedVisions[0]),
				Confidence: categoricalConf,
				Message:    fmt.Sprintf("You described a %s relationship, but you mostly message people looking for %s.", stated.RelationshipVision, rankedVisions[0]),
			})
		}
		if len(rankedEnergies) > 0 && rankedEnergies[0] != stated.LifestyleEnergy {
			insights = append(insights, Insight{
				Axis:       AxisLifestyleEnergy,
				Stated:     string(stated.LifestyleEnergy),
				Revealed:   string(rankedEnergies[0]),
				Confidence: categoricalConf,
				Message:    fmt.Sprintf("You mostly message people with %s energy.", rankedEnergies[0]),
			})
		}
	}

	return RevealedPreferences{
		UserID: stated.UserID,
		LearnedWeights: LearnedWeights{
			OpennessDelta:      opennessDelta,
			ConflictSpeedDelta: conflictDelta,
			RevealedVisions:    rankedVisions,
			RevealedLifestyles: rankedEnergies,
		},
		StatedVsRevealed: insights,
		SampleSize:       n,
		IgnoredCount:     ignored,
		LastUpdated:      now.UTC(),
	}
}

// #endregion compute-revealed

// #region score-with-learning

const (
	attachmentRange = 30.0
	conflictRange   = 25.0
	visionRange     = 15.0
	dimensionScale  = 10.0
	expressionScale = 1.0 // expression sub-score already spans 0-10
	lifestyleScale  = 5.0 // identical energies only

	opennessBoost  = 10.0
	visionBoost    = 12.0
	lifestyleBoost = 6.0
)

// ScoreWithLearning starts from the directional pairwise score and applies
// the user's weight offsets, then boosts candidates who fit revealed
// preferences the user has shown with enough confidence.
func (l *Learner) ScoreWithLearning(current, candidate profile.CompatibilityProfile, revealed RevealedPreferences, weights UserMatchWeights) int {
	base := compat.Compute(current, candidate)
	d := base.Dimensions
	def := DefaultWeights()

	score := float64(base.Score)
	score += (weights.Attachment - def.Attachment) * (d.Attachment / attachmentRange) * dimensionScale
	score += (weights.Conflict - def.Conflict) * (d.Conflict / conflictRange) * dimensionScale
	score += (weights.Vision - def.Vision) * (d.Vision / visionRange) * dimensionScale
	score += (weights.Expression - def.Expression) * d.Expression * expressionScale
	if current.LifestyleEnergy != "" && current.LifestyleEnergy == candidate.LifestyleEnergy {
		score += (weights.Lifestyle - def.Lifestyle) * lifestyleScale
	}

	if revealed.SampleSize >= l.config.MinSampleForScoring {
		for _, in := range revealed.StatedVsRevealed {
			if in.Confidence < l.config.MinConfidenceForScoring {
				continue
			}
			switch in.Axis {
			case AxisEmotionalOpenness:
				c := float64(candidate.EmotionalOpenness)
				if math.Abs(c-in.RevealedValue) < math.Abs(c-in.StatedValue) {
					score += opennessBoost * in.Confidence
				}
			case AxisRelationshipVision:
				if string(candidate.RelationshipVision) == in.Revealed {
					score += visionBoost * in.Confidence
				}
			case AxisLifestyleEnergy:
				if candidate.LifestyleEnergy != "" && string(candidate.LifestyleEnergy) == in.Revealed {
					score += lifestyleBoost * in.Confidence
				}
			}
		}
	}

	return int(math.Round(math.Max(0, math.Min(100, score))))
}

// #endregion score-with-learning

// #region helpers

// rankByFrequency orders distinct values by count, most frequent first.
// Ties keep first-seen order.
func rankByFrequency[T comparable](vals []T) []T {
	counts := make(map[T]int, len(vals))
	order := make([]T, 0, len(vals))
	for _, v := range vals {
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	return order
}

// #endregion helpers
