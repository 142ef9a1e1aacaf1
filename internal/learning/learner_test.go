package learning

import (
	"errors"
	"testing"
	"time"

	"github.com/danielpatrickdp/pairing-engine/internal/compat"
	"github.com/danielpatrickdp/pairing-engine/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func makeProfile(id string) profile.CompatibilityProfile {
	return profile.CompatibilityProfile{
		UserID:             id,
		PastAttribution:    profile.AttributionSelf,
		ConflictSpeed:      3,
		SupportNeed:        profile.SupportPresence,
		EmotionalOpenness:  3,
		RelationshipVision: profile.VisionFriendship,
		GrowthIntention:    profile.GrowthPeace,
		AttachmentAxis:     profile.AxisSecure,
	}
}

func messagedRows(n int, edit func(i int, p *profile.CompatibilityProfile)) []OutcomeRow {
	rows := make([]OutcomeRow, 0, n)
	for i := 0; i < n; i++ {
		p := makeProfile("c")
		edit(i, &p)
		rows = append(rows, OutcomeRow{Candidate: p, Messaged: true})
	}
	return rows
}

func TestRevealedNoNumericInsightBelowFiveSamples(t *testing.T) {
	stated := makeProfile("me")
	stated.EmotionalOpenness = 1
	rows := messagedRows(4, func(_ int, p *profile.CompatibilityProfile) { p.EmotionalOpenness = 5 })

	rp := ComputeRevealedPreferences(stated, rows, fixedNow)

	assert.Empty(t, rp.StatedVsRevealed)
	assert.Equal(t, 4.0, rp.LearnedWeights.OpennessDelta)
	assert.Equal(t, 4, rp.SampleSize)
}

func TestRevealedNumericInsight(t *testing.T) {
	stated := makeProfile("me")
	stated.EmotionalOpenness = 1
	rows := messagedRows(5, func(_ int, p *profile.CompatibilityProfile) { p.EmotionalOpenness = 5 })
	rows = append(rows, OutcomeRow{Candidate: makeProfile("x"), Messaged: false})

	rp := ComputeRevealedPreferences(stated, rows, fixedNow)

	in, ok := rp.Insight(AxisEmotionalOpenness)
	require.True(t, ok)
	assert.Equal(t, 5.0, in.RevealedValue)
	assert.Equal(t, 1.0, in.StatedValue)
	assert.InDelta(t, 0.25, in.Confidence, 1e-9)
	assert.Equal(t, 1, rp.IgnoredCount)
	assert.Equal(t, fixedNow, rp.LastUpdated)

	_, ok = rp.Insight(AxisConflictSpeed)
	assert.False(t, ok, "conflict speed matches stated")
}

func TestRevealedSmallDivergenceNotEmitted(t *testing.T) {
	stated := makeProfile("me")
	rows := messagedRows(10, func(_ int, p *profile.CompatibilityProfile) { p.EmotionalOpenness = 4 })

	rp := ComputeRevealedPreferences(stated, rows, fixedNow)
	assert.Empty(t, rp.StatedVsRevealed)
	assert.Equal(t, 1.0, rp.LearnedWeights.OpennessDelta)
}

func TestRevealedNoMessagedCandidates(t *testing.T) {
	rows := []OutcomeRow{{Candidate: makeProfile("a")}, {Candidate: makeProfile("b")}}

	rp := ComputeRevealedPreferences(makeProfile("me"), rows, fixedNow)

	assert.Equal(t, 0, rp.SampleSize)
	assert.Equal(t, 2, rp.IgnoredCount)
	assert.Equal(t, 0.0, rp.LearnedWeights.OpennessDelta)
	assert.Equal(t, 0.0, rp.LearnedWeights.ConflictSpeedDelta)
	assert.Empty(t, rp.LearnedWeights.RevealedVisions)
}

func TestRevealedCategoricalInsight(t *testing.T) {
	stated := makeProfile("me")
	rows := messagedRows(8, func(i int, p *profile.CompatibilityProfile) {
		if i < 3 {
			p.RelationshipVision = profile.VisionSafe
		} else {
			p.RelationshipVision = profile.VisionAdventure
		}
		p.LifestyleEnergy = profile.EnergySocial
	})

	rp := ComputeRevealedPreferences(stated, rows, fixedNow)

	assert.Equal(t, []profile.Vision{profile.VisionAdventure, profile.VisionSafe}, rp.LearnedWeights.RevealedVisions)
	in, ok := rp.Insight(AxisRelationshipVision)
	require.True(t, ok)
	assert.Equal(t, "adventure", in.Revealed)
	assert.InDelta(t, 0.32, in.Confidence, 1e-9)

	life, ok := rp.Insight(AxisLifestyleEnergy)
	require.True(t, ok)
	assert.Equal(t, "social", life.Revealed)

	rp = ComputeRevealedPreferences(stated, rows[:7], fixedNow)
	_, ok = rp.Insight(AxisRelationshipVision)
	assert.False(t, ok, "seven samples are not enough")
}

func TestRankByFrequencyKeepsFirstSeenOnTies(t *testing.T) {
	got := rankByFrequency([]string{"b", "a", "a", "b", "c"})
	assert.Equal(t, []string{"b", "a", "c"}, got)
}

func TestScoreWithLearningNeutral(t *testing.T) {
	a, b := makeProfile("a"), makeProfile("b")
	b.RelationshipVision = profile.VisionAdventure
	b.EmotionalOpenness = 1

	got := ScoreWithLearning(a, b, RevealedPreferences{}, DefaultWeights())
	assert.Equal(t, compat.Compute(a, b).Score, got)
}

// lowScoringPair keeps the base score away from the clamp.
func lowScoringPair() (profile.CompatibilityProfile, profile.CompatibilityProfile) {
	a, b := makeProfile("a"), makeProfile("b")
	a.RelationshipVision = profile.VisionIndependent
	a.SupportNeed = profile.SupportValidation
	a.EmotionalOpenness = 5
	b.RelationshipVision = profile.VisionAdventure
	b.SupportNeed = profile.SupportPractical
	b.EmotionalOpenness = 1
	return a, b
}

func TestScoreWithLearningVisionBoost(t *testing.T) {
	a, b := lowScoringPair()
	base := compat.Compute(a, b).Score
	revealed := RevealedPreferences{
		SampleSize: 25,
		StatedVsRevealed: []Insight{
			{Axis: AxisRelationshipVision, Stated: "independent", Revealed: "adventure", Confidence: 1},
		},
	}

	assert.Equal(t, base+12, ScoreWithLearning(a, b, revealed, DefaultWeights()))

	revealed.StatedVsRevealed[0].Confidence = 0.2
	assert.Equal(t, base, ScoreWithLearning(a, b, revealed, DefaultWeights()), "low confidence is ignored")

	revealed.StatedVsRevealed[0].Confidence = 1
	revealed.SampleSize = 4
	assert.Equal(t, base, ScoreWithLearning(a, b, revealed, DefaultWeights()), "small samples are ignored")
}

func TestScoreWithLearningOpennessBoost(t *testing.T) {
	a, b := lowScoringPair()
	base := compat.Compute(a, b).Score
	revealed := RevealedPreferences{
		SampleSize: 10,
		StatedVsRevealed: []Insight{
			{Axis: AxisEmotionalOpenness, StatedValue: 5, RevealedValue: 1.5, Confidence: 0.5},
		},
	}
	assert.Equal(t, base+5, ScoreWithLearning(a, b, revealed, DefaultWeights()))

	b.EmotionalOpenness = 5
	base = compat.Compute(a, b).Score
	assert.Equal(t, base, ScoreWithLearning(a, b, revealed, DefaultWeights()))
}

func TestScoreWithLearningWeightOffsets(t *testing.T) {
	a, b := lowScoringPair()
	b.EmotionalOpenness = 5 // attachment sub-score 30
	a.ConflictSpeed, b.ConflictSpeed = 1, 5
	base := compat.Compute(a, b).Score

	w := DefaultWeights()
	w.Attachment = 2
	assert.Equal(t, base+10, ScoreWithLearning(a, b, RevealedPreferences{}, w))

	w = DefaultWeights()
	w.Attachment = 0
	assert.Equal(t, base-10, ScoreWithLearning(a, b, RevealedPreferences{}, w))
}

func TestRevealedInsightEmission(t *testing.T) {
	cases := []struct {
		name    string
		samples int
		stated  func(p *profile.CompatibilityProfile)
		edit    func(i int, p *profile.CompatibilityProfile)
		axis    Axis
		want    bool
	}{
		{
			name:    "conflict speed divergence",
			samples: 5,
			stated:  func(p *profile.CompatibilityProfile) { p.ConflictSpeed = 1 },
			edit:    func(_ int, p *profile.CompatibilityProfile) { p.ConflictSpeed = 5 },
			axis:    AxisConflictSpeed,
			want:    true,
		},
		{
			name:    "conflict speed under five samples",
			samples: 4,
			stated:  func(p *profile.CompatibilityProfile) { p.ConflictSpeed = 1 },
			edit:    func(_ int, p *profile.CompatibilityProfile) { p.ConflictSpeed = 5 },
			axis:    AxisConflictSpeed,
			want:    false,
		},
		{
			name:    "lifestyle energy at eight samples",
			samples: 8,
			stated:  func(p *profile.CompatibilityProfile) { p.LifestyleEnergy = profile.EnergyIntrospective },
			edit:    func(_ int, p *profile.CompatibilityProfile) { p.LifestyleEnergy = profile.EnergySocial },
			axis:    AxisLifestyleEnergy,
			want:    true,
		},
		{
			name:    "lifestyle energy at seven samples",
			samples: 7,
			stated:  func(p *profile.CompatibilityProfile) { p.LifestyleEnergy = profile.EnergyIntrospective },
			edit:    func(_ int, p *profile.CompatibilityProfile) { p.LifestyleEnergy = profile.EnergySocial },
			axis:    AxisLifestyleEnergy,
			want:    false,
		},
		{
			name:    "lifestyle energy matching stated",
			samples: 10,
			stated:  func(p *profile.CompatibilityProfile) { p.LifestyleEnergy = profile.EnergySocial },
			edit:    func(_ int, p *profile.CompatibilityProfile) { p.LifestyleEnergy = profile.EnergySocial },
			axis:    AxisLifestyleEnergy,
			want:    false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stated := makeProfile("me")
			tc.stated(&stated)
			rp := ComputeRevealedPreferences(stated, messagedRows(tc.samples, tc.edit), fixedNow)

			in, ok := rp.Insight(tc.axis)
			require.Equal(t, tc.want, ok)
			if !ok {
				return
			}
			switch tc.axis {
			case AxisConflictSpeed:
				assert.Equal(t, 1.0, in.StatedValue)
				assert.Equal(t, 5.0, in.RevealedValue)
				assert.InDelta(t, 0.25, in.Confidence, 1e-9)
				assert.Equal(t, 4.0, rp.LearnedWeights.ConflictSpeedDelta)
			case AxisLifestyleEnergy:
				assert.Equal(t, "introspective", in.Stated)
				assert.Equal(t, "social", in.Revealed)
				assert.InDelta(t, 0.32, in.Confidence, 1e-9)
			}
		})
	}
}

var spontaneousInsight = Insight{Axis: AxisLifestyleEnergy, Stated: "introspective", Revealed: "spontaneous", Confidence: 0.5}

func withInsight(in Insight) RevealedPreferences {
	return RevealedPreferences{SampleSize: 10, StatedVsRevealed: []Insight{in}}
}

func TestScoreWithLearningAdjustments(t *testing.T) {
	weights := func(edit func(w *UserMatchWeights)) UserMatchWeights {
		w := DefaultWeights()
		edit(&w)
		return w
	}
	noChange := func(w *UserMatchWeights) {}

	cases := []struct {
		name     string
		pair     func(a, b *profile.CompatibilityProfile)
		weights  UserMatchWeights
		revealed RevealedPreferences
		delta    int
	}{
		{
			name: "lifestyle weight up on identical energy",
			pair: func(a, b *profile.CompatibilityProfile) {
				a.LifestyleEnergy, b.LifestyleEnergy = profile.EnergySocial, profile.EnergySocial
			},
			weights: weights(func(w *UserMatchWeights) { w.Lifestyle = 1.5 }),
			delta:   5,
		},
		{
			name: "lifestyle weight at max on identical energy",
			pair: func(a, b *profile.CompatibilityProfile) {
				a.LifestyleEnergy, b.LifestyleEnergy = profile.EnergySocial, profile.EnergySocial
			},
			weights: weights(func(w *UserMatchWeights) { w.Lifestyle = 2.5 }),
			delta:   10,
		},
		{
			name: "lifestyle weight ignored for compatible energies",
			pair: func(a, b *profile.CompatibilityProfile) {
				a.LifestyleEnergy, b.LifestyleEnergy = profile.EnergySocial, profile.EnergySpontaneous
			},
			weights: weights(func(w *UserMatchWeights) { w.Lifestyle = 1.5 }),
			delta:   0,
		},
		{
			name: "lifestyle weight ignored when energy unset",
			pair: func(a, b *profile.CompatibilityProfile) {
				b.LifestyleEnergy = profile.EnergySocial
			},
			weights: weights(func(w *UserMatchWeights) { w.Lifestyle = 1.5 }),
			delta:   0,
		},
		{
			name: "expression weight up with two shared modes",
			pair: func(a, b *profile.CompatibilityProfile) {
				a.LoveExpressions = []profile.LoveExpression{profile.ExpressionWords, profile.ExpressionTime}
				b.LoveExpressions = []profile.LoveExpression{profile.ExpressionTime, profile.ExpressionWords}
			},
			weights: weights(func(w *UserMatchWeights) { w.Expression = 1.8 }),
			delta:   10,
		},
		{
			name: "expression weight down with two shared modes",
			pair: func(a, b *profile.CompatibilityProfile) {
				a.LoveExpressions = []profile.LoveExpression{profile.ExpressionWords, profile.ExpressionTime}
				b.LoveExpressions = []profile.LoveExpression{profile.ExpressionTime, profile.ExpressionWords}
			},
			weights: weights(func(w *UserMatchWeights) { w.Expression = 0.3 }),
			delta:   -5,
		},
		{
			name: "expression weight with nothing shared",
			pair: func(a, b *profile.CompatibilityProfile) {
				a.LoveExpressions = []profile.LoveExpression{profile.ExpressionWords}
				b.LoveExpressions = []profile.LoveExpression{profile.ExpressionGifts}
			},
			weights: weights(func(w *UserMatchWeights) { w.Expression = 1.8 }),
			delta:   0,
		},
		{
			name: "lifestyle insight boost",
			pair: func(a, b *profile.CompatibilityProfile) {
				b.LifestyleEnergy = profile.EnergySpontaneous
			},
			weights:  weights(noChange),
			revealed: withInsight(spontaneousInsight),
			delta:    3,
		},
		{
			name: "lifestyle insight for another energy",
			pair: func(a, b *profile.CompatibilityProfile) {
				b.LifestyleEnergy = profile.EnergySocial
			},
			weights:  weights(noChange),
			revealed: withInsight(spontaneousInsight),
			delta:    0,
		},
		{
			name: "conflict insight carries no boost",
			pair: func(a, b *profile.CompatibilityProfile) {
				b.ConflictSpeed = 5
			},
			weights:  weights(noChange),
			revealed: withInsight(Insight{Axis: AxisConflictSpeed, StatedValue: 3, RevealedValue: 5, Confidence: 0.5}),
			delta:    0,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a, b := lowScoringPair()
			tc.pair(&a, &b)
			base := compat.Compute(a, b).Score
			require.Less(t, base, 85)

			got := ScoreWithLearning(a, b, tc.revealed, tc.weights)
			assert.Equal(t, base+tc.delta, got)
		})
	}
}

func TestWeightsValidate(t *testing.T) {
	require.NoError(t, DefaultWeights().Validate())

	w := DefaultWeights()
	w.Vision = -1
	err := w.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidWeights))

	w = DefaultWeights()
	w.Lifestyle = 3.5
	assert.Error(t, w.Validate())
}
