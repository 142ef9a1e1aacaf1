// Package ranking scores onboarding profiles against a pool of candidates for
// discovery. It is independent of the pairwise compat scorer.
package ranking

import (
	"math"
	"sort"
)

// #region scorer

// Scorer combines hard filters with weighted component scores.
type Scorer struct {
	filter   *Filter
	defaults Weights
}

// NewScorer creates a scorer. defaults apply when a calibration carries no weights.
func NewScorer(filterConfig FilterConfig, defaults Weights) *Scorer {
	return &Scorer{filter: NewFilter(filterConfig), defaults: defaults}
}

var defaultScorer = NewScorer(DefaultFilterConfig(), DefaultWeights())

// ScoreCompatibility scores candidate for current with the stock scorer.
func ScoreCompatibility(current, candidate OnboardingProfile, cal *Calibration) MatchResult {
	return defaultScorer.Score(current, candidate, cal)
}

// Score computes a MatchResult. Component scores are always filled in, even
// when a hard filter fails and the total is forced to 0.
func (s *Scorer) Score(current, candidate OnboardingProfile, cal *Calibration) MatchResult {
	pass, reasons := s.filter.Evaluate(current, candidate)

	comps := ComponentScores{
		Intent:             intentScore(current, candidate),
		Lifestyle:          lifestyleScore(current, candidate),
		Attachment:         avg(similarity(current.Tendencies.Anxiety, candidate.Tendencies.Anxiety), similarity(current.Tendencies.Avoidance, candidate.Tendencies.Avoidance)),
		ConflictRegulation: avg(similarity(current.Tendencies.ConflictRepair, candidate.Tendencies.ConflictRepair), similarity(current.Tendencies.EmotionalRegulation, candidate.Tendencies.EmotionalRegulation)),
		Personality:        personalityScore(current.Personality, candidate.Personality),
		Novelty:            similarity(current.NoveltyPreference, candidate.NoveltyPreference),
	}

	w := s.defaults
	if cal != nil && cal.Weights != nil {
		w = *cal.Weights
	}

	total := 0.0
	if pass {
		total = comps.Intent*w.Intent +
			comps.Lifestyle*w.Lifestyle +
			comps.Attachment*w.Attachment +
			comps.ConflictRegulation*w.ConflictRegulation +
			comps.Personality*w.Personality +
			comps.Novelty*w.Novelty
		total = math.Round(total*10) / 10
	}

	top, bottom := explain(comps)
	prompts := make([]string, 0, len(bottom))
	for _, f := range bottom {
		prompts = append(prompts, conversationPrompts[f.Component])
	}

	return MatchResult{
		CandidateID:             candidate.UserID,
		TotalScore:              total,
		HardFilterPass:          pass,
		Reasons:                 reasons,
		ComponentScores:         comps,
		TopFitReasons:           top,
		PotentialFrictionPoints: bottom,
		ConversationPrompts:     prompts,
	}
}

// #endregion scorer

// #region components

const (
	timelineScale  = 3.0
	readinessScale = 20.0
	capacityScale  = 15.0
	locationMatch  = 100.0
	locationMiss   = 40.0
	intentMatch    = 100.0
	intentNear     = 70.0
	intentMiss     = 40.0
)

func intentScore(a, b OnboardingProfile) float64 {
	label := intentMiss
	switch {
	case a.Intent == b.Intent:
		label = intentMatch
	case isSeriousIntent(a.Intent) && isSeriousIntent(b.Intent):
		label = intentNear
	}
	timeline := scaledSimilarity(a.TimelineMonths, b.TimelineMonths, timelineScale)
	readiness := scaledSimilarity(a.Readiness, b.Readiness, readinessScale)
	return avg(label, timeline, readiness)
}

func isSeriousIntent(i Intent) bool {
	return i == IntentMarriageMinded || i == IntentLongTerm
}

func lifestyleScore(a, b OnboardingProfile) float64 {
	capacity := scaledSimilarity(a.WeeklyCapacity, b.WeeklyCapacity, capacityScale)
	location := locationMiss
	if a.Location != "" && a.Location == b.Location {
		location = locationMatch
	}
	return avg(capacity, location)
}

func personalityScore(a, b Personality) float64 {
	return avg(
		similarity(a.Openness, b.Openness),
		similarity(a.Conscientiousness, b.Conscientiousness),
		similarity(a.Extraversion, b.Extraversion),
		similarity(a.Agreeableness, b.Agreeableness),
		similarity(a.Neuroticism, b.Neuroticism),
	)
}

// #endregion components

// #region explain

var componentOrder = []string{
	ComponentIntent,
	ComponentLifestyle,
	ComponentAttachment,
	ComponentConflictRegulation,
	ComponentPersonality,
	ComponentNovelty,
}

var componentLabels = map[string]string{
	ComponentIntent:             "Relationship intent",
	ComponentLifestyle:          "Lifestyle and availability",
	ComponentAttachment:         "Attachment style",
	ComponentConflictRegulation: "Conflict and regulation",
	ComponentPersonality:        "Personality",
	ComponentNovelty:            "Appetite for novelty",
}

var conversationPrompts = map[string]string{
	ComponentIntent:             "What does commitment look like for you over the next year?",
	ComponentLifestyle:          "What does a realistic week with a partner look like for you?",
	ComponentAttachment:         "When you feel unsure about someone, what helps you feel secure?",
	ComponentConflictRegulation: "How do you like to repair after a disagreement?",
	ComponentPersonality:        "What's something about how you recharge that people often misread?",
	ComponentNovelty:            "How much new do you want in a typical month, and how much routine?",
}

func (c ComponentScores) byName() map[string]float64 {
	return map[string]float64{
		ComponentIntent:             c.Intent,
		ComponentLifestyle:          c.Lifestyle,
		ComponentAttachment:         c.Attachment,
		ComponentConflictRegulation: c.ConflictRegulation,
		ComponentPersonality:        c.Personality,
		ComponentNovelty:            c.Novelty,
	}
}

// explain returns the three highest components and the two lowest (lowest first).
func explain(c ComponentScores) (top, bottom []FitReason) {
	scores := c.byName()
	ranked := make([]FitReason, 0, len(componentOrder))
	for _, name := range componentOrder {
		ranked = append(ranked, FitReason{Component: name, Label: componentLabels[name], Score: scores[name]})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	top = append([]FitReason(nil), ranked[:3]...)
	bottom = []FitReason{ranked[len(ranked)-1], ranked[len(ranked)-2]}
	return top, bottom
}

// #endregion explain

// #region helpers

// similarity is 100 minus the absolute gap, clamped to [0,100].
func similarity(a, b float64) float64 {
	return clamp(100-math.Abs(a-b), 0, 100)
}

func scaledSimilarity(a, b, scale float64) float64 {
	return clamp(100-math.Abs(a-b)*scale, 0, 100)
}

func avg(vals ...float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// #endregion helpers
