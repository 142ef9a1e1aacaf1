package learning

import (
	"errors"
	"fmt"
	"time"

	"github.com/danielpatrickdp/pairing-engine/internal/profile"
)

// #region weights

// ErrInvalidWeights is returned when a weight is outside the accepted range.
var ErrInvalidWeights = errors.New("invalid match weights")

const maxWeight = 3.0

// UserMatchWeights are per-user multipliers on pairwise dimensions.
type UserMatchWeights struct {
	Attachment float64 `json:"attachment"`
	Conflict   float64 `json:"conflict"`
	Vision     float64 `json:"vision"`
	Expression float64 `json:"expression"`
	Lifestyle  float64 `json:"lifestyle"`
}

// DefaultWeights returns the neutral weights; scoring with them applies no
// weight adjustment.
func DefaultWeights() UserMatchWeights {
	return UserMatchWeights{
		Attachment: 1,
		Conflict:   1,
		Vision:     1,
		Expression: 0.8,
		Lifestyle:  0.5,
	}
}

// Validate checks that every weight is within [0, 3].
func (w UserMatchWeights) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"attachment", w.Attachment},
		{"conflict", w.Conflict},
		{"vision", w.Vision},
		{"expression", w.Expression},
		{"lifestyle", w.Lifestyle},
	}
	for _, f := range fields {
		if f.v < 0 || f.v > maxWeight {
			return fmt.Errorf("%w: %s=%.2f not in [0, %.0f]", ErrInvalidWeights, f.name, f.v, maxWeight)
		}
	}
	return nil
}

// #endregion weights

// #region outcomes

// OutcomeRow is one candidate shown to a user and whether they messaged them.
type OutcomeRow struct {
	Candidate profile.CompatibilityProfile `json:"candidate"`
	Messaged  bool                         `json:"messaged"`
}

// #endregion outcomes

// #region insight

// Axis names a preference dimension that can diverge.
type Axis string

const (
	AxisEmotionalOpenness  Axis = "emotional_openness"
	AxisConflictSpeed      Axis = "conflict_speed"
	AxisRelationshipVision Axis = "relationship_vision"
	AxisLifestyleEnergy    Axis = "lifestyle_energy"
)

// Insight records a divergence between what a user said and who they messaged.
// Numeric axes fill StatedValue/RevealedValue; categorical axes fill
// Stated/Revealed.
type Insight struct {
	Axis          Axis    `json:"axis"`
	Stated        string  `json:"stated,omitempty"`
	Revealed      string  `json:"revealed,omitempty"`
	StatedValue   float64 `json:"stated_value,omitempty"`
	RevealedValue float64 `json:"revealed_value,omitempty"`
	Confidence    float64 `json:"confidence"`
	Message       string  `json:"message"`
}

// #endregion insight

// #region revealed-preferences

// LearnedWeights holds diagnostics derived from messaged candidates.
type LearnedWeights struct {
	OpennessDelta      float64                   `json:"openness_delta"`
	ConflictSpeedDelta float64                   `json:"conflict_speed_delta"`
	RevealedVisions    []profile.Vision          `json:"revealed_visions"`
	RevealedLifestyles []profile.LifestyleEnergy `json:"revealed_lifestyles"`
}

// RevealedPreferences is recomputed from outcome history on demand.
// SampleSize counts messaged candidates.
type RevealedPreferences struct {
	UserID           string         `json:"user_id"`
	LearnedWeights   LearnedWeights `json:"learned_weights"`
	StatedVsRevealed []Insight      `json:"stated_vs_revealed"`
	SampleSize       int            `json:"sample_size"`
	IgnoredCount     int            `json:"ignored_count"`
	LastUpdated      time.Time      `json:"last_updated"`
}

// Insight returns the emitted insight for axis, if any.
func (r RevealedPreferences) Insight(axis Axis) (Insight, bool) {
	for _, in := range r.StatedVsRevealed {
		if in.Axis == axis {
			return in, true
		}
	}
	return Insight{}, false
}

// #endregion revealed-preferences

// #region config

// Config holds the learner's thresholds.
type Config struct {
	NumericConfidenceSamples     float64 `yaml:"numeric_confidence_samples"`     // messaged count for full numeric confidence
	CategoricalConfidenceSamples float64 `yaml:"categorical_confidence_samples"` // messaged count for full categorical confidence
	MinNumericSamples            int     `yaml:"min_numeric_samples"`
	MinCategoricalSamples        int     `yaml:"min_categorical_samples"`
	NumericDivergence            float64 `yaml:"numeric_divergence"` // |revealed - stated| must exceed this
	MinSampleForScoring          int     `yaml:"min_sample_for_scoring"`
	MinConfidenceForScoring      float64 `yaml:"min_confidence_for_scoring"`
}

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{
		NumericConfidenceSamples:     20,
		CategoricalConfidenceSamples: 25,
		MinNumericSamples:            5,
		MinCategoricalSamples:        8,
		NumericDivergence:            1.2,
		MinSampleForScoring:          5,
		MinConfidenceForScoring:      0.3,
	}
}

// #endregion config
