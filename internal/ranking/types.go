package ranking

// #region intent

// Intent is what a user says they are looking for.
type Intent string

const (
	IntentMarriageMinded Intent = "marriage_minded"
	IntentLongTerm       Intent = "long_term"
	IntentExploring      Intent = "exploring"
	IntentUnsure         Intent = "unsure"
)

// #endregion intent

// #region onboarding-profile

// Tendencies are 0-100 self-report scores.
type Tendencies struct {
	Anxiety             float64 `json:"anxiety"`
	Avoidance           float64 `json:"avoidance"`
	ConflictRepair      float64 `json:"conflict_repair"`
	EmotionalRegulation float64 `json:"emotional_regulation"`
}

// Personality holds five 0-100 trait scores.
type Personality struct {
	Openness          float64 `json:"openness"`
	Conscientiousness float64 `json:"conscientiousness"`
	Extraversion      float64 `json:"extraversion"`
	Agreeableness     float64 `json:"agreeableness"`
	Neuroticism       float64 `json:"neuroticism"`
}

// OnboardingProfile is the bulk-ranking shape, separate from the
// compatibility profile used for pairwise scoring.
type OnboardingProfile struct {
	UserID         string  `json:"user_id"`
	Intent         Intent  `json:"intent"`
	TimelineMonths float64 `json:"timeline_months"` // months until wanting commitment
	Readiness      float64 `json:"readiness"`       // 1-5
	WeeklyCapacity float64 `json:"weekly_capacity"` // evenings per week, 0-7
	Location       string  `json:"location"`

	Tendencies        Tendencies  `json:"tendencies"`
	Personality       Personality `json:"personality"`
	NoveltyPreference float64     `json:"novelty_preference"`
}

// #endregion onboarding-profile

// #region weights

// Weights scale each component in the total. They are expected to sum to
// about 1 and are not renormalized.
type Weights struct {
	Intent             float64 `json:"intent" yaml:"intent"`
	Lifestyle          float64 `json:"lifestyle" yaml:"lifestyle"`
	Attachment         float64 `json:"attachment" yaml:"attachment"`
	ConflictRegulation float64 `json:"conflict_regulation" yaml:"conflict_regulation"`
	Personality        float64 `json:"personality" yaml:"personality"`
	Novelty            float64 `json:"novelty" yaml:"novelty"`
}

// DefaultWeights returns the stock component weights.
func DefaultWeights() Weights {
	return Weights{
		Intent:             0.25,
		Lifestyle:          0.2,
		Attachment:         0.15,
		ConflictRegulation: 0.2,
		Personality:        0.15,
		Novelty:            0.05,
	}
}

// Calibration carries per-user overrides. A nil Calibration or nil Weights
// means defaults.
type Calibration struct {
	Weights *Weights `json:"weights,omitempty"`
}

// #endregion weights

// #region filter-config

// FilterConfig holds hard-filter thresholds.
type FilterConfig struct {
	MaxTimelineGapMonths float64
}

// DefaultFilterConfig returns the stock thresholds.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{MaxTimelineGapMonths: 18}
}

// #endregion filter-config

// #region match-result

// Component names used as keys in ComponentScores.
const (
	ComponentIntent             = "intent"
	ComponentLifestyle          = "lifestyle"
	ComponentAttachment         = "attachment"
	ComponentConflictRegulation = "conflictRegulation"
	ComponentPersonality        = "personality"
	ComponentNovelty            = "novelty"
)

// ComponentScores are six independent 0-100 sub-scores.
type ComponentScores struct {
	Intent             float64 `json:"intent"`
	Lifestyle          float64 `json:"lifestyle"`
	Attachment         float64 `json:"attachment"`
	ConflictRegulation float64 `json:"conflictRegulation"`
	Personality        float64 `json:"personality"`
	Novelty            float64 `json:"novelty"`
}

// FitReason is a labeled component score used in explanations.
type FitReason struct {
	Component string  `json:"component"`
	Label     string  `json:"label"`
	Score     float64 `json:"score"`
}

// MatchResult is the ranking output for one candidate.
type MatchResult struct {
	CandidateID             string          `json:"candidate_id"`
	TotalScore              float64         `json:"total_score"`
	HardFilterPass          bool            `json:"hard_filter_pass"`
	Reasons                 []string        `json:"reasons,omitempty"`
	ComponentScores         ComponentScores `json:"component_scores"`
	TopFitReasons           []FitReason     `json:"top_fit_reasons"`
	PotentialFrictionPoints []FitReason     `json:"potential_friction_points"`
	ConversationPrompts     []string        `json:"conversation_prompts"`
}

// #endregion match-result
