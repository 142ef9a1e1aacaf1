package compat

// #region tier

// Tier buckets a compatibility score for display.
type Tier string

const (
	TierStrong   Tier = "strong"
	TierGood     Tier = "good"
	TierPossible Tier = "possible"
	TierLow      Tier = "low"
)

// TierFor maps a 0-100 score to its tier.
func TierFor(score int) Tier {
	switch {
	case score >= 78:
		return TierStrong
	case score >= 60:
		return TierGood
	case score >= 42:
		return TierPossible
	default:
		return TierLow
	}
}

// #endregion tier

// #region result

// Dimensions are per-dimension sub-scores reconstructed from the same
// intermediate values that fed the total.
type Dimensions struct {
	Attachment float64 `json:"attachment"`
	Conflict   float64 `json:"conflict"`
	Vision     float64 `json:"vision"`
	Expression float64 `json:"expression"`
	// Growth is always 10. Kept for output shape compatibility; the growth
	// adjustments are not reflected here.
	Growth float64 `json:"growth"`
}

// Result is a directional pairwise compatibility assessment.
type Result struct {
	Score      int        `json:"score"`
	Tier       Tier       `json:"tier"`
	Dimensions Dimensions `json:"dimensions"`
	Notes      []string   `json:"notes"`
	Warnings   []string   `json:"warnings"`
}

const (
	maxNotes    = 3
	maxWarnings = 2
)

// #endregion result
