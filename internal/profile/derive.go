package profile

import "math"

// #region derive

// Derive returns a copy of p with AttachmentAxis and ReadinessScore recomputed
// from the self-report fields. Any derived values already on p are discarded.
func Derive(p CompatibilityProfile) CompatibilityProfile {
	out := p
	out.AttachmentAxis = DeriveAttachmentAxis(p)
	out.ReadinessScore = DeriveReadinessScore(p)
	return out
}

// #endregion derive

// #region attachment-axis

// DeriveAttachmentAxis scores avoidant and anxious signals independently and
// resolves them with an ordered chain. Avoidant checks run first, so a profile
// that meets both thresholds is labeled avoidant.
func DeriveAttachmentAxis(p CompatibilityProfile) AttachmentAxis {
	avoidant := 0
	if p.EmotionalOpenness >= 4 {
		avoidant += 2
	}
	if p.SupportNeed == SupportSpace {
		avoidant++
	}
	if p.SupportNeed == SupportDistraction {
		avoidant++
	}
	if p.PastAttribution == AttributionExternal {
		avoidant++
	}
	if p.ConflictSpeed >= 4 {
		avoidant++
	}

	anxious := 0
	if p.EmotionalOpenness <= 2 {
		anxious += 2
	}
	if p.SupportNeed == SupportValidation {
		anxious++
	}
	if p.GrowthIntention == GrowthChosen {
		anxious += 2
	}
	if p.ConflictSpeed <= 2 {
		anxious++
	}

	if avoidant >= 4 {
		return AxisAvoidant
	} else if avoidant == 3 {
		return AxisAvoidantLean
	} else if anxious >= 4 {
		return AxisAnxious
	} else if anxious == 3 {
		return AxisAnxiousLean
	}
	return AxisSecure
}

// #endregion attachment-axis

// #region readiness-score

const readinessBase = 55.0

// DeriveReadinessScore returns a 0-100 readiness estimate.
func DeriveReadinessScore(p CompatibilityProfile) int {
	score := readinessBase

	if len(p.RelationalStrengths) >= 1 {
		score += 15
	}
	if len(p.RelationalStrengths) == 2 {
		score += 10
	}

	switch p.PastAttribution {
	case AttributionMisalignedGoals, AttributionConflictComm:
		score += 8
	}

	switch p.GrowthIntention {
	case GrowthAlignment, GrowthDepth:
		score += 8
	}

	// Wanting to feel chosen while guarded.
	if p.GrowthIntention == GrowthChosen && p.EmotionalOpenness >= 4 {
		score -= 8
	}

	return int(math.Round(clamp(score, 0, 100)))
}

// #endregion readiness-score

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
