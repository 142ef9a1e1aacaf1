// Package compat scores how well two compatibility profiles fit together.
//
// Compute is directional: growth-intention rules and the strength cross-bonuses
// are evaluated from the first profile's point of view, so Compute(a, b) and
// Compute(b, a) can differ. Use ComputeBoth when a symmetric view is needed.
package compat

import (
	"fmt"
	"math"

	"github.com/danielpatrickdp/pairing-engine/internal/profile"
)

// #region penalty-tables

// opennessPenalty is indexed by openness gap; gaps past the end use the last entry.
var opennessPenalty = []float64{0, 0, 10, 25, 40}

const (
	opennessScale   = 0.75
	opennessCap     = 30.0
	conflictCap     = 25.0
	visionBonusCap  = 15.0
	visionMalusCap  = 25.0
	anxiousAvoidant = 10.0
)

var conflictPenalty = []float64{0, 0, 5, 15, 30}

func tableLookup(table []float64, gap int) float64 {
	if gap >= len(table) {
		return table[len(table)-1]
	}
	return table[gap]
}

// #endregion penalty-tables

// #region vision-table

type visionPair struct{ a, b profile.Vision }

// visionDelta is asymmetric: how a's vision receives b's.
var visionDelta = map[visionPair]float64{
	{profile.VisionIndependent, profile.VisionEnmeshed}:   -20,
	{profile.VisionIndependent, profile.VisionFriendship}: 5,
	{profile.VisionIndependent, profile.VisionSafe}:       -5,
	{profile.VisionIndependent, profile.VisionAdventure}:  8,

	{profile.VisionEnmeshed, profile.VisionIndependent}: -15,
	{profile.VisionEnmeshed, profile.VisionFriendship}:  0,
	{profile.VisionEnmeshed, profile.VisionSafe}:        8,
	{profile.VisionEnmeshed, profile.VisionAdventure}:   -8,

	{profile.VisionFriendship, profile.VisionIndependent}: 5,
	{profile.VisionFriendship, profile.VisionEnmeshed}:    3,
	{profile.VisionFriendship, profile.VisionSafe}:        10,
	{profile.VisionFriendship, profile.VisionAdventure}:   5,

	{profile.VisionSafe, profile.VisionIndependent}: -8,
	{profile.VisionSafe, profile.VisionEnmeshed}:    10,
	{profile.VisionSafe, profile.VisionFriendship}:  10,
	{profile.VisionSafe, profile.VisionAdventure}:   -12,

	{profile.VisionAdventure, profile.VisionIndependent}: 10,
	{profile.VisionAdventure, profile.VisionEnmeshed}:    -10,
	{profile.VisionAdventure, profile.VisionFriendship}:  5,
	{profile.VisionAdventure, profile.VisionSafe}:        -10,
}

const sameVisionDelta = 15.0

// VisionDelta returns the raw table delta for a's vision meeting b's.
func VisionDelta(a, b profile.Vision) float64 {
	if a == b {
		return sameVisionDelta
	}
	return visionDelta[visionPair{a, b}]
}

// #endregion vision-table

// #region support-table

type supportPair struct{ a, b profile.SupportNeed }

var compatibleSupport = map[supportPair]bool{
	{profile.SupportSpace, profile.SupportDistraction}:     true,
	{profile.SupportDistraction, profile.SupportSpace}:     true,
	{profile.SupportValidation, profile.SupportPresence}:   true,
	{profile.SupportPresence, profile.SupportValidation}:   true,
	{profile.SupportPractical, profile.SupportDistraction}: true,
	{profile.SupportDistraction, profile.SupportPractical}: true,
}

var clashingSupport = map[supportPair]bool{
	{profile.SupportValidation, profile.SupportPractical}: true,
	{profile.SupportPractical, profile.SupportValidation}: true,
	{profile.SupportValidation, profile.SupportSpace}:     true,
	{profile.SupportSpace, profile.SupportValidation}:     true,
}

// #endregion support-table

// #region lifestyle-table

type energyPair struct{ a, b profile.LifestyleEnergy }

var compatibleEnergy = map[energyPair]bool{
	{profile.EnergyIntrospective, profile.EnergyIntellectual}: true,
	{profile.EnergyIntellectual, profile.EnergyIntrospective}: true,
	{profile.EnergyHighEnergy, profile.EnergySpontaneous}:     true,
	{profile.EnergySpontaneous, profile.EnergyHighEnergy}:     true,
	{profile.EnergySocial, profile.EnergySpontaneous}:         true,
	{profile.EnergySpontaneous, profile.EnergySocial}:         true,
}

// #endregion lifestyle-table

// #region compute

// Compute scores b as a partner for a.
func Compute(a, b profile.CompatibilityProfile) Result {
	score := 100.0
	var notes, warnings []string

	// Emotional openness
	opennessGap := absInt(a.EmotionalOpenness - b.EmotionalOpenness)
	opennessCost := math.Min(tableLookup(opennessPenalty, opennessGap)*opennessScale, opennessCap)
	score -= opennessCost
	if opennessGap <= 1 {
		notes = append(notes, "You're aligned on how quickly you open up emotionally.")
	}
	if opennessGap >= 4 {
		warnings = append(warnings, "You differ a lot in emotional depth; one of you may feel exposed while the other feels shut out.")
	}

	if a.AttachmentAxis == profile.AxisAnxious && b.AttachmentAxis == profile.AxisAvoidant {
		score -= anxiousAvoidant
		warnings = append(warnings, "Anxious and avoidant patterns can pull against each other under stress.")
	}

	// Conflict speed
	conflictGap := absInt(a.ConflictSpeed - b.ConflictSpeed)
	conflictCost := math.Min(tableLookup(conflictPenalty, conflictGap), conflictCap)
	score -= conflictCost
	if conflictGap <= 1 {
		notes = append(notes, "You're aligned on how fast you like to work through conflict.")
	}
	if conflictGap >= 3 {
		warnings = append(warnings, "One of you needs space before resolving conflict while the other wants to resolve it right away.")
	}

	// Relationship vision
	rawVision := VisionDelta(a.RelationshipVision, b.RelationshipVision)
	visionScore := 0.0
	if rawVision >= 0 {
		visionScore = math.Min(rawVision, visionBonusCap)
		score += visionScore
	} else {
		visionScore = -math.Min(-rawVision, visionMalusCap)
		score += visionScore
		warnings = append(warnings, fmt.Sprintf("Your relationship visions (%s vs %s) point in different directions.", a.RelationshipVision, b.RelationshipVision))
	}
	if a.RelationshipVision == b.RelationshipVision {
		notes = append(notes, fmt.Sprintf("You're aligned on wanting a %s relationship.", a.RelationshipVision))
	}

	// Love expressions
	shared := sharedExpressions(a.LoveExpressions, b.LoveExpressions)
	switch {
	case shared >= 2:
		score += 10
	case shared == 1:
		score += 4
	}

	// Support needs
	sp := supportPair{a.SupportNeed, b.SupportNeed}
	switch {
	case a.SupportNeed == b.SupportNeed, compatibleSupport[sp]:
	case clashingSupport[sp]:
		score -= 15
		warnings = append(warnings, "What one of you needs under stress may feel unhelpful to the other.")
	default:
		score -= 5
	}

	// Growth intention, from a's side only
	switch a.GrowthIntention {
	case profile.GrowthDepth:
		if b.EmotionalOpenness <= 2 {
			score += 10
		} else if b.EmotionalOpenness >= 4 {
			score -= 10
		}
	case profile.GrowthChosen:
		if b.HasStrength(profile.StrengthConsistency) || b.HasStrength(profile.StrengthLoyalty) {
			score += 8
			notes = append(notes, "Their steadiness speaks to your wish to feel chosen.")
		}
		if b.AttachmentAxis == profile.AxisAvoidant {
			score -= 15
		}
	case profile.GrowthAlignment:
		if a.RelationshipVision == b.RelationshipVision {
			notes = append(notes, "You both want the same direction, which is what you're looking for.")
		}
	case profile.GrowthPeace:
		if conflictGap >= 3 {
			score -= 10
		}
	}

	// Cross bonuses
	if b.HasStrength(profile.StrengthJoy) && a.RelationshipVision == profile.VisionSafe {
		score += 5
	}
	if b.HasStrength(profile.StrengthSupport) && a.RelationshipVision == profile.VisionAdventure {
		score += 5
	}
	if b.HasStrength(profile.StrengthHonesty) && a.GrowthIntention == profile.GrowthDepth {
		score += 5
	}

	// Lifestyle energy
	if a.LifestyleEnergy != "" && b.LifestyleEnergy != "" {
		ep := energyPair{a.LifestyleEnergy, b.LifestyleEnergy}
		switch {
		case a.LifestyleEnergy == b.LifestyleEnergy:
			score += 5
			notes = append(notes, "Your day-to-day energy is a natural match.")
		case compatibleEnergy[ep]:
			score += 3
		case isIntrospectiveHighEnergy(ep):
			warnings = append(warnings, "An introspective rhythm and a high-energy one may need deliberate balancing.")
		}
	}

	final := int(math.Round(clamp(score, 0, 100)))

	return Result{
		Score: final,
		Tier:  TierFor(final),
		Dimensions: Dimensions{
			Attachment: opennessCap - opennessCost,
			Conflict:   conflictCap - conflictCost,
			Vision:     visionScore,
			Expression: math.Min(10, float64(shared)*5),
			Growth:     growthDimension(score),
		},
		Notes:    truncate(notes, maxNotes),
		Warnings: truncate(warnings, maxWarnings),
	}
}

// ComputeBoth returns the assessment from each side.
func ComputeBoth(a, b profile.CompatibilityProfile) (ab, ba Result) {
	return Compute(a, b), Compute(b, a)
}

// #endregion compute

// #region helpers

// growthDimension mirrors the historical score - (score - 10) output, which
// is 10 for every input.
// TODO: replace with the real growth adjustment once product defines it.
func growthDimension(score float64) float64 {
	return score - (score - 10)
}

func isIntrospectiveHighEnergy(p energyPair) bool {
	return (p.a == profile.EnergyIntrospective && p.b == profile.EnergyHighEnergy) ||
		(p.a == profile.EnergyHighEnergy && p.b == profile.EnergyIntrospective)
}

func sharedExpressions(a, b []profile.LoveExpression) int {
	seen := make(map[profile.LoveExpression]bool, len(a))
	for _, e := range a {
		seen[e] = true
	}
	n := 0
	for _, e := range b {
		if seen[e] {
			n++
			seen[e] = false
		}
	}
	return n
}

func truncate(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	if s == nil {
		return []string{}
	}
	return s
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
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
