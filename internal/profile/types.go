// Package profile holds the compatibility profile built from onboarding answers
// and the pure functions that derive its attachment axis and readiness score.
package profile

// #region enums

// PastAttribution is how a user explains why past relationships ended.
type PastAttribution string

const (
	AttributionExternal        PastAttribution = "external"
	AttributionMisalignedGoals PastAttribution = "misaligned_goals"
	AttributionConflictComm    PastAttribution = "conflict_comm"
	AttributionSelf            PastAttribution = "self"
	AttributionTiming          PastAttribution = "timing"
)

// LoveExpression is a way of showing care.
type LoveExpression string

const (
	ExpressionWords LoveExpression = "words"
	ExpressionTime  LoveExpression = "time"
	ExpressionTouch LoveExpression = "touch"
	ExpressionActs  LoveExpression = "acts"
	ExpressionGifts LoveExpression = "gifts"
)

// SupportNeed is what a user wants from a partner under stress.
type SupportNeed string

const (
	SupportSpace       SupportNeed = "space"
	SupportDistraction SupportNeed = "distraction"
	SupportValidation  SupportNeed = "validation"
	SupportPractical   SupportNeed = "practical"
	SupportPresence    SupportNeed = "presence"
)

// Vision is the shape of relationship a user is looking for.
type Vision string

const (
	VisionIndependent Vision = "independent"
	VisionEnmeshed    Vision = "enmeshed"
	VisionFriendship  Vision = "friendship"
	VisionSafe        Vision = "safe"
	VisionAdventure   Vision = "adventure"
)

// Strength is a relational strength a user brings.
type Strength string

const (
	StrengthConsistency Strength = "consistency"
	StrengthLoyalty     Strength = "loyalty"
	StrengthJoy         Strength = "joy"
	StrengthSupport     Strength = "support"
	StrengthHonesty     Strength = "honesty"
	StrengthPatience    Strength = "patience"
)

// GrowthIntention is what a user hopes to get out of the next relationship.
type GrowthIntention string

const (
	GrowthDepth     GrowthIntention = "depth"
	GrowthChosen    GrowthIntention = "chosen"
	GrowthAlignment GrowthIntention = "alignment"
	GrowthPeace     GrowthIntention = "peace"
)

// LifestyleEnergy is an optional tag for day-to-day energy.
type LifestyleEnergy string

const (
	EnergyIntrospective LifestyleEnergy = "introspective"
	EnergyIntellectual  LifestyleEnergy = "intellectual"
	EnergyHighEnergy    LifestyleEnergy = "high_energy"
	EnergySpontaneous   LifestyleEnergy = "spontaneous"
	EnergySocial        LifestyleEnergy = "social"
)

// AttachmentAxis is the derived attachment label.
type AttachmentAxis string

const (
	AxisSecure       AttachmentAxis = "secure"
	AxisAnxiousLean  AttachmentAxis = "anxious-lean"
	AxisAnxious      AttachmentAxis = "anxious"
	AxisAvoidantLean AttachmentAxis = "avoidant-lean"
	AxisAvoidant     AttachmentAxis = "avoidant"
)

// #endregion enums

// #region compatibility-profile

// CompatibilityProfile is the self-report shape used for pairwise scoring.
// AttachmentAxis and ReadinessScore are derived; use Derive to fill them.
type CompatibilityProfile struct {
	UserID              string           `json:"user_id" validate:"required"`
	PastAttribution     PastAttribution  `json:"past_attribution" validate:"required,oneof=external misaligned_goals conflict_comm self timing"`
	ConflictSpeed       int              `json:"conflict_speed" validate:"min=1,max=5"`
	LoveExpressions     []LoveExpression `json:"love_expressions" validate:"max=2,unique,dive,oneof=words time touch acts gifts"`
	SupportNeed         SupportNeed      `json:"support_need" validate:"required,oneof=space distraction validation practical presence"`
	EmotionalOpenness   int              `json:"emotional_openness" validate:"min=1,max=5"`
	RelationshipVision  Vision           `json:"relationship_vision" validate:"required,oneof=independent enmeshed friendship safe adventure"`
	RelationalStrengths []Strength       `json:"relational_strengths" validate:"max=2,unique,dive,oneof=consistency loyalty joy support honesty patience"`
	GrowthIntention     GrowthIntention  `json:"growth_intention" validate:"required,oneof=depth chosen alignment peace"`
	LifestyleEnergy     LifestyleEnergy  `json:"lifestyle_energy,omitempty" validate:"omitempty,oneof=introspective intellectual high_energy spontaneous social"`

	AttachmentAxis AttachmentAxis `json:"attachment_axis"`
	ReadinessScore int            `json:"readiness_score"`
}

// HasStrength reports whether s is among the profile's relational strengths.
func (p CompatibilityProfile) HasStrength(s Strength) bool {
	for _, v := range p.RelationalStrengths {
		if v == s {
			return true
		}
	}
	return false
}

// #endregion compatibility-profile
