// Package report turns a pairwise assessment into a short narrative of what
// will feel easy with a candidate and what will take work.
package report

import (
	"fmt"

	"github.com/danielpatrickdp/pairing-engine/internal/profile"
)

// #region types

// Challenge is one thing that will take work, with a suggested opener.
type Challenge struct {
	Issue       string `json:"issue"`
	Explanation string `json:"explanation"`
	Script      string `json:"script"`
}

// Report is the qualitative summary shown next to a candidate.
type Report struct {
	CandidateName    string      `json:"candidate_name"`
	Score            int         `json:"score"`
	WhatWillFeelEasy []string    `json:"what_will_feel_easy"`
	WhatWillTakeWork []Challenge `json:"what_will_take_work"`
}

const (
	maxEasy = 3
	maxWork = 2
)

// #endregion types

// #region generate

// Generate builds the report from a's point of view. It returns nil when
// either profile is missing, which callers treat as not enough data.
func Generate(a, b *profile.CompatibilityProfile, candidateName string, score int) *Report {
	if a == nil || b == nil {
		return nil
	}

	opennessGap := absInt(a.EmotionalOpenness - b.EmotionalOpenness)
	conflictGap := absInt(a.ConflictSpeed - b.ConflictSpeed)

	var easy []string
	if a.RelationshipVision == b.RelationshipVision {
		easy = append(easy, fmt.Sprintf("You and %s both want a %s relationship, so you're building toward the same thing.", candidateName, a.RelationshipVision))
	}
	if opennessGap <= 1 {
		easy = append(easy, fmt.Sprintf("You and %s open up at a similar pace, so closeness should build naturally.", candidateName))
	}
	if conflictGap <= 1 {
		easy = append(easy, fmt.Sprintf("You and %s handle disagreements on a similar clock.", candidateName))
	}
	if len(easy) == 0 {
		easy = append(easy, fmt.Sprintf("You and %s share a baseline compatibility worth exploring.", candidateName))
	}

	var work []Challenge
	if conflictGap >= 3 {
		work = append(work, conflictChallenge(a, candidateName))
	}
	if c, ok := supportChallenge(a, b, candidateName); ok {
		work = append(work, c)
	}
	if opennessGap >= 3 {
		work = append(work, opennessChallenge(a, b, candidateName))
	}

	if len(easy) > maxEasy {
		easy = easy[:maxEasy]
	}
	if len(work) > maxWork {
		work = work[:maxWork]
	}
	if work == nil {
		work = []Challenge{}
	}

	return &Report{
		CandidateName:    candidateName,
		Score:            score,
		WhatWillFeelEasy: easy,
		WhatWillTakeWork: work,
	}
}

// #endregion generate

// #region challenges

// A higher conflict speed means needing more space before resolving.
func conflictChallenge(a *profile.CompatibilityProfile, name string) Challenge {
	if a.ConflictSpeed >= 4 {
		return Challenge{
			Issue:       "Conflict timing",
			Explanation: fmt.Sprintf("You need space first, while %s wants to resolve things now.", name),
			Script:      "I care about sorting this out. Can I take an hour to think, and then we talk it through?",
		}
	}
	return Challenge{
		Issue:       "Conflict timing",
		Explanation: fmt.Sprintf("You want to resolve things now, while %s needs space first.", name),
		Script:      "I'd like to talk this through when you're ready. Can we pick a time today?",
	}
}

func supportChallenge(a, b *profile.CompatibilityProfile, name string) (Challenge, bool) {
	switch {
	case a.SupportNeed == profile.SupportValidation && b.SupportNeed == profile.SupportPractical:
		return Challenge{
			Issue:       "Support style",
			Explanation: fmt.Sprintf("You want to feel heard first, while %s tends to jump to solutions.", name),
			Script:      "Right now I don't need a fix, I just need you to hear me out.",
		}, true
	case a.SupportNeed == profile.SupportPractical && b.SupportNeed == profile.SupportValidation:
		return Challenge{
			Issue:       "Support style",
			Explanation: fmt.Sprintf("You tend to jump to solutions, while %s wants to feel heard first.", name),
			Script:      "Do you want me to help fix this, or would it help more if I just listened?",
		}, true
	}
	return Challenge{}, false
}

func opennessChallenge(a, b *profile.CompatibilityProfile, name string) Challenge {
	if a.EmotionalOpenness > b.EmotionalOpenness {
		return Challenge{
			Issue:       "Emotional depth",
			Explanation: fmt.Sprintf("You want more depth early on, while %s is more private.", name),
			Script:      "I like getting to know you. Share whatever feels comfortable, no rush.",
		}
	}
	return Challenge{
		Issue:       "Emotional depth",
		Explanation: fmt.Sprintf("You're more private, while %s wants more depth early on.", name),
		Script:      "I open up slowly, but I'm interested. Give me a little time and I'll get there.",
	}
}

// #endregion challenges

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
