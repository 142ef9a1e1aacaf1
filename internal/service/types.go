package service

import (
	"github.com/danielpatrickdp/pairing-engine/internal/compat"
	"github.com/danielpatrickdp/pairing-engine/internal/logging"
	"github.com/danielpatrickdp/pairing-engine/internal/report"
	"github.com/danielpatrickdp/pairing-engine/internal/track"
)

// #region transition-logger

// TransitionLogger records every action sent to a track.
type TransitionLogger interface {
	LogTransition(entry logging.TransitionEntry) error
}

// #endregion transition-logger

// #region results

// ActionResult is what ApplyAction returns to the caller.
type ActionResult struct {
	Track   track.DecisionTrack `json:"track"`
	Applied bool                `json:"applied"` // false when the action was a no-op
	Prompt  string              `json:"prompt"`  // today's prompt after the action
}

// ScoredCandidate is one pairwise, learning-adjusted result.
type ScoredCandidate struct {
	CandidateID string         `json:"candidate_id"`
	Score       int            `json:"score"`
	Tier        compat.Tier    `json:"tier"`
	Notes       []string       `json:"notes"`
	Warnings    []string       `json:"warnings"`
	Report      *report.Report `json:"report,omitempty"`
}

// #endregion results
