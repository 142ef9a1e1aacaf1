package ranking

import (
	"fmt"
	"math"
)

// #region filter

// Filter applies hard pass/fail rules before a candidate can rank.
type Filter struct {
	config FilterConfig
}

// NewFilter creates a filter with the given thresholds.
func NewFilter(config FilterConfig) *Filter {
	return &Filter{config: config}
}

// Evaluate runs every hard filter and collects a reason for each failure.
// A pair passes only when no reason is collected.
func (f *Filter) Evaluate(a, b OnboardingProfile) (bool, []string) {
	var reasons []string

	// 1. Timeline gap
	gap := math.Abs(a.TimelineMonths - b.TimelineMonths)
	if gap > f.config.MaxTimelineGapMonths {
		reasons = append(reasons, fmt.Sprintf("timeline gap %.0f months exceeds %.0f", gap, f.config.MaxTimelineGapMonths))
	}

	// 2. Marriage-minded against exploring, either direction
	if isIntentClash(a.Intent, b.Intent) {
		reasons = append(reasons, fmt.Sprintf("intent %s is incompatible with %s", a.Intent, b.Intent))
	}

	return len(reasons) == 0, reasons
}

// PassesHardFilters evaluates the stock filters.
func PassesHardFilters(a, b OnboardingProfile) (bool, []string) {
	return NewFilter(DefaultFilterConfig()).Evaluate(a, b)
}

func isIntentClash(a, b Intent) bool {
	return (a == IntentMarriageMinded && b == IntentExploring) ||
		(a == IntentExploring && b == IntentMarriageMinded)
}

// #endregion filter
