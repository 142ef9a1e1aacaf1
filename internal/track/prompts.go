package track

// #region prompts

var dailyPrompts = [TotalDays]string{
	"Share one thing that made you say yes to this match.",
	"What does a good ordinary weekday look like for you?",
	"Tell each other about a friendship that has lasted. What keeps it going?",
	"Name one value you would not compromise on, and why.",
	"How was money talked about in the home you grew up in?",
	"What does rest look like for you, and how much of it do you need?",
	"Where do you see yourselves living in five years, roughly?",
	"Describe a recent stressful week. What did you need from the people around you?",
	"Talk about a disagreement you handled well in the past. What made it work?",
	"What is one habit of yours a partner might find hard? Be honest.",
	"Plan something small together with a tight time limit and notice how you decide.",
	"Looking back on the last eleven days, what surprised you about each other?",
	"What would need to be true for this to keep feeling right in six months?",
	"Decide together: continue, pause, or close. Say what you appreciated either way.",
}

// PromptForDay returns the fixed prompt for day, clamped to 1..14.
func PromptForDay(day int) string {
	if day < 1 {
		day = 1
	}
	if day > TotalDays {
		day = TotalDays
	}
	return dailyPrompts[day-1]
}

// #endregion prompts
