package conversation

import (
	"math"
	"regexp"
	"strings"
)

var (
	confusionKeywords = wholeWords(
		"confused", "confusing", "don't understand", "do not understand", "not sure",
		"lost", "unclear", "don't get", "makes no sense", "what do you mean",
	)

	understandingKeywords = []string{
		"algorithm", "complexity", "data structure", "big o", "recursion",
		"iterate", "edge case", "pointer", "hash", "binary search",
		"dynamic programming", "greedy", "invariant", "trade-off", "memoiz",
	}

	struggleKeywords = wholeWords(
		"stuck", "need help", "help me", "hint", "struggling",
		"can't see", "can't figure", "can't solve", "cannot see", "cannot figure", "cannot solve",
		"no idea", "give up", "too hard", "don't know",
	)

	codeMarkers = []string{"```", "func ", "def ", "return ", "class ", "=>", "for (", "while (", "){"}

	optimizationKeywords = []string{"complexity", "big o", "o(", "optimiz", "faster", "memory"}
)

// Engagement summarizes how actively the learner is participating.
type Engagement struct {
	IsEngaged       bool    `json:"is_engaged"`
	IsConfused      bool    `json:"is_confused"`
	ResponseQuality float64 `json:"response_quality"` // 0-1
}

// Signals are the per-exchange observations a decision is made from.
type Signals struct {
	Engagement       Engagement `json:"engagement"`
	Understanding    float64    `json:"understanding"` // 0-1
	Struggling       bool       `json:"struggling"`
	NeedsAlternative bool       `json:"needs_alternative"`
}

// HasCode reports whether text contains a code fence or code-like syntax.
func HasCode(text string) bool {
	return containsAny(strings.ToLower(text), codeMarkers)
}

// MeasureEngagement scores engagement from the recent user messages and
// the latest one, which must be the last element of recent.
func MeasureEngagement(recent []string, latest string) Engagement {
	avg := averageLength(recent)
	lower := strings.ToLower(latest)
	question := strings.Contains(latest, "?")
	code := HasCode(latest)

	quality := 0.5
	if avg > 50 {
		quality += 0.2
	}
	if question {
		quality += 0.2
	}
	if code {
		quality += 0.3
	}
	return Engagement{
		IsEngaged:       avg > 20 || question || code,
		IsConfused:      confusionKeywords.any(lower),
		ResponseQuality: math.Min(1, quality),
	}
}

// UnderstandingScore estimates comprehension from a single message, 0-1.
func UnderstandingScore(message string) float64 {
	lower := strings.ToLower(message)
	score := 0.5
	score += 0.1 * float64(countMatches(lower, understandingKeywords))
	score -= 0.15 * float64(confusionKeywords.count(lower))
	if HasCode(message) {
		score += 0.2
	}
	if strings.Contains(message, "?") {
		score += 0.05
	}
	return math.Max(0, math.Min(1, score))
}

// Concepts returns the understanding keywords mentioned in message.
func Concepts(message string) []string {
	lower := strings.ToLower(message)
	var out []string
	for _, k := range understandingKeywords {
		if strings.Contains(lower, k) {
			out = append(out, k)
		}
	}
	return out
}

// TalksOptimization reports whether message discusses efficiency.
func TalksOptimization(message string) bool {
	return containsAny(strings.ToLower(message), optimizationKeywords)
}

func isStruggling(lastUser []string, hintsUsed int) bool {
	if hintsUsed > 2 {
		return true
	}
	for _, m := range lastUser {
		if struggleKeywords.any(strings.ToLower(m)) {
			return true
		}
	}
	return false
}

func averageLength(msgs []string) float64 {
	if len(msgs) == 0 {
		return 0
	}
	total := 0
	for _, m := range msgs {
		total += len([]rune(m))
	}
	return float64(total) / float64(len(msgs))
}

func containsAny(lower string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

func countMatches(lower string, keywords []string) int {
	n := 0
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			n++
		}
	}
	return n
}

// phrases match only on word boundaries, so "help" never fires inside "helper".
type phrases []*regexp.Regexp

func wholeWords(list ...string) phrases {
	out := make(phrases, len(list))
	for i, p := range list {
		out[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(p) + `\b`)
	}
	return out
}

func (ps phrases) any(lower string) bool {
	for _, p := range ps {
		if p.MatchString(lower) {
			return true
		}
	}
	return false
}

func (ps phrases) count(lower string) int {
	n := 0
	for _, p := range ps {
		if p.MatchString(lower) {
			n++
		}
	}
	return n
}
