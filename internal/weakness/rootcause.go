package weakness

import (
	"github.com/abhisek/quizpace/internal/difficulty"
	"github.com/abhisek/quizpace/internal/performance"
)

// DefaultRootCause is reported when no rule matches.
const DefaultRootCause = "requires focused practice and review"

// CauseInput is the evidence a root-cause rule inspects.
type CauseInput struct {
	Area   performance.WeaknessArea
	Domain *performance.DomainStats // nil when no matching domain record exists
}

// CauseRule reports a root cause when it applies to the input.
type CauseRule interface {
	Name() string
	Cause(in *CauseInput) (string, bool)
}

// DefaultCauseRules returns the rules in reporting priority order.
func DefaultCauseRules() []CauseRule {
	return []CauseRule{
		&fundamentalGapRule{},
		&inconsistentApplicationRule{},
		&lowVolumeRule{},
		&easyRelianceRule{},
		&slowPaceRule{},
		&decliningRule{},
	}
}

// RootCauses runs every rule and collects the causes that apply, in rule
// order. Unlike a first-match chain, several causes can hold at once.
func RootCauses(rules []CauseRule, in *CauseInput) []string {
	var causes []string
	for _, r := range rules {
		if c, ok := r.Cause(in); ok {
			causes = append(causes, c)
		}
	}
	if len(causes) == 0 {
		return []string{DefaultRootCause}
	}
	return causes
}

type fundamentalGapRule struct{}

func (fundamentalGapRule) Name() string { return "fundamental-gap" }

func (fundamentalGapRule) Cause(in *CauseInput) (string, bool) {
	if in.Area.Accuracy < 40 {
		return "fundamental knowledge gaps in core concepts", true
	}
	return "", false
}

type inconsistentApplicationRule struct{}

func (inconsistentApplicationRule) Name() string { return "inconsistent-application" }

func (inconsistentApplicationRule) Cause(in *CauseInput) (string, bool) {
	if in.Area.Accuracy >= 40 && in.Area.Accuracy < 60 {
		return "inconsistent application of known concepts", true
	}
	return "", false
}

type lowVolumeRule struct{}

func (lowVolumeRule) Name() string { return "low-volume" }

func (lowVolumeRule) Cause(in *CauseInput) (string, bool) {
	if in.Area.QuestionsAttempted < 10 {
		return "insufficient practice volume", true
	}
	return "", false
}

type easyRelianceRule struct{}

func (easyRelianceRule) Name() string { return "easy-reliance" }

func (easyRelianceRule) Cause(in *CauseInput) (string, bool) {
	if in.Domain == nil {
		return "", false
	}
	dist := in.Domain.DifficultyDistribution
	if dist[difficulty.Easy] > 3*dist[difficulty.Hard] {
		return "over-reliance on easy questions", true
	}
	return "", false
}

// slowPaceThreshold is the per-question time, in seconds, past which time
// management is flagged.
const slowPaceThreshold = 180

type slowPaceRule struct{}

func (slowPaceRule) Name() string { return "slow-pace" }

func (slowPaceRule) Cause(in *CauseInput) (string, bool) {
	if in.Domain != nil && in.Domain.AverageTimeSpent > slowPaceThreshold {
		return "time management issues", true
	}
	return "", false
}

type decliningRule struct{}

func (decliningRule) Name() string { return "declining" }

func (decliningRule) Cause(in *CauseInput) (string, bool) {
	if in.Area.ImprovementTrend < -0.1 {
		return "declining performance suggests the current strategy needs to change", true
	}
	return "", false
}
