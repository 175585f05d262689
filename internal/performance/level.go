package performance

// Severity ranks how badly a weakness area needs attention.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// SeverityFor classifies accuracy (0-100) into a severity band.
func SeverityFor(accuracy float64) Severity {
	switch {
	case accuracy < 30:
		return SeverityCritical
	case accuracy < 45:
		return SeverityHigh
	case accuracy < 60:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// Rank orders severities: low=0 ... critical=3.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityHigh:
		return 2
	case SeverityMedium:
		return 1
	default:
		return 0
	}
}

// MasteryLevel is the learner's standing at a tier, judged on accuracy
// and sample size together.
type MasteryLevel string

const (
	MasteryNovice       MasteryLevel = "novice"
	MasteryBeginner     MasteryLevel = "beginner"
	MasteryIntermediate MasteryLevel = "intermediate"
	MasteryAdvanced     MasteryLevel = "advanced"
	MasteryExpert       MasteryLevel = "expert"
)

// MasteryFor classifies a tier record. A handful of lucky answers never
// counts as mastery: each level needs a minimum number of questions.
func MasteryFor(accuracy float64, answered int) MasteryLevel {
	switch {
	case answered < 5:
		return MasteryNovice
	case accuracy >= 90 && answered >= 50:
		return MasteryExpert
	case accuracy >= 80 && answered >= 30:
		return MasteryAdvanced
	case accuracy >= 70 && answered >= 15:
		return MasteryIntermediate
	case accuracy >= 50:
		return MasteryBeginner
	default:
		return MasteryNovice
	}
}

// TierConfidence is how much a tier record can be trusted, 0-1.
func TierConfidence(answered int) float64 {
	return clamp(float64(answered)/50, 0, 1)
}
